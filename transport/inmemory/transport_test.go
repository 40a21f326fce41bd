package inmemory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmh1011/raftd/param"
	"github.com/xmh1011/raftd/transport"
)

func TestTransportRoutesToRegisteredHandler(t *testing.T) {
	network := NewNetwork()
	conn := network.Endpoint("s1")

	conn.OnVote(func(args *param.VoteArgs, reply *param.VoteReply) error {
		reply.Term = args.Term
		reply.Voted = true
		return nil
	})

	reply := &param.VoteReply{}
	err := network.Transport().SendVote("s1", param.NewVoteArgs(3, 2, 0, 0), reply)
	require.NoError(t, err)
	assert.True(t, reply.Voted)
	assert.Equal(t, int64(3), reply.Term)
}

func TestTransportUnknownTarget(t *testing.T) {
	network := NewNetwork()
	err := network.Transport().SendVote("nowhere", param.NewVoteArgs(1, 1, 0, 0), &param.VoteReply{})
	assert.Error(t, err)
}

func TestTransportNoHandler(t *testing.T) {
	network := NewNetwork()
	network.Endpoint("s1")

	err := network.Transport().SendVote("s1", param.NewVoteArgs(1, 1, 0, 0), &param.VoteReply{})
	assert.Error(t, err)
}

func TestDisconnect(t *testing.T) {
	network := NewNetwork()
	conn := network.Endpoint("s1")
	conn.OnAppend(func(args *param.AppendArgs, reply *param.AppendReply) error {
		reply.Success = true
		return nil
	})

	var closed bool
	conn.OnClose(func() { closed = true })

	network.Disconnect("s1")

	err := network.Transport().SendAppend("s1", param.NewAppendArgs(1, 1, 0, 0, nil, 0, 0), &param.AppendReply{})
	assert.Error(t, err)
	assert.True(t, closed)
}

func TestConnectionCloseIsIdempotent(t *testing.T) {
	network := NewNetwork()
	conn := network.Endpoint("s1")

	var closes int
	conn.OnClose(func() { closes++ })

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())
	assert.Equal(t, 1, closes)
}

func TestEndpointImplementsServerConnection(t *testing.T) {
	var _ transport.ServerConnection = NewNetwork().Endpoint("s1")
}
