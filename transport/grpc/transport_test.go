package grpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmh1011/raftd/param"
	"github.com/xmh1011/raftd/transport"
)

func newLoopback(t *testing.T) (*Server, *Transport) {
	t.Helper()
	server, err := NewServer("127.0.0.1:0")
	require.NoError(t, err)
	server.Start()
	t.Cleanup(func() { _ = server.Close() })

	trans := NewTransport()
	t.Cleanup(func() { _ = trans.Close() })
	return server, trans
}

func TestLoopbackVote(t *testing.T) {
	server, trans := newLoopback(t)

	server.Connection().OnVote(func(args *param.VoteArgs, reply *param.VoteReply) error {
		reply.Term = args.Term
		reply.Voted = args.Candidate == 2
		return nil
	})

	reply := &param.VoteReply{}
	require.NoError(t, trans.SendVote(server.Addr(), param.NewVoteArgs(4, 2, 9, 3), reply))
	assert.True(t, reply.Voted)
	assert.Equal(t, int64(4), reply.Term)
}

func TestLoopbackAppendCarriesEntries(t *testing.T) {
	server, trans := newLoopback(t)

	var got []param.LogEntry
	server.Connection().OnAppend(func(args *param.AppendArgs, reply *param.AppendReply) error {
		got = args.Entries
		reply.Success = true
		reply.LogIndex = args.PrevLogIndex + int64(len(args.Entries))
		return nil
	})

	entries := []param.LogEntry{
		param.NewLogEntry(5, 2, param.EntryCommand, []byte("payload")),
		param.NewLogEntry(6, 2, param.EntryInitialize, nil),
	}
	reply := &param.AppendReply{}
	require.NoError(t, trans.SendAppend(server.Addr(),
		param.NewAppendArgs(2, 1, 4, 2, entries, 3, 1), reply))

	assert.True(t, reply.Success)
	assert.Equal(t, int64(6), reply.LogIndex)
	require.Len(t, got, 2)
	assert.Equal(t, []byte("payload"), got[0].Command)
	assert.Equal(t, param.EntryInitialize, got[1].Type)
}

func TestLoopbackNoHandler(t *testing.T) {
	server, trans := newLoopback(t)

	err := trans.SendPoll(server.Addr(), param.NewPollArgs(1, 1, 0, 0), &param.PollReply{})
	assert.Error(t, err)
}

func TestHandlerErrorPropagates(t *testing.T) {
	server, trans := newLoopback(t)

	server.Connection().OnCommand(func(args *param.CommandArgs, reply *param.CommandReply) error {
		return assert.AnError
	})

	err := trans.SendCommand(server.Addr(), &param.CommandArgs{Command: []byte("x")}, &param.CommandReply{})
	assert.Error(t, err)
}

func TestConnectionImplementsServerConnection(t *testing.T) {
	var _ transport.ServerConnection = &Connection{}
}

func TestCodecRoundTrip(t *testing.T) {
	c := codec{}
	in := param.NewConfigureArgs(3, 1, 7, []param.Member{
		param.NewMember(1, param.MemberActive, "s1", "c1"),
	})

	data, err := c.Marshal(in)
	require.NoError(t, err)

	out := &param.ConfigureArgs{}
	require.NoError(t, c.Unmarshal(data, out))
	assert.Equal(t, in, out)
}
