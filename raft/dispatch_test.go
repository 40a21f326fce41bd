package raft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmh1011/raftd/param"
	"github.com/xmh1011/raftd/storage"
	"github.com/xmh1011/raftd/transport/inmemory"
)

// 晚绑定分发：连接打开时注册的转发函数必须始终命中当时激活的角色，
// 而不是注册那一刻的角色。

func TestDispatchResolvesCurrentRole(t *testing.T) {
	network := inmemory.NewNetwork()
	single := []param.Member{param.NewMember(1, param.MemberActive, "s1", "")}
	c := newTestContext(t, 1, withMembers(single), withNetwork(network))

	conn := network.Endpoint("s1")
	c.ConnectServer(conn)

	cmd, err := storage.EncodeKVCommand(storage.KVCommand{Op: "put", Key: "a", Value: "1"})
	require.NoError(t, err)

	// Inactive 角色拒绝命令。
	reply := &param.CommandReply{}
	require.NoError(t, network.Transport().SendCommand("s1", &param.CommandArgs{Command: cmd}, reply))
	assert.False(t, reply.Success)
	assert.Equal(t, errInactive, reply.Error)

	// 同一条连接，切到 Leader 之后命令被接受并应用。
	run(t, c, func() error { return c.Transition(param.Leader) })

	reply = &param.CommandReply{}
	require.NoError(t, network.Transport().SendCommand("s1", &param.CommandArgs{Command: cmd}, reply))
	assert.True(t, reply.Success)
	assert.Equal(t, []byte("1"), reply.Result)

	queryReply := &param.QueryReply{}
	require.NoError(t, network.Transport().SendQuery("s1", &param.QueryArgs{Query: []byte("a")}, queryReply))
	assert.True(t, queryReply.Success)
	assert.Equal(t, []byte("1"), queryReply.Result)
}

func TestDispatchServerOperations(t *testing.T) {
	network := inmemory.NewNetwork()
	c := newTestContext(t, 1, withNetwork(network))

	conn := network.Endpoint("s1")
	c.ConnectServer(conn)

	run(t, c, func() error { return c.Transition(param.Follower) })

	// Follower 对更高任期的投票请求授出选票。
	reply := &param.VoteReply{}
	args := param.NewVoteArgs(1, 2, 0, 0)
	require.NoError(t, network.Transport().SendVote("s1", args, reply))
	assert.True(t, reply.Voted)
	assert.Equal(t, int64(1), c.Term())
	assert.Equal(t, param.MemberID(2), c.LastVotedFor())
}

func TestConnectionCloseReleasesSessions(t *testing.T) {
	network := inmemory.NewNetwork()
	c := newTestContext(t, 1, withNetwork(network))

	conn := network.Endpoint("s1")
	c.ConnectServer(conn)

	var sessionID string
	run(t, c, func() error {
		session := c.StateMachine().RegisterSession("client-1", conn)
		sessionID = session.ID
		return nil
	})

	require.NoError(t, conn.Close())

	// 关闭监听器异步封送到状态协程，排一个空任务等它生效。
	run(t, c, func() error { return nil })
	run(t, c, func() error {
		session := c.StateMachine().Session(sessionID)
		require.NotNil(t, session)
		assert.Nil(t, session.connection)
		return nil
	})
}

func TestDispatchClientOnlyConnection(t *testing.T) {
	network := inmemory.NewNetwork()
	c := newTestContext(t, 1, withNetwork(network))

	conn := network.Endpoint("s1")
	c.ConnectClient(conn)

	// 客户端连接没有服务器间操作的处理函数。
	err := network.Transport().SendVote("s1", param.NewVoteArgs(1, 2, 0, 0), &param.VoteReply{})
	assert.Error(t, err)

	// 客户端操作正常分发（Inactive 角色拒绝，但确实到达了角色）。
	reply := &param.RegisterReply{}
	require.NoError(t, conn.HandleRegister(&param.RegisterArgs{Client: "client-1"}, reply))
	assert.False(t, reply.Success)
	assert.Equal(t, errInactive, reply.Error)
}
