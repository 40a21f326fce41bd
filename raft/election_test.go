package raft

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmh1011/raftd/param"
	"github.com/xmh1011/raftd/storage"
	"github.com/xmh1011/raftd/transport/inmemory"
)

// roleOf 在状态协程上读取当前角色。
func roleOf(c *Context) param.State {
	var state param.State
	if err := c.Executor().Submit(func() error {
		state = c.Role()
		return nil
	}); err != nil {
		return param.Inactive
	}
	return state
}

func TestSingleNodeElection(t *testing.T) {
	single := []param.Member{param.NewMember(1, param.MemberActive, "s1", "")}
	c := newTestContext(t, 1, withMembers(single))
	c.WithElectionTimeout(20 * time.Millisecond).WithHeartbeatInterval(10 * time.Millisecond)

	run(t, c, func() error { return c.TransitionMemberType(param.MemberActive) })
	assert.Equal(t, param.Follower, roleOf(c))

	// 没有别的成员，选举超时后自己的一票就是多数派。
	require.Eventually(t, func() bool { return roleOf(c) == param.Leader },
		5*time.Second, 10*time.Millisecond)

	run(t, c, func() error {
		assert.Equal(t, param.MemberID(1), c.Leader())
		assert.GreaterOrEqual(t, c.Term(), int64(1))
		return nil
	})
}

func TestThreeNodeElectionAndReplication(t *testing.T) {
	network := inmemory.NewNetwork()
	members := testMembers()

	nodes := make([]*Context, 0, len(members))
	for _, m := range members {
		c := newTestContext(t, m.ID, withMembers(members), withNetwork(network))
		c.WithElectionTimeout(100 * time.Millisecond).WithHeartbeatInterval(20 * time.Millisecond)
		c.ConnectServer(network.Endpoint(m.Address))
		nodes = append(nodes, c)
	}

	for _, c := range nodes {
		run(t, c, func() error { return c.TransitionMemberType(param.MemberActive) })
	}

	// 集群收敛到恰好一个 Leader。
	leaderOf := func() *Context {
		var leader *Context
		count := 0
		for _, c := range nodes {
			if roleOf(c) == param.Leader {
				leader = c
				count++
			}
		}
		if count != 1 {
			return nil
		}
		return leader
	}
	require.Eventually(t, func() bool { return leaderOf() != nil },
		10*time.Second, 20*time.Millisecond)

	leader := leaderOf()
	require.NotNil(t, leader)

	// 其余节点都认同这个 Leader。
	require.Eventually(t, func() bool {
		for _, c := range nodes {
			if c == leader {
				continue
			}
			var agreed bool
			if err := c.Executor().Submit(func() error {
				agreed = c.Leader() == leader.Cluster().SelfID()
				return nil
			}); err != nil {
				return false
			}
			if !agreed {
				return false
			}
		}
		return true
	}, 10*time.Second, 20*time.Millisecond)

	// 提交一条命令，最终在所有节点的状态机上都能查到。
	cmd, err := storage.EncodeKVCommand(storage.KVCommand{Op: "put", Key: "color", Value: "blue"})
	require.NoError(t, err)
	reply := &param.CommandReply{}
	require.NoError(t, network.Transport().SendCommand(
		leader.Cluster().Self().Address, &param.CommandArgs{Command: cmd}, reply))
	require.True(t, reply.Success)

	require.Eventually(t, func() bool {
		for _, c := range nodes {
			var value []byte
			if err := c.Executor().Submit(func() error {
				v, err := c.StateMachine().Query([]byte("color"))
				if err != nil {
					return err
				}
				value = v
				return nil
			}); err != nil {
				return false
			}
			if string(value) != "blue" {
				return false
			}
		}
		return true
	}, 10*time.Second, 20*time.Millisecond)
}

// 预投票被多数派拒绝时，候选者不推高任期，也不会发起正式投票。

func TestCandidatePollsBeforeVoting(t *testing.T) {
	pair := []param.Member{
		param.NewMember(1, param.MemberActive, "s1", ""),
		param.NewMember(2, param.MemberActive, "s2", ""),
	}
	network := inmemory.NewNetwork()
	c := newTestContext(t, 1, withMembers(pair), withNetwork(network))

	var polls, votes atomic.Int32
	peer := network.Endpoint("s2")
	peer.OnPoll(func(args *param.PollArgs, reply *param.PollReply) error {
		polls.Add(1)
		reply.Accepted = false
		return nil
	})
	peer.OnVote(func(args *param.VoteArgs, reply *param.VoteReply) error {
		votes.Add(1)
		return nil
	})

	run(t, c, func() error { return c.Transition(param.Candidate) })

	require.Eventually(t, func() bool { return polls.Load() >= 1 },
		5*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	assert.Zero(t, votes.Load())
	run(t, c, func() error {
		assert.Equal(t, int64(0), c.Term())
		assert.Equal(t, param.None, c.LastVotedFor())
		return nil
	})
	assert.Equal(t, param.Candidate, roleOf(c))
}

func TestCandidateWinsAfterPollAccepted(t *testing.T) {
	pair := []param.Member{
		param.NewMember(1, param.MemberActive, "s1", ""),
		param.NewMember(2, param.MemberActive, "s2", ""),
	}
	network := inmemory.NewNetwork()
	c := newTestContext(t, 1, withMembers(pair), withNetwork(network))

	var polls atomic.Int32
	peer := network.Endpoint("s2")
	peer.OnPoll(func(args *param.PollArgs, reply *param.PollReply) error {
		polls.Add(1)
		reply.Accepted = true
		return nil
	})
	peer.OnVote(func(args *param.VoteArgs, reply *param.VoteReply) error {
		// 正式投票必须发生在预投票通过之后。
		if polls.Load() == 0 {
			reply.Voted = false
			return nil
		}
		reply.Term = args.Term
		reply.Voted = true
		return nil
	})

	run(t, c, func() error { return c.Transition(param.Candidate) })

	require.Eventually(t, func() bool { return roleOf(c) == param.Leader },
		5*time.Second, 10*time.Millisecond)
	run(t, c, func() error {
		assert.Equal(t, int64(1), c.Term())
		return nil
	})
}

func TestFollowerStepsDownOnHigherTermAppend(t *testing.T) {
	network := inmemory.NewNetwork()
	c := newTestContext(t, 1, withNetwork(network))
	c.ConnectServer(network.Endpoint("s1"))

	run(t, c, func() error { return c.Transition(param.Follower) })

	args := param.NewAppendArgs(3, 2, 0, 0, nil, 0, 0)
	reply := &param.AppendReply{}
	require.NoError(t, network.Transport().SendAppend("s1", args, reply))

	assert.True(t, reply.Success)
	run(t, c, func() error {
		assert.Equal(t, int64(3), c.Term())
		assert.Equal(t, param.MemberID(2), c.Leader())
		return nil
	})
}

func TestLeaderStepsDownOnHigherTermVote(t *testing.T) {
	single := []param.Member{
		param.NewMember(1, param.MemberActive, "s1", ""),
		param.NewMember(2, param.MemberActive, "s2", ""),
	}
	network := inmemory.NewNetwork()
	c := newTestContext(t, 1, withMembers(single), withNetwork(network))
	c.ConnectServer(network.Endpoint("s1"))

	run(t, c, func() error { return c.Transition(param.Leader) })

	args := param.NewVoteArgs(5, 2, 10, 4)
	reply := &param.VoteReply{}
	require.NoError(t, network.Transport().SendVote("s1", args, reply))

	assert.True(t, reply.Voted)
	assert.Equal(t, param.Follower, roleOf(c))
	run(t, c, func() error {
		assert.Equal(t, int64(5), c.Term())
		return nil
	})
}
