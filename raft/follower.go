package raft

import (
	"math/rand"
	"time"

	"github.com/xmh1011/raftd/executor"
	"github.com/xmh1011/raftd/param"
)

// followerRole 在选举超时内收不到 Leader 的心跳就发起选举。
type followerRole struct {
	activeRole

	timer *executor.Timer
}

func newFollowerRole(c *Context) *followerRole {
	r := &followerRole{}
	r.init(c, param.Follower)
	return r
}

func (r *followerRole) Type() param.State {
	return param.Follower
}

func (r *followerRole) Open() error {
	r.resetElectionTimer()
	return nil
}

func (r *followerRole) Close() error {
	if r.timer != nil {
		r.timer.Stop()
	}
	return nil
}

// resetElectionTimer 重新装载随机化的选举定时器。
// 随机范围 [timeout, 2*timeout)，避免各节点同时发起选举。
func (r *followerRole) resetElectionTimer() {
	if r.timer != nil {
		r.timer.Stop()
	}
	timeout := r.ctx.electionTimeout + time.Duration(rand.Int63n(int64(r.ctx.electionTimeout)))
	r.timer = r.ctx.exec.Schedule(timeout, r.onElectionTimeout)
}

// onElectionTimeout 在状态线程上触发。角色可能在定时器入队后已经被
// 换掉，过期事件直接忽略。
func (r *followerRole) onElectionTimeout() {
	if r.ctx.role != Role(r) {
		return
	}
	r.logger.Info("Election timeout elapsed, transitioning to candidate")
	if err := r.ctx.Transition(param.Candidate); err != nil {
		r.logger.WithError(err).Error("Failed to start election")
	}
}

// 收到 Leader 的任何复制类请求都说明 Leader 还活着，重置选举定时器。

func (r *followerRole) OnAppend(args *param.AppendArgs, reply *param.AppendReply) error {
	err := r.activeRole.OnAppend(args, reply)
	if args.Term >= r.ctx.term {
		r.resetElectionTimer()
	}
	return err
}

func (r *followerRole) OnConfigure(args *param.ConfigureArgs, reply *param.ConfigureReply) error {
	err := r.activeRole.OnConfigure(args, reply)
	if args.Term >= r.ctx.term {
		r.resetElectionTimer()
	}
	return err
}

func (r *followerRole) OnInstall(args *param.InstallArgs, reply *param.InstallReply) error {
	err := r.activeRole.OnInstall(args, reply)
	if args.Term >= r.ctx.term {
		r.resetElectionTimer()
	}
	return err
}

func (r *followerRole) OnVote(args *param.VoteArgs, reply *param.VoteReply) error {
	err := r.activeRole.OnVote(args, reply)
	if reply.Voted {
		// 投出一票后给对方一个完整的选举窗口。
		r.resetElectionTimer()
	}
	return err
}
