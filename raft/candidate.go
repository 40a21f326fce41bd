package raft

import (
	"math/rand"
	"time"

	"github.com/xmh1011/raftd/executor"
	"github.com/xmh1011/raftd/param"
)

// candidateRole 发起并主持一轮选举。
// 选举流程分两段：先用预投票试探自己的日志是否足够新（不改变任何持久
// 状态，也不推高任期），多数派认可后才正式推高任期、投自己一票、向所有
// ACTIVE 成员并发请求投票；拿到多数派选票切换为 Leader，发现更高任期或
// 现任 Leader 退回 Follower，选举超时则重来一轮。
type candidateRole struct {
	activeRole

	timer   *executor.Timer
	accepts int
	votes   int
}

func newCandidateRole(c *Context) *candidateRole {
	r := &candidateRole{}
	r.init(c, param.Candidate)
	return r
}

func (r *candidateRole) Type() param.State {
	return param.Candidate
}

func (r *candidateRole) Open() error {
	return r.startElection()
}

func (r *candidateRole) Close() error {
	if r.timer != nil {
		r.timer.Stop()
	}
	return nil
}

// startElection 开始新一轮选举，从预投票阶段起步。
// 预投票在当前任期之上试探：被多数派拒绝时不会留下推高的任期。
func (r *candidateRole) startElection() error {
	ctx := r.ctx
	pollTerm := ctx.term
	lastLogIndex, lastLogTerm := r.lastLogInfo()
	r.accepts = 1 // 自己先认可自己
	r.logger.WithField("term", pollTerm).Info("Starting pre-vote round")

	if r.accepts >= ctx.cluster.Quorum() {
		if err := r.startVoting(); err != nil {
			return err
		}
	} else {
		for _, member := range ctx.cluster.RemoteMembers(param.MemberActive) {
			args := param.NewPollArgs(pollTerm+1, ctx.cluster.SelfID(), lastLogIndex, lastLogTerm)
			target := member.Address
			go func() {
				reply := &param.PollReply{}
				if err := ctx.trans.SendPoll(target, args, reply); err != nil {
					return
				}
				ctx.exec.Execute(func() { r.handlePollReply(pollTerm, reply) })
			}()
		}
	}

	// 本轮没出结果就换个随机超时重来。
	timeout := ctx.electionTimeout + time.Duration(rand.Int63n(int64(ctx.electionTimeout)))
	r.timer = ctx.exec.Schedule(timeout, r.onElectionTimeout)
	return nil
}

func (r *candidateRole) handlePollReply(pollTerm int64, reply *param.PollReply) {
	ctx := r.ctx
	// 正式投票阶段开始后任期已推高，迟到的预投票应答自然失效。
	if ctx.role != Role(r) || ctx.term != pollTerm {
		return
	}

	if reply.Term > ctx.term {
		if err := ctx.SetTerm(reply.Term); err != nil {
			r.logger.WithError(err).Error("Failed to persist term")
			return
		}
		if err := ctx.Transition(param.Follower); err != nil {
			r.logger.WithError(err).Error("Failed to step down")
		}
		return
	}

	if !reply.Accepted {
		return
	}
	r.accepts++
	if r.accepts >= ctx.cluster.Quorum() {
		if err := r.startVoting(); err != nil {
			r.logger.WithError(err).Error("Failed to start voting round")
		}
	}
}

// startVoting 进入正式投票阶段。持久化（任期 + 自投票）失败时选举无法
// 安全进行，错误向上抛给切换逻辑。
func (r *candidateRole) startVoting() error {
	ctx := r.ctx

	if err := ctx.SetTerm(ctx.term + 1); err != nil {
		return err
	}
	if err := ctx.SetLastVotedFor(ctx.cluster.SelfID()); err != nil {
		return err
	}
	r.votes = 1 // 自己的一票

	savedTerm := ctx.term
	lastLogIndex, lastLogTerm := r.lastLogInfo()
	r.logger.WithField("term", savedTerm).Info("Starting election")

	// 单节点集群：自己的一票就是多数派。胜选被推迟到下一个调度步，
	// 因为此刻可能还在安装候选者角色的切换流程里，不能嵌套切换。
	if r.votes >= ctx.cluster.Quorum() {
		ctx.exec.Execute(func() {
			if ctx.role != Role(r) || ctx.term != savedTerm {
				return
			}
			if err := ctx.Transition(param.Leader); err != nil {
				r.logger.WithError(err).Error("Failed to transition to leader")
			}
		})
		return nil
	}

	// 并发地向所有有投票权的成员请求投票，结果封送回状态线程处理。
	// 超时定时器在预投票阶段就已设好，本轮没出结果会整体重来。
	for _, member := range ctx.cluster.RemoteMembers(param.MemberActive) {
		args := param.NewVoteArgs(savedTerm, ctx.cluster.SelfID(), lastLogIndex, lastLogTerm)
		target := member.Address
		go func() {
			reply := &param.VoteReply{}
			if err := ctx.trans.SendVote(target, args, reply); err != nil {
				return
			}
			ctx.exec.Execute(func() { r.handleVoteReply(savedTerm, reply) })
		}()
	}
	return nil
}

func (r *candidateRole) handleVoteReply(electionTerm int64, reply *param.VoteReply) {
	ctx := r.ctx
	if ctx.role != Role(r) || ctx.term != electionTerm {
		return
	}

	if reply.Term > ctx.term {
		if err := ctx.SetTerm(reply.Term); err != nil {
			r.logger.WithError(err).Error("Failed to persist term")
			return
		}
		if err := ctx.Transition(param.Follower); err != nil {
			r.logger.WithError(err).Error("Failed to step down")
		}
		return
	}

	if !reply.Voted {
		return
	}
	r.votes++
	if r.votes >= ctx.cluster.Quorum() {
		r.logger.WithField("term", ctx.term).Info("Won election")
		if err := ctx.Transition(param.Leader); err != nil {
			r.logger.WithError(err).Error("Failed to transition to leader")
		}
	}
}

func (r *candidateRole) onElectionTimeout() {
	if r.ctx.role != Role(r) {
		return
	}
	r.logger.Info("Election timed out, restarting")
	if err := r.startElection(); err != nil {
		r.logger.WithError(err).Error("Failed to restart election")
	}
}

// OnAppend：现任 Leader 的心跳意味着选举已经有了结果，退回 Follower
// 再按 Follower 的逻辑处理请求。
func (r *candidateRole) OnAppend(args *param.AppendArgs, reply *param.AppendReply) error {
	if args.Term >= r.ctx.term {
		if err := r.ctx.Transition(param.Follower); err != nil {
			return err
		}
		return r.ctx.role.OnAppend(args, reply)
	}
	return r.activeRole.OnAppend(args, reply)
}

func (r *candidateRole) OnVote(args *param.VoteArgs, reply *param.VoteReply) error {
	// 更高任期的候选者出现时让位，退回 Follower 按常规规则投票。
	if args.Term > r.ctx.term {
		if err := r.ctx.SetTerm(args.Term); err != nil {
			return err
		}
		if err := r.ctx.Transition(param.Follower); err != nil {
			return err
		}
		return r.ctx.role.OnVote(args, reply)
	}
	// 本任期内自己已投给自己，其他候选者拿不到这票。
	reply.Term = r.ctx.term
	reply.Voted = false
	return nil
}
