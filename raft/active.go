package raft

import (
	"github.com/pkg/errors"

	"github.com/xmh1011/raftd/param"
)

// activeRole 是有投票权角色（Follower / Candidate / Leader）的公共部分，
// 承载投票规则：日志不落后的候选者才能获得本任期的一票。
type activeRole struct {
	passiveRole
}

// lastLogInfo 返回本地日志最后一条条目的索引与任期。
func (r *activeRole) lastLogInfo() (int64, int64) {
	lastIndex := r.ctx.writer.LastIndex()
	if lastIndex == 0 {
		return 0, 0
	}
	entry, err := r.ctx.reader.Entry(lastIndex)
	if err != nil {
		return lastIndex, 0
	}
	return lastIndex, entry.Term
}

// isLogUpToDate 判断候选者的日志是否不落后于本地日志。
// 先比最后一条的任期，任期相同再比索引（Raft 论文 5.4.1）。
func (r *activeRole) isLogUpToDate(lastIndex, lastTerm int64) bool {
	localIndex, localTerm := r.lastLogInfo()
	if lastTerm != localTerm {
		return lastTerm > localTerm
	}
	return lastIndex >= localIndex
}

// OnPoll 处理预投票。预投票不改变任何持久状态，只回答
// "如果你现在发起选举，我会不会投你"。
func (r *activeRole) OnPoll(args *param.PollArgs, reply *param.PollReply) error {
	reply.Term = r.ctx.term
	reply.Accepted = args.Term >= r.ctx.term && r.isLogUpToDate(args.LastLogIndex, args.LastLogTerm)
	return nil
}

// OnVote 处理正式投票请求。
func (r *activeRole) OnVote(args *param.VoteArgs, reply *param.VoteReply) error {
	ctx := r.ctx

	// 任期落后的候选者直接拒绝。
	if args.Term < ctx.term {
		reply.Term = ctx.term
		reply.Voted = false
		return nil
	}

	// 看到更高任期先推进本地任期（会清掉 leader 与 votedFor）。
	if args.Term > ctx.term {
		if err := ctx.SetTerm(args.Term); err != nil {
			return err
		}
	}
	reply.Term = ctx.term

	if !r.isLogUpToDate(args.LastLogIndex, args.LastLogTerm) {
		reply.Voted = false
		return nil
	}

	// SetLastVotedFor 自己会拒绝本任期内的二次投票和未知候选者。
	if err := ctx.SetLastVotedFor(args.Candidate); err != nil {
		if errors.Is(err, ErrAlreadyVoted) || errors.Is(err, ErrUnknownMember) {
			reply.Voted = false
			return nil
		}
		return err
	}
	reply.Voted = true
	return nil
}
