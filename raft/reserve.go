package raft

import (
	"github.com/xmh1011/raftd/param"
)

const errNotLeader = "not the leader"

// reserveRole 只跟踪任期、Leader 与提交进度，不保存日志。
// 客户端操作一律重定向到已知 Leader。
type reserveRole struct {
	inactiveRole
}

func newReserveRole(c *Context) *reserveRole {
	r := &reserveRole{}
	r.init(c, param.Reserve)
	return r
}

func (r *reserveRole) Type() param.State {
	return param.Reserve
}

// updateTermAndLeader 根据来自 Leader 的请求推进本地任期与 Leader 记录。
// 返回请求的任期是否可接受（不小于本地任期）。
func (r *reserveRole) updateTermAndLeader(term int64, leader param.MemberID) bool {
	if term < r.ctx.term {
		return false
	}
	if err := r.ctx.SetTerm(term); err != nil {
		r.logger.WithError(err).Error("Failed to persist term")
		return false
	}
	if err := r.ctx.SetLeader(leader); err != nil {
		r.logger.WithError(err).Error("Failed to set leader")
	}
	return true
}

// redirect 把客户端操作指向已知的 Leader。
func (r *reserveRole) redirect() (param.MemberID, string) {
	return r.ctx.leader, errNotLeader
}

func (r *reserveRole) OnAppend(args *param.AppendArgs, reply *param.AppendReply) error {
	if !r.updateTermAndLeader(args.Term, args.Leader) {
		reply.Term = r.ctx.term
		reply.Success = false
		return nil
	}
	// Reserve 不保存日志，只跟随提交与压缩水位。
	if args.CommitIndex > 0 {
		if err := r.ctx.SetCommitIndex(args.CommitIndex); err != nil {
			r.logger.WithError(err).Error("Failed to advance commit index")
		}
	}
	if args.GlobalIndex > 0 {
		if err := r.ctx.SetGlobalIndex(args.GlobalIndex); err != nil {
			r.logger.WithError(err).Error("Failed to advance global index")
		}
	}
	reply.Term = r.ctx.term
	reply.Success = true
	reply.LogIndex = r.ctx.writer.LastIndex()
	return nil
}

func (r *reserveRole) OnConfigure(args *param.ConfigureArgs, reply *param.ConfigureReply) error {
	if !r.updateTermAndLeader(args.Term, args.Leader) {
		reply.Term = r.ctx.term
		reply.Success = false
		return nil
	}
	r.ctx.cluster.Configure(param.Configuration{Index: args.Index, Members: args.Members})
	reply.Term = r.ctx.term
	reply.Success = true
	return nil
}

func (r *reserveRole) OnAccept(args *param.AcceptArgs, reply *param.AcceptReply) error {
	reply.Success = true
	return nil
}

func (r *reserveRole) OnRegister(args *param.RegisterArgs, reply *param.RegisterReply) error {
	reply.Success = false
	reply.Leader, reply.Error = r.redirect()
	return nil
}

func (r *reserveRole) OnConnect(args *param.ConnectArgs, reply *param.ConnectReply) error {
	reply.Success = false
	reply.Leader, reply.Error = r.redirect()
	return nil
}

func (r *reserveRole) OnKeepAlive(args *param.KeepAliveArgs, reply *param.KeepAliveReply) error {
	reply.Success = false
	reply.Leader, reply.Error = r.redirect()
	return nil
}

func (r *reserveRole) OnUnregister(args *param.UnregisterArgs, reply *param.UnregisterReply) error {
	reply.Success = false
	reply.Leader, reply.Error = r.redirect()
	return nil
}

func (r *reserveRole) OnCommand(args *param.CommandArgs, reply *param.CommandReply) error {
	reply.Success = false
	reply.Leader, reply.Error = r.redirect()
	return nil
}

func (r *reserveRole) OnQuery(args *param.QueryArgs, reply *param.QueryReply) error {
	reply.Success = false
	reply.Leader, reply.Error = r.redirect()
	return nil
}
