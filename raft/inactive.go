package raft

import (
	log "github.com/sirupsen/logrus"

	"github.com/xmh1011/raftd/param"
)

const errInactive = "server is inactive"

// inactiveRole 是所有角色的基座：不参与协议，拒绝全部请求。
// 其余角色通过嵌入逐层覆盖自己语义内的处理函数。
type inactiveRole struct {
	ctx    *Context
	logger *log.Entry
}

func newInactiveRole(c *Context) *inactiveRole {
	r := &inactiveRole{}
	r.init(c, param.Inactive)
	return r
}

func (r *inactiveRole) init(c *Context, state param.State) {
	r.ctx = c
	r.logger = c.logger.WithField("role", state.String())
}

func (r *inactiveRole) Type() param.State {
	return param.Inactive
}

func (r *inactiveRole) Open() error {
	return nil
}

func (r *inactiveRole) Close() error {
	return nil
}

func (r *inactiveRole) OnRegister(args *param.RegisterArgs, reply *param.RegisterReply) error {
	reply.Success = false
	reply.Error = errInactive
	return nil
}

func (r *inactiveRole) OnConnect(args *param.ConnectArgs, reply *param.ConnectReply) error {
	reply.Success = false
	reply.Error = errInactive
	return nil
}

func (r *inactiveRole) OnKeepAlive(args *param.KeepAliveArgs, reply *param.KeepAliveReply) error {
	reply.Success = false
	reply.Error = errInactive
	return nil
}

func (r *inactiveRole) OnUnregister(args *param.UnregisterArgs, reply *param.UnregisterReply) error {
	reply.Success = false
	reply.Error = errInactive
	return nil
}

func (r *inactiveRole) OnCommand(args *param.CommandArgs, reply *param.CommandReply) error {
	reply.Success = false
	reply.Error = errInactive
	return nil
}

func (r *inactiveRole) OnQuery(args *param.QueryArgs, reply *param.QueryReply) error {
	reply.Success = false
	reply.Error = errInactive
	return nil
}

func (r *inactiveRole) OnAccept(args *param.AcceptArgs, reply *param.AcceptReply) error {
	reply.Success = false
	reply.Error = errInactive
	return nil
}

func (r *inactiveRole) OnConfigure(args *param.ConfigureArgs, reply *param.ConfigureReply) error {
	reply.Success = false
	reply.Term = r.ctx.term
	return nil
}

func (r *inactiveRole) OnInstall(args *param.InstallArgs, reply *param.InstallReply) error {
	reply.Success = false
	reply.Error = errInactive
	reply.Term = r.ctx.term
	return nil
}

func (r *inactiveRole) OnJoin(args *param.JoinArgs, reply *param.JoinReply) error {
	reply.Success = false
	reply.Error = errInactive
	return nil
}

func (r *inactiveRole) OnReconfigure(args *param.ReconfigureArgs, reply *param.ReconfigureReply) error {
	reply.Success = false
	reply.Error = errInactive
	return nil
}

func (r *inactiveRole) OnLeave(args *param.LeaveArgs, reply *param.LeaveReply) error {
	reply.Success = false
	reply.Error = errInactive
	return nil
}

func (r *inactiveRole) OnAppend(args *param.AppendArgs, reply *param.AppendReply) error {
	reply.Success = false
	reply.Term = r.ctx.term
	return nil
}

func (r *inactiveRole) OnPoll(args *param.PollArgs, reply *param.PollReply) error {
	reply.Accepted = false
	reply.Term = r.ctx.term
	return nil
}

func (r *inactiveRole) OnVote(args *param.VoteArgs, reply *param.VoteReply) error {
	reply.Voted = false
	reply.Term = r.ctx.term
	return nil
}
