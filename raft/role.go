package raft

import (
	"github.com/xmh1011/raftd/param"
)

// Role 是共识角色的统一接口。六种角色（Inactive / Reserve / Passive /
// Follower / Candidate / Leader）互斥，任意时刻协调器恰好持有一个激活
// 实例。角色实现统一的 RPC 处理面；不属于自己语义的请求可以拒绝或
// 重定向（例如 Follower 把 Command 重定向给 Leader）。
//
// 生命周期：切换时先同步等待旧角色 Close 完成，再构造新角色并同步
// 等待 Open 完成。Open/Close 在状态线程上被调用，必须直接完成而不能
// 把工作调度回状态线程再等待——那会自己等自己。注册定时器、异步广播
// 都允许，只要不在 Open/Close 里阻塞等它们。
//
// 角色自身从不切换角色的持有权：它通过调用 Context.Transition 通知
// 协调器执行切换。
type Role interface {
	// Type 返回角色变体标签，无副作用。
	Type() param.State

	Open() error
	Close() error

	// 客户端操作
	OnRegister(args *param.RegisterArgs, reply *param.RegisterReply) error
	OnConnect(args *param.ConnectArgs, reply *param.ConnectReply) error
	OnKeepAlive(args *param.KeepAliveArgs, reply *param.KeepAliveReply) error
	OnUnregister(args *param.UnregisterArgs, reply *param.UnregisterReply) error
	OnCommand(args *param.CommandArgs, reply *param.CommandReply) error
	OnQuery(args *param.QueryArgs, reply *param.QueryReply) error

	// 服务器间操作
	OnAccept(args *param.AcceptArgs, reply *param.AcceptReply) error
	OnConfigure(args *param.ConfigureArgs, reply *param.ConfigureReply) error
	OnInstall(args *param.InstallArgs, reply *param.InstallReply) error
	OnJoin(args *param.JoinArgs, reply *param.JoinReply) error
	OnReconfigure(args *param.ReconfigureArgs, reply *param.ReconfigureReply) error
	OnLeave(args *param.LeaveArgs, reply *param.LeaveReply) error
	OnAppend(args *param.AppendArgs, reply *param.AppendReply) error
	OnPoll(args *param.PollArgs, reply *param.PollReply) error
	OnVote(args *param.VoteArgs, reply *param.VoteReply) error
}
