package transport

import (
	"github.com/xmh1011/raftd/param"
)

// 每种 RPC 对应一个处理函数类型。处理函数在注册后由连接在收到
// 请求时回调；协调器注册的是"转发闭包"——闭包在调用时才解析当前
// 激活的角色，因此角色切换后无需重新注册。

type RegisterHandler func(args *param.RegisterArgs, reply *param.RegisterReply) error
type ConnectHandler func(args *param.ConnectArgs, reply *param.ConnectReply) error
type AcceptHandler func(args *param.AcceptArgs, reply *param.AcceptReply) error
type KeepAliveHandler func(args *param.KeepAliveArgs, reply *param.KeepAliveReply) error
type UnregisterHandler func(args *param.UnregisterArgs, reply *param.UnregisterReply) error
type ConfigureHandler func(args *param.ConfigureArgs, reply *param.ConfigureReply) error
type InstallHandler func(args *param.InstallArgs, reply *param.InstallReply) error
type JoinHandler func(args *param.JoinArgs, reply *param.JoinReply) error
type ReconfigureHandler func(args *param.ReconfigureArgs, reply *param.ReconfigureReply) error
type LeaveHandler func(args *param.LeaveArgs, reply *param.LeaveReply) error
type AppendHandler func(args *param.AppendArgs, reply *param.AppendReply) error
type PollHandler func(args *param.PollArgs, reply *param.PollReply) error
type VoteHandler func(args *param.VoteArgs, reply *param.VoteReply) error
type CommandHandler func(args *param.CommandArgs, reply *param.CommandReply) error
type QueryHandler func(args *param.QueryArgs, reply *param.QueryReply) error

// ServerConnection 是一条入站连接的处理端。连接建立后，协调器为每种
// RPC 注册一个处理函数；连接关闭时回调 OnClose 注册的监听器（用于
// 注销挂在该连接上的客户端会话）。
//
// ClientConnection（客户端连接）只会收到客户端操作；服务器间连接会
// 收到全部操作（请求可在服务器之间代理），因此这里是全集。
type ServerConnection interface {
	OnRegister(handler RegisterHandler)
	OnConnect(handler ConnectHandler)
	OnAccept(handler AcceptHandler)
	OnKeepAlive(handler KeepAliveHandler)
	OnUnregister(handler UnregisterHandler)
	OnConfigure(handler ConfigureHandler)
	OnInstall(handler InstallHandler)
	OnJoin(handler JoinHandler)
	OnReconfigure(handler ReconfigureHandler)
	OnLeave(handler LeaveHandler)
	OnAppend(handler AppendHandler)
	OnPoll(handler PollHandler)
	OnVote(handler VoteHandler)
	OnCommand(handler CommandHandler)
	OnQuery(handler QueryHandler)

	// OnClose 注册连接关闭监听器。
	OnClose(listener func())
	// Close 关闭连接并触发关闭监听器。
	Close() error
}

// Transport 定义了角色向对端服务器发送 RPC 所需的方法。
// target 是对端的服务器间通信地址。
type Transport interface {
	SendAppend(target string, args *param.AppendArgs, reply *param.AppendReply) error
	SendPoll(target string, args *param.PollArgs, reply *param.PollReply) error
	SendVote(target string, args *param.VoteArgs, reply *param.VoteReply) error
	SendConfigure(target string, args *param.ConfigureArgs, reply *param.ConfigureReply) error
	SendInstall(target string, args *param.InstallArgs, reply *param.InstallReply) error
	SendCommand(target string, args *param.CommandArgs, reply *param.CommandReply) error
	SendQuery(target string, args *param.QueryArgs, reply *param.QueryReply) error

	Close() error
}
