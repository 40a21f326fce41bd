package raft

import (
	"github.com/xmh1011/raftd/param"
	"github.com/xmh1011/raftd/transport"
)

// 连接上注册的转发函数捕获的是协调器而不是某个角色实例：
// 每次调用时都重新读取当前角色再委派，连接存续期间角色怎么换都不影响。
// 转发本身通过 Submit 切到状态协程串行执行。

// ConnectClient 为一条客户端连接绑定客户端操作的转发函数。
// 连接关闭时清理它持有的会话。
func (c *Context) ConnectClient(conn transport.ServerConnection) {
	conn.OnRegister(func(args *param.RegisterArgs, reply *param.RegisterReply) error {
		return c.exec.Submit(func() error { return c.role.OnRegister(args, reply) })
	})
	conn.OnConnect(func(args *param.ConnectArgs, reply *param.ConnectReply) error {
		return c.exec.Submit(func() error { return c.role.OnConnect(args, reply) })
	})
	conn.OnKeepAlive(func(args *param.KeepAliveArgs, reply *param.KeepAliveReply) error {
		return c.exec.Submit(func() error { return c.role.OnKeepAlive(args, reply) })
	})
	conn.OnUnregister(func(args *param.UnregisterArgs, reply *param.UnregisterReply) error {
		return c.exec.Submit(func() error { return c.role.OnUnregister(args, reply) })
	})
	conn.OnCommand(func(args *param.CommandArgs, reply *param.CommandReply) error {
		return c.exec.Submit(func() error { return c.role.OnCommand(args, reply) })
	})
	conn.OnQuery(func(args *param.QueryArgs, reply *param.QueryReply) error {
		return c.exec.Submit(func() error { return c.role.OnQuery(args, reply) })
	})

	conn.OnClose(func() {
		c.exec.Execute(func() {
			c.stateMachine.UnregisterConnection(conn)
		})
	})
}

// ConnectServer 为一条服务器间连接绑定全部操作的转发函数。
// 服务器连接是客户端连接的超集：客户端操作可能经由其他服务器转发过来。
func (c *Context) ConnectServer(conn transport.ServerConnection) {
	c.ConnectClient(conn)

	conn.OnAccept(func(args *param.AcceptArgs, reply *param.AcceptReply) error {
		return c.exec.Submit(func() error { return c.role.OnAccept(args, reply) })
	})
	conn.OnConfigure(func(args *param.ConfigureArgs, reply *param.ConfigureReply) error {
		return c.exec.Submit(func() error { return c.role.OnConfigure(args, reply) })
	})
	conn.OnInstall(func(args *param.InstallArgs, reply *param.InstallReply) error {
		return c.exec.Submit(func() error { return c.role.OnInstall(args, reply) })
	})
	conn.OnJoin(func(args *param.JoinArgs, reply *param.JoinReply) error {
		return c.exec.Submit(func() error { return c.role.OnJoin(args, reply) })
	})
	conn.OnReconfigure(func(args *param.ReconfigureArgs, reply *param.ReconfigureReply) error {
		return c.exec.Submit(func() error { return c.role.OnReconfigure(args, reply) })
	})
	conn.OnLeave(func(args *param.LeaveArgs, reply *param.LeaveReply) error {
		return c.exec.Submit(func() error { return c.role.OnLeave(args, reply) })
	})
	conn.OnAppend(func(args *param.AppendArgs, reply *param.AppendReply) error {
		return c.exec.Submit(func() error { return c.role.OnAppend(args, reply) })
	})
	conn.OnPoll(func(args *param.PollArgs, reply *param.PollReply) error {
		return c.exec.Submit(func() error { return c.role.OnPoll(args, reply) })
	})
	conn.OnVote(func(args *param.VoteArgs, reply *param.VoteReply) error {
		return c.exec.Submit(func() error { return c.role.OnVote(args, reply) })
	})
}
