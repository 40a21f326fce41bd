package grpc

import (
	"context"
	"net"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/xmh1011/raftd/param"
	"github.com/xmh1011/raftd/transport"
)

const serviceName = "raftd.RaftService"

var errNoHandler = errors.New("grpc: no handler registered")

// method 把一个按连接分发的调用包装成 gRPC 方法描述。
// 服务描述是手写的，消息走 gob，所以不依赖任何生成代码。
func method[Args any, Reply any](name string, invoke func(*Connection, *Args, *Reply) error) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
			args := new(Args)
			if err := dec(args); err != nil {
				return nil, err
			}
			reply := new(Reply)
			if err := invoke(srv.(*Connection), args, reply); err != nil {
				return nil, err
			}
			return reply, nil
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*interface{})(nil),
	Methods: []grpc.MethodDesc{
		method("Register", (*Connection).handleRegister),
		method("Connect", (*Connection).handleConnect),
		method("Accept", (*Connection).handleAccept),
		method("KeepAlive", (*Connection).handleKeepAlive),
		method("Unregister", (*Connection).handleUnregister),
		method("Configure", (*Connection).handleConfigure),
		method("Install", (*Connection).handleInstall),
		method("Join", (*Connection).handleJoin),
		method("Reconfigure", (*Connection).handleReconfigure),
		method("Leave", (*Connection).handleLeave),
		method("Append", (*Connection).handleAppend),
		method("Poll", (*Connection).handlePoll),
		method("Vote", (*Connection).handleVote),
		method("Command", (*Connection).handleCommand),
		method("Query", (*Connection).handleQuery),
	},
	Streams: []grpc.StreamDesc{},
}

// Server 用 gRPC 对外暴露服务器间与客户端操作。
// 所有入站调用汇聚到同一条 Connection 上，由协调器注册的转发函数分发。
type Server struct {
	listener net.Listener
	server   *grpc.Server
	conn     *Connection
}

// NewServer 在 listenAddr 上监听并构造服务端。调用 Start 之前不会开始服务。
func NewServer(listenAddr string) (*Server, error) {
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen on %s", listenAddr)
	}
	s := &Server{
		listener: listener,
		server:   grpc.NewServer(grpc.ForceServerCodec(codec{})),
		conn:     &Connection{},
	}
	s.server.RegisterService(&serviceDesc, s.conn)
	return s, nil
}

// Addr 返回实际监听的地址。
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Connection 返回入站连接，交给协调器的 ConnectServer/ConnectClient 注册处理函数。
func (s *Server) Connection() *Connection {
	return s.conn
}

// Start 在后台协程里启动 gRPC 服务。
func (s *Server) Start() {
	go func() {
		if err := s.server.Serve(s.listener); err != nil {
			log.WithError(err).Info("gRPC server stopped")
		}
	}()
	log.Infof("gRPC service started on %s", s.Addr())
}

// Close 停止服务并触发连接关闭监听器。
func (s *Server) Close() error {
	s.server.Stop()
	return s.conn.Close()
}

// Connection 是 gRPC 服务端的入站连接，实现 transport.ServerConnection。
type Connection struct {
	mu             sync.RWMutex
	register       transport.RegisterHandler
	connect        transport.ConnectHandler
	accept         transport.AcceptHandler
	keepAlive      transport.KeepAliveHandler
	unregister     transport.UnregisterHandler
	configure      transport.ConfigureHandler
	install        transport.InstallHandler
	join           transport.JoinHandler
	reconfigure    transport.ReconfigureHandler
	leave          transport.LeaveHandler
	append         transport.AppendHandler
	poll           transport.PollHandler
	vote           transport.VoteHandler
	command        transport.CommandHandler
	query          transport.QueryHandler
	closeListeners []func()
	closed         bool
}

func (c *Connection) OnRegister(h transport.RegisterHandler) { c.set(func() { c.register = h }) }
func (c *Connection) OnConnect(h transport.ConnectHandler)   { c.set(func() { c.connect = h }) }
func (c *Connection) OnAccept(h transport.AcceptHandler)     { c.set(func() { c.accept = h }) }
func (c *Connection) OnKeepAlive(h transport.KeepAliveHandler) {
	c.set(func() { c.keepAlive = h })
}
func (c *Connection) OnUnregister(h transport.UnregisterHandler) {
	c.set(func() { c.unregister = h })
}
func (c *Connection) OnConfigure(h transport.ConfigureHandler) {
	c.set(func() { c.configure = h })
}
func (c *Connection) OnInstall(h transport.InstallHandler) { c.set(func() { c.install = h }) }
func (c *Connection) OnJoin(h transport.JoinHandler)       { c.set(func() { c.join = h }) }
func (c *Connection) OnReconfigure(h transport.ReconfigureHandler) {
	c.set(func() { c.reconfigure = h })
}
func (c *Connection) OnLeave(h transport.LeaveHandler)     { c.set(func() { c.leave = h }) }
func (c *Connection) OnAppend(h transport.AppendHandler)   { c.set(func() { c.append = h }) }
func (c *Connection) OnPoll(h transport.PollHandler)       { c.set(func() { c.poll = h }) }
func (c *Connection) OnVote(h transport.VoteHandler)       { c.set(func() { c.vote = h }) }
func (c *Connection) OnCommand(h transport.CommandHandler) { c.set(func() { c.command = h }) }
func (c *Connection) OnQuery(h transport.QueryHandler)     { c.set(func() { c.query = h }) }

func (c *Connection) set(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

// OnClose 注册连接关闭监听器。
func (c *Connection) OnClose(listener func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeListeners = append(c.closeListeners, listener)
}

// Close 关闭连接并触发关闭监听器，幂等。
func (c *Connection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	listeners := c.closeListeners
	c.mu.Unlock()

	for _, listener := range listeners {
		listener()
	}
	return nil
}

func (c *Connection) handleRegister(args *param.RegisterArgs, reply *param.RegisterReply) error {
	c.mu.RLock()
	h := c.register
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) handleConnect(args *param.ConnectArgs, reply *param.ConnectReply) error {
	c.mu.RLock()
	h := c.connect
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) handleAccept(args *param.AcceptArgs, reply *param.AcceptReply) error {
	c.mu.RLock()
	h := c.accept
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) handleKeepAlive(args *param.KeepAliveArgs, reply *param.KeepAliveReply) error {
	c.mu.RLock()
	h := c.keepAlive
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) handleUnregister(args *param.UnregisterArgs, reply *param.UnregisterReply) error {
	c.mu.RLock()
	h := c.unregister
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) handleConfigure(args *param.ConfigureArgs, reply *param.ConfigureReply) error {
	c.mu.RLock()
	h := c.configure
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) handleInstall(args *param.InstallArgs, reply *param.InstallReply) error {
	c.mu.RLock()
	h := c.install
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) handleJoin(args *param.JoinArgs, reply *param.JoinReply) error {
	c.mu.RLock()
	h := c.join
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) handleReconfigure(args *param.ReconfigureArgs, reply *param.ReconfigureReply) error {
	c.mu.RLock()
	h := c.reconfigure
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) handleLeave(args *param.LeaveArgs, reply *param.LeaveReply) error {
	c.mu.RLock()
	h := c.leave
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) handleAppend(args *param.AppendArgs, reply *param.AppendReply) error {
	c.mu.RLock()
	h := c.append
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) handlePoll(args *param.PollArgs, reply *param.PollReply) error {
	c.mu.RLock()
	h := c.poll
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) handleVote(args *param.VoteArgs, reply *param.VoteReply) error {
	c.mu.RLock()
	h := c.vote
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) handleCommand(args *param.CommandArgs, reply *param.CommandReply) error {
	c.mu.RLock()
	h := c.command
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) handleQuery(args *param.QueryArgs, reply *param.QueryReply) error {
	c.mu.RLock()
	h := c.query
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}
