package inmemory

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/xmh1011/raftd/param"
	"github.com/xmh1011/raftd/transport"
)

// Network 在单个进程内模拟一组服务器之间的通信，用于测试。
// 每个地址对应一条入站 Connection；Transport 将出站调用直接路由到
// 目标地址已注册的处理函数上。
type Network struct {
	mu      sync.RWMutex
	servers map[string]*Connection
}

// NewNetwork 创建一个空的内存网络。
func NewNetwork() *Network {
	return &Network{servers: make(map[string]*Connection)}
}

// Endpoint 返回 addr 的入站连接（必要时创建）。
// 服务器端拿到它之后调用协调器的 ConnectServer/ConnectClient 完成注册。
func (n *Network) Endpoint(addr string) *Connection {
	n.mu.Lock()
	defer n.mu.Unlock()
	if c, ok := n.servers[addr]; ok {
		return c
	}
	c := &Connection{network: n, addr: addr}
	n.servers[addr] = c
	return c
}

// Disconnect 把 addr 从网络中摘除并关闭其连接，模拟节点失联。
func (n *Network) Disconnect(addr string) {
	n.mu.Lock()
	c := n.servers[addr]
	delete(n.servers, addr)
	n.mu.Unlock()
	if c != nil {
		_ = c.Close()
	}
}

func (n *Network) lookup(addr string) (*Connection, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	c, ok := n.servers[addr]
	if !ok {
		return nil, errors.Errorf("inmemory: could not connect to peer %s", addr)
	}
	return c, nil
}

// Transport 返回一个通过该网络发送的出站 Transport。
func (n *Network) Transport() transport.Transport {
	return &memTransport{network: n}
}

// Connection 是一条内存入站连接，实现 transport.ServerConnection。
type Connection struct {
	network *Network
	addr    string

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

func (c *Connection) OnClose(listener func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeListeners = append(c.closeListeners, listener)
}

func (c *Connection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	listeners := append([]func(){}, c.closeListeners...)
	c.mu.Unlock()

	for _, listener := range listeners {
		listener()
	}
	return nil
}

var errNoHandler = errors.New("inmemory: no handler registered")

// --- 入站调用入口，由 memTransport 和测试直接使用 ---

func (c *Connection) HandleRegister(args *param.RegisterArgs, reply *param.RegisterReply) error {
	c.mu.RLock()
	h := c.register
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) HandleConnect(args *param.ConnectArgs, reply *param.ConnectReply) error {
	c.mu.RLock()
	h := c.connect
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) HandleAccept(args *param.AcceptArgs, reply *param.AcceptReply) error {
	c.mu.RLock()
	h := c.accept
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) HandleKeepAlive(args *param.KeepAliveArgs, reply *param.KeepAliveReply) error {
	c.mu.RLock()
	h := c.keepAlive
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) HandleUnregister(args *param.UnregisterArgs, reply *param.UnregisterReply) error {
	c.mu.RLock()
	h := c.unregister
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) HandleConfigure(args *param.ConfigureArgs, reply *param.ConfigureReply) error {
	c.mu.RLock()
	h := c.configure
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) HandleInstall(args *param.InstallArgs, reply *param.InstallReply) error {
	c.mu.RLock()
	h := c.install
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) HandleJoin(args *param.JoinArgs, reply *param.JoinReply) error {
	c.mu.RLock()
	h := c.join
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) HandleReconfigure(args *param.ReconfigureArgs, reply *param.ReconfigureReply) error {
	c.mu.RLock()
	h := c.reconfigure
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) HandleLeave(args *param.LeaveArgs, reply *param.LeaveReply) error {
	c.mu.RLock()
	h := c.leave
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) HandleAppend(args *param.AppendArgs, reply *param.AppendReply) error {
	c.mu.RLock()
	h := c.append
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) HandlePoll(args *param.PollArgs, reply *param.PollReply) error {
	c.mu.RLock()
	h := c.poll
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) HandleVote(args *param.VoteArgs, reply *param.VoteReply) error {
	c.mu.RLock()
	h := c.vote
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) HandleCommand(args *param.CommandArgs, reply *param.CommandReply) error {
	c.mu.RLock()
	h := c.command
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

func (c *Connection) HandleQuery(args *param.QueryArgs, reply *param.QueryReply) error {
	c.mu.RLock()
	h := c.query
	c.mu.RUnlock()
	if h == nil {
		return errNoHandler
	}
	return h(args, reply)
}

// memTransport 通过网络注册表把出站调用直接分发到目标连接。
type memTransport struct {
	network *Network
}

func (t *memTransport) SendAppend(target string, args *param.AppendArgs, reply *param.AppendReply) error {
	c, err := t.network.lookup(target)
	if err != nil {
		return err
	}
	return c.HandleAppend(args, reply)
}

func (t *memTransport) SendPoll(target string, args *param.PollArgs, reply *param.PollReply) error {
	c, err := t.network.lookup(target)
	if err != nil {
		return err
	}
	return c.HandlePoll(args, reply)
}

func (t *memTransport) SendVote(target string, args *param.VoteArgs, reply *param.VoteReply) error {
	c, err := t.network.lookup(target)
	if err != nil {
		return err
	}
	return c.HandleVote(args, reply)
}

func (t *memTransport) SendConfigure(target string, args *param.ConfigureArgs, reply *param.ConfigureReply) error {
	c, err := t.network.lookup(target)
	if err != nil {
		return err
	}
	return c.HandleConfigure(args, reply)
}

func (t *memTransport) SendInstall(target string, args *param.InstallArgs, reply *param.InstallReply) error {
	c, err := t.network.lookup(target)
	if err != nil {
		return err
	}
	return c.HandleInstall(args, reply)
}

func (t *memTransport) SendCommand(target string, args *param.CommandArgs, reply *param.CommandReply) error {
	c, err := t.network.lookup(target)
	if err != nil {
		return err
	}
	return c.HandleCommand(args, reply)
}

func (t *memTransport) SendQuery(target string, args *param.QueryArgs, reply *param.QueryReply) error {
	c, err := t.network.lookup(target)
	if err != nil {
		return err
	}
	return c.HandleQuery(args, reply)
}

func (t *memTransport) Close() error {
	return nil
}
