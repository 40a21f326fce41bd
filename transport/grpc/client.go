package grpc

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/xmh1011/raftd/param"
)

// DefaultCallTimeout 单次 RPC 的超时。
const DefaultCallTimeout = 2 * time.Second

// Transport 实现出站方向的 transport.Transport。
// 到每个对端地址的客户端连接会被缓存复用。
type Transport struct {
	mu      sync.Mutex
	conns   map[string]*grpc.ClientConn
	timeout time.Duration
}

// NewTransport 创建出站传输。
func NewTransport() *Transport {
	return &Transport{
		conns:   make(map[string]*grpc.ClientConn),
		timeout: DefaultCallTimeout,
	}
}

// WithCallTimeout 调整单次 RPC 的超时。
func (t *Transport) WithCallTimeout(d time.Duration) *Transport {
	t.timeout = d
	return t
}

func (t *Transport) clientConn(target string) (*grpc.ClientConn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if conn, ok := t.conns[target]; ok {
		return conn, nil
	}
	conn, err := grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(codec{})))
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s", target)
	}
	t.conns[target] = conn
	return conn, nil
}

func (t *Transport) invoke(target, rpcName string, args, reply interface{}) error {
	conn, err := t.clientConn(target)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	return conn.Invoke(ctx, "/"+serviceName+"/"+rpcName, args, reply)
}

func (t *Transport) SendAppend(target string, args *param.AppendArgs, reply *param.AppendReply) error {
	return t.invoke(target, "Append", args, reply)
}

func (t *Transport) SendPoll(target string, args *param.PollArgs, reply *param.PollReply) error {
	return t.invoke(target, "Poll", args, reply)
}

func (t *Transport) SendVote(target string, args *param.VoteArgs, reply *param.VoteReply) error {
	return t.invoke(target, "Vote", args, reply)
}

func (t *Transport) SendConfigure(target string, args *param.ConfigureArgs, reply *param.ConfigureReply) error {
	return t.invoke(target, "Configure", args, reply)
}

func (t *Transport) SendInstall(target string, args *param.InstallArgs, reply *param.InstallReply) error {
	return t.invoke(target, "Install", args, reply)
}

func (t *Transport) SendCommand(target string, args *param.CommandArgs, reply *param.CommandReply) error {
	return t.invoke(target, "Command", args, reply)
}

func (t *Transport) SendQuery(target string, args *param.QueryArgs, reply *param.QueryReply) error {
	return t.invoke(target, "Query", args, reply)
}

// Close 关闭全部缓存的客户端连接。
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for target, conn := range t.conns {
		_ = conn.Close()
		delete(t.conns, target)
	}
	return nil
}
