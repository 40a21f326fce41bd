package raft

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/xmh1011/raftd/executor"
	"github.com/xmh1011/raftd/param"
	"github.com/xmh1011/raftd/storage"
	"github.com/xmh1011/raftd/transport"
)

var ErrUnknownSession = errors.New("raft: unknown session")

// Session 是一个已注册的客户端会话。
type Session struct {
	ID       string
	Client   string
	Sequence int64 // 该会话最近一次完成的命令序号，用于去重

	lastKeepAlive time.Time
	connection    transport.ServerConnection
}

// StateMachineExecutor 包装用户状态机：按提交顺序应用日志条目，
// 管理客户端会话及其超时。所有方法都在状态线程上执行。
type StateMachineExecutor struct {
	ctx *Context
	sm  storage.StateMachine

	lastApplied int64
	sessions    map[string]*Session
	// notify 保存等待某个索引被应用的回调（Leader 借此回填命令结果）。
	notify map[int64]func(result []byte, err error)

	sweeper *executor.Timer
}

func newStateMachineExecutor(ctx *Context, sm storage.StateMachine) *StateMachineExecutor {
	e := &StateMachineExecutor{
		ctx:      ctx,
		sm:       sm,
		sessions: make(map[string]*Session),
		notify:   make(map[int64]func([]byte, error)),
	}
	// 会话清扫定时器。粒度取超时的一半，足够及时。
	e.sweeper = ctx.exec.ScheduleRepeated(ctx.sessionTimeout/2, e.expireSessions)
	return e
}

// StateMachine 返回被包装的用户状态机。
func (e *StateMachineExecutor) StateMachine() storage.StateMachine {
	return e.sm
}

// LastApplied 返回最后一条已应用的日志索引。
func (e *StateMachineExecutor) LastApplied() int64 {
	return e.lastApplied
}

// RegisterSession 分配一个新的客户端会话。
func (e *StateMachineExecutor) RegisterSession(client string, conn transport.ServerConnection) *Session {
	e.ctx.exec.CheckThread()
	session := &Session{
		ID:            uuid.NewString(),
		Client:        client,
		lastKeepAlive: time.Now(),
		connection:    conn,
	}
	e.sessions[session.ID] = session
	e.ctx.logger.WithField("session", session.ID).Debug("Registered session")
	return session
}

// Session 按 ID 查找会话。
func (e *StateMachineExecutor) Session(id string) *Session {
	return e.sessions[id]
}

// ConnectSession 将已有会话绑定到一条新连接（客户端重连）。
func (e *StateMachineExecutor) ConnectSession(id string, conn transport.ServerConnection) error {
	e.ctx.exec.CheckThread()
	session, ok := e.sessions[id]
	if !ok {
		return ErrUnknownSession
	}
	session.connection = conn
	session.lastKeepAlive = time.Now()
	return nil
}

// KeepAliveSession 维持会话心跳并推进其命令序号。
func (e *StateMachineExecutor) KeepAliveSession(id string, sequence int64) error {
	e.ctx.exec.CheckThread()
	session, ok := e.sessions[id]
	if !ok {
		return ErrUnknownSession
	}
	session.lastKeepAlive = time.Now()
	if sequence > session.Sequence {
		session.Sequence = sequence
	}
	return nil
}

// UnregisterSession 显式注销会话。
func (e *StateMachineExecutor) UnregisterSession(id string) error {
	e.ctx.exec.CheckThread()
	if _, ok := e.sessions[id]; !ok {
		return ErrUnknownSession
	}
	delete(e.sessions, id)
	return nil
}

// UnregisterConnection 注销挂在指定连接上的所有会话状态。
// 由分发绑定器挂到连接的关闭监听器上。会话本身保留到超时，
// 以便客户端换条连接重连。
func (e *StateMachineExecutor) UnregisterConnection(conn transport.ServerConnection) {
	for _, session := range e.sessions {
		if session.connection == conn {
			session.connection = nil
		}
	}
}

// expireSessions 清除超过 sessionTimeout 没有心跳的会话。
func (e *StateMachineExecutor) expireSessions() {
	timeout := e.ctx.sessionTimeout
	now := time.Now()
	for id, session := range e.sessions {
		if now.Sub(session.lastKeepAlive) > timeout {
			e.ctx.logger.WithField("session", id).Debug("Expired session")
			delete(e.sessions, id)
		}
	}
}

// RestoreSnapshot 用快照数据覆盖状态机，并把应用进度对齐到快照覆盖点。
func (e *StateMachineExecutor) RestoreSnapshot(snapshot *param.Snapshot) error {
	e.ctx.exec.CheckThread()
	snapshottable, ok := e.sm.(storage.Snapshottable)
	if !ok {
		return errors.New("raft: state machine does not support snapshots")
	}
	if err := snapshottable.Restore(snapshot.Data); err != nil {
		return errors.Wrap(err, "restore snapshot")
	}
	if snapshot.Index > e.lastApplied {
		e.lastApplied = snapshot.Index
	}
	return nil
}

// OnApplied 注册一个一次性回调，在 index 被应用后带着结果触发。
func (e *StateMachineExecutor) OnApplied(index int64, fn func(result []byte, err error)) {
	e.ctx.exec.CheckThread()
	e.notify[index] = fn
}

// ApplyAll 将 (lastApplied, to] 范围内的已提交条目依次应用到状态机。
// 配置条目不经过用户状态机——它们在提交时由集群状态消费。
func (e *StateMachineExecutor) ApplyAll(to int64) {
	e.ctx.exec.CheckThread()
	for index := e.lastApplied + 1; index <= to; index++ {
		entry, err := e.ctx.reader.Entry(index)
		if err != nil {
			// 条目可能已被压缩或尚未到达，两种情况都到此为止。
			return
		}
		e.lastApplied = index

		var result []byte
		var applyErr error
		if entry.Type == param.EntryCommand {
			result, applyErr = e.sm.Apply(*entry)
			if applyErr != nil {
				e.ctx.logger.WithError(applyErr).WithField("index", index).
					Error("State machine failed to apply entry")
			}
		}

		if fn, ok := e.notify[index]; ok {
			delete(e.notify, index)
			fn(result, applyErr)
		}
	}
}

// Query 对状态机执行一次只读查询。
func (e *StateMachineExecutor) Query(query []byte) ([]byte, error) {
	return e.sm.Query(query)
}

// Close 停止会话清扫并丢弃未触发的回调。
func (e *StateMachineExecutor) Close() error {
	if e.sweeper != nil {
		e.sweeper.Stop()
	}
	e.notify = make(map[int64]func([]byte, error))
	return nil
}
