package raft

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/xmh1011/raftd/executor"
	"github.com/xmh1011/raftd/param"
	"github.com/xmh1011/raftd/storage"
	"github.com/xmh1011/raftd/transport"
)

const (
	// DefaultElectionTimeout Follower 等待多久没有收到心跳后发起选举。
	DefaultElectionTimeout = 500 * time.Millisecond
	// DefaultHeartbeatInterval Leader 的心跳周期。
	DefaultHeartbeatInterval = 150 * time.Millisecond
	// DefaultSessionTimeout 客户端会话多久没有 KeepAlive 后过期。
	DefaultSessionTimeout = 5000 * time.Millisecond
	// DefaultGlobalSuspendTimeout PASSIVE/RESERVE 成员多久失联后被视为丢失。
	DefaultGlobalSuspendTimeout = time.Hour
)

// StateMachineFactory 构造一个全新的用户状态机。Reset 每次都会调用它，
// 保证重建后的状态机不携带任何旧数据。
type StateMachineFactory func() storage.StateMachine

// Context 是共识状态的唯一持有者：任期、投票、Leader、提交索引、
// 全局压缩水位，以及当前激活的角色。所有修改都必须在它的状态协程上执行，
// 角色切换也由它仲裁。
type Context struct {
	name      string
	storage   storage.Storage
	smFactory StateMachineFactory
	trans     transport.Transport
	exec      *executor.Context
	logger    *log.Entry

	cluster *ClusterState

	// 持久化状态。
	meta         storage.MetaStore
	term         int64
	lastVotedFor param.MemberID

	// 易失状态。
	leader      param.MemberID
	commitIndex int64
	globalIndex int64

	// 日志、快照与状态机三件套，由 Reset 统一重建。
	logStore     storage.Log
	reader       storage.LogReader
	writer       storage.LogWriter
	snapshots    storage.SnapshotStore
	stateMachine *StateMachineExecutor

	role        Role
	roleFactory func(*Context, param.State) Role

	stateChangeListeners    listeners[param.State]
	leaderElectionListeners listeners[*param.Member]

	electionTimeout      time.Duration
	heartbeatInterval    time.Duration
	sessionTimeout       time.Duration
	globalSuspendTimeout time.Duration

	closed bool
}

// NewContext 构造协调器：打开元数据存储并恢复 term/votedFor，
// 通过 Reset 初始化日志、快照与状态机，初始角色为 Inactive。
func NewContext(name string, self param.Member, members []param.Member,
	store storage.Storage, smFactory StateMachineFactory, trans transport.Transport) (*Context, error) {
	c := &Context{
		name:                 name,
		storage:              store,
		smFactory:            smFactory,
		trans:                trans,
		exec:                 executor.NewContext(name),
		logger:               log.WithField("server", name),
		roleFactory:          createRole,
		electionTimeout:      DefaultElectionTimeout,
		heartbeatInterval:    DefaultHeartbeatInterval,
		sessionTimeout:       DefaultSessionTimeout,
		globalSuspendTimeout: DefaultGlobalSuspendTimeout,
	}
	c.cluster = newClusterState(c, self, members)

	if err := c.exec.Submit(func() error {
		meta, err := store.OpenMetaStore(name)
		if err != nil {
			return errors.Wrap(err, "open meta store")
		}
		c.meta = meta

		if c.term, err = meta.LoadTerm(); err != nil {
			return errors.Wrap(err, "load term")
		}
		if c.lastVotedFor, err = meta.LoadVote(); err != nil {
			return errors.Wrap(err, "load vote")
		}

		if err := c.Reset(); err != nil {
			return err
		}
		c.role = newInactiveRole(c)
		return nil
	}); err != nil {
		c.exec.Close()
		return nil, err
	}
	return c, nil
}

// Name 返回服务器的持久化名字。
func (c *Context) Name() string {
	return c.name
}

// Executor 返回状态协程。
func (c *Context) Executor() *executor.Context {
	return c.exec
}

// Cluster 返回集群成员状态。
func (c *Context) Cluster() *ClusterState {
	return c.cluster
}

// Role 返回当前激活角色的类型。
func (c *Context) Role() param.State {
	return c.role.Type()
}

// Term 返回当前任期。
func (c *Context) Term() int64 {
	return c.term
}

// LastVotedFor 返回本任期内投过的候选人，没投过返回 param.None。
func (c *Context) LastVotedFor() param.MemberID {
	return c.lastVotedFor
}

// Leader 返回当前已知的 Leader，未知返回 param.None。
func (c *Context) Leader() param.MemberID {
	return c.leader
}

// CommitIndex 返回当前提交索引。
func (c *Context) CommitIndex() int64 {
	return c.commitIndex
}

// GlobalIndex 返回全局压缩水位。
func (c *Context) GlobalIndex() int64 {
	return c.globalIndex
}

// Log 返回当前打开的日志。
func (c *Context) Log() storage.Log {
	return c.logStore
}

// LogWriter 返回日志写入器。
func (c *Context) LogWriter() storage.LogWriter {
	return c.writer
}

// LogReader 返回日志读取器。
func (c *Context) LogReader() storage.LogReader {
	return c.reader
}

// SnapshotStore 返回快照存储。
func (c *Context) SnapshotStore() storage.SnapshotStore {
	return c.snapshots
}

// StateMachine 返回状态机执行器。
func (c *Context) StateMachine() *StateMachineExecutor {
	return c.stateMachine
}

// MetaStore 返回元数据存储。
func (c *Context) MetaStore() storage.MetaStore {
	return c.meta
}

func (c *Context) ElectionTimeout() time.Duration {
	return c.electionTimeout
}

func (c *Context) WithElectionTimeout(d time.Duration) *Context {
	c.electionTimeout = d
	return c
}

func (c *Context) HeartbeatInterval() time.Duration {
	return c.heartbeatInterval
}

func (c *Context) WithHeartbeatInterval(d time.Duration) *Context {
	c.heartbeatInterval = d
	return c
}

func (c *Context) SessionTimeout() time.Duration {
	return c.sessionTimeout
}

func (c *Context) WithSessionTimeout(d time.Duration) *Context {
	c.sessionTimeout = d
	return c
}

func (c *Context) GlobalSuspendTimeout() time.Duration {
	return c.globalSuspendTimeout
}

func (c *Context) WithGlobalSuspendTimeout(d time.Duration) *Context {
	c.globalSuspendTimeout = d
	return c
}

// OnStateChange 注册角色变更监听器。监听器在状态协程上按注册顺序同步调用，
// 必须保持轻量，耗时工作要移交到别的协程。
func (c *Context) OnStateChange(fn func(param.State)) *Listener {
	return c.stateChangeListeners.add(fn)
}

// OnLeaderElection 注册 Leader 选举监听器，回调参数是解析后的成员。
func (c *Context) OnLeaderElection(fn func(*param.Member)) *Listener {
	return c.leaderElectionListeners.add(fn)
}

// SetTerm 推进任期。term 不大于当前任期时是空操作。
// 推进时在同一次修改里清空 leader 与 votedFor 并依次持久化。
func (c *Context) SetTerm(term int64) error {
	c.exec.CheckThread()

	if term <= c.term {
		return nil
	}
	if err := c.meta.StoreTerm(term); err != nil {
		return errors.Wrap(err, "store term")
	}
	if err := c.meta.StoreVote(param.None); err != nil {
		return errors.Wrap(err, "store vote")
	}
	c.term = term
	c.leader = param.None
	c.lastVotedFor = param.None
	c.logger.WithField("term", term).Debug("Set term")
	return nil
}

// SetLastVotedFor 记录本任期的投票。同一任期内只能投给一个候选人，
// 哨兵值 param.None 总是允许并清空投票。
func (c *Context) SetLastVotedFor(candidate param.MemberID) error {
	c.exec.CheckThread()

	if candidate != param.None {
		if c.lastVotedFor != param.None && c.lastVotedFor != candidate {
			return errors.Wrapf(ErrAlreadyVoted, "already voted for %d", c.lastVotedFor)
		}
		if c.cluster.Member(candidate) == nil {
			return errors.Wrapf(ErrUnknownMember, "unknown candidate %d", candidate)
		}
	}
	if err := c.meta.StoreVote(candidate); err != nil {
		return errors.Wrap(err, "store vote")
	}
	c.lastVotedFor = candidate
	if candidate != param.None {
		c.logger.WithField("candidate", candidate).Debug("Voted for candidate")
	} else {
		c.logger.Debug("Reset last voted for")
	}
	return nil
}

// SetLeader 记录当前任期的 Leader。设为已知成员时通知选举监听器并重置投票；
// 不在当前配置里的 id 静默忽略，以容忍成员变更期间过期的 Leader 通告。
func (c *Context) SetLeader(id param.MemberID) error {
	c.exec.CheckThread()

	if c.leader == id {
		return nil
	}
	if id == param.None {
		c.leader = param.None
		return nil
	}

	member := c.cluster.Member(id)
	if member == nil {
		c.logger.WithField("leader", id).Debug("Ignored unknown leader")
		return nil
	}

	c.leader = id
	c.logger.WithFields(log.Fields{"leader": id, "term": c.term}).Info("Found leader")
	c.cluster.Identify()

	// Leader 已经确定，本任期的选举结束了，投票记录不再有意义。
	if err := c.meta.StoreVote(param.None); err != nil {
		return errors.Wrap(err, "store vote")
	}
	c.lastVotedFor = param.None

	c.leaderElectionListeners.notify(member)
	return nil
}

// SetCommitIndex 推进提交索引。提交索引本身按请求值记录（Leader 的提交点
// 可以领先本地日志），写入日志的提交位置截到日志的物理末尾；当新配置的
// 日志索引落在本次推进的窗口内时，恰好触发一次配置提交钩子。
func (c *Context) SetCommitIndex(index int64) error {
	c.exec.CheckThread()

	if index < 0 {
		return errors.Wrapf(ErrIndexOutOfBounds, "commit index %d", index)
	}
	previous := c.commitIndex
	if index <= previous {
		return nil
	}

	effective := index
	if last := c.writer.LastIndex(); effective > last {
		effective = last
	}
	if err := c.writer.Commit(effective); err != nil {
		return errors.Wrap(err, "commit log")
	}
	c.commitIndex = index

	if configIndex := c.cluster.Configuration().Index; configIndex > previous && configIndex <= index {
		c.cluster.Commit()
	}
	return nil
}

// SetGlobalIndex 推进全局压缩水位，并把 globalIndex-1 下发给日志压缩器
// 作为新的可安全压缩阈值。水位只增不减，但即便本次没有推进，压缩器也会
// 收到一次当前水位。
func (c *Context) SetGlobalIndex(index int64) error {
	c.exec.CheckThread()

	if index < 0 {
		return errors.Wrapf(ErrIndexOutOfBounds, "global index %d", index)
	}
	if index > c.globalIndex {
		c.globalIndex = index
	}
	if c.globalIndex > 0 {
		c.logStore.Compactor().MajorIndex(c.globalIndex - 1)
	}
	return nil
}

// Reset 丢弃并重建本服务器的日志、快照存储与状态机。
// 构造时用它完成初始化，被移出集群后重新加入时也用它清空本地数据。
func (c *Context) Reset() error {
	c.exec.CheckThread()

	// 1. 关闭并删除旧资源。关闭失败只记日志，不阻塞重建。
	if c.reader != nil {
		if err := c.reader.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close log reader")
		}
	}
	if c.writer != nil {
		if err := c.writer.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close log writer")
		}
	}
	if c.logStore != nil {
		if err := c.logStore.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close log")
		}
		if err := c.storage.DeleteLog(c.name); err != nil {
			return errors.Wrap(err, "delete log")
		}
	}
	if c.snapshots != nil {
		if err := c.snapshots.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close snapshot store")
		}
		if err := c.storage.DeleteSnapshotStore(c.name); err != nil {
			return errors.Wrap(err, "delete snapshot store")
		}
	}
	if c.stateMachine != nil {
		if err := c.stateMachine.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close state machine executor")
		}
	}

	// 2. 打开新资源。
	logStore, err := c.storage.OpenLog(c.name)
	if err != nil {
		return errors.Wrap(err, "open log")
	}
	reader, err := logStore.CreateReader(storage.ReaderModeAll)
	if err != nil {
		return errors.Wrap(err, "create log reader")
	}
	writer, err := logStore.CreateWriter()
	if err != nil {
		return errors.Wrap(err, "create log writer")
	}
	snapshots, err := c.storage.OpenSnapshotStore(c.name)
	if err != nil {
		return errors.Wrap(err, "open snapshot store")
	}

	// 3. 重建状态机，并按它是否支持快照选择压缩策略。
	sm := c.smFactory()
	if _, ok := sm.(storage.Snapshottable); ok {
		logStore.Compactor().WithDefaultCompactionMode(storage.CompactionSnapshot)
	} else {
		logStore.Compactor().WithDefaultCompactionMode(storage.CompactionSequential)
	}

	c.logStore = logStore
	c.reader = reader
	c.writer = writer
	c.snapshots = snapshots
	c.stateMachine = newStateMachineExecutor(c, sm)
	c.commitIndex = 0
	c.globalIndex = 0
	return nil
}

// Close 关闭协调器：先退回 Inactive 角色，再对日志、元数据、快照和
// 状态机执行器各做一次尽力而为的关闭，单项失败不影响其余资源，
// 最后关闭状态协程。关闭后的协调器不能再切换角色。
func (c *Context) Close() error {
	err := c.exec.Submit(func() error {
		if c.closed {
			return ErrClosed
		}
		c.closed = true

		if err := c.Transition(param.Inactive); err != nil {
			c.logger.WithError(err).Warn("Failed to transition to inactive on close")
		}
		if err := c.stateMachine.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close state machine executor")
		}
		if err := c.reader.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close log reader")
		}
		if err := c.writer.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close log writer")
		}
		if err := c.logStore.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close log")
		}
		if err := c.snapshots.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close snapshot store")
		}
		if err := c.meta.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close meta store")
		}
		return nil
	})
	c.exec.Close()
	return err
}

// Delete 删除本服务器全部持久化数据。只应在节点永久退役、
// 且协调器已经关闭之后调用。
func (c *Context) Delete() error {
	if err := c.storage.DeleteLog(c.name); err != nil {
		return errors.Wrap(err, "delete log")
	}
	if err := c.storage.DeleteSnapshotStore(c.name); err != nil {
		return errors.Wrap(err, "delete snapshot store")
	}
	if err := c.storage.DeleteMetaStore(c.name); err != nil {
		return errors.Wrap(err, "delete meta store")
	}
	return nil
}
