package storage

import (
	"github.com/pkg/errors"

	"github.com/xmh1011/raftd/param"
)

var (
	ErrEntryNotFound    = errors.New("storage: log entry not found")
	ErrIndexOutOfBounds = errors.New("storage: index is out of bounds")
)

// ReaderMode 控制读取游标能看到哪些日志条目。
type ReaderMode int

const (
	// ReaderModeAll 读取全部物理存在的条目。
	ReaderModeAll ReaderMode = iota
	// ReaderModeCommits 只读取已提交的条目。
	ReaderModeCommits
)

// CompactionMode 是日志压缩器的默认压缩策略。
type CompactionMode int

const (
	// CompactionSequential 按顺序丢弃已提交且全局安全的条目。
	// 用于不支持快照的状态机。
	CompactionSequential CompactionMode = iota
	// CompactionSnapshot 依赖状态机快照回收整段日志。
	CompactionSnapshot
)

func (m CompactionMode) String() string {
	switch m {
	case CompactionSequential:
		return "SEQUENTIAL"
	case CompactionSnapshot:
		return "SNAPSHOT"
	default:
		return "UNKNOWN"
	}
}

// Log 是追加写的复制日志。
type Log interface {
	// CreateReader 创建一个读取游标。
	CreateReader(mode ReaderMode) (LogReader, error)
	// CreateWriter 创建写入器。同一时刻只应有一个写入器。
	CreateWriter() (LogWriter, error)
	// Compactor 返回日志压缩器。
	Compactor() Compactor
	Close() error
}

// LogWriter 是日志的唯一写入端。
type LogWriter interface {
	// Append 追加一条日志并返回其索引。
	Append(entry param.LogEntry) (int64, error)
	// Truncate 删除 index（不含）之后的所有条目。
	Truncate(index int64) error
	// Reset 丢弃全部条目并把下一条追加的索引设为 index+1。
	// 安装快照后用它把日志快进到快照覆盖点之后。
	Reset(index int64) error
	// Commit 将提交水位推进到 index。index 不得超过 LastIndex。
	Commit(index int64) error
	// LastIndex 返回日志最后一条物理条目的索引，空日志返回 0。
	LastIndex() int64
	Close() error
}

// LogReader 是日志的读取游标。
type LogReader interface {
	// Entry 返回指定索引的条目。
	Entry(index int64) (*param.LogEntry, error)
	// FirstIndex 返回当前可读的第一条索引（压缩会将其前移）。
	FirstIndex() int64
	// CommitIndex 返回当前的提交水位。
	CommitIndex() int64
	Close() error
}

// Compactor 管理日志压缩。
// 协调器通过 MajorIndex 下调集群范围内可安全压缩的阈值（globalIndex - 1）；
// 阈值之下的已提交条目可以被回收，具体策略由 CompactionMode 决定。
type Compactor interface {
	// MajorIndex 设置可安全压缩的最大索引。
	MajorIndex(index int64)
	// WithDefaultCompactionMode 设置默认压缩策略。
	WithDefaultCompactionMode(mode CompactionMode)
	// DefaultCompactionMode 返回当前默认压缩策略。
	DefaultCompactionMode() CompactionMode
}

// StateMachine 定义了用户状态机需要实现的接口。
// 协调器通过内部的状态机执行器按提交顺序应用日志条目。
type StateMachine interface {
	// Apply 应用一条已提交的命令，返回其结果。
	Apply(entry param.LogEntry) ([]byte, error)
	// Query 执行一次只读查询。
	Query(query []byte) ([]byte, error)
}

// Snapshottable 是状态机的可选能力。实现了它的状态机使用
// 基于快照的日志压缩（CompactionSnapshot），否则退回顺序压缩。
type Snapshottable interface {
	// Snapshot 序列化当前全部状态。
	Snapshot() ([]byte, error)
	// Restore 用快照数据完全覆盖当前状态。
	Restore(data []byte) error
}
