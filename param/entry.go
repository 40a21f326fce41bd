package param

// EntryType 区分日志条目的种类。配置条目与普通命令条目遵循相同的提交规则，
// 但提交后由集群状态（而不是用户状态机）消费。
type EntryType int

const (
	// EntryCommand 是用户状态机命令。
	EntryCommand EntryType = iota
	// EntryConfiguration 是集群成员配置变更。
	EntryConfiguration
	// EntryInitialize 是 Leader 上任时追加的空条目，用于尽快提交上一任期的日志。
	EntryInitialize
)

// LogEntry represents a single entry in the replicated log.
type LogEntry struct {
	Index   int64
	Term    int64
	Type    EntryType
	Command []byte
}

// NewLogEntry creates a new LogEntry.
func NewLogEntry(index, term int64, typ EntryType, command []byte) LogEntry {
	return LogEntry{
		Index:   index,
		Term:    term,
		Type:    typ,
		Command: command,
	}
}

// Snapshot 表示状态机在某一时刻的快照。
type Snapshot struct {
	Index int64  // 快照中包含的最后一条日志的索引
	Term  int64  // 快照中包含的最后一条日志的任期
	Data  []byte // 状态机的序列化数据
}

// NewSnapshot 创建一个新的 Snapshot 实例。
func NewSnapshot(index, term int64, data []byte) *Snapshot {
	return &Snapshot{
		Index: index,
		Term:  term,
		Data:  data,
	}
}
