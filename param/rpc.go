package param

// 本文件定义协调器统一分发面上的全部 RPC 参数/响应类型。
// 客户端操作：Register, Connect, KeepAlive, Unregister, Command, Query。
// 服务器间操作是客户端操作的超集（请求可以在服务器之间代理转发）：
// Accept, Configure, Install, Join, Reconfigure, Leave, Append, Poll, Vote。
// 编码方式由传输层决定，这里只是纯数据结构。

// RegisterArgs 注册一个新的客户端会话。
type RegisterArgs struct {
	Client string // 客户端自报的标识
}

// RegisterReply 返回新会话的 ID、会话超时与当前集群成员，供客户端后续路由。
type RegisterReply struct {
	Success bool
	Error   string
	Leader  MemberID // 已知 Leader 的提示，None 表示未知
	Session string   // 分配的会话 ID
	Timeout int64    // 会话超时（毫秒）
	Members []Member
}

// ConnectArgs 将一个已有会话绑定到当前连接。
type ConnectArgs struct {
	Session string
}

type ConnectReply struct {
	Success bool
	Error   string
	Leader  MemberID
}

// KeepAliveArgs 维持会话心跳，同时上报客户端已完成的命令序号。
type KeepAliveArgs struct {
	Session         string
	CommandSequence int64
}

type KeepAliveReply struct {
	Success bool
	Error   string
	Leader  MemberID
	Members []Member
}

// UnregisterArgs 显式注销一个会话。
type UnregisterArgs struct {
	Session string
}

type UnregisterReply struct {
	Success bool
	Error   string
	Leader  MemberID
}

// CommandArgs 提交一条会改变状态机状态的命令。
type CommandArgs struct {
	Session  string
	Sequence int64 // 会话内单调递增的命令序号，用于去重
	Command  []byte
}

type CommandReply struct {
	Success bool
	Error   string
	Leader  MemberID
	Index   int64 // 命令在日志中的索引
	Result  []byte
}

// QueryArgs 提交一条只读查询。
type QueryArgs struct {
	Session string
	Query   []byte
}

type QueryReply struct {
	Success bool
	Error   string
	Leader  MemberID
	Result  []byte
}

// AcceptArgs 由 Leader 通知某个服务器接管一个客户端连接。
type AcceptArgs struct {
	Client  string
	Address string
}

type AcceptReply struct {
	Success bool
	Error   string
}

// ConfigureArgs 由 Leader 向所有成员推送最新的集群配置。
type ConfigureArgs struct {
	Term    int64
	Leader  MemberID
	Index   int64
	Members []Member
}

// NewConfigureArgs creates a new ConfigureArgs struct.
func NewConfigureArgs(term int64, leader MemberID, index int64, members []Member) *ConfigureArgs {
	return &ConfigureArgs{
		Term:    term,
		Leader:  leader,
		Index:   index,
		Members: members,
	}
}

type ConfigureReply struct {
	Success bool
	Term    int64
}

// InstallArgs 向落后过多的成员分块安装快照。
type InstallArgs struct {
	Term     int64
	Leader   MemberID
	Index    int64 // 快照覆盖到的最后一条日志索引
	Offset   int64 // 本分块在快照数据中的偏移
	Data     []byte
	Complete bool // 是否为最后一个分块
}

// NewInstallArgs creates a new InstallArgs struct.
func NewInstallArgs(term int64, leader MemberID, index, offset int64, data []byte, complete bool) *InstallArgs {
	return &InstallArgs{
		Term:     term,
		Leader:   leader,
		Index:    index,
		Offset:   offset,
		Data:     data,
		Complete: complete,
	}
}

type InstallReply struct {
	Success bool
	Error   string
	Term    int64
}

// JoinArgs 请求将一个新成员加入集群配置。
type JoinArgs struct {
	Member Member
}

type JoinReply struct {
	Success bool
	Error   string
	Leader  MemberID
	Index   int64
	Term    int64
	Members []Member
}

// ReconfigureArgs 请求修改一个现有成员（例如提升 PASSIVE 为 ACTIVE）。
type ReconfigureArgs struct {
	Member Member
	Index  int64 // 请求方已知的配置索引，用于检测并发变更
}

type ReconfigureReply struct {
	Success bool
	Error   string
	Leader  MemberID
	Index   int64
	Term    int64
	Members []Member
}

// LeaveArgs 请求将一个成员移出集群配置。
type LeaveArgs struct {
	Member Member
}

type LeaveReply struct {
	Success bool
	Error   string
	Leader  MemberID
	Index   int64
	Members []Member
}

// AppendArgs is the argument for append requests (log replication + heartbeats).
type AppendArgs struct {
	Term         int64      // Leader's current term
	Leader       MemberID   // Leader's ID (for redirection)
	PrevLogIndex int64      // Index of log entry immediately preceding new ones
	PrevLogTerm  int64      // Term of PrevLogIndex entry
	Entries      []LogEntry // Log entries to store (empty for heartbeat)
	CommitIndex  int64      // Leader's commit index
	GlobalIndex  int64      // 集群范围内可安全压缩的水位线
}

// NewAppendArgs creates a new AppendArgs struct.
func NewAppendArgs(term int64, leader MemberID, prevLogIndex, prevLogTerm int64, entries []LogEntry, commitIndex, globalIndex int64) *AppendArgs {
	return &AppendArgs{
		Term:         term,
		Leader:       leader,
		PrevLogIndex: prevLogIndex,
		PrevLogTerm:  prevLogTerm,
		Entries:      entries,
		CommitIndex:  commitIndex,
		GlobalIndex:  globalIndex,
	}
}

// AppendReply is the response for append requests.
type AppendReply struct {
	Term     int64
	Success  bool
	LogIndex int64 // 接收方日志的最后一条索引，供 Leader 回退使用
}

// PollArgs 是预投票（pre-vote）请求：Follower 在正式发起选举前先试探
// 自己的日志是否足够新，避免无谓地推高任期。
type PollArgs struct {
	Term         int64
	Candidate    MemberID
	LastLogIndex int64
	LastLogTerm  int64
}

// NewPollArgs creates a new PollArgs struct.
func NewPollArgs(term int64, candidate MemberID, lastLogIndex, lastLogTerm int64) *PollArgs {
	return &PollArgs{
		Term:         term,
		Candidate:    candidate,
		LastLogIndex: lastLogIndex,
		LastLogTerm:  lastLogTerm,
	}
}

type PollReply struct {
	Term     int64
	Accepted bool
}

// VoteArgs 是正式的投票请求。
type VoteArgs struct {
	Term         int64
	Candidate    MemberID
	LastLogIndex int64
	LastLogTerm  int64
}

// NewVoteArgs creates a new VoteArgs struct.
func NewVoteArgs(term int64, candidate MemberID, lastLogIndex, lastLogTerm int64) *VoteArgs {
	return &VoteArgs{
		Term:         term,
		Candidate:    candidate,
		LastLogIndex: lastLogIndex,
		LastLogTerm:  lastLogTerm,
	}
}

type VoteReply struct {
	Term  int64
	Voted bool
}
