package param

// MemberID 是集群成员的唯一标识。0 是哨兵值，表示"无"（没有 Leader、未投票等）。
type MemberID int

// None 表示不存在的成员 ID。
const None MemberID = 0

// State 定义节点当前的共识角色（Consensus Role）。
// 任意时刻恰好有一个角色处于激活状态，由协调器负责角色间的切换。
type State int

const (
	// Inactive 表示节点不参与任何协议交互（初始状态，或已被移出集群）。
	Inactive State = iota
	// Reserve 表示节点只跟踪 Leader 与任期，不保存日志。
	Reserve
	// Passive 表示节点接收并保存日志，但不参与投票。
	Passive
	// Follower 是有投票权成员的基础状态。
	Follower
	// Candidate 表示节点正在发起选举。
	Candidate
	// Leader 表示节点是当前任期的 Leader。
	Leader
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "Inactive"
	case Reserve:
		return "Reserve"
	case Passive:
		return "Passive"
	case Follower:
		return "Follower"
	case Candidate:
		return "Candidate"
	case Leader:
		return "Leader"
	default:
		return "Unknown"
	}
}

// Active 返回该角色是否属于有投票权的角色（Follower / Candidate / Leader）。
func (s State) Active() bool {
	return s == Follower || s == Candidate || s == Leader
}

// MemberType 定义成员在集群配置中的类型。
// 成员类型决定了节点应当运行的基础角色：ACTIVE 对应 Follower，
// PASSIVE / RESERVE 对应同名角色，INACTIVE 退出参与。
type MemberType int

const (
	// MemberInactive 表示成员已不在集群配置中。
	MemberInactive MemberType = iota
	// MemberReserve 表示后备成员，不保存日志。
	MemberReserve
	// MemberPassive 表示被动成员，复制日志但不投票。
	MemberPassive
	// MemberActive 表示有投票权的正式成员。
	MemberActive
)

func (t MemberType) String() string {
	switch t {
	case MemberInactive:
		return "INACTIVE"
	case MemberReserve:
		return "RESERVE"
	case MemberPassive:
		return "PASSIVE"
	case MemberActive:
		return "ACTIVE"
	default:
		return "UNKNOWN"
	}
}

// HardState 定义需要持久化的共识状态（必须写入稳定存储后才能响应 RPC）。
type HardState struct {
	Term     int64    // 当前任期号，单调递增
	VotedFor MemberID // 当前任期内投票给的候选者 ID（None 表示未投票）
}

// Member 描述一个集群成员。成员同时出现在配置条目和成员相关的 RPC 中。
type Member struct {
	ID            MemberID
	Type          MemberType
	Address       string // 服务器间通信地址
	ClientAddress string // 客户端通信地址
}

// NewMember 创建一个成员描述。
func NewMember(id MemberID, typ MemberType, address, clientAddress string) Member {
	return Member{
		ID:            id,
		Type:          typ,
		Address:       address,
		ClientAddress: clientAddress,
	}
}

// Configuration 是一条集群配置。Index 是配置条目在日志中的索引；
// 当提交索引第一次越过 Index 时，该配置被视为已提交。
type Configuration struct {
	Index   int64
	Members []Member
}

// Member 按 ID 查找配置中的成员，找不到时返回 nil。
func (c *Configuration) Member(id MemberID) *Member {
	for i := range c.Members {
		if c.Members[i].ID == id {
			return &c.Members[i]
		}
	}
	return nil
}
