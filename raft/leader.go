package raft

import (
	"github.com/pkg/errors"

	"github.com/xmh1011/raftd/executor"
	"github.com/xmh1011/raftd/param"
	"github.com/xmh1011/raftd/storage"
)

// snapshotChunkSize 是快照安装时单个分块的数据量。
const snapshotChunkSize = 32 * 1024

// leaderRole 主导日志复制：周期性地向全部远端成员发送 Append 心跳，
// 跟踪各成员的复制进度（matchIndex），按多数派推进提交索引，
// 按最慢成员推进全局压缩水位。日志头已被压缩走的部分用快照安装补课。
type leaderRole struct {
	activeRole

	heartbeat  *executor.Timer
	nextIndex  map[param.MemberID]int64
	matchIndex map[param.MemberID]int64
	installing map[param.MemberID]bool
}

func newLeaderRole(c *Context) *leaderRole {
	r := &leaderRole{
		nextIndex:  make(map[param.MemberID]int64),
		matchIndex: make(map[param.MemberID]int64),
		installing: make(map[param.MemberID]bool),
	}
	r.init(c, param.Leader)
	return r
}

func (r *leaderRole) Type() param.State {
	return param.Leader
}

func (r *leaderRole) Open() error {
	ctx := r.ctx
	if err := ctx.SetLeader(ctx.cluster.SelfID()); err != nil {
		return err
	}

	// 上任先追加一条空条目：提交它就能间接提交所有前任任期的条目。
	entry := param.NewLogEntry(0, ctx.term, param.EntryInitialize, nil)
	if _, err := ctx.writer.Append(entry); err != nil {
		return err
	}

	lastIndex := ctx.writer.LastIndex()
	for _, member := range ctx.cluster.RemoteMembers(param.MemberReserve) {
		r.nextIndex[member.ID] = lastIndex + 1
		r.matchIndex[member.ID] = 0
	}

	r.heartbeat = ctx.exec.ScheduleRepeated(ctx.heartbeatInterval, r.broadcastAppends)
	r.broadcastAppends()
	r.advanceCommit()
	return nil
}

func (r *leaderRole) Close() error {
	if r.heartbeat != nil {
		r.heartbeat.Stop()
	}
	return nil
}

// broadcastAppends 向每个远端成员发送一轮 Append。
// RESERVE 成员不带日志条目，只同步提交与压缩水位。
func (r *leaderRole) broadcastAppends() {
	ctx := r.ctx
	if ctx.role != Role(r) {
		return
	}
	savedTerm := ctx.term
	lastIndex := ctx.writer.LastIndex()
	firstIndex := ctx.reader.FirstIndex()

	for _, member := range ctx.cluster.RemoteMembers(param.MemberReserve) {
		next := r.nextIndex[member.ID]
		if next == 0 {
			next = lastIndex + 1
			r.nextIndex[member.ID] = next
		}

		// 需要的条目已经被压缩走，只能靠快照补课。
		if member.Type != param.MemberReserve && next < firstIndex {
			r.sendSnapshot(member, savedTerm)
			continue
		}

		prevIndex := next - 1
		var prevTerm int64
		if prevIndex > 0 {
			if prev, err := ctx.reader.Entry(prevIndex); err == nil {
				prevTerm = prev.Term
			}
		}

		var entries []param.LogEntry
		if member.Type != param.MemberReserve {
			for index := next; index <= lastIndex; index++ {
				entry, err := ctx.reader.Entry(index)
				if err != nil {
					break
				}
				entries = append(entries, *entry)
			}
		}

		args := param.NewAppendArgs(savedTerm, ctx.cluster.SelfID(), prevIndex, prevTerm,
			entries, ctx.commitIndex, ctx.globalIndex)
		target := member.Address
		memberID := member.ID
		sentUpTo := prevIndex + int64(len(entries))
		go func() {
			reply := &param.AppendReply{}
			if err := ctx.trans.SendAppend(target, args, reply); err != nil {
				return
			}
			ctx.exec.Execute(func() { r.handleAppendReply(memberID, savedTerm, sentUpTo, reply) })
		}()
	}
}

func (r *leaderRole) handleAppendReply(member param.MemberID, term, sentUpTo int64, reply *param.AppendReply) {
	ctx := r.ctx
	if ctx.role != Role(r) || ctx.term != term {
		return
	}

	if reply.Term > ctx.term {
		if err := ctx.SetTerm(reply.Term); err != nil {
			r.logger.WithError(err).Error("Failed to persist term")
			return
		}
		r.logger.Info("Discovered higher term, stepping down")
		if err := ctx.Transition(param.Follower); err != nil {
			r.logger.WithError(err).Error("Failed to step down")
		}
		return
	}

	if reply.Success {
		if sentUpTo > r.matchIndex[member] {
			r.matchIndex[member] = sentUpTo
		}
		r.nextIndex[member] = r.matchIndex[member] + 1
		r.advanceCommit()
		return
	}

	// 一致性检查失败：按对方的日志末尾回退，最低回退到 1。
	next := r.nextIndex[member] - 1
	if reply.LogIndex+1 < next {
		next = reply.LogIndex + 1
	}
	if next < 1 {
		next = 1
	}
	r.nextIndex[member] = next
}

// advanceCommit 根据复制进度推进提交索引与全局压缩水位。
// 只直接提交当前任期的条目（Raft 论文 5.4.2）。
func (r *leaderRole) advanceCommit() {
	ctx := r.ctx
	lastIndex := ctx.writer.LastIndex()
	quorum := ctx.cluster.Quorum()

	for index := lastIndex; index > ctx.commitIndex; index-- {
		entry, err := ctx.reader.Entry(index)
		if err != nil || entry.Term != ctx.term {
			continue
		}
		// 自己算一票。
		replicas := 1
		for _, member := range ctx.cluster.RemoteMembers(param.MemberActive) {
			if r.matchIndex[member.ID] >= index {
				replicas++
			}
		}
		if replicas >= quorum {
			if err := ctx.SetCommitIndex(index); err != nil {
				r.logger.WithError(err).Error("Failed to advance commit index")
				return
			}
			ctx.stateMachine.ApplyAll(index)
			break
		}
	}

	// 全局水位取全体远端成员里最慢的复制进度；没有远端成员时即本地末尾。
	global := lastIndex
	for _, member := range ctx.cluster.RemoteMembers(param.MemberReserve) {
		if member.Type == param.MemberReserve {
			continue
		}
		if r.matchIndex[member.ID] < global {
			global = r.matchIndex[member.ID]
		}
	}
	if global > ctx.globalIndex {
		if err := ctx.SetGlobalIndex(global); err != nil {
			r.logger.WithError(err).Error("Failed to advance global index")
		}
	}
}

// takeSnapshot 把状态机当前的全部状态固化成快照存入快照存储。
func (r *leaderRole) takeSnapshot() (*param.Snapshot, error) {
	ctx := r.ctx
	snapshottable, ok := ctx.stateMachine.StateMachine().(storage.Snapshottable)
	if !ok {
		return nil, errors.New("raft: state machine does not support snapshots")
	}
	data, err := snapshottable.Snapshot()
	if err != nil {
		return nil, errors.Wrap(err, "serialize state machine")
	}
	snapshot := param.NewSnapshot(ctx.stateMachine.LastApplied(), ctx.term, data)
	if err := ctx.snapshots.Store(snapshot); err != nil {
		return nil, errors.Wrap(err, "store snapshot")
	}
	r.logger.WithField("index", snapshot.Index).Info("Took snapshot")
	return snapshot, nil
}

// sendSnapshot 用快照安装为落后到日志之外的成员补课。
// 同一成员同时只进行一次安装；安装完成后该成员的复制进度跳到快照覆盖点。
func (r *leaderRole) sendSnapshot(member param.Member, savedTerm int64) {
	ctx := r.ctx
	if r.installing[member.ID] {
		return
	}
	snapshot, err := ctx.snapshots.Current()
	if err != nil {
		r.logger.WithError(err).Error("Failed to read current snapshot")
		return
	}
	// 快照本身也落后于日志头时现场取一份新的。
	if snapshot == nil || snapshot.Index+1 < ctx.reader.FirstIndex() {
		snapshot, err = r.takeSnapshot()
		if err != nil {
			r.logger.WithError(err).WithField("member", member.ID).
				Warn("Cannot catch up member without a snapshot")
			return
		}
	}

	r.installing[member.ID] = true
	memberID := member.ID
	target := member.Address
	selfID := ctx.cluster.SelfID()
	go func() {
		ok := r.streamSnapshot(target, selfID, savedTerm, snapshot)
		ctx.exec.Execute(func() {
			delete(r.installing, memberID)
			if !ok || ctx.role != Role(r) || ctx.term != savedTerm {
				return
			}
			if snapshot.Index > r.matchIndex[memberID] {
				r.matchIndex[memberID] = snapshot.Index
			}
			r.nextIndex[memberID] = r.matchIndex[memberID] + 1
			r.advanceCommit()
		})
	}()
}

// streamSnapshot 按分块把快照发给目标成员，全部送达返回 true。
// 在独立协程上运行，只读取快照值和传输层。
func (r *leaderRole) streamSnapshot(target string, selfID param.MemberID, term int64, snapshot *param.Snapshot) bool {
	ctx := r.ctx
	size := int64(len(snapshot.Data))
	for offset := int64(0); ; offset += snapshotChunkSize {
		end := offset + snapshotChunkSize
		if end > size {
			end = size
		}
		complete := end == size
		args := param.NewInstallArgs(term, selfID, snapshot.Index, offset,
			snapshot.Data[offset:end], complete)
		reply := &param.InstallReply{}
		if err := ctx.trans.SendInstall(target, args, reply); err != nil {
			return false
		}
		if reply.Term > term {
			ctx.exec.Execute(func() { r.stepDown(reply.Term) })
			return false
		}
		if !reply.Success {
			return false
		}
		if complete {
			return true
		}
	}
}

// stepDown 在发现更高任期时退回 Follower。
func (r *leaderRole) stepDown(term int64) {
	ctx := r.ctx
	if ctx.role != Role(r) || term <= ctx.term {
		return
	}
	if err := ctx.SetTerm(term); err != nil {
		r.logger.WithError(err).Error("Failed to persist term")
		return
	}
	if err := ctx.Transition(param.Follower); err != nil {
		r.logger.WithError(err).Error("Failed to step down")
	}
}

// --- 客户端操作 ---

func (r *leaderRole) OnRegister(args *param.RegisterArgs, reply *param.RegisterReply) error {
	session := r.ctx.stateMachine.RegisterSession(args.Client, nil)
	reply.Success = true
	reply.Leader = r.ctx.cluster.SelfID()
	reply.Session = session.ID
	reply.Timeout = r.ctx.sessionTimeout.Milliseconds()
	reply.Members = r.ctx.cluster.Members()
	return nil
}

func (r *leaderRole) OnConnect(args *param.ConnectArgs, reply *param.ConnectReply) error {
	if err := r.ctx.stateMachine.ConnectSession(args.Session, nil); err != nil {
		reply.Success = false
		reply.Error = err.Error()
		return nil
	}
	reply.Success = true
	reply.Leader = r.ctx.cluster.SelfID()
	return nil
}

func (r *leaderRole) OnKeepAlive(args *param.KeepAliveArgs, reply *param.KeepAliveReply) error {
	if err := r.ctx.stateMachine.KeepAliveSession(args.Session, args.CommandSequence); err != nil {
		reply.Success = false
		reply.Error = err.Error()
		return nil
	}
	reply.Success = true
	reply.Leader = r.ctx.cluster.SelfID()
	reply.Members = r.ctx.cluster.Members()
	return nil
}

func (r *leaderRole) OnUnregister(args *param.UnregisterArgs, reply *param.UnregisterReply) error {
	if err := r.ctx.stateMachine.UnregisterSession(args.Session); err != nil {
		reply.Success = false
		reply.Error = err.Error()
		return nil
	}
	reply.Success = true
	return nil
}

func (r *leaderRole) OnCommand(args *param.CommandArgs, reply *param.CommandReply) error {
	ctx := r.ctx

	// 会话内按序号去重：已经执行过的命令直接确认。
	if args.Session != "" {
		session := ctx.stateMachine.Session(args.Session)
		if session == nil {
			reply.Success = false
			reply.Error = ErrUnknownSession.Error()
			return nil
		}
		if args.Sequence > 0 && args.Sequence <= session.Sequence {
			reply.Success = true
			reply.Index = ctx.commitIndex
			return nil
		}
	}

	entry := param.NewLogEntry(0, ctx.term, param.EntryCommand, args.Command)
	index, err := ctx.writer.Append(entry)
	if err != nil {
		reply.Success = false
		reply.Error = err.Error()
		return nil
	}

	if args.Session != "" && args.Sequence > 0 {
		if session := ctx.stateMachine.Session(args.Session); session != nil && args.Sequence > session.Sequence {
			session.Sequence = args.Sequence
		}
	}

	// 提交可能在本调用内就完成（单节点集群），那样结果同步回填；
	// 否则客户端拿到日志索引，等提交后再查询。回调只写局部变量，
	// 应答返回之后再触发也不会写到已经发出的应答上。
	var result []byte
	var applyErr error
	applied := false
	ctx.stateMachine.OnApplied(index, func(res []byte, err error) {
		result, applyErr, applied = res, err, true
	})

	r.advanceCommit()
	r.broadcastAppends()

	reply.Success = true
	reply.Leader = ctx.cluster.SelfID()
	reply.Index = index
	if applied && applyErr == nil {
		reply.Result = result
	}
	return nil
}

func (r *leaderRole) OnQuery(args *param.QueryArgs, reply *param.QueryReply) error {
	result, err := r.ctx.stateMachine.Query(args.Query)
	if err != nil {
		reply.Success = false
		reply.Error = err.Error()
		return nil
	}
	reply.Success = true
	reply.Result = result
	return nil
}

func (r *leaderRole) OnAccept(args *param.AcceptArgs, reply *param.AcceptReply) error {
	reply.Success = true
	return nil
}

// --- 成员变更 ---

// appendConfiguration 追加并立即生效一条新配置，同时推送给全部远端成员。
func (r *leaderRole) appendConfiguration(members []param.Member) (int64, error) {
	ctx := r.ctx
	data, err := encodeConfiguration(members)
	if err != nil {
		return 0, err
	}
	entry := param.NewLogEntry(0, ctx.term, param.EntryConfiguration, data)
	index, err := ctx.writer.Append(entry)
	if err != nil {
		return 0, err
	}
	ctx.cluster.Configure(param.Configuration{Index: index, Members: members})

	args := param.NewConfigureArgs(ctx.term, ctx.cluster.SelfID(), index, members)
	for _, member := range ctx.cluster.RemoteMembers(param.MemberReserve) {
		target := member.Address
		go func() {
			reply := &param.ConfigureReply{}
			_ = ctx.trans.SendConfigure(target, args, reply)
		}()
	}

	// 单节点多数派的集群里配置条目在此刻就能提交，不必等下一条命令。
	r.advanceCommit()
	r.broadcastAppends()
	return index, nil
}

func (r *leaderRole) OnJoin(args *param.JoinArgs, reply *param.JoinReply) error {
	ctx := r.ctx
	members := ctx.cluster.Members()

	// 已在配置中的成员重复加入是幂等的。
	for _, m := range members {
		if m.ID == args.Member.ID {
			reply.Success = true
			reply.Leader = ctx.cluster.SelfID()
			reply.Index = ctx.cluster.Configuration().Index
			reply.Term = ctx.term
			reply.Members = members
			return nil
		}
	}

	index, err := r.appendConfiguration(append(members, args.Member))
	if err != nil {
		reply.Success = false
		reply.Error = err.Error()
		return nil
	}
	r.nextIndex[args.Member.ID] = ctx.writer.LastIndex() + 1

	reply.Success = true
	reply.Leader = ctx.cluster.SelfID()
	reply.Index = index
	reply.Term = ctx.term
	reply.Members = ctx.cluster.Members()
	return nil
}

func (r *leaderRole) OnReconfigure(args *param.ReconfigureArgs, reply *param.ReconfigureReply) error {
	ctx := r.ctx

	// 请求基于过期的配置时拒绝，请求方需要先拿到最新配置再重试。
	if args.Index > 0 && args.Index != ctx.cluster.Configuration().Index {
		reply.Success = false
		reply.Error = "configuration changed"
		reply.Index = ctx.cluster.Configuration().Index
		reply.Members = ctx.cluster.Members()
		return nil
	}

	members := ctx.cluster.Members()
	found := false
	for i, m := range members {
		if m.ID == args.Member.ID {
			members[i] = args.Member
			found = true
			break
		}
	}
	if !found {
		reply.Success = false
		reply.Error = ErrUnknownMember.Error()
		return nil
	}

	index, err := r.appendConfiguration(members)
	if err != nil {
		reply.Success = false
		reply.Error = err.Error()
		return nil
	}
	reply.Success = true
	reply.Leader = ctx.cluster.SelfID()
	reply.Index = index
	reply.Term = ctx.term
	reply.Members = ctx.cluster.Members()
	return nil
}

func (r *leaderRole) OnLeave(args *param.LeaveArgs, reply *param.LeaveReply) error {
	ctx := r.ctx
	members := ctx.cluster.Members()
	kept := members[:0]
	for _, m := range members {
		if m.ID != args.Member.ID {
			kept = append(kept, m)
		}
	}

	index, err := r.appendConfiguration(append([]param.Member(nil), kept...))
	if err != nil {
		reply.Success = false
		reply.Error = err.Error()
		return nil
	}
	delete(r.nextIndex, args.Member.ID)
	delete(r.matchIndex, args.Member.ID)

	reply.Success = true
	reply.Leader = ctx.cluster.SelfID()
	reply.Index = index
	reply.Members = ctx.cluster.Members()
	return nil
}

// --- 服务器间操作 ---

func (r *leaderRole) OnAppend(args *param.AppendArgs, reply *param.AppendReply) error {
	// 同一任期不可能有两个 Leader；更高任期的 Append 说明自己已经过时。
	if args.Term > r.ctx.term {
		if err := r.ctx.Transition(param.Follower); err != nil {
			return err
		}
		return r.ctx.role.OnAppend(args, reply)
	}
	reply.Term = r.ctx.term
	reply.Success = false
	reply.LogIndex = r.ctx.writer.LastIndex()
	return nil
}

func (r *leaderRole) OnVote(args *param.VoteArgs, reply *param.VoteReply) error {
	if args.Term > r.ctx.term {
		if err := r.ctx.SetTerm(args.Term); err != nil {
			return err
		}
		if err := r.ctx.Transition(param.Follower); err != nil {
			return err
		}
		return r.ctx.role.OnVote(args, reply)
	}
	reply.Term = r.ctx.term
	reply.Voted = false
	return nil
}
