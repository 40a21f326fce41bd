package raft

import (
	"github.com/xmh1011/raftd/param"
)

// passiveRole 接收并保存日志，但不参与投票。
// 被动成员通过 Append/Install 跟随 Leader 的日志与快照进度。
type passiveRole struct {
	reserveRole

	// pendingSnapshot 暂存分块到达的快照数据，Complete 后一次性安装。
	pendingSnapshot *param.Snapshot
}

func newPassiveRole(c *Context) *passiveRole {
	r := &passiveRole{}
	r.init(c, param.Passive)
	return r
}

func (r *passiveRole) Type() param.State {
	return param.Passive
}

func (r *passiveRole) OnAppend(args *param.AppendArgs, reply *param.AppendReply) error {
	if !r.updateTermAndLeader(args.Term, args.Leader) {
		reply.Term = r.ctx.term
		reply.Success = false
		reply.LogIndex = r.ctx.writer.LastIndex()
		return nil
	}
	return r.appendEntries(args, reply)
}

// appendEntries 执行日志一致性检查并追加条目，然后推进提交与压缩水位。
func (r *passiveRole) appendEntries(args *param.AppendArgs, reply *param.AppendReply) error {
	ctx := r.ctx
	lastIndex := ctx.writer.LastIndex()
	reply.Term = ctx.term

	// 1. 一致性检查：PrevLogIndex 处的条目必须存在且任期一致。
	if args.PrevLogIndex > 0 {
		if args.PrevLogIndex > lastIndex {
			reply.Success = false
			reply.LogIndex = lastIndex
			return nil
		}
		prev, err := ctx.reader.Entry(args.PrevLogIndex)
		if err == nil && prev.Term != args.PrevLogTerm {
			// 冲突：删掉冲突条目及其后的所有条目。
			if err := ctx.writer.Truncate(args.PrevLogIndex - 1); err != nil {
				r.logger.WithError(err).Error("Failed to truncate conflicting entries")
			}
			reply.Success = false
			reply.LogIndex = ctx.writer.LastIndex()
			return nil
		}
	}

	// 2. 追加尚未持有的条目。
	for _, entry := range args.Entries {
		if entry.Index <= ctx.writer.LastIndex() {
			existing, err := ctx.reader.Entry(entry.Index)
			if err == nil && existing.Term == entry.Term {
				continue
			}
			if err := ctx.writer.Truncate(entry.Index - 1); err != nil {
				r.logger.WithError(err).Error("Failed to truncate conflicting entries")
				break
			}
		}
		if _, err := ctx.writer.Append(entry); err != nil {
			r.logger.WithError(err).Error("Failed to append entry")
			reply.Success = false
			reply.LogIndex = ctx.writer.LastIndex()
			return nil
		}
		// 配置条目在到达时立即生效（提交后才触发角色切换）。
		if entry.Type == param.EntryConfiguration {
			if configuration, err := decodeConfiguration(entry.Command); err == nil {
				configuration.Index = entry.Index
				ctx.cluster.Configure(configuration)
			} else {
				r.logger.WithError(err).Error("Failed to decode configuration entry")
			}
		}
	}

	// 3. 推进提交与压缩水位，并应用新提交的条目。
	if args.CommitIndex > 0 {
		if err := ctx.SetCommitIndex(args.CommitIndex); err != nil {
			r.logger.WithError(err).Error("Failed to advance commit index")
		} else {
			ctx.stateMachine.ApplyAll(min(args.CommitIndex, ctx.writer.LastIndex()))
		}
	}
	if args.GlobalIndex > 0 {
		if err := ctx.SetGlobalIndex(args.GlobalIndex); err != nil {
			r.logger.WithError(err).Error("Failed to advance global index")
		}
	}

	reply.Success = true
	reply.LogIndex = ctx.writer.LastIndex()
	return nil
}

func (r *passiveRole) OnInstall(args *param.InstallArgs, reply *param.InstallReply) error {
	if !r.updateTermAndLeader(args.Term, args.Leader) {
		reply.Term = r.ctx.term
		reply.Success = false
		return nil
	}

	if r.pendingSnapshot == nil || r.pendingSnapshot.Index != args.Index {
		r.pendingSnapshot = param.NewSnapshot(args.Index, args.Term, nil)
	}
	r.pendingSnapshot.Data = append(r.pendingSnapshot.Data, args.Data...)

	if args.Complete {
		snapshot := r.pendingSnapshot
		r.pendingSnapshot = nil
		if err := r.ctx.snapshots.Store(snapshot); err != nil {
			r.logger.WithError(err).Error("Failed to store snapshot")
			reply.Term = r.ctx.term
			reply.Success = false
			reply.Error = err.Error()
			return nil
		}
		if err := r.ctx.stateMachine.RestoreSnapshot(snapshot); err != nil {
			r.logger.WithError(err).Error("Failed to restore state machine from snapshot")
			reply.Term = r.ctx.term
			reply.Success = false
			reply.Error = err.Error()
			return nil
		}
		// 快照覆盖点之前的日志不再需要，把本地日志快进到快照之后，
		// 让后续的 Append 一致性检查从 snapshot.Index+1 接上。
		if snapshot.Index > r.ctx.writer.LastIndex() {
			if err := r.ctx.writer.Reset(snapshot.Index); err != nil {
				r.logger.WithError(err).Error("Failed to fast-forward log past snapshot")
			}
			if err := r.ctx.SetCommitIndex(snapshot.Index); err != nil {
				r.logger.WithError(err).Error("Failed to advance commit index past snapshot")
			}
		}
		r.logger.WithField("index", snapshot.Index).Info("Installed snapshot")
	}

	reply.Term = r.ctx.term
	reply.Success = true
	return nil
}

// OnQuery 在被动成员上直接读本地状态机。这只提供顺序一致性：
// 需要线性一致读的客户端应把查询发给 Leader。
func (r *passiveRole) OnQuery(args *param.QueryArgs, reply *param.QueryReply) error {
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
