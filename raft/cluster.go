package raft

import (
	"github.com/xmh1011/raftd/param"
)

// ClusterState 维护集群成员表与当前配置。
// 它由协调器构造并独占写入：角色可以直接读取，但所有变更都必须经过
// 协调器（SetLeader、提交索引触发的 Commit 等），参见并发模型。
type ClusterState struct {
	ctx    *Context
	selfID param.MemberID

	configuration param.Configuration
	// committedIndex 是最后一个已提交配置的索引。
	committedIndex int64
}

func newClusterState(ctx *Context, self param.Member, members []param.Member) *ClusterState {
	found := false
	for _, m := range members {
		if m.ID == self.ID {
			found = true
			break
		}
	}
	if !found {
		members = append(append([]param.Member(nil), members...), self)
	}
	return &ClusterState{
		ctx:    ctx,
		selfID: self.ID,
		configuration: param.Configuration{
			Index:   0,
			Members: members,
		},
	}
}

// Member 按 ID 查找当前配置中的成员，找不到返回 nil。
func (c *ClusterState) Member(id param.MemberID) *param.Member {
	return c.configuration.Member(id)
}

// Self 返回本节点在当前配置中的成员描述。
// 节点被移出配置后返回 nil。
func (c *ClusterState) Self() *param.Member {
	return c.configuration.Member(c.selfID)
}

// SelfID 返回本节点的成员 ID。
func (c *ClusterState) SelfID() param.MemberID {
	return c.selfID
}

// Members 返回当前配置的成员列表副本。
func (c *ClusterState) Members() []param.Member {
	return append([]param.Member(nil), c.configuration.Members...)
}

// Configuration 返回当前（可能尚未提交的）配置。
func (c *ClusterState) Configuration() param.Configuration {
	return c.configuration
}

// RemoteMembers 返回除本节点外、成员类型不低于 minType 的成员。
// Leader 的心跳发给所有远端成员，候选者的投票请求只发给 ACTIVE 成员。
func (c *ClusterState) RemoteMembers(minType param.MemberType) []param.Member {
	var out []param.Member
	for _, m := range c.configuration.Members {
		if m.ID == c.selfID || m.Type < minType {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Quorum 返回 ACTIVE 成员的多数派大小。
func (c *ClusterState) Quorum() int {
	active := 0
	for _, m := range c.configuration.Members {
		if m.Type == param.MemberActive {
			active++
		}
	}
	return active/2 + 1
}

// Configure 安装一个新的集群配置。旧于当前配置的安装请求被忽略。
// 配置先生效再提交：成员表立即更新，但基础角色的切换要等配置条目
// 被提交（Commit）后才发生。
func (c *ClusterState) Configure(configuration param.Configuration) {
	c.ctx.exec.CheckThread()
	if configuration.Index > 0 && configuration.Index <= c.configuration.Index {
		return
	}
	c.configuration = configuration
	c.ctx.logger.WithField("index", configuration.Index).
		Debugf("Configured cluster with %d members", len(configuration.Members))
}

// Commit 在配置条目首次落入提交窗口时由协调器调用，恰好一次。
// 此时配置成为集群的已提交配置，本节点切换到自己成员类型对应的
// 基础角色（被移出配置的节点回到 INACTIVE）。
func (c *ClusterState) Commit() {
	c.ctx.exec.CheckThread()
	if c.configuration.Index <= c.committedIndex && c.configuration.Index != 0 {
		return
	}
	c.committedIndex = c.configuration.Index

	selfType := param.MemberInactive
	if self := c.Self(); self != nil {
		selfType = self.Type
	}
	if err := c.ctx.TransitionMemberType(selfType); err != nil {
		c.ctx.logger.WithError(err).Error("Failed to transition after configuration commit")
	}
}

// Identify 在发现新 Leader 后重新推导本节点的身份信息。
func (c *ClusterState) Identify() {
	c.ctx.exec.CheckThread()
	if self := c.Self(); self != nil {
		c.ctx.logger.WithField("type", self.Type.String()).Debug("Identified self in configuration")
	}
}
