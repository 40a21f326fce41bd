package raft

import (
	"github.com/pkg/errors"

	"github.com/xmh1011/raftd/param"
)

// createRole 按目标状态构造角色实例。测试可以通过 Context.roleFactory 替换它。
func createRole(c *Context, state param.State) Role {
	switch state {
	case param.Reserve:
		return newReserveRole(c)
	case param.Passive:
		return newPassiveRole(c)
	case param.Follower:
		return newFollowerRole(c)
	case param.Candidate:
		return newCandidateRole(c)
	case param.Leader:
		return newLeaderRole(c)
	default:
		return newInactiveRole(c)
	}
}

// Transition 切换到目标角色：先同步关闭当前角色，再同步打开新角色。
// 两步严格串行，旧角色完全关闭之前新角色不会启动任何定时器或请求。
// 只有新角色成功打开之后才对外生效；Open 失败时错误向上抛，不留下半个角色。
// 必须在状态协程上调用。
func (c *Context) Transition(target param.State) error {
	c.exec.CheckThread()

	if c.closed && target != param.Inactive {
		return ErrClosed
	}
	if c.role != nil && c.role.Type() == target {
		return nil
	}
	c.logger.WithField("target", target.String()).Info("State transition")

	if c.role != nil {
		if err := c.role.Close(); err != nil {
			return errors.Wrapf(err, "close %s role", c.role.Type().String())
		}
	}

	role := c.roleFactory(c, target)
	if err := role.Open(); err != nil {
		return errors.Wrapf(err, "open %s role", target.String())
	}
	c.role = role

	c.stateChangeListeners.notify(target)
	return nil
}

// TransitionMemberType 按本节点在集群配置中的成员类型调整角色。
// ACTIVE 成员进入 Follower（除非已经处于某个投票角色），
// PASSIVE 和 RESERVE 成员进入同名角色，INACTIVE 成员退出参与。
func (c *Context) TransitionMemberType(typ param.MemberType) error {
	c.exec.CheckThread()

	switch typ {
	case param.MemberActive:
		if !c.role.Type().Active() {
			return c.Transition(param.Follower)
		}
	case param.MemberPassive:
		if c.role.Type() != param.Passive {
			return c.Transition(param.Passive)
		}
	case param.MemberReserve:
		if c.role.Type() != param.Reserve {
			return c.Transition(param.Reserve)
		}
	default:
		if c.role.Type() != param.Inactive {
			return c.Transition(param.Inactive)
		}
	}
	return nil
}
