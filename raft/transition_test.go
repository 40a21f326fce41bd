package raft

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmh1011/raftd/param"
)

// recordingRole 记录自己的生命周期事件，用来验证切换的时序。
type recordingRole struct {
	inactiveRole
	typ     param.State
	events  *[]string
	openErr error
}

func (r *recordingRole) Type() param.State {
	return r.typ
}

func (r *recordingRole) Open() error {
	*r.events = append(*r.events, "open "+r.typ.String())
	return r.openErr
}

func (r *recordingRole) Close() error {
	*r.events = append(*r.events, "close "+r.typ.String())
	return nil
}

// withRecordingRoles 把协调器的角色工厂换成产出 recordingRole 的版本。
// openErrs 指定哪些目标角色的 Open 会失败。
func withRecordingRoles(c *Context, events *[]string, openErrs map[param.State]error) {
	c.roleFactory = func(ctx *Context, state param.State) Role {
		r := &recordingRole{typ: state, events: events, openErr: openErrs[state]}
		r.init(ctx, state)
		return r
	}
}

func TestTransitionClosesOldRoleBeforeOpeningNew(t *testing.T) {
	c := newTestContext(t, 1)

	var events []string
	withRecordingRoles(c, &events, nil)

	run(t, c, func() error {
		require.NoError(t, c.Transition(param.Follower))
		require.NoError(t, c.Transition(param.Candidate))
		return nil
	})

	// 旧角色先完全关闭，新角色才开始打开。
	assert.Equal(t, []string{
		"open Follower",
		"close Follower",
		"open Candidate",
	}, events)
	assert.Equal(t, param.Candidate, c.Role())
}

func TestTransitionSameRoleIsNoOp(t *testing.T) {
	c := newTestContext(t, 1)

	var events []string
	withRecordingRoles(c, &events, nil)

	var changes int
	c.OnStateChange(func(param.State) { changes++ })

	run(t, c, func() error { return c.Transition(param.Inactive) })

	assert.Empty(t, events)
	assert.Zero(t, changes)
}

func TestTransitionOpenFailureEscalates(t *testing.T) {
	c := newTestContext(t, 1)

	var events []string
	wantErr := errors.New("open failed")
	withRecordingRoles(c, &events, map[param.State]error{param.Candidate: wantErr})

	var changes []param.State
	c.OnStateChange(func(s param.State) { changes = append(changes, s) })

	run(t, c, func() error {
		require.NoError(t, c.Transition(param.Follower))

		err := c.Transition(param.Candidate)
		assert.ErrorIs(t, err, wantErr)
		return nil
	})

	// 失败的角色不会被装为当前角色，监听器也不为它触发。
	assert.Equal(t, param.Follower, c.Role())
	assert.Equal(t, []param.State{param.Follower}, changes)
}

func TestTransitionNotifiesListenersInOrder(t *testing.T) {
	c := newTestContext(t, 1)

	var events []string
	withRecordingRoles(c, &events, nil)

	var order []string
	c.OnStateChange(func(s param.State) { order = append(order, "first:"+s.String()) })
	c.OnStateChange(func(s param.State) { order = append(order, "second:"+s.String()) })

	run(t, c, func() error { return c.Transition(param.Follower) })

	assert.Equal(t, []string{"first:Follower", "second:Follower"}, order)
}

func TestListenerClose(t *testing.T) {
	c := newTestContext(t, 1)

	var events []string
	withRecordingRoles(c, &events, nil)

	var notified int
	listener := c.OnStateChange(func(param.State) { notified++ })

	run(t, c, func() error { return c.Transition(param.Follower) })
	listener.Close()
	run(t, c, func() error { return c.Transition(param.Candidate) })

	assert.Equal(t, 1, notified)
}

func TestTransitionMemberType(t *testing.T) {
	tests := []struct {
		name string
		typ  param.MemberType
		want param.State
	}{
		{name: "active member becomes follower", typ: param.MemberActive, want: param.Follower},
		{name: "passive member", typ: param.MemberPassive, want: param.Passive},
		{name: "reserve member", typ: param.MemberReserve, want: param.Reserve},
		{name: "inactive member", typ: param.MemberInactive, want: param.Inactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t, 1)
			var events []string
			withRecordingRoles(c, &events, nil)

			run(t, c, func() error { return c.TransitionMemberType(tt.typ) })
			assert.Equal(t, tt.want, c.Role())
		})
	}
}

func TestTransitionMemberTypeKeepsActiveVotingRole(t *testing.T) {
	c := newTestContext(t, 1)

	var events []string
	withRecordingRoles(c, &events, nil)

	run(t, c, func() error {
		require.NoError(t, c.Transition(param.Candidate))
		// 已处于投票角色的 ACTIVE 成员不被打回 Follower。
		require.NoError(t, c.TransitionMemberType(param.MemberActive))
		return nil
	})

	assert.Equal(t, param.Candidate, c.Role())
}
