package raft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmh1011/raftd/param"
)

func TestQuorumCountsOnlyActiveMembers(t *testing.T) {
	members := []param.Member{
		param.NewMember(1, param.MemberActive, "s1", ""),
		param.NewMember(2, param.MemberActive, "s2", ""),
		param.NewMember(3, param.MemberActive, "s3", ""),
		param.NewMember(4, param.MemberPassive, "s4", ""),
		param.NewMember(5, param.MemberReserve, "s5", ""),
	}
	c := newTestContext(t, 1, withMembers(members))

	assert.Equal(t, 2, c.Cluster().Quorum())
}

func TestRemoteMembersFiltering(t *testing.T) {
	members := []param.Member{
		param.NewMember(1, param.MemberActive, "s1", ""),
		param.NewMember(2, param.MemberActive, "s2", ""),
		param.NewMember(3, param.MemberPassive, "s3", ""),
		param.NewMember(4, param.MemberReserve, "s4", ""),
	}
	c := newTestContext(t, 1, withMembers(members))

	ids := func(ms []param.Member) []param.MemberID {
		var out []param.MemberID
		for _, m := range ms {
			out = append(out, m.ID)
		}
		return out
	}

	// 本节点自己永远不在远端成员里。
	assert.Equal(t, []param.MemberID{2, 3, 4}, ids(c.Cluster().RemoteMembers(param.MemberReserve)))
	assert.Equal(t, []param.MemberID{2, 3}, ids(c.Cluster().RemoteMembers(param.MemberPassive)))
	assert.Equal(t, []param.MemberID{2}, ids(c.Cluster().RemoteMembers(param.MemberActive)))
}

func TestSelfIsAppendedWhenMissing(t *testing.T) {
	members := []param.Member{
		param.NewMember(2, param.MemberActive, "s2", ""),
	}
	self := param.NewMember(1, param.MemberActive, "s1", "")

	cs := newClusterState(nil, self, members)
	require.NotNil(t, cs.Self())
	assert.Equal(t, param.MemberID(1), cs.SelfID())
	assert.Len(t, cs.Members(), 2)
}

func TestConfigureIgnoresStaleConfiguration(t *testing.T) {
	c := newTestContext(t, 1)

	newer := param.Configuration{Index: 5, Members: testMembers()[:2]}
	stale := param.Configuration{Index: 3, Members: testMembers()}

	run(t, c, func() error {
		c.Cluster().Configure(newer)
		c.Cluster().Configure(stale)
		return nil
	})

	assert.Equal(t, int64(5), c.Cluster().Configuration().Index)
	assert.Len(t, c.Cluster().Members(), 2)
}

func TestCommitTransitionsToMemberTypeRole(t *testing.T) {
	c := newTestContext(t, 1)

	demoted := []param.Member{
		param.NewMember(1, param.MemberReserve, "s1", ""),
		param.NewMember(2, param.MemberActive, "s2", ""),
		param.NewMember(3, param.MemberActive, "s3", ""),
	}

	run(t, c, func() error {
		c.Cluster().Configure(param.Configuration{Index: 1, Members: demoted})
		c.Cluster().Commit()
		return nil
	})
	assert.Equal(t, param.Reserve, c.Role())

	// 同一配置重复提交是空操作。
	var changes int
	c.OnStateChange(func(param.State) { changes++ })
	run(t, c, func() error {
		c.Cluster().Commit()
		return nil
	})
	assert.Zero(t, changes)
}

func TestCommitRemovedMemberGoesInactive(t *testing.T) {
	c := newTestContext(t, 1)

	withoutSelf := []param.Member{
		param.NewMember(2, param.MemberActive, "s2", ""),
		param.NewMember(3, param.MemberActive, "s3", ""),
	}

	run(t, c, func() error {
		require.NoError(t, c.Transition(param.Follower))
		c.Cluster().Configure(param.Configuration{Index: 1, Members: withoutSelf})
		c.Cluster().Commit()
		return nil
	})

	assert.Nil(t, c.Cluster().Self())
	assert.Equal(t, param.Inactive, c.Role())
}
