package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmh1011/raftd/param"
)

func applyKV(t *testing.T, sm *KVStateMachine, index int64, cmd KVCommand) []byte {
	t.Helper()
	data, err := EncodeKVCommand(cmd)
	require.NoError(t, err)
	result, err := sm.Apply(param.NewLogEntry(index, 1, param.EntryCommand, data))
	require.NoError(t, err)
	return result
}

func TestKVStateMachinePutAndQuery(t *testing.T) {
	sm := NewKVStateMachine()

	result := applyKV(t, sm, 1, KVCommand{Op: "put", Key: "a", Value: "1"})
	assert.Equal(t, []byte("1"), result)

	value, err := sm.Query([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), value)

	_, err = sm.Query([]byte("missing"))
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestKVStateMachineDelete(t *testing.T) {
	sm := NewKVStateMachine()
	applyKV(t, sm, 1, KVCommand{Op: "put", Key: "a", Value: "1"})
	applyKV(t, sm, 2, KVCommand{Op: "delete", Key: "a"})

	_, err := sm.Query([]byte("a"))
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestKVStateMachineUnknownOp(t *testing.T) {
	sm := NewKVStateMachine()
	data, err := EncodeKVCommand(KVCommand{Op: "increment", Key: "a"})
	require.NoError(t, err)
	_, err = sm.Apply(param.NewLogEntry(1, 1, param.EntryCommand, data))
	assert.Error(t, err)
}

func TestKVStateMachineSnapshotRestore(t *testing.T) {
	sm := NewKVStateMachine()
	applyKV(t, sm, 1, KVCommand{Op: "put", Key: "a", Value: "1"})
	applyKV(t, sm, 2, KVCommand{Op: "put", Key: "b", Value: "2"})

	snapshot, err := sm.Snapshot()
	require.NoError(t, err)

	restored := NewKVStateMachine()
	require.NoError(t, restored.Restore(snapshot))

	value, err := restored.Query([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), value)
}

func TestKVStateMachineIsSnapshottable(t *testing.T) {
	var sm StateMachine = NewKVStateMachine()
	_, ok := sm.(Snapshottable)
	assert.True(t, ok)
}
