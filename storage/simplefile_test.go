package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmh1011/raftd/param"
)

func TestFileMetaStorePersistence(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStorage(dir)

	meta, err := store.OpenMetaStore("s1")
	require.NoError(t, err)
	require.NoError(t, meta.StoreTerm(7))
	require.NoError(t, meta.StoreVote(param.MemberID(3)))
	require.NoError(t, meta.Close())

	// 重新打开后读到持久化的 term 和 vote。
	reopened, err := NewFileStorage(dir).OpenMetaStore("s1")
	require.NoError(t, err)
	term, err := reopened.LoadTerm()
	require.NoError(t, err)
	assert.Equal(t, int64(7), term)
	vote, err := reopened.LoadVote()
	require.NoError(t, err)
	assert.Equal(t, param.MemberID(3), vote)
}

func TestFileLogPersistence(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStorage(dir)

	logStore, err := store.OpenLog("s1")
	require.NoError(t, err)
	writer, err := logStore.CreateWriter()
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		_, err := writer.Append(param.NewLogEntry(0, 2, param.EntryCommand, []byte{byte(i)}))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Commit(2))
	require.NoError(t, logStore.Close())

	reopened, err := NewFileStorage(dir).OpenLog("s1")
	require.NoError(t, err)
	reWriter, err := reopened.CreateWriter()
	require.NoError(t, err)
	reReader, err := reopened.CreateReader(ReaderModeAll)
	require.NoError(t, err)

	assert.Equal(t, int64(3), reWriter.LastIndex())
	assert.Equal(t, int64(2), reReader.CommitIndex())
	entry, err := reReader.Entry(3)
	require.NoError(t, err)
	assert.Equal(t, []byte{3}, entry.Command)

	// 快进也会落盘：重开后日志从快进点之后开始。
	require.NoError(t, reWriter.Reset(5))
	require.NoError(t, reopened.Close())

	again, err := NewFileStorage(dir).OpenLog("s1")
	require.NoError(t, err)
	againWriter, err := again.CreateWriter()
	require.NoError(t, err)
	againReader, err := again.CreateReader(ReaderModeAll)
	require.NoError(t, err)
	assert.Equal(t, int64(5), againWriter.LastIndex())
	assert.Equal(t, int64(6), againReader.FirstIndex())
}

func TestFileSnapshotStorePersistence(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStorage(dir)

	snapshots, err := store.OpenSnapshotStore("s1")
	require.NoError(t, err)
	require.NoError(t, snapshots.Store(param.NewSnapshot(4, 2, []byte("state"))))
	require.NoError(t, snapshots.Close())

	reopened, err := NewFileStorage(dir).OpenSnapshotStore("s1")
	require.NoError(t, err)
	current, err := reopened.Current()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, int64(4), current.Index)
	assert.Equal(t, []byte("state"), current.Data)
}

func TestFileStorageDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStorage(dir)

	logStore, err := store.OpenLog("s1")
	require.NoError(t, err)
	writer, err := logStore.CreateWriter()
	require.NoError(t, err)
	_, err = writer.Append(param.NewLogEntry(0, 1, param.EntryCommand, nil))
	require.NoError(t, err)
	require.NoError(t, logStore.Close())

	require.NoError(t, store.DeleteLog("s1"))

	fresh, err := store.OpenLog("s1")
	require.NoError(t, err)
	freshWriter, err := fresh.CreateWriter()
	require.NoError(t, err)
	assert.Equal(t, int64(0), freshWriter.LastIndex())
}

func TestNewStorageFactory(t *testing.T) {
	tests := []struct {
		name        string
		storageType string
		wantErr     bool
	}{
		{name: "inmemory", storageType: InmemoryStorage},
		{name: "simplefile", storageType: SimpleFileStorage},
		{name: "unknown", storageType: "bolt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.storageType, t.TempDir())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}
