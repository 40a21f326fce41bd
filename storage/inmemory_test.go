package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmh1011/raftd/param"
)

func TestMemoryMetaStore(t *testing.T) {
	store := NewMemoryStorage()
	meta, err := store.OpenMetaStore("s1")
	require.NoError(t, err)

	term, err := meta.LoadTerm()
	require.NoError(t, err)
	assert.Equal(t, int64(0), term)

	require.NoError(t, meta.StoreTerm(3))
	require.NoError(t, meta.StoreVote(param.MemberID(2)))

	// 同名再次打开返回同一份数据。
	reopened, err := store.OpenMetaStore("s1")
	require.NoError(t, err)
	term, err = reopened.LoadTerm()
	require.NoError(t, err)
	assert.Equal(t, int64(3), term)
	vote, err := reopened.LoadVote()
	require.NoError(t, err)
	assert.Equal(t, param.MemberID(2), vote)

	// 删除之后重新打开是一份全新数据。
	require.NoError(t, store.DeleteMetaStore("s1"))
	fresh, err := store.OpenMetaStore("s1")
	require.NoError(t, err)
	term, err = fresh.LoadTerm()
	require.NoError(t, err)
	assert.Equal(t, int64(0), term)
}

func TestMemoryLogAppendAndRead(t *testing.T) {
	store := NewMemoryStorage()
	logStore, err := store.OpenLog("s1")
	require.NoError(t, err)
	writer, err := logStore.CreateWriter()
	require.NoError(t, err)
	reader, err := logStore.CreateReader(ReaderModeAll)
	require.NoError(t, err)

	assert.Equal(t, int64(0), writer.LastIndex())

	for i := 1; i <= 3; i++ {
		index, err := writer.Append(param.NewLogEntry(0, 1, param.EntryCommand, []byte{byte(i)}))
		require.NoError(t, err)
		assert.Equal(t, int64(i), index)
	}
	assert.Equal(t, int64(3), writer.LastIndex())

	entry, err := reader.Entry(2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), entry.Index)
	assert.Equal(t, []byte{2}, entry.Command)

	_, err = reader.Entry(4)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	_, err = reader.Entry(0)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestMemoryLogTruncate(t *testing.T) {
	store := NewMemoryStorage()
	logStore, err := store.OpenLog("s1")
	require.NoError(t, err)
	writer, err := logStore.CreateWriter()
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		_, err := writer.Append(param.NewLogEntry(0, 1, param.EntryCommand, nil))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Truncate(2))
	assert.Equal(t, int64(2), writer.LastIndex())

	// 截断到末尾之后是空操作。
	require.NoError(t, writer.Truncate(10))
	assert.Equal(t, int64(2), writer.LastIndex())

	index, err := writer.Append(param.NewLogEntry(0, 2, param.EntryCommand, nil))
	require.NoError(t, err)
	assert.Equal(t, int64(3), index)
}

func TestMemoryLogReset(t *testing.T) {
	store := NewMemoryStorage()
	logStore, err := store.OpenLog("s1")
	require.NoError(t, err)
	writer, err := logStore.CreateWriter()
	require.NoError(t, err)
	reader, err := logStore.CreateReader(ReaderModeAll)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		_, err := writer.Append(param.NewLogEntry(0, 1, param.EntryCommand, nil))
		require.NoError(t, err)
	}

	assert.ErrorIs(t, writer.Reset(-1), ErrIndexOutOfBounds)

	// 快进到索引 7：旧条目全部丢弃，下一条追加落在 8。
	require.NoError(t, writer.Reset(7))
	assert.Equal(t, int64(7), writer.LastIndex())
	assert.Equal(t, int64(8), reader.FirstIndex())
	assert.Equal(t, int64(7), reader.CommitIndex())
	_, err = reader.Entry(3)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	index, err := writer.Append(param.NewLogEntry(0, 2, param.EntryCommand, nil))
	require.NoError(t, err)
	assert.Equal(t, int64(8), index)
}

func TestMemoryLogCommitReaderMode(t *testing.T) {
	store := NewMemoryStorage()
	logStore, err := store.OpenLog("s1")
	require.NoError(t, err)
	writer, err := logStore.CreateWriter()
	require.NoError(t, err)
	commits, err := logStore.CreateReader(ReaderModeCommits)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		_, err := writer.Append(param.NewLogEntry(0, 1, param.EntryCommand, nil))
		require.NoError(t, err)
	}

	// 未提交的条目对 commits 模式的读取器不可见。
	_, err = commits.Entry(1)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	require.NoError(t, writer.Commit(2))
	assert.Equal(t, int64(2), commits.CommitIndex())

	_, err = commits.Entry(2)
	assert.NoError(t, err)
	_, err = commits.Entry(3)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	// 提交点不能超过日志末尾。
	assert.ErrorIs(t, writer.Commit(10), ErrIndexOutOfBounds)
}

func TestMemoryCompactorSequential(t *testing.T) {
	store := NewMemoryStorage()
	logStore, err := store.OpenLog("s1")
	require.NoError(t, err)
	writer, err := logStore.CreateWriter()
	require.NoError(t, err)
	reader, err := logStore.CreateReader(ReaderModeAll)
	require.NoError(t, err)

	logStore.Compactor().WithDefaultCompactionMode(CompactionSequential)
	assert.Equal(t, CompactionSequential, logStore.Compactor().DefaultCompactionMode())

	for i := 1; i <= 5; i++ {
		_, err := writer.Append(param.NewLogEntry(0, 1, param.EntryCommand, nil))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Commit(4))

	// 只回收既提交又低于阈值的前缀。
	logStore.Compactor().MajorIndex(3)
	assert.Equal(t, int64(4), reader.FirstIndex())

	_, err = reader.Entry(3)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	entry, err := reader.Entry(4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), entry.Index)
	assert.Equal(t, int64(5), writer.LastIndex())
}

func TestMemoryCompactorSnapshotModeDoesNotCompact(t *testing.T) {
	store := NewMemoryStorage()
	logStore, err := store.OpenLog("s1")
	require.NoError(t, err)
	writer, err := logStore.CreateWriter()
	require.NoError(t, err)
	reader, err := logStore.CreateReader(ReaderModeAll)
	require.NoError(t, err)

	logStore.Compactor().WithDefaultCompactionMode(CompactionSnapshot)

	for i := 1; i <= 3; i++ {
		_, err := writer.Append(param.NewLogEntry(0, 1, param.EntryCommand, nil))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Commit(3))

	logStore.Compactor().MajorIndex(2)
	assert.Equal(t, int64(1), reader.FirstIndex())
}

func TestMemorySnapshotStore(t *testing.T) {
	store := NewMemoryStorage()
	snapshots, err := store.OpenSnapshotStore("s1")
	require.NoError(t, err)

	current, err := snapshots.Current()
	require.NoError(t, err)
	assert.Nil(t, current)

	require.NoError(t, snapshots.Store(param.NewSnapshot(5, 2, []byte("state"))))
	current, err = snapshots.Current()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, int64(5), current.Index)

	// 新快照替换旧快照。
	require.NoError(t, snapshots.Store(param.NewSnapshot(9, 3, []byte("newer"))))
	current, err = snapshots.Current()
	require.NoError(t, err)
	assert.Equal(t, int64(9), current.Index)
}

func TestDeleteLogDropsData(t *testing.T) {
	store := NewMemoryStorage()
	logStore, err := store.OpenLog("s1")
	require.NoError(t, err)
	writer, err := logStore.CreateWriter()
	require.NoError(t, err)
	_, err = writer.Append(param.NewLogEntry(0, 1, param.EntryCommand, nil))
	require.NoError(t, err)

	require.NoError(t, store.DeleteLog("s1"))

	fresh, err := store.OpenLog("s1")
	require.NoError(t, err)
	freshWriter, err := fresh.CreateWriter()
	require.NoError(t, err)
	assert.Equal(t, int64(0), freshWriter.LastIndex())
}
