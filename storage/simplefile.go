package storage

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"sync"

	"github.com/xmh1011/raftd/param"
)

// FileStorage is a simple file-based Storage implementation.
// 每个服务器名对应三个 gob 文件（meta / log / snapshot），每次写操作都
// 将完整状态写入临时文件后原子重命名。这是一个面向小数据量的简单实现，
// 不追求 LSM 或 WAL 级别的写入性能。
type FileStorage struct {
	dir string
}

// NewFileStorage 创建一个以 dir 为根目录的文件存储。
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

func (s *FileStorage) metaPath(name string) string {
	return filepath.Join(s.dir, name+".meta")
}

func (s *FileStorage) logPath(name string) string {
	return filepath.Join(s.dir, name+".log")
}

func (s *FileStorage) snapshotPath(name string) string {
	return filepath.Join(s.dir, name+".snapshot")
}

func (s *FileStorage) OpenMetaStore(name string) (MetaStore, error) {
	m := &fileMetaStore{path: s.metaPath(name)}
	if err := loadGob(m.path, &m.state); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := persistGob(m.path, &m.state); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (s *FileStorage) OpenLog(name string) (Log, error) {
	l := &fileLog{path: s.logPath(name), log: newMemoryLog()}
	var data logData
	if err := loadGob(l.path, &data); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := l.persist(); err != nil {
			return nil, err
		}
		return l, nil
	}
	l.log.entries = data.Entries
	l.log.offset = data.Offset
	l.log.commitIndex = data.CommitIndex
	l.log.compactor.mode = data.CompactionMode
	l.log.compactor.majorIndex = data.MajorIndex
	return l, nil
}

func (s *FileStorage) OpenSnapshotStore(name string) (SnapshotStore, error) {
	ss := &fileSnapshotStore{path: s.snapshotPath(name)}
	var snap param.Snapshot
	if err := loadGob(ss.path, &snap); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		return ss, nil
	}
	ss.snapshot = &snap
	return ss, nil
}

func (s *FileStorage) DeleteMetaStore(name string) error {
	return removeIfExists(s.metaPath(name))
}

func (s *FileStorage) DeleteLog(name string) error {
	return removeIfExists(s.logPath(name))
}

func (s *FileStorage) DeleteSnapshotStore(name string) error {
	return removeIfExists(s.snapshotPath(name))
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// loadGob 从文件反序列化到 v。
func loadGob(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewDecoder(f).Decode(v)
}

// persistGob 先写临时文件再重命名，保证替换的原子性。
func persistGob(path string, v any) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// --- MetaStore ---

type metaState struct {
	Term int64
	Vote param.MemberID
}

type fileMetaStore struct {
	mu    sync.RWMutex
	path  string
	state metaState
}

func (m *fileMetaStore) StoreTerm(term int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Term = term
	return persistGob(m.path, &m.state)
}

func (m *fileMetaStore) LoadTerm() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Term, nil
}

func (m *fileMetaStore) StoreVote(vote param.MemberID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Vote = vote
	return persistGob(m.path, &m.state)
}

func (m *fileMetaStore) LoadVote() (param.MemberID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Vote, nil
}

func (m *fileMetaStore) Close() error {
	return nil
}

// --- Log ---

type logData struct {
	Entries        []param.LogEntry
	Offset         int64
	CommitIndex    int64
	CompactionMode CompactionMode
	MajorIndex     int64
}

// fileLog 在内存日志之上加了一层"每次变更后整体落盘"。
type fileLog struct {
	path string
	log  *memoryLog
}

func (l *fileLog) persist() error {
	l.log.mu.RLock()
	l.log.compactor.mu.RLock()
	data := logData{
		Entries:        l.log.entries,
		Offset:         l.log.offset,
		CommitIndex:    l.log.commitIndex,
		CompactionMode: l.log.compactor.mode,
		MajorIndex:     l.log.compactor.majorIndex,
	}
	l.log.compactor.mu.RUnlock()
	l.log.mu.RUnlock()
	return persistGob(l.path, &data)
}

func (l *fileLog) CreateReader(mode ReaderMode) (LogReader, error) {
	return l.log.CreateReader(mode)
}

func (l *fileLog) CreateWriter() (LogWriter, error) {
	return &fileLogWriter{log: l, inner: &memoryLogWriter{log: l.log}}, nil
}

func (l *fileLog) Compactor() Compactor {
	return &fileCompactor{log: l, inner: l.log.compactor}
}

func (l *fileLog) Close() error {
	return l.persist()
}

type fileLogWriter struct {
	log   *fileLog
	inner *memoryLogWriter
}

func (w *fileLogWriter) Append(entry param.LogEntry) (int64, error) {
	index, err := w.inner.Append(entry)
	if err != nil {
		return 0, err
	}
	return index, w.log.persist()
}

func (w *fileLogWriter) Truncate(index int64) error {
	if err := w.inner.Truncate(index); err != nil {
		return err
	}
	return w.log.persist()
}

func (w *fileLogWriter) Reset(index int64) error {
	if err := w.inner.Reset(index); err != nil {
		return err
	}
	return w.log.persist()
}

func (w *fileLogWriter) Commit(index int64) error {
	if err := w.inner.Commit(index); err != nil {
		return err
	}
	return w.log.persist()
}

func (w *fileLogWriter) LastIndex() int64 {
	return w.inner.LastIndex()
}

func (w *fileLogWriter) Close() error {
	return nil
}

type fileCompactor struct {
	log   *fileLog
	inner *memoryCompactor
}

func (c *fileCompactor) MajorIndex(index int64) {
	c.inner.MajorIndex(index)
	if err := c.log.persist(); err != nil {
		// 压缩是尽力而为的优化，落盘失败不影响正确性，下次写入会补上。
		return
	}
}

func (c *fileCompactor) WithDefaultCompactionMode(mode CompactionMode) {
	c.inner.WithDefaultCompactionMode(mode)
}

func (c *fileCompactor) DefaultCompactionMode() CompactionMode {
	return c.inner.DefaultCompactionMode()
}

// --- SnapshotStore ---

type fileSnapshotStore struct {
	mu       sync.RWMutex
	path     string
	snapshot *param.Snapshot
}

func (s *fileSnapshotStore) Store(snapshot *param.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := persistGob(s.path, snapshot); err != nil {
		return err
	}
	s.snapshot = snapshot
	return nil
}

func (s *fileSnapshotStore) Current() (*param.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, nil
}

func (s *fileSnapshotStore) Close() error {
	return nil
}
