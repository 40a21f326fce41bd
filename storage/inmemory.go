package storage

import (
	"sync"

	"github.com/xmh1011/raftd/param"
)

// MemoryStorage 是 Storage 接口的线程安全内存实现，主要用于测试。
// 同名的 Open 调用返回同一份底层数据，Delete 则将其丢弃，
// 这样 reset() 的"删旧开新"语义可以在内存中被完整模拟。
type MemoryStorage struct {
	mu        sync.Mutex
	metas     map[string]*memoryMetaStore
	logs      map[string]*memoryLog
	snapshots map[string]*memorySnapshotStore
}

// NewMemoryStorage 创建一个新的内存存储实例。
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		metas:     make(map[string]*memoryMetaStore),
		logs:      make(map[string]*memoryLog),
		snapshots: make(map[string]*memorySnapshotStore),
	}
}

func (s *MemoryStorage) OpenMetaStore(name string) (MetaStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.metas[name]; ok {
		return m, nil
	}
	m := &memoryMetaStore{}
	s.metas[name] = m
	return m, nil
}

func (s *MemoryStorage) OpenLog(name string) (Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.logs[name]; ok {
		return l, nil
	}
	l := newMemoryLog()
	s.logs[name] = l
	return l, nil
}

func (s *MemoryStorage) OpenSnapshotStore(name string) (SnapshotStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ss, ok := s.snapshots[name]; ok {
		return ss, nil
	}
	ss := &memorySnapshotStore{}
	s.snapshots[name] = ss
	return ss, nil
}

func (s *MemoryStorage) DeleteMetaStore(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.metas, name)
	return nil
}

func (s *MemoryStorage) DeleteLog(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, name)
	return nil
}

func (s *MemoryStorage) DeleteSnapshotStore(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, name)
	return nil
}

// --- MetaStore ---

type memoryMetaStore struct {
	mu   sync.RWMutex
	term int64
	vote param.MemberID
}

func (m *memoryMetaStore) StoreTerm(term int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.term = term
	return nil
}

func (m *memoryMetaStore) LoadTerm() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.term, nil
}

func (m *memoryMetaStore) StoreVote(vote param.MemberID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vote = vote
	return nil
}

func (m *memoryMetaStore) LoadVote() (param.MemberID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vote, nil
}

func (m *memoryMetaStore) Close() error {
	return nil
}

// --- Log ---

// memoryLog 用一个带偏移量的切片保存日志。
// entries[0] 的真实索引是 offset+1；压缩会前移 offset。
type memoryLog struct {
	mu          sync.RWMutex
	entries     []param.LogEntry
	offset      int64
	commitIndex int64
	compactor   *memoryCompactor
}

func newMemoryLog() *memoryLog {
	l := &memoryLog{}
	l.compactor = &memoryCompactor{log: l}
	return l
}

func (l *memoryLog) CreateReader(mode ReaderMode) (LogReader, error) {
	return &memoryLogReader{log: l, mode: mode}, nil
}

func (l *memoryLog) CreateWriter() (LogWriter, error) {
	return &memoryLogWriter{log: l}, nil
}

func (l *memoryLog) Compactor() Compactor {
	return l.compactor
}

func (l *memoryLog) Close() error {
	return nil
}

func (l *memoryLog) lastIndex() int64 {
	return l.offset + int64(len(l.entries))
}

type memoryLogWriter struct {
	log *memoryLog
}

func (w *memoryLogWriter) Append(entry param.LogEntry) (int64, error) {
	w.log.mu.Lock()
	defer w.log.mu.Unlock()
	entry.Index = w.log.lastIndex() + 1
	w.log.entries = append(w.log.entries, entry)
	return entry.Index, nil
}

func (w *memoryLogWriter) Truncate(index int64) error {
	w.log.mu.Lock()
	defer w.log.mu.Unlock()
	if index < w.log.offset {
		return ErrIndexOutOfBounds
	}
	if index >= w.log.lastIndex() {
		return nil
	}
	w.log.entries = w.log.entries[:index-w.log.offset]
	return nil
}

func (w *memoryLogWriter) Reset(index int64) error {
	w.log.mu.Lock()
	defer w.log.mu.Unlock()
	if index < 0 {
		return ErrIndexOutOfBounds
	}
	w.log.entries = nil
	w.log.offset = index
	if index > w.log.commitIndex {
		w.log.commitIndex = index
	}
	return nil
}

func (w *memoryLogWriter) Commit(index int64) error {
	w.log.mu.Lock()
	defer w.log.mu.Unlock()
	if index > w.log.lastIndex() {
		return ErrIndexOutOfBounds
	}
	if index > w.log.commitIndex {
		w.log.commitIndex = index
	}
	return nil
}

func (w *memoryLogWriter) LastIndex() int64 {
	w.log.mu.RLock()
	defer w.log.mu.RUnlock()
	return w.log.lastIndex()
}

func (w *memoryLogWriter) Close() error {
	return nil
}

type memoryLogReader struct {
	log  *memoryLog
	mode ReaderMode
}

func (r *memoryLogReader) Entry(index int64) (*param.LogEntry, error) {
	r.log.mu.RLock()
	defer r.log.mu.RUnlock()
	if r.mode == ReaderModeCommits && index > r.log.commitIndex {
		return nil, ErrEntryNotFound
	}
	if index <= r.log.offset || index > r.log.lastIndex() {
		return nil, ErrEntryNotFound
	}
	entry := r.log.entries[index-r.log.offset-1]
	return &entry, nil
}

func (r *memoryLogReader) FirstIndex() int64 {
	r.log.mu.RLock()
	defer r.log.mu.RUnlock()
	return r.log.offset + 1
}

func (r *memoryLogReader) CommitIndex() int64 {
	r.log.mu.RLock()
	defer r.log.mu.RUnlock()
	return r.log.commitIndex
}

func (r *memoryLogReader) Close() error {
	return nil
}

// --- Compactor ---

type memoryCompactor struct {
	mu         sync.RWMutex
	log        *memoryLog
	majorIndex int64
	mode       CompactionMode
}

// MajorIndex 推进可安全压缩的阈值。顺序压缩模式下立即回收
// 阈值之下已提交的条目；快照模式下的回收由快照安装驱动。
func (c *memoryCompactor) MajorIndex(index int64) {
	c.mu.Lock()
	if index > c.majorIndex {
		c.majorIndex = index
	}
	major := c.majorIndex
	mode := c.mode
	c.mu.Unlock()

	if mode != CompactionSequential {
		return
	}
	c.log.mu.Lock()
	defer c.log.mu.Unlock()
	compactTo := min(major, c.log.commitIndex)
	if compactTo <= c.log.offset {
		return
	}
	c.log.entries = append([]param.LogEntry(nil), c.log.entries[compactTo-c.log.offset:]...)
	c.log.offset = compactTo
}

func (c *memoryCompactor) WithDefaultCompactionMode(mode CompactionMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
}

func (c *memoryCompactor) DefaultCompactionMode() CompactionMode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// --- SnapshotStore ---

type memorySnapshotStore struct {
	mu       sync.RWMutex
	snapshot *param.Snapshot
}

func (s *memorySnapshotStore) Store(snapshot *param.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
	return nil
}

func (s *memorySnapshotStore) Current() (*param.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, nil
}

func (s *memorySnapshotStore) Close() error {
	return nil
}
