package storage

import (
	"bytes"
	"encoding/gob"
	"sync"

	"github.com/pkg/errors"

	"github.com/xmh1011/raftd/param"
)

var ErrKeyNotFound = errors.New("storage: key not found")

// KVCommand 是 KV 状态机的命令格式，随日志条目 gob 编码传输。
type KVCommand struct {
	Op    string // "put" 或 "delete"
	Key   string
	Value string
}

// EncodeKVCommand 将命令序列化为日志条目载荷。
func EncodeKVCommand(cmd KVCommand) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cmd); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// KVStateMachine 是一个内存 KV 状态机，实现了 StateMachine 与
// Snapshottable，因此默认使用基于快照的日志压缩。
type KVStateMachine struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewKVStateMachine 创建一个空的 KV 状态机。
func NewKVStateMachine() *KVStateMachine {
	return &KVStateMachine{data: make(map[string]string)}
}

func (m *KVStateMachine) Apply(entry param.LogEntry) ([]byte, error) {
	var cmd KVCommand
	if err := gob.NewDecoder(bytes.NewReader(entry.Command)).Decode(&cmd); err != nil {
		return nil, errors.Wrap(err, "decode kv command")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	switch cmd.Op {
	case "put":
		m.data[cmd.Key] = cmd.Value
		return []byte(cmd.Value), nil
	case "delete":
		delete(m.data, cmd.Key)
		return nil, nil
	default:
		return nil, errors.Errorf("unknown kv op: %s", cmd.Op)
	}
}

func (m *KVStateMachine) Query(query []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[string(query)]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return []byte(value), nil
}

// Snapshot 序列化全部键值对。
func (m *KVStateMachine) Snapshot() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m.data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Restore 用快照数据覆盖当前状态。
func (m *KVStateMachine) Restore(data []byte) error {
	restored := make(map[string]string)
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&restored); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = restored
	return nil
}
