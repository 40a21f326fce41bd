package storage

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/xmh1011/raftd/param"
)

const (
	InmemoryStorage   = "inmemory"
	SimpleFileStorage = "simplefile"
)

// Storage 是协调器使用的持久化资源工厂。
// 每个服务器以一个稳定的 name 作为键，打开/删除属于它的元数据存储、
// 日志和快照存储；三者作为一个整体随 reset/delete 生命周期操作被管理。
type Storage interface {
	// OpenMetaStore 打开（必要时创建）名为 name 的元数据存储。
	OpenMetaStore(name string) (MetaStore, error)
	// OpenLog 打开（必要时创建）名为 name 的日志。
	OpenLog(name string) (Log, error)
	// OpenSnapshotStore 打开（必要时创建）名为 name 的快照存储。
	OpenSnapshotStore(name string) (SnapshotStore, error)

	// DeleteMetaStore 永久删除名为 name 的元数据存储。
	DeleteMetaStore(name string) error
	// DeleteLog 永久删除名为 name 的日志。
	DeleteLog(name string) error
	// DeleteSnapshotStore 永久删除名为 name 的快照存储。
	DeleteSnapshotStore(name string) error
}

// MetaStore 持久化 HardState（term 与 votedFor）。
// 写入是同步的：StoreTerm / StoreVote 返回时数据必须已落盘。
type MetaStore interface {
	StoreTerm(term int64) error
	LoadTerm() (int64, error)
	StoreVote(vote param.MemberID) error
	LoadVote() (param.MemberID, error)
	Close() error
}

// SnapshotStore 持久化状态机快照。同一时刻至多保留一个当前快照。
type SnapshotStore interface {
	// Store 原子地保存快照，替换任何旧快照。
	Store(snapshot *param.Snapshot) error
	// Current 返回最后保存的快照，没有快照时返回 nil。
	Current() (*param.Snapshot, error)
	Close() error
}

// New 根据存储类型构造 Storage 实现。
func New(storageType, dataDir string) (Storage, error) {
	switch storageType {
	case InmemoryStorage:
		log.Info("Using in-memory storage")
		return NewMemoryStorage(), nil
	case SimpleFileStorage:
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		log.Infof("Using simple file storage at %s", dataDir)
		return NewFileStorage(dataDir), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", storageType)
	}
}
