package raft

import "github.com/pkg/errors"

var (
	// ErrIndexOutOfBounds 表示传入了负的提交/全局索引（invalid-argument）。
	// 检查在任何状态变更之前执行，失败不会破坏共享状态。
	ErrIndexOutOfBounds = errors.New("raft: index must be positive")

	// ErrUnknownMember 表示候选者 ID 不在当前集群配置中。
	// 注意：对投票是硬失败；对 Leader 公告则是静默忽略（容忍成员变更
	// 期间过期的 Leader 通告），不会返回该错误。
	ErrUnknownMember = errors.New("raft: unknown member")

	// ErrAlreadyVoted 表示本任期已经投给了另一个候选者（state-conflict）。
	ErrAlreadyVoted = errors.New("raft: already voted for another candidate")

	// ErrClosed 表示协调器已关闭，不能再执行角色切换。
	ErrClosed = errors.New("raft: context is closed")
)
