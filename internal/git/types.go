package git

import (
	"context"
	"io"
)

// Remote Git远程仓库信息
type Remote struct {
	Name     string // 远程仓库名称，如 origin
	FetchURL string // 拉取URL
	PushURL  string // 推送URL
}

// Runner Git命令执行器接口
//
// dir 为命令的工作目录；返回值为合并后的 stdout/stderr。
// 失败时同样返回已产生的输出，便于调用方检查错误标记。
type Runner interface {
	Run(ctx context.Context, dir string, command string, args ...string) (string, error)
}

// RepoInspector resolves repository and branch context for a file.
// It is implemented by collector.Collector.
type RepoInspector interface {
	FindRoot(ctx context.Context, filePath string) (string, error)
	RelativePath(ctx context.Context, filePath string) (string, error)
	CurrentBranch(ctx context.Context, root string) (string, error)
	BranchNames(ctx context.Context, root string) ([]string, error)
}

// RemoteManager Git远程仓库管理器
type RemoteManager interface {
	// GetRemotes 获取所有远程仓库
	GetRemotes(ctx context.Context, root string) ([]Remote, error)

	// SelectRemote 根据优先级选择远程仓库
	SelectRemote(remotes []Remote, preferredName string) (*Remote, error)

	// HasUpstreamBranch 检查分支是否有上游分支
	HasUpstreamBranch(ctx context.Context, root, branch string) bool
}

// Process is a running child whose combined output can be read and whose
// stdin can be written.
type Process interface {
	io.Reader
	io.Writer
	// Wait blocks until the child exits and releases its resources.
	Wait() error
}

// Spawner starts asynchronous child processes.
type Spawner interface {
	Spawn(dir string, command string, args ...string) (Process, error)
}

// SecretPrompter asks the user for a secret with masked input.
type SecretPrompter interface {
	PromptSecret(label string) (string, error)
}

// TextPrompter asks the user for a non-secret answer with visible input.
// Prompters that do not implement it are asked through PromptSecret.
type TextPrompter interface {
	PromptText(label string) (string, error)
}

// Notifier displays a one-line status message to the user.
type Notifier interface {
	Notify(message string)
}

// Dispatcher queues callbacks onto the single event loop.
type Dispatcher interface {
	Post(fn func())
}
