package collector

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/penwyp/gac/internal/errors"
	"github.com/penwyp/gac/internal/git"
)

// Collector 负责定位仓库根目录并读取分支信息。
// 通过依赖注入的 Runner 以实现可测试性。
// 所有方法均以 context 控制生命周期。
type Collector struct {
	runner git.Runner
}

// New 创建 Collector 实例。
func New(r git.Runner) *Collector {
	return &Collector{runner: r}
}

// errorMarker 匹配 git 的错误输出，例如 "fatal: not a git repository"。
// 仓库路径总是以 / 或盘符开头，不会误判。
var errorMarker = regexp.MustCompile(`(?m)^[A-Za-z][\w-]*: `)

// Chomp trims surrounding whitespace, including trailing newlines.
func Chomp(s string) string {
	return strings.TrimSpace(s)
}

// FindRoot 返回 filePath 所在仓库的根目录。
// git 以文件所在目录为工作目录执行；失败或输出包含错误标记时返回 ErrNotInRepository。
func (c *Collector) FindRoot(ctx context.Context, filePath string) (string, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("%s: %w", filePath, errors.ErrNotInRepository)
	}

	out, err := c.runner.Run(ctx, filepath.Dir(abs), "git", "rev-parse", "--show-toplevel")
	if err != nil || errorMarker.MatchString(out) {
		return "", fmt.Errorf("%s: %w", filePath, errors.ErrNotInRepository)
	}

	root := strings.TrimRight(out, "\r\n")
	if root == "" {
		return "", fmt.Errorf("%s: %w", filePath, errors.ErrNotInRepository)
	}
	return filepath.FromSlash(root), nil
}

// RelativePath 返回文件相对于仓库根目录的路径（使用 / 分隔）。
// 仓库根目录同样从文件所在目录解析，而不是进程当前目录。
func (c *Collector) RelativePath(ctx context.Context, filePath string) (string, error) {
	root, err := c.FindRoot(ctx, filePath)
	if err != nil {
		return "", err
	}

	resolved := resolvePath(filePath)
	var rel string
	if strings.HasPrefix(resolved, root) {
		rel = strings.TrimPrefix(resolved, root)
	} else {
		// root 与文件路径的符号链接解析方式不一致时退回 filepath.Rel
		rel, err = filepath.Rel(root, resolved)
		if err != nil {
			return "", errors.Wrap(errors.ErrTypeRepository, "failed to compute relative path", err)
		}
	}
	rel = strings.TrimLeft(rel, `/\`)
	return Chomp(filepath.ToSlash(rel)), nil
}

// resolvePath 返回绝对路径，并解析目录中的符号链接（git 打印的是真实路径）。
func resolvePath(filePath string) string {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return filePath
	}
	dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		return abs
	}
	return filepath.Join(dir, filepath.Base(abs))
}

// ListRaw 返回 `git branch` 的原始输出。root 为空时直接返回 ErrNotInRepository，不执行 git。
func (c *Collector) ListRaw(ctx context.Context, root string) (string, error) {
	if root == "" {
		return "", errors.ErrNotInRepository
	}
	out, err := c.runner.Run(ctx, root, "git", "branch", "--no-color")
	if err != nil {
		return "", errors.Wrap(errors.ErrTypeGit, "git branch failed", err)
	}
	return out, nil
}

// CurrentBranch 返回当前分支名；没有分支（如 detached HEAD）时返回空字符串。
func (c *Collector) CurrentBranch(ctx context.Context, root string) (string, error) {
	raw, err := c.ListRaw(ctx, root)
	if err != nil {
		return "", err
	}
	return ParseCurrentBranch(raw), nil
}

// BranchNames 返回仓库中的全部本地分支名，保持 git 输出顺序。
func (c *Collector) BranchNames(ctx context.Context, root string) ([]string, error) {
	raw, err := c.ListRaw(ctx, root)
	if err != nil {
		return nil, err
	}
	return ParseBranchNames(raw), nil
}

// ParseCurrentBranch extracts the name on the line marked with "* ".
func ParseCurrentBranch(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		if len(line) < 2 || line[0] != '*' || !unicode.IsSpace(rune(line[1])) {
			continue
		}
		name := Chomp(line[1:])
		if strings.HasPrefix(name, "(") {
			// (HEAD detached at 1a2b3c4)
			return ""
		}
		return name
	}
	return ""
}

// ParseBranchNames splits raw `git branch` output into names, dropping the
// current-branch marker and the worktree marker.
func ParseBranchNames(raw string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(raw, "\n") {
		for _, field := range strings.Fields(line) {
			if field == "*" || field == "+" {
				continue
			}
			if strings.HasPrefix(field, "(") {
				break
			}
			if !seen[field] {
				seen[field] = true
				names = append(names, field)
			}
		}
	}
	return names
}
