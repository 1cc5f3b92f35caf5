package git

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/penwyp/gac/internal/errors"
)

// MinGitVersion is the oldest git known to support every command gac runs.
const MinGitVersion = "2.0.0"

// Version 语义化版本结构
type Version struct {
	Major      int
	Minor      int
	Patch      int
	PreRelease string
}

func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.PreRelease != "" {
		s += "-" + v.PreRelease
	}
	return s
}

var versionRegex = regexp.MustCompile(`^v?(\d+)(?:\.(\d+))?(?:\.(\d+))?(?:[-.]([0-9A-Za-z.-]+))?`)

// gitVersionRegex 匹配 "git version 2.39.2 (Apple Git-143)" 或 "git version 2.45.0.windows.1"
var gitVersionRegex = regexp.MustCompile(`git version (\S+)`)

// ParseVersion 解析版本字符串，忽略尾部的平台后缀
func ParseVersion(versionStr string) (Version, error) {
	if versionStr == "" {
		return Version{}, fmt.Errorf("empty version string")
	}

	matches := versionRegex.FindStringSubmatch(versionStr)
	if matches == nil {
		return Version{}, fmt.Errorf("invalid version format: %s", versionStr)
	}

	var v Version
	v.Major, _ = strconv.Atoi(matches[1])
	if matches[2] != "" {
		v.Minor, _ = strconv.Atoi(matches[2])
	}
	if matches[3] != "" {
		v.Patch, _ = strconv.Atoi(matches[3])
	}
	// git 的 rc 版本写作 2.45.0.rc1 或 2.45.0-rc1；windows.1 之类的后缀不算预发布
	if pre := matches[4]; strings.HasPrefix(pre, "rc") {
		v.PreRelease = pre
	}
	return v, nil
}

// CompareVersions 比较两个版本
// 返回: -1 (v1 < v2), 0 (v1 == v2), 1 (v1 > v2)
func CompareVersions(v1, v2 Version) int {
	for _, d := range [][2]int{{v1.Major, v2.Major}, {v1.Minor, v2.Minor}, {v1.Patch, v2.Patch}} {
		if d[0] != d[1] {
			if d[0] > d[1] {
				return 1
			}
			return -1
		}
	}

	// 没有预发布版本的版本高于有预发布版本的
	switch {
	case v1.PreRelease == v2.PreRelease:
		return 0
	case v1.PreRelease == "":
		return 1
	case v2.PreRelease == "":
		return -1
	}
	return strings.Compare(v1.PreRelease, v2.PreRelease)
}

// ParseGitVersion extracts the version from `git --version` output.
func ParseGitVersion(output string) (Version, error) {
	m := gitVersionRegex.FindStringSubmatch(output)
	if m == nil {
		return Version{}, fmt.Errorf("unrecognized git version output: %q", strings.TrimSpace(output))
	}
	return ParseVersion(m[1])
}

// CheckGitVersion verifies that git is installed and not older than minimum.
func CheckGitVersion(ctx context.Context, runner Runner, minimum string) (Version, error) {
	out, err := runner.Run(ctx, "", "git", "--version")
	if err != nil {
		return Version{}, errors.Wrap(errors.ErrTypeGit, "git is not available", err).
			WithSuggestion("Install git and make sure it is on PATH")
	}

	current, err := ParseGitVersion(out)
	if err != nil {
		return Version{}, errors.Wrap(errors.ErrTypeGit, "failed to detect git version", err)
	}
	minVersion, err := ParseVersion(minimum)
	if err != nil {
		return Version{}, errors.Wrap(errors.ErrTypeValidation, "invalid minimum git version", err)
	}

	if CompareVersions(current, minVersion) < 0 {
		return current, errors.New(errors.ErrTypeGit,
			fmt.Sprintf("git %s is too old, %s or newer is required", current, minVersion)).
			WithSuggestion("Upgrade git")
	}
	return current, nil
}
