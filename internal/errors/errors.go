package errors

import (
	"errors"
	"fmt"
)

// ErrorType 定义错误类型
type ErrorType int

const (
	// ErrTypeUnknown 未知错误
	ErrTypeUnknown ErrorType = iota
	// ErrTypeGit Git 命令相关错误
	ErrTypeGit
	// ErrTypeRepository 仓库定位相关错误
	ErrTypeRepository
	// ErrTypeBranch 分支相关错误
	ErrTypeBranch
	// ErrTypePush 推送相关错误
	ErrTypePush
	// ErrTypeCredential 凭据输入相关错误
	ErrTypeCredential
	// ErrTypeConfig 配置相关错误
	ErrTypeConfig
	// ErrTypeWatch 文件监听相关错误
	ErrTypeWatch
	// ErrTypeValidation 验证错误
	ErrTypeValidation
)

// GacError 统一错误结构
type GacError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
}

// Error 实现 error 接口
func (e *GacError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap 支持 errors.Is 和 errors.As
func (e *GacError) Unwrap() error {
	return e.Cause
}

// WithSuggestion 添加解决建议
func (e *GacError) WithSuggestion(suggestion string) *GacError {
	e.Suggestion = suggestion
	return e
}

// New 创建新的 GacError
func New(errType ErrorType, message string) *GacError {
	return &GacError{
		Type:    errType,
		Message: message,
	}
}

// Wrap 包装已有错误
func Wrap(errType ErrorType, message string, cause error) *GacError {
	return &GacError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// 预定义的常见错误
var (
	// ErrNotInRepository is returned when a file has no enclosing git working tree.
	// Callers treat it as "nothing to do".
	ErrNotInRepository = New(ErrTypeRepository, "not inside a git repository").
				WithSuggestion("Run 'git init' in the file's directory or pick a tracked file")

	// ErrNoCurrentBranch is returned when HEAD is detached.
	ErrNoCurrentBranch = New(ErrTypeBranch, "no branch is checked out").
				WithSuggestion("Check out a branch before switching to a wip branch")

	ErrPromptCancelled = New(ErrTypeCredential, "credential prompt cancelled")
	ErrNotInteractive  = New(ErrTypeCredential, "cannot prompt for credentials without a terminal").
				WithSuggestion("Load the key into ssh-agent or configure a git credential helper")

	ErrSessionNotFound = New(ErrTypeValidation, "file is not enabled").
				WithSuggestion("Run 'gac enable FILE' first")
	ErrMissingParameter = New(ErrTypeValidation, "missing required parameter")
)

// Is 检查是否为特定错误
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// As 尝试转换为特定错误类型
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetType 获取错误类型
func GetType(err error) ErrorType {
	var gacErr *GacError
	if errors.As(err, &gacErr) {
		return gacErr.Type
	}
	return ErrTypeUnknown
}

// GetSuggestion 获取错误链上第一个非空的建议
func GetSuggestion(err error) string {
	for err != nil {
		var gacErr *GacError
		if !errors.As(err, &gacErr) {
			return ""
		}
		if gacErr.Suggestion != "" {
			return gacErr.Suggestion
		}
		err = gacErr.Cause
	}
	return ""
}
