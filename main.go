package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/penwyp/gac/cmd"
	"github.com/penwyp/gac/internal/errors"
)

// main 为 CLI 入口，调用 cmd.ExecuteContext。
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		// 标准化错误处理：统一格式输出并映射退出码
		fmt.Fprint(os.Stderr, errors.FormatError(err))
		os.Exit(errors.ExitCode(err))
	}
}
