package cmd

import (
	"context"
	"fmt"

	"github.com/penwyp/gac/internal/config"
	"github.com/penwyp/gac/internal/errors"
	"github.com/penwyp/gac/internal/eventloop"
	"github.com/penwyp/gac/internal/git"
	"github.com/penwyp/gac/internal/session"
	"github.com/penwyp/gac/internal/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var watchCmd = &cobra.Command{
	Use:   "watch [FILE...]",
	Short: "Commit enabled files every time they are saved",
	Long: `Watch every file enabled in the config file, plus the files given as
arguments, and commit each save. Changes to the config file apply while
watching. Stop with Ctrl+C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	base, path, err := configManager()
	if err != nil {
		return err
	}
	l := getLogger()

	gitVersion, err := git.CheckGitVersion(cmd.Context(), runnerProvider(l), git.MinGitVersion)
	if err != nil {
		return err
	}
	l.Debug("Using git", zap.Stringer("version", gitVersion))

	hot, err := config.NewHotReloadManager(base, path, l)
	if err != nil {
		return err
	}
	defer hot.Stop()

	cfg, err := hot.Load()
	if err != nil {
		return err
	}

	extra := make([]string, 0, len(args))
	for _, a := range args {
		abs, err := absPath(a)
		if err != nil {
			return err
		}
		extra = append(extra, abs)
	}

	svc := newServices(cfg, cmd.ErrOrStderr())
	loop := eventloop.New(l)
	reg := session.NewRegistry(cfg.AutoPush)
	handler := svc.handler(svc.pushWorker(loop))

	g, ctx := errgroup.WithContext(cmd.Context())

	w, err := watcher.New(cfg.Debounce(), loop, func(path string) {
		handler.HandleSave(ctx, reg, path)
	}, l)
	if err != nil {
		return err
	}

	apply := func(c *config.Config) {
		added, removed := reg.Apply(c, extra...)
		for _, p := range removed {
			if err := w.Remove(p); err != nil {
				l.Warn("Failed to stop watching", zap.String("file", p), zap.Error(err))
			}
		}
		for _, p := range added {
			if err := w.Add(p); err != nil {
				l.Warn("Failed to watch", zap.String("file", p), zap.Error(err))
				svc.notifier.Notify(fmt.Sprintf("cannot watch %s", p))
			}
		}
		l.Info("Watching files", zap.Int("count", reg.Len()))
		logWatchSummary(l, w, loop)
	}

	// 事件循环尚未启动，直接应用初始配置是安全的
	apply(cfg)
	hot.OnConfigChange(func(c *config.Config) {
		loop.Post(func() { apply(c) })
	})

	if reg.Len() == 0 {
		svc.notifier.Notify("no files enabled, run 'gac enable FILE' to add one")
	}

	g.Go(func() error { return loop.Run(ctx) })
	g.Go(func() error {
		if err := w.Run(ctx); err != nil {
			return err
		}
		return errors.New(errors.ErrTypeWatch, "file watcher closed unexpectedly")
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrTypeWatch, "watch stopped", err)
	}
	return nil
}

// logWatchSummary 在 --debug 下列出监听的文件和排队的回调数
func logWatchSummary(l *zap.Logger, w *watcher.Watcher, loop *eventloop.Loop) {
	if ce := l.Check(zap.DebugLevel, "Watch summary"); ce != nil {
		ce.Write(zap.Strings("files", w.Files()), zap.Int("queued", loop.Pending()))
	}
}
