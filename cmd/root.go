package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/penwyp/gac/collector"
	"github.com/penwyp/gac/internal/config"
	"github.com/penwyp/gac/internal/errors"
	"github.com/penwyp/gac/internal/git"
	"github.com/penwyp/gac/internal/logger"
	"github.com/penwyp/gac/internal/session"
	"github.com/penwyp/gac/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version holds the current version of gac
// This will be set at build time via ldflags
var version = "dev"

// GetVersionString returns a formatted version string
func GetVersionString() string {
	return fmt.Sprintf("gac version %s", version)
}

// 将关键依赖抽象为 provider 以便测试时注入 Mock。
var (
	runnerProvider   func(logger *zap.Logger) git.Runner = defaultRunnerProvider
	spawnerProvider  func(usePTY bool) git.Spawner       = git.NewSpawner
	prompterProvider func() git.SecretPrompter           = defaultPrompterProvider
	appLogger        *zap.Logger                         // 全局日志记录器
)

func defaultRunnerProvider(logger *zap.Logger) git.Runner {
	return git.NewExecRunner(logger)
}

// defaultPrompterProvider 仅在 stdin 为终端时交互式询问密码
func defaultPrompterProvider() git.SecretPrompter {
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return ui.NewPasswordPrompter(os.Stdin, os.Stderr)
	}
	return ui.NonInteractivePrompter{}
}

var rootCmd = &cobra.Command{
	Use:   "gac",
	Short: "Commit files to git every time they are saved",
	Long: `gac records every save of selected files as a git commit.

The commit message is the file's path relative to its repository root.
Enabled files can also be pushed after each commit; ssh passphrase and
password prompts raised by git push are answered through a masked prompt.

Files are enabled with 'gac enable FILE' and watched by 'gac watch'.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogger,
	PersistentPostRun: func(*cobra.Command, []string) {
		if appLogger != nil {
			_ = appLogger.Sync()
		}
	},
	RunE: run,
}

var (
	flagConfig  string
	flagDebug   bool
	flagLogFile string
	flagVersion bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default $GAC_CONFIG or ~/.config/gac/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug output for troubleshooting")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "also write JSON logs to this file (rotated)")
	rootCmd.Flags().BoolVar(&flagVersion, "version", false, "show version information")
}

func Execute() error { return rootCmd.Execute() }

func ExecuteContext(ctx context.Context) error { return rootCmd.ExecuteContext(ctx) }

func run(cmd *cobra.Command, args []string) error {
	if flagVersion {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), GetVersionString())
		return nil
	}
	return cmd.Help()
}

func setupLogger(*cobra.Command, []string) error {
	var err error
	appLogger, err = logger.NewWithOptions(logger.Options{Debug: flagDebug, LogFile: flagLogFile})
	if err != nil {
		return errors.Wrap(errors.ErrTypeConfig, "failed to initialize logger", err)
	}
	return nil
}

func getLogger() *zap.Logger {
	if appLogger == nil {
		return zap.NewNop()
	}
	return appLogger
}

// configPath 返回 --config 或默认配置路径
func configPath() (string, error) {
	if flagConfig != "" {
		return flagConfig, nil
	}
	return config.DefaultPath()
}

func configManager() (config.Manager, string, error) {
	path, err := configPath()
	if err != nil {
		return nil, "", err
	}
	manager, err := config.NewYAMLConfigManager(path)
	if err != nil {
		return nil, "", err
	}
	return manager, path, nil
}

// loadConfig 读取配置；文件不存在时使用默认值，不创建文件
func loadConfig() (*config.Config, error) {
	manager, _, err := configManager()
	if err != nil {
		return nil, err
	}
	cfg, err := manager.Load()
	if err != nil {
		if os.IsNotExist(err) {
			return &config.Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// services wires the git building blocks for one command invocation.
type services struct {
	cfg       *config.Config
	runner    git.Runner
	collector *collector.Collector
	remotes   git.RemoteManager
	switcher  *git.Switcher
	committer *git.Committer
	notifier  *ui.StatusNotifier
	logger    *zap.Logger
}

func newServices(cfg *config.Config, out io.Writer) *services {
	l := getLogger()
	runner := runnerProvider(l)
	col := collector.New(runner)
	return &services{
		cfg:       cfg,
		runner:    runner,
		collector: col,
		remotes:   git.NewRemoteManager(runner),
		switcher:  git.NewSwitcher(runner, col, cfg.WIPPrefix, l),
		committer: git.NewCommitter(runner, col, l),
		notifier:  ui.NewStatusNotifier(out, terminalWidth(), l),
		logger:    l,
	}
}

func (s *services) pushWorker(dispatcher git.Dispatcher) *git.PushWorker {
	return git.NewPushWorker(git.PushWorkerConfig{
		Spawner:    spawnerProvider(s.cfg.PTYEnabled()),
		Inspector:  s.collector,
		Remotes:    s.remotes,
		Prompter:   prompterProvider(),
		Notifier:   s.notifier,
		Dispatcher: dispatcher,
		Remote:     s.cfg.Remote,
		Logger:     s.logger,
	})
}

func (s *services) handler(pusher session.PushStarter) *session.Handler {
	return session.NewHandler(s.switcher, s.committer, pusher, s.notifier, s.logger)
}

// sessionFor 构造单次调用使用的会话，已启用文件沿用配置中的选项
func (s *services) sessionFor(path string, forcePush bool) *session.FileSession {
	abs := config.NormalizePath(path)
	sess := &session.FileSession{Path: abs, AutoPush: forcePush}
	if f, ok := s.cfg.FindFile(abs); ok {
		sess.AutoPush = sess.AutoPush || s.cfg.AutoPushFor(f)
		sess.WIPBranch = f.WIPBranch
	}
	return sess
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrTypeValidation, "invalid file path", err)
	}
	return abs, nil
}

func terminalWidth() int {
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		return cols
	}
	return 80
}
