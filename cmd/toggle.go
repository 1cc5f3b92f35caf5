package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/penwyp/gac/internal/config"
	"github.com/penwyp/gac/internal/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagEnablePush bool
	flagEnableWIP  bool
)

var enableCmd = &cobra.Command{
	Use:   "enable FILE",
	Short: "Commit FILE on every save while 'gac watch' runs",
	Long: `Add FILE to the config file. A running 'gac watch' picks the change up
without a restart. --push overrides the global auto_push default for this
file; --wip commits on <prefix><branch> instead of the current branch.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnable,
}

var disableCmd = &cobra.Command{
	Use:   "disable FILE",
	Short: "Stop committing FILE on save",
	Args:  cobra.ExactArgs(1),
	RunE:  runDisable,
}

var autoPushCmd = &cobra.Command{
	Use:       "auto-push FILE on|off",
	Short:     "Turn pushing after each commit on or off for an enabled FILE",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"on", "off"},
	RunE:      runAutoPush,
}

func init() {
	enableCmd.Flags().BoolVarP(&flagEnablePush, "push", "p", false, "push after each commit")
	enableCmd.Flags().BoolVar(&flagEnableWIP, "wip", false, "switch to the work-in-progress branch before committing")
	rootCmd.AddCommand(enableCmd, disableCmd, autoPushCmd)
}

func runEnable(cmd *cobra.Command, args []string) error {
	manager, _, err := configManager()
	if err != nil {
		return err
	}
	abs, err := absPath(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// 非仓库内的文件仍然启用，只给出提示
	if _, err := newServices(cfg, cmd.OutOrStdout()).collector.FindRoot(cmd.Context(), abs); err != nil {
		getLogger().Warn("File is not inside a git repository yet", zap.String("file", abs))
	}

	file := config.FileConfig{Path: abs, WIPBranch: flagEnableWIP}
	if existing, ok := cfg.FindFile(abs); ok {
		file = existing
		if cmd.Flags().Changed("wip") {
			file.WIPBranch = flagEnableWIP
		}
	}
	if cmd.Flags().Changed("push") {
		file.AutoPush = config.Bool(flagEnablePush)
	}

	if err := manager.UpdateFile(file); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Enabled %s (auto push %s)\n", abs, onOff(cfg.AutoPushFor(file)))
	return nil
}

func runDisable(cmd *cobra.Command, args []string) error {
	manager, _, err := configManager()
	if err != nil {
		return err
	}
	abs, err := absPath(args[0])
	if err != nil {
		return err
	}

	removed, err := manager.RemoveFile(abs)
	if err != nil {
		return err
	}
	if !removed {
		return errors.Wrap(errors.ErrTypeValidation, abs, errors.ErrSessionNotFound)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Disabled %s\n", abs)
	return nil
}

func runAutoPush(cmd *cobra.Command, args []string) error {
	on, err := parseOnOff(args[1])
	if err != nil {
		return err
	}
	manager, _, err := configManager()
	if err != nil {
		return err
	}
	abs, err := absPath(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	file, ok := cfg.FindFile(abs)
	if !ok {
		return errors.Wrap(errors.ErrTypeValidation, abs, errors.ErrSessionNotFound)
	}
	file.AutoPush = config.Bool(on)
	if err := manager.UpdateFile(file); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Auto push %s for %s\n", onOff(on), abs)
	return nil
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.New(errors.ErrTypeValidation, fmt.Sprintf("invalid value %q", s)).
			WithSuggestion("Use 'on' or 'off'")
	}
	return v, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
