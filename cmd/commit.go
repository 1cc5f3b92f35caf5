package cmd

import (
	"fmt"

	"github.com/penwyp/gac/internal/errors"
	"github.com/penwyp/gac/internal/git"
	"github.com/spf13/cobra"
)

var flagCommitPush bool

var commitCmd = &cobra.Command{
	Use:   "commit FILE",
	Short: "Commit FILE as if it had just been saved",
	Long: `Stage FILE and commit it with its repository-relative path as the
message. With --push, or when the file is enabled with auto push, a push
follows and the command waits for it.`,
	Args: cobra.ExactArgs(1),
	RunE: runCommit,
}

var pushCmd = &cobra.Command{
	Use:   "push FILE",
	Short: "Push the repository containing FILE",
	Args:  cobra.ExactArgs(1),
	RunE:  runPush,
}

var wipCmd = &cobra.Command{
	Use:   "wip FILE",
	Short: "Switch FILE's repository to its work-in-progress branch",
	Long: `Switch to <prefix><current branch> (prefix defaults to wip/), creating
the branch when it does not exist. Nothing happens when the current branch
already carries the prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: runWIP,
}

func init() {
	commitCmd.Flags().BoolVarP(&flagCommitPush, "push", "p", false, "push after a successful commit")
	rootCmd.AddCommand(commitCmd, pushCmd, wipCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc := newServices(cfg, cmd.OutOrStdout())
	sess := svc.sessionFor(args[0], flagCommitPush)

	// 单次调用没有事件循环，回调直接在读取协程中执行
	job, err := svc.handler(svc.pushWorker(nil)).OnSave(cmd.Context(), sess)
	if err != nil {
		if errors.IsNothingToCommit(err) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Nothing to commit.")
			return nil
		}
		return err
	}
	if job == nil {
		return nil
	}
	return waitPush(cmd, job)
}

func runPush(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	abs, err := absPath(args[0])
	if err != nil {
		return err
	}
	svc := newServices(cfg, cmd.OutOrStdout())

	job, err := svc.pushWorker(nil).Start(cmd.Context(), abs)
	if err != nil {
		return err
	}
	return waitPush(cmd, job)
}

func waitPush(cmd *cobra.Command, job *git.PushJob) error {
	res, err := job.Wait(cmd.Context())
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		return errors.Wrap(errors.ErrTypePush, "git push "+res.Status, res.Err).
			WithSuggestion("Run 'git push' in " + job.Root + " to see the full output")
	}
	return nil
}

func runWIP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	abs, err := absPath(args[0])
	if err != nil {
		return err
	}
	svc := newServices(cfg, cmd.OutOrStdout())

	res, err := svc.switcher.EnsureWIPBranch(cmd.Context(), abs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case !res.Switched:
		_, _ = fmt.Fprintf(out, "Already on %s\n", res.From)
	case res.Created:
		_, _ = fmt.Fprintf(out, "Switched to a new branch %s\n", res.To)
	default:
		_, _ = fmt.Fprintf(out, "Switched to branch %s\n", res.To)
	}
	return nil
}
