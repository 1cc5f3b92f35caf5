package cmd

import (
	"fmt"

	"github.com/penwyp/gac/collector"
	"github.com/spf13/cobra"
)

var rootPathCmd = &cobra.Command{
	Use:   "root FILE",
	Short: "Print the root of the repository containing FILE",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoot,
}

var branchesCmd = &cobra.Command{
	Use:   "branches FILE",
	Short: "List the local branches of the repository containing FILE",
	Args:  cobra.ExactArgs(1),
	RunE:  runBranches,
}

func init() {
	rootCmd.AddCommand(rootPathCmd, branchesCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc := newServices(cfg, cmd.OutOrStdout())

	root, err := svc.collector.FindRoot(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), root)
	return nil
}

func runBranches(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc := newServices(cfg, cmd.OutOrStdout())
	ctx := cmd.Context()

	root, err := svc.collector.FindRoot(ctx, args[0])
	if err != nil {
		return err
	}
	raw, err := svc.collector.ListRaw(ctx, root)
	if err != nil {
		return err
	}

	current := collector.ParseCurrentBranch(raw)
	for _, name := range collector.ParseBranchNames(raw) {
		marker := "  "
		if name == current {
			marker = "* "
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), marker+name)
	}
	return nil
}
