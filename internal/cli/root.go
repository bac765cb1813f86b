// Package cli wires the branchsync command line onto the sync action.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"branchsync.dev/branchsync/internal/actions/sync"
	"branchsync.dev/branchsync/internal/cli/common"
	bserrors "branchsync.dev/branchsync/internal/errors"
	"branchsync.dev/branchsync/internal/runtime"
	"branchsync.dev/branchsync/internal/tui"
)

// UsageLine is printed when the positional arguments are wrong
const UsageLine = "Usage: branchsync <base_branch> <new_branch>"

// ErrUsage is returned for invalid invocations; the usage line has already been printed
var ErrUsage = errors.New("invalid arguments")

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var (
		remote      string
		setUpstream bool
		debug       bool
		logFile     string
	)

	rootCmd := &cobra.Command{
		Use:   "branchsync <base_branch> <new_branch>",
		Short: "Carry local changes onto a branch, then commit and push it",
		Long: `branchsync makes sure <new_branch> exists and publishes your working-tree changes on it.

If <new_branch> exists, local changes are stashed, the branch is checked out and the
changes are reapplied. Conflicting files keep the branch's version.
Otherwise <base_branch> is pulled from the remote and <new_branch> is created from it.

Any resulting changes are committed as "Update for branch <new_branch>" and pushed.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 || args[0] == "" || args[1] == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), UsageLine)
				return ErrUsage
			}
			return nil
		},
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			splog, err := tui.NewSplogWithConfig(tui.SplogOptions{
				Writer:      cmd.OutOrStdout(),
				LogFilePath: logFile,
				Debug:       debug,
			})
			if err != nil {
				return err
			}
			defer func() { _ = splog.Close() }()
			tui.ConfigureColors(cmd.OutOrStdout())

			return common.Run(cmd, splog, func(ctx *runtime.Context) error {
				opts := sync.Options{
					BaseBranch:  args[0],
					NewBranch:   args[1],
					Remote:      ctx.Config.GetRemote(),
					SetUpstream: ctx.Config.GetSetUpstream(),
				}
				if cmd.Flags().Changed("remote") {
					opts.Remote = remote
				}
				if cmd.Flags().Changed("set-upstream") {
					opts.SetUpstream = setUpstream
				}

				_, err := sync.Action(ctx, opts)
				if err != nil {
					reportError(splog, err)
				}
				return err
			})
		},
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), err)
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), UsageLine)
		return ErrUsage
	})

	rootCmd.Flags().StringVarP(&remote, "remote", "r", "", "Remote to fetch from and push to (default from config, else origin)")
	rootCmd.Flags().BoolVarP(&setUpstream, "set-upstream", "u", false, "Set the pushed branch as upstream")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Show each step as it runs")
	rootCmd.Flags().StringVar(&logFile, "log-file", tui.GetLogFilePath(), "Also write a detailed log to this file")

	return rootCmd
}

// reportError prints a failure the way users of the script expect it
func reportError(splog *tui.Splog, err error) {
	if errors.Is(err, bserrors.ErrBaseBranchNotFound) {
		splog.Error("%s %v", tui.ColorRed("Error:"), err)
		return
	}
	splog.Error("%s %v", tui.ColorRed("Error occurred:"), err)
}
