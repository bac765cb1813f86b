// Package common provides shared helper functions for CLI commands.
package common

import (
	"os"

	"github.com/spf13/cobra"

	bserrors "branchsync.dev/branchsync/internal/errors"
	"branchsync.dev/branchsync/internal/git"
	"branchsync.dev/branchsync/internal/runtime"
	"branchsync.dev/branchsync/internal/tui"
)

// Run is a helper that provides a runtime context to a command's execution function.
// The working directory must be a repository root.
func Run(cmd *cobra.Command, splog *tui.Splog, fn func(ctx *runtime.Context) error) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	if !git.IsRepoRoot(wd) {
		splog.Error("Error: Not a git repository")
		return bserrors.ErrNotARepository
	}

	ctx, err := runtime.GetContext(cmd.Context(), wd, splog)
	if err != nil {
		splog.Error("Error occurred: %v", err)
		return err
	}
	return fn(ctx)
}

// CompleteBranches is a helper for cobra.ValidArgsFunction that returns the
// local branch names of the repository in the working directory.
func CompleteBranches(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) >= 2 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	repo, err := git.OpenRepository(wd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	branches, err := repo.BranchNames()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return branches, cobra.ShellCompDirectiveNoFileComp
}
