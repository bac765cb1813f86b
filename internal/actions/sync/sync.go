package sync

import (
	"fmt"

	"branchsync.dev/branchsync/internal/config"
	bserrors "branchsync.dev/branchsync/internal/errors"
	"branchsync.dev/branchsync/internal/runtime"
	"branchsync.dev/branchsync/internal/tui"
	"branchsync.dev/branchsync/internal/utils"
)

// NoChangesMessage is reported when nothing was left to commit
const NoChangesMessage = "No changes to commit"

// Options contains options for the sync action
type Options struct {
	BaseBranch  string
	NewBranch   string
	Remote      string
	SetUpstream bool
}

// Result describes a completed sync
type Result struct {
	// Created is true when NewBranch was created from BaseBranch
	Created bool
	// Committed and Pushed are false when there was nothing to commit
	Committed bool
	Pushed    bool
	// ResolvedConflicts lists paths where the branch's version replaced the stashed one
	ResolvedConflicts []string
	Message           string
}

// CommitMessage returns the message used for sync commits
func CommitMessage(branchName string) string {
	return fmt.Sprintf("Update for branch %s", branchName)
}

// SuccessMessage returns the confirmation shown after a commit and push
func SuccessMessage(branchName string) string {
	return fmt.Sprintf("Successfully committed and pushed changes to branch '%s'", branchName)
}

// syncState tracks what the procedure has changed so far
type syncState struct {
	ctx      *runtime.Context
	opts     Options
	original string
	// stashPending is true while a stash entry created by this run has not
	// been reapplied or dropped
	stashPending bool
	stashed      bool
}

// Action ensures opts.NewBranch exists, carries local changes onto it,
// commits them and pushes the branch. Every failure aborts the sync.
func Action(ctx *runtime.Context, opts Options) (*Result, error) {
	for _, name := range []string{opts.BaseBranch, opts.NewBranch} {
		if err := utils.ValidateBranchName(name); err != nil {
			return nil, err
		}
	}
	if opts.Remote == "" {
		opts.Remote = config.DefaultRemote
	}

	g := ctx.Git
	splog := ctx.Splog
	gctx := ctx.Context

	splog.Debug("Fetching from %s...", opts.Remote)
	if err := g.Fetch(gctx, opts.Remote); err != nil {
		return nil, bserrors.NewRemoteUnavailableError(opts.Remote, err)
	}

	baseExists, err := g.BranchExists(gctx, opts.BaseBranch)
	if err != nil {
		return nil, err
	}
	if !baseExists {
		return nil, bserrors.NewBranchNotFoundError(opts.BaseBranch)
	}

	newExists, err := g.BranchExists(gctx, opts.NewBranch)
	if err != nil {
		return nil, err
	}

	state := &syncState{ctx: ctx, opts: opts}
	if state.original, err = g.CurrentBranch(gctx); err != nil {
		splog.Debug("Could not determine the current branch: %v", err)
	}

	result := &Result{}
	if err := state.stash(); err != nil {
		return nil, err
	}

	if newExists {
		splog.Info("Branch '%s' already exists. Checking out and pushing changes...", tui.ColorBranchName(opts.NewBranch))
		err = state.switchToExisting(result)
	} else {
		err = state.createFromBase()
		result.Created = err == nil
	}
	if err != nil {
		if state.stashPending {
			splog.Tip("Your local changes are still saved in the stash. Run 'git stash pop' to restore them.")
		}
		return nil, err
	}

	if err := state.commitAndPush(result); err != nil {
		return nil, err
	}
	return result, nil
}
