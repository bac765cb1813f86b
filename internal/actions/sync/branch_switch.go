package sync

import (
	"fmt"
	"strings"

	bserrors "branchsync.dev/branchsync/internal/errors"
	"branchsync.dev/branchsync/internal/tui"
)

// stash sets aside uncommitted changes, including untracked files
func (s *syncState) stash() error {
	created, err := s.ctx.Git.StashPush(s.ctx.Context, fmt.Sprintf("branchsync: changes for %s", s.opts.NewBranch))
	if err != nil {
		return err
	}
	s.stashed = created
	s.stashPending = created
	if created {
		s.ctx.Splog.Debug("Stashed local changes.")
	}
	return nil
}

// switchToExisting checks out the existing target branch and reapplies the
// stash, resolving conflicts in favour of the branch. Stashed untracked files
// that the branch tracks are conflicts too: the branch's copy is kept.
func (s *syncState) switchToExisting(result *Result) error {
	g := s.ctx.Git
	gctx := s.ctx.Context

	if err := g.CheckoutBranch(gctx, s.opts.NewBranch); err != nil {
		return err
	}
	if !s.stashed {
		return nil
	}

	collisions, err := g.StashCollisions(gctx)
	if err != nil {
		s.returnToOriginal()
		return err
	}
	if len(collisions) > 0 {
		// git will not restore an untracked file over an existing one
		if err := g.RemoveFiles(gctx, collisions); err != nil {
			s.returnToOriginal()
			return err
		}
	}

	conflicts, err := g.StashPop(gctx)
	if err != nil {
		if len(collisions) > 0 {
			if restoreErr := g.CheckoutOurs(gctx, collisions); restoreErr != nil {
				s.ctx.Splog.Warn("Could not restore %s: %v", strings.Join(collisions, ", "), restoreErr)
			}
		}
		s.returnToOriginal()
		return err
	}
	if len(conflicts) == 0 {
		s.stashPending = false
	}

	keep := append(append([]string{}, conflicts...), collisions...)
	if len(keep) == 0 {
		return nil
	}

	s.ctx.Splog.Warn("Local changes conflict with %s; keeping the branch's version of: %s",
		tui.ColorBranchName(s.opts.NewBranch), strings.Join(keep, ", "))
	if err := s.resolveOurs(keep); err != nil {
		s.returnToOriginal()
		return bserrors.NewConflictResolutionError(s.opts.NewBranch, keep, err)
	}
	result.ResolvedConflicts = keep
	return nil
}

// createFromBase brings the base branch up to date with the remote, branches
// off it and reapplies the stash. Conflicts are not resolved on this path.
func (s *syncState) createFromBase() error {
	g := s.ctx.Git
	gctx := s.ctx.Context
	splog := s.ctx.Splog

	if err := g.CheckoutBranch(gctx, s.opts.BaseBranch); err != nil {
		return err
	}

	splog.Debug("Pulling %s from %s...", s.opts.BaseBranch, s.opts.Remote)
	if err := g.PullBranch(gctx, s.opts.Remote, s.opts.BaseBranch); err != nil {
		return err
	}

	if err := g.CreateAndCheckoutBranch(gctx, s.opts.NewBranch); err != nil {
		return err
	}
	splog.Debug("Created branch %s from %s.", s.opts.NewBranch, s.opts.BaseBranch)

	if !s.stashed {
		return nil
	}

	conflicts, err := g.StashPop(gctx)
	if err == nil && len(conflicts) > 0 {
		err = fmt.Errorf("failed to reapply local changes on %s, conflicting paths: %s: %w",
			s.opts.NewBranch, strings.Join(conflicts, ", "), bserrors.ErrExternalCommandFailed)
	}
	if err != nil {
		s.returnToOriginal()
		return err
	}
	s.stashPending = false
	return nil
}

// returnToOriginal tries to check out the branch the sync started on. Its
// failure is logged and never replaces the error being returned. While the
// stash still holds the local changes, a conflicted index left by the pop is
// reset first so the checkout can proceed.
func (s *syncState) returnToOriginal() {
	if s.original == "" {
		s.ctx.Splog.Debug("Original branch unknown; staying on the current branch.")
		return
	}
	if s.stashPending {
		s.resetConflictedIndex()
	}
	if err := s.ctx.Git.CheckoutBranch(s.ctx.Context, s.original); err != nil {
		s.ctx.Splog.Warn("Could not return to branch %s: %v", s.original, err)
	}
}

func (s *syncState) resetConflictedIndex() {
	g := s.ctx.Git
	unmerged, err := g.UnmergedFiles(s.ctx.Context)
	if err != nil || len(unmerged) == 0 {
		return
	}
	s.ctx.Splog.Debug("Resetting conflicted paths before switching back: %s", strings.Join(unmerged, ", "))
	if err := g.AbortMerge(s.ctx.Context); err != nil {
		s.ctx.Splog.Warn("Could not reset the conflicted index: %v", err)
	}
}
