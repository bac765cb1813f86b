package git

import (
	"context"
	"fmt"
)

// StashPush stashes tracked and untracked changes. It reports whether a new
// stash entry was created; a clean working tree creates none.
func (r *realRunner) StashPush(ctx context.Context, message string) (bool, error) {
	before, err := r.repo.StashTip()
	if err != nil {
		return false, err
	}

	args := []string{"stash", "push", "-u"}
	if message != "" {
		args = append(args, "-m", message)
	}
	if _, err := r.cmd.Run(ctx, args...); err != nil {
		return false, fmt.Errorf("stash push failed: %w", err)
	}

	after, err := r.repo.StashTip()
	if err != nil {
		return false, err
	}
	return after != before, nil
}

// StashPop reapplies the most recent stash entry. When the pop stops on
// conflicts it returns the unmerged paths and a nil error; git keeps the
// entry in that case.
func (r *realRunner) StashPop(ctx context.Context) ([]string, error) {
	_, popErr := r.cmd.Run(ctx, "stash", "pop")
	if popErr == nil {
		return nil, nil
	}

	unmerged, err := r.UnmergedFiles(ctx)
	if err == nil && len(unmerged) > 0 {
		return unmerged, nil
	}
	return nil, fmt.Errorf("stash pop failed: %w", popErr)
}

// StashDrop drops the most recent stash entry
func (r *realRunner) StashDrop(ctx context.Context) error {
	if _, err := r.cmd.Run(ctx, "stash", "drop"); err != nil {
		return fmt.Errorf("stash drop failed: %w", err)
	}
	return nil
}

// StashCollisions returns the untracked files of the newest stash entry that
// the checked-out branch tracks. git refuses to pop such an entry because
// restoring them would overwrite the branch's files.
func (r *realRunner) StashCollisions(_ context.Context) ([]string, error) {
	untracked, err := r.repo.StashUntrackedFiles()
	if err != nil {
		return nil, err
	}
	return r.repo.TrackedAtHead(untracked)
}
