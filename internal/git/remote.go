package git

import (
	"context"
	"fmt"
)

// Fetch refreshes remote-tracking refs. An empty remote lets git pick the
// default one.
func (r *realRunner) Fetch(ctx context.Context, remote string) error {
	args := []string{"fetch"}
	if remote != "" {
		args = append(args, remote)
	}
	if _, err := r.cmd.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to fetch: %w", err)
	}
	return nil
}

// PullBranch pulls branchName from remote into the checked-out branch
func (r *realRunner) PullBranch(ctx context.Context, remote, branchName string) error {
	if _, err := r.cmd.Run(ctx, "pull", remote, branchName); err != nil {
		return fmt.Errorf("failed to pull %s from %s: %w", branchName, remote, err)
	}
	return nil
}

// PushBranch pushes a branch to remote, optionally setting it as upstream
func (r *realRunner) PushBranch(ctx context.Context, remote, branchName string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, branchName)

	if _, err := r.cmd.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to push branch %s: %w", branchName, err)
	}
	return nil
}
