package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CheckoutBranch checks out an existing branch
func (r *realRunner) CheckoutBranch(ctx context.Context, branchName string) error {
	_, err := r.cmd.Run(ctx, "checkout", branchName)
	if err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w", branchName, err)
	}
	return nil
}

// CreateAndCheckoutBranch creates a branch at HEAD and checks it out
func (r *realRunner) CreateAndCheckoutBranch(ctx context.Context, branchName string) error {
	_, err := r.cmd.Run(ctx, "checkout", "-b", branchName)
	if err != nil {
		return fmt.Errorf("failed to create and checkout branch %s: %w", branchName, err)
	}
	return nil
}

// CheckoutOurs restores the checked-out branch's version of each path. A
// conflicted path the branch does not have (deleted on the branch, modified
// in the stash) is removed from the working tree, so staging it records the
// deletion.
func (r *realRunner) CheckoutOurs(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	deleted, err := r.deletedOnBranch(ctx, paths)
	if err != nil {
		return err
	}

	var keep, remove []string
	for _, p := range paths {
		if deleted[p] {
			remove = append(remove, p)
		} else {
			keep = append(keep, p)
		}
	}

	if len(keep) > 0 {
		args := append([]string{"checkout", "--ours", "--"}, keep...)
		if _, err := r.cmd.Run(ctx, args...); err != nil {
			return fmt.Errorf("failed to checkout our version of conflicting files: %w", err)
		}
	}
	return r.RemoveFiles(ctx, remove)
}

// deletedOnBranch returns the unmerged paths that have no stage 2 entry
func (r *realRunner) deletedOnBranch(ctx context.Context, paths []string) (map[string]bool, error) {
	args := append([]string{"ls-files", "-u", "--"}, paths...)
	lines, err := r.cmd.RunLines(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list unmerged entries: %w", err)
	}

	stages := map[string]map[string]bool{}
	for _, line := range lines {
		// <mode> <object> <stage>\t<path>
		meta, path, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		fields := strings.Fields(meta)
		if len(fields) != 3 {
			continue
		}
		if stages[path] == nil {
			stages[path] = map[string]bool{}
		}
		stages[path][fields[2]] = true
	}

	deleted := map[string]bool{}
	for path, s := range stages {
		if !s["2"] {
			deleted[path] = true
		}
	}
	return deleted, nil
}

// RemoveFiles deletes the working-tree copies of paths. Missing files are
// ignored.
func (r *realRunner) RemoveFiles(_ context.Context, paths []string) error {
	for _, p := range paths {
		err := os.Remove(filepath.Join(r.repo.Root(), filepath.FromSlash(p)))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

// AbortMerge resets the index and the files a conflicted merge or stash pop
// touched back to HEAD
func (r *realRunner) AbortMerge(ctx context.Context) error {
	if _, err := r.cmd.Run(ctx, "reset", "--merge"); err != nil {
		return fmt.Errorf("failed to reset conflicted index: %w", err)
	}
	return nil
}
