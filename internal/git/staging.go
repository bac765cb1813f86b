package git

import (
	"context"
	"fmt"
	"strings"
)

// StageAll stages all changes including untracked files
func (r *realRunner) StageAll(ctx context.Context) error {
	_, err := r.cmd.Run(ctx, "add", "-A")
	if err != nil {
		return fmt.Errorf("failed to stage all changes: %w", err)
	}
	return nil
}

// StageFiles stages the given paths, marking conflicts on them resolved.
// Paths missing from the working tree are staged as deletions.
func (r *realRunner) StageFiles(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "-A", "--"}, paths...)
	if _, err := r.cmd.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}
	return nil
}

// StatusPorcelain returns the paths git status reports as changed
func (r *realRunner) StatusPorcelain(ctx context.Context) ([]string, error) {
	// Raw output: trimming would eat the leading status column of the first line
	output, err := r.cmd.RunRaw(ctx, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return ParsePorcelain(output), nil
}

// UnmergedFiles returns paths with unresolved merge conflicts
func (r *realRunner) UnmergedFiles(ctx context.Context) ([]string, error) {
	lines, err := r.cmd.RunLines(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, fmt.Errorf("failed to list unmerged files: %w", err)
	}
	return lines, nil
}

// ParsePorcelain extracts paths from `git status --porcelain` (v1) output.
// Renames yield the destination path.
func ParsePorcelain(output string) []string {
	var paths []string
	for _, line := range strings.Split(output, "\n") {
		if len(line) < 4 {
			continue
		}
		path := line[3:]
		if idx := strings.Index(path, " -> "); idx >= 0 {
			path = path[idx+len(" -> "):]
		}
		paths = append(paths, strings.Trim(path, `"`))
	}
	return paths
}
