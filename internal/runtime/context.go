package runtime

import (
	"context"
	"fmt"

	"branchsync.dev/branchsync/internal/config"
	"branchsync.dev/branchsync/internal/git"
	"branchsync.dev/branchsync/internal/tui"
)

// Context provides access to the git runner and output for commands
type Context struct {
	Context  context.Context
	Git      git.Runner
	Splog    *tui.Splog
	RepoRoot string
	Config   *config.RepoConfig
}

// NewContext creates a new context with the given runner
func NewContext(ctx context.Context, runner git.Runner, splog *tui.Splog) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if splog == nil {
		splog = tui.NewSplog()
	}
	return &Context{
		Context: ctx,
		Git:     runner,
		Splog:   splog,
		Config:  &config.RepoConfig{},
	}
}

// GetContext opens the repository rooted at repoRoot, loads its config and
// returns a context backed by the real git runner.
func GetContext(ctx context.Context, repoRoot string, splog *tui.Splog) (*Context, error) {
	cfg, err := config.GetRepoConfig(repoRoot)
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.GetCommandTimeout()
	if err != nil {
		return nil, err
	}

	runner, err := git.NewRealRunner(repoRoot, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	rctx := NewContext(ctx, runner, splog)
	rctx.RepoRoot = repoRoot
	rctx.Config = cfg
	return rctx, nil
}
