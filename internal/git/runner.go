package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	bserrors "branchsync.dev/branchsync/internal/errors"
)

// CommandRunner handles execution of git commands
type CommandRunner struct {
	workingDir string
	timeout    time.Duration
}

// NewCommandRunner creates a new CommandRunner. A zero timeout lets commands
// run until they exit or the context is cancelled.
func NewCommandRunner(workingDir string, timeout time.Duration) *CommandRunner {
	return &CommandRunner{workingDir: workingDir, timeout: timeout}
}

// Run executes a git command with the given context and returns the trimmed output
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, true, args...)
}

// RunRaw executes a git command and returns the raw output (no trimming)
func (r *CommandRunner) RunRaw(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, false, args...)
}

// RunLines executes a git command and returns output as lines
func (r *CommandRunner) RunLines(ctx context.Context, args ...string) ([]string, error) {
	output, err := r.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

func (r *CommandRunner) runInternal(ctx context.Context, trim bool, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, ok := ctx.Deadline(); !ok && r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", bserrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", bserrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), err)
	}
	if trim {
		return strings.TrimSpace(stdout.String()), nil
	}
	return stdout.String(), nil
}

// Runner defines the git capabilities the branch sync procedure relies on.
// This allows the procedure to be used with both real git and fake implementations.
type Runner interface {
	// Remote operations
	Fetch(ctx context.Context, remote string) error
	PullBranch(ctx context.Context, remote, branchName string) error
	PushBranch(ctx context.Context, remote, branchName string, setUpstream bool) error

	// Branch management
	BranchExists(ctx context.Context, branchName string) (bool, error)
	CurrentBranch(ctx context.Context) (string, error)
	CheckoutBranch(ctx context.Context, branchName string) error
	CreateAndCheckoutBranch(ctx context.Context, branchName string) error

	// Stash
	StashPush(ctx context.Context, message string) (bool, error)
	StashPop(ctx context.Context) ([]string, error)
	StashDrop(ctx context.Context) error
	StashCollisions(ctx context.Context) ([]string, error)

	// Index and working tree
	CheckoutOurs(ctx context.Context, paths []string) error
	RemoveFiles(ctx context.Context, paths []string) error
	AbortMerge(ctx context.Context) error
	StageFiles(ctx context.Context, paths []string) error
	StageAll(ctx context.Context) error
	StatusPorcelain(ctx context.Context) ([]string, error)
	UnmergedFiles(ctx context.Context) ([]string, error)
	Commit(ctx context.Context, message string) error
}

// NewRealRunner returns a Runner that shells out to git in dir and reads
// refs through go-git.
func NewRealRunner(dir string, timeout time.Duration) (Runner, error) {
	repo, err := OpenRepository(dir)
	if err != nil {
		return nil, err
	}
	return &realRunner{
		cmd:  NewCommandRunner(repo.Root(), timeout),
		repo: repo,
	}, nil
}

// realRunner implements Runner with the git binary and go-git
type realRunner struct {
	cmd  *CommandRunner
	repo *Repository
}

func (r *realRunner) BranchExists(_ context.Context, branchName string) (bool, error) {
	return r.repo.BranchExists(branchName)
}

func (r *realRunner) CurrentBranch(_ context.Context) (string, error) {
	return r.repo.CurrentBranch()
}
