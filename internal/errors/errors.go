// Package errors provides sentinel errors and custom error types for branchsync.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrNotARepository indicates that the working directory is not a repository root
	ErrNotARepository = errors.New("not a git repository")

	// ErrRemoteUnavailable indicates that the remote could not be fetched
	ErrRemoteUnavailable = errors.New("remote unavailable")

	// ErrBaseBranchNotFound indicates that the base branch does not exist locally
	ErrBaseBranchNotFound = errors.New("base branch not found")

	// ErrConflictResolutionFailed indicates that stash conflicts could not be resolved
	ErrConflictResolutionFailed = errors.New("conflict resolution failed")

	// ErrExternalCommandFailed indicates that a git command exited unsuccessfully
	ErrExternalCommandFailed = errors.New("external command failed")
)

// BranchNotFoundError represents an error when the base branch is not found
type BranchNotFoundError struct {
	BranchName string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("Base branch '%s' does not exist.", e.BranchName)
}

// Is returns true if the target error is ErrBaseBranchNotFound
func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBaseBranchNotFound
}

// NewBranchNotFoundError creates a new BranchNotFoundError
func NewBranchNotFoundError(branchName string) *BranchNotFoundError {
	return &BranchNotFoundError{BranchName: branchName}
}

// RemoteUnavailableError represents a failed fetch from a remote
type RemoteUnavailableError struct {
	Remote string
	Err    error
}

func (e *RemoteUnavailableError) Error() string {
	return fmt.Sprintf("failed to fetch from %s: %v", e.Remote, e.Err)
}

// Is returns true if the target error is ErrRemoteUnavailable
func (e *RemoteUnavailableError) Is(target error) bool {
	return target == ErrRemoteUnavailable
}

func (e *RemoteUnavailableError) Unwrap() error {
	return e.Err
}

// NewRemoteUnavailableError creates a new RemoteUnavailableError
func NewRemoteUnavailableError(remote string, err error) *RemoteUnavailableError {
	return &RemoteUnavailableError{Remote: remote, Err: err}
}

// ConflictResolutionError represents a failure to resolve stash conflicts
// in favour of the checked-out branch.
type ConflictResolutionError struct {
	BranchName string
	Paths      []string
	Err        error
}

func (e *ConflictResolutionError) Error() string {
	msg := fmt.Sprintf("failed to resolve conflicts on branch %s", e.BranchName)
	if len(e.Paths) > 0 {
		msg += fmt.Sprintf(" (%s)", strings.Join(e.Paths, ", "))
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Is returns true if the target error is ErrConflictResolutionFailed
func (e *ConflictResolutionError) Is(target error) bool {
	return target == ErrConflictResolutionFailed
}

func (e *ConflictResolutionError) Unwrap() error {
	return e.Err
}

// NewConflictResolutionError creates a new ConflictResolutionError
func NewConflictResolutionError(branchName string, paths []string, err error) *ConflictResolutionError {
	return &ConflictResolutionError{
		BranchName: branchName,
		Paths:      paths,
		Err:        err,
	}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

// Is returns true if the target error is ErrExternalCommandFailed
func (e *GitCommandError) Is(target error) bool {
	return target == ErrExternalCommandFailed
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
