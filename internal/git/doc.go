// Package git provides low-level Git operations.
//
// It wraps git command execution and provides a Go-friendly interface for:
//   - Branch queries (existence, current branch) backed by go-git
//   - Branch switching and creation
//   - Stash save/pop and "ours" conflict resolution
//   - Staging, status and commits
//   - Remote operations (fetch, pull, push)
//
// This package should be the only place where direct git commands are executed.
package git
