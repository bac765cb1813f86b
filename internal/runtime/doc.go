// Package runtime provides the execution context for branchsync.
//
// It encapsulates shared dependencies needed by actions, such as the git
// runner, logger, repository config and the repository root path.
package runtime
