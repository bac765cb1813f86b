// Package testhelpers provides testing utilities for branchsync,
// including a scene system, Git repository helpers, a fake git runner
// and custom assertions.
package testhelpers

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectBranches asserts that the repository has exactly the expected local branches.
func ExpectBranches(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	output, err := repo.RunGitCommandAndGetOutput("for-each-ref", "refs/heads/", "--format=%(refname:short)")
	require.NoError(t, err, "Failed to list branches")

	branches := splitLines(output)
	sort.Strings(branches)
	expected = append([]string(nil), expected...)
	sort.Strings(expected)

	require.Equal(t, expected, branches, "Branches do not match")
}

// ExpectCurrentBranch asserts the checked-out branch.
func ExpectCurrentBranch(t *testing.T, repo *GitRepo, expected string) {
	t.Helper()

	current, err := repo.CurrentBranchName()
	require.NoError(t, err)
	require.Equal(t, expected, current)
}

// ExpectCleanWorktree asserts that git status reports nothing.
func ExpectCleanWorktree(t *testing.T, repo *GitRepo) {
	t.Helper()

	status, err := repo.Status()
	require.NoError(t, err)
	require.Empty(t, status, "working tree is not clean")
}

// ExpectStashCount asserts the number of stash entries.
func ExpectStashCount(t *testing.T, repo *GitRepo, expected int) {
	t.Helper()

	count, err := repo.StashCount()
	require.NoError(t, err)
	require.Equal(t, expected, count)
}
