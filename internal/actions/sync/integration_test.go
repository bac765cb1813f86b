package sync_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"branchsync.dev/branchsync/internal/actions/sync"
	bserrors "branchsync.dev/branchsync/internal/errors"
	"branchsync.dev/branchsync/internal/runtime"
	"branchsync.dev/branchsync/internal/tui"
	"branchsync.dev/branchsync/testhelpers"
)

func realContext(t *testing.T, scene *testhelpers.Scene) (*runtime.Context, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	splog, err := tui.NewSplogWithConfig(tui.SplogOptions{Writer: &out})
	require.NoError(t, err)
	tui.ConfigureColors(&out)

	ctx, err := runtime.GetContext(context.Background(), scene.Dir, splog)
	require.NoError(t, err)
	return ctx, &out
}

// divergedSetup commits a.txt and b.txt on main, a diverging a.txt on
// feature, publishes both branches and leaves local edits to both files on main.
func divergedSetup(s *testhelpers.Scene) error {
	if err := s.Repo.CommitFile("a.txt", "base\n", "add a"); err != nil {
		return err
	}
	if err := s.Repo.CommitFile("b.txt", "b\n", "add b"); err != nil {
		return err
	}
	if err := s.AddRemote(); err != nil {
		return err
	}
	if err := s.Repo.CreateAndCheckoutBranch("feature"); err != nil {
		return err
	}
	if err := s.Repo.CommitFile("a.txt", "feature\n", "feature a"); err != nil {
		return err
	}
	if err := s.Repo.PushBranch("origin", "feature"); err != nil {
		return err
	}
	if err := s.Repo.CheckoutBranch("main"); err != nil {
		return err
	}
	if err := s.Repo.WriteFile("a.txt", "local\n"); err != nil {
		return err
	}
	return s.Repo.WriteFile("b.txt", "b local\n")
}

// deletedOnBranchSetup deletes a.txt on a published feature branch and leaves
// local edits to a.txt and b.txt on main.
func deletedOnBranchSetup(s *testhelpers.Scene) error {
	if err := s.Repo.CommitFile("a.txt", "base\n", "add a"); err != nil {
		return err
	}
	if err := s.Repo.CommitFile("b.txt", "b\n", "add b"); err != nil {
		return err
	}
	if err := s.AddRemote(); err != nil {
		return err
	}
	if err := s.Repo.CreateAndCheckoutBranch("feature"); err != nil {
		return err
	}
	if err := s.Repo.RunGitCommand("rm", "-q", "a.txt"); err != nil {
		return err
	}
	if err := s.Repo.RunGitCommand("commit", "-m", "drop a"); err != nil {
		return err
	}
	if err := s.Repo.PushBranch("origin", "feature"); err != nil {
		return err
	}
	if err := s.Repo.CheckoutBranch("main"); err != nil {
		return err
	}
	if err := s.Repo.WriteFile("a.txt", "local\n"); err != nil {
		return err
	}
	return s.Repo.WriteFile("b.txt", "b local\n")
}

// trackedOnBranchSetup tracks a.txt only on a published feature branch and
// leaves an untracked a.txt plus an edit to b.txt on main.
func trackedOnBranchSetup(s *testhelpers.Scene) error {
	if err := s.Repo.CommitFile("b.txt", "b\n", "add b"); err != nil {
		return err
	}
	if err := s.AddRemote(); err != nil {
		return err
	}
	if err := s.Repo.CreateAndCheckoutBranch("feature"); err != nil {
		return err
	}
	if err := s.Repo.CommitFile("a.txt", "feature\n", "add a on feature"); err != nil {
		return err
	}
	if err := s.Repo.PushBranch("origin", "feature"); err != nil {
		return err
	}
	if err := s.Repo.CheckoutBranch("main"); err != nil {
		return err
	}
	if err := s.Repo.WriteFile("a.txt", "untracked on main\n"); err != nil {
		return err
	}
	return s.Repo.WriteFile("b.txt", "b local\n")
}

func expectPublished(t *testing.T, scene *testhelpers.Scene, branch string) {
	t.Helper()
	local, err := scene.Repo.GetRevision(branch)
	require.NoError(t, err)
	remote, err := testhelpers.RemoteRevision(scene.Remote, branch)
	require.NoError(t, err)
	require.Equal(t, local, remote)
}

func TestSyncIntegration(t *testing.T) {
	t.Run("new branch starts from the remote base tip", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)

		other := scene.Clone(t)
		require.NoError(t, other.CommitFile("upstream.txt", "from elsewhere", "upstream change"))
		require.NoError(t, other.RunGitCommand("push", "origin", "main"))

		require.NoError(t, scene.Repo.CreateChange("local edit", "1", true))

		ctx, _ := realContext(t, scene)
		result, err := sync.Action(ctx, sync.Options{BaseBranch: "main", NewBranch: "feature/x", Remote: "origin"})
		require.NoError(t, err)
		require.True(t, result.Created)
		require.True(t, result.Pushed)

		testhelpers.ExpectBranches(t, scene.Repo, []string{"main", "feature/x"})
		testhelpers.ExpectCurrentBranch(t, scene.Repo, "feature/x")
		testhelpers.ExpectCleanWorktree(t, scene.Repo)
		testhelpers.ExpectStashCount(t, scene.Repo, 0)

		remoteMain, err := testhelpers.RemoteRevision(scene.Remote, "main")
		require.NoError(t, err)
		parent, err := scene.Repo.GetRevision("feature/x^")
		require.NoError(t, err)
		require.Equal(t, remoteMain, parent)

		local, err := scene.Repo.GetRevision("feature/x")
		require.NoError(t, err)
		remote, err := testhelpers.RemoteRevision(scene.Remote, "feature/x")
		require.NoError(t, err)
		require.Equal(t, local, remote)

		messages, err := scene.Repo.ListCurrentBranchCommitMessages()
		require.NoError(t, err)
		require.Equal(t, "Update for branch feature/x", messages[0])

		content, err := scene.Repo.ReadFile("1_test.txt")
		require.NoError(t, err)
		require.Equal(t, "local edit", content)
	})

	t.Run("second run has nothing to commit", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)
		require.NoError(t, scene.Repo.WriteFile("notes.txt", "untracked"))

		ctx, _ := realContext(t, scene)
		opts := sync.Options{BaseBranch: "main", NewBranch: "feature"}

		first, err := sync.Action(ctx, opts)
		require.NoError(t, err)
		require.True(t, first.Committed)

		second, err := sync.Action(ctx, opts)
		require.NoError(t, err)
		require.False(t, second.Created)
		require.False(t, second.Committed)
		require.Equal(t, sync.NoChangesMessage, second.Message)
	})

	t.Run("existing branch keeps its version of conflicting files", func(t *testing.T) {
		scene := testhelpers.NewScene(t, divergedSetup)

		ctx, out := realContext(t, scene)
		result, err := sync.Action(ctx, sync.Options{BaseBranch: "main", NewBranch: "feature"})
		require.NoError(t, err)
		require.Equal(t, []string{"a.txt"}, result.ResolvedConflicts)
		require.True(t, result.Pushed)
		require.Contains(t, out.String(), "Branch 'feature' already exists.")

		testhelpers.ExpectCurrentBranch(t, scene.Repo, "feature")
		testhelpers.ExpectCleanWorktree(t, scene.Repo)
		testhelpers.ExpectStashCount(t, scene.Repo, 0)

		a, err := scene.Repo.ReadFile("a.txt")
		require.NoError(t, err)
		require.Equal(t, "feature\n", a)

		b, err := scene.Repo.ReadFile("b.txt")
		require.NoError(t, err)
		require.Equal(t, "b local\n", b)

		local, err := scene.Repo.GetRevision("feature")
		require.NoError(t, err)
		remote, err := testhelpers.RemoteRevision(scene.Remote, "feature")
		require.NoError(t, err)
		require.Equal(t, local, remote)
	})

	t.Run("file deleted on the branch stays deleted", func(t *testing.T) {
		scene := testhelpers.NewScene(t, deletedOnBranchSetup)

		ctx, _ := realContext(t, scene)
		result, err := sync.Action(ctx, sync.Options{BaseBranch: "main", NewBranch: "feature"})
		require.NoError(t, err)
		require.Equal(t, []string{"a.txt"}, result.ResolvedConflicts)
		require.True(t, result.Pushed)

		testhelpers.ExpectCurrentBranch(t, scene.Repo, "feature")
		testhelpers.ExpectCleanWorktree(t, scene.Repo)
		testhelpers.ExpectStashCount(t, scene.Repo, 0)

		_, err = scene.Repo.ReadFile("a.txt")
		require.ErrorIs(t, err, os.ErrNotExist)
		b, err := scene.Repo.ReadFile("b.txt")
		require.NoError(t, err)
		require.Equal(t, "b local\n", b)
		expectPublished(t, scene, "feature")
	})

	t.Run("untracked file the branch tracks keeps the branch's copy", func(t *testing.T) {
		scene := testhelpers.NewScene(t, trackedOnBranchSetup)

		ctx, _ := realContext(t, scene)
		result, err := sync.Action(ctx, sync.Options{BaseBranch: "main", NewBranch: "feature"})
		require.NoError(t, err)
		require.Equal(t, []string{"a.txt"}, result.ResolvedConflicts)
		require.True(t, result.Pushed)

		testhelpers.ExpectCurrentBranch(t, scene.Repo, "feature")
		testhelpers.ExpectCleanWorktree(t, scene.Repo)
		testhelpers.ExpectStashCount(t, scene.Repo, 0)

		a, err := scene.Repo.ReadFile("a.txt")
		require.NoError(t, err)
		require.Equal(t, "feature\n", a)
		b, err := scene.Repo.ReadFile("b.txt")
		require.NoError(t, err)
		require.Equal(t, "b local\n", b)
		expectPublished(t, scene, "feature")
	})

	t.Run("conflicting pop on a new branch goes back with changes stashed", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)

		other := scene.Clone(t)
		require.NoError(t, other.CommitFile("1_test.txt", "upstream", "upstream edit"))
		require.NoError(t, other.RunGitCommand("push", "origin", "main"))

		require.NoError(t, scene.Repo.CreateChange("local edit", "1", true))

		ctx, out := realContext(t, scene)
		_, err := sync.Action(ctx, sync.Options{BaseBranch: "main", NewBranch: "feature"})
		require.ErrorIs(t, err, bserrors.ErrExternalCommandFailed)

		testhelpers.ExpectCurrentBranch(t, scene.Repo, "main")
		testhelpers.ExpectCleanWorktree(t, scene.Repo)
		testhelpers.ExpectStashCount(t, scene.Repo, 1)
		require.NotContains(t, out.String(), "Could not return to branch")
		require.Contains(t, out.String(), "still saved in the stash")
	})

	t.Run("existing branch with a clean tree is left alone", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)
		require.NoError(t, scene.Repo.CreateBranch("feature"))
		before, err := scene.Repo.GetRevision("feature")
		require.NoError(t, err)

		ctx, out := realContext(t, scene)
		result, err := sync.Action(ctx, sync.Options{BaseBranch: "main", NewBranch: "feature"})
		require.NoError(t, err)
		require.False(t, result.Committed)
		require.Contains(t, out.String(), "No changes to commit")

		testhelpers.ExpectCurrentBranch(t, scene.Repo, "feature")
		after, err := scene.Repo.GetRevision("feature")
		require.NoError(t, err)
		require.Equal(t, before, after)

		_, err = testhelpers.RemoteRevision(scene.Remote, "feature")
		require.Error(t, err)
	})

	t.Run("missing base branch leaves the repository untouched", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)
		require.NoError(t, scene.Repo.CreateChange("local edit", "1", true))

		ctx, _ := realContext(t, scene)
		_, err := sync.Action(ctx, sync.Options{BaseBranch: "develop", NewBranch: "feature"})
		require.ErrorIs(t, err, bserrors.ErrBaseBranchNotFound)

		testhelpers.ExpectBranches(t, scene.Repo, []string{"main"})
		testhelpers.ExpectCurrentBranch(t, scene.Repo, "main")
		testhelpers.ExpectStashCount(t, scene.Repo, 0)

		status, err := scene.Repo.Status()
		require.NoError(t, err)
		require.Len(t, status, 1)
	})

	t.Run("unreachable remote fails before anything else", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		ctx, _ := realContext(t, scene)
		_, err := sync.Action(ctx, sync.Options{BaseBranch: "main", NewBranch: "feature"})
		require.ErrorIs(t, err, bserrors.ErrRemoteUnavailable)
		testhelpers.ExpectBranches(t, scene.Repo, []string{"main"})
	})
}
