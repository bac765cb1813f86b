package git_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"branchsync.dev/branchsync/internal/git"
	"branchsync.dev/branchsync/testhelpers"
)

// conflictSetup commits a.txt on main and a diverging a.txt on feature, then
// leaves an uncommitted edit of a.txt on main.
func conflictSetup(s *testhelpers.Scene) error {
	if err := s.Repo.CommitFile("a.txt", "base\n", "base"); err != nil {
		return err
	}
	if err := s.Repo.CreateAndCheckoutBranch("feature"); err != nil {
		return err
	}
	if err := s.Repo.CommitFile("a.txt", "feature\n", "feature"); err != nil {
		return err
	}
	if err := s.Repo.CheckoutBranch("main"); err != nil {
		return err
	}
	return s.Repo.WriteFile("a.txt", "local\n")
}

func TestStash(t *testing.T) {
	ctx := context.Background()

	t.Run("clean tree creates no entry", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner, err := git.NewRealRunner(scene.Dir, 0)
		require.NoError(t, err)

		created, err := runner.StashPush(ctx, "nothing")
		require.NoError(t, err)
		require.False(t, created)
		testhelpers.ExpectStashCount(t, scene.Repo, 0)
	})

	t.Run("stashes and restores untracked files", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.WriteFile("new.txt", "untracked"))
		runner, err := git.NewRealRunner(scene.Dir, 0)
		require.NoError(t, err)

		created, err := runner.StashPush(ctx, "keep me")
		require.NoError(t, err)
		require.True(t, created)
		testhelpers.ExpectCleanWorktree(t, scene.Repo)

		conflicts, err := runner.StashPop(ctx)
		require.NoError(t, err)
		require.Empty(t, conflicts)
		testhelpers.ExpectStashCount(t, scene.Repo, 0)

		content, err := scene.Repo.ReadFile("new.txt")
		require.NoError(t, err)
		require.Equal(t, "untracked", content)
	})

	t.Run("reports conflicting paths and resolves with ours", func(t *testing.T) {
		scene := testhelpers.NewScene(t, conflictSetup)
		runner, err := git.NewRealRunner(scene.Dir, 0)
		require.NoError(t, err)

		created, err := runner.StashPush(ctx, "")
		require.NoError(t, err)
		require.True(t, created)
		require.NoError(t, runner.CheckoutBranch(ctx, "feature"))

		conflicts, err := runner.StashPop(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"a.txt"}, conflicts)
		testhelpers.ExpectStashCount(t, scene.Repo, 1)

		require.NoError(t, runner.CheckoutOurs(ctx, conflicts))
		require.NoError(t, runner.StageFiles(ctx, conflicts))

		unmerged, err := runner.UnmergedFiles(ctx)
		require.NoError(t, err)
		require.Empty(t, unmerged)

		content, err := scene.Repo.ReadFile("a.txt")
		require.NoError(t, err)
		require.Equal(t, "feature\n", content)

		require.NoError(t, runner.StashDrop(ctx))
		testhelpers.ExpectStashCount(t, scene.Repo, 0)
	})

	t.Run("ours removes a file the branch deleted", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			if err := s.Repo.CommitFile("a.txt", "base\n", "base"); err != nil {
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
			if err := s.Repo.CheckoutBranch("main"); err != nil {
				return err
			}
			return s.Repo.WriteFile("a.txt", "local\n")
		})
		runner, err := git.NewRealRunner(scene.Dir, 0)
		require.NoError(t, err)

		_, err = runner.StashPush(ctx, "")
		require.NoError(t, err)
		require.NoError(t, runner.CheckoutBranch(ctx, "feature"))

		conflicts, err := runner.StashPop(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"a.txt"}, conflicts)

		require.NoError(t, runner.CheckoutOurs(ctx, conflicts))
		require.NoError(t, runner.StageFiles(ctx, conflicts))

		unmerged, err := runner.UnmergedFiles(ctx)
		require.NoError(t, err)
		require.Empty(t, unmerged)

		_, err = scene.Repo.ReadFile("a.txt")
		require.ErrorIs(t, err, os.ErrNotExist)
		testhelpers.ExpectCleanWorktree(t, scene.Repo)
	})

	t.Run("finds stashed untracked files the branch tracks", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			if err := s.Repo.CreateChangeAndCommit("1", "1"); err != nil {
				return err
			}
			if err := s.Repo.CreateAndCheckoutBranch("feature"); err != nil {
				return err
			}
			if err := s.Repo.CommitFile("a.txt", "feature\n", "add a"); err != nil {
				return err
			}
			if err := s.Repo.CheckoutBranch("main"); err != nil {
				return err
			}
			if err := s.Repo.WriteFile("a.txt", "untracked\n"); err != nil {
				return err
			}
			return s.Repo.WriteFile("other.txt", "untracked\n")
		})
		runner, err := git.NewRealRunner(scene.Dir, 0)
		require.NoError(t, err)

		collisions, err := runner.StashCollisions(ctx)
		require.NoError(t, err)
		require.Empty(t, collisions)

		created, err := runner.StashPush(ctx, "")
		require.NoError(t, err)
		require.True(t, created)

		collisions, err = runner.StashCollisions(ctx)
		require.NoError(t, err)
		require.Empty(t, collisions)

		require.NoError(t, runner.CheckoutBranch(ctx, "feature"))
		collisions, err = runner.StashCollisions(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"a.txt"}, collisions)

		require.NoError(t, runner.RemoveFiles(ctx, collisions))
		conflicts, err := runner.StashPop(ctx)
		require.NoError(t, err)
		require.Empty(t, conflicts)
		testhelpers.ExpectStashCount(t, scene.Repo, 0)

		require.NoError(t, runner.CheckoutOurs(ctx, collisions))
		a, err := scene.Repo.ReadFile("a.txt")
		require.NoError(t, err)
		require.Equal(t, "feature\n", a)
		other, err := scene.Repo.ReadFile("other.txt")
		require.NoError(t, err)
		require.Equal(t, "untracked\n", other)
	})

	t.Run("reset after a conflicted pop allows switching back", func(t *testing.T) {
		scene := testhelpers.NewScene(t, conflictSetup)
		runner, err := git.NewRealRunner(scene.Dir, 0)
		require.NoError(t, err)

		_, err = runner.StashPush(ctx, "")
		require.NoError(t, err)
		require.NoError(t, runner.CheckoutBranch(ctx, "feature"))
		conflicts, err := runner.StashPop(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, conflicts)

		require.Error(t, runner.CheckoutBranch(ctx, "main"))
		require.NoError(t, runner.AbortMerge(ctx))
		require.NoError(t, runner.CheckoutBranch(ctx, "main"))

		testhelpers.ExpectCurrentBranch(t, scene.Repo, "main")
		testhelpers.ExpectCleanWorktree(t, scene.Repo)
		testhelpers.ExpectStashCount(t, scene.Repo, 1)
	})

	t.Run("pop without a stash fails", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner, err := git.NewRealRunner(scene.Dir, 0)
		require.NoError(t, err)

		_, err = runner.StashPop(ctx)
		require.Error(t, err)
		require.Contains(t, err.Error(), "stash pop failed")
	})
}
