package git_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	bserrors "branchsync.dev/branchsync/internal/errors"
	"branchsync.dev/branchsync/internal/git"
	"branchsync.dev/branchsync/testhelpers"
)

func TestCommandRunner(t *testing.T) {
	t.Run("returns trimmed output", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner := git.NewCommandRunner(scene.Dir, 0)

		output, err := runner.Run(context.Background(), "branch", "--show-current")
		require.NoError(t, err)
		require.Equal(t, "main", output)
	})

	t.Run("returns lines", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CreateBranch("feature"))
		runner := git.NewCommandRunner(scene.Dir, 0)

		lines, err := runner.RunLines(context.Background(), "for-each-ref", "--format=%(refname:short)", "refs/heads/")
		require.NoError(t, err)
		require.Equal(t, []string{"feature", "main"}, lines)
	})

	t.Run("wraps failures with stderr", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner := git.NewCommandRunner(scene.Dir, 0)

		_, err := runner.Run(context.Background(), "checkout", "does-not-exist")
		require.Error(t, err)
		require.ErrorIs(t, err, bserrors.ErrExternalCommandFailed)

		var cmdErr *bserrors.GitCommandError
		require.ErrorAs(t, err, &cmdErr)
		require.Equal(t, []string{"checkout", "does-not-exist"}, cmdErr.Args)
		require.Contains(t, cmdErr.Stderr, "does-not-exist")
	})

	t.Run("honours a cancelled context", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner := git.NewCommandRunner(scene.Dir, time.Minute)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := runner.Run(ctx, "status")
		require.ErrorIs(t, err, context.Canceled)
	})
	t.Run("applies the command timeout", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner := git.NewCommandRunner(scene.Dir, time.Nanosecond)

		_, err := runner.Run(context.Background(), "status")
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.ErrorIs(t, err, bserrors.ErrExternalCommandFailed)
	})

	t.Run("caller deadline takes precedence over the command timeout", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner := git.NewCommandRunner(scene.Dir, time.Nanosecond)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		output, err := runner.Run(ctx, "branch", "--show-current")
		require.NoError(t, err)
		require.Equal(t, "main", output)
	})
}
