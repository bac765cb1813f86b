package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// Scene represents a test scene with a temporary directory and Git repository.
type Scene struct {
	Dir    string
	Repo   *GitRepo
	Remote string
	oldDir string
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with a temporary directory and Git repository,
// and changes into that directory. It automatically handles cleanup using t.Cleanup().
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	// Separate parent so sibling bare remotes are cleaned up too
	tmpDir := filepath.Join(t.TempDir(), "repo")

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	repo, err := NewGitRepo(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:    tmpDir,
		Repo:   repo,
		oldDir: oldDir,
	}

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	t.Cleanup(func() {
		_ = os.Chdir(oldDir)
	})

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// BasicSceneSetup is a setup function that creates a basic scene with a single commit.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}

// RemoteSceneSetup creates an initial commit on main and publishes it to a
// bare "origin" remote.
func RemoteSceneSetup(scene *Scene) error {
	if err := BasicSceneSetup(scene); err != nil {
		return err
	}
	return scene.AddRemote()
}

// AddRemote creates a bare "origin" remote and pushes main to it.
func (s *Scene) AddRemote() error {
	bareDir, err := s.Repo.CreateBareRemote("origin")
	if err != nil {
		return err
	}
	s.Remote = bareDir
	return s.Repo.PushBranch("origin", "main")
}

// Clone makes a second working copy of the scene's remote, as another
// developer would have.
func (s *Scene) Clone(t *testing.T) *GitRepo {
	t.Helper()
	if s.Remote == "" {
		t.Fatal("scene has no remote")
	}
	repo, err := NewGitRepoFromURL(filepath.Join(filepath.Dir(s.Dir), "clone"), s.Remote)
	if err != nil {
		t.Fatalf("Failed to clone remote: %v", err)
	}
	return repo
}
