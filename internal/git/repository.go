package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	bserrors "branchsync.dev/branchsync/internal/errors"
)

// stashRef is the reference git keeps the newest stash entry under
const stashRef = plumbing.ReferenceName("refs/stash")

// Repository wraps a go-git repository
type Repository struct {
	*gogit.Repository
	path string
}

// IsRepoRoot reports whether dir holds repository metadata, either a .git
// directory or the .git file of a linked worktree.
func IsRepoRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// CommonDir returns the git directory shared by all worktrees of the
// repository rooted at dir. For a linked worktree .git is a file pointing at
// a per-worktree directory whose commondir file names the shared one.
func CommonDir(dir string) (string, error) {
	dotGit := filepath.Join(dir, ".git")
	info, err := os.Stat(dotGit)
	if err != nil {
		return "", fmt.Errorf("%s: %w", dir, bserrors.ErrNotARepository)
	}
	if info.IsDir() {
		return dotGit, nil
	}

	data, err := os.ReadFile(dotGit)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", dotGit, err)
	}
	line := strings.TrimSpace(string(data))
	gitDir, ok := strings.CutPrefix(line, "gitdir: ")
	if !ok {
		return "", fmt.Errorf("%s: malformed .git file: %w", dir, bserrors.ErrNotARepository)
	}
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(dir, gitDir)
	}

	common, err := os.ReadFile(filepath.Join(gitDir, "commondir"))
	if errors.Is(err, os.ErrNotExist) {
		return filepath.Clean(gitDir), nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read commondir: %w", err)
	}
	commonDir := strings.TrimSpace(string(common))
	if !filepath.IsAbs(commonDir) {
		commonDir = filepath.Join(gitDir, commonDir)
	}
	return filepath.Clean(commonDir), nil
}

// OpenRepository opens the repository rooted at path. Unlike git itself it
// does not walk up to parent directories.
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	if !IsRepoRoot(absPath) {
		return nil, fmt.Errorf("%s: %w", absPath, bserrors.ErrNotARepository)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bserrors.ErrNotARepository, err)
	}

	return &Repository{
		Repository: repo,
		path:       absPath,
	}, nil
}

// Root returns the root directory of the repository
func (r *Repository) Root() string {
	return r.path
}

// BranchExists reports whether a local branch with the given name exists
func (r *Repository) BranchExists(branchName string) (bool, error) {
	_, err := r.Reference(plumbing.NewBranchReferenceName(branchName), false)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up branch %s: %w", branchName, err)
	}
	return true, nil
}

// CurrentBranch returns the current branch name
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", fmt.Errorf("HEAD is not on a branch")
	}

	return head.Target().Short(), nil
}

// StashTip returns the hash of the newest stash entry, or the zero hash when
// the stash is empty.
func (r *Repository) StashTip() (plumbing.Hash, error) {
	ref, err := r.Reference(stashRef, false)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return plumbing.ZeroHash, nil
	}
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to read stash: %w", err)
	}
	return ref.Hash(), nil
}

// BranchNames returns all local branch names
func (r *Repository) BranchNames() ([]string, error) {
	branches, err := r.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}

	var names []string
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	return names, nil
}

// StashUntrackedFiles lists the untracked files saved with the newest stash
// entry. Entries made without -u have none.
func (r *Repository) StashUntrackedFiles() ([]string, error) {
	tip, err := r.StashTip()
	if err != nil || tip.IsZero() {
		return nil, err
	}

	stash, err := r.CommitObject(tip)
	if err != nil {
		return nil, fmt.Errorf("failed to read stash commit: %w", err)
	}
	// Parents are HEAD, the index and, with -u, the untracked files
	if stash.NumParents() < 3 {
		return nil, nil
	}
	untracked, err := stash.Parent(2)
	if err != nil {
		return nil, fmt.Errorf("failed to read stashed untracked files: %w", err)
	}
	tree, err := untracked.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read stashed untracked files: %w", err)
	}

	var paths []string
	err = tree.Files().ForEach(func(f *object.File) error {
		paths = append(paths, f.Name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list stashed untracked files: %w", err)
	}
	return paths, nil
}

// TrackedAtHead returns the subset of paths present in the HEAD commit
func (r *Repository) TrackedAtHead(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	head, err := r.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	commit, err := r.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD tree: %w", err)
	}

	var tracked []string
	for _, p := range paths {
		if _, err := tree.File(p); err == nil {
			tracked = append(tracked, p)
		}
	}
	return tracked, nil
}
