package testhelpers

import (
	"context"
	"strings"

	"branchsync.dev/branchsync/internal/git"
)

// FakeRunner implements git.Runner in memory and records every call as a
// short string such as "checkout main" or "push origin feature/x".
type FakeRunner struct {
	// Branches holds the local branch names that exist
	Branches map[string]bool
	Current  string
	// Dirty makes the next StashPush create an entry
	Dirty bool
	// PopConflicts is returned by StashPop
	PopConflicts []string
	// Collisions is returned by StashCollisions
	Collisions []string
	// Unmerged is returned by UnmergedFiles
	Unmerged []string
	// Status is returned by StatusPorcelain
	Status []string
	// Errors fails a call, keyed by its full recorded string or by its verb
	Errors map[string]error

	Calls []string
	Stash int
}

var _ git.Runner = (*FakeRunner)(nil)

// NewFakeRunner returns a FakeRunner on current with the given branches
func NewFakeRunner(current string, branches ...string) *FakeRunner {
	f := &FakeRunner{
		Branches: map[string]bool{},
		Current:  current,
		Errors:   map[string]error{},
	}
	for _, b := range branches {
		f.Branches[b] = true
	}
	return f
}

func (f *FakeRunner) record(call string) error {
	f.Calls = append(f.Calls, call)
	if err, ok := f.Errors[call]; ok {
		return err
	}
	verb, _, _ := strings.Cut(call, " ")
	return f.Errors[verb]
}

// Called reports whether any recorded call starts with prefix
func (f *FakeRunner) Called(prefix string) bool {
	for _, c := range f.Calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func (f *FakeRunner) Fetch(_ context.Context, remote string) error {
	return f.record("fetch " + remote)
}

func (f *FakeRunner) PullBranch(_ context.Context, remote, branchName string) error {
	return f.record("pull " + remote + " " + branchName)
}

func (f *FakeRunner) PushBranch(_ context.Context, remote, branchName string, setUpstream bool) error {
	call := "push " + remote + " " + branchName
	if setUpstream {
		call = "push -u " + remote + " " + branchName
	}
	return f.record(call)
}

func (f *FakeRunner) BranchExists(_ context.Context, branchName string) (bool, error) {
	if err := f.record("branch-exists " + branchName); err != nil {
		return false, err
	}
	return f.Branches[branchName], nil
}

func (f *FakeRunner) CurrentBranch(_ context.Context) (string, error) {
	if err := f.record("current-branch"); err != nil {
		return "", err
	}
	return f.Current, nil
}

func (f *FakeRunner) CheckoutBranch(_ context.Context, branchName string) error {
	if err := f.record("checkout " + branchName); err != nil {
		return err
	}
	f.Current = branchName
	return nil
}

func (f *FakeRunner) CreateAndCheckoutBranch(_ context.Context, branchName string) error {
	if err := f.record("create-branch " + branchName); err != nil {
		return err
	}
	f.Branches[branchName] = true
	f.Current = branchName
	return nil
}

func (f *FakeRunner) StashPush(_ context.Context, _ string) (bool, error) {
	if err := f.record("stash-push"); err != nil {
		return false, err
	}
	if !f.Dirty {
		return false, nil
	}
	f.Dirty = false
	f.Stash++
	return true, nil
}

func (f *FakeRunner) StashPop(_ context.Context) ([]string, error) {
	if err := f.record("stash-pop"); err != nil {
		return nil, err
	}
	if len(f.PopConflicts) > 0 {
		// git keeps the entry when the pop conflicts
		return f.PopConflicts, nil
	}
	f.Stash--
	return nil, nil
}

func (f *FakeRunner) StashDrop(_ context.Context) error {
	if err := f.record("stash-drop"); err != nil {
		return err
	}
	f.Stash--
	return nil
}

func (f *FakeRunner) StashCollisions(_ context.Context) ([]string, error) {
	if err := f.record("stash-collisions"); err != nil {
		return nil, err
	}
	return f.Collisions, nil
}

func (f *FakeRunner) RemoveFiles(_ context.Context, paths []string) error {
	return f.record("remove " + strings.Join(paths, " "))
}

func (f *FakeRunner) AbortMerge(_ context.Context) error {
	if err := f.record("reset-merge"); err != nil {
		return err
	}
	f.Unmerged = nil
	return nil
}

func (f *FakeRunner) CheckoutOurs(_ context.Context, paths []string) error {
	return f.record("checkout-ours " + strings.Join(paths, " "))
}

func (f *FakeRunner) StageFiles(_ context.Context, paths []string) error {
	return f.record("stage " + strings.Join(paths, " "))
}

func (f *FakeRunner) StageAll(_ context.Context) error {
	return f.record("stage-all")
}

func (f *FakeRunner) StatusPorcelain(_ context.Context) ([]string, error) {
	if err := f.record("status"); err != nil {
		return nil, err
	}
	return f.Status, nil
}

func (f *FakeRunner) UnmergedFiles(_ context.Context) ([]string, error) {
	if err := f.record("unmerged"); err != nil {
		return nil, err
	}
	return f.Unmerged, nil
}

func (f *FakeRunner) Commit(_ context.Context, message string) error {
	return f.record("commit " + message)
}
