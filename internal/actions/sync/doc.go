// Package sync implements the branch sync workflow: make sure a target branch
// exists (creating it from a freshly pulled base branch if needed), carry the
// working tree's changes over to it through the stash, then commit and push.
//
// Conflicts while reapplying changes onto an existing branch are resolved with
// the "ours" policy: the branch's copy of each conflicting path wins.
package sync
