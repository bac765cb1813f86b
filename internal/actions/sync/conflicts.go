package sync

import (
	"fmt"
	"strings"
)

// resolveOurs takes the checked-out branch's copy of every conflicting path,
// marks the paths resolved and drops the stash entry git kept after a
// conflicted pop. Stashed edits to those paths are discarded.
func (s *syncState) resolveOurs(conflicts []string) error {
	g := s.ctx.Git
	gctx := s.ctx.Context

	if err := g.CheckoutOurs(gctx, conflicts); err != nil {
		return err
	}
	if err := g.StageFiles(gctx, conflicts); err != nil {
		return err
	}

	remaining, err := g.UnmergedFiles(gctx)
	if err != nil {
		return err
	}
	if len(remaining) > 0 {
		return fmt.Errorf("unresolved paths remain: %s", strings.Join(remaining, ", "))
	}

	if !s.stashPending {
		return nil
	}
	s.stashPending = false
	if err := g.StashDrop(gctx); err != nil {
		s.ctx.Splog.Warn("Conflicts resolved but the stash entry could not be dropped: %v", err)
	}
	return nil
}
