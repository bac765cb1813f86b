package sync

import "branchsync.dev/branchsync/internal/tui"

// commitAndPush stages everything and, when the tree differs from the branch
// tip, commits and pushes the target branch.
func (s *syncState) commitAndPush(result *Result) error {
	g := s.ctx.Git
	gctx := s.ctx.Context
	splog := s.ctx.Splog

	if err := g.StageAll(gctx); err != nil {
		return err
	}

	changed, err := g.StatusPorcelain(gctx)
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		result.Message = NoChangesMessage
		splog.Info(result.Message)
		return nil
	}

	splog.Debug("Committing %d changed path(s).", len(changed))
	if err := g.Commit(gctx, CommitMessage(s.opts.NewBranch)); err != nil {
		return err
	}
	result.Committed = true

	splog.Debug("Pushing %s to %s...", s.opts.NewBranch, s.opts.Remote)
	if err := g.PushBranch(gctx, s.opts.Remote, s.opts.NewBranch, s.opts.SetUpstream); err != nil {
		return err
	}
	result.Pushed = true

	result.Message = SuccessMessage(s.opts.NewBranch)
	splog.Info(tui.ColorGreen(result.Message))
	return nil
}
