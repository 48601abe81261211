package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/rickgao/sp500-data/internal/dataset"
	"github.com/rickgao/sp500-data/internal/model"
)

// GitPublisher wraps a Store and commits changed artifacts to a git
// repository. The push is forced: if the remote advanced concurrently,
// this run's fully regenerated state wins.
type GitPublisher struct {
	store  Store
	dir    string // repository worktree containing the artifact files
	remote string
	branch string
	logger *slog.Logger
}

// NewGitPublisher creates a git-backed publisher around a store.
func NewGitPublisher(store Store, dir, remote, branch string, logger *slog.Logger) *GitPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &GitPublisher{
		store:  store,
		dir:    dir,
		remote: remote,
		branch: branch,
		logger: logger,
	}
}

// Load delegates to the underlying store.
func (p *GitPublisher) Load(ctx context.Context) (*dataset.Table, error) {
	return p.store.Load(ctx)
}

// Save delegates to the underlying store and, when it changed state,
// commits and force-pushes the artifact directory.
func (p *GitPublisher) Save(ctx context.Context, table *dataset.Table, meta model.RunMeta, failures []model.FetchFailure) (bool, error) {
	changed, err := p.store.Save(ctx, table, meta, failures)
	if err != nil {
		return false, err
	}
	if !changed {
		p.logger.Info("no artifact change, skipping git publish")
		return false, nil
	}

	if err := p.commitAndPush(ctx, meta); err != nil {
		return true, fmt.Errorf("git publish: %w", err)
	}

	return true, nil
}

func (p *GitPublisher) commitAndPush(ctx context.Context, meta model.RunMeta) error {
	if out, err := p.git(ctx, "add", "-A", "."); err != nil {
		return fmt.Errorf("git add: %v (%s)", err, out)
	}

	msg := fmt.Sprintf("refresh market data through %s", meta.MaxDate)
	out, err := p.git(ctx, "commit", "-m", msg)
	if err != nil {
		// A save can change file bytes without changing tracked content
		// (e.g. first run into a pre-seeded checkout). Not an error.
		if strings.Contains(out, "nothing to commit") {
			p.logger.Info("git tree clean, nothing to commit")
			return nil
		}
		return fmt.Errorf("git commit: %v (%s)", err, out)
	}

	refspec := fmt.Sprintf("HEAD:%s", p.branch)
	if out, err := p.git(ctx, "push", "--force", p.remote, refspec); err != nil {
		return fmt.Errorf("git push: %v (%s)", err, out)
	}

	p.logger.Info("artifact published",
		"remote", p.remote,
		"branch", p.branch,
		"max_date", meta.MaxDate,
	)

	return nil
}

// git runs one git command in the artifact worktree and returns combined
// output for diagnostics.
func (p *GitPublisher) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = p.dir
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
