// Package gitutil provides helpers for working with Git repositories and diffs.
package gitutil

import (
	"fmt"
	"log/slog"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Client reads diffs from local Git repositories.
type Client struct {
	Logger *slog.Logger
}

// NewClient returns a new Client instance.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{Logger: logger}
}

// Open opens a Git repository at a given path.
func (c *Client) Open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}
	return repo, nil
}

// RangeDiff returns the unified diff between two revisions of the repository
// at path. Revisions accept anything go-git can resolve, such as branch names,
// tags, SHAs or HEAD~1.
func (c *Client) RangeDiff(path, base, head string) (string, error) {
	repo, err := c.Open(path)
	if err != nil {
		return "", err
	}

	baseCommit, err := resolveCommit(repo, base)
	if err != nil {
		return "", err
	}
	headCommit, err := resolveCommit(repo, head)
	if err != nil {
		return "", err
	}

	patch, err := baseCommit.Patch(headCommit)
	if err != nil {
		return "", fmt.Errorf("failed to diff %s..%s: %w", base, head, err)
	}

	c.Logger.Debug("computed range diff", "path", path, "base", baseCommit.Hash.String(), "head", headCommit.Hash.String(), "files", len(patch.FilePatches()))
	return patch.String(), nil
}

func resolveCommit(repo *git.Repository, rev string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision %q: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit object for %s: %w", hash, err)
	}
	return commit, nil
}
