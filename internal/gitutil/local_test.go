package gitutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, wt *git.Worktree, dir, name, content, msg string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	_, err := wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestClient_RangeDiff(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	commitFile(t, wt, dir, "config.py", "DEBUG = True\n", "initial")
	commitFile(t, wt, dir, "config.py", "DEBUG = True\napi_key = 'sk-12345678'\n", "add key")

	client := NewClient(nil)
	diff, err := client.RangeDiff(dir, "HEAD~1", "HEAD")
	require.NoError(t, err)
	assert.Contains(t, diff, "+api_key = 'sk-12345678'")

	stats, err := DiffStats(diff)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesChanged)
	assert.Equal(t, 1, stats.Additions)
	assert.Zero(t, stats.Deletions)
}

func TestClient_RangeDiffErrors(t *testing.T) {
	client := NewClient(nil)

	_, err := client.RangeDiff(t.TempDir(), "HEAD~1", "HEAD")
	assert.Error(t, err)

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	commitFile(t, wt, dir, "a.txt", "a\n", "initial")

	_, err = client.RangeDiff(dir, "does-not-exist", "HEAD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist")
}
