package gitutil

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/sevigo/audit-warden/internal/core"
)

// DiffStats counts the files, added lines and deleted lines of a unified diff.
func DiffStats(diff string) (core.DiffStats, error) {
	files, _, err := gitdiff.Parse(strings.NewReader(diff))
	if err != nil {
		return core.DiffStats{}, fmt.Errorf("failed to parse diff: %w", err)
	}

	stats := core.DiffStats{FilesChanged: len(files)}
	for _, f := range files {
		for _, frag := range f.TextFragments {
			stats.Additions += int(frag.LinesAdded)
			stats.Deletions += int(frag.LinesDeleted)
		}
	}
	return stats, nil
}
