package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sevigo/audit-warden/internal/core"
	"github.com/sevigo/audit-warden/internal/gitutil"
)

var (
	reviewRepo        string
	reviewBase        string
	reviewHead        string
	reviewReasoning   bool
	reviewJSON        bool
	reviewConcurrency int
)

var reviewCmd = &cobra.Command{
	Use:   "review [file|-]...",
	Short: "Run a security review over diff files, stdin or a local git range",
	Long: `Run a security review over one or more unified diffs.

Diffs are read from the given files, from stdin when the argument is "-", or
computed from a local repository with --repo/--base/--head.

Examples:
  audit-cli review change.diff
  git diff main | audit-cli review -
  audit-cli review --repo . --base main --head HEAD --reasoning`,
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().StringVar(&reviewRepo, "repo", "", "Path of a local git repository to diff")
	reviewCmd.Flags().StringVar(&reviewBase, "base", "HEAD~1", "Base revision for --repo")
	reviewCmd.Flags().StringVar(&reviewHead, "head", "HEAD", "Head revision for --repo")
	reviewCmd.Flags().BoolVar(&reviewReasoning, "reasoning", false, "Use the reasoning model")
	reviewCmd.Flags().BoolVar(&reviewJSON, "json", false, "Output results as JSON")
	reviewCmd.Flags().IntVarP(&reviewConcurrency, "concurrency", "c", 4, "Maximum number of diffs reviewed at once")
	rootCmd.AddCommand(reviewCmd)
}

// diffSource is one diff to review and where it came from.
type diffSource struct {
	name string
	diff string
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sources, err := collectDiffs(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	reviewer, err := newReviewer(ctx)
	if err != nil {
		return err
	}

	outputs := reviewAll(ctx, reviewer, sources, reviewConcurrency, reviewReasoning)

	if reviewJSON {
		return writeJSONOutput(os.Stdout, outputs)
	}
	failed := 0
	for _, out := range outputs {
		printReviewOutput(out)
		if out.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d reviews failed", failed, len(outputs))
	}
	return nil
}

func collectDiffs(stdin io.Reader, args []string) ([]diffSource, error) {
	var sources []diffSource

	if reviewRepo != "" {
		diff, err := gitutil.NewClient(cliLogger).RangeDiff(reviewRepo, reviewBase, reviewHead)
		if err != nil {
			return nil, err
		}
		sources = append(sources, diffSource{name: fmt.Sprintf("%s (%s..%s)", reviewRepo, reviewBase, reviewHead), diff: diff})
	}

	for _, arg := range args {
		var (
			data []byte
			err  error
		)
		if arg == "-" {
			data, err = io.ReadAll(stdin)
			arg = "stdin"
		} else {
			data, err = os.ReadFile(arg)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", arg, err)
		}
		sources = append(sources, diffSource{name: arg, diff: string(data)})
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("nothing to review: pass diff files, \"-\" for stdin, or --repo")
	}
	return sources, nil
}

// reviewAll reviews every source with at most limit reviews in flight.
// Outputs keep the order of sources; a failed review is reported in its output.
func reviewAll(ctx context.Context, reviewer core.Reviewer, sources []diffSource, limit int, reasoning bool) []reviewOutput {
	outputs := make([]reviewOutput, len(sources))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, src := range sources {
		g.Go(func() error {
			// Failures land in outputs[i].Error so one bad diff does not cancel the rest.
			outputs[i] = reviewOne(ctx, reviewer, src, reasoning)
			return nil
		})
	}
	_ = g.Wait() // always nil, see above
	return outputs
}

func reviewOne(ctx context.Context, reviewer core.Reviewer, src diffSource, reasoning bool) reviewOutput {
	out := reviewOutput{Source: src.name}
	if stats, err := gitutil.DiffStats(src.diff); err == nil {
		out.Stats = &stats
	}

	if reasoning {
		res, err := reviewer.ReviewDiffWithReasoning(ctx, src.diff)
		if err != nil {
			out.Error = err.Error()
			return out
		}
		if res.Reasoning != nil {
			out.Reasoning = *res.Reasoning
		}
		if res.Result != nil {
			out.Result = *res.Result
		}
		out.InputTokens, out.OutputTokens, out.Findings = res.InputTokens, res.OutputTokens, res.Findings
		return out
	}

	res, err := reviewer.ReviewDiff(ctx, src.diff)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Result, out.InputTokens, out.OutputTokens, out.Findings = res.Result, res.InputTokens, res.OutputTokens, res.Findings
	return out
}
