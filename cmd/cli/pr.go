package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sevigo/audit-warden/internal/core"
	"github.com/sevigo/audit-warden/internal/github"
	"github.com/sevigo/audit-warden/internal/gitutil"
)

const defaultWrapWidth = 100

var (
	prReasoning bool
	prJSON      bool
	prMarkdown  bool
	prComment   bool
)

var prCmd = &cobra.Command{
	Use:   "pr <pr-url>",
	Short: "Run a security review over a GitHub pull request",
	Long: `Fetch the diff of a GitHub pull request with GITHUB_TOKEN and review it.

Examples:
  audit-cli pr https://github.com/owner/repo/pull/123
  audit-cli pr https://github.com/owner/repo/pull/123 --markdown
  audit-cli pr https://github.com/owner/repo/pull/123 --comment`,
	Args: cobra.ExactArgs(1),
	RunE: runPR,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	prCmd.Flags().BoolVar(&prReasoning, "reasoning", false, "Use the reasoning model")
	prCmd.Flags().BoolVar(&prJSON, "json", false, "Output the result as JSON")
	prCmd.Flags().BoolVar(&prMarkdown, "markdown", false, "Render the findings as the pull request comment would look")
	prCmd.Flags().BoolVar(&prComment, "comment", false, "Post the findings as a comment on the pull request")
	rootCmd.AddCommand(prCmd)
}

func runPR(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	owner, repo, number, err := gitutil.ParsePullRequestURL(args[0])
	if err != nil {
		return err
	}
	if cfg.GitHub.Token == "" {
		return fmt.Errorf("a GitHub token is required: set GITHUB_TOKEN or pass --github-token")
	}

	client := github.NewTokenClient(ctx, cfg.GitHub.Token, cliLogger)
	diff, err := client.GetPullRequestDiff(ctx, owner, repo, number)
	if err != nil {
		return fmt.Errorf("failed to fetch diff of %s/%s#%d: %w", owner, repo, number, err)
	}

	reviewer, err := newReviewer(ctx)
	if err != nil {
		return err
	}

	source := fmt.Sprintf("%s/%s#%d", owner, repo, number)
	out := reviewOne(ctx, reviewer, diffSource{name: source, diff: diff}, prReasoning)
	if out.Error != "" {
		return fmt.Errorf("review of %s failed: %s", source, out.Error)
	}

	scan := outputToScan(out, owner+"/"+repo, number)
	switch {
	case prJSON:
		if err := writeJSONOutput(os.Stdout, out); err != nil {
			return err
		}
	case prMarkdown:
		if err := renderMarkdown(github.FormatFindingsComment(scan)); err != nil {
			return err
		}
	default:
		printReviewOutput(out)
	}

	if prComment {
		if err := github.NewCommentPoster(client).PostFindings(ctx, owner, repo, number, scan); err != nil {
			return fmt.Errorf("failed to post comment: %w", err)
		}
		successColor.Fprintf(os.Stderr, "✅ Posted findings on %s\n", source)
	}
	return nil
}

func outputToScan(out reviewOutput, repoFullName string, number int) *core.Scan {
	scan := &core.Scan{
		RepoFullName: repoFullName,
		PRNumber:     number,
		Status:       core.ScanCompleted,
		Result:       out.Result,
		Findings:     out.Findings,
		InputTokens:  out.InputTokens,
		OutputTokens: out.OutputTokens,
	}
	if out.Stats != nil {
		scan.Stats = *out.Stats
	}
	return scan
}

func renderMarkdown(md string) error {
	width := defaultWrapWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	fmt.Print(rendered)
	return nil
}
