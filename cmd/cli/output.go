package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/sevigo/audit-warden/internal/core"
)

// Color definitions
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	infoColor    = color.New(color.FgWhite)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

// reviewOutput is the result of reviewing one input, in printable form.
type reviewOutput struct {
	Source       string               `json:"source"`
	Result       string               `json:"result,omitempty"`
	Reasoning    string               `json:"reasoning,omitempty"`
	InputTokens  int                  `json:"inputTokens"`
	OutputTokens int                  `json:"outputTokens"`
	Findings     *core.ReviewFindings `json:"findings,omitempty"`
	Stats        *core.DiffStats      `json:"stats,omitempty"`
	Error        string               `json:"error,omitempty"`
}

func writeJSONOutput(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printReviewOutput(out reviewOutput) {
	separator := strings.Repeat("═", 60)

	fmt.Println()
	titleColor.Println(separator)
	titleColor.Printf("🔍 %s\n", out.Source)
	titleColor.Println(separator)

	if out.Error != "" {
		errorColor.Printf("✗ %s\n", out.Error)
		return
	}
	if out.Stats != nil {
		dimColor.Printf("%d files changed (+%d/-%d)\n", out.Stats.FilesChanged, out.Stats.Additions, out.Stats.Deletions)
	}

	if out.Reasoning != "" {
		fmt.Println()
		boldColor.Println("Reasoning")
		dimColor.Println(out.Reasoning)
	}

	fmt.Println()
	if out.Findings != nil {
		printFindings(out.Findings)
	} else {
		infoColor.Println(out.Result)
	}

	fmt.Println()
	dimColor.Printf("tokens: %d input / %d output\n", out.InputTokens, out.OutputTokens)
}

func printFindings(findings *core.ReviewFindings) {
	flagged := findings.Flagged()
	if len(flagged) == 0 {
		successColor.Println("✅ No security concerns found")
	} else {
		warnColor.Printf("🚫 %d check(s) flagged\n", len(flagged))
	}

	for _, key := range core.FindingKeys {
		finding, _ := findings.Get(key)
		fmt.Println()
		if finding.Result {
			color.New(color.BgRed, color.FgWhite, color.Bold).Print(" FLAGGED ")
		} else {
			color.New(color.BgGreen, color.FgWhite).Print("  CLEAR  ")
		}
		boldColor.Printf(" %s\n", key.Title())
		if finding.Explanation != "" {
			infoColor.Printf("   %s\n", finding.Explanation)
		}
	}
}
