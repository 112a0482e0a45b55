package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/sevigo/audit-warden/internal/core"
)

// CommentPoster publishes review findings on a pull request.
type CommentPoster interface {
	PostFindings(ctx context.Context, owner, repo string, number int, scan *core.Scan) error
}

type commentPoster struct {
	client Client
}

// NewCommentPoster creates a CommentPoster that posts through client.
func NewCommentPoster(client Client) CommentPoster {
	return &commentPoster{client: client}
}

// PostFindings posts a single, general comment summarizing the scan.
func (c *commentPoster) PostFindings(ctx context.Context, owner, repo string, number int, scan *core.Scan) error {
	return c.client.CreateComment(ctx, owner, repo, number, FormatFindingsComment(scan))
}

// FormatFindingsComment renders a scan as a markdown pull request comment:
// a verdict header, one alert per flagged finding and a table of every check.
// A scan without parsed findings is rendered with the raw model reply.
func FormatFindingsComment(scan *core.Scan) string {
	var sb strings.Builder

	if scan.Findings == nil {
		sb.WriteString("### 📝 Security Review\n\n")
		sb.WriteString("```json\n")
		sb.WriteString(strings.TrimSpace(scan.Result))
		sb.WriteString("\n```\n\n")
		writeFooter(&sb, scan)
		return sb.String()
	}

	flagged := scan.Findings.Flagged()
	fmt.Fprintf(&sb, "### %s %s\n\n", verdictIcon(len(flagged)), verdictTitle(len(flagged)))

	for _, key := range flagged {
		finding, _ := scan.Findings.Get(key)
		writeFinding(&sb, key, finding)
	}

	sb.WriteString("---\n")
	sb.WriteString("#### 📊 Checks\n\n")
	sb.WriteString("| Check | Result |\n")
	sb.WriteString("|-------|--------|\n")
	for _, key := range core.FindingKeys {
		finding, _ := scan.Findings.Get(key)
		fmt.Fprintf(&sb, "| %s %s | %s |\n", findingEmoji(key, finding.Result), key.Title(), resultLabel(finding.Result))
	}
	sb.WriteString("\n")

	writeFooter(&sb, scan)
	return sb.String()
}

func writeFinding(sb *strings.Builder, key core.FindingKey, finding core.Finding) {
	fmt.Fprintf(sb, "#### %s %s\n\n", findingEmoji(key, true), key.Title())

	alertType := findingAlert(key)
	state := &commentState{}
	start := sb.Len()
	for _, line := range strings.Split(strings.TrimSpace(finding.Explanation), "\n") {
		processCommentLine(sb, line, state, alertType, sb.Len() == start)
	}
	sb.WriteString("\n")
}

func writeFooter(sb *strings.Builder, scan *core.Scan) {
	fmt.Fprintf(sb, "<sub>%d files changed (+%d/-%d) · %d input / %d output tokens</sub>\n",
		scan.Stats.FilesChanged, scan.Stats.Additions, scan.Stats.Deletions,
		scan.InputTokens, scan.OutputTokens)
}

type commentState struct {
	insideAlert bool
	inCodeBlock bool
}

func processCommentLine(sb *strings.Builder, line string, state *commentState, alertType string, atStart bool) {
	trimmedLine := strings.TrimSpace(line)

	// Skip empty lines at the start
	if atStart && trimmedLine == "" {
		return
	}

	// Code blocks stay outside the alert.
	if strings.HasPrefix(trimmedLine, "```") {
		if state.inCodeBlock {
			state.inCodeBlock = false
		} else {
			if state.insideAlert {
				state.insideAlert = false
				sb.WriteString("\n")
			}
			state.inCodeBlock = true
		}
		sb.WriteString(line + "\n")
		return
	}

	if state.inCodeBlock {
		sb.WriteString(line + "\n")
		return
	}

	// If the line is already a blockquote, strip one level.
	if strings.HasPrefix(trimmedLine, ">") {
		line = strings.TrimPrefix(line, ">")
		line = strings.TrimPrefix(line, " ")
	}

	state.insideAlert = renderAlertLine(sb, line, trimmedLine, state.insideAlert, alertType)
}

func renderAlertLine(sb *strings.Builder, line, trimmed string, insideAlert bool, alertType string) bool {
	if !insideAlert && trimmed != "" {
		fmt.Fprintf(sb, "> [!%s]\n", alertType)
		insideAlert = true
	}

	if insideAlert {
		if trimmed == "" {
			sb.WriteString(">\n")
		} else {
			fmt.Fprintf(sb, "> %s\n", line)
		}
	}
	return insideAlert
}

func verdictIcon(flagged int) string {
	if flagged == 0 {
		return "✅"
	}
	return "🚫"
}

func verdictTitle(flagged int) string {
	switch flagged {
	case 0:
		return "Security Review: no findings"
	case 1:
		return "Security Review: 1 finding needs attention"
	default:
		return fmt.Sprintf("Security Review: %d findings need attention", flagged)
	}
}

func resultLabel(flagged bool) string {
	if flagged {
		return "Flagged"
	}
	return "Clear"
}

// findingEmoji returns an emoji for the finding, colored by how severe a
// positive result of that check is.
func findingEmoji(key core.FindingKey, flagged bool) string {
	if !flagged {
		return "🟢"
	}
	switch findingAlert(key) {
	case "CAUTION":
		return "🔴"
	case "WARNING":
		return "🟠"
	case "IMPORTANT":
		return "🟡"
	default:
		return "🔵"
	}
}

// findingAlert returns the GitHub Alert type (NOTE, IMPORTANT, WARNING, CAUTION) for a finding.
func findingAlert(key core.FindingKey) string {
	switch key {
	case core.FindingVulnerability, core.FindingSecrets:
		return "CAUTION"
	case core.FindingAuths, core.FindingNewEndpoint:
		return "WARNING"
	case core.FindingPII:
		return "IMPORTANT"
	default:
		return "NOTE"
	}
}
