package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/audit-warden/internal/core"
	"github.com/sevigo/audit-warden/internal/github"
	"github.com/sevigo/audit-warden/internal/gitutil"
)

// ScanJob reviews the diff of a pull request and records the outcome.
type ScanJob struct {
	scans    core.ScanStore
	reviewer core.Reviewer
	clients  github.ClientFactory
	logger   *slog.Logger
}

// NewScanJob creates a new ScanJob.
func NewScanJob(scans core.ScanStore, reviewer core.Reviewer, clients github.ClientFactory, logger *slog.Logger) core.Job {
	if scans == nil {
		panic("scan store cannot be nil")
	}
	if reviewer == nil {
		panic("reviewer cannot be nil")
	}
	if clients == nil {
		panic("github client factory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ScanJob{scans: scans, reviewer: reviewer, clients: clients, logger: logger}
}

// Run executes the scan. Every failure after validation is also recorded on
// the scan so that pollers observe a terminal state.
func (j *ScanJob) Run(ctx context.Context, req *core.ScanRequest) error {
	if err := validateRequest(req); err != nil {
		j.logger.Error("input validation failed", "error", err)
		return fmt.Errorf("input validation failed: %w", err)
	}

	logger := j.logger.With("scan_id", req.ScanID, "repo", req.RepoFullName, "pr", req.PRNumber)
	logger.Info("starting pull request scan")

	if err := j.scans.UpdateScanStatus(ctx, req.ScanID, core.ScanRunning); err != nil {
		return fmt.Errorf("failed to mark scan running: %w", err)
	}

	client := j.clients(ctx, req.GitHubToken)
	diff, err := client.GetPullRequestDiff(ctx, req.RepoOwner, req.RepoName, req.PRNumber)
	if err != nil {
		return j.fail(ctx, req, "failed to fetch pull request diff", err)
	}

	stats, err := gitutil.DiffStats(diff)
	if err != nil {
		logger.Warn("failed to compute diff stats", "error", err)
	}

	res, err := j.reviewer.ReviewDiff(ctx, diff)
	if err != nil {
		return j.fail(ctx, req, "failed to review diff", err)
	}

	scan := &core.Scan{
		ID:           req.ScanID,
		UserID:       req.UserID,
		RepoFullName: req.RepoFullName,
		PRNumber:     req.PRNumber,
		Result:       res.Result,
		Findings:     res.Findings,
		InputTokens:  res.InputTokens,
		OutputTokens: res.OutputTokens,
		Stats:        stats,
	}
	if err := j.scans.CompleteScan(ctx, scan); err != nil {
		return fmt.Errorf("failed to store scan result: %w", err)
	}

	if req.PostComment {
		poster := github.NewCommentPoster(client)
		if err := poster.PostFindings(ctx, req.RepoOwner, req.RepoName, req.PRNumber, scan); err != nil {
			// Comment failures leave the scan completed.
			logger.Error("failed to post findings comment", "error", err)
		}
	}

	logger.Info("pull request scan completed", "input_tokens", res.InputTokens, "output_tokens", res.OutputTokens)
	return nil
}

func (j *ScanJob) fail(ctx context.Context, req *core.ScanRequest, msg string, cause error) error {
	err := fmt.Errorf("%s: %w", msg, cause)

	// The failure is recorded even when ctx was cancelled by shutdown.
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failScanTimeout)
	defer cancel()
	if storeErr := j.scans.FailScan(storeCtx, req.ScanID, err.Error()); storeErr != nil {
		j.logger.Error("failed to record scan failure", "scan_id", req.ScanID, "error", storeErr)
	}
	return err
}

// validateRequest ensures the request contains all required fields.
func validateRequest(req *core.ScanRequest) error {
	if req == nil {
		return fmt.Errorf("request cannot be nil")
	}
	if req.ScanID == "" {
		return fmt.Errorf("scan id cannot be empty")
	}
	if req.RepoOwner == "" {
		return fmt.Errorf("repository owner cannot be empty")
	}
	if req.RepoName == "" {
		return fmt.Errorf("repository name cannot be empty")
	}
	if req.PRNumber <= 0 {
		return fmt.Errorf("pull request number must be positive, got: %d", req.PRNumber)
	}
	if req.GitHubToken == "" {
		return fmt.Errorf("github token cannot be empty")
	}
	return nil
}
