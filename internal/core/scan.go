package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrQueueFull is returned when the dispatcher cannot accept another scan.
var ErrQueueFull = errors.New("scan queue is full")

// ScanStatus is the lifecycle state of an asynchronous pull request scan.
type ScanStatus string

const (
	ScanQueued    ScanStatus = "queued"
	ScanRunning   ScanStatus = "running"
	ScanCompleted ScanStatus = "completed"
	ScanFailed    ScanStatus = "failed"
)

// ScanInput is the body of a scan request as received over HTTP.
type ScanInput struct {
	Repo        string `json:"repo"`
	PRNumber    int    `json:"pr_number"`
	PostComment bool   `json:"post_comment"`
}

// ScanRequest is the internal, validated view of a pull request scan.
type ScanRequest struct {
	ScanID string

	UserID      int64
	Username    string
	GitHubToken string

	RepoOwner    string
	RepoName     string
	RepoFullName string
	PRNumber     int

	PostComment bool
}

// NewScanRequest validates a ScanInput on behalf of an authenticated session and
// turns it into a ScanRequest. It acts as an anti-corruption layer between the
// HTTP body and the job queue.
func NewScanRequest(scanID string, in ScanInput, session *Session) (*ScanRequest, error) {
	if session == nil || session.UserID == 0 {
		return nil, fmt.Errorf("session information is missing")
	}
	if session.GitHubAccessToken == "" {
		return nil, fmt.Errorf("session has no GitHub access token")
	}

	owner, name, ok := strings.Cut(strings.TrimSpace(in.Repo), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, &ValidationError{Field: "repo", Reason: fmt.Sprintf("expected owner/name, got %q", in.Repo)}
	}
	if in.PRNumber <= 0 {
		return nil, &ValidationError{Field: "pr_number", Reason: fmt.Sprintf("must be positive, got %d", in.PRNumber)}
	}

	return &ScanRequest{
		ScanID:       scanID,
		UserID:       session.UserID,
		Username:     session.Username,
		GitHubToken:  session.GitHubAccessToken,
		RepoOwner:    owner,
		RepoName:     name,
		RepoFullName: owner + "/" + name,
		PRNumber:     in.PRNumber,
		PostComment:  in.PostComment,
	}, nil
}

// DiffStats summarizes the size of a diff.
type DiffStats struct {
	FilesChanged int `json:"files_changed"`
	Additions    int `json:"additions"`
	Deletions    int `json:"deletions"`
}

// Scan is the persisted record of a pull request scan.
type Scan struct {
	ID           string          `json:"scan_id"`
	UserID       int64           `json:"-"`
	RepoFullName string          `json:"repo"`
	PRNumber     int             `json:"pr_number"`
	Status       ScanStatus      `json:"status"`
	Result       string          `json:"result,omitempty"`
	Findings     *ReviewFindings `json:"findings,omitempty"`
	InputTokens  int             `json:"inputTokens"`
	OutputTokens int             `json:"outputTokens"`
	Stats        DiffStats       `json:"stats"`
	Error        string          `json:"error,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ScanStore persists pull request scans.
//
//go:generate mockgen -destination=../../mocks/mock_scan_store.go -package=mocks . ScanStore
type ScanStore interface {
	CreateScan(ctx context.Context, scan *Scan) error
	UpdateScanStatus(ctx context.Context, id string, status ScanStatus) error
	CompleteScan(ctx context.Context, scan *Scan) error
	FailScan(ctx context.Context, id string, reason string) error
	GetScan(ctx context.Context, id string) (*Scan, error)
	GetLatestScanForPR(ctx context.Context, repoFullName string, prNumber int, userID int64) (*Scan, error)
}
