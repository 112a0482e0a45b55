package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sevigo/audit-warden/internal/core"
)

// scanRow is the database shape of core.Scan. Findings are stored as JSONB.
type scanRow struct {
	ID           string         `db:"id"`
	UserID       int64          `db:"user_id"`
	RepoFullName string         `db:"repo_full_name"`
	PRNumber     int            `db:"pr_number"`
	Status       string         `db:"status"`
	Result       string         `db:"result"`
	Findings     sql.NullString `db:"findings"`
	InputTokens  int            `db:"input_tokens"`
	OutputTokens int            `db:"output_tokens"`
	FilesChanged int            `db:"files_changed"`
	Additions    int            `db:"additions"`
	Deletions    int            `db:"deletions"`
	Error        string         `db:"error"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

const scanColumns = `id, user_id, repo_full_name, pr_number, status, result, findings,
	input_tokens, output_tokens, files_changed, additions, deletions, error, created_at, updated_at`

func toScanRow(scan *core.Scan) (*scanRow, error) {
	row := &scanRow{
		ID:           scan.ID,
		UserID:       scan.UserID,
		RepoFullName: scan.RepoFullName,
		PRNumber:     scan.PRNumber,
		Status:       string(scan.Status),
		Result:       scan.Result,
		InputTokens:  scan.InputTokens,
		OutputTokens: scan.OutputTokens,
		FilesChanged: scan.Stats.FilesChanged,
		Additions:    scan.Stats.Additions,
		Deletions:    scan.Stats.Deletions,
		Error:        scan.Error,
		CreatedAt:    scan.CreatedAt,
		UpdatedAt:    scan.UpdatedAt,
	}
	if scan.Findings != nil {
		raw, err := json.Marshal(scan.Findings)
		if err != nil {
			return nil, fmt.Errorf("failed to encode findings: %w", err)
		}
		row.Findings = sql.NullString{String: string(raw), Valid: true}
	}
	return row, nil
}

func (r *scanRow) toScan() (*core.Scan, error) {
	scan := &core.Scan{
		ID:           r.ID,
		UserID:       r.UserID,
		RepoFullName: r.RepoFullName,
		PRNumber:     r.PRNumber,
		Status:       core.ScanStatus(r.Status),
		Result:       r.Result,
		InputTokens:  r.InputTokens,
		OutputTokens: r.OutputTokens,
		Stats: core.DiffStats{
			FilesChanged: r.FilesChanged,
			Additions:    r.Additions,
			Deletions:    r.Deletions,
		},
		Error:     r.Error,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Findings.Valid && r.Findings.String != "" {
		var findings core.ReviewFindings
		if err := json.Unmarshal([]byte(r.Findings.String), &findings); err != nil {
			return nil, fmt.Errorf("failed to decode findings of scan %s: %w", r.ID, err)
		}
		scan.Findings = &findings
	}
	return scan, nil
}

// CreateScan inserts a new scan record.
func (s *postgresStore) CreateScan(ctx context.Context, scan *core.Scan) error {
	now := time.Now().UTC()
	if scan.CreatedAt.IsZero() {
		scan.CreatedAt = now
	}
	scan.UpdatedAt = now

	row, err := toScanRow(scan)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO scans (` + scanColumns + `)
		VALUES (:id, :user_id, :repo_full_name, :pr_number, :status, :result, :findings,
			:input_tokens, :output_tokens, :files_changed, :additions, :deletions, :error, :created_at, :updated_at)`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to create scan %s: %w", scan.ID, err)
	}
	return nil
}

// UpdateScanStatus moves a scan to a new lifecycle state.
func (s *postgresStore) UpdateScanStatus(ctx context.Context, id string, status core.ScanStatus) error {
	query := `UPDATE scans SET status = $1, updated_at = NOW() WHERE id = $2`
	return s.execOne(ctx, id, query, string(status), id)
}

// CompleteScan stores the review outcome and marks the scan completed.
func (s *postgresStore) CompleteScan(ctx context.Context, scan *core.Scan) error {
	scan.Status = core.ScanCompleted
	row, err := toScanRow(scan)
	if err != nil {
		return err
	}
	query := `
		UPDATE scans
		SET status = $1, result = $2, findings = $3, input_tokens = $4, output_tokens = $5,
			files_changed = $6, additions = $7, deletions = $8, error = '', updated_at = NOW()
		WHERE id = $9`
	return s.execOne(ctx, scan.ID, query,
		row.Status, row.Result, row.Findings, row.InputTokens, row.OutputTokens,
		row.FilesChanged, row.Additions, row.Deletions, row.ID)
}

// FailScan records why a scan could not complete.
func (s *postgresStore) FailScan(ctx context.Context, id string, reason string) error {
	query := `UPDATE scans SET status = $1, error = $2, updated_at = NOW() WHERE id = $3`
	return s.execOne(ctx, id, query, string(core.ScanFailed), reason, id)
}

// GetScan retrieves a scan by id.
func (s *postgresStore) GetScan(ctx context.Context, id string) (*core.Scan, error) {
	query := `SELECT ` + scanColumns + ` FROM scans WHERE id = $1`
	return s.getScan(ctx, query, id)
}

// GetLatestScanForPR retrieves the most recent scan a user started on a given pull request.
func (s *postgresStore) GetLatestScanForPR(ctx context.Context, repoFullName string, prNumber int, userID int64) (*core.Scan, error) {
	query := `
		SELECT ` + scanColumns + `
		FROM scans
		WHERE repo_full_name = $1 AND pr_number = $2 AND user_id = $3
		ORDER BY created_at DESC
		LIMIT 1`
	return s.getScan(ctx, query, repoFullName, prNumber, userID)
}

func (s *postgresStore) getScan(ctx context.Context, query string, args ...any) (*core.Scan, error) {
	var row scanRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrScanNotFound
		}
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}
	return row.toScan()
}

func (s *postgresStore) execOne(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update scan %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update scan %s: %w", id, err)
	}
	if n == 0 {
		return core.ErrScanNotFound
	}
	return nil
}
