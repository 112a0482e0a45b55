package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sevigo/audit-warden/internal/auth"
	"github.com/sevigo/audit-warden/internal/core"
)

const maxScanBodyBytes = 16 << 10

type scanAccepted struct {
	ScanID string          `json:"scan_id"`
	Status core.ScanStatus `json:"status"`
}

// ScanHandler accepts asynchronous pull request scans and reports their state.
type ScanHandler struct {
	scans      core.ScanStore
	dispatcher core.ScanDispatcher
	logger     *slog.Logger
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(scans core.ScanStore, dispatcher core.ScanDispatcher, logger *slog.Logger) *ScanHandler {
	return &ScanHandler{scans: scans, dispatcher: dispatcher, logger: logger}
}

// Create records a queued scan and hands it to the dispatcher.
func (h *ScanHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}

	var in core.ScanInput
	if err := decodeJSON(r, w, maxScanBodyBytes, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := core.NewScanRequest(uuid.NewString(), in, session)
	if err != nil {
		var valErr *core.ValidationError
		if errors.As(err, &valErr) {
			writeError(w, http.StatusBadRequest, valErr.Error())
			return
		}
		h.logger.Error("failed to build scan request", "error", err)
		writeError(w, http.StatusUnauthorized, "session is incomplete")
		return
	}

	ctx := r.Context()
	scan := &core.Scan{
		ID:           req.ScanID,
		UserID:       req.UserID,
		RepoFullName: req.RepoFullName,
		PRNumber:     req.PRNumber,
		Status:       core.ScanQueued,
	}
	if err := h.scans.CreateScan(ctx, scan); err != nil {
		h.logger.Error("failed to create scan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create scan")
		return
	}

	if err := h.dispatcher.Dispatch(ctx, req); err != nil {
		if failErr := h.scans.FailScan(ctx, req.ScanID, err.Error()); failErr != nil {
			h.logger.Error("failed to record rejected scan", "scan_id", req.ScanID, "error", failErr)
		}
		if errors.Is(err, core.ErrQueueFull) {
			writeError(w, http.StatusServiceUnavailable, "scan queue is full, try again later")
			return
		}
		h.logger.Error("failed to dispatch scan", "scan_id", req.ScanID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to dispatch scan")
		return
	}

	writeJSON(w, http.StatusAccepted, scanAccepted{ScanID: req.ScanID, Status: core.ScanQueued})
}

// Get returns a scan owned by the caller.
func (h *ScanHandler) Get(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")
	if _, err := uuid.Parse(scanID); err != nil {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	scan, err := h.scans.GetScan(r.Context(), scanID)
	h.writeScan(w, r, scan, err)
}

// Latest returns the caller's most recent scan of a pull request.
func (h *ScanHandler) Latest(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}
	owner, repo, ok := repoParams(w, r)
	if !ok {
		return
	}
	number, ok := prNumberParam(w, r)
	if !ok {
		return
	}
	scan, err := h.scans.GetLatestScanForPR(r.Context(), owner+"/"+repo, number, session.UserID)
	h.writeScan(w, r, scan, err)
}

// writeScan hides scans of other users behind a 404.
func (h *ScanHandler) writeScan(w http.ResponseWriter, r *http.Request, scan *core.Scan, err error) {
	if err != nil {
		if errors.Is(err, core.ErrScanNotFound) {
			writeError(w, http.StatusNotFound, "scan not found")
			return
		}
		h.logger.Error("failed to load scan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load scan")
		return
	}
	session, ok := auth.SessionFromContext(r.Context())
	if !ok || scan.UserID != session.UserID {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	writeJSON(w, http.StatusOK, scan)
}
