package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sevigo/audit-warden/internal/core"
)

// bodyOverhead is the room left for JSON framing and escaping around the diff.
const bodyOverhead = 64 << 10

// ReviewHandler exposes the diff review pipeline over HTTP.
type ReviewHandler struct {
	reviewer     core.Reviewer
	maxDiffBytes int64
	logger       *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewer core.Reviewer, maxDiffBytes int64, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{reviewer: reviewer, maxDiffBytes: maxDiffBytes, logger: logger}
}

// AnalyzeDiff reviews a submitted diff through the retrying path.
func (h *ReviewHandler) AnalyzeDiff(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.decode(w, r)
	if !ok {
		return
	}
	res, err := h.reviewer.ReviewDiff(r.Context(), sub.Diff)
	if err != nil {
		writeReviewError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// AnalyzeDiffWithReasoning reviews a submitted diff with a reasoning model.
func (h *ReviewHandler) AnalyzeDiffWithReasoning(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.decode(w, r)
	if !ok {
		return
	}
	res, err := h.reviewer.ReviewDiffWithReasoning(r.Context(), sub.Diff)
	if err != nil {
		writeReviewError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReviewHandler) decode(w http.ResponseWriter, r *http.Request) (*core.DiffSubmission, bool) {
	var limit int64
	if h.maxDiffBytes > 0 {
		limit = h.maxDiffBytes + bodyOverhead
	}
	var sub core.DiffSubmission
	if err := decodeJSON(r, w, limit, &sub); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if sub.Diff == "" {
		writeError(w, http.StatusBadRequest, "diff: must not be empty")
		return nil, false
	}
	return &sub, true
}
