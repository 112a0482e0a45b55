// Package handler provides HTTP handlers for the Audit-Warden service.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	gh "github.com/google/go-github/v73/github"
	"github.com/hay-kot/criterio"

	"github.com/sevigo/audit-warden/internal/core"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string       `json:"error"`
	Kind   string       `json:"kind,omitempty"`
	Fields []fieldError `json:"fields,omitempty"`
	Result *string      `json:"result,omitempty"`
}

type fieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeReviewError maps a failure of the review pipeline onto an HTTP status.
func writeReviewError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		valErr    *core.ValidationError
		schemaErr *core.SchemaViolationError
		invErr    *core.InvocationError
		exhausted *core.RetryExhaustedError
	)

	switch {
	case errors.As(err, &valErr):
		writeError(w, http.StatusBadRequest, valErr.Error())
	case errors.As(err, &schemaErr):
		logger.Warn("model reply violates finding schema", "error", err)
		raw := schemaErr.Raw
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error:  schemaErr.Error(),
			Kind:   "schema_violation",
			Fields: schemaFields(schemaErr),
			Result: &raw,
		})
	case errors.As(err, &invErr):
		logger.Error("model invocation failed", "kind", invErr.Kind, "error", err)
		status := http.StatusBadGateway
		if invErr.Kind == core.KindUnknown {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, errorBody{Error: invErr.Error(), Kind: string(invErr.Kind)})
	case errors.As(err, &exhausted):
		logger.Error("model invocation gave up", "attempts", exhausted.Attempts, "error", err)
		writeJSON(w, http.StatusBadGateway, errorBody{Error: exhausted.Error(), Kind: "retry_exhausted"})
	case errors.Is(err, context.DeadlineExceeded):
		logger.Error("review timed out", "error", err)
		writeJSON(w, http.StatusGatewayTimeout, errorBody{Error: "review timed out", Kind: "timeout"})
	case errors.Is(err, core.ErrBackend):
		logger.Error("model backend failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error(), Kind: string(core.KindBackend)})
	default:
		logger.Error("review failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func schemaFields(err *core.SchemaViolationError) []fieldError {
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	out := make([]fieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, fieldError{Field: fe.Field, Error: fe.Err.Error()})
	}
	return out
}

// writeUpstreamError reports a failed GitHub call. GitHub's own 404 is passed
// through; everything else is a bad gateway.
func writeUpstreamError(w http.ResponseWriter, logger *slog.Logger, msg string, err error) {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
		writeError(w, http.StatusNotFound, msg+": not found")
		return
	}
	logger.Error(msg, "error", err)
	writeError(w, http.StatusBadGateway, msg)
}

func decodeJSON(r *http.Request, w http.ResponseWriter, limit int64, v any) error {
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
