package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/audit-warden/internal/core"
	"github.com/sevigo/audit-warden/mocks"
)

func postDiff(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/analyze-diff", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestReviewHandler_AnalyzeDiff(t *testing.T) {
	ctrl := gomock.NewController(t)
	reviewer := mocks.NewMockReviewer(ctrl)
	reviewer.EXPECT().ReviewDiff(gomock.Any(), "+ api_key = 'sk-12345678'").Return(&core.ReviewResult{
		Result: `{"secrets": {"explanation": "found a hardcoded key", "result": true}}`, InputTokens: 10, OutputTokens: 5,
	}, nil)

	h := NewReviewHandler(reviewer, 1<<20, discardLogger())
	rec := postDiff(t, h.AnalyzeDiff, `{"diff": "+ api_key = 'sk-12345678'"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, `{"secrets": {"explanation": "found a hardcoded key", "result": true}}`, body["result"])
	assert.InDelta(t, 10, body["inputTokens"], 0)
	assert.InDelta(t, 5, body["outputTokens"], 0)
}

func TestReviewHandler_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "missing diff", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "empty diff", body: `{"diff": ""}`, wantStatus: http.StatusBadRequest},
		{name: "not json", body: `diff`, wantStatus: http.StatusBadRequest},
		{name: "too large", body: `{"diff": "` + strings.Repeat("a", 70<<10) + `"}`, wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			// No expectations: the reviewer must not be called.
			reviewer := mocks.NewMockReviewer(ctrl)
			h := NewReviewHandler(reviewer, 1024, discardLogger())

			rec := postDiff(t, h.AnalyzeDiff, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, decodeBody(t, rec), "error")
		})
	}
}

func TestReviewHandler_MapsErrors(t *testing.T) {
	var fields criterio.FieldErrorsBuilder
	fields = fields.Append("secrets", errors.New("is missing"))
	schemaErr := &core.SchemaViolationError{Raw: `{"pii": {}}`, Err: fields.ToError()}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{name: "validation", err: &core.ValidationError{Field: "diff", Reason: "must not be empty"}, wantStatus: http.StatusBadRequest},
		{name: "schema violation", err: schemaErr, wantStatus: http.StatusUnprocessableEntity, wantKind: "schema_violation"},
		{name: "retry exhausted", err: &core.RetryExhaustedError{Attempts: 3, Last: core.ErrBackend}, wantStatus: http.StatusBadGateway, wantKind: "retry_exhausted"},
		{name: "backend", err: &core.InvocationError{Kind: core.KindBackend, Err: core.ErrBackend}, wantStatus: http.StatusBadGateway, wantKind: "backend"},
		{name: "unexpected response", err: &core.InvocationError{Kind: core.KindUnexpectedResponse, Err: core.ErrUnexpectedResponse}, wantStatus: http.StatusBadGateway, wantKind: "unexpected_response"},
		{name: "unknown", err: &core.InvocationError{Kind: core.KindUnknown, Err: errors.New("boom")}, wantStatus: http.StatusInternalServerError, wantKind: "unknown"},
		{name: "other", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			reviewer := mocks.NewMockReviewer(ctrl)
			reviewer.EXPECT().ReviewDiff(gomock.Any(), "+foo").Return(nil, tt.err)
			h := NewReviewHandler(reviewer, 1<<20, discardLogger())

			rec := postDiff(t, h.AnalyzeDiff, `{"diff": "+foo"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.NotEmpty(t, body["error"])
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, body["kind"])
			}
		})
	}
}

func TestReviewHandler_SchemaViolationBody(t *testing.T) {
	var fields criterio.FieldErrorsBuilder
	fields = fields.Append("secrets", errors.New("is missing"))

	ctrl := gomock.NewController(t)
	reviewer := mocks.NewMockReviewer(ctrl)
	reviewer.EXPECT().ReviewDiff(gomock.Any(), gomock.Any()).Return(nil, &core.SchemaViolationError{Raw: "raw reply", Err: fields.ToError()})
	h := NewReviewHandler(reviewer, 1<<20, discardLogger())

	rec := postDiff(t, h.AnalyzeDiff, `{"diff": "+foo"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Result)
	assert.Equal(t, "raw reply", *body.Result)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "secrets", body.Fields[0].Field)
}

func TestReviewHandler_AnalyzeDiffWithReasoning(t *testing.T) {
	reasoning, result := "the diff adds a key", "{}"

	ctrl := gomock.NewController(t)
	reviewer := mocks.NewMockReviewer(ctrl)
	reviewer.EXPECT().ReviewDiffWithReasoning(gomock.Any(), "+foo").Return(&core.ReasoningReviewResult{
		Reasoning: &reasoning, Result: &result, InputTokens: 100, OutputTokens: 50,
	}, nil)
	h := NewReviewHandler(reviewer, 1<<20, discardLogger())

	rec := postDiff(t, h.AnalyzeDiffWithReasoning, `{"diff": "+foo"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, reasoning, body["reasoning"])
	assert.Equal(t, result, body["result"])
	assert.InDelta(t, 100, body["inputTokens"], 0)
}
