package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/audit-warden/internal/core"
	"github.com/sevigo/audit-warden/mocks"
)

func newScanRouter(t *testing.T) (*chi.Mux, *mocks.MockScanStore, *mocks.MockScanDispatcher) {
	ctrl := gomock.NewController(t)
	scans := mocks.NewMockScanStore(ctrl)
	dispatcher := mocks.NewMockScanDispatcher(ctrl)
	h := NewScanHandler(scans, dispatcher, discardLogger())

	r := chi.NewRouter()
	r.Use(withSession(testSession()))
	r.Post("/scan", h.Create)
	r.Get("/scan/{scanID}", h.Get)
	r.Get("/repos/{owner}/{repo}/pulls/{number}/scans/latest", h.Latest)
	return r, scans, dispatcher
}

func postScan(r http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader(body)))
	return rec
}

func TestScanHandler_Create(t *testing.T) {
	r, scans, dispatcher := newScanRouter(t)

	var scanID string
	scans.EXPECT().CreateScan(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, scan *core.Scan) error {
		scanID = scan.ID
		assert.Equal(t, core.ScanQueued, scan.Status)
		assert.Equal(t, int64(42), scan.UserID)
		assert.Equal(t, "octo/hello", scan.RepoFullName)
		return nil
	})
	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req *core.ScanRequest) error {
		assert.Equal(t, scanID, req.ScanID)
		assert.Equal(t, "gho_user", req.GitHubToken)
		assert.Equal(t, 7, req.PRNumber)
		assert.True(t, req.PostComment)
		return nil
	})

	rec := postScan(r, `{"repo": "octo/hello", "pr_number": 7, "post_comment": true}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, scanID, body["scan_id"])
	assert.Equal(t, "queued", body["status"])
}

func TestScanHandler_CreateRejectsInvalid(t *testing.T) {
	for _, body := range []string{
		`{"repo": "hello", "pr_number": 7}`,
		`{"repo": "octo/hello", "pr_number": 0}`,
		`not json`,
	} {
		r, _, _ := newScanRouter(t)
		rec := postScan(r, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestScanHandler_CreateQueueFull(t *testing.T) {
	r, scans, dispatcher := newScanRouter(t)
	scans.EXPECT().CreateScan(gomock.Any(), gomock.Any()).Return(nil)
	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(core.ErrQueueFull)
	scans.EXPECT().FailScan(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	rec := postScan(r, `{"repo": "octo/hello", "pr_number": 7}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestScanHandler_Get(t *testing.T) {
	own := uuid.NewString()
	foreign := uuid.NewString()
	missing := uuid.NewString()

	r, scans, _ := newScanRouter(t)
	scans.EXPECT().GetScan(gomock.Any(), own).Return(&core.Scan{ID: own, UserID: 42, Status: core.ScanCompleted, Result: "{}"}, nil)
	scans.EXPECT().GetScan(gomock.Any(), foreign).Return(&core.Scan{ID: foreign, UserID: 7}, nil)
	scans.EXPECT().GetScan(gomock.Any(), missing).Return(nil, core.ErrScanNotFound)

	rec := serve(r, http.MethodGet, "/scan/"+own)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, own, body["scan_id"])
	assert.Equal(t, "completed", body["status"])

	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/scan/"+foreign).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/scan/"+missing).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/scan/not-a-uuid").Code)
}

func TestScanHandler_Latest(t *testing.T) {
	r, scans, _ := newScanRouter(t)
	scans.EXPECT().GetLatestScanForPR(gomock.Any(), "octo/hello", 7, int64(42)).Return(&core.Scan{ID: "s", UserID: 42}, nil)
	scans.EXPECT().GetLatestScanForPR(gomock.Any(), "octo/hello", 8, int64(42)).Return(nil, errors.New("db down"))
	scans.EXPECT().GetLatestScanForPR(gomock.Any(), "octo/hello", 9, int64(42)).Return(nil, core.ErrScanNotFound)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/repos/octo/hello/pulls/7/scans/latest").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(r, http.MethodGet, "/repos/octo/hello/pulls/8/scans/latest").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/repos/octo/hello/pulls/9/scans/latest").Code)
}
