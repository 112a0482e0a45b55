package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mux *http.ServeMux) Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gh := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	gh.BaseURL = base
	return NewGitHubClient(gh, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestListRepositories_FollowsPagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			writeJSON(t, w, []map[string]any{{"name": "b", "full_name": "octo/b"}})
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<http://%s/user/repos?page=2>; rel="next"`, r.Host))
		writeJSON(t, w, []map[string]any{{"name": "a", "full_name": "octo/a"}})
	})

	repos, err := newTestClient(t, mux).ListRepositories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Repository{{Name: "a", FullName: "octo/a"}, {Name: "b", FullName: "octo/b"}}, repos)
}

func TestListPullRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/a/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all", r.URL.Query().Get("state"))
		writeJSON(t, w, []map[string]any{{"id": 7, "title": "Add login", "number": 3, "state": "open"}})
	})

	prs, err := newTestClient(t, mux).ListPullRequests(context.Background(), "octo", "a", "all")
	require.NoError(t, err)
	assert.Equal(t, []PullRequest{{ID: 7, Title: "Add login", Number: 3, State: "open"}}, prs)
}

func TestGetPullRequestDiff(t *testing.T) {
	const diff = "diff --git a/x b/x\n+foo\n"
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/a/pulls/3", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.github.v3.diff", r.Header.Get("Accept"))
		_, _ = io.WriteString(w, diff)
	})

	got, err := newTestClient(t, mux).GetPullRequestDiff(context.Background(), "octo", "a", 3)
	require.NoError(t, err)
	assert.Equal(t, diff, got)
}

func TestGetAuthenticatedUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"id": 42, "login": "octocat"})
	})

	user, err := newTestClient(t, mux).GetAuthenticatedUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "octocat", user.Login)
}

func TestCreateComment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/a/issues/3/comments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["body"])
		w.WriteHeader(http.StatusCreated)
		writeJSON(t, w, map[string]any{"id": 1})
	})

	require.NoError(t, newTestClient(t, mux).CreateComment(context.Background(), "octo", "a", 3, "hello"))
}

func TestUpstreamErrorsAreReturned(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message": "Bad credentials"}`, http.StatusUnauthorized)
	})

	_, err := newTestClient(t, mux).ListRepositories(context.Background())
	var ghErr *github.ErrorResponse
	require.ErrorAs(t, err, &ghErr)
	assert.Equal(t, http.StatusUnauthorized, ghErr.Response.StatusCode)
}
