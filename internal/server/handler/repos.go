package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sevigo/audit-warden/internal/auth"
	"github.com/sevigo/audit-warden/internal/github"
	"github.com/sevigo/audit-warden/internal/gitutil"
)

// RepoHandler proxies repository and pull request reads to GitHub using the
// caller's own access token.
type RepoHandler struct {
	clients github.ClientFactory
	logger  *slog.Logger
}

// NewRepoHandler creates a new RepoHandler.
func NewRepoHandler(clients github.ClientFactory, logger *slog.Logger) *RepoHandler {
	return &RepoHandler{clients: clients, logger: logger}
}

// ListRepositories returns the repositories of the authenticated user.
func (h *RepoHandler) ListRepositories(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}
	repos, err := client.ListRepositories(r.Context())
	if err != nil {
		writeUpstreamError(w, h.logger, "failed to list repositories", err)
		return
	}
	if repos == nil {
		repos = []github.Repository{}
	}
	writeJSON(w, http.StatusOK, repos)
}

// ListPullRequests returns the pull requests of a repository, open ones by default.
func (h *RepoHandler) ListPullRequests(w http.ResponseWriter, r *http.Request) {
	owner, repo, ok := repoParams(w, r)
	if !ok {
		return
	}
	state := r.URL.Query().Get("state")
	switch state {
	case "":
		state = "open"
	case "open", "closed", "all":
	default:
		writeError(w, http.StatusBadRequest, "state: must be one of open, closed, all")
		return
	}

	client, ok := h.client(w, r)
	if !ok {
		return
	}
	pulls, err := client.ListPullRequests(r.Context(), owner, repo, state)
	if err != nil {
		writeUpstreamError(w, h.logger, "failed to list pull requests", err)
		return
	}
	if pulls == nil {
		pulls = []github.PullRequest{}
	}
	writeJSON(w, http.StatusOK, pulls)
}

// GetPullRequestDiff returns the raw unified diff of a pull request.
func (h *RepoHandler) GetPullRequestDiff(w http.ResponseWriter, r *http.Request) {
	owner, repo, ok := repoParams(w, r)
	if !ok {
		return
	}
	number, ok := prNumberParam(w, r)
	if !ok {
		return
	}

	client, ok := h.client(w, r)
	if !ok {
		return
	}
	diff, err := client.GetPullRequestDiff(r.Context(), owner, repo, number)
	if err != nil {
		writeUpstreamError(w, h.logger, "failed to fetch pull request diff", err)
		return
	}
	w.Header().Set("Content-Type", "text/x-diff; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(diff))
}

func (h *RepoHandler) client(w http.ResponseWriter, r *http.Request) (github.Client, bool) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return nil, false
	}
	return h.clients(r.Context(), session.GitHubAccessToken), true
}

func repoParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	owner, repo := chi.URLParam(r, "owner"), chi.URLParam(r, "repo")
	if !gitutil.ValidName(owner) || !gitutil.ValidName(repo) {
		writeError(w, http.StatusBadRequest, "invalid repository name")
		return "", "", false
	}
	return owner, repo, true
}

func prNumberParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number <= 0 {
		writeError(w, http.StatusBadRequest, "number: must be a positive integer")
		return 0, false
	}
	return number, true
}
