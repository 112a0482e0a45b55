// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/sevigo/audit-warden/internal/core"
)

const perPage = 100

// Repository is a repository the authenticated user can access.
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// PullRequest is the summary of a pull request shown in listings.
type PullRequest struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Number int    `json:"number"`
	State  string `json:"state"`
}

// Client defines the set of GitHub operations the service performs on behalf
// of a user: identity, repository and pull request listings, diffs and comments.
//
//go:generate mockgen -destination=../../mocks/mock_github_client.go -package=mocks . Client
type Client interface {
	GetAuthenticatedUser(ctx context.Context) (*core.GitHubUser, error)
	ListRepositories(ctx context.Context) ([]Repository, error)
	ListPullRequests(ctx context.Context, owner, repo, state string) ([]PullRequest, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error)
	GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error)
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
}

// ClientFactory returns a client acting with the given access token.
type ClientFactory func(ctx context.Context, token string) Client

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHubClient wraps the official go-github client to provide a focused,
// testable interface for application-specific GitHub operations.
func NewGitHubClient(client *github.Client, logger *slog.Logger) Client {
	return &gitHubClient{client: client, logger: logger}
}

// NewTokenClient creates a client authenticated with an OAuth access token or
// a Personal Access Token (PAT).
func NewTokenClient(ctx context.Context, token string, logger *slog.Logger) Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	return &gitHubClient{client: github.NewClient(tc), logger: logger}
}

// NewClientFactory returns a factory producing token clients that log to logger.
func NewClientFactory(logger *slog.Logger) ClientFactory {
	return func(ctx context.Context, token string) Client {
		return NewTokenClient(ctx, token, logger)
	}
}

// GetAuthenticatedUser returns the user the token belongs to.
func (g *gitHubClient) GetAuthenticatedUser(ctx context.Context) (*core.GitHubUser, error) {
	user, _, err := g.client.Users.Get(ctx, "")
	if err != nil {
		g.logger.Error("failed to get authenticated user", "error", err)
		return nil, err
	}
	if user.GetID() == 0 || user.GetLogin() == "" {
		return nil, fmt.Errorf("github returned an incomplete user profile")
	}
	return &core.GitHubUser{ID: user.GetID(), Login: user.GetLogin()}, nil
}

// ListRepositories returns every repository the user can access. It follows
// pagination until the last page.
func (g *gitHubClient) ListRepositories(ctx context.Context) ([]Repository, error) {
	var all []Repository
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	for {
		repos, resp, err := g.client.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			g.logger.Error("failed to list repositories", "error", err)
			return nil, err
		}
		for _, r := range repos {
			all = append(all, Repository{Name: r.GetName(), FullName: r.GetFullName()})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// ListPullRequests returns the pull requests of a repository in the given
// state (open, closed or all). It follows pagination until the last page.
func (g *gitHubClient) ListPullRequests(ctx context.Context, owner, repo, state string) ([]PullRequest, error) {
	var all []PullRequest
	opts := &github.PullRequestListOptions{
		State:       state,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	for {
		prs, resp, err := g.client.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			g.logger.Error("failed to list pull requests", "owner", owner, "repo", repo, "error", err)
			return nil, err
		}
		for _, pr := range prs {
			all = append(all, toPullRequest(pr))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// GetPullRequest retrieves a single pull request by its number.
func (g *gitHubClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	pr, _, err := g.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		g.logger.Error("failed to get pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
		return nil, err
	}
	out := toPullRequest(pr)
	return &out, nil
}

// GetPullRequestDiff retrieves the diff of a pull request as a string.
func (g *gitHubClient) GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	diff, _, err := g.client.PullRequests.GetRaw(ctx, owner, repo, number, github.RawOptions{
		Type: github.Diff,
	})
	if err != nil {
		g.logger.Error("failed to get pull request diff", "owner", owner, "repo", repo, "pr", number, "error", err)
		return "", err
	}
	return diff, nil
}

// CreateComment creates a new comment on a pull request.
func (g *gitHubClient) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	comment := &github.IssueComment{Body: &body}
	_, _, err := g.client.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		g.logger.Error("failed to create comment", "owner", owner, "repo", repo, "pr", number, "error", err)
	}
	return err
}

func toPullRequest(pr *github.PullRequest) PullRequest {
	return PullRequest{
		ID:     pr.GetID(),
		Title:  pr.GetTitle(),
		Number: pr.GetNumber(),
		State:  pr.GetState(),
	}
}
