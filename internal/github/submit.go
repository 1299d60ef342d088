package github

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gogithub "github.com/google/go-github/v60/github"

	cerrors "github.com/p-blackswan/contrib-agent/internal/errors"
)

// PullRequestSpec describes a pull request to open against owner/repo.
type PullRequestSpec struct {
	Title      string
	Body       string
	HeadBranch string // branch on the authenticated user's fork
	BaseBranch string // defaults to the repository's default branch
}

// CreateFork forks owner/repo into the authenticated user's namespace.
// GitHub forks asynchronously and answers 202; an already-existing fork
// answers 200. Both count as success.
func (c *Client) CreateFork(ctx context.Context, owner, repo string) (string, error) {
	var fork *gogithub.Repository
	err := c.call(ctx, "create_fork", func(ctx context.Context) error {
		var err error
		fork, _, err = c.gh.Repositories.CreateFork(ctx, owner, repo, nil)

		// 202 Accepted: the fork is being created in the background.
		var accepted *gogithub.AcceptedError
		if errors.As(err, &accepted) {
			return nil
		}
		return wrapErr("create_fork", err)
	})
	if err != nil {
		return "", fmt.Errorf("forking %s/%s: %w", owner, repo, err)
	}

	if fork != nil && fork.GetHTMLURL() != "" {
		c.logger.Info().Str("fork", fork.GetFullName()).Msg("fork ready")
		return fork.GetHTMLURL(), nil
	}

	// Async fork: derive the URL from the authenticated user.
	login, err := c.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("https://github.com/%s/%s", login, repo)
	c.logger.Info().Str("fork", login+"/"+repo).Msg("fork creation accepted")
	return url, nil
}

// CreatePullRequest opens a pull request for spec. A 422 indicating the pull
// request already exists resolves to the existing open PR for the same head
// branch instead of failing.
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo string, spec PullRequestSpec) (string, error) {
	base := spec.BaseBranch
	if base == "" {
		var err error
		base, err = c.defaultBranch(ctx, owner, repo)
		if err != nil {
			return "", err
		}
	}

	login, err := c.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	head := login + ":" + spec.HeadBranch

	newPR := &gogithub.NewPullRequest{
		Title: gogithub.String(spec.Title),
		Body:  gogithub.String(spec.Body),
		Head:  gogithub.String(head),
		Base:  gogithub.String(base),
	}

	var pr *gogithub.PullRequest
	err = c.call(ctx, "create_pull_request", func(ctx context.Context) error {
		var err error
		pr, _, err = c.gh.PullRequests.Create(ctx, owner, repo, newPR)
		return wrapErr("create_pull_request", err)
	})
	if err == nil {
		c.logger.Info().Str("pr", pr.GetHTMLURL()).Msg("pull request created")
		return pr.GetHTMLURL(), nil
	}

	if isDuplicatePR(err) {
		existing, findErr := c.FindExistingPR(ctx, owner, repo, head)
		if findErr != nil {
			return "", fmt.Errorf("%w: duplicate pull request, and lookup failed: %v", cerrors.ErrAlreadyExists, findErr)
		}
		if existing != "" {
			c.logger.Info().Str("pr", existing).Msg("pull request already exists, reusing")
			return existing, nil
		}
	}
	return "", fmt.Errorf("creating pull request for %s/%s: %w", owner, repo, err)
}

// FindExistingPR returns the URL of the open pull request with the given
// head ("user:branch"), or empty if none exists.
func (c *Client) FindExistingPR(ctx context.Context, owner, repo, head string) (string, error) {
	opts := &gogithub.PullRequestListOptions{
		Head:  head,
		State: "open",
	}

	var prs []*gogithub.PullRequest
	err := c.call(ctx, "list_pull_requests", func(ctx context.Context) error {
		var err error
		prs, _, err = c.gh.PullRequests.List(ctx, owner, repo, opts)
		return wrapErr("list_pull_requests", err)
	})
	if err != nil {
		return "", err
	}
	if len(prs) == 0 {
		return "", nil
	}
	return prs[0].GetHTMLURL(), nil
}

func (c *Client) defaultBranch(ctx context.Context, owner, repo string) (string, error) {
	repository, err := c.GetRepository(ctx, owner, repo)
	if err != nil {
		return "", err
	}
	if repository.DefaultBranch != "" {
		return repository.DefaultBranch, nil
	}
	return "main", nil
}

// isDuplicatePR reports whether a 422 response indicates the pull request
// already exists for this head branch.
func isDuplicatePR(err error) bool {
	var apiErr *cerrors.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 422 {
		return false
	}
	if strings.Contains(strings.ToLower(apiErr.Message), "already exists") {
		return true
	}
	var respErr *gogithub.ErrorResponse
	if errors.As(err, &respErr) {
		for _, e := range respErr.Errors {
			if strings.Contains(strings.ToLower(e.Message), "pull request already exists") {
				return true
			}
		}
	}
	return false
}
