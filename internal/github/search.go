package github

import (
	"context"
	"fmt"
	"strings"

	gogithub "github.com/google/go-github/v60/github"

	"github.com/p-blackswan/contrib-agent/internal/scout"
)

// SearchRepositories finds candidate repositories for one search query.
// Archived repositories and forks are excluded at the query level; the
// scorer applies the remaining hard filters.
func (c *Client) SearchRepositories(ctx context.Context, q scout.SearchQuery) ([]scout.Repository, error) {
	var parts []string
	if q.Language != "" {
		parts = append(parts, "language:"+q.Language)
	}
	if q.Topic != "" {
		parts = append(parts, "topic:"+q.Topic)
	}
	if q.MinStars > 0 {
		parts = append(parts, fmt.Sprintf("stars:>%d", q.MinStars-1))
	}
	parts = append(parts, "archived:false", "fork:false")
	query := strings.Join(parts, " ")

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = 30
	}
	opts := &gogithub.SearchOptions{
		Sort:        "updated",
		Order:       "desc",
		ListOptions: gogithub.ListOptions{PerPage: perPage},
	}

	var result *gogithub.RepositoriesSearchResult
	err := c.call(ctx, "search_repositories", func(ctx context.Context) error {
		var err error
		result, _, err = c.gh.Search.Repositories(ctx, query, opts)
		return wrapErr("search_repositories", err)
	})
	if err != nil {
		return nil, err
	}

	repos := make([]scout.Repository, 0, len(result.Repositories))
	for _, r := range result.Repositories {
		repos = append(repos, convertRepository(r))
	}

	c.logger.Debug().
		Str("query", query).
		Int("found", len(repos)).
		Msg("repository search complete")
	return repos, nil
}

// GetRepository fetches metadata for a single repository.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (scout.Repository, error) {
	var repository *gogithub.Repository
	err := c.call(ctx, "get_repository", func(ctx context.Context) error {
		var err error
		repository, _, err = c.gh.Repositories.Get(ctx, owner, repo)
		return wrapErr("get_repository", err)
	})
	if err != nil {
		return scout.Repository{}, err
	}
	return convertRepository(repository), nil
}

func convertRepository(r *gogithub.Repository) scout.Repository {
	return scout.Repository{
		FullName:        r.GetFullName(),
		Description:     r.GetDescription(),
		Language:        r.GetLanguage(),
		StargazersCount: r.GetStargazersCount(),
		ForksCount:      r.GetForksCount(),
		OpenIssuesCount: r.GetOpenIssuesCount(),
		UpdatedAt:       r.GetUpdatedAt().Time,
		Topics:          r.Topics,
		HTMLURL:         r.GetHTMLURL(),
		DefaultBranch:   r.GetDefaultBranch(),
		Archived:        r.GetArchived(),
		Fork:            r.GetFork(),
		Private:         r.GetPrivate(),
	}
}
