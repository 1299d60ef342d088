package github

import (
	"context"
	"errors"

	gogithub "github.com/google/go-github/v60/github"

	"github.com/p-blackswan/contrib-agent/internal/analyzer"
	cerrors "github.com/p-blackswan/contrib-agent/internal/errors"
)

// goodFirstLabels are the label spellings that count as newcomer-friendly.
var goodFirstLabels = []string{"good first issue", "good-first-issue", "help wanted", "help-wanted"}

// GetReadme returns the decoded README content. A repository without a
// README returns an empty string, not an error.
func (c *Client) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	key := cacheKey(owner, repo)
	if cached, ok := c.readmeCache.Get(key); ok {
		return cached, nil
	}

	var content *gogithub.RepositoryContent
	err := c.call(ctx, "get_readme", func(ctx context.Context) error {
		var err error
		content, _, err = c.gh.Repositories.GetReadme(ctx, owner, repo, nil)
		return wrapErr("get_readme", err)
	})
	if err != nil {
		var apiErr *cerrors.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
			c.readmeCache.Add(key, "")
			return "", nil
		}
		return "", err
	}

	readme, err := content.GetContent()
	if err != nil {
		return "", wrapErr("get_readme", err)
	}
	c.readmeCache.Add(key, readme)
	return readme, nil
}

// ListIssues returns open issues sorted by recent activity. Pull requests,
// which the issues API also returns, are filtered out.
func (c *Client) ListIssues(ctx context.Context, owner, repo string, perPage int) ([]analyzer.Issue, error) {
	return c.listIssues(ctx, owner, repo, nil, perPage)
}

// GoodFirstIssues returns open issues carrying a newcomer-friendly label.
// The issues API treats multiple labels as a conjunction, so each spelling
// is queried separately and the results merged.
func (c *Client) GoodFirstIssues(ctx context.Context, owner, repo string) ([]analyzer.Issue, error) {
	seen := make(map[int]struct{})
	var merged []analyzer.Issue
	for _, label := range goodFirstLabels {
		issues, err := c.listIssues(ctx, owner, repo, []string{label}, 30)
		if err != nil {
			return nil, err
		}
		for _, issue := range issues {
			if _, ok := seen[issue.Number]; ok {
				continue
			}
			seen[issue.Number] = struct{}{}
			merged = append(merged, issue)
		}
	}
	return merged, nil
}

func (c *Client) listIssues(ctx context.Context, owner, repo string, labels []string, perPage int) ([]analyzer.Issue, error) {
	if perPage <= 0 {
		perPage = 30
	}
	opts := &gogithub.IssueListByRepoOptions{
		State:       "open",
		Sort:        "updated",
		Direction:   "desc",
		Labels:      labels,
		ListOptions: gogithub.ListOptions{PerPage: perPage},
	}

	var raw []*gogithub.Issue
	err := c.call(ctx, "list_issues", func(ctx context.Context) error {
		var err error
		raw, _, err = c.gh.Issues.ListByRepo(ctx, owner, repo, opts)
		return wrapErr("list_issues", err)
	})
	if err != nil {
		return nil, err
	}

	issues := make([]analyzer.Issue, 0, len(raw))
	for _, issue := range raw {
		if issue.IsPullRequest() {
			continue
		}
		labelNames := make([]string, 0, len(issue.Labels))
		for _, label := range issue.Labels {
			labelNames = append(labelNames, label.GetName())
		}
		issues = append(issues, analyzer.Issue{
			Number:  issue.GetNumber(),
			Title:   issue.GetTitle(),
			Labels:  labelNames,
			HTMLURL: issue.GetHTMLURL(),
		})
	}
	return issues, nil
}

// ListLanguages returns the byte counts per language.
func (c *Client) ListLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	key := cacheKey(owner, repo)
	if cached, ok := c.languageCache.Get(key); ok {
		return cached, nil
	}

	var languages map[string]int
	err := c.call(ctx, "list_languages", func(ctx context.Context) error {
		var err error
		languages, _, err = c.gh.Repositories.ListLanguages(ctx, owner, repo)
		return wrapErr("list_languages", err)
	})
	if err != nil {
		return nil, err
	}
	c.languageCache.Add(key, languages)
	return languages, nil
}

// ListContributors returns contributor logins, first page only. The analyzer
// only needs rough counts.
func (c *Client) ListContributors(ctx context.Context, owner, repo string) ([]string, error) {
	key := cacheKey(owner, repo)
	if cached, ok := c.contributorsCache.Get(key); ok {
		return cached, nil
	}

	opts := &gogithub.ListContributorsOptions{
		ListOptions: gogithub.ListOptions{PerPage: 30},
	}
	var raw []*gogithub.Contributor
	err := c.call(ctx, "list_contributors", func(ctx context.Context) error {
		var err error
		raw, _, err = c.gh.Repositories.ListContributors(ctx, owner, repo, opts)
		return wrapErr("list_contributors", err)
	})
	if err != nil {
		return nil, err
	}

	logins := make([]string, 0, len(raw))
	for _, contributor := range raw {
		logins = append(logins, contributor.GetLogin())
	}
	c.contributorsCache.Add(key, logins)
	return logins, nil
}
