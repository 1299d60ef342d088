package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	gogithub "github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	cerrors "github.com/p-blackswan/contrib-agent/internal/errors"
	"github.com/p-blackswan/contrib-agent/internal/retry"
	"github.com/p-blackswan/contrib-agent/internal/scout"
)

// newTestClient points a Client at an httptest server with an effectively
// unlimited rate limiter and millisecond backoff.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{Token: "test-token"}, nil, zerolog.Nop())
	require.NoError(t, err)

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	c.gh.BaseURL = base
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	c.retryCfg = retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
	return c
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New(Config{}, nil, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, cerrors.ErrInvalidInput)
}

func TestNewAppliesDefaults(t *testing.T) {
	c, err := New(Config{Token: "tok"}, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, rate.Limit(2), c.limiter.Limit())
	assert.Equal(t, 5, c.limiter.Burst())
	assert.Equal(t, 3, c.retryCfg.MaxAttempts)
}

func TestGetReadmeDecodesAndCaches(t *testing.T) {
	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets/readme", func(w http.ResponseWriter, r *http.Request) {
		hits++
		encoded := base64.StdEncoding.EncodeToString([]byte("# Widgets\n\n## Installation\n"))
		fmt.Fprintf(w, `{"type":"file","encoding":"base64","content":%q}`, encoded)
	})
	c := newTestClient(t, mux)

	readme, err := c.GetReadme(context.Background(), "octo", "widgets")
	require.NoError(t, err)
	assert.Contains(t, readme, "## Installation")

	_, err = c.GetReadme(context.Background(), "octo", "widgets")
	require.NoError(t, err)
	assert.Equal(t, 1, hits, "second lookup should be served from cache")
}

func TestGetReadmeMissingIsEmptyNotError(t *testing.T) {
	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/bare/readme", func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	c := newTestClient(t, mux)

	readme, err := c.GetReadme(context.Background(), "octo", "bare")
	require.NoError(t, err)
	assert.Empty(t, readme)

	// The 404 is cached too.
	_, err = c.GetReadme(context.Background(), "octo", "bare")
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestSearchRepositoriesBuildsQuery(t *testing.T) {
	var gotQuery, gotPerPage, gotSort string
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotPerPage = r.URL.Query().Get("per_page")
		gotSort = r.URL.Query().Get("sort")
		fmt.Fprint(w, `{"total_count":1,"items":[{
			"full_name":"octo/widgets",
			"description":"a widget toolkit",
			"language":"Go",
			"stargazers_count":1200,
			"forks_count":80,
			"open_issues_count":14,
			"topics":["cli","tooling"],
			"html_url":"https://github.com/octo/widgets",
			"default_branch":"main"
		}]}`)
	})
	c := newTestClient(t, mux)

	repos, err := c.SearchRepositories(context.Background(), scout.SearchQuery{
		Language: "Go",
		Topic:    "cli",
		MinStars: 50,
		PerPage:  20,
	})
	require.NoError(t, err)

	assert.Equal(t, "language:Go topic:cli stars:>49 archived:false fork:false", gotQuery)
	assert.Equal(t, "20", gotPerPage)
	assert.Equal(t, "updated", gotSort)

	require.Len(t, repos, 1)
	assert.Equal(t, "octo/widgets", repos[0].FullName)
	assert.Equal(t, 1200, repos[0].StargazersCount)
	assert.Equal(t, []string{"cli", "tooling"}, repos[0].Topics)
	assert.False(t, repos[0].Archived)
}

func TestListIssuesFiltersPullRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets/issues", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"number":7,"title":"panic on empty config","labels":[{"name":"bug"}],"html_url":"https://github.com/octo/widgets/issues/7"},
			{"number":8,"title":"add dark mode","pull_request":{"url":"https://api.github.com/repos/octo/widgets/pulls/8"}}
		]`)
	})
	c := newTestClient(t, mux)

	issues, err := c.ListIssues(context.Background(), "octo", "widgets", 30)
	require.NoError(t, err)

	require.Len(t, issues, 1)
	assert.Equal(t, 7, issues[0].Number)
	assert.Equal(t, []string{"bug"}, issues[0].Labels)
}

func TestGoodFirstIssuesQueriesEachLabelAndDedupes(t *testing.T) {
	var queried []string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets/issues", func(w http.ResponseWriter, r *http.Request) {
		label := r.URL.Query().Get("labels")
		queried = append(queried, label)
		// Issue 3 carries two of the spellings; it must appear once.
		switch label {
		case "good first issue", "help wanted":
			fmt.Fprintf(w, `[{"number":3,"title":"fix typo","labels":[{"name":%q}]}]`, label)
		default:
			fmt.Fprint(w, `[]`)
		}
	})
	c := newTestClient(t, mux)

	issues, err := c.GoodFirstIssues(context.Background(), "octo", "widgets")
	require.NoError(t, err)

	assert.Contains(t, queried, "good first issue")
	assert.Contains(t, queried, "help-wanted")
	require.Len(t, issues, 1)
	assert.Equal(t, 3, issues[0].Number)
}

func TestListLanguagesCaches(t *testing.T) {
	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets/languages", func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"Go":52000,"Shell":1800}`)
	})
	c := newTestClient(t, mux)

	languages, err := c.ListLanguages(context.Background(), "octo", "widgets")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Go": 52000, "Shell": 1800}, languages)

	_, err = c.ListLanguages(context.Background(), "octo", "widgets")
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestListContributors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets/contributors", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"login":"alice"},{"login":"bob"}]`)
	})
	c := newTestClient(t, mux)

	contributors, err := c.ListContributors(context.Background(), "octo", "widgets")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, contributors)
}

func TestCurrentUserCached(t *testing.T) {
	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"login":"octo-bot"}`)
	})
	c := newTestClient(t, mux)

	login, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "octo-bot", login)

	_, err = c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestCallRetriesServerErrors(t *testing.T) {
	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets/languages", func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, `{"message":"upstream hiccup"}`)
			return
		}
		fmt.Fprint(w, `{"Go":1000}`)
	})
	c := newTestClient(t, mux)

	languages, err := c.ListLanguages(context.Background(), "octo", "widgets")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Go": 1000}, languages)
	assert.Equal(t, 2, hits)
}

func TestCallFailsFastOnClientErrors(t *testing.T) {
	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/gone/languages", func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	c := newTestClient(t, mux)

	_, err := c.ListLanguages(context.Background(), "octo", "gone")
	require.Error(t, err)
	assert.Equal(t, 1, hits, "404 must not be retried")

	var apiErr *cerrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestWrapErrClassification(t *testing.T) {
	rateLimited := wrapErr("op", &gogithub.RateLimitError{})
	assert.True(t, cerrors.IsRateLimited(rateLimited))
	assert.True(t, cerrors.IsRetryable(rateLimited))

	abuse := wrapErr("op", &gogithub.AbuseRateLimitError{})
	assert.True(t, cerrors.IsRateLimited(abuse))

	notFound := wrapErr("op", &gogithub.ErrorResponse{
		Response: &http.Response{StatusCode: 404},
		Message:  "Not Found",
	})
	assert.False(t, cerrors.IsRetryable(notFound))

	transport := wrapErr("op", fmt.Errorf("dial tcp: connection refused"))
	assert.ErrorIs(t, transport, cerrors.ErrUnavailable)
	assert.True(t, cerrors.IsRetryable(transport))

	assert.NoError(t, wrapErr("op", nil))
}
