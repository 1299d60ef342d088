package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/p-blackswan/contrib-agent/internal/errors"
)

func TestCreateForkExistingFork(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets/forks", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		fmt.Fprint(w, `{"full_name":"octo-bot/widgets","html_url":"https://github.com/octo-bot/widgets"}`)
	})
	c := newTestClient(t, mux)

	url, err := c.CreateFork(context.Background(), "octo", "widgets")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/octo-bot/widgets", url)
}

func TestCreateForkAcceptedAsync(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets/forks", func(w http.ResponseWriter, r *http.Request) {
		// GitHub answers 202 while the fork is created in the background.
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{}`)
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login":"octo-bot"}`)
	})
	c := newTestClient(t, mux)

	url, err := c.CreateFork(context.Background(), "octo", "widgets")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/octo-bot/widgets", url)
}

func TestCreateForkFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/locked/forks", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"forking is disabled"}`)
	})
	c := newTestClient(t, mux)

	_, err := c.CreateFork(context.Background(), "octo", "locked")
	require.Error(t, err)

	var apiErr *cerrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.StatusCode)
}

func TestCreatePullRequest(t *testing.T) {
	var created map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets/pulls", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"number":42,"html_url":"https://github.com/octo/widgets/pull/42"}`)
	})
	c := newTestClient(t, mux)
	c.login = "octo-bot"

	url, err := c.CreatePullRequest(context.Background(), "octo", "widgets", PullRequestSpec{
		Title:      "Fix panic on empty config",
		Body:       "Guards the loader against a nil config map.",
		HeadBranch: "fix-empty-config",
		BaseBranch: "main",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/octo/widgets/pull/42", url)
	assert.Equal(t, "octo-bot:fix-empty-config", created["head"])
	assert.Equal(t, "main", created["base"])
	assert.Equal(t, "Fix panic on empty config", created["title"])
}

func TestCreatePullRequestResolvesDefaultBranch(t *testing.T) {
	var created map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"full_name":"octo/widgets","default_branch":"develop"}`)
	})
	mux.HandleFunc("/repos/octo/widgets/pulls", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"number":7,"html_url":"https://github.com/octo/widgets/pull/7"}`)
	})
	c := newTestClient(t, mux)
	c.login = "octo-bot"

	_, err := c.CreatePullRequest(context.Background(), "octo", "widgets", PullRequestSpec{
		Title:      "Docs touch-up",
		HeadBranch: "docs",
	})
	require.NoError(t, err)
	assert.Equal(t, "develop", created["base"])
}

func TestCreatePullRequestReusesDuplicate(t *testing.T) {
	var listedHead string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets/pulls", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"message":"Validation Failed","errors":[{"resource":"PullRequest","message":"A pull request already exists for octo-bot:fix-empty-config."}]}`)
			return
		}
		listedHead = r.URL.Query().Get("head")
		fmt.Fprint(w, `[{"number":42,"html_url":"https://github.com/octo/widgets/pull/42","state":"open"}]`)
	})
	c := newTestClient(t, mux)
	c.login = "octo-bot"

	url, err := c.CreatePullRequest(context.Background(), "octo", "widgets", PullRequestSpec{
		Title:      "Fix panic on empty config",
		HeadBranch: "fix-empty-config",
		BaseBranch: "main",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/octo/widgets/pull/42", url)
	assert.Equal(t, "octo-bot:fix-empty-config", listedHead)
}

func TestCreatePullRequestOtherValidationErrorFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets/pulls", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message":"Validation Failed","errors":[{"resource":"PullRequest","message":"No commits between main and empty-branch"}]}`)
	})
	c := newTestClient(t, mux)
	c.login = "octo-bot"

	_, err := c.CreatePullRequest(context.Background(), "octo", "widgets", PullRequestSpec{
		Title:      "Empty",
		HeadBranch: "empty-branch",
		BaseBranch: "main",
	})
	require.Error(t, err)

	var apiErr *cerrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.StatusCode)
}

func TestFindExistingPRNoMatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets/pulls", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	c := newTestClient(t, mux)

	url, err := c.FindExistingPR(context.Background(), "octo", "widgets", "octo-bot:ghost")
	require.NoError(t, err)
	assert.Empty(t, url)
}
