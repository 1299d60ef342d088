package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/p-blackswan/contrib-agent/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New("test-key", zerolog.Nop(), WithBaseURL(srv.URL))
	require.NoError(t, err)
	return c
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New("", zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, cerrors.ErrInvalidInput)
}

func TestCompleteSendsMessagesRequest(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"content":[{"type":"text","text":"Looks "},{"type":"text","text":"solid."}],"stop_reason":"end_turn","usage":{"input_tokens":12,"output_tokens":3}}`)
	})

	text, err := c.Complete(context.Background(), "be helpful", "review this")
	require.NoError(t, err)

	assert.Equal(t, "Looks solid.", text)
	assert.Equal(t, defaultModel, got["model"])
	assert.Equal(t, "be helpful", got["system"])
	messages := got["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "review this", messages[0].(map[string]any)["content"])
}

func TestCompleteAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"type":"error","error":{"type":"invalid_request_error","message":"max_tokens required"}}`)
	})

	_, err := c.Complete(context.Background(), "", "hello")
	require.Error(t, err)

	var apiErr *cerrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "invalid_request_error")
}

func TestCompleteConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c, err := New("test-key", zerolog.Nop(), WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "", "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, cerrors.ErrUnavailable)
}

func TestReviewReadmeTruncatesLongInput(t *testing.T) {
	var promptLen int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		messages := req["messages"].([]any)
		promptLen = len(messages[0].(map[string]any)["content"].(string))
		fmt.Fprint(w, `{"content":[{"type":"text","text":"Add usage examples."}],"stop_reason":"end_turn"}`)
	})

	long := strings.Repeat("x", 10000)
	suggestions, err := c.ReviewReadme(context.Background(), long)
	require.NoError(t, err)

	assert.Equal(t, "Add usage examples.", suggestions)
	assert.Less(t, promptLen, 5000)
}

func TestEnhanceStrategy(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content":[{"type":"text","text":"Start with the smallest issue."}],"stop_reason":"end_turn"}`)
	})

	insights, err := c.EnhanceStrategy(context.Background(), "Repository: octo/widgets")
	require.NoError(t, err)
	assert.Equal(t, "Start with the smallest issue.", insights)
}

func TestOptionsOverrideDefaults(t *testing.T) {
	c, err := New("test-key", zerolog.Nop(), WithModel("claude-3-5-sonnet-20241022"), WithMaxTokens(2048))
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-sonnet-20241022", c.Model())
	assert.Equal(t, 2048, c.maxTokens)
}
