package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Error(t *testing.T) {
	err := NewAPIError("github", 502, "bad gateway")
	assert.Contains(t, err.Error(), "github")
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "bad gateway")
}

func TestAPIError_Unwrap(t *testing.T) {
	err := NewRateLimitError("github", 403, "secondary rate limit")
	assert.True(t, stderrors.Is(err, ErrRateLimit))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"server error", NewAPIError("github", 500, "oops"), true},
		{"bad gateway", NewAPIError("github", 502, "oops"), true},
		{"unavailable", NewAPIError("github", 503, "oops"), true},
		{"rate limited", NewAPIError("github", 429, "slow down"), true},
		{"validation", NewAPIError("github", 422, "duplicate"), false},
		{"forbidden", NewAPIError("github", 403, "no access"), false},
		{"not found", NewAPIError("github", 404, "gone"), false},
		{"timeout sentinel", ErrTimeout, true},
		{"rate limit sentinel", ErrRateLimit, true},
		{"generic", stderrors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(NewRateLimitError("github", 403, "rate limit exceeded")))
	assert.False(t, IsRateLimited(NewAPIError("github", 500, "oops")))
	assert.False(t, IsRateLimited(stderrors.New("boom")))
}
