// Package github wraps the GitHub REST API behind the narrow surfaces the
// agent consumes: repository search, repository inspection, and the
// fork-and-PR submission pipeline. All outbound calls are rate-limited and
// retried with exponential backoff.
package github

import (
	"context"
	"errors"
	"fmt"

	gogithub "github.com/google/go-github/v60/github"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	cerrors "github.com/p-blackswan/contrib-agent/internal/errors"
	"github.com/p-blackswan/contrib-agent/internal/metrics"
	"github.com/p-blackswan/contrib-agent/internal/retry"
)

// Config tunes the client.
type Config struct {
	Token     string
	RPS       float64
	Burst     int
	CacheSize int

	// Retry overrides the default retry policy when non-zero.
	Retry retry.Config
}

// Client is the GitHub API client. Read-mostly lookups (readme, languages,
// contributors) are cached per owner/repo since the analyzer hits them
// repeatedly within one run.
type Client struct {
	gh       *gogithub.Client
	limiter  *rate.Limiter
	retryCfg retry.Config
	logger   zerolog.Logger
	metrics  *metrics.Metrics

	readmeCache       *lru.Cache[string, string]
	languageCache     *lru.Cache[string, map[string]int]
	contributorsCache *lru.Cache[string, []string]

	login string // cached authenticated user, resolved lazily
}

// New creates a Client authenticated with a personal access token. m may be
// nil.
func New(cfg Config, m *metrics.Metrics, logger zerolog.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: github token is required", cerrors.ErrInvalidInput)
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}

	readmeCache, err := lru.New[string, string](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating readme cache: %w", err)
	}
	languageCache, err := lru.New[string, map[string]int](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating language cache: %w", err)
	}
	contributorsCache, err := lru.New[string, []string](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating contributors cache: %w", err)
	}

	retryCfg := cfg.Retry
	if retryCfg.MaxAttempts == 0 {
		retryCfg = retry.DefaultConfig()
	}

	return &Client{
		gh:                gogithub.NewClient(nil).WithAuthToken(cfg.Token),
		limiter:           rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		retryCfg:          retryCfg,
		logger:            logger.With().Str("component", "github").Logger(),
		metrics:           m,
		readmeCache:       readmeCache,
		languageCache:     languageCache,
		contributorsCache: contributorsCache,
	}, nil
}

// call runs one API operation through the rate limiter and retry policy.
func (c *Client) call(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	attempts := 0
	err := retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		attempts++
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		return fn(ctx)
	})

	if c.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		c.metrics.GitHubRequestsTotal.WithLabelValues(operation, status).Inc()
		if attempts > 1 {
			c.metrics.GitHubRetriesTotal.Inc()
		}
	}
	if err != nil {
		c.logger.Debug().Err(err).Str("operation", operation).Int("attempts", attempts).Msg("github call failed")
	}
	return err
}

// wrapErr maps go-github errors onto the agent's error taxonomy so the retry
// policy can classify them.
func wrapErr(operation string, err error) error {
	if err == nil {
		return nil
	}

	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		return cerrors.NewRateLimitError("github", 429, operation+": primary rate limit exhausted")
	}
	var abuseErr *gogithub.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return cerrors.NewRateLimitError("github", 429, operation+": secondary rate limit triggered")
	}
	var respErr *gogithub.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		apiErr := cerrors.NewAPIError("github", respErr.Response.StatusCode, operation+": "+respErr.Message)
		apiErr.Err = err
		return apiErr
	}

	// Transport-level failure: treat as transient.
	return fmt.Errorf("%w: %s: %v", cerrors.ErrUnavailable, operation, err)
}

// CurrentUser returns the authenticated user's login, cached after the first
// lookup.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	if c.login != "" {
		return c.login, nil
	}

	var user *gogithub.User
	err := c.call(ctx, "get_user", func(ctx context.Context) error {
		var err error
		user, _, err = c.gh.Users.Get(ctx, "")
		return wrapErr("get_user", err)
	})
	if err != nil {
		return "", err
	}
	c.login = user.GetLogin()
	return c.login, nil
}

func cacheKey(owner, repo string) string {
	return owner + "/" + repo
}
