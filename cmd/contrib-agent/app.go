package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/p-blackswan/contrib-agent/internal/analyzer"
	"github.com/p-blackswan/contrib-agent/internal/config"
	"github.com/p-blackswan/contrib-agent/internal/feedback"
	"github.com/p-blackswan/contrib-agent/internal/github"
	"github.com/p-blackswan/contrib-agent/internal/llm"
	"github.com/p-blackswan/contrib-agent/internal/metrics"
	"github.com/p-blackswan/contrib-agent/internal/preferences"
	"github.com/p-blackswan/contrib-agent/internal/retry"
	"github.com/p-blackswan/contrib-agent/internal/strategist"
)

// app bundles the dependencies shared by all commands.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	metrics *metrics.Metrics
	prefs   *preferences.Store
	gh      *github.Client
	llm     *llm.Client
}

// newApp loads config and wires the clients. GitHub and Anthropic clients are
// only built when credentials are configured; requireGitHub makes a missing
// token a hard error for commands that cannot work without it.
func newApp(logger zerolog.Logger, requireGitHub bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.New(),
		prefs:   preferences.NewStore(cfg.PreferencesPath, logger),
	}

	if cfg.GitHubEnabled() {
		a.gh, err = github.New(github.Config{
			Token:     cfg.GitHubToken,
			RPS:       cfg.GitHubRPS,
			Burst:     cfg.GitHubBurst,
			CacheSize: cfg.GitHubCacheSize,
			Retry: retry.Config{
				MaxAttempts: cfg.RetryMaxAttempts,
				BaseDelay:   cfg.RetryBaseDelay,
				MaxDelay:    8 * time.Second,
			},
		}, a.metrics, logger)
		if err != nil {
			return nil, fmt.Errorf("initializing github client: %w", err)
		}
	} else if requireGitHub {
		return nil, fmt.Errorf("GITHUB_TOKEN is required for this command")
	}

	if cfg.LLMEnabled() {
		a.llm, err = llm.New(cfg.AnthropicAPIKey, logger, llm.WithModel(cfg.AnthropicModel))
		if err != nil {
			logger.Warn().Err(err).Msg("llm client unavailable, continuing without it")
		}
	}

	return a, nil
}

// newAnalyzer builds the analyzer with the optional README reviewer attached.
func (a *app) newAnalyzer() *analyzer.Analyzer {
	var reviewer analyzer.ReadmeReviewer
	if a.llm != nil {
		reviewer = a.llm
	}
	return analyzer.New(a.gh, a.prefs, reviewer, a.metrics, a.logger)
}

// newStrategist builds the strategist with the optional enhancer attached.
func (a *app) newStrategist() *strategist.Strategist {
	var enhancer strategist.StrategyEnhancer
	if a.llm != nil {
		enhancer = a.llm
	}
	return strategist.New(a.prefs, enhancer, a.logger)
}

func (a *app) newSimulator() *feedback.Simulator {
	return feedback.New(a.metrics, a.logger)
}

// splitRepoArg parses an "owner/repo" argument.
func splitRepoArg(arg string) (owner, repo string, err error) {
	parts := strings.SplitN(arg, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("expected owner/repo, got %q", arg)
	}
	return parts[0], parts[1], nil
}

// emitJSON pretty-prints v to stdout.
func emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
