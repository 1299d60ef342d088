package scout

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/p-blackswan/contrib-agent/internal/metrics"
	"github.com/p-blackswan/contrib-agent/internal/preferences"
)

// SearchQuery describes one repository search.
type SearchQuery struct {
	Language string
	Topic    string
	MinStars int
	PerPage  int
}

// RepositorySource supplies candidate repositories. Implemented by the GitHub
// client; tests substitute a fake.
type RepositorySource interface {
	SearchRepositories(ctx context.Context, q SearchQuery) ([]Repository, error)
}

// Options tunes a discovery run. Zero values fall back to the profile.
type Options struct {
	Languages  []string
	Topics     []string
	MinStars   int
	MaxResults int
}

// Scout discovers repositories matching the user's preferences and ranks
// them for contribution potential.
type Scout struct {
	source  RepositorySource
	prefs   *preferences.Store
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// New creates a Scout. metrics may be nil.
func New(source RepositorySource, prefs *preferences.Store, m *metrics.Metrics, logger zerolog.Logger) *Scout {
	return &Scout{
		source:  source,
		prefs:   prefs,
		logger:  logger.With().Str("component", "scout").Logger(),
		metrics: m,
	}
}

// Discover searches per preferred language (and optional topics), deduplicates,
// applies the hard filters, and returns the top MaxResults ranked repositories.
func (s *Scout) Discover(ctx context.Context, opts Options) ([]Repository, error) {
	profile := s.prefs.Profile()

	languages := opts.Languages
	if len(languages) == 0 {
		languages = profile.Languages
	}
	minStars := opts.MinStars
	if minStars == 0 {
		minStars = profile.MinStars
	}
	maxResults := opts.MaxResults
	if maxResults == 0 {
		maxResults = 20
	}

	var all []Repository
	for _, language := range languages {
		perPage := maxResults
		if perPage > 30 {
			perPage = 30
		}
		repos, err := s.source.SearchRepositories(ctx, SearchQuery{
			Language: language,
			MinStars: minStars,
			PerPage:  perPage,
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("language", language).Msg("repository search failed")
			continue
		}
		s.logger.Debug().Str("language", language).Int("found", len(repos)).Msg("search complete")
		all = append(all, repos...)

		for _, topic := range opts.Topics {
			topicRepos, err := s.source.SearchRepositories(ctx, SearchQuery{
				Language: language,
				Topic:    topic,
				MinStars: minStars,
				PerPage:  10,
			})
			if err != nil {
				s.logger.Warn().Err(err).
					Str("language", language).
					Str("topic", topic).
					Msg("topic search failed")
				continue
			}
			all = append(all, topicRepos...)
		}
	}

	if len(all) == 0 {
		if s.metrics != nil {
			s.metrics.DiscoveryRunsTotal.WithLabelValues("empty").Inc()
		}
		return nil, fmt.Errorf("no repositories found for languages %v", languages)
	}

	unique := dedupe(all)
	scorer := &Scorer{profile: profile, now: timeNow}
	filtered := scorer.Filter(unique)
	if len(filtered) > maxResults {
		filtered = filtered[:maxResults]
	}
	ranked := scorer.Rank(filtered)

	if s.metrics != nil {
		s.metrics.DiscoveryRunsTotal.WithLabelValues("ok").Inc()
		s.metrics.RepositoriesScored.Add(float64(len(ranked)))
	}

	s.logger.Info().
		Int("searched", len(all)).
		Int("unique", len(unique)).
		Int("ranked", len(ranked)).
		Msg("discovery complete")
	return ranked, nil
}

// dedupe keeps the first occurrence of each full name, preserving discovery
// order so the scorer's stable tie-break stays meaningful.
func dedupe(repos []Repository) []Repository {
	seen := make(map[string]bool, len(repos))
	unique := make([]Repository, 0, len(repos))
	for _, repo := range repos {
		if seen[repo.FullName] {
			continue
		}
		seen[repo.FullName] = true
		unique = append(unique, repo)
	}
	return unique
}
