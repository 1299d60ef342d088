package analyzer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/p-blackswan/contrib-agent/internal/metrics"
	"github.com/p-blackswan/contrib-agent/internal/preferences"
	"github.com/p-blackswan/contrib-agent/internal/scout"
)

// RepositoryInspector fetches the repository details the analyzer reads.
// Implemented by the GitHub client; tests substitute a fake.
type RepositoryInspector interface {
	GetReadme(ctx context.Context, owner, repo string) (string, error)
	ListIssues(ctx context.Context, owner, repo string, perPage int) ([]Issue, error)
	GoodFirstIssues(ctx context.Context, owner, repo string) ([]Issue, error)
	ListLanguages(ctx context.Context, owner, repo string) (map[string]int, error)
	ListContributors(ctx context.Context, owner, repo string) ([]string, error)
}

// ReadmeReviewer produces free-form improvement suggestions for a README.
// Optional; backed by the LLM client when one is configured.
type ReadmeReviewer interface {
	ReviewReadme(ctx context.Context, readme string) (string, error)
}

const issuesPerAnalysis = 50

// Analyzer runs the full per-repository analysis pipeline.
type Analyzer struct {
	inspector RepositoryInspector
	scorer    *Scorer
	reviewer  ReadmeReviewer
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// New creates an Analyzer. reviewer and m may be nil.
func New(inspector RepositoryInspector, prefs *preferences.Store, reviewer ReadmeReviewer, m *metrics.Metrics, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		inspector: inspector,
		scorer:    NewScorer(prefs),
		reviewer:  reviewer,
		logger:    logger.With().Str("component", "analyzer").Logger(),
		metrics:   m,
	}
}

// Analyze inspects one repository and returns its analysis with scored,
// preference-filtered opportunities. Individual fetch failures degrade the
// corresponding section to empty rather than failing the whole analysis.
func (a *Analyzer) Analyze(ctx context.Context, repo scout.Repository) (*Analysis, error) {
	owner, name := repo.Owner(), repo.Name()
	log := a.logger.With().Str("repository", repo.FullName).Logger()
	log.Info().Msg("analyzing repository")

	analysis := &Analysis{Repository: repo}

	readme, err := a.inspector.GetReadme(ctx, owner, name)
	if err != nil {
		log.Warn().Err(err).Msg("readme fetch failed")
		readme = ""
	}
	analysis.Readme = analyzeReadme(readme)
	a.reviewReadme(ctx, readme, &analysis.Readme, log)

	analysis.Issues = a.analyzeIssues(ctx, owner, name, log)
	analysis.CodeStructure = a.analyzeCodeStructure(ctx, owner, name, log)

	analysis.Opportunities = a.scorer.ScoreAndFilter(identifyOpportunities(analysis))
	analysis.HealthScore = healthScore(analysis)

	if a.metrics != nil {
		for _, opp := range analysis.Opportunities {
			a.metrics.OpportunitiesTotal.WithLabelValues(string(opp.Type), "included").Inc()
		}
	}
	log.Info().
		Int("opportunities", len(analysis.Opportunities)).
		Int("health_score", analysis.HealthScore).
		Msg("analysis complete")
	return analysis, nil
}

func (a *Analyzer) analyzeIssues(ctx context.Context, owner, name string, log zerolog.Logger) IssuesAnalysis {
	goodFirst, err := a.inspector.GoodFirstIssues(ctx, owner, name)
	if err != nil {
		log.Warn().Err(err).Msg("good-first-issue fetch failed")
		goodFirst = nil
	}
	allIssues, err := a.inspector.ListIssues(ctx, owner, name, issuesPerAnalysis)
	if err != nil {
		log.Warn().Err(err).Msg("issue fetch failed")
		return IssuesAnalysis{GoodFirstIssues: len(goodFirst), Categories: map[string]int{}}
	}
	return buildIssuesAnalysis(allIssues, goodFirst)
}

func (a *Analyzer) analyzeCodeStructure(ctx context.Context, owner, name string, log zerolog.Logger) CodeStructure {
	result := CodeStructure{Languages: map[string]int{}}

	languages, err := a.inspector.ListLanguages(ctx, owner, name)
	if err != nil {
		log.Warn().Err(err).Msg("language fetch failed")
	} else {
		result.Languages = languages
		result.PrimaryLanguage = primaryLanguage(languages)
	}

	contributors, err := a.inspector.ListContributors(ctx, owner, name)
	if err != nil {
		log.Warn().Err(err).Msg("contributor fetch failed")
	} else {
		result.ContributorCount = len(contributors)
	}

	if len(result.Languages) == 1 {
		result.Opportunities = append(result.Opportunities, "Single language project - easy to contribute")
	}
	if result.ContributorCount > 0 && result.ContributorCount < 5 {
		result.Opportunities = append(result.Opportunities, "Small contributor base - good opportunity for impact")
	}
	return result
}

func (a *Analyzer) reviewReadme(ctx context.Context, readme string, analysis *ReadmeAnalysis, log zerolog.Logger) {
	if a.reviewer == nil || readme == "" {
		return
	}
	suggestions, err := a.reviewer.ReviewReadme(ctx, readme)
	if err != nil {
		log.Debug().Err(err).Msg("readme review unavailable")
		return
	}
	analysis.Suggestions = suggestions
}

// healthScore grades overall repository health on a 0-100 scale.
func healthScore(a *Analysis) int {
	score := 50

	readmeBonus := a.Readme.QualityScore
	if readmeBonus > 20 {
		readmeBonus = 20
	}
	score += readmeBonus

	if a.Issues.GoodFirstIssues > 0 {
		score += 15
	}
	if a.Issues.TotalIssues > 0 {
		score += 10
	}
	if a.CodeStructure.ContributorCount > 1 {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// primaryLanguage picks the language with the most bytes. Ties resolve to the
// lexicographically smaller name so the result is stable.
func primaryLanguage(languages map[string]int) string {
	primary := ""
	max := -1
	for lang, bytes := range languages {
		if bytes > max || (bytes == max && lang < primary) {
			primary = lang
			max = bytes
		}
	}
	return primary
}
