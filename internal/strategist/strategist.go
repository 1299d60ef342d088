package strategist

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/p-blackswan/contrib-agent/internal/analyzer"
	"github.com/p-blackswan/contrib-agent/internal/preferences"
)

// StrategyEnhancer produces free-form commentary on a drafted strategy.
// Optional; backed by the LLM client when one is configured.
type StrategyEnhancer interface {
	EnhanceStrategy(ctx context.Context, summary string) (string, error)
}

// preferredWeightThreshold marks a contribution type as one the user actively
// prefers, earning a priority bonus during planning.
const preferredWeightThreshold = 0.7

// Plan sizes per available-time setting.
var planSizes = map[preferences.AvailableTime]int{
	preferences.TimeLow:    2,
	preferences.TimeMedium: 4,
	preferences.TimeHigh:   6,
}

// Strategist builds contribution strategies from analyses.
type Strategist struct {
	prefs    *preferences.Store
	enhancer StrategyEnhancer
	logger   zerolog.Logger
	rng      *rand.Rand
}

// New creates a Strategist. enhancer may be nil.
func New(prefs *preferences.Store, enhancer StrategyEnhancer, logger zerolog.Logger) *Strategist {
	return &Strategist{
		prefs:    prefs,
		enhancer: enhancer,
		logger:   logger.With().Str("component", "strategist").Logger(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateStrategy drafts the full strategy for one analyzed repository.
func (s *Strategist) CreateStrategy(ctx context.Context, analysis *analyzer.Analysis) *Strategy {
	profile := s.prefs.Profile()
	log := s.logger.With().Str("repository", analysis.Repository.FullName).Logger()
	log.Info().Msg("planning contributions")

	strategy := &Strategy{
		Repository:               analysis.Repository.FullName,
		Summary:                  summarize(analysis),
		PrioritizedOpportunities: s.prioritize(analysis.Opportunities, profile),
		Risks:                    assessRisks(analysis),
		SuccessProbability:       successProbability(analysis, profile),
		Recommendations:          recommendations(analysis, profile),
	}
	strategy.Plan = s.buildPlan(strategy.PrioritizedOpportunities, profile)

	s.enhance(ctx, strategy, log)

	log.Info().
		Int("plan_steps", len(strategy.Plan)).
		Float64("success_probability", strategy.SuccessProbability).
		Str("risk_level", strategy.Risks.RiskLevel).
		Msg("strategy created")
	return strategy
}

func summarize(a *analyzer.Analysis) AnalysisSummary {
	return AnalysisSummary{
		HealthScore:             a.HealthScore,
		TotalOpportunities:      len(a.Opportunities),
		PrimaryLanguage:         a.CodeStructure.PrimaryLanguage,
		GoodFirstIssues:         a.Issues.GoodFirstIssues,
		DocumentationGaps:       len(a.Readme.MissingSections),
		ContributorFriendliness: contributorFriendliness(a),
	}
}

// contributorFriendliness grades how approachable the repository is for a
// first-time contributor.
func contributorFriendliness(a *analyzer.Analysis) string {
	score := 0
	if a.Readme.Exists {
		score += 2
	}
	if a.Readme.QualityScore > 70 {
		score += 2
	}
	if a.Issues.GoodFirstIssues > 0 {
		score += 3
	}
	if a.Issues.GoodFirstIssues > 5 {
		score += 2
	}
	if a.Repository.StargazersCount > 100 {
		score++
	}

	switch {
	case score >= 7:
		return "Very Friendly"
	case score >= 5:
		return "Moderately Friendly"
	case score >= 3:
		return "Somewhat Friendly"
	default:
		return "Not Very Friendly"
	}
}

// prioritize annotates opportunities with plan priority scores and sorts
// descending, preserving input order on ties.
func (s *Strategist) prioritize(opps []analyzer.Opportunity, profile *preferences.Profile) []RankedOpportunity {
	ranked := make([]RankedOpportunity, 0, len(opps))
	for _, opp := range opps {
		ranked = append(ranked, RankedOpportunity{
			Opportunity:   opp,
			PriorityScore: priorityScore(opp, profile),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PriorityScore > ranked[j].PriorityScore
	})
	return ranked
}

func priorityScore(opp analyzer.Opportunity, profile *preferences.Profile) float64 {
	score := 0.0

	impactPoints := map[analyzer.Level]float64{analyzer.LevelLow: 1, analyzer.LevelMedium: 2, analyzer.LevelHigh: 3}
	effortPoints := map[analyzer.Level]float64{analyzer.LevelLow: 3, analyzer.LevelMedium: 2, analyzer.LevelHigh: 1, analyzer.LevelVaries: 2}
	priorityPoints := map[analyzer.Level]float64{analyzer.LevelHigh: 3, analyzer.LevelMedium: 2, analyzer.LevelLow: 1}

	score += pointsOr(impactPoints, opp.Impact, 2) * 2
	score += pointsOr(effortPoints, opp.Effort, 2)

	if profile.ContributionWeights[opp.Type] >= preferredWeightThreshold {
		score += 2
	}

	score += pointsOr(priorityPoints, opp.Priority, 2)

	switch {
	case profile.SkillLevel == preferences.SkillBeginner && opp.Effort == analyzer.LevelLow:
		score++
	case profile.SkillLevel == preferences.SkillAdvanced && opp.Impact == analyzer.LevelHigh:
		score++
	}
	return score
}

func pointsOr(table map[analyzer.Level]float64, level analyzer.Level, fallback float64) float64 {
	if pts, ok := table[level]; ok {
		return pts
	}
	return fallback
}

// buildPlan takes the top opportunities, sized by available time, and fleshes
// each out with a timeline, prerequisites, metrics and challenges.
func (s *Strategist) buildPlan(ranked []RankedOpportunity, profile *preferences.Profile) []PlanStep {
	size, ok := planSizes[profile.AvailableTime]
	if !ok {
		size = planSizes[preferences.TimeMedium]
	}
	if len(ranked) < size {
		size = len(ranked)
	}

	plan := make([]PlanStep, 0, size)
	for i, opp := range ranked[:size] {
		plan = append(plan, PlanStep{
			Step:                i + 1,
			Opportunity:         opp,
			EstimatedTimeline:   estimateTimeline(opp.Opportunity, profile),
			Prerequisites:       prerequisites(opp.Opportunity),
			SuccessMetrics:      successMetrics(opp.Opportunity),
			PotentialChallenges: s.challenges(opp.Opportunity),
		})
	}
	return plan
}

// estimateTimeline buckets the expected calendar time for an opportunity,
// scaled by the user's skill and availability.
func estimateTimeline(opp analyzer.Opportunity, profile *preferences.Profile) string {
	baseDays := map[analyzer.Level]float64{
		analyzer.LevelLow:    2,
		analyzer.LevelMedium: 5,
		analyzer.LevelHigh:   10,
		analyzer.LevelVaries: 7,
	}
	skillMultipliers := map[preferences.SkillLevel]float64{
		preferences.SkillBeginner:     1.5,
		preferences.SkillIntermediate: 1.0,
		preferences.SkillAdvanced:     0.7,
	}
	timeMultipliers := map[preferences.AvailableTime]float64{
		preferences.TimeLow:    2.0,
		preferences.TimeMedium: 1.0,
		preferences.TimeHigh:   0.6,
	}

	days, ok := baseDays[opp.Effort]
	if !ok {
		days = 5
	}
	days *= multiplierOr(skillMultipliers[profile.SkillLevel]) * multiplierOr(timeMultipliers[profile.AvailableTime])

	switch {
	case days <= 3:
		return "1-3 days"
	case days <= 7:
		return "3-7 days"
	case days <= 14:
		return "1-2 weeks"
	default:
		return "2+ weeks"
	}
}

func multiplierOr(m float64) float64 {
	if m == 0 {
		return 1.0
	}
	return m
}

func prerequisites(opp analyzer.Opportunity) []string {
	switch {
	case opp.IssueURL != "":
		return []string{
			"Read issue description thoroughly",
			"Set up local development environment",
			"Reproduce the issue locally",
		}
	case opp.Type == preferences.TypeDocumentation:
		return []string{
			"Review existing documentation structure",
			"Understand the project's documentation style",
		}
	case opp.Type == preferences.TypeTesting:
		return []string{
			"Understand the testing framework used",
			"Review existing test structure",
		}
	}
	return nil
}

func successMetrics(opp analyzer.Opportunity) []string {
	switch {
	case opp.IssueURL != "":
		return []string{
			"Issue is resolved and closed",
			"Pull request is merged",
			"No regression introduced",
		}
	case opp.Type == preferences.TypeDocumentation:
		return []string{
			"Documentation is clear and comprehensive",
			"Community feedback is positive",
			"Reduces future questions about the topic",
		}
	case opp.Type == preferences.TypeTesting:
		return []string{
			"Code coverage increases",
			"Tests pass consistently",
			"Edge cases are covered",
		}
	}
	return nil
}

var generalChallenges = []string{
	"Understanding codebase conventions",
	"Getting maintainer approval",
	"Handling merge conflicts",
}

// challenges lists type-specific pitfalls plus two general ones picked at
// random, so repeated plans do not read identically.
func (s *Strategist) challenges(opp analyzer.Opportunity) []string {
	var challenges []string
	switch {
	case opp.IssueURL != "":
		challenges = []string{
			"Issue might be more complex than it appears",
			"Solution might require extensive changes",
			"Someone else might be working on it",
		}
	case opp.Type == preferences.TypeDocumentation:
		challenges = []string{
			"Ensuring accuracy of information",
			"Matching project's tone and style",
			"Keeping documentation up-to-date",
		}
	}

	picks := s.rng.Perm(len(generalChallenges))[:2]
	sort.Ints(picks)
	for _, i := range picks {
		challenges = append(challenges, generalChallenges[i])
	}
	return challenges
}

func assessRisks(a *analyzer.Analysis) RiskAssessment {
	risks := RiskAssessment{RiskLevel: "Low"}

	if a.Repository.StargazersCount > 10000 {
		risks.StrictReviewProcess = true
	}
	if len(a.Readme.MissingSections) > 3 {
		risks.DocumentationGaps = true
	}
	if a.CodeStructure.ContributorCount < 2 {
		risks.LowMaintainerActivity = true
	}
	if len(a.CodeStructure.Languages) > 3 {
		risks.ComplexCodebase = true
	}

	count := 0
	for _, flagged := range []bool{risks.StrictReviewProcess, risks.DocumentationGaps, risks.LowMaintainerActivity, risks.ComplexCodebase} {
		if flagged {
			count++
		}
	}
	switch {
	case count >= 3:
		risks.RiskLevel = "High"
	case count >= 2:
		risks.RiskLevel = "Medium"
	}
	return risks
}

// successProbability estimates the chance a contribution lands, in
// [0.10, 0.95].
func successProbability(a *analyzer.Analysis, profile *preferences.Profile) float64 {
	p := 0.6

	if a.Issues.GoodFirstIssues > 0 {
		p += 0.2
	}
	if a.HealthScore > 70 {
		p += 0.15
	}
	if languageMatches(a.Repository.Language, profile.Languages) {
		p += 0.1
	}

	if a.Repository.StargazersCount > 50000 {
		p -= 0.1
	}
	if len(a.Readme.MissingSections) > 4 {
		p -= 0.05
	}

	if p < 0.10 {
		p = 0.10
	}
	if p > 0.95 {
		p = 0.95
	}
	return p
}

func languageMatches(language string, known []string) bool {
	if language == "" {
		return false
	}
	for _, l := range known {
		if strings.EqualFold(language, l) {
			return true
		}
	}
	return false
}

func recommendations(a *analyzer.Analysis, profile *preferences.Profile) []string {
	var recs []string

	if a.Issues.GoodFirstIssues > 0 {
		recs = append(recs, "Start with 'good first issue' labeled issues for easier entry")
	}
	if len(a.Readme.MissingSections) > 2 {
		recs = append(recs, "Documentation contributions are likely to be well-received")
	}
	if a.CodeStructure.ContributorCount < 5 {
		recs = append(recs, "Small contributor base means more visibility for your contributions")
	}

	switch profile.SkillLevel {
	case preferences.SkillBeginner:
		recs = append(recs, "Focus on documentation and small bug fixes initially")
	case preferences.SkillAdvanced:
		recs = append(recs, "Consider tackling complex issues or architectural improvements")
	}

	return append(recs,
		"Engage with the community through issues before submitting PRs",
		"Follow the project's contribution guidelines carefully",
		"Start small and build reputation before taking on larger tasks",
	)
}

func (s *Strategist) enhance(ctx context.Context, strategy *Strategy, log zerolog.Logger) {
	if s.enhancer == nil {
		return
	}

	summary := fmt.Sprintf(
		"Repository: %s\nHealth Score: %d/100\nSuccess Probability: %.0f%%\nRisk Level: %s\nTop Opportunities:\n",
		strategy.Repository, strategy.Summary.HealthScore,
		strategy.SuccessProbability*100, strategy.Risks.RiskLevel,
	)
	for i, opp := range strategy.PrioritizedOpportunities {
		if i == 3 {
			break
		}
		summary += fmt.Sprintf("%d. %s (%s, %s priority)\n", i+1, opp.Title, opp.Type, opp.Priority)
	}

	insights, err := s.enhancer.EnhanceStrategy(ctx, summary)
	if err != nil {
		log.Debug().Err(err).Msg("strategy enhancement unavailable")
		return
	}
	strategy.Insights = insights
}
