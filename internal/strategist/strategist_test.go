package strategist

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-blackswan/contrib-agent/internal/analyzer"
	"github.com/p-blackswan/contrib-agent/internal/preferences"
	"github.com/p-blackswan/contrib-agent/internal/scout"
)

func newTestStore(t *testing.T) *preferences.Store {
	t.Helper()
	return preferences.NewStore(filepath.Join(t.TempDir(), "prefs.json"), zerolog.Nop())
}

func sampleAnalysis() *analyzer.Analysis {
	return &analyzer.Analysis{
		Repository: scout.Repository{
			FullName:        "acme/widget",
			Language:        "Go",
			StargazersCount: 150,
		},
		HealthScore: 75,
		Readme: analyzer.ReadmeAnalysis{
			Exists:          true,
			QualityScore:    80,
			MissingSections: []string{"testing"},
		},
		Issues: analyzer.IssuesAnalysis{
			TotalIssues:     20,
			GoodFirstIssues: 3,
			Categories:      map[string]int{"bug": 5},
		},
		CodeStructure: analyzer.CodeStructure{
			PrimaryLanguage:  "Go",
			ContributorCount: 4,
			Languages:        map[string]int{"Go": 100000},
		},
		Opportunities: []analyzer.Opportunity{
			{
				Type:     preferences.TypeDocumentation,
				Title:    "Add testing section",
				Priority: analyzer.LevelMedium,
				Effort:   analyzer.LevelLow,
				Impact:   analyzer.LevelMedium,
			},
			{
				Type:     preferences.TypeBugFixes,
				Title:    "Fix bug #123",
				Priority: analyzer.LevelHigh,
				Effort:   analyzer.LevelMedium,
				Impact:   analyzer.LevelHigh,
				IssueURL: "https://github.com/acme/widget/issues/123",
			},
		},
	}
}

func TestPriorityScore(t *testing.T) {
	profile := preferences.DefaultProfile()

	// bug_fixes (weight 0.8 ≥ 0.7 → preferred +2):
	// impact high 3*2=6, effort medium 2, preferred 2, priority high 3 → 13.
	bug := analyzer.Opportunity{
		Type:     preferences.TypeBugFixes,
		Priority: analyzer.LevelHigh,
		Effort:   analyzer.LevelMedium,
		Impact:   analyzer.LevelHigh,
	}
	assert.Equal(t, 13.0, priorityScore(bug, profile))

	// documentation (weight 0.2 → no bonus):
	// impact medium 2*2=4, effort low 3, priority medium 2 → 9.
	doc := analyzer.Opportunity{
		Type:     preferences.TypeDocumentation,
		Priority: analyzer.LevelMedium,
		Effort:   analyzer.LevelLow,
		Impact:   analyzer.LevelMedium,
	}
	assert.Equal(t, 9.0, priorityScore(doc, profile))
}

func TestPriorityScore_SkillBonuses(t *testing.T) {
	lowEffort := analyzer.Opportunity{Type: preferences.TypeDocumentation, Effort: analyzer.LevelLow, Impact: analyzer.LevelMedium, Priority: analyzer.LevelMedium}
	highImpact := analyzer.Opportunity{Type: preferences.TypeDocumentation, Effort: analyzer.LevelMedium, Impact: analyzer.LevelHigh, Priority: analyzer.LevelMedium}

	base := preferences.DefaultProfile()

	beginner := preferences.DefaultProfile()
	beginner.SkillLevel = preferences.SkillBeginner
	assert.Equal(t, priorityScore(lowEffort, base)+1, priorityScore(lowEffort, beginner))
	assert.Equal(t, priorityScore(highImpact, base), priorityScore(highImpact, beginner))

	advanced := preferences.DefaultProfile()
	advanced.SkillLevel = preferences.SkillAdvanced
	assert.Equal(t, priorityScore(highImpact, base)+1, priorityScore(highImpact, advanced))
	assert.Equal(t, priorityScore(lowEffort, base), priorityScore(lowEffort, advanced))
}

func TestCreateStrategy(t *testing.T) {
	s := New(newTestStore(t), nil, zerolog.Nop())
	strategy := s.CreateStrategy(context.Background(), sampleAnalysis())

	assert.Equal(t, "acme/widget", strategy.Repository)
	assert.Equal(t, 75, strategy.Summary.HealthScore)
	assert.Equal(t, 2, strategy.Summary.TotalOpportunities)
	assert.Equal(t, 3, strategy.Summary.GoodFirstIssues)
	assert.Equal(t, 1, strategy.Summary.DocumentationGaps)

	// Bug fix outranks the documentation opportunity.
	require.Len(t, strategy.PrioritizedOpportunities, 2)
	assert.Equal(t, "Fix bug #123", strategy.PrioritizedOpportunities[0].Title)

	// Medium available time plans up to 4 steps; only 2 opportunities exist.
	require.Len(t, strategy.Plan, 2)
	assert.Equal(t, 1, strategy.Plan[0].Step)
	assert.Equal(t, 2, strategy.Plan[1].Step)

	// Issue-backed step carries issue prerequisites; every step picks up two
	// general challenges.
	assert.Contains(t, strategy.Plan[0].Prerequisites, "Reproduce the issue locally")
	assert.Contains(t, strategy.Plan[0].SuccessMetrics, "Pull request is merged")
	assert.GreaterOrEqual(t, len(strategy.Plan[0].PotentialChallenges), 2)

	assert.NotEmpty(t, strategy.Recommendations)
	assert.Empty(t, strategy.Insights)
}

func TestContributorFriendliness(t *testing.T) {
	a := sampleAnalysis()
	// exists 2 + quality>70 2 + gfi>0 3 + stars>100 1 = 8.
	assert.Equal(t, "Very Friendly", contributorFriendliness(a))

	a.Issues.GoodFirstIssues = 0
	// 2 + 2 + 1 = 5.
	assert.Equal(t, "Moderately Friendly", contributorFriendliness(a))

	a.Readme = analyzer.ReadmeAnalysis{}
	a.Repository.StargazersCount = 10
	assert.Equal(t, "Not Very Friendly", contributorFriendliness(a))
}

func TestEstimateTimeline(t *testing.T) {
	tests := []struct {
		effort analyzer.Level
		skill  preferences.SkillLevel
		time   preferences.AvailableTime
		want   string
	}{
		{analyzer.LevelLow, preferences.SkillIntermediate, preferences.TimeMedium, "1-3 days"},  // 2 days
		{analyzer.LevelMedium, preferences.SkillIntermediate, preferences.TimeMedium, "3-7 days"}, // 5
		{analyzer.LevelHigh, preferences.SkillIntermediate, preferences.TimeMedium, "1-2 weeks"},  // 10
		{analyzer.LevelHigh, preferences.SkillBeginner, preferences.TimeLow, "2+ weeks"},          // 30
		{analyzer.LevelVaries, preferences.SkillAdvanced, preferences.TimeHigh, "1-3 days"},       // 7*0.7*0.6=2.94
		{analyzer.LevelMedium, preferences.SkillBeginner, preferences.TimeMedium, "1-2 weeks"},    // 7.5
	}
	for _, tc := range tests {
		profile := preferences.DefaultProfile()
		profile.SkillLevel = tc.skill
		profile.AvailableTime = tc.time
		got := estimateTimeline(analyzer.Opportunity{Effort: tc.effort}, profile)
		assert.Equal(t, tc.want, got, "effort=%s skill=%s time=%s", tc.effort, tc.skill, tc.time)
	}
}

func TestAssessRisks(t *testing.T) {
	a := sampleAnalysis()
	risks := assessRisks(a)
	assert.Equal(t, "Low", risks.RiskLevel)
	assert.False(t, risks.StrictReviewProcess)

	a.Repository.StargazersCount = 20000
	a.Readme.MissingSections = []string{"a", "b", "c", "d"}
	risks = assessRisks(a)
	assert.True(t, risks.StrictReviewProcess)
	assert.True(t, risks.DocumentationGaps)
	assert.Equal(t, "Medium", risks.RiskLevel)

	a.CodeStructure.ContributorCount = 1
	risks = assessRisks(a)
	assert.True(t, risks.LowMaintainerActivity)
	assert.Equal(t, "High", risks.RiskLevel)
}

func TestSuccessProbability(t *testing.T) {
	profile := preferences.DefaultProfile()

	a := sampleAnalysis()
	// 0.6 + 0.2 (gfi) + 0.15 (health>70) + 0.1 (Go in languages) = 1.05 → 0.95.
	assert.InDelta(t, 0.95, successProbability(a, profile), 1e-9)

	a.Issues.GoodFirstIssues = 0
	a.HealthScore = 50
	a.Repository.Language = "COBOL"
	assert.InDelta(t, 0.6, successProbability(a, profile), 1e-9)

	a.Repository.StargazersCount = 60000
	a.Readme.MissingSections = []string{"a", "b", "c", "d", "e"}
	assert.InDelta(t, 0.45, successProbability(a, profile), 1e-9)
}

func TestPlanSize_FollowsAvailableTime(t *testing.T) {
	store := newTestStore(t)
	store.Profile().AvailableTime = preferences.TimeLow

	a := sampleAnalysis()
	// Pad with extra opportunities so the cap is the limiting factor.
	for i := 0; i < 6; i++ {
		a.Opportunities = append(a.Opportunities, analyzer.Opportunity{
			Type:  preferences.TypeTesting,
			Title: "Add tests",
		})
	}

	s := New(store, nil, zerolog.Nop())
	strategy := s.CreateStrategy(context.Background(), a)
	assert.Len(t, strategy.Plan, 2)
}

type fakeEnhancer struct {
	insights string
	err      error
	prompt   string
}

func (f *fakeEnhancer) EnhanceStrategy(_ context.Context, summary string) (string, error) {
	f.prompt = summary
	return f.insights, f.err
}

func TestCreateStrategy_EnhancerAttached(t *testing.T) {
	enhancer := &fakeEnhancer{insights: "Open a discussion issue first."}
	s := New(newTestStore(t), enhancer, zerolog.Nop())

	strategy := s.CreateStrategy(context.Background(), sampleAnalysis())
	assert.Equal(t, "Open a discussion issue first.", strategy.Insights)
	assert.Contains(t, enhancer.prompt, "acme/widget")
}

func TestCreateStrategy_EnhancerFailureIgnored(t *testing.T) {
	enhancer := &fakeEnhancer{err: errors.New("llm down")}
	s := New(newTestStore(t), enhancer, zerolog.Nop())

	strategy := s.CreateStrategy(context.Background(), sampleAnalysis())
	assert.Empty(t, strategy.Insights)
}
