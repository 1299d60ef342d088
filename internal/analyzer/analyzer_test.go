package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-blackswan/contrib-agent/internal/preferences"
	"github.com/p-blackswan/contrib-agent/internal/scout"
)

type fakeInspector struct {
	readme       string
	readmeErr    error
	issues       []Issue
	issuesErr    error
	goodFirst    []Issue
	languages    map[string]int
	contributors []string
}

func (f *fakeInspector) GetReadme(context.Context, string, string) (string, error) {
	return f.readme, f.readmeErr
}

func (f *fakeInspector) ListIssues(context.Context, string, string, int) ([]Issue, error) {
	return f.issues, f.issuesErr
}

func (f *fakeInspector) GoodFirstIssues(context.Context, string, string) ([]Issue, error) {
	return f.goodFirst, nil
}

func (f *fakeInspector) ListLanguages(context.Context, string, string) (map[string]int, error) {
	return f.languages, nil
}

func (f *fakeInspector) ListContributors(context.Context, string, string) ([]string, error) {
	return f.contributors, nil
}

type fakeReviewer struct {
	suggestions string
	err         error
}

func (f *fakeReviewer) ReviewReadme(context.Context, string) (string, error) {
	return f.suggestions, f.err
}

func fullReadme() string {
	return strings.Repeat("x", 600) +
		" install usage contributing license documentation testing"
}

func TestAnalyze_HappyPath(t *testing.T) {
	inspector := &fakeInspector{
		readme: fullReadme(),
		issues: []Issue{
			{Number: 10, Title: "Fix crash in parser", Labels: []string{"bug"}},
			{Number: 11, Title: "Add streaming feature", Labels: []string{"enhancement"}},
		},
		goodFirst:    []Issue{{Number: 10, Title: "Fix crash in parser", HTMLURL: "https://github.com/a/b/issues/10"}},
		languages:    map[string]int{"Go": 120000, "Makefile": 500},
		contributors: []string{"alice", "bob", "carol"},
	}

	a := New(inspector, newTestStore(t), nil, nil, zerolog.Nop())
	analysis, err := a.Analyze(context.Background(), scout.Repository{
		FullName:        "acme/widget",
		Description:     "An API for widgets",
		StargazersCount: 2000,
	})
	require.NoError(t, err)

	assert.True(t, analysis.Readme.Exists)
	assert.Equal(t, 50, analysis.Readme.QualityScore)
	assert.Equal(t, "Go", analysis.CodeStructure.PrimaryLanguage)
	assert.Equal(t, 3, analysis.CodeStructure.ContributorCount)

	// 50 base + 20 readme + 15 good-first + 10 issues + 5 contributors = 100.
	assert.Equal(t, 100, analysis.HealthScore)

	require.NotEmpty(t, analysis.Opportunities)
	types := make(map[preferences.ContributionType]bool)
	for _, opp := range analysis.Opportunities {
		types[opp.Type] = true
		assert.GreaterOrEqual(t, opp.UserPreferenceScore, 0.30)
	}
	// feature requests, api in description, good-first issue, bug count,
	// refactoring (3 contributors), architecture (>1000 stars), ci_cd (>100).
	assert.True(t, types[preferences.TypeCodeFeatures])
	assert.True(t, types[preferences.TypeAPIDesign])
	assert.True(t, types[preferences.TypeBugFixes])
	assert.True(t, types[preferences.TypeRefactoring])
	assert.True(t, types[preferences.TypeArchitecture])
	assert.True(t, types[preferences.TypeCICD])

	// Output is sorted by preference score.
	for i := 1; i < len(analysis.Opportunities); i++ {
		assert.GreaterOrEqual(t,
			analysis.Opportunities[i-1].UserPreferenceScore,
			analysis.Opportunities[i].UserPreferenceScore)
	}
}

func TestAnalyze_DegradesOnFetchFailures(t *testing.T) {
	inspector := &fakeInspector{
		readmeErr: errors.New("boom"),
		issuesErr: errors.New("boom"),
	}

	a := New(inspector, newTestStore(t), nil, nil, zerolog.Nop())
	analysis, err := a.Analyze(context.Background(), scout.Repository{FullName: "acme/empty"})
	require.NoError(t, err)

	assert.False(t, analysis.Readme.Exists)
	assert.Zero(t, analysis.Issues.TotalIssues)

	// 50 base + min(0,20) readme + 0 issues + 0 contributors = 50.
	assert.Equal(t, 50, analysis.HealthScore)

	// Missing README still produces a documentation opportunity.
	var hasDocOpp bool
	for _, opp := range analysis.Opportunities {
		if opp.Type == preferences.TypeDocumentation && opp.Title == "Create README file" {
			hasDocOpp = true
		}
	}
	assert.True(t, hasDocOpp)
}

func TestAnalyze_ReviewerSuggestionsAttached(t *testing.T) {
	inspector := &fakeInspector{readme: fullReadme()}
	reviewer := &fakeReviewer{suggestions: "Add a quickstart section."}

	a := New(inspector, newTestStore(t), reviewer, nil, zerolog.Nop())
	analysis, err := a.Analyze(context.Background(), scout.Repository{FullName: "acme/widget"})
	require.NoError(t, err)
	assert.Equal(t, "Add a quickstart section.", analysis.Readme.Suggestions)
}

func TestAnalyze_ReviewerFailureIgnored(t *testing.T) {
	inspector := &fakeInspector{readme: fullReadme()}
	reviewer := &fakeReviewer{err: errors.New("llm down")}

	a := New(inspector, newTestStore(t), reviewer, nil, zerolog.Nop())
	analysis, err := a.Analyze(context.Background(), scout.Repository{FullName: "acme/widget"})
	require.NoError(t, err)
	assert.Empty(t, analysis.Readme.Suggestions)
}

func TestHealthScore_Caps(t *testing.T) {
	a := &Analysis{
		Readme:        ReadmeAnalysis{QualityScore: 90},
		Issues:        IssuesAnalysis{TotalIssues: 5, GoodFirstIssues: 2},
		CodeStructure: CodeStructure{ContributorCount: 10},
	}
	assert.Equal(t, 100, healthScore(a))

	// Deeply negative readme quality drags the score down but not below zero.
	a.Readme.QualityScore = -200
	a.Issues = IssuesAnalysis{}
	a.CodeStructure = CodeStructure{}
	assert.Equal(t, 0, healthScore(a))
}

func TestPrimaryLanguage(t *testing.T) {
	assert.Equal(t, "Go", primaryLanguage(map[string]int{"Go": 100, "Shell": 10}))
	assert.Equal(t, "", primaryLanguage(nil))
	// Tie resolves to the lexicographically smaller name.
	assert.Equal(t, "A", primaryLanguage(map[string]int{"B": 5, "A": 5}))
}
