// Package analyzer inspects repositories for contribution opportunities and
// scores them against the user's preference profile.
package analyzer

import (
	"github.com/p-blackswan/contrib-agent/internal/preferences"
	"github.com/p-blackswan/contrib-agent/internal/scout"
)

// Level grades priority, effort, impact and complexity of an opportunity.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"

	// LevelVaries is valid only for effort, for issue-driven work whose
	// scope is unknown until the issue is read.
	LevelVaries Level = "varies"
)

// Opportunity is a candidate unit of contribution work derived from a
// repository analysis. It is never persisted on its own; it lives inside the
// Analysis that produced it. UserPreferenceScore is filled in by the Scorer.
type Opportunity struct {
	Type                preferences.ContributionType `json:"type"`
	Title               string                       `json:"title"`
	Description         string                       `json:"description"`
	Priority            Level                        `json:"priority"`
	Effort              Level                        `json:"effort"`
	Impact              Level                        `json:"impact"`
	TechnicalComplexity Level                        `json:"technical_complexity"`
	IssueURL            string                       `json:"issue_url,omitempty"`

	UserPreferenceScore float64 `json:"user_preference_score,omitempty"`
}

// Issue is the slice of a GitHub issue the analyzer cares about.
type Issue struct {
	Number  int      `json:"number"`
	Title   string   `json:"title"`
	Labels  []string `json:"labels"`
	HTMLURL string   `json:"html_url,omitempty"`
}

// ReadmeAnalysis reports README presence, rough quality and section gaps.
type ReadmeAnalysis struct {
	Exists          bool     `json:"exists"`
	Length          int      `json:"length"`
	QualityScore    int      `json:"quality_score"`
	MissingSections []string `json:"missing_sections"`
	Opportunities   []string `json:"opportunities"`

	// Suggestions is optional LLM-generated review text.
	Suggestions string `json:"suggestions,omitempty"`
}

// IssuesAnalysis summarizes the open-issue landscape.
type IssuesAnalysis struct {
	TotalIssues     int            `json:"total_issues"`
	GoodFirstIssues int            `json:"good_first_issues"`
	Categories      map[string]int `json:"issue_categories"`
	TopIssues       []Issue        `json:"top_issues"`
	Opportunities   []string       `json:"opportunities"`
}

// CodeStructure summarizes languages and contributor spread.
type CodeStructure struct {
	Languages        map[string]int `json:"languages"`
	PrimaryLanguage  string         `json:"primary_language"`
	ContributorCount int            `json:"contributor_count"`
	Opportunities    []string       `json:"opportunities"`
}

// Analysis is the full result for one repository.
type Analysis struct {
	Repository    scout.Repository `json:"repository"`
	Readme        ReadmeAnalysis   `json:"readme_analysis"`
	Issues        IssuesAnalysis   `json:"issues_analysis"`
	CodeStructure CodeStructure    `json:"code_structure"`
	Opportunities []Opportunity    `json:"contribution_opportunities"`
	HealthScore   int              `json:"health_score"`
}
