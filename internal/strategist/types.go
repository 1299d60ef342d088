// Package strategist turns a repository analysis into a prioritized
// contribution plan with timelines and risk assessment.
package strategist

import (
	"github.com/p-blackswan/contrib-agent/internal/analyzer"
)

// RankedOpportunity is an opportunity annotated with its plan priority score.
type RankedOpportunity struct {
	analyzer.Opportunity
	PriorityScore float64 `json:"priority_score"`
}

// AnalysisSummary condenses the analyzer output for strategy consumers.
type AnalysisSummary struct {
	HealthScore             int    `json:"health_score"`
	TotalOpportunities      int    `json:"total_opportunities"`
	PrimaryLanguage         string `json:"primary_language"`
	GoodFirstIssues         int    `json:"good_first_issues"`
	DocumentationGaps       int    `json:"documentation_gaps"`
	ContributorFriendliness string `json:"contributor_friendliness"`
}

// PlanStep is one entry in the ordered contribution plan.
type PlanStep struct {
	Step                int               `json:"step"`
	Opportunity         RankedOpportunity `json:"opportunity"`
	EstimatedTimeline   string            `json:"estimated_timeline"`
	Prerequisites       []string          `json:"prerequisites"`
	SuccessMetrics      []string          `json:"success_metrics"`
	PotentialChallenges []string          `json:"potential_challenges"`
}

// RiskAssessment flags repository-level contribution risks.
type RiskAssessment struct {
	LowMaintainerActivity bool   `json:"low_maintainer_activity"`
	ComplexCodebase       bool   `json:"complex_codebase"`
	StrictReviewProcess   bool   `json:"strict_review_process"`
	DocumentationGaps     bool   `json:"documentation_gaps"`
	RiskLevel             string `json:"risk_level"`
}

// Strategy is the full output for one repository.
type Strategy struct {
	Repository               string              `json:"repository"`
	Summary                  AnalysisSummary     `json:"analysis_summary"`
	PrioritizedOpportunities []RankedOpportunity `json:"prioritized_opportunities"`
	Plan                     []PlanStep          `json:"contribution_plan"`
	Risks                    RiskAssessment      `json:"risk_assessment"`
	SuccessProbability       float64             `json:"success_probability"`
	Recommendations          []string            `json:"recommendations"`

	// Insights is optional LLM-generated strategy commentary.
	Insights string `json:"insights,omitempty"`
}
