// Package feedback simulates maintainer responses to submitted contributions:
// a closed probabilistic model of the review lifecycle, with no network
// interaction. It exists to exercise the preference-learning loop.
package feedback

import (
	"time"

	"github.com/p-blackswan/contrib-agent/internal/analyzer"
)

// Status is the review state of a submission.
type Status string

const (
	StatusSubmitted        Status = "submitted"
	StatusUnderReview      Status = "under_review"
	StatusApproved         Status = "approved"
	StatusChangesRequested Status = "changes_requested"
	StatusMerged           Status = "merged"
	StatusStale            Status = "stale"
	StatusClosed           Status = "closed"
	StatusNeedsRebase      Status = "needs_rebase"
)

// Terminal reports whether no further transitions can occur.
func (s Status) Terminal() bool {
	switch s {
	case StatusMerged, StatusStale, StatusClosed, StatusNeedsRebase, StatusChangesRequested:
		return true
	}
	return false
}

// Scenario is the initial-reception bucket drawn at submission time.
type Scenario string

const (
	ScenarioPositiveReception Scenario = "positive_reception"
	ScenarioNeedsChanges      Scenario = "needs_changes"
	ScenarioNeutralPending    Scenario = "neutral_pending"
	ScenarioImmediateMerge    Scenario = "immediate_merge"
)

// Sentiment is the simulated maintainer disposition, set by the scenario.
type Sentiment string

const (
	SentimentPositive     Sentiment = "positive"
	SentimentConstructive Sentiment = "constructive"
	SentimentNeutral      Sentiment = "neutral"
	SentimentEnthusiastic Sentiment = "enthusiastic"
)

// CheckStatus is the result of one CI check, or of the run overall.
type CheckStatus string

const (
	CheckPassed  CheckStatus = "passed"
	CheckFailed  CheckStatus = "failed"
	CheckWarning CheckStatus = "warning"
	CheckSkipped CheckStatus = "skipped"
	CheckRunning CheckStatus = "running"
)

// CIResult is one simulated pipeline run.
type CIResult struct {
	Checks        map[string]CheckStatus `json:"checks"`
	OverallStatus CheckStatus            `json:"overall_status"`
	Details       []string               `json:"details"`
}

// Review is one simulated reviewer comment.
type Review struct {
	Reviewer  string    `json:"reviewer"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

// Contribution is the unit of work being submitted for review.
type Contribution struct {
	Repository  string               `json:"repository"`
	Title       string               `json:"title"`
	Opportunity analyzer.Opportunity `json:"opportunity"`
}

// Submission tracks one contribution through the simulated review process.
type Submission struct {
	ID           string    `json:"contribution_id"`
	Repository   string    `json:"repository"`
	Title        string    `json:"title"`
	Status       Status    `json:"status"`
	SubmittedAt  time.Time `json:"submitted_at"`
	QualityScore float64   `json:"quality_score"`

	Scenario            Scenario    `json:"scenario"`
	Sentiment           Sentiment   `json:"maintainer_sentiment"`
	InitialChecks       CheckStatus `json:"automated_checks"`
	InitialComments     []string    `json:"initial_comments"`
	EstimatedReviewTime string      `json:"estimated_review_time"`

	CIStatus         CIResult   `json:"ci_status"`
	Reviews          []Review   `json:"reviews"`
	MergeStatus      string     `json:"merge_status"`
	MergedAt         *time.Time `json:"merged_at,omitempty"`
	RequestedChanges []string   `json:"requested_changes,omitempty"`
}

// StatusChange records a from/to transition observed on one day.
type StatusChange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DayChanges summarizes what happened on one simulated day.
type DayChanges struct {
	StatusChange      *StatusChange `json:"status_change,omitempty"`
	NewReviews        []Review      `json:"new_reviews,omitempty"`
	MergeStatusChange *StatusChange `json:"merge_status_change,omitempty"`
}

// DayRecord is one entry in the day-indexed lifecycle list. Day 0 is the
// submission itself.
type DayRecord struct {
	Day     int        `json:"day"`
	Status  Status     `json:"status"`
	Changes DayChanges `json:"updates"`
}

// Outcome describes the terminal disposition of a lifecycle.
type Outcome struct {
	Status      string `json:"status"`
	Success     bool   `json:"success"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// SuccessMetrics are derived from a completed lifecycle.
type SuccessMetrics struct {
	DaysToResolution     int  `json:"days_to_resolution"`
	ReviewRounds         int  `json:"review_rounds"`
	CIPassed             bool `json:"ci_passed"`
	FinalSuccess         bool `json:"final_success"`
	MaintainerEngagement bool `json:"maintainer_engagement"`
}

// LifecycleResult is the complete output of one simulated lifecycle.
type LifecycleResult struct {
	SubmissionID     string         `json:"contribution_id"`
	Repository       string         `json:"repository"`
	OpportunityTitle string         `json:"opportunity_title"`
	Lifecycle        []DayRecord    `json:"lifecycle"`
	FinalOutcome     Outcome        `json:"final_outcome"`
	LessonsLearned   []string       `json:"lessons_learned"`
	Metrics          SuccessMetrics `json:"success_metrics"`
}
