// Package preferences owns the user preference profile: default contribution
// weights, feedback-driven learning, and the scoring queries used by the
// repository and opportunity scorers.
package preferences

import (
	"time"
)

// ContributionType is the closed set of contribution categories used as keys
// for preference weighting.
type ContributionType string

const (
	TypeCodeFeatures  ContributionType = "code_features"
	TypeBugFixes      ContributionType = "bug_fixes"
	TypePerformance   ContributionType = "performance"
	TypeTesting       ContributionType = "testing"
	TypeDocumentation ContributionType = "documentation"
	TypeCICD          ContributionType = "ci_cd"
	TypeRefactoring   ContributionType = "refactoring"
	TypeSecurity      ContributionType = "security"
	TypeAPIDesign     ContributionType = "api_design"
	TypeArchitecture  ContributionType = "architecture"
)

// AllTypes lists every known contribution type.
var AllTypes = []ContributionType{
	TypeCodeFeatures,
	TypeBugFixes,
	TypePerformance,
	TypeTesting,
	TypeDocumentation,
	TypeCICD,
	TypeRefactoring,
	TypeSecurity,
	TypeAPIDesign,
	TypeArchitecture,
}

// Valid reports whether t is one of the known contribution types.
func (t ContributionType) Valid() bool {
	_, ok := defaultWeights[t]
	return ok
}

// defaultWeights is the seed weight table for a fresh profile.
// Documentation is intentionally low; code, feature, and architecture
// work are high.
var defaultWeights = map[ContributionType]float64{
	TypeCodeFeatures:  0.9,
	TypeBugFixes:      0.8,
	TypePerformance:   0.7,
	TypeArchitecture:  0.8,
	TypeAPIDesign:     0.7,
	TypeSecurity:      0.6,
	TypeRefactoring:   0.6,
	TypeTesting:       0.4,
	TypeCICD:          0.5,
	TypeDocumentation: 0.2,
}

// DefaultWeight returns the seed weight for a contribution type, or the
// neutral 0.5 for unknown tags.
func DefaultWeight(t ContributionType) float64 {
	if w, ok := defaultWeights[t]; ok {
		return w
	}
	return neutralScore
}

// SkillLevel describes the user's self-assessed experience.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillExpert       SkillLevel = "expert"
)

// AvailableTime describes the user's weekly time budget.
type AvailableTime string

const (
	TimeLow    AvailableTime = "low"    // 2-5 hrs/week
	TimeMedium AvailableTime = "medium" // 5-15 hrs/week
	TimeHigh   AvailableTime = "high"   // 15+ hrs/week
)

// ProjectSize maps to an open-issue-count range during repository scoring.
type ProjectSize string

const (
	SizeSmall  ProjectSize = "small"
	SizeMedium ProjectSize = "medium"
	SizeLarge  ProjectSize = "large"
)

// FeedbackEvent is one recorded reaction to a completed contribution.
type FeedbackEvent struct {
	Timestamp        time.Time        `json:"timestamp"`
	ContributionType ContributionType `json:"contribution_type"`
	InterestLevel    float64          `json:"interest_level"` // 0.0-1.0
	Success          bool             `json:"success"`
	Repository       string           `json:"repository,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

// Profile is the durable preference document. Mutate it only through
// Store.RecordFeedback or a direct user edit followed by Store.Save.
type Profile struct {
	SkillLevel           SkillLevel    `json:"skill_level"`
	AvailableTime        AvailableTime `json:"available_time"`
	Languages            []string      `json:"languages"` // priority order, index is the scoring tie-break

	ContributionWeights map[ContributionType]float64 `json:"contribution_weights"`

	MinStars             int         `json:"min_stars"`
	MaxStars             int         `json:"max_stars"`
	PreferredProjectSize ProjectSize `json:"preferred_project_size"`
	PreferActiveProjects bool        `json:"prefer_active_projects"`

	AvoidTypes  StringSet `json:"avoid_types"`
	AvoidTopics StringSet `json:"avoid_topics"`

	FeedbackHistory         []FeedbackEvent              `json:"feedback_history"`
	ContributionSuccessRate map[ContributionType]float64 `json:"contribution_success_rate"`
}

// DefaultProfile returns a profile seeded with the default weight table.
func DefaultProfile() *Profile {
	weights := make(map[ContributionType]float64, len(defaultWeights))
	for t, w := range defaultWeights {
		weights[t] = w
	}
	return &Profile{
		SkillLevel:              SkillIntermediate,
		AvailableTime:           TimeMedium,
		Languages:               []string{"Go", "Python", "TypeScript"},
		ContributionWeights:     weights,
		MinStars:                50,
		MaxStars:                50000,
		PreferredProjectSize:    SizeMedium,
		PreferActiveProjects:    true,
		AvoidTypes:              NewStringSet(),
		AvoidTopics:             NewStringSet(),
		FeedbackHistory:         nil,
		ContributionSuccessRate: make(map[ContributionType]float64),
	}
}

// normalize fills in zero-valued fields after a load so a hand-edited or
// partial document behaves like a full one.
func (p *Profile) normalize() {
	if p.SkillLevel == "" {
		p.SkillLevel = SkillIntermediate
	}
	if p.AvailableTime == "" {
		p.AvailableTime = TimeMedium
	}
	if len(p.Languages) == 0 {
		p.Languages = []string{"Go", "Python", "TypeScript"}
	}
	if p.ContributionWeights == nil {
		p.ContributionWeights = make(map[ContributionType]float64, len(defaultWeights))
	}
	for t, w := range defaultWeights {
		if _, ok := p.ContributionWeights[t]; !ok {
			p.ContributionWeights[t] = w
		}
	}
	if p.MaxStars == 0 {
		p.MaxStars = 50000
	}
	if p.PreferredProjectSize == "" {
		p.PreferredProjectSize = SizeMedium
	}
	if p.AvoidTypes == nil {
		p.AvoidTypes = NewStringSet()
	}
	if p.AvoidTopics == nil {
		p.AvoidTopics = NewStringSet()
	}
	if p.ContributionSuccessRate == nil {
		p.ContributionSuccessRate = make(map[ContributionType]float64)
	}
}
