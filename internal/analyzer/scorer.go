package analyzer

import (
	"sort"

	"github.com/p-blackswan/contrib-agent/internal/preferences"
)

// minInclusionScore is the floor below which an opportunity is dropped from
// scored output.
const minInclusionScore = 0.30

var (
	impactScores   = map[Level]float64{LevelLow: 0.3, LevelMedium: 0.6, LevelHigh: 0.9}
	priorityScores = map[Level]float64{LevelLow: 0.2, LevelMedium: 0.5, LevelHigh: 0.8}

	// Effort is inverted: low effort scores highest.
	effortScores = map[Level]float64{LevelLow: 0.8, LevelMedium: 0.6, LevelHigh: 0.4}
)

// Scorer ranks opportunities against a preference store.
type Scorer struct {
	prefs *preferences.Store
}

// NewScorer creates a Scorer over the given store.
func NewScorer(prefs *preferences.Store) *Scorer {
	return &Scorer{prefs: prefs}
}

// BaseScore is the preference-independent score of an opportunity. Unknown or
// absent level values fall back to their medium equivalents ("varies" effort
// included).
func BaseScore(o Opportunity) float64 {
	impact, ok := impactScores[o.Impact]
	if !ok {
		impact = impactScores[LevelMedium]
	}
	priority, ok := priorityScores[o.Priority]
	if !ok {
		priority = priorityScores[LevelMedium]
	}
	effort, ok := effortScores[o.Effort]
	if !ok {
		effort = effortScores[LevelMedium]
	}
	return 0.4*impact + 0.3*priority + 0.3*effort
}

// ScoreAndFilter blends each opportunity's base score with the user's learned
// preferences, drops avoided types and anything scoring under the inclusion
// floor, and returns the rest sorted by preference score descending. Ties
// keep input order.
func (s *Scorer) ScoreAndFilter(opps []Opportunity) []Opportunity {
	scored := make([]Opportunity, 0, len(opps))
	for _, opp := range opps {
		if s.prefs.ShouldAvoid(opp.Type, nil) {
			continue
		}
		score := s.prefs.ScoreFor(opp.Type, BaseScore(opp))
		if score < minInclusionScore {
			continue
		}
		opp.UserPreferenceScore = score
		scored = append(scored, opp)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].UserPreferenceScore > scored[j].UserPreferenceScore
	})
	return scored
}
