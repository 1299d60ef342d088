package scout

import (
	"sort"
	"strings"
	"time"

	"github.com/p-blackswan/contrib-agent/internal/preferences"
)

const (
	// Hard pre-filter bounds: repositories staler or smaller than this are
	// excluded outright, not score-penalized.
	maxStaleDays = 180
	minFilterStars = 10
)

// activityMultiplier boosts recency when the user prefers active projects.
const activityMultiplier = 1.5

// basicPopularLanguages feeds the degraded no-preferences formula.
var basicPopularLanguages = map[string]bool{
	"python":     true,
	"javascript": true,
	"typescript": true,
}

// timeNow is swapped out in tests for deterministic recency buckets.
var timeNow = time.Now

// Scorer ranks repositories. With a profile it applies the full weighted
// formula; without one it falls back to a reduced basic formula. The two
// paths are deliberately separate code.
type Scorer struct {
	profile *preferences.Profile
	now     func() time.Time
}

// NewScorer creates a Scorer for the given profile. profile may be nil, which
// selects the basic no-preferences formula.
func NewScorer(profile *preferences.Profile) *Scorer {
	return &Scorer{profile: profile, now: timeNow}
}

// Filter drops repositories that are poor contribution targets regardless of
// score: archived, forks, private, stale beyond 180 days, or under 10 stars.
func (s *Scorer) Filter(repos []Repository) []Repository {
	cutoff := s.now().AddDate(0, 0, -maxStaleDays)

	filtered := make([]Repository, 0, len(repos))
	for _, repo := range repos {
		if repo.Archived || repo.Fork || repo.Private {
			continue
		}
		if repo.UpdatedAt.Before(cutoff) {
			continue
		}
		if repo.StargazersCount < minFilterStars {
			continue
		}
		filtered = append(filtered, repo)
	}
	return filtered
}

// Rank annotates each repository with its contribution score and returns the
// list sorted descending. The sort is stable: ties keep discovery order.
func (s *Scorer) Rank(repos []Repository) []Repository {
	ranked := make([]Repository, len(repos))
	copy(ranked, repos)

	for i := range ranked {
		if s.profile != nil {
			ranked[i].ContributionScore = s.score(ranked[i])
		} else {
			ranked[i].ContributionScore = s.basicScore(ranked[i])
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ContributionScore > ranked[j].ContributionScore
	})
	return ranked
}

// score is the preference-weighted formula. Each factor contributes
// independently; the total is floored at zero.
func (s *Scorer) score(repo Repository) int {
	score := 0
	p := s.profile

	// Factor 1: stars within the user's preferred range.
	stars := repo.StargazersCount
	switch {
	case stars >= p.MinStars && stars <= p.MaxStars:
		switch {
		case stars > 5000:
			score += 4 // high visibility
		case stars > 1000:
			score += 3
		case stars > 100:
			score += 2
		default:
			score++
		}
	case stars < p.MinStars:
		score-- // too small
	default:
		score -= 2 // too large, intimidating
	}

	// Factor 2: recent activity, weighted by preference. The multiplied
	// bucket values are integer-truncated.
	daysSinceUpdate := s.daysSince(repo.UpdatedAt)
	multiplier := 1.0
	if p.PreferActiveProjects {
		multiplier = activityMultiplier
	}
	switch {
	case daysSinceUpdate < 7:
		score += int(3 * multiplier)
	case daysSinceUpdate < 30:
		score += int(2 * multiplier)
	case daysSinceUpdate < 90:
		score += int(1 * multiplier)
	}

	// Factor 3: open-issue count against the preferred project size.
	issues := repo.OpenIssuesCount
	switch {
	case p.PreferredProjectSize == preferences.SizeSmall && issues >= 1 && issues <= 20:
		score += 3
	case p.PreferredProjectSize == preferences.SizeMedium && issues >= 5 && issues <= 100:
		score += 3
	case p.PreferredProjectSize == preferences.SizeLarge && issues > 50:
		score += 2
	case issues > 0:
		score++
	}

	// Factor 4: language match, stronger for earlier list positions.
	if idx := s.languageIndex(repo.Language); idx >= 0 {
		bonus := 3 - idx
		if bonus < 1 {
			bonus = 1
		}
		score += bonus
	}

	// Factor 5: avoided topic appearing in the description or topic list.
	if s.matchesAvoidTopic(repo) {
		score -= 3
	}

	// Factor 6: fork ratio above 0.1 signals a useful, forked project.
	if repo.ForksCount > 0 && stars > 0 && float64(repo.ForksCount)/float64(stars) > 0.1 {
		score++
	}

	// Factor 7: good-first-issue proxy. A real label check would cost an
	// extra API call per repo, so mid-size active projects get the benefit
	// of the doubt.
	if stars >= 100 && stars <= 10000 && daysSinceUpdate < 30 {
		score++
	}

	if score < 0 {
		score = 0
	}
	return score
}

// basicScore is the degraded formula for when no profile is available.
func (s *Scorer) basicScore(repo Repository) int {
	score := 0

	switch {
	case repo.StargazersCount > 1000:
		score += 3
	case repo.StargazersCount > 100:
		score += 2
	default:
		score++
	}

	daysSinceUpdate := s.daysSince(repo.UpdatedAt)
	switch {
	case daysSinceUpdate < 7:
		score += 3
	case daysSinceUpdate < 30:
		score += 2
	case daysSinceUpdate < 90:
		score++
	}

	if repo.OpenIssuesCount >= 5 && repo.OpenIssuesCount <= 50 {
		score += 2
	} else if repo.OpenIssuesCount > 0 {
		score++
	}

	if basicPopularLanguages[strings.ToLower(repo.Language)] {
		score++
	}

	return score
}

func (s *Scorer) daysSince(t time.Time) int {
	return int(s.now().Sub(t).Hours() / 24)
}

// languageIndex returns the position of the language in the user's priority
// list, or -1 if absent. Case-insensitive.
func (s *Scorer) languageIndex(language string) int {
	if language == "" {
		return -1
	}
	lower := strings.ToLower(language)
	for i, l := range s.profile.Languages {
		if strings.ToLower(l) == lower {
			return i
		}
	}
	return -1
}

// matchesAvoidTopic substring-matches avoid topics against the concatenated
// description and topic list, case-insensitive.
func (s *Scorer) matchesAvoidTopic(repo Repository) bool {
	if len(s.profile.AvoidTopics) == 0 {
		return false
	}
	haystack := strings.ToLower(strings.Join(repo.Topics, " ") + " " + repo.Description)
	for _, avoided := range s.profile.AvoidTopics.Members() {
		if avoided != "" && strings.Contains(haystack, strings.ToLower(avoided)) {
			return true
		}
	}
	return false
}
