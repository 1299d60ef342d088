package feedback

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/p-blackswan/contrib-agent/internal/metrics"
	"github.com/p-blackswan/contrib-agent/internal/preferences"
)

// Rand is the randomness the simulator consumes. *math/rand.Rand satisfies
// it; tests inject a scripted source for deterministic lifecycles.
type Rand interface {
	Float64() float64
	Intn(n int) int
	Perm(n int) []int
}

// Simulator models maintainer feedback for submitted contributions.
type Simulator struct {
	mu      sync.Mutex
	rng     Rand
	now     func() time.Time
	logger  zerolog.Logger
	metrics *metrics.Metrics
	history []*Submission
}

// New creates a Simulator with a time-seeded randomness source. m may be nil.
func New(m *metrics.Metrics, logger zerolog.Logger) *Simulator {
	return &Simulator{
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
		logger:  logger.With().Str("component", "feedback").Logger(),
		metrics: m,
	}
}

// NewWithRand creates a Simulator over an explicit randomness source.
func NewWithRand(rng Rand, m *metrics.Metrics, logger zerolog.Logger) *Simulator {
	s := New(m, logger)
	s.rng = rng
	return s
}

// Submit registers a contribution and draws its initial reception: the
// quality-weighted scenario and a CI run.
func (s *Simulator) Submit(contribution Contribution) *Submission {
	s.mu.Lock()
	defer s.mu.Unlock()

	quality := qualityScore(contribution)
	def := s.selectScenario(quality)

	sub := &Submission{
		ID:                  "pr_" + uuid.NewString()[:8],
		Repository:          contribution.Repository,
		Title:               contribution.Title,
		Status:              StatusSubmitted,
		SubmittedAt:         s.now(),
		QualityScore:        quality,
		Scenario:            def.scenario,
		Sentiment:           def.sentiment,
		InitialChecks:       def.checks,
		InitialComments:     def.comments,
		EstimatedReviewTime: def.estimatedTime,
		CIStatus:            simulateCI(s.rng),
		MergeStatus:         "pending",
	}
	s.history = append(s.history, sub)

	if s.metrics != nil {
		s.metrics.SubmissionsTotal.WithLabelValues("simulated", string(def.scenario)).Inc()
	}
	s.logger.Info().
		Str("submission_id", sub.ID).
		Str("repository", sub.Repository).
		Float64("quality", quality).
		Str("scenario", string(def.scenario)).
		Msg("contribution submitted")
	return sub
}

// Advance applies every day threshold up to daysElapsed to the submission.
// It is cumulative, not edge-triggered: calling it with a larger elapsed-day
// count re-derives all thresholds, and states already reached are not
// re-rolled.
func (s *Simulator) Advance(sub *Submission, daysElapsed int) DayChanges {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changes DayChanges
	prevStatus := sub.Status
	prevMerge := sub.MergeStatus

	if daysElapsed >= 1 && sub.InitialChecks == CheckRunning {
		sub.CIStatus = simulateCI(s.rng)
		sub.InitialChecks = sub.CIStatus.OverallStatus
	}

	if daysElapsed >= 2 && len(sub.Reviews) == 0 {
		sub.Reviews = s.reviewerComments(sub.Sentiment)
		changes.NewReviews = sub.Reviews
		if sub.Status == StatusSubmitted {
			sub.Status = StatusUnderReview
		}
	}

	if daysElapsed >= 3 && sub.Sentiment == SentimentPositive && sub.Status == StatusUnderReview {
		if s.rng.Float64() > 0.3 {
			sub.Status = StatusApproved
			sub.MergeStatus = "ready_to_merge"
		}
	}

	if daysElapsed >= 5 {
		switch {
		case (sub.Sentiment == SentimentPositive || sub.Sentiment == SentimentEnthusiastic) && sub.Status == StatusApproved:
			sub.Status = StatusMerged
			sub.MergeStatus = "merged"
			mergedAt := s.now()
			sub.MergedAt = &mergedAt
		case sub.Sentiment == SentimentConstructive && sub.Status == StatusUnderReview:
			if s.rng.Float64() > 0.4 {
				sub.Status = StatusChangesRequested
				sub.RequestedChanges = s.changeRequests()
			}
		}
	}

	if daysElapsed >= 14 && (sub.Status == StatusSubmitted || sub.Status == StatusUnderReview) {
		stalled := []Status{StatusStale, StatusClosed, StatusNeedsRebase}
		sub.Status = stalled[s.rng.Intn(len(stalled))]
	}

	if sub.Status != prevStatus {
		changes.StatusChange = &StatusChange{From: string(prevStatus), To: string(sub.Status)}
	}
	if sub.MergeStatus != prevMerge {
		changes.MergeStatusChange = &StatusChange{From: prevMerge, To: sub.MergeStatus}
	}
	return changes
}

// SimulateLifecycle runs a contribution through days of simulated review and
// returns the full day-indexed record with outcome and metrics.
func (s *Simulator) SimulateLifecycle(contribution Contribution, days int) *LifecycleResult {
	start := s.now()
	sub := s.Submit(contribution)

	lifecycle := []DayRecord{{Day: 0, Status: sub.Status}}
	for day := 1; day <= days; day++ {
		changes := s.Advance(sub, day)
		lifecycle = append(lifecycle, DayRecord{Day: day, Status: sub.Status, Changes: changes})
	}

	outcome := outcomeFor(sub.Status)
	result := &LifecycleResult{
		SubmissionID:     sub.ID,
		Repository:       sub.Repository,
		OpportunityTitle: contribution.Opportunity.Title,
		Lifecycle:        lifecycle,
		FinalOutcome:     outcome,
		LessonsLearned:   lessonsFor(outcome),
		Metrics:          successMetrics(lifecycle, sub),
	}

	if s.metrics != nil {
		s.metrics.SimulationsTotal.WithLabelValues(outcome.Status).Inc()
		s.metrics.SimulationDuration.Observe(float64(days))
	}
	s.logger.Info().
		Str("submission_id", sub.ID).
		Str("final_status", string(sub.Status)).
		Bool("success", outcome.Success).
		Dur("elapsed", s.now().Sub(start)).
		Msg("lifecycle simulation complete")
	return result
}

// qualityScore grades a contribution in [0.1, 0.9] from its shape alone.
// Documentation and testing submissions are usually well received; complex,
// low-priority work is more likely to need revision.
func qualityScore(c Contribution) float64 {
	score := 0.5
	opp := c.Opportunity

	switch {
	case opp.Type == preferences.TypeDocumentation:
		score += 0.2
	case opp.Type == preferences.TypeTesting:
		score += 0.15
	case opp.IssueURL != "":
		score += 0.1
	}

	switch opp.Priority {
	case "high":
		score += 0.1
	case "low":
		score -= 0.1
	}

	switch opp.Effort {
	case "low":
		score += 0.1
	case "high":
		score -= 0.1
	}

	if score < 0.1 {
		score = 0.1
	}
	if score > 0.9 {
		score = 0.9
	}
	return score
}

// selectScenario draws the initial-reception scenario, skewed by quality:
// good contributions see more positive receptions and immediate merges, poor
// ones more change requests.
func (s *Simulator) selectScenario(quality float64) scenarioDef {
	adjusted := make([]float64, len(scenarioDefs))
	total := 0.0
	for i, def := range scenarioDefs {
		p := def.probability
		switch {
		case def.scenario == ScenarioPositiveReception && quality > 0.7:
			p *= 1.5
		case def.scenario == ScenarioNeedsChanges && quality < 0.4:
			p *= 1.5
		case def.scenario == ScenarioImmediateMerge && quality > 0.8:
			p *= 2.0
		}
		adjusted[i] = p
		total += p
	}

	draw := s.rng.Float64()
	cumulative := 0.0
	for i, def := range scenarioDefs {
		cumulative += adjusted[i] / total
		if draw <= cumulative {
			return def
		}
	}
	return scenarioDefs[len(scenarioDefs)-1]
}

// reviewerComments samples 2-3 comments without replacement from the pool
// matching the maintainer sentiment.
func (s *Simulator) reviewerComments(sentiment Sentiment) []Review {
	var pool []string
	count := 2
	switch sentiment {
	case SentimentPositive, SentimentEnthusiastic:
		pool = positiveComments
	case SentimentConstructive:
		pool = constructiveComments
		count = 3
	default:
		pool = neutralComments
	}

	picks := s.rng.Perm(len(pool))[:count]
	reviews := make([]Review, 0, count)
	for _, i := range picks {
		reviews = append(reviews, Review{
			Reviewer:  fmt.Sprintf("maintainer_%d", s.rng.Intn(3)+1),
			Comment:   pool[i],
			Timestamp: s.now().Add(-time.Duration(s.rng.Intn(48)+1) * time.Hour),
		})
	}
	return reviews
}

// changeRequests samples 2-4 change requests without replacement.
func (s *Simulator) changeRequests() []string {
	count := s.rng.Intn(3) + 2
	picks := s.rng.Perm(len(changeRequestPool))[:count]
	requests := make([]string, 0, count)
	for _, i := range picks {
		requests = append(requests, changeRequestPool[i])
	}
	return requests
}

func successMetrics(lifecycle []DayRecord, sub *Submission) SuccessMetrics {
	reviewRounds := 0
	for _, record := range lifecycle {
		if len(record.Changes.NewReviews) > 0 {
			reviewRounds++
		}
	}

	finalStatus := lifecycle[len(lifecycle)-1].Status
	return SuccessMetrics{
		DaysToResolution:     len(lifecycle) - 1,
		ReviewRounds:         reviewRounds,
		CIPassed:             sub.CIStatus.OverallStatus == CheckPassed,
		FinalSuccess:         finalStatus == StatusMerged || finalStatus == StatusApproved,
		MaintainerEngagement: reviewRounds > 0,
	}
}

// History returns the submissions recorded so far, newest last.
func (s *Simulator) History() []*Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Submission, len(s.history))
	copy(out, s.history)
	return out
}

// Statistics aggregates outcomes across all recorded submissions.
type Statistics struct {
	TotalSubmissions int            `json:"total_submissions"`
	SuccessRate      float64        `json:"success_rate"`
	StatusBreakdown  map[Status]int `json:"status_breakdown"`
}

// Stats summarizes the submission history.
func (s *Simulator) Stats() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Statistics{
		TotalSubmissions: len(s.history),
		StatusBreakdown:  make(map[Status]int),
	}
	if len(s.history) == 0 {
		return stats
	}

	successes := 0
	for _, sub := range s.history {
		stats.StatusBreakdown[sub.Status]++
		if sub.Status == StatusMerged || sub.Status == StatusApproved {
			successes++
		}
	}
	stats.SuccessRate = float64(successes) / float64(len(s.history))
	return stats
}
