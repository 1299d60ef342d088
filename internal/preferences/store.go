package preferences

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	cerrors "github.com/p-blackswan/contrib-agent/internal/errors"
)

const (
	// neutralScore is the fallback for unknown weight and success-rate lookups.
	neutralScore = 0.5

	// successRateDecay is the EMA decay factor:
	// new = old*decay + outcome*(1-decay).
	successRateDecay = 0.8

	// interestAdjustScale bounds a single feedback event's weight nudge to ±0.05.
	interestAdjustScale = 0.1

	// avoidWeightFloor: weights below this signal strong disinterest and act
	// as a veto even without explicit avoid-list membership.
	avoidWeightFloor = 0.1
)

// Store owns the profile lifecycle: load-or-default, feedback mutation,
// persistence, and scoring queries. Safe for concurrent use within one
// process; saves are full-file overwrites without cross-process locking.
type Store struct {
	mu      sync.Mutex
	path    string
	logger  zerolog.Logger
	profile *Profile
}

// NewStore loads the profile at path, falling back to defaults on a missing
// or corrupt file. Load failures never surface to the caller.
func NewStore(path string, logger zerolog.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logger.With().Str("component", "preferences.store").Logger(),
	}
	s.profile = s.load()
	return s
}

// Profile returns the live profile handle. Callers that edit it directly are
// responsible for calling Save.
func (s *Store) Profile() *Profile {
	return s.profile
}

func (s *Store) load() *Profile {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("could not read preferences, using defaults")
		}
		return DefaultProfile()
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("corrupt preferences file, using defaults")
		return DefaultProfile()
	}
	p.normalize()
	return &p
}

// Save serializes the full profile and overwrites the file. Set-valued fields
// are written as deduplicated lists.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *Store) save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating preferences dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(s.profile, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling preferences: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}

// RecordFeedback appends a feedback event and folds it into the learned
// success rate (EMA, decay 0.8, seeded at 0.5) and contribution weight
// (nudged toward interestLevel, clamped to [0,1]). The profile is persisted
// immediately — feedback is rare and interactive, so one full rewrite per
// event is acceptable.
func (s *Store) RecordFeedback(contribType ContributionType, interestLevel float64, success bool, repository, notes string) error {
	if !contribType.Valid() {
		return fmt.Errorf("%w: unknown contribution type %q", cerrors.ErrInvalidInput, contribType)
	}
	interestLevel = clamp01(interestLevel)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile.FeedbackHistory = append(s.profile.FeedbackHistory, FeedbackEvent{
		Timestamp:        time.Now().UTC(),
		ContributionType: contribType,
		InterestLevel:    interestLevel,
		Success:          success,
		Repository:       repository,
		Notes:            notes,
	})

	rate, ok := s.profile.ContributionSuccessRate[contribType]
	if !ok {
		rate = neutralScore
	}
	outcome := 0.0
	if success {
		outcome = 1.0
	}
	s.profile.ContributionSuccessRate[contribType] = rate*successRateDecay + outcome*(1-successRateDecay)

	if weight, ok := s.profile.ContributionWeights[contribType]; ok {
		adjustment := (interestLevel - 0.5) * interestAdjustScale
		s.profile.ContributionWeights[contribType] = clamp01(weight + adjustment)
	}

	if err := s.save(); err != nil {
		return err
	}

	s.logger.Info().
		Str("type", string(contribType)).
		Float64("interest", interestLevel).
		Bool("success", success).
		Str("repository", repository).
		Msg("feedback recorded")
	return nil
}

// ScoreFor blends a base score with the learned preference weight and success
// rate for a contribution type: 0.4*base + 0.4*weight + 0.2*success_rate.
// Unknown types score with neutral 0.5 weight and rate.
func (s *Store) ScoreFor(contribType ContributionType, baseScore float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	weight, ok := s.profile.ContributionWeights[contribType]
	if !ok {
		weight = neutralScore
	}
	rate, ok := s.profile.ContributionSuccessRate[contribType]
	if !ok {
		rate = neutralScore
	}
	return baseScore*0.4 + weight*0.4 + rate*0.2
}

// ShouldAvoid is the hard veto: explicit avoid-list membership (type or any
// repo topic) or a weight under the strong-disinterest floor.
func (s *Store) ShouldAvoid(contribType ContributionType, repoTopics []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile.AvoidTypes.Contains(string(contribType)) {
		return true
	}
	for _, topic := range repoTopics {
		if s.profile.AvoidTopics.Contains(topic) {
			return true
		}
	}
	weight, ok := s.profile.ContributionWeights[contribType]
	if !ok {
		weight = neutralScore
	}
	return weight < avoidWeightFloor
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
