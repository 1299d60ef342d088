package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/p-blackswan/contrib-agent/internal/analyzer"
	"github.com/p-blackswan/contrib-agent/internal/feedback"
	"github.com/p-blackswan/contrib-agent/internal/metrics"
	"github.com/p-blackswan/contrib-agent/internal/preferences"
)

// ProblemDetail is an RFC 7807 style error payload.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

func problemResponse(c *fiber.Ctx, status int, errType, title, detail string) error {
	return c.Status(status).JSON(ProblemDetail{
		Type:     errType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Path(),
	})
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	prefs     *preferences.Store
	simulator *feedback.Simulator
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	startTime time.Time

	// DefaultSimulationDays applies when a simulate request omits days.
	DefaultSimulationDays int
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(prefs *preferences.Store, sim *feedback.Simulator, m *metrics.Metrics, logger zerolog.Logger) *Handlers {
	return &Handlers{
		prefs:     prefs,
		simulator: sim,
		metrics:   m,
		logger:    logger.With().Str("component", "handlers").Logger(),
		startTime: time.Now(),
	}
}

// GetPreferences handles GET /v1/preferences.
func (h *Handlers) GetPreferences(c *fiber.Ctx) error {
	return c.JSON(h.prefs.Profile())
}

// UpdatePreferences handles PUT /v1/preferences. The request body is a full
// or partial profile document; submitted fields overwrite the stored ones.
func (h *Handlers) UpdatePreferences(c *fiber.Ctx) error {
	profile := h.prefs.Profile()
	if err := c.BodyParser(profile); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request",
			"Invalid request body: "+err.Error())
	}
	if err := h.prefs.Save(); err != nil {
		return problemResponse(c, fiber.StatusInternalServerError,
			"save_failed", "Internal Server Error",
			"Could not persist preferences: "+err.Error())
	}

	h.logger.Info().Msg("preferences updated")
	return c.JSON(profile)
}

// FeedbackRequest is the body of POST /v1/feedback.
type FeedbackRequest struct {
	ContributionType string  `json:"contribution_type"`
	InterestLevel    float64 `json:"interest_level"`
	Success          bool    `json:"success"`
	Repository       string  `json:"repository,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

// RecordFeedback handles POST /v1/feedback.
func (h *Handlers) RecordFeedback(c *fiber.Ctx) error {
	var req FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request",
			"Invalid request body: "+err.Error())
	}

	contribType := preferences.ContributionType(req.ContributionType)
	if !contribType.Valid() {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_contribution_type", "Bad Request",
			"Unknown contribution type: "+req.ContributionType)
	}
	if req.InterestLevel < 0 || req.InterestLevel > 1 {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_interest_level", "Bad Request",
			"interest_level must be between 0 and 1")
	}

	if err := h.prefs.RecordFeedback(contribType, req.InterestLevel, req.Success, req.Repository, req.Notes); err != nil {
		return problemResponse(c, fiber.StatusInternalServerError,
			"record_failed", "Internal Server Error",
			"Could not record feedback: "+err.Error())
	}

	if h.metrics != nil {
		success := "false"
		if req.Success {
			success = "true"
		}
		h.metrics.FeedbackEventsTotal.WithLabelValues(string(contribType), success).Inc()
	}

	profile := h.prefs.Profile()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"contribution_type": contribType,
		"weight":            profile.ContributionWeights[contribType],
		"success_rate":      profile.ContributionSuccessRate[contribType],
	})
}

// SimulateRequest is the body of POST /v1/simulate.
type SimulateRequest struct {
	Repository  string `json:"repository"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Effort      string `json:"effort,omitempty"`
	Impact      string `json:"impact,omitempty"`
	IssueURL    string `json:"issue_url,omitempty"`
	Days        int    `json:"days,omitempty"`
}

// Simulate handles POST /v1/simulate.
func (h *Handlers) Simulate(c *fiber.Ctx) error {
	var req SimulateRequest
	if err := c.BodyParser(&req); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request",
			"Invalid request body: "+err.Error())
	}
	if req.Title == "" {
		return problemResponse(c, fiber.StatusBadRequest,
			"missing_title", "Bad Request",
			"Contribution title is required")
	}

	days := req.Days
	if days <= 0 {
		days = h.DefaultSimulationDays
	}
	if days <= 0 {
		days = 7
	}

	contribution := feedback.Contribution{
		Repository: req.Repository,
		Title:      req.Title,
		Opportunity: analyzer.Opportunity{
			Type:        preferences.ContributionType(req.Type),
			Title:       req.Title,
			Description: req.Description,
			Priority:    analyzer.Level(req.Priority),
			Effort:      analyzer.Level(req.Effort),
			Impact:      analyzer.Level(req.Impact),
			IssueURL:    req.IssueURL,
		},
	}

	result := h.simulator.SimulateLifecycle(contribution, days)
	return c.JSON(result)
}

// ListSimulations handles GET /v1/simulations.
func (h *Handlers) ListSimulations(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"submissions": h.simulator.History(),
	})
}

// SimulationStats handles GET /v1/stats.
func (h *Handlers) SimulationStats(c *fiber.Ctx) error {
	return c.JSON(h.simulator.Stats())
}
