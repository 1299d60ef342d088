package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/p-blackswan/contrib-agent/internal/analyzer"
	"github.com/p-blackswan/contrib-agent/internal/feedback"
	"github.com/p-blackswan/contrib-agent/internal/preferences"
)

var (
	simRepository string
	simTitle      string
	simType       string
	simPriority   string
	simEffort     string
	simImpact     string
	simIssueURL   string
	simDays       int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate the review lifecycle of a contribution",
	Long: `Simulate rehearses what happens after you submit a contribution: CI
checks, maintainer reviews, change requests, and the eventual merge,
close, or silent death. Higher-quality contributions (docs, tests,
issue-linked fixes) draw better outcomes.

Examples:
  contrib-agent simulate --repo octo/widgets --title "Add usage docs" --type documentation
  contrib-agent simulate --repo octo/widgets --title "Fix race in pool" --type bug_fixes \
      --priority high --effort low --impact high --days 14`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := cliLogger()
		a, err := newApp(logger, false)
		if err != nil {
			return err
		}
		if simTitle == "" {
			return fmt.Errorf("--title is required")
		}

		contribution := feedback.Contribution{
			Repository: simRepository,
			Title:      simTitle,
			Opportunity: analyzer.Opportunity{
				Type:     preferences.ContributionType(simType),
				Title:    simTitle,
				Priority: analyzer.Level(simPriority),
				Effort:   analyzer.Level(simEffort),
				Impact:   analyzer.Level(simImpact),
				IssueURL: simIssueURL,
			},
		}

		result := a.newSimulator().SimulateLifecycle(contribution, simDays)

		if jsonOutput {
			return emitJSON(result)
		}

		printHeader("Simulated lifecycle: %s", result.OpportunityTitle)
		if result.Repository != "" {
			printKV("Repository", "%s", result.Repository)
		}
		printKV("Submission", "%s", result.SubmissionID)

		fmt.Println()
		for _, day := range result.Lifecycle {
			status := statusColor(string(day.Status)).Sprint(day.Status)
			fmt.Printf("  day %2d  %s", day.Day, status)
			if day.Changes.StatusChange != nil {
				fmt.Printf("  %s", dimColor.Sprintf("(%s -> %s)", day.Changes.StatusChange.From, day.Changes.StatusChange.To))
			}
			if n := len(day.Changes.NewReviews); n > 0 {
				fmt.Printf("  %s", dimColor.Sprintf("+%d reviews", n))
			}
			fmt.Println()
		}

		fmt.Println()
		outcome := statusColor(result.FinalOutcome.Status)
		printKV("Outcome", "%s", outcome.Sprint(result.FinalOutcome.Status))
		printKV("Description", "%s", result.FinalOutcome.Description)
		printKV("Days to resolution", "%d", result.Metrics.DaysToResolution)
		printKV("Review rounds", "%d", result.Metrics.ReviewRounds)

		if len(result.LessonsLearned) > 0 {
			fmt.Println()
			printHeader("Lessons")
			for _, lesson := range result.LessonsLearned {
				fmt.Printf("  - %s\n", lesson)
			}
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simRepository, "repo", "", "repository the contribution targets")
	simulateCmd.Flags().StringVar(&simTitle, "title", "", "contribution title (required)")
	simulateCmd.Flags().StringVar(&simType, "type", "code_features", "contribution type")
	simulateCmd.Flags().StringVar(&simPriority, "priority", "medium", "priority: low, medium, high")
	simulateCmd.Flags().StringVar(&simEffort, "effort", "medium", "effort: low, medium, high, varies")
	simulateCmd.Flags().StringVar(&simImpact, "impact", "medium", "impact: low, medium, high")
	simulateCmd.Flags().StringVar(&simIssueURL, "issue-url", "", "linked issue URL, if the work fixes a reported issue")
	simulateCmd.Flags().IntVar(&simDays, "days", 7, "days of review activity to simulate")
}
