package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/p-blackswan/contrib-agent/internal/preferences"
)

var (
	fbType     string
	fbInterest float64
	fbSuccess  bool
	fbRepo     string
	fbNotes    string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record the outcome of a contribution",
	Long: `Feedback records how a contribution went and how interesting the work
was. Each event shifts the preference weight for that contribution type
and updates its learned success rate, so future scoring reflects what you
actually enjoy and succeed at.

Examples:
  contrib-agent feedback --type documentation --interest 0.3 --success
  contrib-agent feedback --type bug_fixes --interest 0.9 --success --repo octo/widgets \
      --notes "fun debugging session"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := cliLogger()
		a, err := newApp(logger, false)
		if err != nil {
			return err
		}

		contribType := preferences.ContributionType(fbType)
		if !contribType.Valid() {
			return fmt.Errorf("unknown contribution type %q", fbType)
		}
		if fbInterest < 0 || fbInterest > 1 {
			return fmt.Errorf("--interest must be between 0 and 1")
		}

		if err := a.prefs.RecordFeedback(contribType, fbInterest, fbSuccess, fbRepo, fbNotes); err != nil {
			return err
		}

		profile := a.prefs.Profile()
		successColor.Printf("Recorded feedback for %s\n", contribType)
		printKV("Weight", "%.2f", profile.ContributionWeights[contribType])
		printKV("Success rate", "%.2f", profile.ContributionSuccessRate[contribType])
		return nil
	},
}

func init() {
	feedbackCmd.Flags().StringVar(&fbType, "type", "", "contribution type (required)")
	feedbackCmd.Flags().Float64Var(&fbInterest, "interest", 0.5, "how interesting the work was, 0 to 1")
	feedbackCmd.Flags().BoolVar(&fbSuccess, "success", false, "the contribution was accepted")
	feedbackCmd.Flags().StringVar(&fbRepo, "repo", "", "repository the contribution targeted")
	feedbackCmd.Flags().StringVar(&fbNotes, "notes", "", "free-form notes")
	feedbackCmd.MarkFlagRequired("type")
}
