package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <owner/repo>",
	Short: "Build a prioritized contribution plan for a repository",
	Long: `Plan analyzes a repository and turns its opportunities into an ordered
contribution plan: what to do first, how long each step should take, what
to prepare, and what risks to expect.

Examples:
  contrib-agent plan spf13/cobra
  contrib-agent plan spf13/cobra --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := cliLogger()
		a, err := newApp(logger, true)
		if err != nil {
			return err
		}

		owner, name, err := splitRepoArg(args[0])
		if err != nil {
			return err
		}

		repo, err := a.gh.GetRepository(cmd.Context(), owner, name)
		if err != nil {
			return err
		}

		analysis, err := a.newAnalyzer().Analyze(cmd.Context(), repo)
		if err != nil {
			return err
		}

		strategy := a.newStrategist().CreateStrategy(cmd.Context(), analysis)

		if jsonOutput {
			return emitJSON(strategy)
		}

		printHeader("Contribution strategy: %s", strategy.Repository)
		printKV("Health score", "%d/100", strategy.Summary.HealthScore)
		printKV("Friendliness", "%s", strategy.Summary.ContributorFriendliness)
		printKV("Success probability", "%s",
			scoreColor(strategy.SuccessProbability).Sprintf("%.0f%%", strategy.SuccessProbability*100))
		printKV("Risk level", "%s", strategy.Risks.RiskLevel)

		fmt.Println()
		printHeader("Plan (%d steps)", len(strategy.Plan))
		for _, step := range strategy.Plan {
			opp := step.Opportunity
			fmt.Printf("%2d. [%s] %s %s\n", step.Step, opp.Type, opp.Title,
				dimColor.Sprintf("(%s)", step.EstimatedTimeline))
			if len(step.Prerequisites) > 0 {
				fmt.Printf("    prepare: %s\n", strings.Join(step.Prerequisites, "; "))
			}
			if len(step.PotentialChallenges) > 0 {
				fmt.Printf("    watch for: %s\n", strings.Join(step.PotentialChallenges, "; "))
			}
		}

		if len(strategy.Recommendations) > 0 {
			fmt.Println()
			printHeader("Recommendations")
			for _, rec := range strategy.Recommendations {
				fmt.Printf("  - %s\n", rec)
			}
		}

		if strategy.Insights != "" {
			fmt.Println()
			printHeader("Insights")
			fmt.Println(strategy.Insights)
		}
		return nil
	},
}
