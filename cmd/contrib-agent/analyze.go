package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <owner/repo>",
	Short: "Analyze a repository for contribution opportunities",
	Long: `Analyze inspects a repository's README, open issues, and code structure,
then derives contribution opportunities scored against your preference
profile.

Examples:
  contrib-agent analyze golang/go
  contrib-agent analyze spf13/cobra --json`,
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

		if jsonOutput {
			return emitJSON(analysis)
		}

		printHeader("Analysis: %s", analysis.Repository.FullName)
		printKV("Health score", "%d/100", analysis.HealthScore)
		printKV("Primary language", "%s", analysis.CodeStructure.PrimaryLanguage)
		printKV("Contributors", "%d", analysis.CodeStructure.ContributorCount)
		printKV("Open issues", "%d (%d good first issues)",
			analysis.Issues.TotalIssues, analysis.Issues.GoodFirstIssues)

		if analysis.Readme.Exists {
			printKV("README quality", "%d", analysis.Readme.QualityScore)
			if len(analysis.Readme.MissingSections) > 0 {
				printKV("Missing sections", "%s", strings.Join(analysis.Readme.MissingSections, ", "))
			}
		} else {
			warnColor.Println("  No README found")
		}
		if analysis.Readme.Suggestions != "" {
			fmt.Println()
			printHeader("README review")
			fmt.Println(analysis.Readme.Suggestions)
		}

		fmt.Println()
		printHeader("Opportunities (%d)", len(analysis.Opportunities))
		for i, opp := range analysis.Opportunities {
			score := scoreColor(opp.UserPreferenceScore).Sprintf("%.2f", opp.UserPreferenceScore)
			fmt.Printf("%2d. [%s] %s %s\n", i+1, opp.Type, opp.Title, score)
			fmt.Printf("    %s priority, %s effort, %s impact\n", opp.Priority, opp.Effort, opp.Impact)
			if opp.IssueURL != "" {
				fmt.Printf("    %s\n", dimColor.Sprint(opp.IssueURL))
			}
		}
		return nil
	},
}
