package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/p-blackswan/contrib-agent/internal/scout"
)

var (
	discoverLanguages  []string
	discoverTopics     []string
	discoverMinStars   int
	discoverMaxResults int
	discoverConfig     string
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover repositories worth contributing to",
	Long: `Discover searches GitHub for repositories matching your preference
profile, filters out poor candidates (archived, forks, inactive, too small),
and ranks the rest by contribution potential.

Examples:
  contrib-agent discover
  contrib-agent discover --language go --language rust --min-stars 200
  contrib-agent discover --topic cli --max-results 10
  contrib-agent discover --config queries.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := cliLogger()
		a, err := newApp(logger, true)
		if err != nil {
			return err
		}

		opts := scout.Options{
			Languages:  discoverLanguages,
			Topics:     discoverTopics,
			MinStars:   discoverMinStars,
			MaxResults: discoverMaxResults,
		}
		if discoverConfig != "" {
			qc, err := scout.LoadQueryConfig(discoverConfig)
			if err != nil {
				return err
			}
			opts = qc.Options()
		}
		if opts.MaxResults == 0 {
			opts.MaxResults = a.cfg.MaxResults
		}

		s := scout.New(a.gh, a.prefs, a.metrics, logger)
		repos, err := s.Discover(cmd.Context(), opts)
		if err != nil {
			return err
		}

		if jsonOutput {
			return emitJSON(repos)
		}

		printHeader("Found %d candidate repositories", len(repos))
		for i, repo := range repos {
			fmt.Printf("%2d. %s %s\n", i+1, boldColor.Sprint(repo.FullName), dimColor.Sprintf("(%s)", repo.Language))
			if repo.Description != "" {
				fmt.Printf("    %s\n", repo.Description)
			}
			fmt.Printf("    %s stars  %s open issues  %s\n",
				boldColor.Sprintf("%d", repo.StargazersCount),
				boldColor.Sprintf("%d", repo.OpenIssuesCount),
				dimColor.Sprint(repo.HTMLURL))
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringSliceVar(&discoverLanguages, "language", nil, "language to search (repeatable; defaults to profile)")
	discoverCmd.Flags().StringSliceVar(&discoverTopics, "topic", nil, "topic to search (repeatable)")
	discoverCmd.Flags().IntVar(&discoverMinStars, "min-stars", 0, "minimum star count (defaults to profile)")
	discoverCmd.Flags().IntVar(&discoverMaxResults, "max-results", 0, "maximum repositories to return")
	discoverCmd.Flags().StringVar(&discoverConfig, "config", "", "YAML query config file (overrides other flags)")
}
