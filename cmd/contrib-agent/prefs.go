package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/p-blackswan/contrib-agent/internal/preferences"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect and edit the preference profile",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current preference profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cliLogger(), false)
		if err != nil {
			return err
		}
		profile := a.prefs.Profile()

		if jsonOutput {
			return emitJSON(profile)
		}

		printHeader("Preference profile")
		printKV("Skill level", "%s", profile.SkillLevel)
		printKV("Available time", "%s", profile.AvailableTime)
		printKV("Languages", "%s", strings.Join(profile.Languages, ", "))
		printKV("Star range", "%d - %d", profile.MinStars, profile.MaxStars)
		printKV("Project size", "%s", profile.PreferredProjectSize)

		fmt.Println()
		printHeader("Contribution weights")
		types := make([]preferences.ContributionType, 0, len(profile.ContributionWeights))
		for t := range profile.ContributionWeights {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool {
			return profile.ContributionWeights[types[i]] > profile.ContributionWeights[types[j]]
		})
		for _, t := range types {
			weight := profile.ContributionWeights[t]
			line := fmt.Sprintf("  %-15s %s", t, scoreColor(weight).Sprintf("%.2f", weight))
			if rate, ok := profile.ContributionSuccessRate[t]; ok {
				line += dimColor.Sprintf("  (success rate %.2f)", rate)
			}
			fmt.Println(line)
		}

		if len(profile.AvoidTypes) > 0 {
			printKV("Avoiding types", "%s", strings.Join(profile.AvoidTypes.Members(), ", "))
		}
		if len(profile.AvoidTopics) > 0 {
			printKV("Avoiding topics", "%s", strings.Join(profile.AvoidTopics.Members(), ", "))
		}
		if n := len(profile.FeedbackHistory); n > 0 {
			printKV("Feedback events", "%d", n)
		}
		return nil
	},
}

var (
	avoidType  string
	avoidTopic string
)

var prefsAvoidCmd = &cobra.Command{
	Use:   "avoid",
	Short: "Add a contribution type or repository topic to the avoid list",
	Long: `Avoid marks a contribution type or repository topic as unwanted.
Avoided types are vetoed during opportunity scoring regardless of their
weight; avoided topics exclude whole repositories.

Examples:
  contrib-agent prefs avoid --type documentation
  contrib-agent prefs avoid --topic blockchain`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cliLogger(), false)
		if err != nil {
			return err
		}
		if avoidType == "" && avoidTopic == "" {
			return fmt.Errorf("one of --type or --topic is required")
		}

		profile := a.prefs.Profile()
		if avoidType != "" {
			if !preferences.ContributionType(avoidType).Valid() {
				return fmt.Errorf("unknown contribution type %q", avoidType)
			}
			profile.AvoidTypes.Add(avoidType)
		}
		if avoidTopic != "" {
			profile.AvoidTopics.Add(strings.ToLower(avoidTopic))
		}
		if err := a.prefs.Save(); err != nil {
			return err
		}

		successColor.Println("Avoid list updated")
		return nil
	},
}

func init() {
	prefsAvoidCmd.Flags().StringVar(&avoidType, "type", "", "contribution type to avoid")
	prefsAvoidCmd.Flags().StringVar(&avoidTopic, "topic", "", "repository topic to avoid")

	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsAvoidCmd)
}
