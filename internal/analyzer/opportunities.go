package analyzer

import (
	"fmt"
	"strings"

	"github.com/p-blackswan/contrib-agent/internal/preferences"
)

const (
	architectureStarThreshold = 1000
	cicdStarThreshold         = 100
	smallTeamContributors     = 3
)

var performanceKeywords = []string{"data", "ml", "algorithm", "compute"}

// highImpactSections are the README gaps worth a dedicated documentation
// opportunity; the rest only show up in the readme analysis itself.
var highImpactSections = map[string]bool{
	"installation": true,
	"usage":        true,
}

// identifyOpportunities turns an analysis into concrete opportunity records.
// Generation is rule-based; preference scoring happens afterwards in the
// Scorer. The emit order groups by contribution type, highest-leverage first.
func identifyOpportunities(a *Analysis) []Opportunity {
	var opps []Opportunity
	description := strings.ToLower(a.Repository.Description)

	if n := a.Issues.Categories["feature"]; n > 0 {
		opps = append(opps, Opportunity{
			Type:                preferences.TypeCodeFeatures,
			Title:               fmt.Sprintf("Feature Requests (%d open)", n),
			Description:         "Implement new features requested by the community",
			Priority:            LevelHigh,
			Effort:              LevelMedium,
			Impact:              LevelHigh,
			TechnicalComplexity: LevelMedium,
		})
	}

	if strings.Contains(description, "api") {
		opps = append(opps, Opportunity{
			Type:                preferences.TypeAPIDesign,
			Title:               "API Design Improvements",
			Description:         "Enhance API design, endpoints, or developer experience",
			Priority:            LevelMedium,
			Effort:              LevelMedium,
			Impact:              LevelHigh,
			TechnicalComplexity: LevelMedium,
		})
	}

	// Up to three good-first issues become direct issue-fix opportunities.
	top := a.Issues.TopIssues
	if len(top) > 3 {
		top = top[:3]
	}
	for _, issue := range top {
		opps = append(opps, Opportunity{
			Type:                preferences.TypeBugFixes,
			Title:               fmt.Sprintf("Issue #%d: %s", issue.Number, truncate(issue.Title, 50)),
			Description:         truncate(issue.Title, 100),
			Priority:            LevelHigh,
			Effort:              LevelVaries,
			Impact:              LevelMedium,
			TechnicalComplexity: LevelLow,
			IssueURL:            issue.HTMLURL,
		})
	}

	if n := a.Issues.Categories["bug"]; n > 0 {
		opps = append(opps, Opportunity{
			Type:                preferences.TypeBugFixes,
			Title:               fmt.Sprintf("Bug Fixes (%d open bugs)", n),
			Description:         "Help resolve bugs and improve software reliability",
			Priority:            LevelHigh,
			Effort:              LevelMedium,
			Impact:              LevelHigh,
			TechnicalComplexity: LevelMedium,
		})
	}

	if a.CodeStructure.ContributorCount > 2 {
		opps = append(opps, Opportunity{
			Type:                preferences.TypeRefactoring,
			Title:               "Code Refactoring",
			Description:         "Improve code structure and maintainability",
			Priority:            LevelMedium,
			Effort:              LevelMedium,
			Impact:              LevelMedium,
			TechnicalComplexity: LevelHigh,
		})
	}

	if a.Repository.StargazersCount > architectureStarThreshold {
		opps = append(opps, Opportunity{
			Type:                preferences.TypeArchitecture,
			Title:               "Architecture Improvements",
			Description:         "Design improvements for scalability and maintainability",
			Priority:            LevelMedium,
			Effort:              LevelHigh,
			Impact:              LevelHigh,
			TechnicalComplexity: LevelHigh,
		})
	}

	if containsAny(description, performanceKeywords) {
		opps = append(opps, Opportunity{
			Type:                preferences.TypePerformance,
			Title:               "Algorithm/Data Processing Optimization",
			Description:         "Optimize algorithms and data processing workflows",
			Priority:            LevelMedium,
			Effort:              LevelHigh,
			Impact:              LevelHigh,
			TechnicalComplexity: LevelHigh,
		})
	}

	if n := a.Issues.Categories["security"]; n > 0 {
		opps = append(opps, Opportunity{
			Type:                preferences.TypeSecurity,
			Title:               fmt.Sprintf("Security Fixes (%d issues)", n),
			Description:         "Address security vulnerabilities and improve safety",
			Priority:            LevelHigh,
			Effort:              LevelMedium,
			Impact:              LevelHigh,
			TechnicalComplexity: LevelMedium,
		})
	}

	if a.CodeStructure.ContributorCount < smallTeamContributors {
		opps = append(opps, Opportunity{
			Type:                preferences.TypeTesting,
			Title:               "Add Unit Tests",
			Description:         "Small project likely needs more test coverage",
			Priority:            LevelMedium,
			Effort:              LevelMedium,
			Impact:              LevelHigh,
			TechnicalComplexity: LevelLow,
		})
	}

	if a.Repository.StargazersCount > cicdStarThreshold {
		opps = append(opps, Opportunity{
			Type:                preferences.TypeCICD,
			Title:               "Set up CI/CD Pipeline",
			Description:         "Add automated testing, building, and deployment",
			Priority:            LevelLow,
			Effort:              LevelMedium,
			Impact:              LevelMedium,
			TechnicalComplexity: LevelMedium,
		})
	}

	if !a.Readme.Exists {
		opps = append(opps, Opportunity{
			Type:                preferences.TypeDocumentation,
			Title:               "Create README file",
			Description:         "Repository is missing a README file",
			Priority:            LevelHigh,
			Effort:              LevelMedium,
			Impact:              LevelHigh,
			TechnicalComplexity: LevelLow,
		})
	}
	for _, section := range a.Readme.MissingSections {
		if !highImpactSections[section] {
			continue
		}
		opps = append(opps, Opportunity{
			Type:                preferences.TypeDocumentation,
			Title:               fmt.Sprintf("Add %s section to README", section),
			Description:         fmt.Sprintf("README is missing critical %s information", section),
			Priority:            LevelMedium,
			Effort:              LevelLow,
			Impact:              LevelMedium,
			TechnicalComplexity: LevelLow,
		})
	}

	return opps
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
