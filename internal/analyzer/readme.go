package analyzer

import (
	"fmt"
	"strings"
)

// readmeSection pairs a canonical section name with the keywords that count
// as covering it. Order is fixed so missing-section lists are deterministic.
type readmeSection struct {
	name     string
	keywords []string
}

var readmeSections = []readmeSection{
	{"installation", []string{"install", "setup", "getting started"}},
	{"usage", []string{"usage", "example", "how to"}},
	{"contributing", []string{"contribut", "development", "pull request"}},
	{"license", []string{"license", "copyright"}},
	{"documentation", []string{"docs", "documentation", "api"}},
	{"testing", []string{"test", "testing", "coverage"}},
}

const (
	readmeLongThreshold  = 500
	readmeLongBase       = 50
	readmeShortBase      = 20
	missingSectionPenalty = 10
)

// analyzeReadme grades the README by length and section coverage. An empty
// content string means no README exists.
func analyzeReadme(content string) ReadmeAnalysis {
	if content == "" {
		return ReadmeAnalysis{
			Exists:          false,
			MissingSections: []string{"README file missing"},
			Opportunities:   []string{"Create comprehensive README"},
		}
	}

	result := ReadmeAnalysis{
		Exists: true,
		Length: len(content),
	}

	lower := strings.ToLower(content)
	for _, section := range readmeSections {
		if sectionCovered(lower, section.keywords) {
			continue
		}
		result.MissingSections = append(result.MissingSections, section.name)
		result.Opportunities = append(result.Opportunities, fmt.Sprintf("Add %s section", section.name))
	}

	base := readmeShortBase
	if result.Length > readmeLongThreshold {
		base = readmeLongBase
	}
	result.QualityScore = base - len(result.MissingSections)*missingSectionPenalty

	return result
}

func sectionCovered(lowerContent string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowerContent, kw) {
			return true
		}
	}
	return false
}
