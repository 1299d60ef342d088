package analyzer

import (
	"fmt"
	"strings"
)

// Category keyword sets, checked in order; an issue lands in the first
// category that matches its labels or title.
var issueCategories = []struct {
	name     string
	keywords []string
}{
	{"bug", []string{"bug", "error", "fix"}},
	{"feature", []string{"feature", "enhancement"}},
	{"documentation", []string{"doc", "readme", "guide"}},
	{"testing", []string{"test", "coverage"}},
	{"security", []string{"security", "vulnerability", "cve"}},
	{"help wanted", []string{"help wanted", "good first"}},
}

const topIssueCount = 5

// buildIssuesAnalysis summarizes open issues and good-first candidates.
func buildIssuesAnalysis(allIssues, goodFirst []Issue) IssuesAnalysis {
	result := IssuesAnalysis{
		TotalIssues:     len(allIssues),
		GoodFirstIssues: len(goodFirst),
		Categories:      categorizeIssues(allIssues),
	}

	top := goodFirst
	if len(top) > topIssueCount {
		top = top[:topIssueCount]
	}
	result.TopIssues = top

	if result.GoodFirstIssues > 0 {
		result.Opportunities = append(result.Opportunities,
			fmt.Sprintf("%d good first issues available", result.GoodFirstIssues))
	}
	if n := result.Categories["bug"]; n > 0 {
		result.Opportunities = append(result.Opportunities,
			fmt.Sprintf("%d bug fixes needed", n))
	}
	if n := result.Categories["documentation"]; n > 0 {
		result.Opportunities = append(result.Opportunities,
			fmt.Sprintf("%d documentation improvements needed", n))
	}

	return result
}

func categorizeIssues(issues []Issue) map[string]int {
	categories := make(map[string]int, len(issueCategories))
	for _, cat := range issueCategories {
		categories[cat.name] = 0
	}

	for _, issue := range issues {
		haystack := strings.ToLower(strings.Join(issue.Labels, " ") + " " + issue.Title)
		for _, cat := range issueCategories {
			if containsAny(haystack, cat.keywords) {
				categories[cat.name]++
				break
			}
		}
	}
	return categories
}

func containsAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
