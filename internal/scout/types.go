// Package scout discovers candidate repositories and ranks them against the
// user's preference profile.
package scout

import (
	"time"
)

// Repository is an ephemeral candidate fetched fresh per discovery run.
// ContributionScore is annotated in place by the scorer.
type Repository struct {
	FullName        string    `json:"full_name"`
	Description     string    `json:"description"`
	Language        string    `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	OpenIssuesCount int       `json:"open_issues_count"`
	UpdatedAt       time.Time `json:"updated_at"`
	Topics          []string  `json:"topics"`
	HTMLURL         string    `json:"html_url,omitempty"`
	DefaultBranch   string    `json:"default_branch,omitempty"`
	Archived        bool      `json:"archived"`
	Fork            bool      `json:"fork"`
	Private         bool      `json:"private"`

	ContributionScore int `json:"contribution_score"`
}

// Owner splits FullName into its owner half. Empty if FullName is malformed.
func (r Repository) Owner() string {
	owner, _ := splitFullName(r.FullName)
	return owner
}

// Name splits FullName into its repo half. Empty if FullName is malformed.
func (r Repository) Name() string {
	_, name := splitFullName(r.FullName)
	return name
}

func splitFullName(fullName string) (owner, name string) {
	for i := 0; i < len(fullName); i++ {
		if fullName[i] == '/' {
			return fullName[:i], fullName[i+1:]
		}
	}
	return "", ""
}
