package feedback

// scenarioDef is one initial-reception bucket with its base draw weight and
// the canned feedback it produces.
type scenarioDef struct {
	scenario      Scenario
	probability   float64
	checks        CheckStatus
	comments      []string
	sentiment     Sentiment
	estimatedTime string
}

var scenarioDefs = []scenarioDef{
	{
		scenario:    ScenarioPositiveReception,
		probability: 0.4,
		checks:      CheckPassed,
		comments: []string{
			"Thanks for the contribution! The PR looks good at first glance.",
			"Automated tests are passing. Will review in detail soon.",
		},
		sentiment:     SentimentPositive,
		estimatedTime: "2-3 days",
	},
	{
		scenario:    ScenarioNeedsChanges,
		probability: 0.35,
		checks:      CheckFailed,
		comments: []string{
			"Thanks for the PR! There are a few issues that need to be addressed:",
			"Code style doesn't match project conventions",
			"Missing tests for edge cases",
			"Please update the documentation",
		},
		sentiment:     SentimentConstructive,
		estimatedTime: "1-2 days",
	},
	{
		scenario:    ScenarioNeutralPending,
		probability: 0.2,
		checks:      CheckRunning,
		comments: []string{
			"PR received. Will review when I have time.",
			"Please be patient, we have a backlog of PRs to review.",
		},
		sentiment:     SentimentNeutral,
		estimatedTime: "5-7 days",
	},
	{
		scenario:    ScenarioImmediateMerge,
		probability: 0.05,
		checks:      CheckPassed,
		comments: []string{
			"Perfect! This is exactly what we needed.",
			"Merging immediately. Thanks for the quick fix!",
		},
		sentiment:     SentimentEnthusiastic,
		estimatedTime: "immediate",
	},
}

var positiveComments = []string{
	"Great work! This addresses the issue perfectly.",
	"Clean implementation. I like the approach you've taken.",
	"Thanks for adding comprehensive tests. Much appreciated!",
	"Documentation looks good. This will help users a lot.",
	"Nice catch on the edge case handling.",
}

var constructiveComments = []string{
	"The logic looks good, but could you add error handling for edge cases?",
	"Consider using a more descriptive variable name here.",
	"This function is getting a bit long. Maybe split it into smaller functions?",
	"Could you add a comment explaining what this function does?",
	"The tests look good, but we're missing coverage for the error path.",
}

var neutralComments = []string{
	"Code looks fine overall.",
	"Thanks for the contribution.",
	"Please rebase on the latest main branch.",
	"Could you resolve the merge conflicts?",
	"Looks good, just waiting for CI to pass.",
}

var changeRequestPool = []string{
	"Please add unit tests for the new functionality",
	"Code style doesn't match our conventions. Run the formatter",
	"Add documentation comments to all public functions",
	"Consider edge cases: what happens with empty input?",
	"Please update the changelog with your changes",
	"The commit message should follow our format: 'type(scope): description'",
	"Add type annotations to function parameters and return values",
	"Consider performance implications for large datasets",
	"Please add error handling for network timeouts",
	"Update the README to document the new feature",
}

// knownOutcomes maps terminal statuses to their descriptors. Statuses not
// listed here get a generic fallback descriptor.
var knownOutcomes = map[Status]Outcome{
	StatusMerged: {
		Status:      string(StatusMerged),
		Success:     true,
		Description: "Contribution was successfully merged!",
		Impact:      "Your code is now part of the project and helping users.",
	},
	StatusApproved: {
		Status:      string(StatusApproved),
		Success:     true,
		Description: "Contribution was approved and ready for merge.",
		Impact:      "Great work! The maintainers liked your contribution.",
	},
	StatusChangesRequested: {
		Status:      "needs_revision",
		Success:     false,
		Description: "Contribution needs changes before it can be merged.",
		Impact:      "Good learning opportunity to improve the code based on feedback.",
	},
	StatusStale: {
		Status:      string(StatusStale),
		Success:     false,
		Description: "Contribution became stale due to inactivity.",
		Impact:      "Consider reviving with updates or creating a new PR.",
	},
	StatusClosed: {
		Status:      string(StatusClosed),
		Success:     false,
		Description: "Contribution was closed without merging.",
		Impact:      "Learning experience. Consider the feedback for future contributions.",
	},
}

func outcomeFor(status Status) Outcome {
	if outcome, ok := knownOutcomes[status]; ok {
		return outcome
	}
	return Outcome{
		Status:      string(status),
		Success:     false,
		Description: "Contribution ended with status: " + string(status),
		Impact:      "Mixed results. Consider this experience for future contributions.",
	}
}

func lessonsFor(outcome Outcome) []string {
	if outcome.Success {
		return []string{
			"Successful contribution! This approach worked well.",
			"Good code quality and documentation helped with acceptance.",
			"Engaging with maintainers early made the process smoother.",
		}
	}
	return []string{
		"Consider spending more time on initial code quality.",
		"Better communication with maintainers could improve outcomes.",
		"More comprehensive testing might have helped.",
		"Understanding project conventions is crucial for acceptance.",
	}
}
