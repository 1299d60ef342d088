package feedback

import "fmt"

// ciCheckNames fixes the check order so draws consume randomness
// deterministically under an injected source.
var ciCheckNames = [4]string{"lint", "tests", "security_scan", "build"}

// simulateCI draws results for the four pipeline checks. Each check has its
// own skip/fail odds; overall status is failed if any check failed, warning
// if any warned, else passed.
func simulateCI(rng Rand) CIResult {
	checks := make(map[string]CheckStatus, len(ciCheckNames))

	for _, name := range ciCheckNames {
		checks[name] = drawCheck(name, rng)
	}

	overall := CheckPassed
	for _, status := range checks {
		if status == CheckFailed {
			overall = CheckFailed
			break
		}
		if status == CheckWarning {
			overall = CheckWarning
		}
	}

	return CIResult{
		Checks:        checks,
		OverallStatus: overall,
		Details:       ciDetails(checks),
	}
}

func drawCheck(name string, rng Rand) CheckStatus {
	switch name {
	case "lint":
		if rng.Float64() <= 0.1 {
			return CheckSkipped
		}
		return pick(rng, CheckPassed, CheckFailed, CheckWarning)
	case "tests":
		if rng.Float64() <= 0.05 {
			return CheckSkipped
		}
		return pick(rng, CheckPassed, CheckFailed)
	case "security_scan":
		if rng.Float64() <= 0.02 {
			return CheckFailed
		}
		return pick(rng, CheckPassed, CheckWarning)
	default: // build
		return pick(rng, CheckPassed, CheckFailed)
	}
}

func pick(rng Rand, options ...CheckStatus) CheckStatus {
	return options[rng.Intn(len(options))]
}

func ciDetails(checks map[string]CheckStatus) []string {
	var details []string
	for _, name := range ciCheckNames {
		switch checks[name] {
		case CheckFailed:
			switch name {
			case "lint":
				details = append(details, "Linting failed: code style issues found")
			case "tests":
				details = append(details, "Tests failed: check test output for details")
			case "security_scan":
				details = append(details, "Security scan failed: potential vulnerability detected in dependencies")
			case "build":
				details = append(details, "Build failed: compilation errors found")
			}
		case CheckWarning:
			switch name {
			case "lint":
				details = append(details, "Linting warnings: minor style issues detected")
			case "security_scan":
				details = append(details, "Security scan: low-priority security notice")
			}
		case CheckPassed:
			details = append(details, fmt.Sprintf("%s check passed", name))
		}
	}
	return details
}
