package main

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	failColor    = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

func printHeader(format string, args ...any) {
	headerColor.Printf(format+"\n", args...)
}

func printKV(label string, format string, args ...any) {
	fmt.Printf("  %s %s\n", boldColor.Sprintf("%s:", label), fmt.Sprintf(format, args...))
}

// statusColor picks a color for a simulated review or CI status string.
func statusColor(status string) *color.Color {
	switch status {
	case "merged", "approved", "passed":
		return successColor
	case "closed", "failed", "stale":
		return failColor
	case "changes_requested", "needs_rebase", "warning":
		return warnColor
	default:
		return dimColor
	}
}

// scoreColor grades a 0-1 score.
func scoreColor(score float64) *color.Color {
	switch {
	case score >= 0.7:
		return successColor
	case score >= 0.4:
		return warnColor
	default:
		return failColor
	}
}
