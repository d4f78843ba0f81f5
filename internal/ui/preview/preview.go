// Package preview renders generation results for the terminal.
package preview

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizgen/internal/estimate"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/store"
	"github.com/abhisek/quizgen/internal/ui/components"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

// Outcome renders a generation outcome: a summary card followed by the
// questions when it succeeded.
func Outcome(o quiz.Outcome, reveal bool) string {
	var b strings.Builder

	var summary strings.Builder
	if o.Success {
		summary.WriteString(theme.Correct.Render(fmt.Sprintf("✓ %d questions generated", len(o.Questions))))
	} else {
		summary.WriteString(theme.Incorrect.Render("✗ generation failed"))
	}
	summary.WriteString("\n")
	summary.WriteString(field("Attempts", fmt.Sprint(o.Attempts)))
	summary.WriteString(field("Tokens", fmt.Sprint(o.TokensUsed)))
	summary.WriteString(field("Elapsed", fmt.Sprintf("%dms", o.ElapsedMs)))
	if o.WasTruncated {
		summary.WriteString("\n")
		summary.WriteString(theme.Warning.Render("Content was truncated before sending."))
	}
	if o.ErrorMessage != "" {
		summary.WriteString("\n")
		summary.WriteString(theme.Incorrect.Render("Error: ") + theme.Body.Render(o.ErrorMessage))
	}

	b.WriteString(theme.Card.Render(strings.TrimRight(summary.String(), "\n")))
	b.WriteString("\n")

	for i, q := range o.Questions {
		b.WriteString("\n")
		b.WriteString(components.NewMultiChoice(i+1, q, reveal).View())
	}

	return b.String()
}

// Estimate renders a token and cost estimate for content of the given
// length in characters.
func Estimate(e estimate.Estimate, chars int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Estimate"))
	b.WriteString("\n")
	b.WriteString(field("Characters", fmt.Sprint(chars)))
	b.WriteString(field("Input tokens", fmt.Sprintf("~%d", e.InputTokens)))
	b.WriteString(field("Output tokens", fmt.Sprintf("~%d", e.OutputTokens)))
	b.WriteString(field("Model", e.Model))
	b.WriteString(field("Cost", FormatCost(e.TotalUSD)))
	if !e.Known {
		b.WriteString(theme.Hint.Render("No pricing for this model; default rates used."))
		b.WriteString("\n")
	}
	if chars > quiz.MaxContentChars {
		b.WriteString(theme.Warning.Render(fmt.Sprintf("Content exceeds %d characters and will be truncated.", quiz.MaxContentChars)))
		b.WriteString("\n")
	}

	return theme.Card.Render(strings.TrimRight(b.String(), "\n"))
}

// GenerationStats renders per-source audit aggregates.
func GenerationStats(stats []store.GenerationStat) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Generations by Source"))
	b.WriteString("\n")

	for _, st := range stats {
		b.WriteString("\n")
		b.WriteString(theme.Body.Bold(true).Render(st.Source))
		b.WriteString("\n")
		b.WriteString(components.NewRatioBar("success", st.Successes, st.Calls, 48).View())
		b.WriteString("\n")
		b.WriteString(field("Calls", fmt.Sprint(st.Calls)))
		b.WriteString(field("Truncated", fmt.Sprint(st.Truncated)))
		b.WriteString(field("Tokens", fmt.Sprint(st.TokensUsed)))
		b.WriteString(field("Avg elapsed", fmt.Sprintf("%dms", st.AvgElapsedMs)))
	}

	return b.String()
}

// FormatCost prints small amounts with four decimals.
func FormatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func field(label, value string) string {
	return theme.Label.Render(fmt.Sprintf("%-14s", label)) + theme.Body.Render(value) + "\n"
}
