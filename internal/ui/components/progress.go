package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/ui/theme"
)

// RatioBar draws Part out of Whole as a horizontal bar followed by the
// counts, e.g. a success rate.
type RatioBar struct {
	Label string
	Part  int
	Whole int
	Width int
}

// NewRatioBar creates a RatioBar of total width width.
func NewRatioBar(label string, part, whole, width int) RatioBar {
	return RatioBar{Label: label, Part: part, Whole: whole, Width: width}
}

// Ratio returns Part/Whole clamped to [0, 1]. An empty Whole is 0.
func (r RatioBar) Ratio() float64 {
	if r.Whole <= 0 {
		return 0
	}
	return max(0, min(1, float64(r.Part)/float64(r.Whole)))
}

// View renders the bar.
func (r RatioBar) View() string {
	var b strings.Builder
	if r.Label != "" {
		b.WriteString(theme.Body.Render(r.Label))
		b.WriteString("  ")
	}

	counts := fmt.Sprintf("  %d/%d (%d%%)", r.Part, r.Whole, int(r.Ratio()*100))
	barWidth := max(4, r.Width-lipgloss.Width(b.String())-lipgloss.Width(counts))

	filled := int(float64(barWidth) * r.Ratio())
	b.WriteString(theme.ProgressFilled.Render(strings.Repeat(" ", filled)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)))
	b.WriteString(theme.Label.Render(counts))
	return b.String()
}
