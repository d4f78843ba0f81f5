package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

// optionLabels name the four options of a question.
var optionLabels = []string{"A", "B", "C", "D"}

// MultiChoice renders one generated question with its options. The correct
// option is highlighted when RevealAnswer is set.
type MultiChoice struct {
	Number       int
	Question     quiz.Question
	RevealAnswer bool
}

// NewMultiChoice creates a question view numbered from 1.
func NewMultiChoice(number int, q quiz.Question, reveal bool) MultiChoice {
	return MultiChoice{Number: number, Question: q, RevealAnswer: reveal}
}

// View renders the question.
func (m MultiChoice) View() string {
	var b strings.Builder

	b.WriteString(theme.Body.Bold(true).Render(fmt.Sprintf("%d. %s", m.Number, m.Question.Text)))
	b.WriteString("\n")

	for i, opt := range m.Question.Options {
		label := fmt.Sprintf("%d", i+1)
		if i < len(optionLabels) {
			label = optionLabels[i]
		}
		line := fmt.Sprintf("   %s)  %s", label, opt.Text)

		switch {
		case m.RevealAnswer && opt.IsCorrect:
			b.WriteString(theme.Correct.Render(line + "  ✓"))
		case m.RevealAnswer:
			b.WriteString(theme.Label.Render(line))
		default:
			b.WriteString(theme.Option.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}
