package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/quizgen/internal/estimate"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/store"
)

func sampleQuestion() quiz.Question {
	return quiz.Question{
		Text: "What is the powerhouse of the cell?",
		Options: []quiz.Option{
			{Text: "Nucleus"},
			{Text: "Mitochondria", IsCorrect: true},
			{Text: "Ribosome"},
			{Text: "Golgi body"},
		},
	}
}

func TestOutcome_Success(t *testing.T) {
	out := Outcome(quiz.Outcome{
		Success:   true,
		Questions: []quiz.Question{sampleQuestion()},
		Attempts:  1,
		ElapsedMs: 850,
	}, true)

	assert.Contains(t, out, "1 questions generated")
	assert.Contains(t, out, "1. What is the powerhouse of the cell?")
	assert.Contains(t, out, "B)  Mitochondria")
	assert.Contains(t, out, "850ms")
	assert.NotContains(t, out, "truncated")
}

func TestOutcome_Failure(t *testing.T) {
	out := Outcome(quiz.Outcome{
		ErrorMessage: "question 0: options: expected 4 options, got 3",
		Attempts:     3,
		WasTruncated: true,
	}, false)

	assert.Contains(t, out, "generation failed")
	assert.Contains(t, out, "expected 4 options, got 3")
	assert.Contains(t, out, "truncated")
}

func TestOutcome_HidesAnswerUnlessRevealed(t *testing.T) {
	out := Outcome(quiz.Outcome{Success: true, Questions: []quiz.Question{sampleQuestion()}}, false)
	assert.False(t, strings.Contains(out, "✓\n") || strings.Contains(out, "Mitochondria  ✓"))
}

func TestEstimate(t *testing.T) {
	e := estimate.ForText(strings.Repeat("a", 40_000), "unknown-model")
	out := Estimate(e, 40_000)

	assert.Contains(t, out, "~10000")
	assert.Contains(t, out, "~5000")
	assert.Contains(t, out, "default rates")
	assert.Contains(t, out, "will be truncated")
}

func TestGenerationStats(t *testing.T) {
	out := GenerationStats([]store.GenerationStat{
		{Source: "manual_text", Calls: 4, Successes: 3, TokensUsed: 1200, AvgElapsedMs: 900},
	})

	assert.Contains(t, out, "manual_text")
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "900ms")
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0045", FormatCost(0.0045))
	assert.Equal(t, "$1.25", FormatCost(1.25))
}
