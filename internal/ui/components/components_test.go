package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/quizgen/internal/quiz"
)

func TestRatioBar_Ratio(t *testing.T) {
	tests := []struct {
		part, whole int
		want        float64
	}{
		{3, 4, 0.75},
		{0, 0, 0},
		{5, 4, 1},
		{-1, 4, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NewRatioBar("", tt.part, tt.whole, 40).Ratio(), 1e-9)
	}
}

func TestRatioBar_View(t *testing.T) {
	out := NewRatioBar("success", 3, 4, 40).View()
	assert.Contains(t, out, "success")
	assert.Contains(t, out, "3/4 (75%)")
}

func TestMultiChoice_View(t *testing.T) {
	q := quiz.Question{
		Text: "Which gas do plants absorb?",
		Options: []quiz.Option{
			{Text: "Oxygen"},
			{Text: "Carbon dioxide", IsCorrect: true},
			{Text: "Nitrogen"},
			{Text: "Helium"},
		},
	}

	revealed := NewMultiChoice(2, q, true).View()
	assert.Contains(t, revealed, "2. Which gas do plants absorb?")
	assert.Contains(t, revealed, "B)  Carbon dioxide  ✓")
	assert.Contains(t, revealed, "D)  Helium")

	hidden := NewMultiChoice(2, q, false).View()
	assert.NotContains(t, hidden, "✓")
}
