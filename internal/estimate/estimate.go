// Package estimate approximates token usage and cost for a piece of
// content. The numbers are advisory and never gate a generation request.
package estimate

import (
	"unicode/utf8"

	"github.com/abhisek/quizgen/internal/llm"
)

// CharsPerToken is the character-to-token ratio of the heuristic.
const CharsPerToken = 4

// OutputRatio is the assumed size of the response relative to the prompt.
const OutputRatio = 0.5

// Estimate is the projected usage and cost of one generation call.
type Estimate struct {
	Model        string
	Known        bool // false when Model was priced with the default entry
	InputTokens  int
	OutputTokens int
	InputUSD     float64
	OutputUSD    float64
	TotalUSD     float64
}

// Tokens returns ceil(characters / 4).
func Tokens(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + CharsPerToken - 1) / CharsPerToken
}

// Cost prices tokens input tokens for model, assuming the response is half
// the prompt size. Unknown models use the default pricing entry.
func Cost(tokens int, model string) Estimate {
	price, known := llm.CostOrDefault(model)
	output := int(float64(tokens) * OutputRatio)

	est := Estimate{
		Model:        model,
		Known:        known,
		InputTokens:  tokens,
		OutputTokens: output,
		InputUSD:     price.InputCost(float64(tokens)),
		OutputUSD:    price.OutputCost(float64(tokens) * OutputRatio),
	}
	est.TotalUSD = est.InputUSD + est.OutputUSD
	return est
}

// ForText estimates the cost of sending text to model.
func ForText(text, model string) Estimate {
	return Cost(Tokens(text), model)
}
