package estimate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"one char", "a", 1},
		{"exact multiple", "abcdefgh", 2},
		{"rounds up", "abcdefghi", 3},
		{"counts characters not bytes", strings.Repeat("é", 8), 2},
		{"large", strings.Repeat("x", 40_000), 10_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokens(tt.text))
		})
	}
}

func TestCost_KnownModel(t *testing.T) {
	est := Cost(1_000_000, "gpt-4o")

	assert.True(t, est.Known)
	assert.Equal(t, "gpt-4o", est.Model)
	assert.Equal(t, 1_000_000, est.InputTokens)
	assert.Equal(t, 500_000, est.OutputTokens)
	assert.InDelta(t, 2.5, est.InputUSD, 1e-9)
	assert.InDelta(t, 5.0, est.OutputUSD, 1e-9)
	assert.InDelta(t, 7.5, est.TotalUSD, 1e-9)
}

func TestCost_UnknownModelFallsBack(t *testing.T) {
	est := Cost(2_000_000, "no-such-model")

	assert.False(t, est.Known)
	assert.Equal(t, "no-such-model", est.Model)
	// gpt-4o-mini: $0.15 in, $0.60 out per MTok.
	assert.InDelta(t, 0.30, est.InputUSD, 1e-9)
	assert.InDelta(t, 0.60, est.OutputUSD, 1e-9)
	assert.InDelta(t, 0.90, est.TotalUSD, 1e-9)
}

func TestCost_Zero(t *testing.T) {
	est := Cost(0, "gpt-4o-mini")
	assert.Zero(t, est.OutputTokens)
	assert.Zero(t, est.TotalUSD)
}

func TestForText(t *testing.T) {
	text := strings.Repeat("word ", 800) // 4000 chars
	est := ForText(text, "gpt-4o-mini")

	assert.Equal(t, 1000, est.InputTokens)
	assert.Equal(t, 500, est.OutputTokens)
	assert.InDelta(t, 0.00015+0.0003, est.TotalUSD, 1e-12)
}
