package questiongen

import (
	"time"

	"github.com/abhisek/quizgen/internal/quiz"
)

// Config controls the Generator.
type Config struct {
	// MaxContentChars is the truncation limit in characters.
	MaxContentChars int

	// MaxAttempts is the total number of remote calls per Generate.
	MaxAttempts int

	// BackoffUnit is multiplied by the attempt number to get the wait
	// before the next attempt: 1×, then 2×, ...
	BackoffUnit time.Duration
}

// DefaultConfig returns the standard limits: 32,000 characters and three
// attempts with 1s and 2s waits between them.
func DefaultConfig() Config {
	return Config{
		MaxContentChars: quiz.MaxContentChars,
		MaxAttempts:     3,
		BackoffUnit:     time.Second,
	}
}
