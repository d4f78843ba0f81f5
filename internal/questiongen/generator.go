// Package questiongen turns content into a validated set of multiple-choice
// questions by calling the generation endpoint with bounded retries.
package questiongen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/abhisek/quizgen/internal/endpoint"
	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/store"
)

// Backend is the remote generation endpoint.
type Backend interface {
	Complete(ctx context.Context, p endpoint.Payload) (*endpoint.Envelope, error)
}

// Generator calls a Backend and validates what it returns.
type Generator struct {
	backend Backend
	audit   Emitter
	config  Config
	logger  *slog.Logger

	// wait suspends between attempts. Replaced in tests.
	wait func(ctx context.Context, d time.Duration) error
	now  func() time.Time
}

// New creates a Generator. audit may be nil.
func New(backend Backend, audit Emitter, cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Generator{
		backend: backend,
		audit:   audit,
		config:  cfg,
		logger:  logger,
		wait:    sleep,
		now:     time.Now,
	}
}

// Generate produces req.QuestionCount questions about req.Content. It
// always returns an outcome; failures are reported in it. Every call that
// reaches the backend emits exactly one audit entry.
func (g *Generator) Generate(ctx context.Context, req quiz.GenerationRequest) quiz.Outcome {
	if req.Content.Empty() {
		return quiz.Outcome{ErrorMessage: "content is required"}
	}
	if req.QuestionCount < quiz.MinQuestions || req.QuestionCount > quiz.MaxQuestions {
		return quiz.Outcome{
			ErrorMessage: fmt.Sprintf("question count must be between %d and %d", quiz.MinQuestions, quiz.MaxQuestions),
		}
	}

	callID := uuid.NewString()
	logger := g.logger.With("call_id", callID)
	ctx = llm.WithRequestID(ctx, callID)

	content, truncated := truncate(req.Content.Text, g.config.MaxContentChars)
	if truncated {
		logger.InfoContext(ctx, "content truncated",
			"chars", utf8.RuneCountInString(req.Content.Text),
			"limit", g.config.MaxContentChars,
		)
	}

	payload := endpoint.Payload{
		Content:           content,
		NumberOfQuestions: req.QuestionCount,
		UserID:            req.RequesterID,
	}

	start := g.now()
	var (
		questions []quiz.Question
		meta      endpoint.Metadata
		lastErr   error
		attempts  int
	)

	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		attempts = attempt
		questions, meta, lastErr = g.attempt(ctx, payload)
		if lastErr == nil || attempt == g.config.MaxAttempts || ctx.Err() != nil {
			break
		}

		delay := time.Duration(attempt) * g.config.BackoffUnit
		logger.WarnContext(ctx, "generation attempt failed",
			"attempt", attempt,
			"delay", delay,
			"error", lastErr,
		)
		if err := g.wait(ctx, delay); err != nil {
			lastErr = fmt.Errorf("%w (last error: %v)", err, lastErr)
			break
		}
	}

	elapsed := g.now().Sub(start).Milliseconds()

	outcome := quiz.Outcome{
		WasTruncated: truncated,
		Attempts:     attempts,
		ElapsedMs:    elapsed,
	}
	if lastErr != nil {
		outcome.ErrorMessage = lastErr.Error()
		logger.ErrorContext(ctx, "generation failed",
			"attempts", attempts,
			"elapsed_ms", elapsed,
			"error", lastErr,
		)
	} else {
		outcome.Success = true
		outcome.Questions = questions
		outcome.TokensUsed = meta.TokensUsed
		if meta.GenerationTimeMs != nil {
			outcome.ElapsedMs = *meta.GenerationTimeMs
		}
		logger.InfoContext(ctx, "generation succeeded",
			"attempts", attempts,
			"questions", len(questions),
			"tokens", outcome.TokensUsed,
			"elapsed_ms", outcome.ElapsedMs,
		)
	}

	g.emit(callID, req, outcome)
	return outcome
}

// attempt makes one remote call and validates the result.
func (g *Generator) attempt(ctx context.Context, p endpoint.Payload) ([]quiz.Question, endpoint.Metadata, error) {
	env, err := g.backend.Complete(ctx, p)
	if err != nil {
		return nil, endpoint.Metadata{}, err
	}

	var raw any
	if len(env.Questions) > 0 {
		if err := json.Unmarshal(env.Questions, &raw); err != nil {
			return nil, endpoint.Metadata{}, fmt.Errorf("decode questions: %w", err)
		}
	}
	if err := quiz.Check(raw); err != nil {
		return nil, endpoint.Metadata{}, err
	}

	// encoding/json matches keys case-insensitively, so a duplicate key in
	// another case can override a checked value. Validate what was decoded.
	var questions []quiz.Question
	if err := json.Unmarshal(env.Questions, &questions); err != nil {
		return nil, endpoint.Metadata{}, fmt.Errorf("decode questions: %w", err)
	}
	if err := quiz.ValidateSet(questions); err != nil {
		return nil, endpoint.Metadata{}, err
	}
	return questions, env.Metadata, nil
}

func (g *Generator) emit(callID string, req quiz.GenerationRequest, o quiz.Outcome) {
	if g.audit == nil {
		return
	}
	g.audit.Emit(store.GenerationLogData{
		RequestID:          callID,
		RequesterID:        req.RequesterID,
		Source:             string(req.Content.Source),
		MediaType:          req.Content.MediaType,
		ContentLength:      utf8.RuneCountInString(req.Content.Text),
		QuestionCount:      req.QuestionCount,
		QuestionsGenerated: len(o.Questions),
		Attempts:           o.Attempts,
		Success:            o.Success,
		TokensUsed:         o.TokensUsed,
		ElapsedMs:          o.ElapsedMs,
		WasTruncated:       o.WasTruncated,
		ErrorMessage:       o.ErrorMessage,
	})
}

// truncate cuts s to at most limit characters.
func truncate(s string, limit int) (string, bool) {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s, false
	}
	i := 0
	for n := 0; n < limit; n++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i], true
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
