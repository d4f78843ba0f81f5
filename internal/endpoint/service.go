package endpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/quiz"
)

// ServiceConfig controls the LLM-backed Service.
type ServiceConfig struct {
	// BaseTokens plus TokensPerQuestion × count is the response budget.
	BaseTokens        int
	TokensPerQuestion int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultServiceConfig returns recommended defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		BaseTokens:        256,
		TokensPerQuestion: 200,
		Temperature:       0.7,
	}
}

// Service generates question sets with an LLM provider. It is the
// server side of the endpoint.
type Service struct {
	provider llm.Provider
	config   ServiceConfig
	logger   *slog.Logger
}

// NewService creates a Service.
func NewService(provider llm.Provider, cfg ServiceConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: provider, config: cfg, logger: logger}
}

type questionSetOutput struct {
	Questions []quiz.Question `json:"questions"`
}

// Generate produces p.NumberOfQuestions validated questions. The returned
// envelope always has Success set; failures are returned as errors.
func (s *Service) Generate(ctx context.Context, p Payload) (*Envelope, error) {
	ctx = llm.WithPurpose(ctx, "question-gen")
	if p.UserID != "" {
		ctx = llm.WithRequester(ctx, p.UserID)
	}

	start := time.Now()

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(p.Content, p.NumberOfQuestions)},
		},
		Schema:      QuestionSetSchema,
		MaxTokens:   s.config.BaseTokens + s.config.TokensPerQuestion*p.NumberOfQuestions,
		Temperature: s.config.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var out questionSetOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	if err := quiz.ValidateSet(out.Questions); err != nil {
		return nil, err
	}
	if len(out.Questions) != p.NumberOfQuestions {
		return nil, fmt.Errorf("expected %d questions, got %d", p.NumberOfQuestions, len(out.Questions))
	}

	questions, err := json.Marshal(out.Questions)
	if err != nil {
		return nil, fmt.Errorf("encode questions: %w", err)
	}

	tokens := resp.Usage.TotalTokens
	if tokens == 0 {
		tokens = resp.Usage.InputTokens + resp.Usage.OutputTokens
	}
	elapsed := time.Since(start).Milliseconds()

	s.logger.DebugContext(ctx, "question set generated",
		"request_id", llm.RequestIDFrom(ctx),
		"model", resp.Model,
		"questions", len(out.Questions),
		"tokens", tokens,
		"elapsed_ms", elapsed,
	)

	return &Envelope{
		Success:   true,
		Questions: questions,
		Metadata: Metadata{
			TokensUsed:       tokens,
			GenerationTimeMs: &elapsed,
		},
	}, nil
}
