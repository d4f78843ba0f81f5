package endpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/quiz"
)

func questionSetJSON(n, optionsEach int) json.RawMessage {
	var qs []map[string]any
	for i := 0; i < n; i++ {
		var opts []map[string]any
		for j := 0; j < optionsEach; j++ {
			opts = append(opts, map[string]any{
				"option_text": fmt.Sprintf("option %d", j),
				"is_correct":  j == 0,
			})
		}
		qs = append(qs, map[string]any{
			"question_text": fmt.Sprintf("question %d?", i),
			"options":       opts,
		})
	}
	raw, _ := json.Marshal(map[string]any{"questions": qs})
	return raw
}

func TestService_Generate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: questionSetJSON(5, 4),
		Usage:   llm.Usage{InputTokens: 300, OutputTokens: 700},
	})
	svc := NewService(mock, DefaultServiceConfig(), nil)

	env, err := svc.Generate(context.Background(), Payload{
		Content:           "The mitochondria is the powerhouse of the cell.",
		NumberOfQuestions: 5,
		UserID:            "u1",
	})
	require.NoError(t, err)

	assert.True(t, env.Success)
	assert.Equal(t, 1000, env.Metadata.TokensUsed)
	require.NotNil(t, env.Metadata.GenerationTimeMs)

	var qs []quiz.Question
	require.NoError(t, json.Unmarshal(env.Questions, &qs))
	assert.Len(t, qs, 5)

	require.Len(t, mock.Calls, 1)
	req := mock.Calls[0]
	assert.Equal(t, QuestionSetSchema, req.Schema)
	assert.Equal(t, 256+200*5, req.MaxTokens)
	assert.True(t, strings.Contains(req.Messages[0].Content, "Generate 5 multiple choice questions"))
	assert.True(t, strings.Contains(req.Messages[0].Content, "powerhouse of the cell"))
}

func TestService_RejectsMalformedQuestions(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: questionSetJSON(5, 3)})
	svc := NewService(mock, DefaultServiceConfig(), nil)

	_, err := svc.Generate(context.Background(), Payload{Content: "x", NumberOfQuestions: 5})
	var ve *quiz.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "options", ve.Field)
}

func TestService_RejectsWrongCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: questionSetJSON(4, 4)})
	svc := NewService(mock, DefaultServiceConfig(), nil)

	_, err := svc.Generate(context.Background(), Payload{Content: "x", NumberOfQuestions: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 5 questions, got 4")
}

func TestService_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider() // empty queue → unavailable
	svc := NewService(mock, DefaultServiceConfig(), nil)

	_, err := svc.Generate(context.Background(), Payload{Content: "x", NumberOfQuestions: 5})
	var pu *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &pu)
}

func TestService_UnparseableContent(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`not json`)})
	svc := NewService(mock, DefaultServiceConfig(), nil)

	_, err := svc.Generate(context.Background(), Payload{Content: "x", NumberOfQuestions: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse LLM response")
}

func TestLocal_WrapsErrors(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: questionSetJSON(5, 4)})
	local := Local{Gen: NewService(mock, DefaultServiceConfig(), nil)}

	env, err := local.Complete(context.Background(), Payload{Content: "x", NumberOfQuestions: 5})
	require.NoError(t, err)
	assert.True(t, env.Success)

	_, err = local.Complete(context.Background(), Payload{Content: "x", NumberOfQuestions: 5})
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, re.Message, "model provider unavailable")
}
