package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiModelMapping(t *testing.T) {
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-flash", geminiModels))
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-2.0-flash", geminiModels))
}

func TestBuildGeminiSchema_QuestionSet(t *testing.T) {
	schema := buildGeminiSchema(questionSetSchema().Definition)

	assert.EqualValues(t, "OBJECT", schema.Type)
	assert.Equal(t, []string{"questions"}, schema.Required)

	questions := schema.Properties["questions"]
	require.NotNil(t, questions)
	assert.EqualValues(t, "ARRAY", questions.Type)
	require.NotNil(t, questions.MinItems)
	assert.EqualValues(t, 1, *questions.MinItems)
	assert.Nil(t, questions.MaxItems)

	question := questions.Items
	require.NotNil(t, question)
	assert.ElementsMatch(t, []string{"question_text", "options"}, question.Required)
	require.NotNil(t, question.Properties["question_text"].MinLength)
	assert.EqualValues(t, 1, *question.Properties["question_text"].MinLength)

	options := question.Properties["options"]
	require.NotNil(t, options.MinItems)
	require.NotNil(t, options.MaxItems)
	assert.EqualValues(t, 4, *options.MinItems)
	assert.EqualValues(t, 4, *options.MaxItems)
	assert.EqualValues(t, "BOOLEAN", options.Items.Properties["is_correct"].Type)
}

func TestBuildGeminiSchema_Enum(t *testing.T) {
	schema := buildGeminiSchema(map[string]any{
		"type": "string",
		"enum": []any{"manual_text", "file_upload"},
	})
	assert.EqualValues(t, "STRING", schema.Type)
	assert.Equal(t, []string{"manual_text", "file_upload"}, schema.Enum)
}
