package endpoint

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/quiz"
)

const systemPrompt = `You are an assessment writer creating multiple choice questions from study material.

Rules:
- Base every question only on the supplied content. Do not introduce outside facts.
- Each question must have exactly 4 options where exactly one is correct.
- Incorrect options should be plausible but clearly wrong to someone who understood the content.
- Avoid questions whose answer is given away in the question text.
- Do not repeat a question or ask the same fact twice.
- Write the questions in the same language as the content.`

// QuestionSetSchema is the structured output requested from the model.
var QuestionSetSchema = &llm.Schema{
	Name:        "question-set",
	Description: "A list of multiple choice questions, each with exactly 4 options and one correct answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question_text": map[string]any{
							"type":        "string",
							"description": "The question shown to the participant",
						},
						"options": map[string]any{
							"type":        "array",
							"description": "Exactly 4 answer options; exactly one has is_correct set to true",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"option_text": map[string]any{"type": "string"},
									"is_correct":  map[string]any{"type": "boolean"},
								},
								"required":             []any{"option_text", "is_correct"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"question_text", "options"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// buildUserMessage asks for n questions about content.
func buildUserMessage(content string, n int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d multiple choice questions about the following content.\n", n)
	fmt.Fprintf(&b, "Every question has exactly %d options.\n\n", quiz.OptionsPerQuestion)
	b.WriteString("Content:\n")
	b.WriteString(content)

	return b.String()
}
