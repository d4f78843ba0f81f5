package quiz

import (
	"fmt"
	"strings"
)

// ValidationError describes the first structural rule a question list broke.
type ValidationError struct {
	Index   int    // Index of the offending question, -1 for the list itself
	Field   string // Offending field, e.g. "options[2].option_text"
	Message string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid question list: %s", e.Message)
	}
	return fmt.Sprintf("question %d: %s: %s", e.Index, e.Field, e.Message)
}

// Valid reports whether v is a structurally valid question list.
func Valid(v any) bool {
	return Check(v) == nil
}

// Check verifies a decoded JSON value claiming to be a question list.
// The whole list is rejected if any question or option breaks a rule.
func Check(v any) error {
	list, ok := v.([]any)
	if !ok {
		return &ValidationError{Index: -1, Message: "not a list"}
	}
	if len(list) == 0 {
		return &ValidationError{Index: -1, Message: "list is empty"}
	}

	for i, item := range list {
		q, ok := item.(map[string]any)
		if !ok {
			return &ValidationError{Index: i, Field: "question", Message: "not an object"}
		}
		if !nonBlankString(q["question_text"]) {
			return &ValidationError{Index: i, Field: "question_text", Message: "missing or empty"}
		}

		opts, ok := q["options"].([]any)
		if !ok {
			return &ValidationError{Index: i, Field: "options", Message: "not a list"}
		}
		if len(opts) != OptionsPerQuestion {
			return &ValidationError{
				Index:   i,
				Field:   "options",
				Message: fmt.Sprintf("expected %d options, got %d", OptionsPerQuestion, len(opts)),
			}
		}

		correct := 0
		for j, rawOpt := range opts {
			opt, ok := rawOpt.(map[string]any)
			if !ok {
				return &ValidationError{Index: i, Field: fmt.Sprintf("options[%d]", j), Message: "not an object"}
			}
			if !nonBlankString(opt["option_text"]) {
				return &ValidationError{Index: i, Field: fmt.Sprintf("options[%d].option_text", j), Message: "missing or empty"}
			}
			isCorrect, ok := opt["is_correct"].(bool)
			if !ok {
				return &ValidationError{Index: i, Field: fmt.Sprintf("options[%d].is_correct", j), Message: "not a boolean"}
			}
			if isCorrect {
				correct++
			}
		}
		if correct != 1 {
			return &ValidationError{
				Index:   i,
				Field:   "options",
				Message: fmt.Sprintf("expected exactly 1 correct option, got %d", correct),
			}
		}
	}

	return nil
}

// ValidateSet applies the same rules as Check to typed questions.
func ValidateSet(qs []Question) error {
	if len(qs) == 0 {
		return &ValidationError{Index: -1, Message: "list is empty"}
	}
	for i, q := range qs {
		if strings.TrimSpace(q.Text) == "" {
			return &ValidationError{Index: i, Field: "question_text", Message: "missing or empty"}
		}
		if len(q.Options) != OptionsPerQuestion {
			return &ValidationError{
				Index:   i,
				Field:   "options",
				Message: fmt.Sprintf("expected %d options, got %d", OptionsPerQuestion, len(q.Options)),
			}
		}
		correct := 0
		for j, o := range q.Options {
			if strings.TrimSpace(o.Text) == "" {
				return &ValidationError{Index: i, Field: fmt.Sprintf("options[%d].option_text", j), Message: "missing or empty"}
			}
			if o.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return &ValidationError{
				Index:   i,
				Field:   "options",
				Message: fmt.Sprintf("expected exactly 1 correct option, got %d", correct),
			}
		}
	}
	return nil
}

func nonBlankString(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}
