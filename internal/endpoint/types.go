// Package endpoint defines the remote question-generation endpoint: its wire
// types, an HTTP client for calling it and a server implementation backed by
// an LLM provider.
package endpoint

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Payload is the request body sent to the endpoint.
type Payload struct {
	Content           string `json:"content"`
	NumberOfQuestions int    `json:"numberOfQuestions"`
	UserID            string `json:"userId"`
}

// Envelope is the response body. Success selects which of Questions or
// Error is meaningful.
type Envelope struct {
	Success bool `json:"success"`

	// Questions is left undecoded so callers can run structural validation
	// on the raw shape before trusting it.
	Questions json.RawMessage `json:"questions,omitempty"`

	Metadata Metadata `json:"metadata"`
	Error    string   `json:"error,omitempty"`
}

// Metadata reports server-side accounting for a generation.
type Metadata struct {
	TokensUsed int `json:"tokensUsed"`

	// GenerationTimeMs is nil when the server did not report timing.
	GenerationTimeMs *int64 `json:"generationTimeMs,omitempty"`
}

// envelopeSchemaDef is the boundary contract for a response body. Question
// shape is checked separately by quiz.Check.
var envelopeSchemaDef = map[string]any{
	"type":     "object",
	"required": []any{"success"},
	"properties": map[string]any{
		"success":   map[string]any{"type": "boolean"},
		"questions": map[string]any{"type": "array"},
		"metadata": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tokensUsed":       map[string]any{"type": "integer", "minimum": 0},
				"generationTimeMs": map[string]any{"type": "integer", "minimum": 0},
			},
		},
		"error": map[string]any{"type": "string"},
	},
}

var envelopeSchema = mustCompile("envelope", envelopeSchemaDef)

func mustCompile(name string, def map[string]any) *jsonschema.Schema {
	// Round-trip through JSON so the compiler sees plain decoded values.
	raw, err := json.Marshal(def)
	if err != nil {
		panic(fmt.Sprintf("marshal %s schema: %v", name, err))
	}
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("parse %s schema: %v", name, err))
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, parsed); err != nil {
		panic(fmt.Sprintf("add %s schema: %v", name, err))
	}
	return c.MustCompile(url)
}

// decodeEnvelope validates body against the envelope schema and decodes it.
func decodeEnvelope(body []byte) (*Envelope, error) {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return nil, &ErrInvalidEnvelope{Body: body, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := envelopeSchema.Validate(parsed); err != nil {
		return nil, &ErrInvalidEnvelope{Body: body, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &ErrInvalidEnvelope{Body: body, Err: err}
	}
	return &env, nil
}
