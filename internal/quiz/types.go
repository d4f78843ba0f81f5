package quiz

import "strings"

// Bounds on the number of questions a single generation may request.
const (
	MinQuestions = 5
	MaxQuestions = 50

	// OptionsPerQuestion is the exact number of options every question carries.
	OptionsPerQuestion = 4

	// MaxContentChars is the longest content, in characters, sent for
	// generation. Longer content is truncated.
	MaxContentChars = 32_000
)

// Source records where a piece of content came from. Audit only.
type Source string

const (
	SourceManualText Source = "manual_text"
	SourceFileUpload Source = "file_upload"
)

// RawContent is user-supplied text plus its provenance.
type RawContent struct {
	// Text is the UTF-8 content. Must be non-empty after trimming.
	Text string

	// Source is manual_text or file_upload.
	Source Source

	// MediaType is the declared media type of the uploaded file, e.g.
	// "application/pdf". Empty for manual text.
	MediaType string
}

// Empty reports whether the content is blank after trimming.
func (c RawContent) Empty() bool {
	return strings.TrimSpace(c.Text) == ""
}

// GenerationRequest asks for QuestionCount questions about Content.
type GenerationRequest struct {
	Content       RawContent
	QuestionCount int
	RequesterID   string
}

// Question is a multiple-choice question. The JSON tags match the wire shape
// used by the generation endpoint.
type Question struct {
	Text    string   `json:"question_text"`
	Options []Option `json:"options"`
}

// Option is one answer choice of a Question.
type Option struct {
	Text      string `json:"option_text"`
	IsCorrect bool   `json:"is_correct"`
}

// Correct returns the index of the correct option, or -1 if none is marked.
func (q Question) Correct() int {
	for i, o := range q.Options {
		if o.IsCorrect {
			return i
		}
	}
	return -1
}

// Outcome is the terminal result of one generation call.
type Outcome struct {
	Success      bool
	Questions    []Question
	TokensUsed   int
	ElapsedMs    int64
	WasTruncated bool
	ErrorMessage string

	// Attempts is the number of remote calls made. Zero when the request
	// was rejected before reaching the network.
	Attempts int
}
