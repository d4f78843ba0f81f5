package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
// Results are returned newest first.
type QueryOpts struct {
	Limit       int       // max results (0 = unlimited)
	After       int64     // sequence > After
	Before      int64     // sequence < Before
	From        time.Time // timestamp >= From
	To          time.Time // timestamp <= To
	FailedOnly  bool      // only rows with success = false
	RequesterID string    // exact requester match when non-empty
}

// GenerationLogData is one audit record: the outcome of a single
// question-generation call plus the request that produced it.
type GenerationLogData struct {
	RequestID          string
	RequesterID        string
	Source             string
	MediaType          string
	ContentLength      int
	QuestionCount      int
	QuestionsGenerated int
	Attempts           int
	Success            bool
	TokensUsed         int
	ElapsedMs          int64
	WasTruncated       bool
	ErrorMessage       string
}

// GenerationLog is a stored audit record.
type GenerationLog struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	GenerationLogData
}

// GenerationStat aggregates audit records for one content source.
type GenerationStat struct {
	Source       string
	Calls        int
	Successes    int
	Truncated    int
	TokensUsed   int
	AvgElapsedMs int64
}

// GenerationLogRepo is the insert-only audit sink.
type GenerationLogRepo interface {
	// AppendGenerationLog writes one audit record.
	AppendGenerationLog(ctx context.Context, data GenerationLogData) error

	// QueryGenerationLogs returns stored records, newest first.
	QueryGenerationLogs(ctx context.Context, opts QueryOpts) ([]GenerationLog, error)

	// GenerationStats aggregates records by content source.
	GenerationStats(ctx context.Context) ([]GenerationStat, error)
}

// LLMRequestEventData captures a single provider call.
type LLMRequestEventData struct {
	RequestID    string
	Requester    string
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored provider call.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// PurposeUsage aggregates token usage and latency for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo records provider calls made by the generation endpoint.
type EventRepo interface {
	// AppendLLMRequest records a provider call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns stored calls, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one call by id, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// LLMUsageByPurpose aggregates token usage and latency per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
}
