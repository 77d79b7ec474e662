package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

// Document is an uploaded PDF after text extraction.
type Document struct {
	ID        string
	Name      string
	SizeBytes int64
	PageCount int
	CharCount int
	Text      string
	CreatedAt time.Time
}

// Generation is one set of questions produced from a document.
type Generation struct {
	ID            string
	DocumentID    string
	QuestionCount int // requested
	ParsedCount   int // recognised in Text
	Model         string
	Text          string
	InputTokens   int
	OutputTokens  int
	CreatedAt     time.Time
}

// ListOpts configures generation listing.
type ListOpts struct {
	Limit      int    // max results (0 = unlimited)
	Offset     int    // rows to skip
	DocumentID string // restrict to one document when set
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match when set
}

// DocumentRepo persists extracted documents.
type DocumentRepo interface {
	// Save stores doc, assigning ID and CreatedAt when unset.
	Save(ctx context.Context, doc *Document) error

	// Get returns the document with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (*Document, error)

	// Prune deletes documents created before cutoff together with their
	// generations and reports how many documents were removed.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// GenerationRepo persists generated question sets.
type GenerationRepo interface {
	// Save stores gen, assigning ID and CreatedAt when unset.
	Save(ctx context.Context, gen *Generation) error

	// Get returns the generation with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (*Generation, error)

	// List returns generations, newest first.
	List(ctx context.Context, opts ListOpts) ([]Generation, error)

	// Delete removes a generation. Unknown ids return ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
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

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	LLMRequestEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// UsageStats aggregates token usage for one purpose.
type UsageStats struct {
	Purpose      string `sql:"purpose"`
	Calls        int    `sql:"calls"`
	InputTokens  int    `sql:"input_tokens"`
	OutputTokens int    `sql:"output_tokens"`
	AvgLatencyMs int64  `sql:"avg_latency_ms"`
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string `sql:"model"`
	Calls        int    `sql:"calls"`
	InputTokens  int    `sql:"input_tokens"`
	OutputTokens int    `sql:"output_tokens"`
}

// EventRepo records and inspects LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns a single event or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates usage grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]UsageStats, error)

	// LLMUsageByModel aggregates usage grouped by model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
