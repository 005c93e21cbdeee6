package store

import (
	"context"
	"time"

	"github.com/abhisek/triviaz/internal/state"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match ("" = any)
	From    time.Time // timestamp >= From
}

// ProfileSummary describes a stored identity without decoding its history.
type ProfileSummary struct {
	Name      string
	UpdatedAt time.Time
	Active    bool
}

// ProfileRepo persists one session per identity. It satisfies
// state.Persister.
type ProfileRepo interface {
	state.Persister

	// List returns every stored identity, most recently updated first.
	List(ctx context.Context) ([]ProfileSummary, error)

	// Delete removes an identity and clears it as active if needed.
	// It reports whether a profile existed.
	Delete(ctx context.Context, identity string) (bool, error)
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

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo records and reads back LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns nil when id does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)
}
