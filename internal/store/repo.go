package store

import (
	"context"
	"time"

	"github.com/abhisek/coinquest/internal/account"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
	Kind   EventKind // only this kind when set
}

// AccountRepo persists learner accounts keyed by username.
type AccountRepo interface {
	// Load returns the account, or ErrNotFound.
	Load(ctx context.Context, username string) (*account.Account, error)

	// Save inserts or replaces the account.
	Save(ctx context.Context, a *account.Account) error

	// Delete removes the account, or returns ErrNotFound.
	Delete(ctx context.Context, username string) error

	// List returns every stored account ordered by xp, highest first.
	List(ctx context.Context) ([]*account.Account, error)
}

// EventKind names a progress event.
type EventKind string

const (
	KindActivate       EventKind = "activate"
	KindRegister       EventKind = "register"
	KindLessonStart    EventKind = "lesson_start"
	KindAnswer         EventKind = "answer"
	KindLessonComplete EventKind = "lesson_complete"
	KindLessonExit     EventKind = "lesson_exit"
	KindBadge          EventKind = "badge"
	KindPurchase       EventKind = "purchase"
)

// ProgressEvent is one entry in a learner's append-only history.
type ProgressEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	Username  string
	SessionID string
	Kind      EventKind
	Lesson    string
	Detail    map[string]any
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
}

// EventRepo provides append and query access to events.
type EventRepo interface {
	// Append records a progress event and assigns its sequence number.
	Append(ctx context.Context, ev *ProgressEvent) error

	// Query returns a learner's events in sequence order.
	Query(ctx context.Context, username string, opts QueryOpts) ([]ProgressEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}
