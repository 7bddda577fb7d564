package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter manages the global monotonic sequence number shared by
// every event table, so progress events and LLM request events can be
// ordered against each other.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo on top of the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) Append(ctx context.Context, ev *ProgressEvent) error {
	if ev.Username == "" {
		return fmt.Errorf("append %s event: username required", ev.Kind)
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	detail := []byte("{}")
	if len(ev.Detail) > 0 {
		if detail, err = json.Marshal(ev.Detail); err != nil {
			return fmt.Errorf("encode event detail: %w", err)
		}
	}

	query, args := builder().
		Insert("progress_events").
		Columns("sequence", "timestamp", "username", "session_id", "kind", "lesson", "detail").
		Values(seqNum, ev.Timestamp.UnixNano(), ev.Username, ev.SessionID, string(ev.Kind), ev.Lesson, string(detail)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save %s event: %w", ev.Kind, err)
	}
	if id, err := res.LastInsertId(); err == nil {
		ev.ID = id
	}
	ev.Sequence = seqNum
	return nil
}

func (r *eventRepo) Query(ctx context.Context, username string, opts QueryOpts) ([]ProgressEvent, error) {
	sel := builder().
		Select("id", "sequence", "timestamp", "username", "session_id", "kind", "lesson", "detail").
		From(entsql.Table("progress_events")).
		Where(entsql.EQ("username", username))

	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UnixNano()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UnixNano()))
	}
	if opts.Kind != "" {
		sel.Where(entsql.EQ("kind", string(opts.Kind)))
	}
	sel.OrderBy("sequence")
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []ProgressEvent
	for rows.Next() {
		var (
			ev     ProgressEvent
			ts     int64
			kind   string
			detail string
		)
		if err := rows.Scan(&ev.ID, &ev.Sequence, &ts, &ev.Username, &ev.SessionID, &kind, &ev.Lesson, &detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Timestamp = time.Unix(0, ts)
		ev.Kind = EventKind(kind)
		if detail != "" && detail != "{}" {
			if err := json.Unmarshal([]byte(detail), &ev.Detail); err != nil {
				return nil, fmt.Errorf("decode event detail: %w", err)
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
