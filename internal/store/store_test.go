package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/coinquest/internal/account"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is checked with a file-based DB below.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileDBUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "coinquest.db")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestAccountSaveLoad(t *testing.T) {
	s := openTestStore(t)
	repo := s.AccountRepo()
	ctx := context.Background()

	if _, err := repo.Load(ctx, "ada"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load missing = %v, want ErrNotFound", err)
	}

	a := account.New("ada")
	day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	a.LastLogin = &day
	a.Streak = 3
	a.AddXP(420)
	a.RecordCompletion("Budgeting Basics")
	a.RecordCompletion("Budgeting Basics")
	a.AddBadge("First Steps")

	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Load(ctx, "ada")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.XP != 420 || got.Level != 2 {
		t.Errorf("xp/level = %d/%d, want 420/2", got.XP, got.Level)
	}
	if len(got.CompletedLessons) != 2 {
		t.Errorf("completed = %v, want two replays", got.CompletedLessons)
	}
	if got.LastLogin == nil || !got.LastLogin.Equal(day) {
		t.Errorf("last_login = %v, want %v", got.LastLogin, day)
	}

	// Upsert replaces the record.
	got.AddCoins(50)
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save update: %v", err)
	}
	again, _ := repo.Load(ctx, "ada")
	if again.Coins != 150 {
		t.Errorf("coins = %d, want 150", again.Coins)
	}
}

func TestAccountSaveRejectsInvalid(t *testing.T) {
	s := openTestStore(t)
	repo := s.AccountRepo()
	ctx := context.Background()

	if err := repo.Save(ctx, account.New("")); err == nil {
		t.Error("expected error for empty username")
	}

	bad := account.New("ada")
	bad.CorrectAnswers = 5
	if err := repo.Save(ctx, bad); err == nil {
		t.Error("expected error for correct_answers > total_questions")
	}
}

func TestLoadRejectsCorruptRecord(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.DB().Exec(
		`INSERT INTO accounts (username, data, xp, updated_at) VALUES (?, ?, ?, ?)`,
		"eve", `{"username":"eve","level":9,"xp":0}`, 0, 0,
	)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, err = s.AccountRepo().Load(ctx, "eve")
	if err == nil || !strings.Contains(err.Error(), "corrupt account record") {
		t.Fatalf("Load = %v, want corrupt record error", err)
	}
}

func TestAccountListAndDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.AccountRepo()
	ctx := context.Background()

	for name, xp := range map[string]int{"ada": 300, "bob": 900, "cy": 100} {
		a := account.New(name)
		a.AddXP(xp)
		if err := repo.Save(ctx, a); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var names []string
	for _, a := range list {
		names = append(names, a.Username)
	}
	if strings.Join(names, ",") != "bob,ada,cy" {
		t.Errorf("List order = %v, want bob,ada,cy", names)
	}

	if err := repo.Delete(ctx, "ada"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, "ada"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestEventAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()
	base := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

	events := []*ProgressEvent{
		{Username: "ada", Kind: KindLessonStart, Lesson: "Budgeting Basics", SessionID: "s1", Timestamp: base},
		{Username: "ada", Kind: KindAnswer, Lesson: "Budgeting Basics", SessionID: "s1", Timestamp: base.Add(time.Minute), Detail: map[string]any{"correct": true}},
		{Username: "bob", Kind: KindRegister, Timestamp: base.Add(2 * time.Minute)},
		{Username: "ada", Kind: KindLessonExit, Lesson: "Budgeting Basics", SessionID: "s1", Timestamp: base.Add(3 * time.Minute)},
	}
	for _, ev := range events {
		if err := repo.Append(ctx, ev); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	for i := 1; i < len(events); i++ {
		if events[i].Sequence <= events[i-1].Sequence {
			t.Errorf("sequence not increasing: %d then %d", events[i-1].Sequence, events[i].Sequence)
		}
	}

	got, err := repo.Query(ctx, "ada", QueryOpts{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	if got[1].Detail["correct"] != true {
		t.Errorf("detail = %v, want correct=true", got[1].Detail)
	}
	if !got[0].Timestamp.Equal(base) {
		t.Errorf("timestamp = %v, want %v", got[0].Timestamp, base)
	}

	tests := []struct {
		name string
		opts QueryOpts
		want int
	}{
		{"limit", QueryOpts{Limit: 2}, 2},
		{"after", QueryOpts{After: events[0].Sequence}, 2},
		{"before", QueryOpts{Before: events[3].Sequence}, 2},
		{"from", QueryOpts{From: base.Add(30 * time.Second)}, 2},
		{"to", QueryOpts{To: base.Add(30 * time.Second)}, 1},
		{"kind", QueryOpts{Kind: KindAnswer}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Query(ctx, "ada", tt.opts)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}
}

func TestAppendRequiresUsername(t *testing.T) {
	s := openTestStore(t)
	if err := s.EventRepo().Append(context.Background(), &ProgressEvent{Kind: KindBadge}); err == nil {
		t.Error("expected error for event without username")
	}
}

func TestLLMRequestSharesSequence(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Success: true}); err != nil {
		t.Fatalf("AppendLLMRequest: %v", err)
	}
	ev := &ProgressEvent{Username: "ada", Kind: KindRegister}
	if err := repo.Append(ctx, ev); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ev.Sequence != 2 {
		t.Errorf("sequence = %d, want 2", ev.Sequence)
	}

	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM llm_requests`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("llm_requests = %d, want 1", n)
	}
}

func TestLLMUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, d := range []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "lesson-draft", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "lesson-draft", InputTokens: 300, OutputTokens: 0, LatencyMs: 400, ErrorMessage: "boom"},
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "lesson-draft", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true},
	} {
		if err := repo.AppendLLMRequest(ctx, d); err != nil {
			t.Fatalf("AppendLLMRequest: %v", err)
		}
	}

	usage, err := s.LLMUsage(ctx)
	if err != nil {
		t.Fatalf("LLMUsage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("len(usage) = %d, want 2", len(usage))
	}
	got := usage[0]
	want := ModelUsage{Model: "gpt-4o-mini", Purpose: "lesson-draft", Calls: 2, Failures: 1, InputTokens: 400, OutputTokens: 50, AvgLatencyMs: 300}
	if got != want {
		t.Errorf("usage[0] = %+v, want %+v", got, want)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("COINQUEST_DB", filepath.Join(dir, "explicit", "x.db"))
	p, err := DefaultDBPath()
	if err != nil || p != filepath.Join(dir, "explicit", "x.db") {
		t.Errorf("DefaultDBPath() = %q, %v", p, err)
	}

	t.Setenv("COINQUEST_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil || p != filepath.Join(dir, "coinquest", "coinquest.db") {
		t.Errorf("DefaultDBPath() = %q, %v", p, err)
	}
}
