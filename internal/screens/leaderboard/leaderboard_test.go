package leaderboard

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coinquest/internal/account"
	"github.com/abhisek/coinquest/internal/catalog"
	"github.com/abhisek/coinquest/internal/engine"
	board "github.com/abhisek/coinquest/internal/leaderboard"
	"github.com/abhisek/coinquest/internal/profile"
	"github.com/abhisek/coinquest/internal/screen"
	"github.com/abhisek/coinquest/internal/store"
)

func newTestDeps(t *testing.T) (*screen.Deps, *store.Store) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	svc := profile.NewService(engine.New(catalog.Default()), st.AccountRepo(), st.EventRepo(), nil)
	p, _, _, err := svc.Login(context.Background(), "ada")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return &screen.Deps{Profile: svc, Player: p}, st
}

func load(t *testing.T, s *LeaderboardScreen, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	s.Update(cmd())
}

func right() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyRight} }
func left() tea.KeyPressMsg  { return tea.KeyPressMsg{Code: tea.KeyLeft} }

func TestWorldwideBoardPlacesLearnerLast(t *testing.T) {
	deps, _ := newTestDeps(t)
	s := New(deps)
	load(t, s, s.Init())

	want := len(board.Worldwide()) + 1
	if len(s.entries) != want {
		t.Fatalf("entries = %d, want %d", len(s.entries), want)
	}
	if pos := board.Position(s.entries); pos != want {
		t.Errorf("position = %d, want %d", pos, want)
	}
	view := s.View(100, 30)
	for _, sub := range []string{"[Worldwide]", "FinanceWizard", "← you"} {
		if !strings.Contains(view, sub) {
			t.Errorf("view missing %q", sub)
		}
	}
}

func TestTabsCycleThroughBoards(t *testing.T) {
	deps, st := newTestDeps(t)
	bob := account.New("bob")
	bob.AddXP(500)
	if err := st.AccountRepo().Save(context.Background(), bob); err != nil {
		t.Fatalf("save: %v", err)
	}

	s := New(deps)
	load(t, s, s.Init())

	_, cmd := s.Update(right())
	load(t, s, cmd)
	if s.tab != 1 || len(s.entries) != len(board.Friends())+1 {
		t.Fatalf("tab = %d entries = %d, want friends board", s.tab, len(s.entries))
	}

	_, cmd = s.Update(right())
	load(t, s, cmd)
	if s.tab != 2 {
		t.Fatalf("tab = %d, want local board", s.tab)
	}
	if len(s.entries) != 2 || s.entries[0].Username != "bob" || !s.entries[1].You {
		t.Fatalf("local entries = %+v", s.entries)
	}
	if !strings.Contains(s.View(100, 30), "[This device]") {
		t.Error("local tab should be selected")
	}

	_, cmd = s.Update(right())
	load(t, s, cmd)
	if s.tab != 0 {
		t.Errorf("tab = %d, want wrap to worldwide", s.tab)
	}
	_, cmd = s.Update(left())
	load(t, s, cmd)
	if s.tab != 2 {
		t.Errorf("tab = %d, want wrap back to local", s.tab)
	}
}

func TestStaleLoadIsIgnored(t *testing.T) {
	deps, _ := newTestDeps(t)
	s := New(deps)
	stale := s.Init()

	_, cmd := s.Update(right())
	load(t, s, cmd)
	friends := len(s.entries)

	s.Update(stale())
	if len(s.entries) != friends {
		t.Errorf("entries = %d after stale load, want %d", len(s.entries), friends)
	}
}
