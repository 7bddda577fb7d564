package settings

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coinquest/internal/account"
	"github.com/abhisek/coinquest/internal/catalog"
	"github.com/abhisek/coinquest/internal/engine"
	"github.com/abhisek/coinquest/internal/profile"
	"github.com/abhisek/coinquest/internal/screen"
	"github.com/abhisek/coinquest/internal/store"
)

func newTestDeps(t *testing.T, caps ...string) *screen.Deps {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	a := account.New("ada")
	for _, c := range caps {
		a.AddCapability(c)
	}
	if err := st.AccountRepo().Save(ctx, a); err != nil {
		t.Fatalf("save: %v", err)
	}
	svc := profile.NewService(engine.New(catalog.Default()), st.AccountRepo(), st.EventRepo(), nil)
	p, err := svc.Open(ctx, "ada")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return &screen.Deps{Profile: svc, Player: p}
}

func TestNextType(t *testing.T) {
	tests := map[string]string{
		account.TypeHome:    account.TypeStudent,
		account.TypeStudent: account.TypeTeacher,
		account.TypeTeacher: account.TypeHome,
		"":                  account.TypeHome,
	}
	for in, want := range tests {
		if got := NextType(in); got != want {
			t.Errorf("NextType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCycleTypePersists(t *testing.T) {
	deps := newTestDeps(t)
	s := New(deps)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	s.Update(cmd())
	if s.failed {
		t.Fatalf("save failed: %s", s.notice)
	}

	stored, err := deps.Profile.Open(context.Background(), "ada")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := stored.Snapshot().Account.AccountType; got != account.TypeStudent {
		t.Errorf("stored type = %q, want %q", got, account.TypeStudent)
	}
}

func TestAvatarLockedWithoutItem(t *testing.T) {
	s := New(newTestDeps(t))
	if !s.menu.Items[1].Disabled {
		t.Error("avatar row should be disabled without the custom avatar item")
	}
	if !strings.Contains(s.View(100, 30), "buy Custom Avatar") {
		t.Error("view should explain how to unlock the avatar")
	}
}

func TestEditAvatar(t *testing.T) {
	deps := newTestDeps(t, account.CapabilityCustomAvatar)
	s := New(deps)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.editing || !s.HandlesBack() {
		t.Fatal("enter on the avatar row should open the editor")
	}

	s.input.Model.SetValue("🦉")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	s.Update(cmd())

	if s.editing || s.failed {
		t.Fatalf("editing = %v, notice = %q", s.editing, s.notice)
	}
	if got := deps.Player.Snapshot().Account.Avatar; got != "🦉" {
		t.Errorf("avatar = %q", got)
	}
}

func TestEscCancelsEditor(t *testing.T) {
	s := New(newTestDeps(t, account.CapabilityCustomAvatar))
	s.openEditor()
	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.editing {
		t.Error("esc should close the editor")
	}
}
