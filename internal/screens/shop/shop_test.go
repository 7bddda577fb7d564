package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coinquest/internal/account"
	"github.com/abhisek/coinquest/internal/catalog"
	"github.com/abhisek/coinquest/internal/engine"
	"github.com/abhisek/coinquest/internal/profile"
	"github.com/abhisek/coinquest/internal/screen"
	domain "github.com/abhisek/coinquest/internal/shop"
	"github.com/abhisek/coinquest/internal/store"
)

func newTestDeps(t *testing.T, coins int) *screen.Deps {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	a := account.New("ada")
	a.Coins = coins
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

func TestNotice(t *testing.T) {
	item, _ := domain.Lookup("custom_avatar")
	rich := account.New("ada")
	rich.Coins = 50

	tests := []struct {
		name       string
		res        engine.Result
		err        error
		want       string
		wantFailed bool
	}{
		{"bought", engine.Result{Account: rich, Item: &item}, nil, "Bought 👤 Custom Avatar! 50 coins left.", false},
		{"short", engine.Result{}, &domain.InsufficientFundsError{Item: item.Name, Price: 200, Coins: 120}, "You need 80 more coins", true},
		{"owned", engine.Result{}, fmt.Errorf("purchase: %w", domain.ErrAlreadyOwned), "You already own that.", true},
		{"other", engine.Result{}, errors.New("disk full"), "Purchase failed: disk full", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, failed := Notice(tt.res, tt.err)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Notice() = %q, want it to contain %q", got, tt.want)
			}
			if failed != tt.wantFailed {
				t.Errorf("failed = %v, want %v", failed, tt.wantFailed)
			}
		})
	}
}

func TestBuyMarksItemOwned(t *testing.T) {
	deps := newTestDeps(t, 250)
	s := New(deps)
	if s.menu.Selected != 0 {
		t.Fatalf("selected = %d, want the first item", s.menu.Selected)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a purchase command")
	}
	s.Update(cmd())

	if s.failed {
		t.Fatalf("purchase failed: %s", s.notice)
	}
	a := deps.Player.Snapshot().Account
	if a.Coins != 50 || !a.HasCapability(account.CapabilityCustomAvatar) {
		t.Errorf("coins = %d, capabilities = %v", a.Coins, a.Capabilities)
	}
	if !s.menu.Items[0].Disabled {
		t.Error("owned item should be disabled")
	}

	evs, err := deps.Profile.History(context.Background(), "ada", store.QueryOpts{Kind: store.KindPurchase})
	if err != nil || len(evs) != 1 {
		t.Errorf("purchase events = %d, %v", len(evs), err)
	}
}

func TestBuyWithoutCoins(t *testing.T) {
	deps := newTestDeps(t, 100)
	s := New(deps)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())

	if !s.failed || !strings.Contains(s.notice, "100 more") {
		t.Errorf("notice = %q, failed = %v", s.notice, s.failed)
	}
	if !strings.Contains(s.View(100, 30), "need 100 more") {
		t.Error("view should show the shortfall")
	}
}
