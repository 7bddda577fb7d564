// Package shop lets the learner spend coins.
package shop

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coinquest/internal/engine"
	"github.com/abhisek/coinquest/internal/screen"
	domain "github.com/abhisek/coinquest/internal/shop"
	"github.com/abhisek/coinquest/internal/store"
	"github.com/abhisek/coinquest/internal/ui/components"
	"github.com/abhisek/coinquest/internal/ui/layout"
	"github.com/abhisek/coinquest/internal/ui/theme"
)

type purchaseMsg struct {
	res engine.Result
	err error
}

// ShopScreen lists items with price and ownership.
type ShopScreen struct {
	deps   *screen.Deps
	menu   components.Menu
	busy   bool
	notice string
	failed bool
}

var _ screen.Screen = (*ShopScreen)(nil)

func New(deps *screen.Deps) *ShopScreen {
	s := &ShopScreen{deps: deps}
	s.rebuild()
	return s
}

func (s *ShopScreen) Init() tea.Cmd { return nil }

func (s *ShopScreen) Title() string { return "Shop" }

func (s *ShopScreen) rebuild() {
	a := s.deps.Player.Snapshot().Account
	var items []components.MenuItem
	for _, it := range domain.Items() {
		id := it.ID
		detail := fmt.Sprintf("🪙 %d", it.Price)
		owned := domain.Owned(a, it)
		if owned {
			detail = "owned"
		} else if a.Coins < it.Price {
			detail += fmt.Sprintf(" (need %d more)", it.Price-a.Coins)
		}
		items = append(items, components.MenuItem{
			Label:    it.Icon + " " + it.Name,
			Detail:   detail,
			Disabled: owned,
			Action:   func() tea.Cmd { return s.buy(id) },
		})
	}
	selected := s.menu.Selected
	s.menu = components.NewMenu(items)
	if selected < len(items) && !items[selected].Disabled {
		s.menu.Selected = selected
	}
}

func (s *ShopScreen) buy(id string) tea.Cmd {
	if s.busy {
		return nil
	}
	s.busy = true
	svc, p := s.deps.Profile, s.deps.Player
	return func() tea.Msg {
		res, err := svc.Do(context.Background(), p, store.KindPurchase, func() (engine.Result, error) {
			return p.Purchase(id)
		})
		return purchaseMsg{res: res, err: err}
	}
}

func (s *ShopScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(purchaseMsg); ok {
		s.busy = false
		s.notice, s.failed = Notice(m.res, m.err)
		s.rebuild()
		return s, nil
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

// Notice is the message shown after a purchase attempt.
func Notice(res engine.Result, err error) (string, bool) {
	var short *domain.InsufficientFundsError
	switch {
	case err == nil && res.Item != nil:
		return fmt.Sprintf("Bought %s %s! %d coins left.", res.Item.Icon, res.Item.Name, res.Account.Coins), false
	case errors.As(err, &short):
		return fmt.Sprintf("You need %d more coins. Finish a lesson to earn some!", short.Shortfall()), true
	case errors.Is(err, domain.ErrAlreadyOwned):
		return "You already own that.", true
	case err != nil:
		return "Purchase failed: " + err.Error(), true
	}
	return "", false
}

func (s *ShopScreen) View(width, height int) string {
	a := s.deps.Player.Snapshot().Account
	sections := []string{
		theme.Coins.Render(fmt.Sprintf("Your balance: 🪙 %d", a.Coins)),
		"",
		s.menu.View(),
	}
	if i := s.menu.Selected; i < len(domain.Items()) {
		sections = append(sections, theme.Hint.Render(domain.Items()[i].Description))
	}
	if s.notice != "" {
		color := theme.Success
		if s.failed {
			color = theme.Error
		}
		sections = append(sections, "", lipgloss.NewStyle().Foreground(color).Bold(true).Render(s.notice))
	}
	return layout.Center(lipgloss.JoinVertical(lipgloss.Left, sections...), width, height)
}
