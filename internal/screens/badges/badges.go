// Package badges shows every badge and whether it has been earned.
package badges

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coinquest/internal/screen"
	"github.com/abhisek/coinquest/internal/ui/layout"
	"github.com/abhisek/coinquest/internal/ui/theme"
)

type BadgesScreen struct {
	deps *screen.Deps
}

var _ screen.Screen = (*BadgesScreen)(nil)

func New(deps *screen.Deps) *BadgesScreen {
	return &BadgesScreen{deps: deps}
}

func (s *BadgesScreen) Init() tea.Cmd { return nil }

func (s *BadgesScreen) Title() string { return "Badges" }

func (s *BadgesScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }

func (s *BadgesScreen) View(width, height int) string {
	a := s.deps.Player.Snapshot().Account
	rules := s.deps.Profile.Engine().Rules().Rules()

	earned := 0
	var rows []string
	for _, r := range rules {
		row := fmt.Sprintf("%s  %-18s %s", r.Icon, r.ID, r.Requirement)
		if a.HasBadge(string(r.ID)) {
			earned++
			rows = append(rows, theme.Correct.Render("✓ ")+theme.Body.Render(row))
		} else {
			rows = append(rows, theme.Locked.Render("· "+row))
		}
	}
	header := theme.Title.Render(fmt.Sprintf("%d of %d badges earned", earned, len(rules)))
	body := lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(rows, "\n"))
	return layout.Center(body, width, height)
}
