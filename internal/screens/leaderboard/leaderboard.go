// Package leaderboard ranks the learner against the fixed boards and
// everyone stored locally.
package leaderboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	board "github.com/abhisek/coinquest/internal/leaderboard"
	"github.com/abhisek/coinquest/internal/screen"
	"github.com/abhisek/coinquest/internal/ui/layout"
	"github.com/abhisek/coinquest/internal/ui/theme"
)

var tabs = []string{"Worldwide", "Friends", "This device"}

type loadedMsg struct {
	tab     int
	entries []board.Entry
	err     error
}

type LeaderboardScreen struct {
	deps    *screen.Deps
	tab     int
	entries []board.Entry
	errMsg  string
}

var _ screen.Screen = (*LeaderboardScreen)(nil)
var _ screen.KeyHintProvider = (*LeaderboardScreen)(nil)

func New(deps *screen.Deps) *LeaderboardScreen {
	return &LeaderboardScreen{deps: deps}
}

func (s *LeaderboardScreen) Init() tea.Cmd { return s.load() }

func (s *LeaderboardScreen) Title() string { return "Leaderboard" }

func (s *LeaderboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Switch board"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LeaderboardScreen) load() tea.Cmd {
	tab := s.tab
	me := s.deps.Player.Snapshot().Account
	svc := s.deps.Profile
	return func() tea.Msg {
		switch tab {
		case 0:
			return loadedMsg{tab: tab, entries: board.Rank(board.Worldwide(), me)}
		case 1:
			return loadedMsg{tab: tab, entries: board.Rank(board.Friends(), me)}
		}
		entries, err := svc.Leaderboard(context.Background(), nil, me)
		return loadedMsg{tab: tab, entries: entries, err: err}
	}
}

func (s *LeaderboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.tab == s.tab {
			s.entries, s.errMsg = msg.entries, ""
			if msg.err != nil {
				s.errMsg = msg.err.Error()
			}
		}
	case tea.KeyPressMsg:
		switch msg.String() {
		case "left", "h":
			s.tab = (s.tab + len(tabs) - 1) % len(tabs)
			return s, s.load()
		case "right", "l", "tab":
			s.tab = (s.tab + 1) % len(tabs)
			return s, s.load()
		}
	}
	return s, nil
}

func (s *LeaderboardScreen) View(width, height int) string {
	var tabRow []string
	for i, t := range tabs {
		if i == s.tab {
			tabRow = append(tabRow, theme.Selected.Render("["+t+"]"))
		} else {
			tabRow = append(tabRow, theme.Subtitle.Render(" "+t+" "))
		}
	}

	lines := []string{strings.Join(tabRow, "  "), ""}
	for _, e := range s.entries {
		row := fmt.Sprintf("%2d. %s %-16s Lv %d  %5d XP  🔥%d", e.Rank, e.Avatar, e.Username, e.Level, e.XP, e.Streak)
		style := theme.Body
		if e.You {
			style = theme.Selected
			row += "  ← you"
		}
		if e.Rank <= 3 {
			row = []string{"🥇", "🥈", "🥉"}[e.Rank-1] + " " + row
		} else {
			row = "   " + row
		}
		lines = append(lines, style.Render(row))
	}
	if s.errMsg != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}
	return layout.Center(lipgloss.JoinVertical(lipgloss.Left, lines...), width, height)
}
