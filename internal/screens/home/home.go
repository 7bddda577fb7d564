package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coinquest/internal/account"
	"github.com/abhisek/coinquest/internal/router"
	"github.com/abhisek/coinquest/internal/screen"
	"github.com/abhisek/coinquest/internal/screens/badges"
	"github.com/abhisek/coinquest/internal/screens/history"
	"github.com/abhisek/coinquest/internal/screens/leaderboard"
	"github.com/abhisek/coinquest/internal/screens/lessons"
	"github.com/abhisek/coinquest/internal/screens/settings"
	"github.com/abhisek/coinquest/internal/screens/shop"
	domainshop "github.com/abhisek/coinquest/internal/shop"
	"github.com/abhisek/coinquest/internal/ui/components"
	"github.com/abhisek/coinquest/internal/ui/layout"
	"github.com/abhisek/coinquest/internal/ui/theme"
)

// HomeScreen is the dashboard shown after login.
type HomeScreen struct {
	deps     *screen.Deps
	menu     components.Menu
	greeting string
}

var _ screen.Screen = (*HomeScreen)(nil)

func New(deps *screen.Deps, greeting string) *HomeScreen {
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd { return router.PushCmd(build()) }
	}
	items := []components.MenuItem{
		{Label: "LESSONS", Action: push(func() screen.Screen { return lessons.New(deps) })},
		{Label: "SHOP", Action: push(func() screen.Screen { return shop.New(deps) })},
		{Label: "BADGES", Action: push(func() screen.Screen { return badges.New(deps) })},
		{Label: "LEADERBOARD", Action: push(func() screen.Screen { return leaderboard.New(deps) })},
		{Label: "HISTORY", Action: push(func() screen.Screen { return history.New(deps) })},
		{Label: "PROFILE", Action: push(func() screen.Screen { return settings.New(deps) })},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	}
	return &HomeScreen{deps: deps, menu: components.NewMenu(items), greeting: greeting}
}

func (h *HomeScreen) Init() tea.Cmd { return nil }

func (h *HomeScreen) Title() string { return "Home" }

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyPressMsg); ok {
		h.greeting = ""
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	a := h.deps.Player.Snapshot().Account
	compact := height < 24

	var sections []string
	if h.greeting != "" {
		sections = append(sections, theme.Body.Bold(true).Render(h.greeting), "")
	}
	if !compact {
		sections = append(sections, RenderMascot(MoodFor(a, cheapestItem())), "")
	}
	sections = append(sections, statsBar(a, 44), "", h.menu.View())

	return layout.Center(lipgloss.JoinVertical(lipgloss.Center, sections...), width, height)
}

func statsBar(a *account.Account, width int) string {
	into := a.XP % account.XPPerLevel
	lines := []string{
		fmt.Sprintf("%s  %s  %s",
			theme.Title.Render(fmt.Sprintf("Level %d", a.Level)),
			theme.Coins.Render(fmt.Sprintf("🪙 %d", a.Coins)),
			theme.Streak.Render(fmt.Sprintf("🔥 %d day streak", a.Streak))),
		layout.Bar(float64(into)/account.XPPerLevel, width-14) +
			theme.Subtitle.Render(fmt.Sprintf(" %d/%d XP", into, account.XPPerLevel)),
		theme.Subtitle.Render(fmt.Sprintf("%d lessons done · %d badges · %.0f%% accuracy",
			len(a.CompletedLessons), len(a.Badges), a.Accuracy())),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Gold).
		Width(width).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

func cheapestItem() int {
	cheapest := 0
	for i, it := range domainshop.Items() {
		if i == 0 || it.Price < cheapest {
			cheapest = it.Price
		}
	}
	return cheapest
}
