// Package welcome is the login screen: it asks for a username, loads or
// creates the account and runs the daily streak check.
package welcome

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coinquest/internal/engine"
	"github.com/abhisek/coinquest/internal/router"
	"github.com/abhisek/coinquest/internal/screen"
	"github.com/abhisek/coinquest/internal/streak"
	"github.com/abhisek/coinquest/internal/ui/components"
	"github.com/abhisek/coinquest/internal/ui/layout"
	"github.com/abhisek/coinquest/internal/ui/theme"
)

type loginMsg struct {
	player  *engine.Player
	res     engine.Result
	created bool
	err     error
}

// WelcomeScreen collects the username.
type WelcomeScreen struct {
	deps   *screen.Deps
	next   func(greeting string) screen.Screen
	input  components.TextInput
	busy   bool
	errMsg string
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New returns the login screen. After a successful login the screen is
// replaced by next(greeting).
func New(deps *screen.Deps, next func(greeting string) screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		deps:  deps,
		next:  next,
		input: components.NewTextInput("your name", 24),
	}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return w.input.Init() }

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginMsg:
		w.busy = false
		if msg.err != nil {
			w.errMsg = loginError(msg.err)
			return w, nil
		}
		w.deps.Player = msg.player
		return w, router.ReplaceCmd(w.next(Greeting(msg.res, msg.created)))

	case tea.KeyPressMsg:
		if w.busy {
			return w, nil
		}
		if msg.String() == "enter" {
			return w, w.login()
		}
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *WelcomeScreen) login() tea.Cmd {
	name := w.input.Value()
	if name == "" {
		w.errMsg = "Type a name to start."
		return nil
	}
	w.busy, w.errMsg = true, ""
	svc := w.deps.Profile
	return func() tea.Msg {
		p, res, created, err := svc.Login(context.Background(), name)
		return loginMsg{player: p, res: res, created: created, err: err}
	}
}

func loginError(err error) string {
	if errors.Is(err, engine.ErrInvalidUsername) {
		return "That name can't be used."
	}
	return "Could not load your account: " + err.Error()
}

// Greeting is the line shown on the home screen after login.
func Greeting(res engine.Result, created bool) string {
	a := res.Account
	var parts []string
	if created {
		parts = append(parts, fmt.Sprintf("Welcome to CoinQuest, %s! Here are %d coins to start.", a.Username, a.Coins))
	} else {
		parts = append(parts, fmt.Sprintf("Welcome back, %s!", a.Username))
	}
	switch res.Streak {
	case streak.Extended:
		parts = append(parts, fmt.Sprintf("🔥 %d day streak!", a.Streak))
	case streak.Reset:
		parts = append(parts, "Your streak starts again today.")
	}
	for _, b := range res.NewBadges {
		parts = append(parts, fmt.Sprintf("New badge: %s", b))
	}
	return strings.Join(parts, "  ")
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{
		RenderBanner(width),
		"",
		theme.Body.Bold(true).Render("Learn money skills, earn coins, keep your streak."),
		"",
		theme.Subtitle.Render("What should we call you?"),
		w.input.View(),
	}
	switch {
	case w.busy:
		sections = append(sections, "", theme.Hint.Render("Loading..."))
	case w.errMsg != "":
		sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.Error).Render(w.errMsg))
	}
	return layout.Center(lipgloss.JoinVertical(lipgloss.Center, sections...), width, height)
}
