// Package settings is the profile screen: account type and avatar.
package settings

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coinquest/internal/account"
	"github.com/abhisek/coinquest/internal/engine"
	"github.com/abhisek/coinquest/internal/screen"
	"github.com/abhisek/coinquest/internal/ui/components"
	"github.com/abhisek/coinquest/internal/ui/layout"
	"github.com/abhisek/coinquest/internal/ui/theme"
)

var accountTypes = []string{account.TypeHome, account.TypeStudent, account.TypeTeacher}

type savedMsg struct {
	what string
	err  error
}

// SettingsScreen shows the learner's profile. Enter on the type row cycles
// the account type; the avatar row opens an editor once the custom avatar
// item is owned.
type SettingsScreen struct {
	deps    *screen.Deps
	menu    components.Menu
	editing bool
	input   components.TextInput
	busy    bool
	notice  string
	failed  bool
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.BackHandler = (*SettingsScreen)(nil)

func New(deps *screen.Deps) *SettingsScreen {
	s := &SettingsScreen{deps: deps}
	s.rebuild()
	return s
}

func (s *SettingsScreen) Init() tea.Cmd { return nil }

func (s *SettingsScreen) Title() string { return "Profile" }

// HandlesBack claims Esc only while the avatar editor is open.
func (s *SettingsScreen) HandlesBack() bool { return s.editing }

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{{Key: "Enter", Description: "Save"}, {Key: "Esc", Description: "Cancel"}}
	}
	return []layout.KeyHint{{Key: "Enter", Description: "Change"}, {Key: "↑↓", Description: "Navigate"}, {Key: "Esc", Description: "Back"}}
}

func (s *SettingsScreen) rebuild() {
	a := s.deps.Player.Snapshot().Account
	avatarDetail := a.Avatar
	if !a.HasCapability(account.CapabilityCustomAvatar) {
		avatarDetail += "  (buy Custom Avatar in the shop)"
	}
	selected := s.menu.Selected
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Account type", Detail: a.AccountType, Action: s.cycleType},
		{
			Label:    "Avatar",
			Detail:   avatarDetail,
			Disabled: !a.HasCapability(account.CapabilityCustomAvatar),
			Action:   s.openEditor,
		},
	})
	if selected < len(s.menu.Items) && !s.menu.Items[selected].Disabled {
		s.menu.Selected = selected
	}
}

// NextType returns the account type after t, wrapping around.
func NextType(t string) string {
	for i, v := range accountTypes {
		if v == t {
			return accountTypes[(i+1)%len(accountTypes)]
		}
	}
	return account.TypeHome
}

func (s *SettingsScreen) cycleType() tea.Cmd {
	next := NextType(s.deps.Player.Snapshot().Account.AccountType)
	return s.save("Account type", func() (engine.Result, error) {
		return s.deps.Player.SetAccountType(next)
	})
}

func (s *SettingsScreen) openEditor() tea.Cmd {
	s.editing = true
	s.input = components.NewTextInput("one emoji, e.g. 🦉", 8)
	return s.input.Init()
}

func (s *SettingsScreen) save(what string, action func() (engine.Result, error)) tea.Cmd {
	if s.busy {
		return nil
	}
	s.busy = true
	svc, p := s.deps.Profile, s.deps.Player
	return func() tea.Msg {
		_, err := svc.Do(context.Background(), p, "", action)
		return savedMsg{what: what, err: err}
	}
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(savedMsg); ok {
		s.busy = false
		s.notice, s.failed = m.what+" saved.", false
		if m.err != nil {
			s.notice, s.failed = describe(m.err), true
		}
		s.rebuild()
		return s, nil
	}

	if s.editing {
		if key, ok := msg.(tea.KeyPressMsg); ok {
			switch key.String() {
			case "esc":
				s.editing = false
				return s, nil
			case "enter":
				avatar := s.input.Value()
				if avatar == "" {
					return s, nil
				}
				s.editing = false
				return s, s.save("Avatar", func() (engine.Result, error) {
					return s.deps.Player.SetAvatar(avatar)
				})
			}
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func describe(err error) string {
	switch {
	case errors.Is(err, account.ErrCapabilityLocked):
		return "Buy the Custom Avatar item to change your avatar."
	case errors.Is(err, account.ErrInvalidType):
		return "That account type is not supported."
	}
	return "Could not save: " + err.Error()
}

func (s *SettingsScreen) View(width, height int) string {
	a := s.deps.Player.Snapshot().Account
	sections := []string{
		theme.Title.Render(fmt.Sprintf("%s %s", a.Avatar, a.Username)),
		theme.Subtitle.Render(fmt.Sprintf("Level %d · %d XP · accuracy %.0f%%", a.Level, a.XP, a.Accuracy())),
		theme.Hint.Render(fmt.Sprintf("Lessons completed: %d · perfected: %d · badges: %d",
			len(a.CompletedLessons), len(a.PerfectLessons), len(a.Badges))),
		"",
	}
	if s.editing {
		sections = append(sections, theme.Body.Render("New avatar:"), s.input.View())
	} else {
		sections = append(sections, s.menu.View())
	}
	if s.notice != "" {
		color := theme.Success
		if s.failed {
			color = theme.Error
		}
		sections = append(sections, "", lipgloss.NewStyle().Foreground(color).Render(s.notice))
	}
	return layout.Center(lipgloss.JoinVertical(lipgloss.Left, sections...), width, height)
}
