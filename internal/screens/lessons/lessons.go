// Package lessons lists the catalog with lock and completion status.
package lessons

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coinquest/internal/router"
	"github.com/abhisek/coinquest/internal/screen"
	"github.com/abhisek/coinquest/internal/screens/quiz"
	"github.com/abhisek/coinquest/internal/ui/components"
	"github.com/abhisek/coinquest/internal/ui/layout"
	"github.com/abhisek/coinquest/internal/ui/theme"
	"github.com/abhisek/coinquest/internal/unlock"
)

// LessonsScreen is the lesson picker. It re-reads progress on every
// update so returning from a quiz shows newly unlocked lessons.
type LessonsScreen struct {
	deps     *screen.Deps
	statuses []unlock.Status
	menu     components.Menu
}

var _ screen.Screen = (*LessonsScreen)(nil)
var _ screen.KeyHintProvider = (*LessonsScreen)(nil)

func New(deps *screen.Deps) *LessonsScreen {
	s := &LessonsScreen{deps: deps}
	s.refresh()
	return s
}

func (s *LessonsScreen) Init() tea.Cmd { return nil }

func (s *LessonsScreen) Title() string { return "Lessons" }

func (s *LessonsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LessonsScreen) refresh() {
	a := s.deps.Player.Snapshot().Account
	s.statuses = unlock.Statuses(s.deps.Profile.Engine().Catalog(), a)

	items := make([]components.MenuItem, len(s.statuses))
	for i, st := range s.statuses {
		name := st.Lesson.Name
		items[i] = components.MenuItem{
			Label:    Label(st),
			Detail:   Detail(st),
			Disabled: !st.Accessible,
			Action: func() tea.Cmd {
				return router.PushCmd(quiz.New(s.deps, name))
			},
		}
	}
	selected := s.menu.Selected
	s.menu = components.NewMenu(items)
	if selected > 0 && selected < len(items) && !items[selected].Disabled {
		s.menu.Selected = selected
	}
}

// Label is the row title with a status icon.
func Label(st unlock.Status) string {
	icon := "📘"
	switch {
	case !st.Accessible:
		icon = "🔒"
	case st.Perfect:
		icon = "⭐"
	case st.Completed:
		icon = "✅"
	}
	return fmt.Sprintf("%s %d. %s", icon, st.Index+1, st.Lesson.Name)
}

// Detail describes level, size and progress.
func Detail(st unlock.Status) string {
	parts := []string{
		fmt.Sprintf("Lv %d", st.Lesson.Level),
		fmt.Sprintf("%d questions", st.Lesson.QuestionCount()),
	}
	switch {
	case !st.Accessible:
		parts = append(parts, "perfect the previous lesson to unlock")
	case st.Completions > 1:
		parts = append(parts, fmt.Sprintf("done ×%d", st.Completions))
	}
	return strings.Join(parts, " · ")
}

func (s *LessonsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.refresh()
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *LessonsScreen) View(width, height int) string {
	s.refresh()
	body := s.menu.View()
	if i := s.menu.Selected; i < len(s.statuses) {
		if d := s.statuses[i].Lesson.Description; d != "" {
			body += "\n" + theme.Hint.Render(d)
		}
	}
	return layout.Center(lipgloss.NewStyle().Width(min(width-4, 80)).Render(body), width, height)
}
