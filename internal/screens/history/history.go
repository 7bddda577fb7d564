package history

import (
	"context"
	"fmt"
	"image/color"
	"slices"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coinquest/internal/screen"
	"github.com/abhisek/coinquest/internal/store"
	"github.com/abhisek/coinquest/internal/ui/layout"
	"github.com/abhisek/coinquest/internal/ui/theme"
)

const pageSize = 200

type historyLoadedMsg struct {
	events []store.ProgressEvent
	err    error
}

// HistoryScreen lists the learner's recorded progress, newest first.
type HistoryScreen struct {
	deps     *screen.Deps
	events   []store.ProgressEvent
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

func New(deps *screen.Deps) *HistoryScreen {
	return &HistoryScreen{deps: deps, expanded: make(map[int]bool)}
}

func (s *HistoryScreen) Init() tea.Cmd {
	svc, user := s.deps.Profile, s.deps.Player.Username()
	return func() tea.Msg {
		evs, err := svc.History(context.Background(), user, store.QueryOpts{})
		if len(evs) > pageSize {
			evs = evs[len(evs)-pageSize:]
		}
		slices.Reverse(evs)
		return historyLoadedMsg{events: evs, err: err}
	}
}

func (s *HistoryScreen) Title() string { return "History" }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.events = msg.events

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			s.selected = max(s.selected-1, 0)
		case "down", "j":
			s.selected = min(s.selected+1, max(len(s.events)-1, 0))
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := func(st lipgloss.Style, text string) string {
		return st.Width(width).Align(lipgloss.Center).Render("\n\n" + text)
	}
	switch {
	case s.errMsg != "":
		return center(lipgloss.NewStyle().Foreground(theme.Error), "Error: "+s.errMsg)
	case !s.loaded:
		return center(theme.Subtitle, "Loading history...")
	case len(s.events) == 0:
		return center(theme.Hint, "Nothing yet. Finish a lesson to start your story!")
	}

	// Keep the selected row visible.
	rows := max(height-2, 1)
	first := max(0, s.selected-rows/2)

	var b strings.Builder
	b.WriteString("\n")
	for i := first; i < len(s.events) && i < first+rows; i++ {
		ev := s.events[i]
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(kindColor(ev.Kind))
		if i == s.selected {
			prefix = "> "
			style = style.Bold(true)
		}
		line := fmt.Sprintf("%s%s  %s", prefix, ev.Timestamp.Local().Format("Jan 02 15:04"), Describe(ev))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
		if s.expanded[i] {
			for _, d := range details(ev) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render("      "+d)))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// Describe renders one event as a sentence.
func Describe(ev store.ProgressEvent) string {
	d := ev.Detail
	switch ev.Kind {
	case store.KindRegister:
		return "Joined CoinQuest"
	case store.KindActivate:
		return fmt.Sprintf("Logged in (streak %v)", d["streak"])
	case store.KindLessonStart:
		return "Opened " + ev.Lesson
	case store.KindAnswer:
		if d["correct"] == true {
			return fmt.Sprintf("Answered correctly in %s", ev.Lesson)
		}
		return fmt.Sprintf("Missed a question in %s", ev.Lesson)
	case store.KindLessonComplete:
		if d["perfect"] == true {
			return "⭐ Perfected " + ev.Lesson
		}
		return "Completed " + ev.Lesson
	case store.KindLessonExit:
		return "Left " + ev.Lesson
	case store.KindBadge:
		return fmt.Sprintf("🏅 Earned %v", d["badge"])
	case store.KindPurchase:
		return fmt.Sprintf("Bought %v", d["item"])
	}
	return string(ev.Kind)
}

func details(ev store.ProgressEvent) []string {
	keys := make([]string, 0, len(ev.Detail))
	for k := range ev.Detail {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s: %v", k, ev.Detail[k]))
	}
	if ev.SessionID != "" {
		out = append(out, "session: "+ev.SessionID)
	}
	return out
}

func kindColor(k store.EventKind) color.Color {
	switch k {
	case store.KindLessonComplete, store.KindBadge:
		return theme.Gold
	case store.KindPurchase:
		return theme.Secondary
	case store.KindLessonExit:
		return theme.TextDim
	}
	return theme.Text
}
