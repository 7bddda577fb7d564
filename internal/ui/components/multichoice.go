package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coinquest/internal/ui/theme"
)

// MultiChoice shows a question and lets the learner pick an option.
// Picking only emits ChoiceMsg; the owner decides correctness and calls
// Reveal.
type MultiChoice struct {
	Prompt   string
	Options  []string
	Selected int

	revealed bool
	chosen   int
	correct  int
}

// ChoiceMsg is emitted when the learner confirms an option.
type ChoiceMsg struct {
	Option int
}

func NewMultiChoice(prompt string, options []string) MultiChoice {
	return MultiChoice{Prompt: prompt, Options: options, chosen: -1, correct: -1}
}

func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || m.revealed {
		return m, nil
	}
	switch s := key.String(); s {
	case "up", "k":
		m.Selected = max(m.Selected-1, 0)
	case "down", "j":
		m.Selected = min(m.Selected+1, len(m.Options)-1)
	case "enter":
		opt := m.Selected
		return m, func() tea.Msg { return ChoiceMsg{Option: opt} }
	default:
		// a-d jump straight to an option
		if len(s) == 1 && s[0] >= 'a' && int(s[0]-'a') < len(m.Options) {
			opt := int(s[0] - 'a')
			m.Selected = opt
			return m, func() tea.Msg { return ChoiceMsg{Option: opt} }
		}
	}
	return m, nil
}

// Reveal marks chosen and correct options.
func (m *MultiChoice) Reveal(chosen, correct int) {
	m.revealed = true
	m.chosen = chosen
	m.correct = correct
}

func (m MultiChoice) Revealed() bool { return m.revealed }

func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(m.Prompt))
	b.WriteString("\n\n")
	for i, opt := range m.Options {
		prefix := "  "
		if !m.revealed && i == m.Selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+i, opt)
		switch {
		case m.revealed && i == m.correct:
			line = theme.Correct.Render(line + "  ✓")
		case m.revealed && i == m.chosen:
			line = theme.Incorrect.Render(line + "  ✗")
		case m.revealed:
			line = theme.Locked.Render(line)
		case i == m.Selected:
			line = theme.Selected.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
