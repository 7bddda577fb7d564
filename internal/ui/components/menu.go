package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coinquest/internal/ui/theme"
)

// MenuItem is one selectable row. Detail is rendered dimmed after the label.
type MenuItem struct {
	Label    string
	Detail   string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list navigated with the arrow keys. Disabled rows
// are shown but skipped.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i, it := range items {
		if !it.Disabled {
			m.Selected = i
			break
		}
	}
	return m
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		m.Selected = m.step(-1)
	case "down", "j":
		m.Selected = m.step(1)
	case "enter":
		if m.Selected < len(m.Items) {
			if it := m.Items[m.Selected]; !it.Disabled && it.Action != nil {
				return m, it.Action()
			}
		}
	}
	return m, nil
}

func (m Menu) step(dir int) int {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return m.Selected
}

func (m Menu) View() string {
	var b strings.Builder
	for i, it := range m.Items {
		style, prefix := theme.Unselected, "    "
		switch {
		case it.Disabled:
			style = theme.Locked
		case i == m.Selected:
			style, prefix = theme.Selected, "  ▸ "
		}
		b.WriteString(style.Render(prefix + it.Label))
		if it.Detail != "" {
			b.WriteString("  " + theme.Subtitle.Render(it.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
