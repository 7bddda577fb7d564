package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/coinquest/internal/ui/theme"
)

const (
	MinWidth  = 70
	MinHeight = 22
)

// KeyHint is one footer entry.
type KeyHint struct {
	Key         string
	Description string
}

// Stats are the learner figures in the header. A zero Username means
// nobody is logged in yet.
type Stats struct {
	Username string
	Avatar   string
	Level    int
	Coins    int
	Streak   int
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("Terminal too small.\n\nNeed %d x %d, have %d x %d.", MinWidth, MinHeight, width, height))
}

// RenderHeader draws the brand on the left, the title in the middle and
// coins and streak on the right.
func RenderHeader(title string, s Stats, width int) string {
	left := theme.Title.Render("  🪙 CoinQuest")
	center := theme.Body.Render(title)

	right := ""
	if s.Username != "" {
		right = theme.Subtitle.Render(fmt.Sprintf("%s %s  Lv %d   ", s.Avatar, s.Username, s.Level)) +
			theme.Coins.Render(fmt.Sprintf("🪙 %d", s.Coins)) + "   " +
			theme.Streak.Render(fmt.Sprintf("🔥 %d", s.Streak))
	}

	inner := max(width-4, 0)
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max((inner-cw)/2-lw, 1)
	rightGap := max(inner-lw-leftGap-cw-rw, 1)

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}

func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) + " " +
			theme.Subtitle.Render(h.Description)
	}
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render("  " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, giving content the
// remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(h).Render(content)
	return header + "\n" + body + "\n" + footer
}

// Center places content in the middle of the content area.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// Bar renders a filled/empty progress bar of the given cell width.
func Bar(fraction float64, width int) string {
	filled := min(max(int(fraction*float64(width)), 0), width)
	return lipgloss.NewStyle().Foreground(theme.Gold).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", width-filled))
}
