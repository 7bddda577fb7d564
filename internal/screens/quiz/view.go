package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/coinquest/internal/quiz"
	"github.com/abhisek/coinquest/internal/ui/layout"
	"github.com/abhisek/coinquest/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	cw := min(width-4, 76)
	var body string
	switch s.phase() {
	case qz.ContentView:
		body = s.viewContent(cw)
	case qz.Question:
		body = s.progress(cw) + "\n\n" + s.choice.View()
	case qz.Revealed:
		body = s.progress(cw) + "\n\n" + s.choice.View() + "\n" + s.viewFeedback()
	case qz.Completed:
		body = s.viewSummary()
	default:
		body = theme.Hint.Render("Opening lesson...")
		if s.started {
			body = theme.Hint.Render("Lesson closed. Press Esc to go back.")
		}
	}
	if s.errMsg != "" {
		body += "\n\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)
	}
	return layout.Center(lipgloss.NewStyle().Width(cw).Render(body), width, height)
}

func (s *QuizScreen) viewContent(cw int) string {
	l, _, ok := s.deps.Profile.Engine().Catalog().Lookup(s.lesson)
	if !ok {
		return ""
	}
	return strings.Join([]string{
		theme.Title.Render(fmt.Sprintf("📘 %s", l.Name)),
		theme.Subtitle.Render(fmt.Sprintf("Level %d · %d questions", l.Level, l.QuestionCount())),
		"",
		theme.Card.Width(cw).Render(theme.Body.Render(l.Content)),
		"",
		theme.Hint.Render("Press Enter when you're ready for the quiz."),
	}, "\n")
}

func (s *QuizScreen) progress(cw int) string {
	st := s.res.Session
	label := fmt.Sprintf(" Question %d of %d", st.Cursor+1, st.QuestionCount)
	done := st.Cursor
	if st.Phase == qz.Revealed {
		done++
	}
	return layout.Bar(float64(done)/float64(max(st.QuestionCount, 1)), cw-lipgloss.Width(label)) +
		theme.Subtitle.Render(label)
}

func (s *QuizScreen) viewFeedback() string {
	out := s.res.Outcome
	var lines []string
	if out.Correct {
		lines = append(lines, theme.Correct.Render(fmt.Sprintf("Correct! +%d XP  +%d 🪙", out.XPGained, out.CoinsGained)))
	} else {
		lines = append(lines, theme.Incorrect.Render("Not quite."))
	}
	if q := s.res.Session.Question; q != nil && q.Explanation != "" {
		lines = append(lines, theme.Body.Render(q.Explanation))
	}
	for _, b := range out.NewBadges {
		lines = append(lines, theme.Coins.Render(fmt.Sprintf("🏅 Badge earned: %s", b)))
	}
	return strings.Join(lines, "\n")
}

func (s *QuizScreen) viewSummary() string {
	if s.completion == nil {
		return ""
	}
	res := *s.completion
	a := res.Account
	title := "🎉 Lesson complete!"
	if res.Outcome.Perfect {
		title = "⭐ Perfect score!"
	}
	lines := []string{
		theme.Title.Render(title),
		"",
		theme.Coins.Render(fmt.Sprintf("+%d XP  +%d 🪙 completion bonus", res.Outcome.XPGained, res.Outcome.CoinsGained)),
		theme.Body.Render(fmt.Sprintf("Level %d · %d XP · %d coins", a.Level, a.XP, a.Coins)),
	}
	for _, b := range res.Outcome.NewBadges {
		lines = append(lines, theme.Coins.Render(fmt.Sprintf("🏅 Badge earned: %s", b)))
	}
	for _, name := range res.Unlocked {
		lines = append(lines, theme.Correct.Render(fmt.Sprintf("🔓 Unlocked: %s", name)))
	}
	lines = append(lines, "", theme.Hint.Render("Press Enter to return to lessons."))
	return strings.Join(lines, "\n")
}
