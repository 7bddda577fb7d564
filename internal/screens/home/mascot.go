package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coinquest/internal/account"
	"github.com/abhisek/coinquest/internal/ui/theme"
)

// Mood picks the piggy bank art.
type Mood int

const (
	MoodIdle Mood = iota
	MoodHappy
	MoodHungry
)

const piggyIdle = `  ▄▄ ▄▄▄▄▄▄ ▄
 █ ◉  ◉   ▀█▄
 █  ▄▄     █▀
  ▀█▀▀▀▀▀█▀
   ▀     ▀`

const piggyHappy = `  ▄▄ ▄▄▄▄▄▄ ▄   ✦
 █ ★  ★   ▀█▄
 █  ▄▄  🪙  █▀
  ▀█▀▀▀▀▀▀█▀
   ▀      ▀   ✦`

const piggyHungry = `  ▄▄ ▄▄▄▄▄▄ ▄
 █ ◔  ◔   ▀█▄  ?
 █  ▄▄     █▀
  ▀█▀▀▀▀▀█▀
   ▀     ▀`

// MoodFor is happy on a streak of three or more days and hungry when
// the learner cannot afford anything in the shop.
func MoodFor(a *account.Account, cheapest int) Mood {
	switch {
	case a.Streak >= 3:
		return MoodHappy
	case a.Coins < cheapest:
		return MoodHungry
	}
	return MoodIdle
}

func RenderMascot(m Mood) string {
	art, fg := piggyIdle, theme.Primary
	switch m {
	case MoodHappy:
		art, fg = piggyHappy, theme.Gold
	case MoodHungry:
		art, fg = piggyHungry, theme.Accent
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
