package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coinquest/internal/engine"
	"github.com/abhisek/coinquest/internal/logger"
	"github.com/abhisek/coinquest/internal/profile"
	"github.com/abhisek/coinquest/internal/ui/layout"
)

// Screen is one page of the terminal UI.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Deps is shared by every screen. Player is nil until someone logs in.
type Deps struct {
	Profile *profile.Service
	Player  *engine.Player
	Log     *logger.Logger
}

// Stats returns the header figures for the logged-in learner.
func (d *Deps) Stats() layout.Stats {
	if d == nil || d.Player == nil {
		return layout.Stats{}
	}
	a := d.Player.Snapshot().Account
	return layout.Stats{
		Username: a.Username,
		Avatar:   a.Avatar,
		Level:    a.Level,
		Coins:    a.Coins,
		Streak:   a.Streak,
	}
}

// BackHandler is implemented by screens that handle Esc themselves
// instead of letting the app pop them.
type BackHandler interface {
	HandlesBack() bool
}
