// Package quiz runs one lesson: content, questions, reveal and summary.
package quiz

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coinquest/internal/engine"
	"github.com/abhisek/coinquest/internal/profile"
	qz "github.com/abhisek/coinquest/internal/quiz"
	"github.com/abhisek/coinquest/internal/router"
	"github.com/abhisek/coinquest/internal/screen"
	"github.com/abhisek/coinquest/internal/store"
	"github.com/abhisek/coinquest/internal/ui/components"
	"github.com/abhisek/coinquest/internal/ui/layout"
)

// resultMsg carries the outcome of an engine call made off the UI loop.
type resultMsg struct {
	res engine.Result
	err error
}

// QuizScreen mirrors the engine session; it never decides correctness.
type QuizScreen struct {
	deps   *screen.Deps
	lesson string

	res     engine.Result
	choice  components.MultiChoice
	picked  int
	busy    bool
	started bool
	errMsg  string

	// completion is kept after the final Advance clears the session.
	completion *engine.Result
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.BackHandler = (*QuizScreen)(nil)

func New(deps *screen.Deps, lesson string) *QuizScreen {
	return &QuizScreen{deps: deps, lesson: lesson, picked: -1}
}

func (s *QuizScreen) Title() string { return s.lesson }

func (s *QuizScreen) Init() tea.Cmd {
	p := s.deps.Player
	return s.do(store.KindLessonStart, func() (engine.Result, error) { return p.StartLesson(s.lesson) })
}

// HandlesBack keeps Esc inside the screen so exiting goes through the engine.
func (s *QuizScreen) HandlesBack() bool { return true }

func (s *QuizScreen) phase() qz.Phase { return s.res.Session.Phase }

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.phase() {
	case qz.ContentView:
		return []layout.KeyHint{{Key: "Enter", Description: "Start quiz"}, {Key: "Esc", Description: "Leave lesson"}}
	case qz.Question:
		return []layout.KeyHint{{Key: "↑↓/A-D", Description: "Choose"}, {Key: "Enter", Description: "Answer"}, {Key: "Esc", Description: "Leave lesson"}}
	case qz.Revealed:
		return []layout.KeyHint{{Key: "Enter", Description: "Next"}, {Key: "Esc", Description: "Leave lesson"}}
	case qz.Completed:
		return []layout.KeyHint{{Key: "Enter", Description: "Finish"}}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

// do runs action through the profile service so progress is persisted.
func (s *QuizScreen) do(kind store.EventKind, action func() (engine.Result, error)) tea.Cmd {
	s.busy = true
	svc, p := s.deps.Profile, s.deps.Player
	return func() tea.Msg {
		res, err := svc.Do(context.Background(), p, kind, action)
		return resultMsg{res: res, err: err}
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		return s, s.apply(msg)

	case components.ChoiceMsg:
		if s.busy || s.phase() != qz.Question {
			return s, nil
		}
		s.picked = msg.Option
		p := s.deps.Player
		return s, s.do(store.KindAnswer, func() (engine.Result, error) { return p.SubmitAnswer(msg.Option) })

	case tea.KeyPressMsg:
		if s.busy {
			return s, nil
		}
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	p := s.deps.Player
	key := msg.String()

	if key == "esc" {
		if s.phase() == qz.Idle {
			return router.PopCmd
		}
		if s.phase() == qz.Completed {
			return s.do("", p.Advance)
		}
		return s.do(store.KindLessonExit, p.ExitLesson)
	}

	switch s.phase() {
	case qz.ContentView:
		if key == "enter" {
			return s.do("", p.BeginQuiz)
		}
	case qz.Question:
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		return cmd
	case qz.Revealed, qz.Completed:
		if key == "enter" || key == "space" {
			return s.do("", p.Advance)
		}
	case qz.Idle:
		if s.started && key == "enter" {
			return router.PopCmd
		}
	}
	return nil
}

func (s *QuizScreen) apply(msg resultMsg) tea.Cmd {
	s.busy = false
	var commitErr *profile.CommitError
	switch {
	case errors.As(msg.err, &commitErr):
		// The player moved on in memory; follow it and flag the lost write.
		s.errMsg = describe(msg.err)
	case msg.err != nil:
		s.errMsg = describe(msg.err)
		return nil
	default:
		s.errMsg = ""
	}
	prev := s.res.Session
	s.res = msg.res
	s.started = true

	st := s.res.Session
	if st.Phase == qz.Completed && prev.Phase != qz.Completed {
		done := msg.res
		s.completion = &done
	}

	switch {
	case st.Phase == qz.Question && st.Question != nil && (prev.Phase != qz.Question || prev.Cursor != st.Cursor):
		s.choice = components.NewMultiChoice(st.Question.Prompt, st.Question.Options)
		s.picked = -1
	case st.Phase == qz.Revealed && st.Question != nil:
		s.choice.Reveal(st.Selected, st.Question.Correct)
	case st.Phase == qz.Idle:
		return router.PopCmd
	}
	return nil
}

func describe(err error) string {
	var locked *engine.LockedLessonError
	var commitErr *profile.CommitError
	switch {
	case errors.As(err, &commitErr):
		return "Progress could not be saved: " + commitErr.Err.Error()
	case errors.As(err, &locked):
		return "Get a perfect score on " + locked.Requires + " to unlock this lesson."
	case errors.Is(err, engine.ErrNotRegistered):
		return "Log in to take lessons."
	case errors.Is(err, engine.ErrInvalidTransition):
		return "That doesn't work right now."
	}
	return "Something went wrong: " + err.Error()
}
