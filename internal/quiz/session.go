package quiz

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/abhisek/coinquest/internal/account"
	"github.com/abhisek/coinquest/internal/badges"
	"github.com/abhisek/coinquest/internal/catalog"
)

// Phase is the tagged state of a quiz session.
type Phase int

const (
	Idle Phase = iota
	ContentView
	Question
	Revealed
	Completed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case ContentView:
		return "content"
	case Question:
		return "question"
	case Revealed:
		return "revealed"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ErrInvalidTransition is the sentinel behind every rejected action.
var ErrInvalidTransition = errors.New("invalid transition")

// TransitionError reports an action that is not allowed in the current phase.
type TransitionError struct {
	Phase  Phase
	Action string
	Reason string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("invalid transition: %s in phase %s", e.Action, e.Phase)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// Action is a learner input to the session. The set is closed.
type Action interface {
	Name() string
}

// BeginQuiz leaves the content view for the first question.
type BeginQuiz struct{}

// SubmitAnswer answers the current question with a zero-based option index.
type SubmitAnswer struct {
	Option int
}

// Advance moves past a revealed answer, or closes a completed lesson.
type Advance struct{}

// Exit abandons the session without partial credit.
type Exit struct{}

func (BeginQuiz) Name() string    { return "begin_quiz" }
func (SubmitAnswer) Name() string { return "submit_answer" }
func (Advance) Name() string      { return "advance" }
func (Exit) Name() string         { return "exit" }

// Outcome describes the account effects of one applied action.
type Outcome struct {
	Answered    bool
	Correct     bool
	XPGained    int
	CoinsGained int
	Completed   bool
	Perfect     bool
	NewBadges   []badges.ID
}

// State is a read-only snapshot of the session.
type State struct {
	ID                string
	Phase             Phase
	Lesson            string
	Cursor            int
	QuestionCount     int
	AwaitingReveal    bool
	LastAnswerCorrect bool
	Selected          int
	Question          *catalog.Question
}

// Session is the per-lesson state machine. The zero value is Idle.
type Session struct {
	id          string
	lesson      *catalog.Lesson
	phase       Phase
	cursor      int
	lastCorrect bool
	selected    int
}

// Start opens lesson in the content view.
func Start(l catalog.Lesson) *Session {
	return &Session{
		id:       uuid.NewString(),
		lesson:   &l,
		phase:    ContentView,
		selected: -1,
	}
}

// ID returns the session identifier, or "" when idle.
func (s *Session) ID() string { return s.id }

func (s *Session) Phase() Phase { return s.phase }

// Active reports whether a lesson is open.
func (s *Session) Active() bool { return s.phase != Idle }

// Lesson returns the open lesson.
func (s *Session) Lesson() (catalog.Lesson, bool) {
	if s.lesson == nil {
		return catalog.Lesson{}, false
	}
	return *s.lesson, true
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	st := State{
		ID:                s.id,
		Phase:             s.phase,
		Cursor:            s.cursor,
		AwaitingReveal:    s.phase == Revealed,
		LastAnswerCorrect: s.phase == Revealed && s.lastCorrect,
		Selected:          -1,
	}
	if s.lesson == nil {
		return st
	}
	st.Lesson = s.lesson.Name
	st.QuestionCount = s.lesson.QuestionCount()
	if s.phase == Revealed {
		st.Selected = s.selected
	}
	if s.phase == Question || s.phase == Revealed {
		q := s.lesson.Questions[s.cursor-1]
		q.Options = append([]string(nil), q.Options...)
		st.Question = &q
	}
	return st
}

// Apply runs one transition. Account effects are computed on a copy and
// committed to acct only if the action is accepted; a rejected action
// returns a *TransitionError and changes nothing.
func (s *Session) Apply(acct *account.Account, rules *badges.RuleSet, act Action) (Outcome, error) {
	if act == nil {
		return Outcome{}, s.reject("nil", "no action")
	}

	switch a := act.(type) {
	case BeginQuiz:
		if s.phase != ContentView {
			return Outcome{}, s.reject(act.Name(), "quiz already started")
		}
		s.phase = Question
		s.cursor = 1
		return Outcome{}, nil

	case SubmitAnswer:
		if s.phase != Question {
			return Outcome{}, s.reject(act.Name(), "no question awaiting an answer")
		}
		q := s.lesson.Questions[s.cursor-1]
		if a.Option < 0 || a.Option >= len(q.Options) {
			return Outcome{}, s.reject(act.Name(), fmt.Sprintf("option %d out of range", a.Option))
		}

		next := acct.Clone()
		out := score(next, rules, q, a.Option)
		*acct = *next

		s.phase = Revealed
		s.lastCorrect = out.Correct
		s.selected = a.Option
		return out, nil

	case Advance:
		switch s.phase {
		case Revealed:
			if s.cursor < s.lesson.QuestionCount() {
				s.cursor++
				s.phase = Question
				s.lastCorrect = false
				s.selected = -1
				return Outcome{}, nil
			}
			next := acct.Clone()
			out := complete(next, rules, *s.lesson)
			*acct = *next

			s.phase = Completed
			s.lastCorrect = false
			s.selected = -1
			return out, nil
		case Completed:
			s.reset()
			return Outcome{}, nil
		default:
			return Outcome{}, s.reject(act.Name(), "nothing to advance")
		}

	case Exit:
		if s.phase == Idle {
			return Outcome{}, s.reject(act.Name(), "no active lesson")
		}
		s.reset()
		return Outcome{}, nil

	default:
		return Outcome{}, s.reject(act.Name(), "unsupported action")
	}
}

func (s *Session) reject(action, reason string) error {
	return &TransitionError{Phase: s.phase, Action: action, Reason: reason}
}

func (s *Session) reset() {
	*s = Session{selected: -1}
}

// score applies the side effects of answering q with option.
func score(a *account.Account, rules *badges.RuleSet, q catalog.Question, option int) Outcome {
	out := Outcome{Answered: true}

	a.TotalQuestions++
	if option == q.Correct {
		out.Correct = true
		a.CorrectAnswers++
		a.AddXP(account.XPPerCorrect)
		a.AddCoins(account.CoinsPerCorrect)
		out.XPGained = account.XPPerCorrect
		out.CoinsGained = account.CoinsPerCorrect
	}
	out.NewBadges = rules.Evaluate(a)
	return out
}

// complete applies the lesson-completion bonus. The perfection test reads
// the lifetime counters, not this lesson's answers.
func complete(a *account.Account, rules *badges.RuleSet, l catalog.Lesson) Outcome {
	n := l.QuestionCount()
	out := Outcome{
		Completed:   true,
		XPGained:    account.XPPerLesson,
		CoinsGained: account.CoinsPerLesson,
	}

	a.RecordCompletion(l.Name)
	a.AddXP(account.XPPerLesson)
	a.AddCoins(account.CoinsPerLesson)

	if a.CorrectAnswers >= n && a.TotalQuestions >= n {
		a.AddPerfect(l.Name)
		out.Perfect = true
	}

	out.NewBadges = rules.Evaluate(a)
	if a.CorrectAnswers == n && badges.Grant(a, badges.PerfectScore) {
		out.NewBadges = append(out.NewBadges, badges.PerfectScore)
	}
	return out
}
