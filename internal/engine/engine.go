package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/coinquest/internal/account"
	"github.com/abhisek/coinquest/internal/badges"
	"github.com/abhisek/coinquest/internal/catalog"
	"github.com/abhisek/coinquest/internal/logger"
	"github.com/abhisek/coinquest/internal/quiz"
	"github.com/abhisek/coinquest/internal/shop"
	"github.com/abhisek/coinquest/internal/streak"
	"github.com/abhisek/coinquest/internal/unlock"
)

var (
	// ErrInvalidTransition is shared with the quiz state machine.
	ErrInvalidTransition = quiz.ErrInvalidTransition
	ErrNotRegistered     = errors.New("no username registered")
	ErrInvalidUsername   = errors.New("invalid username")
	ErrLessonLocked      = errors.New("lesson locked")
)

// LockedLessonError is returned when starting a lesson whose predecessor
// has not been perfected.
type LockedLessonError struct {
	Name     string
	Requires string
}

func (e *LockedLessonError) Error() string {
	return fmt.Sprintf("lesson %q is locked: complete %q perfectly first", e.Name, e.Requires)
}

func (e *LockedLessonError) Unwrap() error { return ErrLessonLocked }

// Engine holds the read-only collaborators shared by every learner.
type Engine struct {
	catalog *catalog.Catalog
	rules   *badges.RuleSet
	log     *logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

func WithRules(rs *badges.RuleSet) Option {
	return func(e *Engine) { e.rules = rs }
}

func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an engine over c.
func New(c *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: c,
		rules:   badges.Default(),
		log:     logger.Nop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }
func (e *Engine) Rules() *badges.RuleSet { return e.rules }

// NewPlayer creates an isolated learner context. A nil account starts a
// guest with no username. The account is copied.
func (e *Engine) NewPlayer(acct *account.Account) *Player {
	if acct == nil {
		acct = account.New("")
	} else {
		acct = acct.Clone()
		acct.Normalize()
	}
	return &Player{
		eng:     e,
		acct:    acct,
		session: &quiz.Session{},
		log:     e.log.With("user", acct.Username),
	}
}

// Result is what every player action returns.
type Result struct {
	Account   *account.Account
	Session   quiz.State
	NewBadges []badges.ID
	Outcome   quiz.Outcome
	// Unlocked lists lessons opened by this action.
	Unlocked []string
	Streak   streak.Change
	Item     *shop.Item
}

// Player is one learner's account plus quiz session. Methods are safe
// for concurrent use; two players never share mutable state.
type Player struct {
	mu        sync.Mutex
	eng       *Engine
	acct      *account.Account
	session   *quiz.Session
	activated bool
	log       *logger.Logger
}

// Username returns the registered name, or "" for a guest.
func (p *Player) Username() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acct.Username
}

// Snapshot returns the current state without changing anything.
func (p *Player) Snapshot() Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result()
}

// Activate runs the daily streak update. It may be called once per player.
func (p *Player) Activate(today time.Time) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.activated {
		return p.fail("activate", &quiz.TransitionError{Phase: p.session.Phase(), Action: "activate", Reason: "already activated"})
	}

	next := p.acct.Clone()
	change := streak.Update(next, today)
	granted := p.eng.rules.Evaluate(next)
	p.acct = next
	p.activated = true

	p.log.Debug("activated", "streak", next.Streak, "change", change.String())
	res := p.result()
	res.Streak = change
	res.NewBadges = granted
	return res, nil
}

// Register gives a guest its identity. Accounts cannot be renamed.
func (p *Player) Register(username string) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	name := strings.TrimSpace(username)
	if name == "" {
		return p.fail("register", fmt.Errorf("%w: must not be empty", ErrInvalidUsername))
	}
	if p.acct.Username != "" {
		return p.fail("register", &quiz.TransitionError{Phase: p.session.Phase(), Action: "register", Reason: "already registered as " + p.acct.Username})
	}

	p.acct.Username = name
	p.log = p.eng.log.With("user", name)
	p.log.Info("registered")
	return p.result(), nil
}

// StartLesson opens a lesson in the content view. Any active lesson is
// discarded without credit.
func (p *Player) StartLesson(name string) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.acct.Username == "" {
		return p.fail("start_lesson", ErrNotRegistered)
	}
	l, idx, ok := p.eng.catalog.Lookup(name)
	if !ok {
		return p.fail("start_lesson", &catalog.UnknownLessonError{Name: name})
	}
	order := p.eng.catalog.Names()
	if !unlock.IsAccessible(idx, p.acct, order) {
		return p.fail("start_lesson", &LockedLessonError{Name: name, Requires: order[idx-1]})
	}

	if p.session.Active() {
		p.log.Debug("discarding active lesson", "lesson", p.session.Snapshot().Lesson)
	}
	p.session = quiz.Start(l)
	p.log.Debug("lesson started", "lesson", name, "session_id", p.session.ID())
	return p.result(), nil
}

func (p *Player) BeginQuiz() (Result, error) {
	return p.apply(quiz.BeginQuiz{})
}

// SubmitAnswer answers the current question with a zero-based option index.
func (p *Player) SubmitAnswer(option int) (Result, error) {
	return p.apply(quiz.SubmitAnswer{Option: option})
}

func (p *Player) Advance() (Result, error) {
	return p.apply(quiz.Advance{})
}

// ExitLesson abandons the active lesson without partial credit.
func (p *Player) ExitLesson() (Result, error) {
	return p.apply(quiz.Exit{})
}

func (p *Player) apply(act quiz.Action) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	name := act.Name()
	if p.acct.Username == "" {
		return p.fail(name, ErrNotRegistered)
	}

	order := p.eng.catalog.Names()
	before := unlockedSet(p.acct, order)

	next := p.acct.Clone()
	out, err := p.session.Apply(next, p.eng.rules, act)
	if err != nil {
		return p.fail(name, err)
	}
	p.acct = next

	res := p.result()
	res.Outcome = out
	res.NewBadges = out.NewBadges
	if out.Completed {
		for i, l := range order {
			if !before[i] && unlock.IsUnlocked(i, p.acct, order) {
				res.Unlocked = append(res.Unlocked, l)
			}
		}
	}
	p.log.Debug("transition", "action", name, "phase", res.Session.Phase.String(), "xp", p.acct.XP, "coins", p.acct.Coins)
	return res, nil
}

// Purchase buys a shop item.
func (p *Player) Purchase(id string) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.acct.Username == "" {
		return p.fail("purchase", ErrNotRegistered)
	}

	next := p.acct.Clone()
	it, err := shop.Purchase(next, id)
	if err != nil {
		return p.fail("purchase", err)
	}
	p.acct = next

	p.log.Info("purchased", "item", it.ID, "price", it.Price, "coins", next.Coins)
	res := p.result()
	res.Item = &it
	return res, nil
}

// SetAvatar changes the avatar once the custom avatar item is owned.
func (p *Player) SetAvatar(avatar string) (Result, error) {
	return p.edit("set_avatar", func(a *account.Account) error { return a.SetAvatar(avatar) })
}

func (p *Player) SetAccountType(t string) (Result, error) {
	return p.edit("set_account_type", func(a *account.Account) error { return a.SetAccountType(t) })
}

func (p *Player) edit(action string, fn func(*account.Account) error) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.acct.Username == "" {
		return p.fail(action, ErrNotRegistered)
	}
	next := p.acct.Clone()
	if err := fn(next); err != nil {
		return p.fail(action, err)
	}
	p.acct = next
	return p.result(), nil
}

// fail logs a rejected action and returns the unchanged state alongside err.
func (p *Player) fail(action string, err error) (Result, error) {
	p.log.Info("action rejected", "action", action, "error", err)
	return p.result(), err
}

func (p *Player) result() Result {
	return Result{
		Account: p.acct.Clone(),
		Session: p.session.Snapshot(),
	}
}

func unlockedSet(a *account.Account, order []string) []bool {
	out := make([]bool, len(order))
	for i := range order {
		out[i] = unlock.IsUnlocked(i, a, order)
	}
	return out
}
