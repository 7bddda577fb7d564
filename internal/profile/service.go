package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/coinquest/internal/account"
	"github.com/abhisek/coinquest/internal/engine"
	"github.com/abhisek/coinquest/internal/leaderboard"
	"github.com/abhisek/coinquest/internal/logger"
	"github.com/abhisek/coinquest/internal/store"
)

// Service persists players around engine actions. Accounts go to the
// configured AccountRepo; progress events always go to the EventRepo.
type Service struct {
	eng      *engine.Engine
	accounts store.AccountRepo
	events   store.EventRepo
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates a profile service. events may be nil to skip history.
func NewService(eng *engine.Engine, accounts store.AccountRepo, events store.EventRepo, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{eng: eng, accounts: accounts, events: events, log: log, now: time.Now}
}

// Engine returns the engine players are created from.
func (s *Service) Engine() *engine.Engine { return s.eng }

// Open loads a stored account into a new player. It does not activate it.
func (s *Service) Open(ctx context.Context, username string) (*engine.Player, error) {
	a, err := s.accounts.Load(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	return s.eng.NewPlayer(a), nil
}

// Login opens username, registering a new account on first use, and runs
// the once-per-session streak activation. created reports a new account.
func (s *Service) Login(ctx context.Context, username string) (p *engine.Player, res engine.Result, created bool, err error) {
	p, err = s.Open(ctx, username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		p = s.eng.NewPlayer(nil)
		if res, err = s.Do(ctx, p, store.KindRegister, func() (engine.Result, error) {
			return p.Register(username)
		}); err != nil {
			return nil, res, false, err
		}
		created = true
	case err != nil:
		return nil, res, false, err
	}

	res, err = s.Do(ctx, p, store.KindActivate, func() (engine.Result, error) {
		return p.Activate(s.now())
	})
	if err != nil {
		return nil, res, created, err
	}
	return p, res, created, nil
}

// CommitError reports an action the player already applied in memory
// that could not be persisted. The returned Result is still current.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string { return e.Err.Error() }
func (e *CommitError) Unwrap() error { return e.Err }

// Do runs one player action and commits it when it succeeds.
// A rejected action is returned as is and nothing is written. An empty
// kind saves the account and records only lesson completions. When the
// write fails the error is a *CommitError and res reflects the player.
func (s *Service) Do(ctx context.Context, p *engine.Player, kind store.EventKind, action func() (engine.Result, error)) (engine.Result, error) {
	before := p.Snapshot()
	res, err := action()
	if err != nil {
		return res, err
	}
	if err := s.commit(ctx, kind, before, res); err != nil {
		return res, &CommitError{Err: err}
	}
	return res, nil
}

// Commit saves the player's current account and records kind.
func (s *Service) Commit(ctx context.Context, p *engine.Player, kind store.EventKind, res engine.Result) error {
	return s.commit(ctx, kind, p.Snapshot(), res)
}

func (s *Service) commit(ctx context.Context, kind store.EventKind, before, res engine.Result) error {
	acct := res.Account
	if err := s.accounts.Save(ctx, acct); err != nil {
		s.log.Warn("save account failed", "user", acct.Username, "error", err)
		return fmt.Errorf("save progress: %w", err)
	}
	if s.events == nil {
		return nil
	}

	sessionID, lesson := res.Session.ID, res.Session.Lesson
	if lesson == "" {
		sessionID, lesson = before.Session.ID, before.Session.Lesson
	}

	evKind := kind
	if evKind == "" {
		// Navigation inside a quiz is only recorded when it finishes a lesson.
		if !res.Outcome.Completed {
			return nil
		}
		evKind = store.KindLessonComplete
	}

	now := s.now()
	ev := &store.ProgressEvent{
		Timestamp: now,
		Username:  acct.Username,
		SessionID: sessionID,
		Kind:      evKind,
		Lesson:    lesson,
		Detail:    detailFor(evKind, res),
	}
	if err := s.events.Append(ctx, ev); err != nil {
		s.log.Warn("append event failed", "user", acct.Username, "kind", string(evKind), "error", err)
		return fmt.Errorf("record %s: %w", evKind, err)
	}

	for _, b := range res.NewBadges {
		badge := &store.ProgressEvent{
			Timestamp: now,
			Username:  acct.Username,
			SessionID: sessionID,
			Kind:      store.KindBadge,
			Lesson:    lesson,
			Detail:    map[string]any{"badge": string(b)},
		}
		if err := s.events.Append(ctx, badge); err != nil {
			s.log.Warn("append badge event failed", "user", acct.Username, "badge", string(b), "error", err)
			return fmt.Errorf("record badge: %w", err)
		}
	}
	return nil
}

func detailFor(kind store.EventKind, res engine.Result) map[string]any {
	a := res.Account
	switch kind {
	case store.KindActivate:
		return map[string]any{"streak": a.Streak, "change": res.Streak.String()}
	case store.KindAnswer:
		return map[string]any{
			"correct":  res.Outcome.Correct,
			"option":   res.Session.Selected,
			"question": res.Session.Cursor,
			"xp":       res.Outcome.XPGained,
			"coins":    res.Outcome.CoinsGained,
		}
	case store.KindLessonComplete:
		return map[string]any{
			"perfect":  res.Outcome.Perfect,
			"xp":       res.Outcome.XPGained,
			"coins":    res.Outcome.CoinsGained,
			"unlocked": res.Unlocked,
		}
	case store.KindPurchase:
		if res.Item == nil {
			return nil
		}
		return map[string]any{"item": res.Item.ID, "price": res.Item.Price, "coins_left": a.Coins}
	default:
		return nil
	}
}

// Reset deletes a learner's account. History events are kept.
func (s *Service) Reset(ctx context.Context, username string) error {
	if err := s.accounts.Delete(ctx, username); err != nil {
		return fmt.Errorf("reset %q: %w", username, err)
	}
	s.log.Info("account reset", "user", username)
	return nil
}

// Accounts lists every stored learner, highest xp first.
func (s *Service) Accounts(ctx context.Context) ([]*account.Account, error) {
	return s.accounts.List(ctx)
}

// History returns a learner's progress events.
func (s *Service) History(ctx context.Context, username string, opts store.QueryOpts) ([]store.ProgressEvent, error) {
	if s.events == nil {
		return nil, nil
	}
	return s.events.Query(ctx, username, opts)
}

// Leaderboard ranks me against board plus every other stored learner.
func (s *Service) Leaderboard(ctx context.Context, board []leaderboard.Entry, me *account.Account) ([]leaderboard.Entry, error) {
	stored, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	entries := append([]leaderboard.Entry(nil), board...)
	for _, a := range stored {
		entries = append(entries, leaderboard.FromAccount(a))
	}
	return leaderboard.Rank(entries, me), nil
}
