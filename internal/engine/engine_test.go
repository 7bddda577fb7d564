package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/coinquest/internal/account"
	"github.com/abhisek/coinquest/internal/badges"
	"github.com/abhisek/coinquest/internal/catalog"
	"github.com/abhisek/coinquest/internal/logger"
	"github.com/abhisek/coinquest/internal/quiz"
	"github.com/abhisek/coinquest/internal/shop"
)

var today = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func newPlayer(t *testing.T, name string) (*Engine, *Player) {
	t.Helper()
	e := New(catalog.Default())
	p := e.NewPlayer(nil)
	_, err := p.Register(name)
	require.NoError(t, err)
	return e, p
}

// finish plays lesson name answering correctly when pick(i) is true.
func finish(t *testing.T, e *Engine, p *Player, name string, pick func(i int) bool) Result {
	t.Helper()
	l, _, ok := e.Catalog().Lookup(name)
	require.True(t, ok)

	_, err := p.StartLesson(name)
	require.NoError(t, err)
	_, err = p.BeginQuiz()
	require.NoError(t, err)

	var res Result
	for i, q := range l.Questions {
		opt := q.Correct
		if !pick(i) {
			opt = (q.Correct + 1) % len(q.Options)
		}
		_, err = p.SubmitAnswer(opt)
		require.NoError(t, err)
		res, err = p.Advance()
		require.NoError(t, err)
	}
	return res
}

func TestPerfectLessonUnlocksNext(t *testing.T) {
	e, p := newPlayer(t, "ada")

	res := finish(t, e, p, "Budgeting Basics", func(int) bool { return true })

	assert.Equal(t, quiz.Completed, res.Session.Phase)
	assert.Equal(t, 220, res.Account.XP)
	assert.Equal(t, 210, res.Account.Coins)
	assert.ElementsMatch(t, []badges.ID{badges.FirstSteps, badges.PerfectScore}, res.NewBadges)
	assert.Equal(t, []string{"Saving Strategies"}, res.Unlocked)

	_, err := p.StartLesson("Saving Strategies")
	assert.NoError(t, err)
}

func TestImperfectLessonKeepsNextLocked(t *testing.T) {
	e, p := newPlayer(t, "ada")

	res := finish(t, e, p, "Budgeting Basics", func(i int) bool { return i%2 == 0 })
	assert.Equal(t, 160, res.Account.XP)
	assert.Equal(t, 180, res.Account.Coins)
	assert.Empty(t, res.Unlocked)

	_, err := p.StartLesson("Saving Strategies")
	require.ErrorIs(t, err, ErrLessonLocked)

	var le *LockedLessonError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "Budgeting Basics", le.Requires)

	_, err = p.StartLesson("Budgeting Basics")
	assert.NoError(t, err, "completed lessons stay open for replay")
}

func TestUnknownLesson(t *testing.T) {
	_, p := newPlayer(t, "ada")
	before := p.Snapshot()

	res, err := p.StartLesson("Astrology")
	assert.ErrorIs(t, err, catalog.ErrUnknownLesson)
	assert.Equal(t, before, res)
}

func TestGuestMustRegister(t *testing.T) {
	e := New(catalog.Default())
	p := e.NewPlayer(nil)

	_, err := p.StartLesson("Budgeting Basics")
	assert.ErrorIs(t, err, ErrNotRegistered)
	_, err = p.Purchase("xp_booster")
	assert.ErrorIs(t, err, ErrNotRegistered)
	_, err = p.BeginQuiz()
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestRegister(t *testing.T) {
	e := New(catalog.Default())
	p := e.NewPlayer(nil)

	_, err := p.Register("   ")
	assert.ErrorIs(t, err, ErrInvalidUsername)

	res, err := p.Register("  ada ")
	require.NoError(t, err)
	assert.Equal(t, "ada", res.Account.Username)
	assert.Equal(t, 100, res.Account.Coins)

	_, err = p.Register("bob")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, "ada", p.Username())
}

func TestActivateOnce(t *testing.T) {
	e := New(catalog.Default())
	acct := account.New("ada")
	last := today.AddDate(0, 0, -1)
	acct.LastLogin = &last
	acct.Streak = 6

	p := e.NewPlayer(acct)
	res, err := p.Activate(today)
	require.NoError(t, err)
	assert.Equal(t, 7, res.Account.Streak)
	assert.Equal(t, []badges.ID{badges.StreakChampion}, res.NewBadges)

	res, err = p.Activate(today.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 7, res.Account.Streak)

	assert.Equal(t, 6, acct.Streak, "caller's account is not aliased")
}

func TestStartLessonDiscardsActiveSession(t *testing.T) {
	e, p := newPlayer(t, "ada")
	l, _, _ := e.Catalog().Lookup("Budgeting Basics")

	_, err := p.StartLesson(l.Name)
	require.NoError(t, err)
	_, err = p.BeginQuiz()
	require.NoError(t, err)
	_, err = p.SubmitAnswer(l.Questions[0].Correct)
	require.NoError(t, err)

	res, err := p.StartLesson(l.Name)
	require.NoError(t, err)
	assert.Equal(t, quiz.ContentView, res.Session.Phase)
	assert.Equal(t, 1, res.Account.TotalQuestions, "answered question keeps its credit")
	assert.Empty(t, res.Account.CompletedLessons)
}

func TestExitLesson(t *testing.T) {
	e, p := newPlayer(t, "ada")
	_, err := p.ExitLesson()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = p.StartLesson(e.Catalog().Names()[0])
	require.NoError(t, err)
	res, err := p.ExitLesson()
	require.NoError(t, err)
	assert.Equal(t, quiz.Idle, res.Session.Phase)
}

func TestPurchase(t *testing.T) {
	_, p := newPlayer(t, "ada")

	res, err := p.Purchase("custom_avatar")
	var ife *shop.InsufficientFundsError
	require.ErrorAs(t, err, &ife)
	assert.Equal(t, 100, ife.Shortfall())
	assert.Equal(t, 100, res.Account.Coins)

	_, err = p.Purchase("time_machine")
	assert.ErrorIs(t, err, shop.ErrUnknownItem)

	rich := account.New("bob")
	rich.Coins = 400
	p = New(catalog.Default()).NewPlayer(rich)

	res, err = p.Purchase("Profile Theme")
	require.NoError(t, err)
	require.NotNil(t, res.Item)
	assert.Equal(t, "profile_theme", res.Item.ID)
	assert.Equal(t, 250, res.Account.Coins)
	assert.Equal(t, []string{"profile_theme"}, res.Account.Purchases)
}

func TestSetAvatarNeedsPurchase(t *testing.T) {
	e := New(catalog.Default())
	acct := account.New("ada")
	acct.Coins = 300
	p := e.NewPlayer(acct)

	_, err := p.SetAvatar("🦊")
	assert.ErrorIs(t, err, account.ErrCapabilityLocked)

	_, err = p.Purchase("custom_avatar")
	require.NoError(t, err)
	res, err := p.SetAvatar("🦊")
	require.NoError(t, err)
	assert.Equal(t, "🦊", res.Account.Avatar)
	assert.Equal(t, 100, res.Account.Coins)

	_, err = p.SetAccountType("Pirate")
	assert.ErrorIs(t, err, account.ErrInvalidType)
}

func TestResultAccountIsACopy(t *testing.T) {
	_, p := newPlayer(t, "ada")
	res := p.Snapshot()
	res.Account.Coins = 9999
	res.Account.Badges = append(res.Account.Badges, "Fake")

	again := p.Snapshot()
	assert.Equal(t, 100, again.Account.Coins)
	assert.Empty(t, again.Account.Badges)
}

func TestPlayersAreIsolated(t *testing.T) {
	e := New(catalog.Default())
	names := []string{"ada", "bob", "cy", "dee"}
	players := make([]*Player, len(names))
	for i, n := range names {
		players[i] = e.NewPlayer(nil)
		_, err := players[i].Register(n)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for i, p := range players {
		wg.Add(1)
		go func(i int, p *Player) {
			defer wg.Done()
			l, _ := e.Catalog().Lesson(0)
			_, _ = p.StartLesson(l.Name)
			_, _ = p.BeginQuiz()
			for k, q := range l.Questions {
				opt := q.Correct
				if i%2 == 1 && k == 0 {
					opt = (q.Correct + 1) % len(q.Options)
				}
				_, _ = p.SubmitAnswer(opt)
				_, _ = p.Advance()
			}
		}(i, p)
	}
	wg.Wait()

	for i, p := range players {
		acct := p.Snapshot().Account
		assert.Equal(t, names[i], acct.Username)
		assert.Equal(t, 6, acct.TotalQuestions)
		if i%2 == 0 {
			assert.Equal(t, 220, acct.XP)
			assert.True(t, acct.HasPerfect("Budgeting Basics"))
		} else {
			assert.Equal(t, 200, acct.XP)
			assert.False(t, acct.HasPerfect("Budgeting Basics"))
		}
	}
}

func TestConcurrentCallsOnOnePlayerAreSerialized(t *testing.T) {
	e, p := newPlayer(t, "ada")
	l, _ := e.Catalog().Lesson(0)
	_, err := p.StartLesson(l.Name)
	require.NoError(t, err)
	_, err = p.BeginQuiz()
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.SubmitAnswer(l.Questions[0].Correct); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, p.Snapshot().Account.TotalQuestions)
}

func TestActionLogsUseSnakeCaseNames(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	e := New(catalog.Default(), WithLogger(&logger.Logger{SugaredLogger: zap.New(core).Sugar()}))
	p := e.NewPlayer(nil)
	_, err := p.Register("ada")
	require.NoError(t, err)

	_, err = p.StartLesson("Budgeting Basics")
	require.NoError(t, err)
	_, err = p.BeginQuiz()
	require.NoError(t, err)
	_, err = p.Advance()
	require.Error(t, err)

	var actions []string
	for _, entry := range logs.All() {
		if a, ok := entry.ContextMap()["action"].(string); ok {
			actions = append(actions, a)
		}
	}
	assert.Equal(t, []string{"begin_quiz", "advance"}, actions)
}
