package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/coinquest/internal/account"
	"github.com/abhisek/coinquest/internal/catalog"
	"github.com/abhisek/coinquest/internal/engine"
	"github.com/abhisek/coinquest/internal/leaderboard"
	"github.com/abhisek/coinquest/internal/quiz"
	"github.com/abhisek/coinquest/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := NewService(engine.New(catalog.Default()), st.AccountRepo(), st.EventRepo(), nil)
	return svc, st
}

func kinds(evs []store.ProgressEvent) []store.EventKind {
	var out []store.EventKind
	for _, e := range evs {
		out = append(out, e.Kind)
	}
	return out
}

func TestLoginCreatesThenReopens(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	day := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }

	p, res, created, err := svc.Login(ctx, "ada")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "ada", p.Username())
	assert.Equal(t, 1, res.Account.Streak)

	svc.now = func() time.Time { return day.AddDate(0, 0, 1) }
	_, res, created, err = svc.Login(ctx, "ada")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 2, res.Account.Streak)

	evs, err := svc.History(ctx, "ada", store.QueryOpts{})
	require.NoError(t, err)
	assert.Equal(t, []store.EventKind{store.KindRegister, store.KindActivate, store.KindActivate}, kinds(evs))
}

func TestLoginRejectsBlankName(t *testing.T) {
	svc, _ := newTestService(t)
	_, _, _, err := svc.Login(context.Background(), "  ")
	assert.ErrorIs(t, err, engine.ErrInvalidUsername)
}

func TestLessonProgressIsPersisted(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, _, _, err := svc.Login(ctx, "ada")
	require.NoError(t, err)

	l, _ := svc.Engine().Catalog().Lesson(0)
	_, err = svc.Do(ctx, p, store.KindLessonStart, func() (engine.Result, error) { return p.StartLesson(l.Name) })
	require.NoError(t, err)
	_, err = svc.Do(ctx, p, "", p.BeginQuiz)
	require.NoError(t, err)

	for _, q := range l.Questions {
		_, err = svc.Do(ctx, p, store.KindAnswer, func() (engine.Result, error) { return p.SubmitAnswer(q.Correct) })
		require.NoError(t, err)
		_, err = svc.Do(ctx, p, "", p.Advance)
		require.NoError(t, err)
	}

	reopened, err := svc.Open(ctx, "ada")
	require.NoError(t, err)
	acct := reopened.Snapshot().Account
	assert.Equal(t, 220, acct.XP)
	assert.True(t, acct.HasPerfect(l.Name))

	answers, err := svc.History(ctx, "ada", store.QueryOpts{Kind: store.KindAnswer})
	require.NoError(t, err)
	require.Len(t, answers, len(l.Questions))
	assert.Equal(t, true, answers[0].Detail["correct"])
	assert.NotEmpty(t, answers[0].SessionID)

	complete, err := svc.History(ctx, "ada", store.QueryOpts{Kind: store.KindLessonComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, l.Name, complete[0].Lesson)
	assert.Equal(t, true, complete[0].Detail["perfect"])

	badgeEvents, err := svc.History(ctx, "ada", store.QueryOpts{Kind: store.KindBadge})
	require.NoError(t, err)
	assert.Len(t, badgeEvents, 2)
}

func TestRejectedActionWritesNothing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, _, _, err := svc.Login(ctx, "ada")
	require.NoError(t, err)
	before, err := svc.History(ctx, "ada", store.QueryOpts{})
	require.NoError(t, err)

	_, err = svc.Do(ctx, p, store.KindPurchase, func() (engine.Result, error) { return p.Purchase("badge_frame") })
	require.Error(t, err)

	after, err := svc.History(ctx, "ada", store.QueryOpts{})
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}

// failingRepo wraps a real repo and fails Save while fail is set.
type failingRepo struct {
	store.AccountRepo
	fail bool
}

func (r *failingRepo) Save(ctx context.Context, a *account.Account) error {
	if r.fail {
		return errors.New("disk full")
	}
	return r.AccountRepo.Save(ctx, a)
}

func TestFailedSaveKeepsAppliedResult(t *testing.T) {
	_, st := newTestService(t)
	repo := &failingRepo{AccountRepo: st.AccountRepo()}
	svc := NewService(engine.New(catalog.Default()), repo, st.EventRepo(), nil)
	ctx := context.Background()

	p, _, _, err := svc.Login(ctx, "ada")
	require.NoError(t, err)
	l, _ := svc.Engine().Catalog().Lesson(0)
	_, err = svc.Do(ctx, p, store.KindLessonStart, func() (engine.Result, error) { return p.StartLesson(l.Name) })
	require.NoError(t, err)
	_, err = svc.Do(ctx, p, "", p.BeginQuiz)
	require.NoError(t, err)

	repo.fail = true
	res, err := svc.Do(ctx, p, store.KindAnswer, func() (engine.Result, error) { return p.SubmitAnswer(l.Questions[0].Correct) })
	var commitErr *CommitError
	require.ErrorAs(t, err, &commitErr)
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, quiz.Revealed, res.Session.Phase)
	assert.Equal(t, 1, res.Account.TotalQuestions)

	stored, err := st.AccountRepo().Load(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.TotalQuestions)

	repo.fail = false
	res, err = svc.Do(ctx, p, "", p.Advance)
	require.NoError(t, err)
	assert.Equal(t, quiz.Question, res.Session.Phase)

	stored, err = st.AccountRepo().Load(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TotalQuestions)
}

func TestExitRecordsLessonName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, _, _, err := svc.Login(ctx, "ada")
	require.NoError(t, err)
	name := svc.Engine().Catalog().Names()[0]
	_, err = svc.Do(ctx, p, store.KindLessonStart, func() (engine.Result, error) { return p.StartLesson(name) })
	require.NoError(t, err)
	_, err = svc.Do(ctx, p, store.KindLessonExit, p.ExitLesson)
	require.NoError(t, err)

	evs, err := svc.History(ctx, "ada", store.QueryOpts{Kind: store.KindLessonExit})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, name, evs[0].Lesson)
}

func TestResetAndLeaderboard(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	ada, _, _, err := svc.Login(ctx, "ada")
	require.NoError(t, err)
	_, _, _, err = svc.Login(ctx, "bob")
	require.NoError(t, err)

	ranked, err := svc.Leaderboard(ctx, leaderboard.Friends(), ada.Snapshot().Account)
	require.NoError(t, err)
	assert.Len(t, ranked, 6)
	assert.NotZero(t, leaderboard.Position(ranked))

	require.NoError(t, svc.Reset(ctx, "bob"))
	assert.ErrorIs(t, svc.Reset(ctx, "bob"), store.ErrNotFound)

	accts, err := svc.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, accts, 1)
	assert.Equal(t, "ada", accts[0].Username)
}
