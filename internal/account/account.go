package account

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Economy and leveling constants.
const (
	XPPerCorrect    = 20
	CoinsPerCorrect = 10
	XPPerLesson     = 100
	CoinsPerLesson  = 50
	XPPerLevel      = 400
	StartingCoins   = 100
)

// DefaultAvatar is shown until the learner picks another one.
const DefaultAvatar = "🦖"

// Account types a learner can choose from.
const (
	TypeHome    = "Home"
	TypeStudent = "Student"
	TypeTeacher = "Teacher"
)

// CapabilityCustomAvatar gates SetAvatar.
const CapabilityCustomAvatar = "custom_avatar"

var (
	ErrInsufficientCoins = errors.New("insufficient coins")
	ErrCapabilityLocked  = errors.New("capability locked")
	ErrInvalidType       = errors.New("invalid account type")
)

// Account is the persisted profile of one learner.
// An empty Username means no identity has been registered yet.
type Account struct {
	Username         string     `json:"username"`
	Level            int        `json:"level"`
	XP               int        `json:"xp"`
	Coins            int        `json:"coins"`
	Streak           int        `json:"streak"`
	LastLogin        *time.Time `json:"last_login"`
	CompletedLessons []string   `json:"completed_lessons"`
	PerfectLessons   []string   `json:"perfect_lessons"`
	Badges           []string   `json:"badges"`
	CorrectAnswers   int        `json:"correct_answers"`
	TotalQuestions   int        `json:"total_questions"`

	Avatar       string   `json:"avatar"`
	AccountType  string   `json:"account_type"`
	Capabilities []string `json:"capabilities"`
	Purchases    []string `json:"purchases"`
}

// New creates a fresh account for username.
func New(username string) *Account {
	return &Account{
		Username:         username,
		Level:            1,
		Coins:            StartingCoins,
		CompletedLessons: []string{},
		PerfectLessons:   []string{},
		Badges:           []string{},
		Avatar:           DefaultAvatar,
		AccountType:      TypeHome,
		Capabilities:     []string{},
		Purchases:        []string{},
	}
}

// LevelFor returns the level for a given xp total.
func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return 1 + xp/XPPerLevel
}

// Recompute brings the stored level back in line with xp.
func (a *Account) Recompute() {
	a.Level = LevelFor(a.XP)
}

// AddXP adds n experience points and recomputes the level.
func (a *Account) AddXP(n int) {
	if n <= 0 {
		return
	}
	a.XP += n
	a.Recompute()
}

// AddCoins credits n coins.
func (a *Account) AddCoins(n int) {
	if n > 0 {
		a.Coins += n
	}
}

// SpendCoins debits n coins, refusing to go negative.
func (a *Account) SpendCoins(n int) error {
	if n < 0 {
		return fmt.Errorf("spend %d coins: negative amount", n)
	}
	if a.Coins < n {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientCoins, a.Coins, n)
	}
	a.Coins -= n
	return nil
}

func (a *Account) HasBadge(id string) bool { return slices.Contains(a.Badges, id) }
func (a *Account) HasPerfect(lesson string) bool { return slices.Contains(a.PerfectLessons, lesson) }
func (a *Account) HasCompleted(lesson string) bool { return slices.Contains(a.CompletedLessons, lesson) }
func (a *Account) HasCapability(c string) bool { return slices.Contains(a.Capabilities, c) }

// AddBadge records a badge. It reports false if the badge was already held.
func (a *Account) AddBadge(id string) bool {
	if a.HasBadge(id) {
		return false
	}
	a.Badges = append(a.Badges, id)
	return true
}

// AddPerfect marks lesson as perfectly completed.
func (a *Account) AddPerfect(lesson string) bool {
	if a.HasPerfect(lesson) {
		return false
	}
	a.PerfectLessons = append(a.PerfectLessons, lesson)
	return true
}

// AddCapability unlocks an item effect.
func (a *Account) AddCapability(c string) bool {
	if c == "" || a.HasCapability(c) {
		return false
	}
	a.Capabilities = append(a.Capabilities, c)
	return true
}

// RecordCompletion appends lesson to the completion history. Replays
// are recorded again.
func (a *Account) RecordCompletion(lesson string) {
	a.CompletedLessons = append(a.CompletedLessons, lesson)
}

// CompletionCount returns how many times lesson has been finished.
func (a *Account) CompletionCount(lesson string) int {
	n := 0
	for _, l := range a.CompletedLessons {
		if l == lesson {
			n++
		}
	}
	return n
}

// Accuracy returns lifetime correct answers as a percentage.
func (a *Account) Accuracy() float64 {
	if a.TotalQuestions == 0 {
		return 0
	}
	return float64(a.CorrectAnswers) / float64(a.TotalQuestions) * 100
}

// RecentLessons returns up to n most recent completions, newest first.
func (a *Account) RecentLessons(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i := len(a.CompletedLessons) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, a.CompletedLessons[i])
	}
	return out
}

// SetAvatar changes the avatar. Requires the custom avatar capability.
func (a *Account) SetAvatar(avatar string) error {
	if !a.HasCapability(CapabilityCustomAvatar) {
		return ErrCapabilityLocked
	}
	avatar = strings.TrimSpace(avatar)
	if avatar == "" {
		return errors.New("avatar must not be empty")
	}
	a.Avatar = avatar
	return nil
}

// SetAccountType changes the account type.
func (a *Account) SetAccountType(t string) error {
	switch t {
	case TypeHome, TypeStudent, TypeTeacher:
		a.AccountType = t
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidType, t)
	}
}

// Clone returns a deep copy.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	if a.LastLogin != nil {
		t := *a.LastLogin
		c.LastLogin = &t
	}
	c.CompletedLessons = slices.Clone(a.CompletedLessons)
	c.PerfectLessons = slices.Clone(a.PerfectLessons)
	c.Badges = slices.Clone(a.Badges)
	c.Capabilities = slices.Clone(a.Capabilities)
	c.Purchases = slices.Clone(a.Purchases)
	return &c
}

// Normalize fills nil collections and defaults left empty by older records.
func (a *Account) Normalize() {
	if a.CompletedLessons == nil {
		a.CompletedLessons = []string{}
	}
	if a.PerfectLessons == nil {
		a.PerfectLessons = []string{}
	}
	if a.Badges == nil {
		a.Badges = []string{}
	}
	if a.Capabilities == nil {
		a.Capabilities = []string{}
	}
	if a.Purchases == nil {
		a.Purchases = []string{}
	}
	if a.Avatar == "" {
		a.Avatar = DefaultAvatar
	}
	if a.AccountType == "" {
		a.AccountType = TypeHome
	}
}

// Validate checks the account invariants and reports every violation.
func (a *Account) Validate() error {
	var errs []string

	if a.XP < 0 {
		errs = append(errs, fmt.Sprintf("xp is negative (%d)", a.XP))
	}
	if a.Coins < 0 {
		errs = append(errs, fmt.Sprintf("coins is negative (%d)", a.Coins))
	}
	if a.Streak < 0 {
		errs = append(errs, fmt.Sprintf("streak is negative (%d)", a.Streak))
	}
	if a.CorrectAnswers < 0 || a.TotalQuestions < 0 {
		errs = append(errs, "answer counters are negative")
	}
	if a.CorrectAnswers > a.TotalQuestions {
		errs = append(errs, fmt.Sprintf("correct_answers %d exceeds total_questions %d", a.CorrectAnswers, a.TotalQuestions))
	}
	if want := LevelFor(a.XP); a.Level != want {
		errs = append(errs, fmt.Sprintf("level %d inconsistent with xp %d (want %d)", a.Level, a.XP, want))
	}
	if d := firstDuplicate(a.PerfectLessons); d != "" {
		errs = append(errs, fmt.Sprintf("duplicate perfect lesson %q", d))
	}
	if d := firstDuplicate(a.Badges); d != "" {
		errs = append(errs, fmt.Sprintf("duplicate badge %q", d))
	}
	if d := firstDuplicate(a.Capabilities); d != "" {
		errs = append(errs, fmt.Sprintf("duplicate capability %q", d))
	}

	if len(errs) > 0 {
		return fmt.Errorf("account %q invalid:\n  %s", a.Username, strings.Join(errs, "\n  "))
	}
	return nil
}

func firstDuplicate(xs []string) string {
	seen := make(map[string]bool, len(xs))
	for _, x := range xs {
		if seen[x] {
			return x
		}
		seen[x] = true
	}
	return ""
}
