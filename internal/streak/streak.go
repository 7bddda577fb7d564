package streak

import (
	"time"

	"github.com/abhisek/coinquest/internal/account"
)

// Change describes what Update did to the streak.
type Change int

const (
	Started Change = iota
	Unchanged
	Extended
	Reset
)

func (c Change) String() string {
	switch c {
	case Started:
		return "started"
	case Unchanged:
		return "unchanged"
	case Extended:
		return "extended"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}

// Day truncates t to its calendar date in t's own location, expressed as
// midnight UTC. Comparing two Days yields a whole number of days.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// Update records an activation on today.
// A gap of one day extends the streak. Larger gaps and clock skew reset it to 1.
// Same-day re-entry leaves the account untouched.
func Update(a *account.Account, today time.Time) Change {
	day := Day(today)

	if a.LastLogin == nil {
		a.Streak = 1
		a.LastLogin = &day
		return Started
	}

	var change Change
	switch delta := DaysBetween(*a.LastLogin, day); delta {
	case 0:
		return Unchanged
	case 1:
		a.Streak++
		change = Extended
	default:
		a.Streak = 1
		change = Reset
	}
	a.LastLogin = &day
	return change
}
