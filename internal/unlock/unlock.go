package unlock

import (
	"github.com/abhisek/coinquest/internal/account"
	"github.com/abhisek/coinquest/internal/catalog"
)

// IsUnlocked reports whether lesson i is open under the linear chain:
// lesson 0 always, lesson i once order[i-1] has been perfected.
func IsUnlocked(i int, a *account.Account, order []string) bool {
	if i < 0 || i >= len(order) {
		return false
	}
	if i == 0 {
		return true
	}
	return a.HasPerfect(order[i-1])
}

// IsAccessible reports whether the learner may start lesson i.
// Completed lessons stay open for replay even when locked.
func IsAccessible(i int, a *account.Account, order []string) bool {
	if i < 0 || i >= len(order) {
		return false
	}
	return IsUnlocked(i, a, order) || a.HasCompleted(order[i])
}

// Status summarizes one lesson for the lesson list.
type Status struct {
	Index       int
	Lesson      catalog.Lesson
	Unlocked    bool
	Accessible  bool
	Completed   bool
	Perfect     bool
	Completions int
}

// Statuses evaluates every lesson in catalog order.
func Statuses(c *catalog.Catalog, a *account.Account) []Status {
	order := c.Names()
	out := make([]Status, 0, len(order))
	for i, name := range order {
		l, _ := c.Lesson(i)
		out = append(out, Status{
			Index:       i,
			Lesson:      l,
			Unlocked:    IsUnlocked(i, a, order),
			Accessible:  IsAccessible(i, a, order),
			Completed:   a.HasCompleted(name),
			Perfect:     a.HasPerfect(name),
			Completions: a.CompletionCount(name),
		})
	}
	return out
}
