package leaderboard

import (
	"sort"

	"github.com/abhisek/coinquest/internal/account"
)

// Entry is one leaderboard row.
type Entry struct {
	Rank     int
	Username string
	XP       int
	Level    int
	Streak   int
	Avatar   string
	You      bool
}

// Worldwide returns the fixed global comparison set.
func Worldwide() []Entry {
	return []Entry{
		{Username: "FinanceWizard", XP: 2500, Level: 5, Streak: 15, Avatar: "🧙"},
		{Username: "MoneyMaster", XP: 2100, Level: 4, Streak: 12, Avatar: "💼"},
		{Username: "BudgetPro", XP: 1800, Level: 4, Streak: 8, Avatar: "📊"},
		{Username: "SavingsKing", XP: 1500, Level: 3, Streak: 10, Avatar: "👑"},
		{Username: "TaxGuru", XP: 1200, Level: 3, Streak: 6, Avatar: "🧾"},
	}
}

// Friends returns the fixed friends comparison set.
func Friends() []Entry {
	return []Entry{
		{Username: "Andy", XP: 1200, Level: 3, Streak: 5, Avatar: "🦊"},
		{Username: "Brian", XP: 950, Level: 2, Streak: 3, Avatar: "🐼"},
		{Username: "Kaan", XP: 800, Level: 2, Streak: 2, Avatar: "🦁"},
		{Username: "Elisa", XP: 700, Level: 1, Streak: 1, Avatar: "🐨"},
	}
}

// FromAccount builds a row for a stored learner.
func FromAccount(a *account.Account) Entry {
	return Entry{
		Username: a.Username,
		XP:       a.XP,
		Level:    a.Level,
		Streak:   a.Streak,
		Avatar:   a.Avatar,
	}
}

// Rank merges me into entries (if registered), sorts by xp descending
// and numbers the rows. Rows sharing me's username are replaced.
func Rank(entries []Entry, me *account.Account) []Entry {
	out := make([]Entry, 0, len(entries)+1)
	for _, e := range entries {
		if me != nil && me.Username != "" && e.Username == me.Username {
			continue
		}
		e.You = false
		out = append(out, e)
	}
	if me != nil && me.Username != "" {
		row := FromAccount(me)
		row.You = true
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].XP > out[j].XP })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Position returns the 1-based rank of the learner's row, or 0.
func Position(ranked []Entry) int {
	for _, e := range ranked {
		if e.You {
			return e.Rank
		}
	}
	return 0
}
