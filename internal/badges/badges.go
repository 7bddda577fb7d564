package badges

import "github.com/abhisek/coinquest/internal/account"

// ID identifies a badge.
type ID string

const (
	FirstSteps       ID = "First Steps"
	QuestionMaster   ID = "Question Master"
	StreakChampion   ID = "Streak Champion"
	Saver            ID = "Saver"
	DedicatedLearner ID = "Dedicated Learner"
	PerfectScore     ID = "Perfect Score"
	CenturyClub      ID = "Century Club"
)

// Rule pairs a badge with the predicate that earns it.
// Event-granted badges have a nil Earned.
type Rule struct {
	ID          ID
	Icon        string
	Requirement string
	Earned      func(a *account.Account) bool
}

// RuleSet is an ordered, read-only list of badge rules.
type RuleSet struct {
	rules []Rule
}

var defaultRules = []Rule{
	{
		ID:          FirstSteps,
		Icon:        "🎯",
		Requirement: "Complete your first lesson",
		Earned:      func(a *account.Account) bool { return len(a.CompletedLessons) >= 1 },
	},
	{
		ID:          QuestionMaster,
		Icon:        "🧠",
		Requirement: "Answer 10 questions correctly",
		Earned:      func(a *account.Account) bool { return a.CorrectAnswers >= 10 },
	},
	{
		ID:          StreakChampion,
		Icon:        "🔥",
		Requirement: "Maintain a 7-day streak",
		Earned:      func(a *account.Account) bool { return a.Streak >= 7 },
	},
	{
		ID:          Saver,
		Icon:        "💰",
		Requirement: "Save 500 coins",
		Earned:      func(a *account.Account) bool { return a.Coins >= 500 },
	},
	{
		ID:          DedicatedLearner,
		Icon:        "📚",
		Requirement: "Complete 5 lessons",
		Earned:      func(a *account.Account) bool { return len(a.CompletedLessons) >= 5 },
	},
	{
		ID:          PerfectScore,
		Icon:        "⭐",
		Requirement: "Get all questions right in a lesson",
	},
	{
		ID:          CenturyClub,
		Icon:        "🏆",
		Requirement: "Answer 100 questions correctly",
		Earned:      func(a *account.Account) bool { return a.CorrectAnswers >= 100 },
	},
}

// Default returns the built-in rule set.
func Default() *RuleSet {
	return &RuleSet{rules: defaultRules}
}

// NewRuleSet builds a rule set from rules in evaluation order.
func NewRuleSet(rules ...Rule) *RuleSet {
	return &RuleSet{rules: append([]Rule(nil), rules...)}
}

// Rules returns the rules in evaluation order.
func (rs *RuleSet) Rules() []Rule {
	return append([]Rule(nil), rs.rules...)
}

// Lookup returns the rule for id.
func (rs *RuleSet) Lookup(id ID) (Rule, bool) {
	for _, r := range rs.rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// Evaluate grants every badge whose predicate now holds and returns the
// newly granted ids in rule order. Already-held badges are skipped.
func (rs *RuleSet) Evaluate(a *account.Account) []ID {
	var granted []ID
	for _, r := range rs.rules {
		if r.Earned == nil || a.HasBadge(string(r.ID)) {
			continue
		}
		if r.Earned(a) && a.AddBadge(string(r.ID)) {
			granted = append(granted, r.ID)
		}
	}
	return granted
}

// Grant awards id once. It reports whether the badge was newly added.
func Grant(a *account.Account, id ID) bool {
	return a.AddBadge(string(id))
}
