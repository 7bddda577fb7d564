package shop

import (
	"errors"
	"fmt"

	"github.com/abhisek/coinquest/internal/account"
)

var (
	ErrUnknownItem       = errors.New("unknown item")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyOwned      = errors.New("item already owned")
)

// UnknownItemError names an item id that is not for sale.
type UnknownItemError struct {
	ID string
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("unknown item %q", e.ID)
}

func (e *UnknownItemError) Unwrap() error { return ErrUnknownItem }

// InsufficientFundsError is returned when the learner cannot afford an item.
type InsufficientFundsError struct {
	Item  string
	Price int
	Coins int
}

// Shortfall is how many more coins the learner needs.
func (e *InsufficientFundsError) Shortfall() int {
	return e.Price - e.Coins
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for %s: price %d, have %d (short %d)", e.Item, e.Price, e.Coins, e.Shortfall())
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// Item is something the learner can buy with coins.
type Item struct {
	ID          string
	Name        string
	Icon        string
	Description string
	Price       int
	Repeatable  bool
	// Capability is granted on purchase; empty for consumables.
	Capability string
}

var items = []Item{
	{ID: "custom_avatar", Name: "Custom Avatar", Icon: "👤", Description: "Unlock a custom avatar for your profile", Price: 200, Capability: account.CapabilityCustomAvatar},
	{ID: "profile_theme", Name: "Profile Theme", Icon: "🎨", Description: "Change your profile theme and colors", Price: 150, Capability: "profile_theme"},
	{ID: "special_effects", Name: "Special Effects", Icon: "✨", Description: "Add special effects to your profile", Price: 300, Capability: "special_effects"},
	{ID: "badge_frame", Name: "Exclusive Badge Frame", Icon: "🏅", Description: "Get an exclusive badge frame", Price: 500, Capability: "badge_frame"},
	{ID: "xp_booster", Name: "XP Booster", Icon: "⚡", Description: "Get 2x XP for 24 hours", Price: 400, Repeatable: true},
	{ID: "streak_protector", Name: "Streak Protector", Icon: "🛡️", Description: "Protect your streak for one day", Price: 250, Repeatable: true},
}

// Items returns every item in display order.
func Items() []Item {
	return append([]Item(nil), items...)
}

// Lookup finds an item by id or display name.
func Lookup(id string) (Item, bool) {
	for _, it := range items {
		if it.ID == id || it.Name == id {
			return it, true
		}
	}
	return Item{}, false
}

// Owned reports whether a one-time item is already held.
func Owned(a *account.Account, it Item) bool {
	return !it.Repeatable && it.Capability != "" && a.HasCapability(it.Capability)
}

// Purchase buys id for the learner. On any error the account is unchanged.
func Purchase(a *account.Account, id string) (Item, error) {
	it, ok := Lookup(id)
	if !ok {
		return Item{}, &UnknownItemError{ID: id}
	}
	if Owned(a, it) {
		return it, fmt.Errorf("%s: %w", it.Name, ErrAlreadyOwned)
	}
	if a.Coins < it.Price {
		return it, &InsufficientFundsError{Item: it.Name, Price: it.Price, Coins: a.Coins}
	}

	if err := a.SpendCoins(it.Price); err != nil {
		return it, err
	}
	a.Purchases = append(a.Purchases, it.ID)
	a.AddCapability(it.Capability)
	return it, nil
}
