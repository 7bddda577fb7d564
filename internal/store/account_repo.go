package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/coinquest/internal/account"
)

// accountRepo implements AccountRepo as one JSON document per row.
// The xp column is denormalized for ordering.
type accountRepo struct {
	db *sql.DB
}

func (r *accountRepo) Load(ctx context.Context, username string) (*account.Account, error) {
	query, args := builder().
		Select("data").
		From(entsql.Table("accounts")).
		Where(entsql.EQ("username", username)).
		Query()

	var data string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return decodeAccount(data)
}

func (r *accountRepo) Save(ctx context.Context, a *account.Account) error {
	if a == nil || a.Username == "" {
		return errors.New("save account: username required")
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}

	query, args := builder().
		Insert("accounts").
		Columns("username", "data", "xp", "updated_at").
		Values(a.Username, string(data), a.XP, time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("username"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (r *accountRepo) Delete(ctx context.Context, username string) error {
	query, args := builder().
		Delete("accounts").
		Where(entsql.EQ("username", username)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %q: %w", username, ErrNotFound)
	}
	return nil
}

func (r *accountRepo) List(ctx context.Context) ([]*account.Account, error) {
	query, args := builder().
		Select("data").
		From(entsql.Table("accounts")).
		OrderBy(entsql.Desc("xp"), "username").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []*account.Account
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a, err := decodeAccount(data)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// decodeAccount parses a stored record and rejects ones that break the
// account invariants.
func decodeAccount(data string) (*account.Account, error) {
	var a account.Account
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	a.Normalize()
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("corrupt account record: %w", err)
	}
	return &a, nil
}
