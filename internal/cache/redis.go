package cache

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/coinquest/internal/account"
	"github.com/abhisek/coinquest/internal/store"
)

const (
	DefaultPrefix = "coinquest"
	accountKey    = "account"
	indexKey      = "accounts"
)

// RedisAccountRepo stores each account as a JSON string and keeps a sorted
// set of usernames scored by xp for leaderboard ordering.
type RedisAccountRepo struct {
	client *redis.Client
	prefix string
}

var _ store.AccountRepo = (*RedisAccountRepo)(nil)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Open connects to Redis and verifies the connection with PING.
func Open(ctx context.Context, opts Options) (*RedisAccountRepo, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	return NewRedisAccountRepo(client, opts.Prefix), nil
}

// NewRedisAccountRepo wraps an existing client.
func NewRedisAccountRepo(client *redis.Client, prefix string) *RedisAccountRepo {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisAccountRepo{client: client, prefix: prefix}
}

func (r *RedisAccountRepo) Close() error {
	return r.client.Close()
}

func (r *RedisAccountRepo) key(username string) string {
	return r.prefix + ":" + accountKey + ":" + username
}

func (r *RedisAccountRepo) index() string {
	return r.prefix + ":" + indexKey
}

func (r *RedisAccountRepo) Load(ctx context.Context, username string) (*account.Account, error) {
	data, err := r.client.Get(ctx, r.key(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("account %q: %w", username, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return decode(data)
}

func (r *RedisAccountRepo) Save(ctx context.Context, a *account.Account) error {
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

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(a.Username), data, 0)
		pipe.ZAdd(ctx, r.index(), redis.Z{Score: float64(a.XP), Member: a.Username})
		return nil
	})
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (r *RedisAccountRepo) Delete(ctx context.Context, username string) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.key(username))
		pipe.ZRem(ctx, r.index(), username)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("account %q: %w", username, store.ErrNotFound)
	}
	return nil
}

func (r *RedisAccountRepo) List(ctx context.Context) ([]*account.Account, error) {
	names, err := r.client.ZRevRange(ctx, r.index(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	if len(names) == 0 {
		return nil, nil
	}

	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = r.key(n)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	out := make([]*account.Account, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			// Index entry without a record; skip it.
			continue
		}
		a, err := decode([]byte(s))
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	// ZREVRANGE orders equal scores by descending member.
	slices.SortStableFunc(out, func(x, y *account.Account) int {
		if c := cmp.Compare(y.XP, x.XP); c != 0 {
			return c
		}
		return cmp.Compare(x.Username, y.Username)
	})
	return out, nil
}

func decode(data []byte) (*account.Account, error) {
	var a account.Account
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	a.Normalize()
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("corrupt account record: %w", err)
	}
	return &a, nil
}
