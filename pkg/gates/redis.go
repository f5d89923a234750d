package gates

import (
	"context"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/flowplot/pkg/errors"
)

// DefaultRedisPrefix namespaces gate keys.
const DefaultRedisPrefix = "flowplot:gate:"

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	// URL is a redis:// connection URL.
	URL string
	// Prefix is prepended to every key (default DefaultRedisPrefix).
	Prefix string
}

// RedisStore keeps each style as a hash, with a set indexing the IDs.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect redis")
	}
	return NewRedisStoreFromClient(client, cfg.Prefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(id string) string { return r.prefix + id }
func (r *RedisStore) index() string       { return r.prefix + "ids" }

func (r *RedisStore) StyleFor(ctx context.Context, id string) (Style, error) {
	res := r.client.HGetAll(ctx, r.key(id))
	vals, err := res.Result()
	if err != nil {
		return Style{}, errors.Wrap(errors.ErrCodeStore, err, "get gate %q", id)
	}
	if len(vals) == 0 {
		return Style{}, notFound(id)
	}
	var s Style
	if err := res.Scan(&s); err != nil {
		return Style{}, errors.Wrap(errors.ErrCodeStore, err, "decode gate %q", id)
	}
	return s, nil
}

func (r *RedisStore) SetColor(ctx context.Context, id, color string) error {
	if err := errors.ValidateColor(color); err != nil {
		return err
	}
	n, err := r.client.Exists(ctx, r.key(id)).Result()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "lookup gate %q", id)
	}
	if n == 0 {
		return notFound(id)
	}
	if err := r.client.HSet(ctx, r.key(id), "stroke", color, "fill", color).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "set colour of gate %q", id)
	}
	return nil
}

func (r *RedisStore) List(ctx context.Context) ([]Style, error) {
	ids, err := r.client.SMembers(ctx, r.index()).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list gates")
	}
	slices.Sort(ids)

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.HGetAll(ctx, r.key(id))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list gates")
	}

	out := make([]Style, 0, len(ids))
	for _, cmd := range cmds {
		if len(cmd.Val()) == 0 {
			continue
		}
		var s Style
		if err := cmd.Scan(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "decode gate")
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *RedisStore) Put(ctx context.Context, s Style) error {
	if err := validate(s); err != nil {
		return err
	}
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, r.key(s.ID))
		p.HSet(ctx, r.key(s.ID), s)
		p.SAdd(ctx, r.index(), s.ID)
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "put gate %q", s.ID)
	}
	return nil
}

func (r *RedisStore) Close() error { return r.client.Close() }
