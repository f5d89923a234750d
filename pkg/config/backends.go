package config

import (
	"context"
	stderrors "errors"
	"path/filepath"

	"github.com/matzehuels/flowplot/pkg/cache"
	"github.com/matzehuels/flowplot/pkg/errors"
	"github.com/matzehuels/flowplot/pkg/gates"
)

// connectAttempts bounds retries against network backends at startup.
const connectAttempts = 3

// OpenStore builds the configured gate style store. Network backends are
// retried with backoff while they fail to connect.
func (c Config) OpenStore(ctx context.Context) (gates.Store, error) {
	switch c.Store.Backend {
	case "", StoreMemory:
		return gates.NewMemoryStore(), nil
	case StoreRedis:
		var store *gates.RedisStore
		err := cache.RetryWithBackoff(ctx, connectAttempts, func() error {
			s, err := gates.NewRedisStore(ctx, gates.RedisConfig{URL: c.Store.RedisURL, Prefix: c.Store.Prefix})
			store = s
			return transient(err)
		})
		if err != nil {
			return nil, unwrapRetry(err)
		}
		return store, nil
	case StoreMongo:
		var store *gates.MongoStore
		err := cache.RetryWithBackoff(ctx, connectAttempts, func() error {
			s, err := gates.NewMongoStore(ctx, gates.MongoConfig{
				URI:        c.Store.MongoURI,
				Database:   c.Store.Database,
				Collection: c.Store.Collection,
			})
			store = s
			return transient(err)
		})
		if err != nil {
			return nil, unwrapRetry(err)
		}
		return store, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
}

// OpenCache builds the configured artifact cache. disabled forces a
// [cache.NullCache]. defaultDir is used by the file backend when no
// directory is configured.
func (c Config) OpenCache(ctx context.Context, defaultDir string, disabled bool) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}

	var inner cache.Cache
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case "", CacheFile:
		dir := c.Cache.Dir
		if dir == "" {
			dir = defaultDir
		}
		fc, err := cache.NewFileCache(filepath.Join(dir, "artifacts"))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open cache dir")
		}
		inner = fc
	case CacheRedis:
		prefix := c.Cache.KeyPrefix()
		var rc *cache.RedisCache
		err := cache.RetryWithBackoff(ctx, connectAttempts, func() error {
			r, err := cache.NewRedisCache(ctx, c.Cache.RedisURL, prefix)
			rc = r
			return err
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, unwrapRetry(err), "connect redis cache")
		}
		inner = rc
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}

	if c.Cache.Compressed() {
		return cache.NewCompressed(inner), nil
	}
	return inner, nil
}

// transient marks store connection failures as retryable.
func transient(err error) error {
	if errors.Is(err, errors.ErrCodeStore) {
		return cache.Retryable(err)
	}
	return err
}

func unwrapRetry(err error) error {
	var re *cache.RetryableError
	if stderrors.As(err, &re) {
		return re.Err
	}
	return err
}
