package cache

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/pierrec/lz4"
)

// Compressed stores entries lz4-framed in an inner cache. Entries that fail
// to decompress are treated as misses.
type Compressed struct {
	inner Cache
}

// NewCompressed wraps inner.
func NewCompressed(inner Cache) *Compressed { return &Compressed{inner: inner} }

// Inner returns the wrapped cache.
func (c *Compressed) Inner() Cache { return c.inner }

func (c *Compressed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, hit, err := c.inner.Get(ctx, key)
	if err != nil || !hit {
		return nil, hit, err
	}
	data, err := decompress(raw)
	if err != nil {
		_ = c.inner.Delete(ctx, key)
		return nil, false, nil
	}
	return data, true, nil
}

func (c *Compressed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	raw, err := compress(data)
	if err != nil {
		return err
	}
	return c.inner.Set(ctx, key, raw, ttl)
}

func (c *Compressed) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

func (c *Compressed) Close() error { return c.inner.Close() }

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(raw []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(raw)))
}

var _ Cache = (*Compressed)(nil)
