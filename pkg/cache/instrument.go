package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/matzehuels/overlay/pkg/observability"
)

// Instrument reports hits, misses and writes of c to the registered cache
// hooks, labelled with the key kind.
func Instrument(c Cache) Cache {
	if _, ok := c.(*instrumented); ok {
		return c
	}
	return &instrumented{Cache: c}
}

type instrumented struct {
	Cache
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, KeyKind(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KeyKind(key))
		}
	}
	return data, ok, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, KeyKind(key), len(data))
	}
	return err
}

// Unwrap returns the instrumented backend.
func (c *instrumented) Unwrap() Cache { return c.Cache }

// KeyKind returns the kind segment of a key, e.g. "placement" for
// "staging:placement:ab12...".
func KeyKind(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i < 0 {
		return ""
	}
	head := key[:i]
	if j := strings.LastIndexByte(head, ':'); j >= 0 {
		return head[j+1:]
	}
	return head
}

// GetJSON decodes a cached JSON value into v. It returns ErrCacheMiss when
// the key is absent.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(data, v)
}

// SetJSON stores v as JSON.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
