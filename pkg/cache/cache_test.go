package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/overlay/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "placement:abc", []byte(`{"side":"top"}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "placement:abc")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if string(data) != `{"side":"top"}` {
		t.Errorf("Get = %s", data)
	}

	if err := c.Delete(ctx, "placement:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "placement:abc"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "placement:abc"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed from disk")
	}

	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl should never expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v, want a clean miss", hit, err)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := Instrument(fc)
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	ok, err := Clear(ctx, c)
	if !ok || err != nil {
		t.Fatalf("Clear = %v, %v; want true, nil", ok, err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entries should be gone after Clear")
	}
	if _, err := os.Stat(fc.Dir()); err != nil {
		t.Errorf("cache dir should be recreated: %v", err)
	}

	if ok, _ := Clear(ctx, NewNullCache()); ok {
		t.Error("NullCache does not support Clear")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	type req struct {
		Side string
		X, Y float64
	}
	pk1 := k.PlacementKey(req{Side: "top", X: 1})
	pk2 := k.PlacementKey(req{Side: "top", X: 2})
	if pk1 == pk2 {
		t.Error("different requests should produce different keys")
	}
	if pk1 != k.PlacementKey(req{Side: "top", X: 1}) {
		t.Error("PlacementKey should be deterministic")
	}
	if !strings.HasPrefix(pk1, "placement:") {
		t.Errorf("PlacementKey = %q, want placement: prefix", pk1)
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "json"})
	if ak1 == ak2 {
		t.Error("different ArtifactKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(ak1, "artifact:") {
		t.Errorf("ArtifactKey = %q, want artifact: prefix", ak1)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "staging:")
	inner := NewDefaultKeyer()

	if got, want := scoped.PlacementKey("r"), "staging:"+inner.PlacementKey("r"); got != want {
		t.Errorf("PlacementKey = %q, want %q", got, want)
	}
	opts := ArtifactKeyOpts{Format: "dot", Tooltip: "save"}
	if got, want := scoped.ArtifactKey("h", opts), "staging:"+inner.ArtifactKey("h", opts); got != want {
		t.Errorf("ArtifactKey = %q, want %q", got, want)
	}

	if got := NewScopedKeyer(nil, "p:").PlacementKey("r"); got != "p:"+inner.PlacementKey("r") {
		t.Errorf("nil inner should fall back to the default keyer, got %q", got)
	}
}

func TestKeyKind(t *testing.T) {
	tests := []struct {
		key, want string
	}{
		{"placement:ab12", "placement"},
		{"staging:placement:ab12", "placement"},
		{"a:b:artifact:ff", "artifact"},
		{"plain", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := KeyKind(tt.key); got != tt.want {
				t.Errorf("KeyKind(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
	kinds              []string
}

func (h *countingHooks) OnCacheHit(_ context.Context, kind string) {
	h.hits++
	h.kinds = append(h.kinds, kind)
}

func (h *countingHooks) OnCacheMiss(_ context.Context, kind string) {
	h.misses++
	h.kinds = append(h.kinds, kind)
}

func (h *countingHooks) OnCacheSet(_ context.Context, kind string, _ int) {
	h.sets++
	h.kinds = append(h.kinds, kind)
}

func TestInstrumentAndJSON(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := Instrument(fc)
	if Instrument(c) != c {
		t.Error("Instrument should not wrap twice")
	}

	key := NewDefaultKeyer().PlacementKey("save")
	var out map[string]int
	if err := GetJSON(ctx, c, key, &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("GetJSON on empty cache = %v, want ErrCacheMiss", err)
	}
	if err := SetJSON(ctx, c, key, map[string]int{"attempts": 3}, PlacementTTL); err != nil {
		t.Fatal(err)
	}
	if err := GetJSON(ctx, c, key, &out); err != nil {
		t.Fatal(err)
	}
	if out["attempts"] != 3 {
		t.Errorf("GetJSON = %v", out)
	}

	if hooks.hits != 1 || hooks.misses != 1 || hooks.sets != 1 {
		t.Errorf("hits/misses/sets = %d/%d/%d, want 1/1/1", hooks.hits, hooks.misses, hooks.sets)
	}
	for _, k := range hooks.kinds {
		if k != "placement" {
			t.Errorf("hook kind = %q, want placement", k)
		}
	}
}

func TestIsMiss(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"miss", ErrCacheMiss, true},
		{"wrapped miss", fmt.Errorf("placement %s: %w", "key", ErrCacheMiss), true},
		{"retryable miss", Retryable(ErrCacheMiss), true},
		{"unavailable", ErrUnavailable, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMiss(tt.err); got != tt.want {
				t.Errorf("IsMiss(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("wrapped error should unwrap to ErrUnavailable")
	}
	if IsRetryable(ErrCacheMiss) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := RetryDelay
	RetryDelay = time.Millisecond
	t.Cleanup(func() { RetryDelay = old })

	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{name: "first try", failures: 0, wantCalls: 1},
		{name: "non-retryable", failures: 1, retryable: false, wantCalls: 1, wantErr: true},
		{name: "recovers", failures: 2, retryable: true, wantCalls: 3},
		{name: "gives up", failures: 5, retryable: true, wantCalls: 3, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return Retryable(ErrUnavailable)
					}
					return ErrCacheMiss
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	old := RetryDelay
	RetryDelay = time.Millisecond
	t.Cleanup(func() { RetryDelay = old })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("NewRedisCache = %v, want ErrUnavailable", err)
	}
}
