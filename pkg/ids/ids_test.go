package ids

import (
	"strings"
	"sync"
	"testing"
)

func TestSequence(t *testing.T) {
	s := NewSequence("")
	for _, want := range []string{"tooltip-1", "tooltip-2", "tooltip-3"} {
		if got := s.Next(); got != want {
			t.Errorf("Next() = %q, want %q", got, want)
		}
	}
	s.Reset()
	if got := s.Next(); got != "tooltip-1" {
		t.Errorf("after Reset Next() = %q, want tooltip-1", got)
	}
}

func TestSequenceConcurrent(t *testing.T) {
	s := NewSequence("x-")
	seen := make(map[string]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := s.Next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if len(seen) != 1000 {
		t.Errorf("got %d unique ids, want 1000", len(seen))
	}
}

func TestRandom(t *testing.T) {
	r := Random{Prefix: "tip-"}
	a, b := r.Next(), r.Next()
	if a == b {
		t.Error("Random ids should differ")
	}
	if !strings.HasPrefix(a, "tip-") || len(a) != len("tip-")+36 {
		t.Errorf("Next() = %q, want tip-<uuid>", a)
	}
	if got := (Random{}).Next(); !strings.HasPrefix(got, DefaultPrefix) {
		t.Errorf("default prefix missing: %q", got)
	}
}
