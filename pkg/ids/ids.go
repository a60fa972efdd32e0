// Package ids allocates element ids for overlays.
//
// Allocators are passed to the components that need them instead of living
// in package state, so tests can use a deterministic [Sequence] and reset
// it between runs.
package ids

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// DefaultPrefix is prepended to every generated id.
const DefaultPrefix = "tooltip-"

// Allocator hands out unique element ids.
type Allocator interface {
	Next() string
}

// Sequence yields prefix-1, prefix-2, ... It is safe for concurrent use.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequence returns a sequence using prefix, or [DefaultPrefix] when empty.
func NewSequence(prefix string) *Sequence {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Sequence{prefix: prefix}
}

// Next returns the next id.
func (s *Sequence) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.prefix + strconv.Itoa(s.n)
}

// Reset restarts the sequence at 1.
func (s *Sequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = 0
}

// Random yields prefix followed by a random UUID.
type Random struct {
	Prefix string
}

// Next returns a new id.
func (r Random) Next() string {
	p := r.Prefix
	if p == "" {
		p = DefaultPrefix
	}
	return p + uuid.NewString()
}

var (
	_ Allocator = (*Sequence)(nil)
	_ Allocator = Random{}
)
