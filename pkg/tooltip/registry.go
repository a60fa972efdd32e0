package tooltip

import (
	"context"
	"sync"

	"github.com/matzehuels/overlay/pkg/dom"
	"github.com/matzehuels/overlay/pkg/errors"
	"github.com/matzehuels/overlay/pkg/ids"
	"github.com/matzehuels/overlay/pkg/placement"
)

// Registry owns the tooltips of one document. Its tooltips share a solver,
// id allocator and scheduler and nothing else.
type Registry struct {
	doc  *dom.Document
	base Options

	mu    sync.RWMutex
	byKey map[string]*Tooltip
	order []string
}

// NewRegistry creates a registry whose tooltips inherit base. Per-tooltip
// fields (Text, Size, WrapWidth) are taken from [Registry.Attach].
func NewRegistry(doc *dom.Document, base Options) *Registry {
	if base.Solver == nil {
		base.Solver = placement.NewSolver(doc, placement.WithLogger(base.Logger))
	}
	if base.IDs == nil {
		base.IDs = ids.NewSequence("")
	}
	if base.Scheduler == nil {
		base.Scheduler = SystemScheduler
	}
	return &Registry{doc: doc, base: base, byKey: make(map[string]*Tooltip)}
}

// Document returns the registry's document.
func (r *Registry) Document() *dom.Document { return r.doc }

// Solver returns the shared solver.
func (r *Registry) Solver() *placement.Solver { return r.base.Solver }

// Attach creates a tooltip for trigger under key, usually the trigger id.
func (r *Registry) Attach(key string, trigger *dom.Element, opts Options) (*Tooltip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byKey[key]; dup {
		return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate tooltip %q", key)
	}

	o := r.base
	o.Text, o.Size, o.WrapWidth = opts.Text, opts.Size, opts.WrapWidth
	if opts.RevealDelay != 0 {
		o.RevealDelay = opts.RevealDelay
	}
	t, err := New(trigger, o)
	if err != nil {
		return nil, err
	}
	r.byKey[key] = t
	r.order = append(r.order, key)
	return t, nil
}

// Get returns the tooltip attached under key.
func (r *Registry) Get(key string) (*Tooltip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byKey[key]
	if !ok {
		return nil, errors.New(errors.ErrCodeElementNotFound, "no tooltip for %q", key)
	}
	return t, nil
}

// Keys returns the tooltip keys in attach order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// All returns the tooltips in attach order.
func (r *Registry) All() []*Tooltip {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Tooltip, len(r.order))
	for i, k := range r.order {
		out[i] = r.byKey[k]
	}
	return out
}

// HideAll hides every tooltip.
func (r *Registry) HideAll(ctx context.Context) {
	for _, t := range r.All() {
		t.Hide(ctx)
	}
}

// Resize changes the viewport and repositions every shown tooltip.
func (r *Registry) Resize(ctx context.Context, width, height float64) {
	r.doc.Resize(width, height)
	for _, t := range r.All() {
		t.Reposition(ctx)
	}
}
