package dom

import (
	"errors"
	"sync"

	"github.com/matzehuels/overlay/pkg/geom"
	"github.com/matzehuels/overlay/pkg/placement"
	"github.com/matzehuels/overlay/pkg/viewport"
)

// DefaultWrapWidth is the width an overlay is capped at once the
// width-compression class is applied.
const DefaultWrapWidth = 250

var (
	// ErrDuplicateID is returned by [Element.SetID] when another element
	// already uses the id.
	ErrDuplicateID = errors.New("duplicate element id")

	// ErrInvalidParent is returned by [Element.AppendChild] when the child
	// belongs to another document or would become its own ancestor.
	ErrInvalidParent = errors.New("invalid parent")
)

// Document owns a tree of elements and the viewport they are laid out in.
type Document struct {
	mu sync.RWMutex

	width, height float64
	epsilon       float64

	// compressClass triggers width capping when present on an element.
	compressClass string
	wrapWidth     float64

	roots []*Element
	byID  map[string]*Element
}

// Option configures a [Document].
type Option func(*Document)

// WithEpsilon sets the visibility tolerance used by [Document.IsFullyVisible].
func WithEpsilon(e float64) Option { return func(d *Document) { d.epsilon = e } }

// WithWrapWidth sets the default wrap width for compressed elements.
func WithWrapWidth(w float64) Option { return func(d *Document) { d.wrapWidth = w } }

// WithCompressClass sets the class that triggers width capping.
func WithCompressClass(c string) Option { return func(d *Document) { d.compressClass = c } }

// New creates an empty document with a viewport of the given size.
func New(width, height float64, opts ...Option) *Document {
	d := &Document{
		width:         width,
		height:        height,
		epsilon:       viewport.DefaultEpsilon,
		compressClass: placement.DefaultClasses.WidthCompressed,
		wrapWidth:     DefaultWrapWidth,
		byID:          make(map[string]*Element),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Viewport returns the current viewport.
func (d *Document) Viewport() viewport.Viewport {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.viewportLocked()
}

func (d *Document) viewportLocked() viewport.Viewport {
	return viewport.Viewport{Width: d.width, Height: d.height, Epsilon: d.epsilon}
}

// Resize changes the viewport size. Existing placements are not recomputed.
func (d *Document) Resize(width, height float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.width, d.height = width, height
}

// IsFullyVisible implements viewport.Oracle against the current size, so a
// solver holding the document sees resizes.
func (d *Document) IsFullyVisible(r geom.Rect) bool {
	return d.Viewport().IsFullyVisible(r)
}

// CreateElement returns a new detached element.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{
		doc:     d,
		tag:     tag,
		classes: &ClassList{},
		attrs:   make(map[string]string),
	}
}

// Append attaches el as a root element.
func (d *Document) Append(el *Element) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el.doc != d || el.parent != nil {
		return ErrInvalidParent
	}
	if !el.root {
		el.root = true
		d.roots = append(d.roots, el)
	}
	return nil
}

// ElementByID returns the connected element with the given id.
func (d *Document) ElementByID(id string) (*Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	el, ok := d.byID[id]
	if !ok || !el.connectedLocked() {
		return nil, false
	}
	return el, true
}

// Roots returns the attached root elements in insertion order.
func (d *Document) Roots() []*Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Element, len(d.roots))
	copy(out, d.roots)
	return out
}

// Walk visits every connected element depth-first in document order. It
// stops when fn returns false.
func (d *Document) Walk(fn func(*Element) bool) {
	for _, r := range d.Roots() {
		if !walk(r, fn) {
			return
		}
	}
}

func walk(el *Element, fn func(*Element) bool) bool {
	if !fn(el) {
		return false
	}
	for _, c := range el.Children() {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

var _ viewport.Oracle = (*Document)(nil)
