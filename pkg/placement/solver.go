package placement

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/overlay/pkg/geom"
	"github.com/matzehuels/overlay/pkg/viewport"
)

// DefaultMaxAttempts bounds the full fallback searches of one Place call:
// one plain search and one with the width-compression class.
const DefaultMaxAttempts = 2

// Candidate records one applied placement during a search.
type Candidate struct {
	Side       Side      `json:"side"`
	Rect       geom.Rect `json:"rect"`
	Visible    bool      `json:"visible"`
	Compressed bool      `json:"compressed"`
}

// Result is the outcome of a single [Solver.Place] call.
type Result struct {
	// Side is the side whose offsets are applied to the overlay.
	Side Side `json:"side"`

	// Style is the inline style left on the overlay.
	Style geom.InlineStyle `json:"-"`

	// Rect is the overlay's bounding rectangle for Style.
	Rect geom.Rect `json:"rect"`

	// Visible is false only when every candidate was clipped.
	Visible bool `json:"visible"`

	// WidthCompressed reports whether the compression class is applied.
	WidthCompressed bool `json:"width_compressed"`

	// Attempts counts applied candidates, the preferred side included.
	Attempts int `json:"attempts"`

	// Trace lists every candidate in the order it was applied.
	Trace []Candidate `json:"trace,omitempty"`

	// Skipped is set when the anchor or overlay was missing or detached
	// and nothing was touched.
	Skipped bool `json:"skipped,omitempty"`
}

// Option configures a [Solver].
type Option func(*Solver)

// WithGap sets the distance between anchor and overlay.
func WithGap(gap float64) Option { return func(s *Solver) { s.gap = gap } }

// WithMaxAttempts sets how many full fallback searches Place runs, the
// first uncompressed and the rest compressed. Values below 1 are treated
// as 1.
func WithMaxAttempts(n int) Option {
	return func(s *Solver) { s.maxAttempts = max(1, n) }
}

// WithClasses overrides the CSS class vocabulary.
func WithClasses(c Classes) Option { return func(s *Solver) { s.classes = c } }

// WithLogger enables debug logging of the search.
func WithLogger(l *log.Logger) Option { return func(s *Solver) { s.logger = l } }

// Solver computes overlay placements. It holds configuration only and is
// safe for concurrent use on distinct overlays.
type Solver struct {
	oracle      viewport.Oracle
	gap         float64
	maxAttempts int
	classes     Classes
	logger      *log.Logger
}

// NewSolver creates a solver that judges visibility with oracle.
func NewSolver(oracle viewport.Oracle, opts ...Option) *Solver {
	s := &Solver{
		oracle:      oracle,
		gap:         TriangleSize,
		maxAttempts: DefaultMaxAttempts,
		classes:     DefaultClasses,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Classes returns the class vocabulary the solver writes.
func (s *Solver) Classes() Classes { return s.classes }

// Place positions overlay on the preferred side of anchor, falling back to
// the other sides and then to width compression when the overlay would be
// clipped. An invalid preferred side is treated as [Top].
//
// Place mutates only the overlay's inline style and its side and
// compression classes. It never fails: with a missing or detached element
// it returns a Result with Skipped set, and when nothing fits it returns the
// last candidate with Visible false.
func (s *Solver) Place(anchor Anchor, overlay Overlay, preferred Side) Result {
	if !connected(anchor) || !connected(overlay) {
		s.debug("placement skipped: element detached")
		return Result{Skipped: true}
	}
	if !preferred.Valid() {
		preferred = Top
	}

	r := &run{solver: s, anchor: anchor, overlay: overlay}
	overlay.RemoveClass(s.classes.WidthCompressed)

	if r.try(preferred) {
		return r.result(true)
	}

	for attempt := 0; ; attempt++ {
		if r.search() {
			return r.result(true)
		}
		overlay.AddClass(s.classes.WidthCompressed)
		r.compressed = true
		if attempt+1 >= s.maxAttempts {
			break
		}
		s.debug("no side fits, retrying compressed", "attempt", attempt+1)
	}

	s.debug("placement exhausted", "side", r.last.Side, "attempts", len(r.trace))
	return r.result(false)
}

// Reset hides the overlay: it removes the visible, set and compression
// classes. Inline offsets are left in place since every placement
// recomputes them.
func (s *Solver) Reset(overlay Overlay) {
	if !connected(overlay) {
		return
	}
	overlay.RemoveClass(s.classes.Visible, s.classes.Set, s.classes.WidthCompressed)
}

func (s *Solver) debug(msg string, kv ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, kv...)
	}
}

// run holds the state of one Place call.
type run struct {
	solver     *Solver
	anchor     Anchor
	overlay    Overlay
	compressed bool
	trace      []Candidate
	last       Candidate
}

// try applies side and reports whether the result is fully visible.
func (r *run) try(side Side) bool {
	s := r.solver
	o := r.overlay

	o.SetInlineStyle(geom.InlineStyle{})
	o.RemoveClass(s.classes.sides()...)

	style := ComputeStyle(side, r.anchor.Geometry(), o.OffsetSize(), s.gap)
	o.AddClass(s.classes.Side(side))
	o.SetInlineStyle(style)

	rect := o.BoundingClientRect()
	c := Candidate{
		Side:       side,
		Rect:       rect,
		Visible:    s.oracle.IsFullyVisible(rect),
		Compressed: r.compressed,
	}
	r.trace = append(r.trace, c)
	r.last = c

	if !c.Visible {
		s.debug("candidate clipped", "side", side, "rect", rect, "compressed", r.compressed)
	}
	return c.Visible
}

// search walks the fallback order and stops at the first visible side.
func (r *run) search() bool {
	for _, side := range FallbackOrder {
		if r.try(side) {
			return true
		}
	}
	return false
}

func (r *run) result(visible bool) Result {
	if !visible {
		// Keep the recorded rect consistent with the classes now applied:
		// compression may have been added after the last candidate.
		r.last.Rect = r.overlay.BoundingClientRect()
	}
	return Result{
		Side:            r.last.Side,
		Style:           r.overlay.InlineStyle(),
		Rect:            r.last.Rect,
		Visible:         visible,
		WidthCompressed: r.compressed,
		Attempts:        len(r.trace),
		Trace:           r.trace,
	}
}

func connected(e interface{ Connected() bool }) bool {
	if e == nil {
		return false
	}
	return e.Connected()
}
