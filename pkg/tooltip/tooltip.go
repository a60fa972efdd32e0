// Package tooltip wires the placement engine to trigger elements.
//
// [New] turns a trigger into the tooltip structure the stylesheet expects:
// a wrapper in the trigger's place holding the trigger and an absolutely
// positioned body. [Tooltip.Show] places the body and reveals it after
// [DefaultRevealDelay]; [Tooltip.Hide] resets it. A reveal that fires after
// the tooltip was hidden or shown again is dropped.
package tooltip

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/overlay/pkg/dom"
	"github.com/matzehuels/overlay/pkg/errors"
	"github.com/matzehuels/overlay/pkg/geom"
	"github.com/matzehuels/overlay/pkg/ids"
	"github.com/matzehuels/overlay/pkg/observability"
	"github.com/matzehuels/overlay/pkg/placement"
)

// DefaultRevealDelay separates committing offsets from adding the visible
// class so the reveal transition starts from the final position.
const DefaultRevealDelay = 20 * time.Millisecond

// Size estimate for bodies without an explicit size.
const (
	CharWidth  = 8
	LineHeight = 20
	Padding    = 8
)

// Class and attribute names written to the tooltip structure.
const (
	WrapperClass  = "usa-tooltip"
	TriggerClass  = "usa-tooltip__trigger"
	PositionAttr  = "data-position"
	DescribedAttr = "aria-describedby"
)

// Options configures a [Tooltip]. Zero values select defaults.
type Options struct {
	// Solver places the body. Defaults to a solver judging visibility
	// against the document viewport.
	Solver *placement.Solver

	// IDs allocates the body id.
	IDs ids.Allocator

	// Scheduler runs the deferred reveal.
	Scheduler Scheduler

	// RevealDelay defaults to [DefaultRevealDelay]. Negative means
	// reveal synchronously.
	RevealDelay time.Duration

	// Text is the tooltip content. Defaults to the trigger's title.
	Text string

	// Size is the body's natural size. Defaults to [EstimateSize] of Text.
	Size geom.Size

	// WrapWidth overrides the document wrap width for this body.
	WrapWidth float64

	Logger *log.Logger
}

// EstimateSize approximates a single-line body for text.
func EstimateSize(text string) geom.Size {
	return geom.Size{
		Width:  float64(utf8.RuneCountInString(text))*CharWidth + 2*Padding,
		Height: LineHeight + 2*Padding,
	}
}

// Tooltip binds one trigger to its body. Methods are safe for concurrent use.
type Tooltip struct {
	mu sync.Mutex

	trigger, wrapper, body *dom.Element
	id                     string
	preferred              placement.Side

	solver *placement.Solver
	sched  Scheduler
	delay  time.Duration
	logger *log.Logger

	shown  bool
	gen    uint64
	cancel func() bool
	last   placement.Result
}

// New builds the tooltip structure around trigger. The trigger must be
// attached to its document.
func New(trigger *dom.Element, opts Options) (*Tooltip, error) {
	if !trigger.Connected() {
		return nil, errors.New(errors.ErrCodeElementNotFound, "tooltip trigger is not attached")
	}
	doc := trigger.Document()

	if opts.Solver == nil {
		opts.Solver = placement.NewSolver(doc, placement.WithLogger(opts.Logger))
	}
	if opts.IDs == nil {
		opts.IDs = ids.NewSequence("")
	}
	if opts.Scheduler == nil {
		opts.Scheduler = SystemScheduler
	}
	if opts.RevealDelay == 0 {
		opts.RevealDelay = DefaultRevealDelay
	}
	if opts.Text == "" {
		opts.Text, _ = trigger.Attribute("title")
	}
	if opts.Size == (geom.Size{}) {
		opts.Size = EstimateSize(opts.Text)
	}

	raw, _ := trigger.Attribute(PositionAttr)
	side, ok := placement.ParseSide(raw)
	if !ok && strings.TrimSpace(raw) != "" && opts.Logger != nil {
		opts.Logger.Warn("unknown tooltip position, using top", "value", raw)
	}

	classes := opts.Solver.Classes()
	t := &Tooltip{
		trigger:   trigger,
		wrapper:   doc.CreateElement("span"),
		body:      doc.CreateElement("span"),
		id:        opts.IDs.Next(),
		preferred: side,
		solver:    opts.Solver,
		sched:     opts.Scheduler,
		delay:     opts.RevealDelay,
		logger:    opts.Logger,
	}

	t.wrapper.AddClass(WrapperClass)
	if err := trigger.Wrap(t.wrapper); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "wrap trigger")
	}

	trigger.AddClass(TriggerClass)
	trigger.RemoveAttribute("title")
	trigger.SetAttribute(DescribedAttr, t.id)
	trigger.SetAttribute("tabindex", "0")
	trigger.SetAttribute(PositionAttr, side.String())

	if err := t.body.SetID(t.id); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "tooltip id %q", t.id)
	}
	t.body.AddClass(classes.Base)
	t.body.SetAttribute("role", "tooltip")
	t.body.SetAttribute("aria-hidden", "true")
	t.body.SetText(opts.Text)
	t.body.SetAbsolute(true)
	t.body.SetSize(opts.Size.Width, opts.Size.Height)
	if opts.WrapWidth > 0 {
		t.body.SetWrapWidth(opts.WrapWidth)
	}
	if err := t.wrapper.AppendChild(t.body); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "mount tooltip body")
	}
	return t, nil
}

// ID returns the body id referenced by the trigger's aria-describedby.
func (t *Tooltip) ID() string { return t.id }

// Trigger returns the anchor element.
func (t *Tooltip) Trigger() *dom.Element { return t.trigger }

// Body returns the overlay element.
func (t *Tooltip) Body() *dom.Element { return t.body }

// Wrapper returns the positioning wrapper.
func (t *Tooltip) Wrapper() *dom.Element { return t.wrapper }

// Preferred returns the side read from the trigger's data-position.
func (t *Tooltip) Preferred() placement.Side { return t.preferred }

// Shown reports whether the tooltip is between Show and Hide.
func (t *Tooltip) Shown() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.shown
}

// Visible reports whether the visible class has been applied.
func (t *Tooltip) Visible() bool {
	return t.body.HasClass(t.solver.Classes().Visible)
}

// Last returns the most recent placement.
func (t *Tooltip) Last() placement.Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Show marks the body as set, places it and schedules the reveal. Showing
// an already shown tooltip re-places it and restarts the reveal.
func (t *Tooltip) Show(ctx context.Context) placement.Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.trigger.Connected() || !t.body.Connected() {
		return placement.Result{Skipped: true}
	}

	t.stopReveal()
	t.gen++
	gen := t.gen

	t.body.AddClass(t.solver.Classes().Set)
	t.body.SetAttribute("aria-hidden", "false")
	res := t.place(ctx)
	t.shown = true

	if t.delay < 0 {
		t.revealLocked(ctx)
		return res
	}
	t.cancel = t.sched.AfterFunc(t.delay, func() { t.reveal(ctx, gen) })
	return res
}

// Reposition re-runs placement for a shown tooltip, e.g. after a viewport
// resize. It does not touch the visible class.
func (t *Tooltip) Reposition(ctx context.Context) (placement.Result, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.shown {
		return placement.Result{}, false
	}
	return t.place(ctx), true
}

// Hide cancels any pending reveal and removes the visible, set and
// compression classes.
func (t *Tooltip) Hide(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopReveal()
	t.gen++
	wasShown := t.shown
	t.shown = false

	t.solver.Reset(t.body)
	if t.body.Connected() {
		t.body.SetAttribute("aria-hidden", "true")
	}
	if wasShown {
		observability.Placement().OnHide(ctx, t.id)
	}
}

// HandleKey hides a shown tooltip on Escape and reports whether the key was
// consumed.
func (t *Tooltip) HandleKey(ctx context.Context, key string) bool {
	if key != "Escape" || !t.Shown() {
		return false
	}
	t.Hide(ctx)
	return true
}

// Dispatch routes a trigger event to Show or Hide.
func (t *Tooltip) Dispatch(ctx context.Context, ev Event) {
	switch ev {
	case MouseOver, FocusIn:
		t.Show(ctx)
	case MouseLeave, FocusOut:
		t.Hide(ctx)
	case KeyEscape:
		t.HandleKey(ctx, "Escape")
	}
}

func (t *Tooltip) place(ctx context.Context) placement.Result {
	hooks := observability.Placement()
	hooks.OnPlaceStart(ctx, t.id, t.preferred.String())
	start := time.Now()
	res := t.solver.Place(t.trigger, t.body, t.preferred)
	hooks.OnPlaceComplete(ctx, t.id, res.Side.String(), res.Attempts, res.WidthCompressed, time.Since(start))
	t.last = res
	return res
}

func (t *Tooltip) reveal(ctx context.Context, gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.shown || gen != t.gen {
		if t.logger != nil {
			t.logger.Debug("stale reveal dropped", "id", t.id)
		}
		return
	}
	t.cancel = nil
	t.revealLocked(ctx)
}

func (t *Tooltip) revealLocked(ctx context.Context) {
	if !t.body.Connected() {
		return
	}
	t.body.AddClass(t.solver.Classes().Visible)
	observability.Placement().OnReveal(ctx, t.id)
}

func (t *Tooltip) stopReveal() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
