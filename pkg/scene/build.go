package scene

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/overlay/pkg/config"
	"github.com/matzehuels/overlay/pkg/dom"
	"github.com/matzehuels/overlay/pkg/errors"
	"github.com/matzehuels/overlay/pkg/geom"
	"github.com/matzehuels/overlay/pkg/ids"
	"github.com/matzehuels/overlay/pkg/placement"
	"github.com/matzehuels/overlay/pkg/style"
	"github.com/matzehuels/overlay/pkg/tooltip"
)

// BuildOptions configures [Build].
type BuildOptions struct {
	// Engine supplies defaults that the scene's own engine table overrides.
	Engine config.Engine

	// Scheduler runs reveals. Defaults to a manual scheduler so built
	// pages are deterministic.
	Scheduler tooltip.Scheduler

	// IDs allocates tooltip body ids. Defaults to a fresh sequence.
	IDs ids.Allocator

	Logger *log.Logger
}

// Page is a built scene.
type Page struct {
	Scene    *Scene
	Doc      *dom.Document
	Sheet    *style.Stylesheet
	Tooltips *tooltip.Registry

	// Scheduler is the scheduler the tooltips were built with.
	Scheduler tooltip.Scheduler

	revealDelay time.Duration
}

// Placement pairs a tooltip id with its latest result.
type Placement struct {
	ID     string           `json:"id"`
	BodyID string           `json:"body_id"`
	Text   string           `json:"text,omitempty"`
	Anchor geom.Rect        `json:"anchor"`
	Result placement.Result `json:"result"`
	Style  string           `json:"style"`
}

// Build creates a document with one wrapper per tooltip, computes anchor
// margins and attaches the tooltips. Nothing is placed yet.
func Build(s *Scene, opts BuildOptions) (*Page, error) {
	engine := config.DefaultEngine().Merge(opts.Engine).Merge(s.Engine)
	if opts.Scheduler == nil {
		opts.Scheduler = tooltip.NewManualScheduler()
	}
	if opts.IDs == nil {
		opts.IDs = ids.NewSequence("")
	}

	sheet, err := style.Parse(s.Stylesheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "stylesheet")
	}
	if len(sheet.Skipped) > 0 && opts.Logger != nil {
		opts.Logger.Debug("selectors skipped", "selectors", sheet.Skipped)
	}

	doc := dom.New(s.Viewport.Width, s.Viewport.Height, engine.DocumentOptions()...)
	solverOpts := append(engine.SolverOptions(), placement.WithLogger(opts.Logger))
	reg := tooltip.NewRegistry(doc, tooltip.Options{
		Solver:      placement.NewSolver(doc, solverOpts...),
		IDs:         opts.IDs,
		Scheduler:   opts.Scheduler,
		RevealDelay: engine.RevealDelay.Std(),
		Logger:      opts.Logger,
	})

	for _, t := range s.Tooltips {
		trigger, err := buildTrigger(doc, sheet, t)
		if err != nil {
			return nil, err
		}
		var size geom.Size
		if t.Overlay.Width > 0 {
			size = geom.Size{Width: t.Overlay.Width, Height: t.Overlay.Height}
		}
		if _, err := reg.Attach(t.ID, trigger, tooltip.Options{
			Text:      t.Text,
			Size:      size,
			WrapWidth: t.Overlay.WrapWidth,
		}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "tooltip %q", t.ID)
		}
	}

	return &Page{
		Scene:       s,
		Doc:         doc,
		Sheet:       sheet,
		Tooltips:    reg,
		Scheduler:   opts.Scheduler,
		revealDelay: engine.RevealDelay.Std(),
	}, nil
}

func buildTrigger(doc *dom.Document, sheet *style.Stylesheet, t Tooltip) (*dom.Element, error) {
	tag := t.Tag
	if tag == "" {
		tag = "button"
	}
	el := doc.CreateElement(tag)
	if err := el.SetID(t.ID); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "tooltip %q", t.ID)
	}
	el.AddClass(t.Classes...)
	if t.Position != "" {
		el.SetAttribute(tooltip.PositionAttr, t.Position)
	}
	if t.Style != "" {
		el.SetAttribute("style", t.Style)
	}
	el.SetSize(t.Anchor.Width, t.Anchor.Height)

	margin, err := anchorMargin(sheet, el, t.Anchor.Margin)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "tooltip %q margin", t.ID)
	}
	el.SetMargin(margin)
	el.MoveTo(t.Anchor.X-margin.Left, t.Anchor.Y-margin.Top)

	if err := doc.Append(el); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "attach %q", t.ID)
	}
	return el, nil
}

func anchorMargin(sheet *style.Stylesheet, el *dom.Element, explicit []float64) (geom.Edges, error) {
	switch len(explicit) {
	case 1:
		return geom.EdgeAll(explicit[0]), nil
	case 2:
		return geom.EdgeTRBL(explicit[0], explicit[1], explicit[0], explicit[1]), nil
	case 3:
		return geom.EdgeTRBL(explicit[0], explicit[1], explicit[2], explicit[1]), nil
	case 4:
		return geom.EdgeTRBL(explicit[0], explicit[1], explicit[2], explicit[3]), nil
	}
	return sheet.Margins(el)
}

// ShowAll shows every tooltip and advances a manual scheduler past the
// reveal delay. It returns the placements in scene order.
func (p *Page) ShowAll(ctx context.Context) []Placement {
	for _, tip := range p.Tooltips.All() {
		tip.Show(ctx)
	}
	p.Flush()
	return p.Placements()
}

// Placements returns the latest placement of every tooltip in scene order.
func (p *Page) Placements() []Placement {
	out := make([]Placement, 0, len(p.Scene.Tooltips))
	for _, t := range p.Scene.Tooltips {
		if pl, ok := p.Placement(t.ID); ok {
			out = append(out, pl)
		}
	}
	return out
}

// Flush runs pending reveals when the page uses a manual scheduler.
func (p *Page) Flush() {
	if m, ok := p.Scheduler.(*tooltip.ManualScheduler); ok {
		m.Advance(max(0, p.revealDelay))
	}
}

// Placement reports the latest placement of tooltip id.
func (p *Page) Placement(id string) (Placement, bool) {
	tip, err := p.Tooltips.Get(id)
	if err != nil {
		return Placement{}, false
	}
	res := tip.Last()
	return Placement{
		ID:     id,
		BodyID: tip.ID(),
		Text:   tip.Body().Text(),
		Anchor: tip.Trigger().BoundingClientRect(),
		Result: res,
		Style:  tip.Body().InlineStyle().CSS(),
	}, true
}
