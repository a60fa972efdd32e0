package placement

import (
	"math"

	"github.com/matzehuels/overlay/pkg/geom"
)

// fakeAnchor is an anchor with fixed synthetic geometry.
type fakeAnchor struct {
	geo      AnchorGeometry
	detached bool
}

func (a *fakeAnchor) Connected() bool          { return a != nil && !a.detached }
func (a *fakeAnchor) Geometry() AnchorGeometry { return a.geo }

// fakeOverlay lays out an absolutely positioned box inside a wrapper given
// in viewport coordinates. Only the properties the solver writes are
// honoured: left/top offsets and the margin shorthand.
type fakeOverlay struct {
	wrapper   geom.Rect
	size      geom.Size
	wrapWidth float64
	style     geom.InlineStyle
	classes   map[string]bool
	detached  bool
	styleSets int
}

func (o *fakeOverlay) Connected() bool { return o != nil && !o.detached }

func (o *fakeOverlay) OffsetSize() geom.Size {
	if o.classes[DefaultClasses.WidthCompressed] && o.wrapWidth > 0 && o.size.Width > o.wrapWidth {
		lines := math.Ceil(o.size.Width / o.wrapWidth)
		return geom.Size{Width: o.wrapWidth, Height: o.size.Height * lines}
	}
	return o.size
}

func (o *fakeOverlay) InlineStyle() geom.InlineStyle { return o.style }

func (o *fakeOverlay) SetInlineStyle(s geom.InlineStyle) {
	o.style = s
	o.styleSets++
}

func (o *fakeOverlay) AddClass(names ...string) {
	if o.classes == nil {
		o.classes = make(map[string]bool)
	}
	for _, n := range names {
		o.classes[n] = true
	}
}

func (o *fakeOverlay) RemoveClass(names ...string) {
	for _, n := range names {
		delete(o.classes, n)
	}
}

func (o *fakeOverlay) HasClass(name string) bool { return o.classes[name] }

func (o *fakeOverlay) BoundingClientRect() geom.Rect {
	sz := o.OffsetSize()
	x := o.wrapper.Left + o.style.Left.Resolve(o.wrapper.Width())
	y := o.wrapper.Bottom
	if o.style.Top.IsSet() {
		y = o.wrapper.Top + o.style.Top.Resolve(o.wrapper.Height())
	}
	if o.style.HasMargin {
		x += o.style.Margin.Left
		y += o.style.Margin.Top
	}
	return geom.RectFromXYWH(x, y, sz.Width, sz.Height)
}

// anchoredAt builds an anchor whose border box sits at (x, y) in the
// viewport, plus an overlay of size w x h sharing its wrapper.
func anchoredAt(x, y, aw, ah float64, margin geom.Edges, w, h float64) (*fakeAnchor, *fakeOverlay) {
	wrapper := geom.RectFromXYWH(x-margin.Left, y-margin.Top, aw+margin.Horizontal(), ah+margin.Vertical())
	a := &fakeAnchor{geo: AnchorGeometry{
		OffsetLeft:   margin.Left,
		OffsetTop:    margin.Top,
		OffsetWidth:  aw,
		OffsetHeight: ah,
		Margin:       margin,
	}}
	o := &fakeOverlay{wrapper: wrapper, size: geom.Size{Width: w, Height: h}, wrapWidth: 250}
	return a, o
}
