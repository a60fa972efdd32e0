package dom

import (
	"math"

	"github.com/matzehuels/overlay/pkg/geom"
)

// Layout helpers assume the document lock is held.

func (e *Element) effectiveMargin() geom.Edges {
	if e.style.HasMargin {
		return e.style.Margin
	}
	return e.margin
}

// offsetSize is the border-box size after width compression.
func (e *Element) offsetSize() geom.Size {
	sz := e.naturalSize()
	if e.doc.compressClass == "" || !e.classes.Contains(e.doc.compressClass) {
		return sz
	}
	wrap := e.wrapWidth
	if wrap <= 0 {
		wrap = e.doc.wrapWidth
	}
	if wrap <= 0 || sz.Width <= wrap {
		return sz
	}
	lines := math.Ceil(sz.Width / wrap)
	return geom.Size{Width: wrap, Height: sz.Height * lines}
}

func (e *Element) naturalSize() geom.Size {
	if e.hasSize {
		return e.size
	}
	var sz geom.Size
	for _, c := range e.children {
		if c.absolute {
			continue
		}
		mb := c.marginBoxSize()
		sz.Width = max(sz.Width, mb.Width)
		sz.Height += mb.Height
	}
	return sz
}

func (e *Element) marginBoxSize() geom.Size {
	sz := e.offsetSize()
	m := e.effectiveMargin()
	return geom.Size{Width: sz.Width + m.Horizontal(), Height: sz.Height + m.Vertical()}
}

// flowOffset is the height taken by in-flow siblings preceding e.
func (e *Element) flowOffset() float64 {
	var y float64
	for _, c := range e.parent.children {
		if c == e {
			break
		}
		if !c.absolute {
			y += c.marginBoxSize().Height
		}
	}
	return y
}

// borderBox lays out e in viewport coordinates.
func (e *Element) borderBox() geom.Rect {
	sz := e.offsetSize()
	m := e.effectiveMargin()

	if e.parent == nil {
		return geom.RectFromXYWH(e.x+m.Left, e.y+m.Top, sz.Width, sz.Height)
	}

	cb := e.parent.borderBox()
	if !e.absolute {
		return geom.RectFromXYWH(cb.Left+m.Left, cb.Top+e.flowOffset()+m.Top, sz.Width, sz.Height)
	}

	var x, y float64
	switch {
	case e.style.Left.IsSet():
		x = cb.Left + e.style.Left.Resolve(cb.Width()) + m.Left
	case e.style.Right.IsSet():
		x = cb.Right - e.style.Right.Resolve(cb.Width()) - m.Right - sz.Width
	default:
		x = cb.Left + m.Left
	}
	switch {
	case e.style.Top.IsSet():
		y = cb.Top + e.style.Top.Resolve(cb.Height()) + m.Top
	case e.style.Bottom.IsSet():
		y = cb.Bottom - e.style.Bottom.Resolve(cb.Height()) - m.Bottom - sz.Height
	default:
		y = cb.Top + e.flowOffset() + m.Top
	}
	return geom.RectFromXYWH(x, y, sz.Width, sz.Height)
}
