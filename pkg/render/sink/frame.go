package sink

import (
	"github.com/matzehuels/overlay/pkg/geom"
	"github.com/matzehuels/overlay/pkg/scene"
)

// Frame is the input of every sink.
type Frame struct {
	Name       string
	Viewport   geom.Size
	Placements []scene.Placement
}

// FrameOf captures the current state of page.
func FrameOf(p *scene.Page) Frame {
	vp := p.Doc.Viewport()
	return Frame{
		Name:       p.Scene.Name,
		Viewport:   geom.Size{Width: vp.Width, Height: vp.Height},
		Placements: p.Placements(),
	}
}

// bounds is the smallest rect holding the viewport and everything drawn.
func (f Frame) bounds(withTrace bool) geom.Rect {
	b := geom.Rect{Right: f.Viewport.Width, Bottom: f.Viewport.Height}
	grow := func(r geom.Rect) {
		if r.Empty() {
			return
		}
		b.Left = min(b.Left, r.Left)
		b.Top = min(b.Top, r.Top)
		b.Right = max(b.Right, r.Right)
		b.Bottom = max(b.Bottom, r.Bottom)
	}
	for _, p := range f.Placements {
		grow(p.Anchor)
		if p.Result.Skipped {
			continue
		}
		grow(p.Result.Rect)
		if withTrace {
			for _, c := range p.Result.Trace {
				grow(c.Rect)
			}
		}
	}
	return b
}
