package sink

import (
	"encoding/json"

	"github.com/matzehuels/overlay/pkg/geom"
	"github.com/matzehuels/overlay/pkg/scene"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	trace bool
}

// WithJSONTrace includes every candidate of the fallback search.
func WithJSONTrace() JSONOption { return func(r *jsonRenderer) { r.trace = true } }

type jsonOutput struct {
	Name     string        `json:"name,omitempty"`
	Viewport jsonSize      `json:"viewport"`
	Tooltips []jsonTooltip `json:"tooltips"`
}

type jsonSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonTooltip struct {
	ID              string          `json:"id"`
	BodyID          string          `json:"body_id"`
	Text            string          `json:"text,omitempty"`
	Side            string          `json:"side,omitempty"`
	Visible         bool            `json:"visible"`
	WidthCompressed bool            `json:"width_compressed"`
	Attempts        int             `json:"attempts"`
	Skipped         bool            `json:"skipped,omitempty"`
	Style           string          `json:"style,omitempty"`
	Anchor          jsonRect        `json:"anchor"`
	Rect            *jsonRect       `json:"rect,omitempty"`
	Trace           []jsonCandidate `json:"trace,omitempty"`
}

type jsonCandidate struct {
	Side       string   `json:"side"`
	Rect       jsonRect `json:"rect"`
	Visible    bool     `json:"visible"`
	Compressed bool     `json:"compressed"`
}

// RenderJSON writes f as an indented placement report.
func RenderJSON(f Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Name:     f.Name,
		Viewport: jsonSize{Width: f.Viewport.Width, Height: f.Viewport.Height},
		Tooltips: make([]jsonTooltip, 0, len(f.Placements)),
	}
	for _, p := range f.Placements {
		out.Tooltips = append(out.Tooltips, r.tooltip(p))
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (r *jsonRenderer) tooltip(p scene.Placement) jsonTooltip {
	res := p.Result
	t := jsonTooltip{
		ID:      p.ID,
		BodyID:  p.BodyID,
		Text:    p.Text,
		Anchor:  toJSONRect(p.Anchor),
		Skipped: res.Skipped,
	}
	if res.Skipped {
		return t
	}
	rect := toJSONRect(res.Rect)
	t.Side = res.Side.String()
	t.Visible = res.Visible
	t.WidthCompressed = res.WidthCompressed
	t.Attempts = res.Attempts
	t.Style = p.Style
	t.Rect = &rect
	if r.trace {
		for _, c := range res.Trace {
			t.Trace = append(t.Trace, jsonCandidate{
				Side:       c.Side.String(),
				Rect:       toJSONRect(c.Rect),
				Visible:    c.Visible,
				Compressed: c.Compressed,
			})
		}
	}
	return t
}

func toJSONRect(r geom.Rect) jsonRect {
	r = r.Round(2)
	return jsonRect{Left: r.Left, Top: r.Top, Width: r.Width(), Height: r.Height()}
}
