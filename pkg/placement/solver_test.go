package placement

import (
	"reflect"
	"testing"

	"github.com/matzehuels/overlay/pkg/geom"
	"github.com/matzehuels/overlay/pkg/viewport"
)

func newTestSolver(w, h float64) *Solver {
	return NewSolver(viewport.New(w, h))
}

func sides(trace []Candidate) []Side {
	out := make([]Side, len(trace))
	for i, c := range trace {
		out[i] = c.Side
	}
	return out
}

func TestPlaceCenteredTop(t *testing.T) {
	s := newTestSolver(1000, 1000)
	a, o := anchoredAt(500, 500, 100, 40, geom.Edges{}, 160, 48)

	res := s.Place(a, o, Top)

	if res.Side != Top {
		t.Fatalf("Side = %v, want top", res.Side)
	}
	if !res.Visible || res.WidthCompressed {
		t.Errorf("Visible = %v, WidthCompressed = %v, want true, false", res.Visible, res.WidthCompressed)
	}
	want := geom.Rect{Left: 470, Top: 447, Right: 630, Bottom: 495}
	if res.Rect != want {
		t.Errorf("Rect = %+v, want %+v", res.Rect, want)
	}
	if res.Rect.CenterX() != 550 {
		t.Errorf("CenterX = %v, want 550", res.Rect.CenterX())
	}
	if got, wantCSS := res.Style.CSS(), "top: -5px; left: 50%; margin: -48px 0px 0px -80px"; got != wantCSS {
		t.Errorf("Style = %q, want %q", got, wantCSS)
	}
	if res.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", res.Attempts)
	}
	if !o.HasClass(DefaultClasses.Side(Top)) {
		t.Error("overlay should carry the top modifier class")
	}
}

func TestPlaceFallsBackToBottomNearTopEdge(t *testing.T) {
	s := newTestSolver(1000, 1000)
	a, o := anchoredAt(40, 2, 100, 40, geom.Edges{}, 160, 48)

	res := s.Place(a, o, Top)

	if res.Side != Bottom {
		t.Fatalf("Side = %v, want bottom (trace %v)", res.Side, sides(res.Trace))
	}
	if res.Trace[0].Rect.Top >= 0 {
		t.Errorf("top candidate should be clipped above the viewport, got %+v", res.Trace[0].Rect)
	}
	if res.Rect.Top != 47 {
		t.Errorf("Rect.Top = %v, want 47 (anchor bottom + gap)", res.Rect.Top)
	}
	if res.WidthCompressed {
		t.Error("bottom fits without compression")
	}
}

func TestPlaceTopLeftCornerFallsBackToBottom(t *testing.T) {
	s := newTestSolver(1000, 1000)
	// An overlay no wider than its anchor stays inside the left edge.
	a, o := anchoredAt(2, 2, 100, 40, geom.Edges{}, 100, 48)

	res := s.Place(a, o, Top)

	if res.Side != Bottom || !res.Visible {
		t.Fatalf("Side = %v, Visible = %v, want visible bottom (trace %v)", res.Side, res.Visible, sides(res.Trace))
	}
	if want := geom.RectFromXYWH(2, 47, 100, 48); res.Rect != want {
		t.Errorf("Rect = %+v, want %+v", res.Rect, want)
	}
	if res.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3 (preferred top, top, bottom)", res.Attempts)
	}
}

func TestPlaceFallbackOrderPrefersRight(t *testing.T) {
	s := newTestSolver(1000, 1000)
	// Flush with the left edge: both centered sides overflow to the left.
	a, o := anchoredAt(0, 500, 100, 40, geom.Edges{}, 160, 48)

	res := s.Place(a, o, Top)

	if res.Side != Right {
		t.Fatalf("Side = %v, want right", res.Side)
	}
	if got, want := sides(res.Trace), []Side{Top, Top, Bottom, Right}; !reflect.DeepEqual(got, want) {
		t.Errorf("trace = %v, want %v", got, want)
	}
	want := geom.Rect{Left: 105, Top: 496, Right: 265, Bottom: 544}
	if res.Rect != want {
		t.Errorf("Rect = %+v, want %+v", res.Rect, want)
	}
	for _, side := range []Side{Top, Bottom, Left} {
		if o.HasClass(DefaultClasses.Side(side)) {
			t.Errorf("stale modifier %q left on overlay", DefaultClasses.Side(side))
		}
	}
}

func TestPlacePreferredSideKeptWhenVisible(t *testing.T) {
	s := newTestSolver(1000, 1000)

	for _, side := range FallbackOrder {
		t.Run(side.String(), func(t *testing.T) {
			a, o := anchoredAt(500, 500, 100, 40, geom.Edges{}, 160, 48)
			res := s.Place(a, o, side)
			if res.Side != side || res.Attempts != 1 {
				t.Errorf("Side = %v after %d attempts, want %v after 1", res.Side, res.Attempts, side)
			}
		})
	}
}

func TestPlaceInvalidSideDefaultsToTop(t *testing.T) {
	s := newTestSolver(1000, 1000)
	a, o := anchoredAt(500, 500, 100, 40, geom.Edges{}, 160, 48)

	res := s.Place(a, o, Side(42))
	if res.Side != Top {
		t.Errorf("Side = %v, want top", res.Side)
	}
}

func TestPlaceIsIdempotent(t *testing.T) {
	tests := []struct {
		name          string
		vw, vh        float64
		x, y, aw, ah  float64
		margin        geom.Edges
		width, height float64
	}{
		{name: "visible first try", vw: 1000, vh: 1000, x: 500, y: 500, aw: 100, ah: 40, width: 160, height: 48},
		{name: "fallback", vw: 1000, vh: 1000, x: 0, y: 500, aw: 100, ah: 40, width: 160, height: 48},
		{name: "with margins", vw: 1000, vh: 1000, x: 500, y: 500, aw: 100, ah: 40, margin: geom.EdgeAll(8), width: 160, height: 48},
		{name: "compressed", vw: 300, vh: 1000, x: 100, y: 500, aw: 100, ah: 40, width: 400, height: 20},
		{name: "exhausted", vw: 100, vh: 100, x: 10, y: 10, aw: 20, ah: 20, width: 400, height: 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSolver(tt.vw, tt.vh)
			a, o := anchoredAt(tt.x, tt.y, tt.aw, tt.ah, tt.margin, tt.width, tt.height)

			first := s.Place(a, o, Top)
			second := s.Place(a, o, Top)

			if !reflect.DeepEqual(first, second) {
				t.Errorf("results differ:\nfirst  %+v\nsecond %+v", first, second)
			}
		})
	}
}

func TestPlaceCompressesWidthAsLastResort(t *testing.T) {
	s := newTestSolver(300, 1000)
	a, o := anchoredAt(100, 500, 100, 40, geom.Edges{}, 400, 20)

	res := s.Place(a, o, Top)

	if !res.WidthCompressed || !o.HasClass(DefaultClasses.WidthCompressed) {
		t.Fatal("overlay should be width compressed")
	}
	if !res.Visible || res.Side != Top {
		t.Errorf("Side = %v, Visible = %v, want top, true", res.Side, res.Visible)
	}
	if res.Attempts != 6 {
		t.Errorf("Attempts = %d, want 6 (preferred + 4 uncompressed + 1 compressed)", res.Attempts)
	}
	want := geom.Rect{Left: 25, Top: 455, Right: 275, Bottom: 495}
	if res.Rect != want {
		t.Errorf("Rect = %+v, want %+v", res.Rect, want)
	}
}

func TestPlaceTerminatesWhenNothingFits(t *testing.T) {
	s := newTestSolver(100, 100)
	a, o := anchoredAt(10, 10, 20, 20, geom.Edges{}, 400, 300)

	res := s.Place(a, o, Top)

	if res.Visible {
		t.Error("nothing fits, Visible should be false")
	}
	if !res.WidthCompressed {
		t.Error("exhausted placement should report width compression")
	}
	// preferred + 4 sides x (1 uncompressed + 1 compressed search)
	if res.Attempts != 9 {
		t.Errorf("Attempts = %d, want 9", res.Attempts)
	}
	compressed := 0
	for _, c := range res.Trace {
		if c.Compressed {
			compressed++
		}
	}
	if compressed != 4 {
		t.Errorf("compressed candidates = %d, want one full search of 4", compressed)
	}
	if res.Side != Left {
		t.Errorf("Side = %v, want left (last tried)", res.Side)
	}
}

func TestPlaceTopLeftCornerExhausts(t *testing.T) {
	s := newTestSolver(1000, 1000)
	// A 160px overlay centered on a 100px anchor at x=2 starts at x=-28, so
	// neither vertical side fits; right is clipped by 2px at the top.
	a, o := anchoredAt(2, 2, 100, 40, geom.Edges{}, 160, 48)

	res := s.Place(a, o, Top)

	if res.Visible || !res.WidthCompressed {
		t.Errorf("Visible = %v, WidthCompressed = %v, want false, true", res.Visible, res.WidthCompressed)
	}
	if got := res.Trace[2].Rect.Left; got != -28 {
		t.Errorf("bottom candidate Left = %v, want -28", got)
	}
}

func TestPlaceMaxAttempts(t *testing.T) {
	tests := []struct {
		max  int
		want int
	}{
		{-1, 5},
		{0, 5},
		{1, 5},
		{2, 9},
		{3, 13},
	}
	for _, tt := range tests {
		s := NewSolver(viewport.New(100, 100), WithMaxAttempts(tt.max))
		a, o := anchoredAt(10, 10, 20, 20, geom.Edges{}, 400, 300)

		res := s.Place(a, o, Top)
		if res.Attempts != tt.want {
			t.Errorf("WithMaxAttempts(%d): Attempts = %d, want %d", tt.max, res.Attempts, tt.want)
		}
		if !res.WidthCompressed {
			t.Errorf("WithMaxAttempts(%d): compression class should be applied on exhaustion", tt.max)
		}
	}
}

func TestPlaceClearsCompressionFromPreviousCall(t *testing.T) {
	s := newTestSolver(1000, 1000)
	a, o := anchoredAt(500, 500, 100, 40, geom.Edges{}, 160, 48)
	o.AddClass(DefaultClasses.WidthCompressed)

	res := s.Place(a, o, Top)
	if res.WidthCompressed || o.HasClass(DefaultClasses.WidthCompressed) {
		t.Error("a fitting placement should not keep a stale compression class")
	}
}

func TestPlaceDetachedIsNoop(t *testing.T) {
	s := newTestSolver(1000, 1000)

	t.Run("detached anchor", func(t *testing.T) {
		a, o := anchoredAt(500, 500, 100, 40, geom.Edges{}, 160, 48)
		a.detached = true
		if res := s.Place(a, o, Top); !res.Skipped {
			t.Error("Skipped = false, want true")
		}
		if o.styleSets != 0 || len(o.classes) != 0 {
			t.Error("overlay should not be touched")
		}
	})

	t.Run("detached overlay", func(t *testing.T) {
		a, o := anchoredAt(500, 500, 100, 40, geom.Edges{}, 160, 48)
		o.detached = true
		if res := s.Place(a, o, Top); !res.Skipped {
			t.Error("Skipped = false, want true")
		}
	})

	t.Run("nil elements", func(t *testing.T) {
		if res := s.Place(nil, nil, Top); !res.Skipped {
			t.Error("Skipped = false, want true")
		}
	})
}

func TestPlaceClearsStaleOffsets(t *testing.T) {
	s := newTestSolver(1000, 1000)
	a, o := anchoredAt(500, 500, 100, 40, geom.Edges{}, 160, 48)
	o.style.Bottom = geom.Px(99)
	o.style.Right = geom.Px(99)

	res := s.Place(a, o, Bottom)
	if res.Style.Bottom.IsSet() || res.Style.Right.IsSet() {
		t.Errorf("stale offsets leaked into result: %q", res.Style.CSS())
	}
}

func TestReset(t *testing.T) {
	s := newTestSolver(1000, 1000)
	a, o := anchoredAt(500, 500, 100, 40, geom.Edges{}, 160, 48)
	s.Place(a, o, Top)
	o.AddClass(DefaultClasses.Set, DefaultClasses.Visible, DefaultClasses.WidthCompressed)

	s.Reset(o)

	for _, c := range []string{DefaultClasses.Set, DefaultClasses.Visible, DefaultClasses.WidthCompressed} {
		if o.HasClass(c) {
			t.Errorf("Reset left %q", c)
		}
	}
	if o.style.IsZero() {
		t.Error("Reset should leave inline offsets alone")
	}

	// Reset on a detached overlay is a no-op rather than a panic.
	s.Reset(nil)
}
