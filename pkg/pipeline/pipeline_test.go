package pipeline

import (
	"context"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/overlay/pkg/cache"
	"github.com/matzehuels/overlay/pkg/errors"
	"github.com/matzehuels/overlay/pkg/scene"
)

const toolbar = `
name = "toolbar"

[viewport]
width = 1000
height = 1000

[[tooltip]]
id = "center"
text = "Centered"
anchor = { x = 500, y = 500, width = 100, height = 40 }
overlay = { width = 160, height = 48 }

[[tooltip]]
id = "edge"
anchor = { x = 0, y = 500, width = 100, height = 40 }
overlay = { width = 160, height = 48 }
`

func quietLogger() *log.Logger { return log.NewWithOptions(io.Discard, log.Options{}) }

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"dot", false},
		{"trace", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats("svg, json,,dot")
	if err != nil {
		t.Fatalf("ParseFormats: %v", err)
	}
	if want := []string{"svg", "json", "dot"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ParseFormats = %v, want %v", got, want)
	}
	if _, err := ParseFormats("svg,gif"); err == nil {
		t.Error("gif should be rejected")
	}
}

func TestExtension(t *testing.T) {
	if Extension(FormatSVG) != ".svg" || Extension(FormatTrace) != ".trace.svg" {
		t.Errorf("Extension = %q, %q", Extension(FormatSVG), Extension(FormatTrace))
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var empty Options
	if err := empty.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing scene = %v, want INVALID_INPUT", err)
	}

	o := Options{Scene: []byte(toolbar)}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.SceneFormat != scene.FormatTOML || !reflect.DeepEqual(o.Formats, []string{FormatSVG}) || o.Scale != DefaultScale {
		t.Errorf("defaults = %+v", o)
	}

	bad := Options{Scene: []byte(toolbar), Formats: []string{"gif"}}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{
		Scene:   []byte(toolbar),
		Formats: []string{FormatSVG, FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Scene.Name != "toolbar" || res.SceneHash != cache.Hash([]byte(toolbar)) {
		t.Errorf("scene = %q, hash %q", res.Scene.Name, res.SceneHash)
	}
	if res.Stats.Tooltips != 2 || res.Stats.Visible != 2 || res.Stats.Compressed != 0 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	for _, f := range []string{FormatSVG, FormatJSON, FormatDOT} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), `data-side="right"`) {
		t.Error("edge tooltip should be drawn on the right")
	}
	if res.CacheInfo.PlaceHit || res.CacheInfo.RenderHit {
		t.Error("NullCache should never hit")
	}
}

func TestExecuteCaches(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, quietLogger())
	opts := Options{Scene: []byte(toolbar), Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.PlaceHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want both hits", second.CacheInfo)
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached SVG differs from rendered SVG")
	}
	if second.Frame.Placements[1].Result.Side != first.Frame.Placements[1].Result.Side {
		t.Error("cached frame lost the chosen side")
	}

	// A new format renders only what is missing.
	opts.Formats = []string{FormatSVG, FormatDOT}
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !third.CacheInfo.PlaceHit || third.CacheInfo.RenderHit {
		t.Errorf("third run CacheInfo = %+v", third.CacheInfo)
	}

	// Refresh bypasses both caches.
	opts.Refresh = true
	fourth, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.PlaceHit || fourth.CacheInfo.RenderHit {
		t.Errorf("refresh CacheInfo = %+v", fourth.CacheInfo)
	}
}

func TestExecuteEngineOverrideChangesKey(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, quietLogger())
	if _, err := r.Execute(context.Background(), Options{Scene: []byte(toolbar)}); err != nil {
		t.Fatal(err)
	}

	opts := Options{Scene: []byte(toolbar)}
	opts.Engine.Gap = 12
	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.PlaceHit {
		t.Error("a different gap must not reuse the cached frame")
	}
	// center: 500 - 12 - 48
	if got := res.Frame.Placements[0].Result.Rect.Top; got != 440 {
		t.Errorf("Top = %v, want 440", got)
	}
}

func TestExecuteInvalidScene(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	_, err := r.Execute(context.Background(), Options{Scene: []byte("[viewport]\nwidth = -1\n")})
	if !errors.Is(err, errors.ErrCodeInvalidScene) {
		t.Errorf("Execute = %v, want INVALID_SCENE", err)
	}
}
