// Package pipeline runs the scene → place → render pipeline shared by the
// CLI and the HTTP API.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Parse: decode a TOML or JSON scene
//  2. Place: build the page, show every tooltip and capture a [sink.Frame]
//  3. Render: produce artifacts (SVG, JSON, DOT, trace SVG, PNG, PDF)
//
// Placement frames and artifacts are cached under keys derived from the
// scene bytes and the engine parameters, so a repeated request for an
// unchanged scene skips both the solver and the renderers.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Scene:       data,
//	    SceneFormat: scene.FormatTOML,
//	    Formats:     []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/overlay/pkg/config"
	"github.com/matzehuels/overlay/pkg/errors"
	"github.com/matzehuels/overlay/pkg/render/sink"
	"github.com/matzehuels/overlay/pkg/scene"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// Format constants for output formats.
const (
	FormatSVG   = "svg"
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatTrace = "trace"
	FormatPNG   = "png"
	FormatPDF   = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatJSON:  true,
	FormatDOT:   true,
	FormatTrace: true,
	FormatPNG:   true,
	FormatPDF:   true,
}

// Extension returns the file extension for format.
func Extension(format string) string {
	switch format {
	case FormatTrace:
		return ".trace.svg"
	default:
		return "." + format
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Scene is the encoded scene.
	Scene []byte `json:"-"`

	// SceneFormat defaults to TOML.
	SceneFormat scene.Format `json:"scene_format,omitempty"`

	// SceneName names scenes that do not name themselves.
	SceneName string `json:"scene_name,omitempty"`

	// Engine overrides engine defaults; the scene's own engine table wins.
	Engine config.Engine `json:"engine,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Trace   bool     `json:"trace,omitempty"` // draw rejected candidates in SVG and JSON
	Scale   float64  `json:"scale,omitempty"` // PNG only
	Refresh bool     `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the parsed scene.
	Scene *scene.Scene

	// SceneHash is the content hash of the scene bytes.
	SceneHash string

	// Frame holds the placements the artifacts were rendered from.
	Frame sink.Frame

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Tooltips   int
	Visible    int
	Compressed int
	ParseTime  time.Duration
	PlaceTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlaceHit  bool // Whether the placement frame came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, dot, trace, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out, ValidateFormats(out)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Scene) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scene is required")
	}
	if o.SceneFormat == "" {
		o.SceneFormat = scene.FormatTOML
	}
	if err := o.Engine.Validate(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// PlacementKeyInput is what a cached placement frame depends on.
func (o *Options) PlacementKeyInput(sceneHash string) any {
	return struct {
		Scene  string        `json:"scene"`
		Engine config.Engine `json:"engine"`
	}{sceneHash, o.Engine}
}

// ArtifactOptions is what a cached artifact depends on besides its frame
// and format.
func (o *Options) ArtifactOptions(format string) any {
	type opts struct {
		Trace bool    `json:"trace,omitempty"`
		Scale float64 `json:"scale,omitempty"`
	}
	switch format {
	case FormatSVG, FormatJSON, FormatPDF:
		return opts{Trace: o.Trace}
	case FormatPNG:
		return opts{Trace: o.Trace, Scale: o.Scale}
	}
	return nil
}
