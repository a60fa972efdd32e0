// Package scene describes pages of anchored tooltips in TOML or JSON and
// builds them into documents the engine can place.
//
// A scene lists a viewport, an optional stylesheet and the tooltips:
//
//	name = "toolbar"
//	stylesheet = ".usa-button { margin-left: 8px; }"
//
//	[viewport]
//	width = 1024
//	height = 768
//
//	[[tooltip]]
//	id = "save"
//	text = "Save file"
//	position = "bottom"
//	classes = ["usa-button"]
//	anchor = { x = 12, y = 4, width = 100, height = 40 }
//
// Anchor margins come from the stylesheet unless the anchor lists them
// explicitly. Overlay sizes default to an estimate from the text.
package scene

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/overlay/pkg/config"
	"github.com/matzehuels/overlay/pkg/errors"
)

// Format is a scene file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// Scene is a page of tooltips.
type Scene struct {
	Name       string        `toml:"name" json:"name,omitempty"`
	Viewport   Viewport      `toml:"viewport" json:"viewport"`
	Stylesheet string        `toml:"stylesheet,omitempty" json:"stylesheet,omitempty"`
	Engine     config.Engine `toml:"engine,omitempty" json:"engine,omitempty"`
	Tooltips   []Tooltip     `toml:"tooltip" json:"tooltips"`
}

// Viewport is the visible area.
type Viewport struct {
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
}

// Tooltip is one trigger and its overlay.
type Tooltip struct {
	ID       string   `toml:"id" json:"id"`
	Text     string   `toml:"text,omitempty" json:"text,omitempty"`
	Position string   `toml:"position,omitempty" json:"position,omitempty"`
	Tag      string   `toml:"tag,omitempty" json:"tag,omitempty"`
	Classes  []string `toml:"classes,omitempty" json:"classes,omitempty"`
	Style    string   `toml:"style,omitempty" json:"style,omitempty"`
	Anchor   Anchor   `toml:"anchor" json:"anchor"`
	Overlay  Overlay  `toml:"overlay,omitempty" json:"overlay,omitempty"`
}

// Anchor is the trigger's border box in viewport coordinates.
type Anchor struct {
	X      float64 `toml:"x" json:"x"`
	Y      float64 `toml:"y" json:"y"`
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`

	// Margin uses CSS shorthand order with one to four values and
	// replaces any stylesheet margin.
	Margin []float64 `toml:"margin,omitempty" json:"margin,omitempty"`
}

// Overlay is the tooltip body. Zero sizes are estimated from the text.
type Overlay struct {
	Width     float64 `toml:"width,omitempty" json:"width,omitempty"`
	Height    float64 `toml:"height,omitempty" json:"height,omitempty"`
	WrapWidth float64 `toml:"wrap_width,omitempty" json:"wrap_width,omitempty"`
}

// FormatFromPath picks the encoding from the file extension; anything but
// .json is read as TOML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// Load reads, parses and validates a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read scene %s", path)
	}
	s, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes and validates a scene.
func Parse(data []byte, format Format) (*Scene, error) {
	var s Scene
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode JSON scene")
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode TOML scene")
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidScene, "unknown scene key %q", undec[0].String())
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown scene format %q", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks ids and geometry. An unknown position is not an error:
// the tooltip logs it and places on top.
func (s *Scene) Validate() error {
	if err := errors.ValidateDimension("viewport.width", s.Viewport.Width); err != nil {
		return invalid(err)
	}
	if err := errors.ValidateDimension("viewport.height", s.Viewport.Height); err != nil {
		return invalid(err)
	}
	if err := s.Engine.Validate(); err != nil {
		return invalid(err)
	}

	seen := make(map[string]bool, len(s.Tooltips))
	for i, t := range s.Tooltips {
		if err := errors.ValidateElementID(t.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "tooltip %d", i)
		}
		if seen[t.ID] {
			return errors.New(errors.ErrCodeInvalidScene, "duplicate tooltip id %q", t.ID)
		}
		seen[t.ID] = true

		for _, c := range []struct {
			name string
			v    float64
		}{{"x", t.Anchor.X}, {"y", t.Anchor.Y}} {
			if err := errors.ValidateCoordinate(c.name, c.v); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidScene, err, "tooltip %q", t.ID)
			}
		}
		if err := errors.ValidateDimension("anchor.width", t.Anchor.Width); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "tooltip %q", t.ID)
		}
		if err := errors.ValidateDimension("anchor.height", t.Anchor.Height); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "tooltip %q", t.ID)
		}
		if n := len(t.Anchor.Margin); n > 4 {
			return errors.New(errors.ErrCodeInvalidScene, "tooltip %q: margin takes 1 to 4 values, got %d", t.ID, n)
		}
		if (t.Overlay.Width == 0) != (t.Overlay.Height == 0) {
			return errors.New(errors.ErrCodeInvalidScene, "tooltip %q: overlay needs both width and height", t.ID)
		}
		if t.Overlay.Width < 0 || t.Overlay.Height < 0 || t.Overlay.WrapWidth < 0 {
			return errors.New(errors.ErrCodeInvalidScene, "tooltip %q: overlay sizes must not be negative", t.ID)
		}
	}
	return nil
}

// Tooltip returns the tooltip with the given id.
func (s *Scene) Tooltip(id string) (Tooltip, bool) {
	for _, t := range s.Tooltips {
		if t.ID == id {
			return t, true
		}
	}
	return Tooltip{}, false
}

// Encode writes s in the given format.
func (s *Scene) Encode(format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(s); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown scene format %q", format)
	}
	return buf.Bytes(), nil
}

func invalid(err error) error {
	return errors.Wrap(errors.ErrCodeInvalidScene, err, "invalid scene")
}
