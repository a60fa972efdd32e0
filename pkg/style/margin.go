package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/css"

	"github.com/matzehuels/overlay/pkg/geom"
)

// apply folds one declaration into m. Non-margin properties are ignored.
func apply(m *geom.Edges, d *css.Declaration, fontSize float64) error {
	prop := strings.ToLower(strings.TrimSpace(d.Property))
	if !strings.HasPrefix(prop, "margin") {
		return nil
	}
	value := strings.TrimSpace(d.Value)

	if prop == "margin" {
		e, err := ParseMargin(value, fontSize)
		if err != nil {
			return err
		}
		*m = e
		return nil
	}

	v, err := ParseLength(value, fontSize)
	if err != nil {
		return fmt.Errorf("%s: %w", prop, err)
	}
	switch prop {
	case "margin-top":
		m.Top = v
	case "margin-right":
		m.Right = v
	case "margin-bottom":
		m.Bottom = v
	case "margin-left":
		m.Left = v
	}
	return nil
}

// ParseMargin parses the margin shorthand with one to four values.
func ParseMargin(value string, fontSize float64) (geom.Edges, error) {
	fields := strings.Fields(value)
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := ParseLength(f, fontSize)
		if err != nil {
			return geom.Edges{}, fmt.Errorf("margin: %w", err)
		}
		vals[i] = v
	}
	switch len(vals) {
	case 1:
		return geom.EdgeAll(vals[0]), nil
	case 2:
		return geom.EdgeTRBL(vals[0], vals[1], vals[0], vals[1]), nil
	case 3:
		return geom.EdgeTRBL(vals[0], vals[1], vals[2], vals[1]), nil
	case 4:
		return geom.EdgeTRBL(vals[0], vals[1], vals[2], vals[3]), nil
	}
	return geom.Edges{}, fmt.Errorf("margin: want 1 to 4 values, got %q", value)
}

// ParseLength parses a margin length in px, rem or em, a unitless zero, or
// auto, which resolves to zero for in-flow inline content.
func ParseLength(s string, fontSize float64) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	var unit float64 = 1
	switch {
	case s == "auto" || s == "0":
		return 0, nil
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	case strings.HasSuffix(s, "rem"):
		s, unit = strings.TrimSuffix(s, "rem"), fontSize
	case strings.HasSuffix(s, "em"):
		s, unit = strings.TrimSuffix(s, "em"), fontSize
	default:
		return 0, fmt.Errorf("unsupported length %q", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	return v * unit, nil
}
