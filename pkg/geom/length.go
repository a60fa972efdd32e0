package geom

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is the unit of a [Length].
type Unit uint8

const (
	// Unset marks a length that has not been assigned; it renders as the
	// empty string, like an inline style property set to null.
	Unset Unit = iota
	// Pixels is an absolute length in CSS pixels.
	Pixels
	// Percent is relative to the containing block's matching dimension.
	Percent
)

// Length is a CSS length value as written into an inline style.
type Length struct {
	Value float64
	Unit  Unit
}

// Px returns a pixel length.
func Px(v float64) Length { return Length{Value: v, Unit: Pixels} }

// Pct returns a percentage length.
func Pct(v float64) Length { return Length{Value: v, Unit: Percent} }

// IsSet reports whether the length has been assigned.
func (l Length) IsSet() bool { return l.Unit != Unset }

// Resolve converts the length to pixels; percentages resolve against base.
// An unset length resolves to zero.
func (l Length) Resolve(base float64) float64 {
	switch l.Unit {
	case Pixels:
		return l.Value
	case Percent:
		return base * l.Value / 100
	}
	return 0
}

// String renders the length the way the browser serializes it, e.g. "50%",
// "-5px" or "" when unset.
func (l Length) String() string {
	switch l.Unit {
	case Pixels:
		return formatNumber(l.Value) + "px"
	case Percent:
		return formatNumber(l.Value) + "%"
	}
	return ""
}

// ParseLength parses "12px", "50%", "0" or "" (unset).
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Length{}, nil
	case strings.HasSuffix(s, "px"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
		if err != nil {
			return Length{}, fmt.Errorf("parse length %q: %w", s, err)
		}
		return Px(v), nil
	case strings.HasSuffix(s, "%"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return Length{}, fmt.Errorf("parse length %q: %w", s, err)
		}
		return Pct(v), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != 0 {
		return Length{}, fmt.Errorf("parse length %q: unitless values other than 0 are not lengths", s)
	}
	return Px(0), nil
}

func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
