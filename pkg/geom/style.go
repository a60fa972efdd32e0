package geom

import (
	"fmt"
	"strings"
)

// InlineStyle is the subset of inline style properties the placement engine
// writes: the four offsets and the margin shorthand. It never carries width,
// height or display.
type InlineStyle struct {
	Top, Right, Bottom, Left Length

	// Margin is only meaningful when HasMargin is true; an unset margin
	// shorthand falls back to whatever the stylesheet provides.
	Margin    Edges
	HasMargin bool
}

// SetMargin assigns the margin shorthand.
func (s *InlineStyle) SetMargin(e Edges) {
	s.Margin = e
	s.HasMargin = true
}

// Reset clears all offsets and the margin shorthand.
func (s *InlineStyle) Reset() {
	*s = InlineStyle{}
}

// IsZero reports whether no property is set.
func (s InlineStyle) IsZero() bool {
	return !s.Top.IsSet() && !s.Right.IsSet() && !s.Bottom.IsSet() && !s.Left.IsSet() && !s.HasMargin
}

// MarginString renders the margin shorthand in top-right-bottom-left order,
// e.g. "-43px 0px 0px -80px", or "" when unset.
func (s InlineStyle) MarginString() string {
	if !s.HasMargin {
		return ""
	}
	return fmt.Sprintf("%s %s %s %s",
		Px(s.Margin.Top), Px(s.Margin.Right), Px(s.Margin.Bottom), Px(s.Margin.Left))
}

// Properties returns the set properties as name/value pairs in a stable
// order: top, right, bottom, left, margin.
func (s InlineStyle) Properties() [][2]string {
	var props [][2]string
	add := func(name string, l Length) {
		if l.IsSet() {
			props = append(props, [2]string{name, l.String()})
		}
	}
	add("top", s.Top)
	add("right", s.Right)
	add("bottom", s.Bottom)
	add("left", s.Left)
	if s.HasMargin {
		props = append(props, [2]string{"margin", s.MarginString()})
	}
	return props
}

// CSS renders the style as a declaration list suitable for a style
// attribute, e.g. "top: -5px; left: 50%; margin: -48px 0px 0px -80px".
func (s InlineStyle) CSS() string {
	props := s.Properties()
	parts := make([]string, len(props))
	for i, p := range props {
		parts[i] = p[0] + ": " + p[1]
	}
	return strings.Join(parts, "; ")
}
