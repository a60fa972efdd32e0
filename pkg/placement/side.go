package placement

import (
	"fmt"
	"strings"
)

// Side is the side of the anchor the overlay is placed on.
type Side uint8

const (
	Top Side = iota
	Bottom
	Right
	Left
)

// FallbackOrder is the order in which sides are tried when the preferred
// side does not fit.
var FallbackOrder = [...]Side{Top, Bottom, Right, Left}

var sideNames = [...]string{
	Top:    "top",
	Bottom: "bottom",
	Right:  "right",
	Left:   "left",
}

// String returns the CSS name of the side.
func (s Side) String() string {
	if int(s) < len(sideNames) {
		return sideNames[s]
	}
	return fmt.Sprintf("Side(%d)", uint8(s))
}

// Valid reports whether s is one of the four sides.
func (s Side) Valid() bool { return int(s) < len(sideNames) }

// ParseSide maps an attribute value to a Side. Matching ignores case and
// surrounding space. Unknown or empty values return Top with ok=false; an
// invalid preference is a configuration default, not an error.
func ParseSide(s string) (side Side, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return Top, true
	case "bottom":
		return Bottom, true
	case "right":
		return Right, true
	case "left":
		return Left, true
	}
	return Top, false
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid side %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unlike ParseSide it
// rejects unknown names, since serialized results are expected to be
// well-formed.
func (s *Side) UnmarshalText(b []byte) error {
	side, ok := ParseSide(string(b))
	if !ok {
		return fmt.Errorf("invalid side %q", string(b))
	}
	*s = side
	return nil
}
