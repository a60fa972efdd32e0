package placement

// Classes is the CSS class vocabulary the engine writes to the overlay.
type Classes struct {
	// Base is the block class; side modifiers are Base + "--" + side.
	Base string

	// Set marks an overlay that is mounted and being positioned.
	Set string

	// Visible starts the reveal transition.
	Visible string

	// WidthCompressed caps the overlay width so its content wraps.
	WidthCompressed string
}

// DefaultClasses follows the design system's tooltip naming.
var DefaultClasses = Classes{
	Base:            "usa-tooltip__body",
	Set:             "is-set",
	Visible:         "is-visible",
	WidthCompressed: "usa-tooltip__body--wrap",
}

// Side returns the modifier class for s, e.g. "usa-tooltip__body--top".
func (c Classes) Side(s Side) string {
	return c.Base + "--" + s.String()
}

// sides returns all four side modifiers.
func (c Classes) sides() []string {
	out := make([]string, len(FallbackOrder))
	for i, s := range FallbackOrder {
		out[i] = c.Side(s)
	}
	return out
}
