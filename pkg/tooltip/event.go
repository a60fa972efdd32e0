package tooltip

import "fmt"

// Event is a trigger interaction.
type Event uint8

const (
	MouseOver Event = iota
	FocusIn
	MouseLeave
	FocusOut
	KeyEscape
)

var eventNames = [...]string{
	MouseOver:  "mouseover",
	FocusIn:    "focusin",
	MouseLeave: "mouseleave",
	FocusOut:   "focusout",
	KeyEscape:  "escape",
}

func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("Event(%d)", uint8(e))
}

// ParseEvent maps a DOM event name to an Event.
func ParseEvent(s string) (Event, error) {
	for i, n := range eventNames {
		if n == s {
			return Event(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event %q", s)
}
