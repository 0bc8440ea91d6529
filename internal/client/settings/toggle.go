package settings

import (
	"fmt"
	"strings"
)

// Toggle is an explicit tri-state read of a boolean control: present and
// true, present and false, or absent. Absent keeps the previous value.
type Toggle struct {
	value   bool
	present bool
}

func ToggleOf(v bool) Toggle {
	return Toggle{value: v, present: true}
}

// ParseToggle accepts the usual checkbox and flag spellings. An empty string
// is an absent control.
func ParseToggle(raw string) (Toggle, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return Toggle{}, nil
	case "on", "true", "1", "yes", "y":
		return ToggleOf(true), nil
	case "off", "false", "0", "no", "n":
		return ToggleOf(false), nil
	default:
		return Toggle{}, fmt.Errorf("%w: %q", ErrInvalidToggle, raw)
	}
}

func (t Toggle) Present() bool {
	return t.present
}

func (t Toggle) Resolve(previous bool) bool {
	if !t.present {
		return previous
	}
	return t.value
}
