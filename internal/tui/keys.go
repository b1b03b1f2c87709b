package tui

import (
	"github.com/cachesweep/cachesweep/internal/eventloop"
	"github.com/cachesweep/cachesweep/internal/model"
)

// browseKeyToInput translates a key pressed while browsing the result
// list (no confirmation pending, no overlay open) into an eventloop
// Input. cursorTarget is the target name of the row under the cursor,
// used by the "t" filter-by-target shortcut. ok is false for keys the
// browse view does not handle itself (quit, log viewer, search entry),
// which the caller handles separately.
func browseKeyToInput(key, cursorTarget string, filter model.Filter) (eventloop.Input, bool) {
	switch key {
	case "up", "k":
		return eventloop.Input{Kind: eventloop.InputUp}, true
	case "down", "j":
		return eventloop.Input{Kind: eventloop.InputDown}, true
	case "pgup":
		return eventloop.Input{Kind: eventloop.InputPageUp}, true
	case "pgdown":
		return eventloop.Input{Kind: eventloop.InputPageDown}, true
	case "home", "g":
		return eventloop.Input{Kind: eventloop.InputHome}, true
	case "end", "G":
		return eventloop.Input{Kind: eventloop.InputEnd}, true
	case " ":
		return eventloop.Input{Kind: eventloop.InputToggleMark}, true
	case "a":
		return eventloop.Input{Kind: eventloop.InputSelectAll}, true
	case "n":
		return eventloop.Input{Kind: eventloop.InputSelectNone}, true
	case "enter":
		return eventloop.Input{Kind: eventloop.InputDelete}, true
	case "d":
		return eventloop.Input{Kind: eventloop.InputDeleteMarked}, true
	case "s":
		return eventloop.Input{Kind: eventloop.InputCycleSort}, true
	case "X":
		return eventloop.Input{Kind: eventloop.InputToggleShowProtected}, true
	case "t":
		if filter.Kind == model.FilterByTarget && filter.Target == cursorTarget {
			return eventloop.Input{Kind: eventloop.InputFilterAll}, true
		}
		if cursorTarget == "" {
			return eventloop.Input{}, false
		}
		return eventloop.Input{Kind: eventloop.InputFilterTarget, Text: cursorTarget}, true
	case "esc":
		if filter.Kind != model.FilterAll {
			return eventloop.Input{Kind: eventloop.InputFilterAll}, true
		}
		return eventloop.Input{}, false
	}
	return eventloop.Input{}, false
}

// confirmKeyToInput translates a key pressed while a confirmation modal
// is on screen. Any key not listed here is ignored: the modal blocks
// every other action until it is resolved.
func confirmKeyToInput(key string) (eventloop.Input, bool) {
	switch key {
	case "y", "enter":
		return eventloop.Input{Kind: eventloop.InputConfirm}, true
	case "n", "esc", "q":
		return eventloop.Input{Kind: eventloop.InputCancel}, true
	}
	return eventloop.Input{}, false
}
