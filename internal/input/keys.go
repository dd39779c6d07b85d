package input

import (
	"regexp"
	"strings"

	"github.com/panecast/panecast/internal/protocol"
)

// printableKey matches key strings that are a single typeable
// character: letters, digits, punctuation and space.
var printableKey = regexp.MustCompile("^[a-zA-Z0-9 `~!@#$%^&*()\\-_=+\\[\\]{}\\\\|;:'\",<.>/?]$")

// shiftedKey holds the printable characters that can only be produced
// with Shift held on a standard US layout.
const shiftedKey = "~!@#$%^&*()_+{}|:\"<>?"

// functionKey matches F1 through F24 after casing.
var functionKey = regexp.MustCompile(`^F([1-9]|1[0-9]|2[0-4])$`)

// specialKeys maps lowercased key names to the cased key code sent to
// the target surface.
var specialKeys = map[string]string{
	"arrowup":            "ArrowUp",
	"arrowdown":          "ArrowDown",
	"arrowleft":          "ArrowLeft",
	"arrowright":         "ArrowRight",
	"home":               "Home",
	"end":                "End",
	"pageup":             "PageUp",
	"pagedown":           "PageDown",
	"insert":             "Insert",
	"delete":             "Delete",
	"backspace":          "Backspace",
	"tab":                "Tab",
	"enter":              "Enter",
	"return":             "Enter",
	"escape":             "Escape",
	"capslock":           "CapsLock",
	"numlock":            "NumLock",
	"scrolllock":         "ScrollLock",
	"printscreen":        "PrintScreen",
	"pause":              "Pause",
	"contextmenu":        "ContextMenu",
	"audiovolumeup":      "AudioVolumeUp",
	"audiovolumedown":    "AudioVolumeDown",
	"audiovolumemute":    "AudioVolumeMute",
	"mediaplaypause":     "MediaPlayPause",
	"mediastop":          "MediaStop",
	"mediatracknext":     "MediaTrackNext",
	"mediatrackprevious": "MediaTrackPrevious",
}

// modifierKeys maps lowercased modifier names (and their platform
// aliases) to the cased modifier passed to the target surface.
var modifierKeys = map[string]string{
	"control": "Control",
	"ctrl":    "Control",
	"shift":   "Shift",
	"alt":     "Alt",
	"option":  "Alt",
	"altgr":   "AltGraph",
	"meta":    "Meta",
	"command": "Meta",
	"cmd":     "Meta",
	"super":   "Meta",
	"win":     "Meta",
}

// ClassifyKey turns one keyboard transition into at most one native
// action. Precedence: printable character, then special key name, then
// modifier; anything else is a deliberate no-op.
func ClassifyKey(key, state string) (Action, bool) {
	pressed := state == protocol.KeyPressed

	if printableKey.MatchString(key) {
		// Typeable characters only fire on press; the release of a
		// printable key carries no information for the target.
		if !pressed {
			return Action{}, false
		}
		action := Action{Kind: KindChar, Key: key}
		if needsShift(key) {
			action.Modifiers = []string{"Shift"}
		}
		return action, true
	}

	kind := KindKeyUp
	if pressed {
		kind = KindKeyDown
	}

	if cased, ok := specialKeyName(key); ok {
		return Action{Kind: kind, Key: cased}, true
	}

	if cased, ok := modifierKeys[strings.ToLower(key)]; ok {
		return Action{Kind: kind, Modifiers: []string{cased}}, true
	}

	return Action{}, false
}

// specialKeyName cases a key to its canonical Title-Case name and
// reports whether it is a known special key.
func specialKeyName(key string) (string, bool) {
	if key == "" {
		return "", false
	}

	lower := strings.ToLower(key)
	if cased, ok := specialKeys[lower]; ok {
		return cased, true
	}

	cased := strings.ToUpper(lower[:1]) + lower[1:]
	if functionKey.MatchString(cased) {
		return cased, true
	}

	return "", false
}

func needsShift(key string) bool {
	if key >= "A" && key <= "Z" {
		return true
	}
	return strings.Contains(shiftedKey, key)
}
