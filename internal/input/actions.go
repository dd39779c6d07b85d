package input

import "fmt"

// Kind enumerates the platform-native input primitives a decoded
// protocol message can turn into.
type Kind int

const (
	KindPointerPress Kind = iota
	KindPointerRelease
	KindPointerDrag
	KindWheel
	KindKeyDown
	KindKeyUp
	KindChar
	KindResize
)

var kindNames = map[Kind]string{
	KindPointerPress:   "pointer-press",
	KindPointerRelease: "pointer-release",
	KindPointerDrag:    "pointer-drag",
	KindWheel:          "wheel",
	KindKeyDown:        "key-down",
	KindKeyUp:          "key-up",
	KindChar:           "char",
	KindResize:         "resize",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Action is one native input primitive ready to be applied to a target
// surface. Only the fields relevant to the Kind are populated.
type Action struct {
	Kind Kind

	// Pointer coordinates (press/release/drag)
	X float64
	Y float64

	// Scroll deltas (wheel)
	DX float64
	DY float64

	// Key code or literal character (key-down/key-up/char)
	Key       string
	Modifiers []string

	// Target dimensions (resize)
	Width  int
	Height int
}

// Surface applies native input actions to one target surface, addressed
// by an opaque surface id (a window handle, in practice). Implementations
// live outside this package; the translator only writes to the interface.
type Surface interface {
	Apply(action Action) error
}
