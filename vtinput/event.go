// Package vtinput parses bytes arriving from a terminal's stdin (key
// presses, mouse reports, bracketed paste, focus events) into a stream
// of InputEvent values. Unlike vtoutput, no third-party library in this
// codebase's dependency tree tokenizes terminal *input*: go-ansicode and
// go-vte both decode a program's output stream. This parser is therefore
// hand-written, in the spirit of the byte-scanning state machines real
// terminal emulator libraries use for the same job.
package vtinput

// Modifiers is a bitmask of key/mouse modifier state.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
)

// Key identifies a named (non-printable) key.
type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyBackspace
	KeyEnter
	KeyTab
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// MouseButton identifies which button (or wheel direction) a mouse event
// reports.
type MouseButton int

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonMiddle
	MouseButtonRight
	MouseWheelUp
	MouseWheelDown
)

// MouseAction distinguishes press, release, and drag/motion reports.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMotion
)

// EventKind discriminates the InputEvent sum type.
type EventKind int

const (
	EventKey EventKind = iota
	EventMouse
	EventPaste
	EventFocus
	EventResize
)

// KeyEvent is a single key press, either a printable rune or a named Key.
type KeyEvent struct {
	Rune      rune
	Key       Key
	Modifiers Modifiers
}

// IsRune reports whether this event carries a printable rune rather than
// a named key.
func (k KeyEvent) IsRune() bool { return k.Key == KeyUnknown && k.Rune != 0 }

// MouseEvent is a single SGR mouse report.
type MouseEvent struct {
	Button    MouseButton
	Action    MouseAction
	Row, Col  int
	Modifiers Modifiers
}

// PasteEvent carries the full text collected between bracketed-paste
// start and end markers.
type PasteEvent struct {
	Text string
}

// FocusEvent reports a terminal focus-in/focus-out transition.
type FocusEvent struct {
	Focused bool
}

// ResizeEvent reports a SIGWINCH-driven size change, surfaced through
// the same event stream as keyboard/mouse input for a single ordered
// event channel.
type ResizeEvent struct {
	Rows, Cols int
}

// InputEvent is the sum type produced by the Parser. Exactly one of the
// Key/Mouse/Paste/Focus/Resize fields is meaningful, selected by Kind.
type InputEvent struct {
	Kind   EventKind
	Key    KeyEvent
	Mouse  MouseEvent
	Paste  PasteEvent
	Focus  FocusEvent
	Resize ResizeEvent
}
