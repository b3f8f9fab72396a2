package vtoutput

// Modes is a bitmask of terminal session modes that live above the grid
// level: things the VT100 output dispatcher tracks but an OffscreenBuffer
// has no use for (keypad mode, mouse reporting variants, the alternate
// screen swap flag).
type Modes uint32

const (
	ModeCursorKeys Modes = 1 << iota
	ModeColumnMode
	ModeBlinkingCursor
	ModeLineFeedNewLine
	ModeReportMouseClicks
	ModeReportCellMouseMotion
	ModeReportAllMouseMotion
	ModeReportFocusInOut
	ModeUTF8Mouse
	ModeSGRMouse
	ModeAlternateScroll
	ModeUrgencyHints
	ModeSwapScreenAndSetRestoreCursor
	ModeBracketedPaste
	ModeKeypadApplication
)

func (m Modes) has(mask Modes) bool { return m&mask == mask }
