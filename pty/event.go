// Package pty spawns a child process under a pseudo-terminal and bridges
// its synchronous, OS-level read/write file descriptor to goroutine and
// channel consumers: a blocking reader goroutine, a blocking writer
// goroutine, and an async-to-sync bridge goroutine between them, all
// owned by an orchestrator goroutine that awaits the child's exit.
package pty

import "os"

// OutputEvent is what the reader goroutine and orchestrator emit on the
// session's output channel.
type OutputEvent struct {
	Kind            OutputKind
	Data            []byte
	ExitState       *os.ProcessState
	Err             error
	CursorModeApp   bool // valid when Kind == OutputCursorModeChange
}

// OutputKind discriminates OutputEvent.
type OutputKind int

const (
	OutputData OutputKind = iota
	OutputExit
	OutputUnexpectedExit
	OutputWriteError
	OutputCursorModeChange
)

// InputEvent is what callers send on the session's input channel.
type InputEvent struct {
	Kind    InputKind
	Data    []byte
	Control ControlSequence
	Rows    int
	Cols    int
}

// InputKind discriminates InputEvent.
type InputKind int

const (
	InputWrite InputKind = iota
	InputWriteLine
	InputSendControl
	InputResize
	InputFlush
	InputClose
)

// ControlSequence is the fixed set of named control inputs a caller can
// ask the writer to translate into the right bytes for the PTY's current
// cursor-key mode.
type ControlSequence int

const (
	CtrlEnter ControlSequence = iota
	CtrlTab
	CtrlBackspace
	CtrlEscape
	CtrlA
	CtrlB
	CtrlC
	CtrlD
	CtrlL
	CtrlU
	CtrlW
	CtrlZ
	ArrowUp
	ArrowDown
	ArrowLeft
	ArrowRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	RawSequence
)

// ctrlLetterBytes maps the CtrlA..CtrlZ-style sequences to their C0 byte.
var ctrlLetterBytes = map[ControlSequence]byte{
	CtrlA: 0x01, CtrlB: 0x02, CtrlC: 0x03, CtrlD: 0x04,
	CtrlL: 0x0C, CtrlU: 0x15, CtrlW: 0x17, CtrlZ: 0x1A,
}

// ToBytes renders a ControlSequence to the bytes written to the PTY,
// choosing application-mode (SS3) or normal-mode (CSI) arrow sequences
// per applicationCursorKeys, mirroring VT100 cursor-key mode switching.
func (c ControlSequence) ToBytes(applicationCursorKeys bool, raw []byte) []byte {
	switch c {
	case CtrlEnter:
		return []byte{'\r'}
	case CtrlTab:
		return []byte{'\t'}
	case CtrlBackspace:
		return []byte{0x7f}
	case CtrlEscape:
		return []byte{0x1b}
	case ArrowUp, ArrowDown, ArrowRight, ArrowLeft:
		final := arrowFinal(c)
		if applicationCursorKeys {
			return []byte{0x1b, 'O', final}
		}
		return []byte{0x1b, '[', final}
	case KeyF1, KeyF2, KeyF3, KeyF4:
		return []byte{0x1b, 'O', ssFunctionFinal(c)}
	case RawSequence:
		return raw
	}
	if b, ok := ctrlLetterBytes[c]; ok {
		return []byte{b}
	}
	return nil
}

func arrowFinal(c ControlSequence) byte {
	switch c {
	case ArrowUp:
		return 'A'
	case ArrowDown:
		return 'B'
	case ArrowRight:
		return 'C'
	case ArrowLeft:
		return 'D'
	}
	return 0
}

func ssFunctionFinal(c ControlSequence) byte {
	switch c {
	case KeyF1:
		return 'P'
	case KeyF2:
		return 'Q'
	case KeyF3:
		return 'R'
	case KeyF4:
		return 'S'
	}
	return 0
}
