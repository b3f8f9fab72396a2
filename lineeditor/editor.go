package lineeditor

import (
	"fmt"
	"io"
	"strings"

	"github.com/kagenti/tuicore/gcs"
	"github.com/kagenti/tuicore/vtinput"
)

// Signal is a high-level outcome an Editor raises to its host after
// consuming an InputEvent.
type Signal int

const (
	SignalNone Signal = iota
	SignalLine
	SignalEof
	SignalInterrupted
	SignalResized
)

// Result is what Apply returns: the signal raised (if any) and, for
// SignalLine, the submitted text.
type Result struct {
	Signal Signal
	Line   string
}

// History is the minimal navigation contract the editor needs; callers
// supply their own storage and persistence policy (history persistence
// is explicitly not this package's concern).
type History interface {
	// Previous returns the entry before pos (nil pos means "start
	// browsing from the end") and the new position, or ok=false if
	// there is no earlier entry.
	Previous(pos *int) (text string, newPos int, ok bool)
	// Next returns the entry after pos, or ok=false if pos was already
	// at the newest entry (in which case the caller restores the
	// in-progress line).
	Next(pos int) (text string, newPos int, ok bool)
}

// Editor drives a State from a stream of vtinput.InputEvent values and
// renders it to a writer.
type Editor struct {
	State *State
	// Output, when set, is used by Apply to honor Ctrl+L (clear screen,
	// re-render) without requiring every caller to special-case that
	// signal. Render/PrintData always take an explicit writer and do
	// not depend on this field.
	Output  io.Writer
	History History
	pending string // line saved while browsing history
}

// New creates an Editor with a fresh State for the given prompt and
// terminal size.
func New(prompt string, rows, cols int) *Editor {
	return &Editor{State: NewState(prompt, rows, cols)}
}

// Apply classifies the event as Plain / Ctrl-only / Alt-only (per
// spec.md's apply_event routing: Shift is ignored for dispatch, other
// combinations fall through as Plain) and dispatches it.
func (e *Editor) Apply(ev vtinput.InputEvent) Result {
	s := e.State
	if s.IsPaused.IsPaused() {
		return Result{}
	}

	switch ev.Kind {
	case vtinput.EventKey:
		return e.applyKey(ev.Key)
	case vtinput.EventPaste:
		for _, r := range ev.Paste.Text {
			s.InsertRune(r)
		}
		s.FlushClusterBuffer()
		return Result{}
	case vtinput.EventResize:
		s.TermRows, s.TermCols = ev.Resize.Rows, ev.Resize.Cols
		return Result{Signal: SignalResized}
	case vtinput.EventFocus, vtinput.EventMouse:
		return Result{}
	}
	return Result{}
}

func (e *Editor) applyKey(k vtinput.KeyEvent) Result {
	s := e.State
	mods := k.Modifiers &^ vtinput.ModShift
	ctrl := mods == vtinput.ModCtrl
	alt := mods == vtinput.ModAlt

	if k.IsRune() {
		switch {
		case ctrl:
			return e.ctrlRune(k.Rune)
		case alt:
			e.altRune(k.Rune)
			return Result{}
		default:
			s.InsertRune(k.Rune)
			return Result{}
		}
	}

	switch k.Key {
	case vtinput.KeyEnter:
		return e.submit()
	case vtinput.KeyBackspace:
		if alt {
			s.DeleteWordLeft()
		} else {
			s.DeleteLeft()
		}
	case vtinput.KeyDelete:
		s.DeleteRight()
	case vtinput.KeyLeft:
		if ctrl {
			s.MoveWordLeft()
		} else {
			s.MoveCursor(-1)
		}
	case vtinput.KeyRight:
		if ctrl {
			s.MoveWordRight()
		} else {
			s.MoveCursor(1)
		}
	case vtinput.KeyHome:
		s.MoveHome()
	case vtinput.KeyEnd:
		s.MoveEnd()
	case vtinput.KeyUp:
		e.historyPrev()
	case vtinput.KeyDown:
		e.historyNext()
	case vtinput.KeyEscape:
		// no binding; reserved for host-level use.
	}
	return Result{}
}

func (e *Editor) ctrlRune(r rune) Result {
	s := e.State
	switch r {
	case 'c', 'C':
		if s.PrintOnCtrlC && e.Output != nil {
			io.WriteString(e.Output, s.Prompt+s.Line.AsStr()+"\n")
		}
		s.Clear()
		return Result{Signal: SignalInterrupted}
	case 'd', 'D':
		if s.Line.SegmentCount() == 0 {
			return Result{Signal: SignalEof}
		}
		s.DeleteRight()
	case 'l', 'L':
		if e.Output != nil {
			io.WriteString(e.Output, "\x1b[H\x1b[2J")
			s.lastLineLength = 0
			e.Render(e.Output)
		}
	case 'u', 'U':
		s.DeleteToStart()
	case 'w', 'W':
		s.DeleteWordLeft()
	case 'a', 'A':
		s.MoveHome()
	case 'e', 'E':
		s.MoveEnd()
	}
	return Result{}
}

// altRune dispatches the Alt+<letter> bindings (Alt+B/Alt+F word motion,
// Alt+D delete word forward).
func (e *Editor) altRune(r rune) {
	s := e.State
	switch r {
	case 'b', 'B':
		s.MoveWordLeft()
	case 'f', 'F':
		s.MoveWordRight()
	case 'd', 'D':
		s.DeleteWordRight()
	case 0x7f, 0x08:
		// Alt+Backspace: the decoder reports DEL/Ctrl+H as a plain
		// rune rather than KeyBackspace when it follows a bare ESC.
		s.DeleteWordLeft()
	}
}

func (e *Editor) submit() Result {
	s := e.State
	s.FlushClusterBuffer()
	text := s.Line.AsStr()
	if s.PrintOnEnter && e.Output != nil {
		io.WriteString(e.Output, s.Prompt+text+"\n")
	}
	s.Clear()
	return Result{Signal: SignalLine, Line: text}
}

func (e *Editor) historyPrev() {
	if e.History == nil {
		return
	}
	s := e.State
	s.FlushClusterBuffer()
	if s.HistoryPos == nil {
		e.pending = s.Line.AsStr()
	}
	text, pos, ok := e.History.Previous(s.HistoryPos)
	if !ok {
		return
	}
	s.HistoryPos = &pos
	s.SetText(text)
}

func (e *Editor) historyNext() {
	if e.History == nil || e.State.HistoryPos == nil {
		return
	}
	s := e.State
	s.FlushClusterBuffer()
	text, pos, ok := e.History.Next(*s.HistoryPos)
	if !ok {
		s.HistoryPos = nil
		s.SetText(e.pending)
		return
	}
	s.HistoryPos = &pos
	s.SetText(text)
}

// SetPaused toggles the paused state. Unpausing clears the editor's
// screen region and re-renders, matching spec.md's pause/resume
// contract.
func (e *Editor) SetPaused(w io.Writer, p Liveness) error {
	wasPaused := e.State.IsPaused.IsPaused()
	e.State.SetPaused(p)
	if wasPaused && !p.IsPaused() {
		return e.Render(w)
	}
	return nil
}

// moveToBeginning emits cursor motion from a given display column back to
// column 0 of the logical line's first row.
func moveToBeginning(w io.Writer, s *State, from int) error {
	prev := from - 1
	if prev < 0 {
		prev = 0
	}
	up := s.LineHeight(prev)
	if _, err := io.WriteString(w, "\r"); err != nil {
		return err
	}
	if up != 0 {
		if _, err := fmt.Fprintf(w, "\x1b[%dA", up); err != nil {
			return err
		}
	}
	return nil
}

// moveFromBeginning emits cursor motion from column 0 to the given
// display column.
func moveFromBeginning(w io.Writer, s *State, to int) error {
	prev := to - 1
	if prev < 0 {
		prev = 0
	}
	down := s.LineHeight(prev)
	var remaining int
	if s.TermCols > 0 {
		remaining = to % s.TermCols
	} else {
		remaining = to
	}
	if down != 0 {
		if _, err := fmt.Fprintf(w, "\x1b[%dB", down); err != nil {
			return err
		}
	}
	if remaining != 0 {
		if _, err := fmt.Fprintf(w, "\x1b[%dC", remaining); err != nil {
			return err
		}
	}
	return nil
}

// Render writes prompt+line from column 0 of the current row, then
// repositions the caret to CurrentColumn using relative cursor motion
// only, so it composes safely with whatever the surrounding terminal
// content is doing.
func (e *Editor) Render(w io.Writer) error {
	s := e.State
	if s.IsPaused.IsPaused() {
		return nil
	}
	if err := moveToBeginning(w, s, s.lastLineLength); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\x1b[J"); err != nil {
		return err
	}
	full := s.Prompt + s.Line.AsStr()
	if _, err := io.WriteString(w, full); err != nil {
		return err
	}
	total := gcs.StringWidth(s.Prompt) + s.Line.Width()
	s.lastLineLength = total
	if err := moveToBeginning(w, s, total); err != nil {
		return err
	}
	return moveFromBeginning(w, s, s.CurrentColumn)
}

// PrintData interleaves output from a concurrent writer (e.g. PTY
// output, a background spinner) with the in-progress prompt line: it
// clears the current line, writes data treating bare "\n" as CRLF, then
// re-renders the prompt+line so the user's edit survives unaffected.
func (e *Editor) PrintData(w io.Writer, data []byte) error {
	s := e.State
	if err := moveToBeginning(w, s, s.lastLineLength); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\x1b[J"); err != nil {
		return err
	}
	normalized := strings.ReplaceAll(string(data), "\n", "\r\n")
	if _, err := io.WriteString(w, normalized); err != nil {
		return err
	}
	if !strings.HasSuffix(normalized, "\r\n") && normalized != "" {
		if _, err := io.WriteString(w, "\r\n"); err != nil {
			return err
		}
	}
	return e.Render(w)
}
