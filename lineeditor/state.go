// Package lineeditor implements a grapheme-aware single-line editor: a
// LineState holding the text and cursor, a key-binding table translating
// vtinput.InputEvent values into mutations, and a renderer that positions
// the caret with relative cursor motion so it coexists with surrounding
// terminal output.
package lineeditor

import (
	"strings"

	"github.com/kagenti/tuicore/gcs"
)

// Liveness mirrors the paused/not-paused state of a LineState. While
// paused, incoming events are ignored but the struct keeps its content.
type Liveness int

const (
	NotPaused Liveness = iota
	Paused
)

func (l Liveness) IsPaused() bool { return l == Paused }

// State holds the editable line, the cursor's position in grapheme-segment
// space, and the bookkeeping needed to render and pause/resume correctly.
type State struct {
	Line           gcs.String
	CursorSegment  int
	CurrentColumn  int
	Prompt         string
	HistoryPos     *int
	IsPaused       Liveness
	PrintOnEnter   bool
	PrintOnCtrlC   bool
	ClusterBuffer  strings.Builder
	TermRows       int
	TermCols       int
	lastLineLength int
}

// NewState creates a State with an empty line and the given prompt and
// terminal size.
func NewState(prompt string, rows, cols int) *State {
	return &State{
		Line:         gcs.New(""),
		Prompt:       prompt,
		PrintOnEnter: true,
		TermRows:     rows,
		TermCols:     cols,
	}
}

func isWordChar(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// segmentRune returns the first rune of the segment at index i, for word
// classification. Segments are almost always single-rune for the ASCII
// word characters this classification cares about.
func (s *State) segmentRune(i int) rune {
	seg := s.Line.Get(i)
	text := s.Line.AsStr()[seg.StartByte:seg.EndByte()]
	for _, r := range text {
		return r
	}
	return 0
}

// findPrevWordStart scans left over non-word characters, then left over
// word characters, returning the start index of the word found.
func (s *State) findPrevWordStart(pos int) int {
	i := pos
	for i > 0 && !isWordChar(s.segmentRune(i-1)) {
		i--
	}
	for i > 0 && isWordChar(s.segmentRune(i-1)) {
		i--
	}
	return i
}

// findNextWordEnd scans right over non-word characters at pos, then right
// over word characters, returning the position just past the word.
func (s *State) findNextWordEnd(pos int) int {
	n := s.Line.SegmentCount()
	i := pos
	for i < n && !isWordChar(s.segmentRune(i)) {
		i++
	}
	for i < n && isWordChar(s.segmentRune(i)) {
		i++
	}
	return i
}

// recomputeColumn updates CurrentColumn from CursorSegment, matching the
// invariant current_column == width(prompt) + width(line[0:cursor]).
func (s *State) recomputeColumn() {
	s.CurrentColumn = gcs.StringWidth(s.Prompt) + s.Line.ColumnOf(s.CursorSegment)
}

// MoveCursor shifts the cursor by change segments, clamped to the line
// bounds, and recomputes CurrentColumn.
func (s *State) MoveCursor(change int) {
	if s.IsPaused.IsPaused() {
		return
	}
	n := s.CursorSegment + change
	if n < 0 {
		n = 0
	}
	if max := s.Line.SegmentCount(); n > max {
		n = max
	}
	s.CursorSegment = n
	s.recomputeColumn()
}

// MoveHome moves the cursor to the start of the line.
func (s *State) MoveHome() {
	if s.IsPaused.IsPaused() {
		return
	}
	s.CursorSegment = 0
	s.recomputeColumn()
}

// MoveEnd moves the cursor to the end of the line.
func (s *State) MoveEnd() {
	if s.IsPaused.IsPaused() {
		return
	}
	s.CursorSegment = s.Line.SegmentCount()
	s.recomputeColumn()
}

// MoveWordLeft moves the cursor to the start of the previous word.
func (s *State) MoveWordLeft() {
	if s.IsPaused.IsPaused() {
		return
	}
	s.CursorSegment = s.findPrevWordStart(s.CursorSegment)
	s.recomputeColumn()
}

// MoveWordRight moves the cursor past the end of the next word.
func (s *State) MoveWordRight() {
	if s.IsPaused.IsPaused() {
		return
	}
	s.CursorSegment = s.findNextWordEnd(s.CursorSegment)
	s.recomputeColumn()
}

// InsertSegment inserts the given text (assumed to be exactly one
// grapheme cluster) just before the cursor and advances past it.
func (s *State) InsertSegment(text string) {
	if s.IsPaused.IsPaused() {
		return
	}
	s.Line = s.Line.Insert(s.CursorSegment, text)
	s.CursorSegment++
	s.recomputeColumn()
}

// InsertRune feeds a single decoded rune through the cluster accumulator.
// Once the buffer contains more than one grapheme (meaning the first one
// can no longer absorb a combining codepoint), the completed leading
// cluster is inserted into the line and the remainder stays buffered.
func (s *State) InsertRune(r rune) {
	if s.IsPaused.IsPaused() {
		return
	}
	s.ClusterBuffer.WriteRune(r)
	buffered := gcs.New(s.ClusterBuffer.String())
	if buffered.SegmentCount() < 2 {
		return
	}
	first := buffered.Get(0)
	text := buffered.AsStr()
	completed := text[first.StartByte:first.EndByte()]
	rest := text[first.EndByte():]
	s.InsertSegment(completed)
	s.ClusterBuffer.Reset()
	s.ClusterBuffer.WriteString(rest)
}

// FlushClusterBuffer inserts whatever partial cluster remains buffered.
// Called before any operation that needs the line to be fully up to date
// (Enter, history navigation, explicit deletes).
func (s *State) FlushClusterBuffer() {
	if s.ClusterBuffer.Len() == 0 {
		return
	}
	text := s.ClusterBuffer.String()
	s.ClusterBuffer.Reset()
	if s.IsPaused.IsPaused() {
		return
	}
	s.InsertSegment(text)
}

// DeleteLeft removes the segment to the left of the cursor (Backspace).
func (s *State) DeleteLeft() {
	if s.IsPaused.IsPaused() {
		return
	}
	s.FlushClusterBuffer()
	if s.CursorSegment == 0 {
		return
	}
	s.Line = s.Line.Remove(s.CursorSegment-1, s.CursorSegment)
	s.CursorSegment--
	s.recomputeColumn()
}

// DeleteRight removes the segment at the cursor (Delete).
func (s *State) DeleteRight() {
	if s.IsPaused.IsPaused() {
		return
	}
	s.FlushClusterBuffer()
	if s.CursorSegment >= s.Line.SegmentCount() {
		return
	}
	s.Line = s.Line.Remove(s.CursorSegment, s.CursorSegment+1)
	s.recomputeColumn()
}

// DeleteToStart removes everything from the cursor back to column 0
// (Ctrl+U).
func (s *State) DeleteToStart() {
	if s.IsPaused.IsPaused() {
		return
	}
	s.FlushClusterBuffer()
	s.Line = s.Line.Remove(0, s.CursorSegment)
	s.CursorSegment = 0
	s.recomputeColumn()
}

// DeleteWordLeft removes the word to the left of the cursor (Ctrl+W,
// Alt+Backspace).
func (s *State) DeleteWordLeft() {
	if s.IsPaused.IsPaused() {
		return
	}
	s.FlushClusterBuffer()
	start := s.findPrevWordStart(s.CursorSegment)
	s.Line = s.Line.Remove(start, s.CursorSegment)
	s.CursorSegment = start
	s.recomputeColumn()
}

// DeleteWordRight removes the word at and after the cursor (Alt+D).
func (s *State) DeleteWordRight() {
	if s.IsPaused.IsPaused() {
		return
	}
	s.FlushClusterBuffer()
	end := s.findNextWordEnd(s.CursorSegment)
	s.Line = s.Line.Remove(s.CursorSegment, end)
	s.recomputeColumn()
}

// Clear resets the line to empty and the cursor to column 0, used after
// Enter and on Ctrl+C.
func (s *State) Clear() {
	s.ClusterBuffer.Reset()
	s.Line = gcs.New("")
	s.CursorSegment = 0
	s.recomputeColumn()
}

// SetText replaces the line wholesale (history navigation) and moves the
// cursor to the end.
func (s *State) SetText(text string) {
	s.ClusterBuffer.Reset()
	s.Line = gcs.New(text)
	s.CursorSegment = s.Line.SegmentCount()
	s.recomputeColumn()
}

// SetPaused toggles pause state. Callers that need the resume-render
// behavior should use Editor.SetPaused instead, which also re-renders.
func (s *State) SetPaused(p Liveness) { s.IsPaused = p }

// LineHeight returns how many terminal rows the given display column
// position wraps across, given the current terminal width.
func (s *State) LineHeight(col int) int {
	if s.TermCols <= 0 {
		return 0
	}
	return col / s.TermCols
}
