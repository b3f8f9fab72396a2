package lineeditor

import (
	"bytes"
	"testing"

	"github.com/kagenti/tuicore/vtinput"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyRune(r rune, mods vtinput.Modifiers) vtinput.InputEvent {
	return vtinput.InputEvent{Kind: vtinput.EventKey, Key: vtinput.KeyEvent{Rune: r, Modifiers: mods}}
}

func keyNamed(k vtinput.Key, mods vtinput.Modifiers) vtinput.InputEvent {
	return vtinput.InputEvent{Kind: vtinput.EventKey, Key: vtinput.KeyEvent{Key: k, Modifiers: mods}}
}

func TestTypingInsertsAndAdvancesCursor(t *testing.T) {
	e := New("> ", 24, 80)
	for _, r := range "hi" {
		e.Apply(keyRune(r, 0))
	}
	// The last rune stays in ClusterBuffer until a following rune
	// closes its grapheme cluster.
	assert.Equal(t, "h", e.State.Line.AsStr())
	assert.Equal(t, 1, e.State.CursorSegment)
	assert.Equal(t, "i", e.State.ClusterBuffer.String())
}

func TestBackspaceDeletesLeft(t *testing.T) {
	e := New("> ", 24, 80)
	for _, r := range "hi" {
		e.Apply(keyRune(r, 0))
	}
	e.Apply(keyNamed(vtinput.KeyBackspace, 0))
	assert.Equal(t, "h", e.State.Line.AsStr())
	assert.Equal(t, 1, e.State.CursorSegment)
}

func TestEnterEmitsLineAndClears(t *testing.T) {
	e := New("> ", 24, 80)
	for _, r := range "go" {
		e.Apply(keyRune(r, 0))
	}
	res := e.Apply(keyNamed(vtinput.KeyEnter, 0))
	assert.Equal(t, SignalLine, res.Signal)
	assert.Equal(t, "go", res.Line)
	assert.Equal(t, "", e.State.Line.AsStr())
	assert.Equal(t, 0, e.State.CursorSegment)
}

func TestCtrlDOnEmptyLineEmitsEof(t *testing.T) {
	e := New("> ", 24, 80)
	res := e.Apply(keyRune('d', vtinput.ModCtrl))
	assert.Equal(t, SignalEof, res.Signal)
}

func TestCtrlDOnNonEmptyLineDeletesForward(t *testing.T) {
	e := New("> ", 24, 80)
	for _, r := range "hi" {
		e.Apply(keyRune(r, 0))
	}
	e.State.MoveHome()
	res := e.Apply(keyRune('d', vtinput.ModCtrl))
	assert.Equal(t, SignalNone, res.Signal)
	assert.Equal(t, "i", e.State.Line.AsStr())
}

func TestCtrlCInterruptsAndClears(t *testing.T) {
	e := New("> ", 24, 80)
	for _, r := range "hi" {
		e.Apply(keyRune(r, 0))
	}
	res := e.Apply(keyRune('c', vtinput.ModCtrl))
	assert.Equal(t, SignalInterrupted, res.Signal)
	assert.Equal(t, "", e.State.Line.AsStr())
}

func TestCtrlWDeletesWordLeft(t *testing.T) {
	e := New("> ", 24, 80)
	for _, r := range "foo bar" {
		e.Apply(keyRune(r, 0))
	}
	e.Apply(keyRune('w', vtinput.ModCtrl))
	assert.Equal(t, "foo ", e.State.Line.AsStr())
}

func TestCtrlLeftMovesByWord(t *testing.T) {
	e := New("> ", 24, 80)
	for _, r := range "foo bar" {
		e.Apply(keyRune(r, 0))
	}
	e.Apply(keyNamed(vtinput.KeyLeft, vtinput.ModCtrl))
	assert.Equal(t, 4, e.State.CursorSegment, "cursor should land at start of \"bar\"")
}

func TestAltBAltFMoveByWord(t *testing.T) {
	e := New("> ", 24, 80)
	for _, r := range "foo bar" {
		e.Apply(keyRune(r, 0))
	}
	// The final 'r' is still buffered, so the line holds "foo ba".
	e.Apply(keyRune('b', vtinput.ModAlt))
	assert.Equal(t, 4, e.State.CursorSegment)
	e.Apply(keyRune('f', vtinput.ModAlt))
	assert.Equal(t, 6, e.State.CursorSegment)
}

func TestHistoryUpDownRestoresInProgressLine(t *testing.T) {
	e := New("> ", 24, 80)
	hist := NewSliceHistory()
	hist.Push("first")
	hist.Push("second")
	e.History = hist

	for _, r := range "wip" {
		e.Apply(keyRune(r, 0))
	}
	e.Apply(keyNamed(vtinput.KeyUp, 0))
	assert.Equal(t, "second", e.State.Line.AsStr())
	e.Apply(keyNamed(vtinput.KeyUp, 0))
	assert.Equal(t, "first", e.State.Line.AsStr())
	e.Apply(keyNamed(vtinput.KeyDown, 0))
	assert.Equal(t, "second", e.State.Line.AsStr())
	e.Apply(keyNamed(vtinput.KeyDown, 0))
	assert.Equal(t, "wip", e.State.Line.AsStr())
}

func TestPauseIgnoresEvents(t *testing.T) {
	e := New("> ", 24, 80)
	e.State.SetPaused(Paused)
	e.Apply(keyRune('x', 0))
	assert.Equal(t, "", e.State.Line.AsStr())
}

func TestBracketedPasteInsertsText(t *testing.T) {
	e := New("> ", 24, 80)
	e.Apply(vtinput.InputEvent{Kind: vtinput.EventPaste, Paste: vtinput.PasteEvent{Text: "pasted"}})
	assert.Equal(t, "pasted", e.State.Line.AsStr())
}

func TestRenderWritesPromptAndLine(t *testing.T) {
	e := New("> ", 24, 80)
	for _, r := range "hi" {
		e.Apply(keyRune(r, 0))
	}
	// 'i' is still buffered in ClusterBuffer; Render shows the line only.
	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf))
	assert.Contains(t, buf.String(), "> h")
}

func TestCombiningGraphemeClusterAccumulatesBeforeInsert(t *testing.T) {
	e := New("", 24, 80)
	// U+0065 'e' followed by U+0301 combining acute accent forms one
	// grapheme cluster; only a subsequent, non-combining rune reveals
	// that the cluster is complete.
	e.State.InsertRune('e')
	e.State.InsertRune('́')
	assert.Equal(t, 0, e.State.Line.SegmentCount(), "cluster still buffered")
	e.State.InsertRune('x')
	assert.Equal(t, 1, e.State.Line.SegmentCount())
	assert.Equal(t, "é", e.State.Line.AsStr())
}
