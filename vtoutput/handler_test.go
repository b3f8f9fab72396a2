package vtoutput

import (
	"testing"

	"github.com/danielgatis/go-ansicode"
	"github.com/kagenti/tuicore/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputAdvancesCursorAndWritesCell(t *testing.T) {
	h := New(5, 10)
	h.Input('a')
	cur := h.Buffer().Cursor()
	assert.Equal(t, 1, cur.Col)
	assert.Equal(t, 'a', h.Buffer().Cell(0, 0).Char)
}

func TestAutoWrapMovesToNextLine(t *testing.T) {
	h := New(3, 3)
	h.Input('a')
	h.Input('b')
	h.Input('c')
	h.Input('d')

	assert.Equal(t, 'd', h.Buffer().Cell(1, 0).Char)
	cur := h.Buffer().Cursor()
	assert.Equal(t, 1, cur.Row)
	assert.Equal(t, 1, cur.Col)
}

func TestAutoWrapOffClampsAtLastColumn(t *testing.T) {
	h := New(3, 3)
	h.UnsetMode(ansicode.TerminalModeLineWrap)

	h.Input('a')
	h.Input('b')
	h.Input('c')
	h.Input('d')

	assert.Equal(t, 'd', h.Buffer().Cell(0, 2).Char, "overflow overwrites the last column")
	cur := h.Buffer().Cursor()
	assert.Equal(t, 0, cur.Row)
	assert.Equal(t, 2, cur.Col)
}

func TestScrollingRegionConfinesLineFeedScroll(t *testing.T) {
	h := New(5, 3)
	for r := 0; r < 5; r++ {
		h.Goto(r, 0)
		h.Input(rune('A' + r))
	}

	h.SetScrollingRegion(2, 4) // 1-based: rows 1..3 (0-based)
	h.Goto(3, 0)
	h.LineFeed()

	assert.Equal(t, 'A', h.Buffer().Cell(0, 0).Char, "row outside region untouched")
	assert.Equal(t, 'C', h.Buffer().Cell(1, 0).Char)
	assert.Equal(t, 'D', h.Buffer().Cell(2, 0).Char)
	assert.Equal(t, screen.KindSpacer, h.Buffer().Cell(3, 0).Kind)
	assert.Equal(t, 'E', h.Buffer().Cell(4, 0).Char, "row outside region untouched")
}

func TestAlternateScreenSwapPreservesPrimaryContent(t *testing.T) {
	h := New(2, 2)
	h.Input('x')

	h.SetMode(ansicode.TerminalModeSwapScreenAndSetRestoreCursor)
	assert.True(t, h.IsAlternateScreen())
	assert.Equal(t, screen.KindSpacer, h.Buffer().Cell(0, 0).Kind)

	h.UnsetMode(ansicode.TerminalModeSwapScreenAndSetRestoreCursor)
	assert.False(t, h.IsAlternateScreen())
	assert.Equal(t, 'x', h.Buffer().Cell(0, 0).Char)
}

func TestSGRBoldSetsAttribute(t *testing.T) {
	h := New(2, 5)
	h.SetTerminalCharAttribute(ansicode.TerminalCharAttribute{Attr: ansicode.CharAttributeBold})
	h.Input('a')
	assert.True(t, h.Buffer().Cell(0, 0).Style.Attrs.Has(screen.AttrBold))
}

func TestSGRResetClearsAttributes(t *testing.T) {
	h := New(2, 5)
	h.SetTerminalCharAttribute(ansicode.TerminalCharAttribute{Attr: ansicode.CharAttributeBold})
	h.SetTerminalCharAttribute(ansicode.TerminalCharAttribute{Attr: ansicode.CharAttributeReset})
	h.Input('a')
	assert.False(t, h.Buffer().Cell(0, 0).Style.Attrs.Has(screen.AttrBold))
}

func TestDeviceStatusCursorPositionReport(t *testing.T) {
	var buf fakeWriter
	h := New(5, 5, WithResponseWriter(&buf))
	h.Goto(2, 3)
	h.DeviceStatus(6)
	require.Equal(t, "\x1b[3;4R", buf.String())
}

type fakeWriter struct{ data []byte }

func (w *fakeWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *fakeWriter) String() string { return string(w.data) }
