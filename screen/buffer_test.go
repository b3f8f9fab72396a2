package screen

import (
	"testing"

	"github.com/kagenti/tuicore/gcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBufferAllSpacer(t *testing.T) {
	b := New(Size{Rows: 3, Cols: 5})
	for r := 0; r < 3; r++ {
		for c := 0; c < 5; c++ {
			assert.Equal(t, KindSpacer, b.Cell(r, c).Kind)
		}
	}
	assert.Equal(t, Position{}, b.Cursor())
}

func TestPaintTextAdvancesCursorAndWritesCells(t *testing.T) {
	b := New(Size{Rows: 2, Cols: 10})
	pos, err := b.PaintText(gcs.New("abc"), Style{}, 0)
	require.NoError(t, err)
	assert.Equal(t, Position{Row: 0, Col: 3}, pos)
	assert.Equal(t, 'a', b.Cell(0, 0).Char)
	assert.Equal(t, 'c', b.Cell(0, 2).Char)
}

func TestPaintTextWideCharacterOwnsVoid(t *testing.T) {
	b := New(Size{Rows: 1, Cols: 10})
	b.SetCursor(Position{Row: 0, Col: 0})
	_, err := b.PaintText(gcs.New("中"), Style{}, 0)
	require.NoError(t, err)
	assert.Equal(t, KindPlainText, b.Cell(0, 0).Kind)
	assert.Equal(t, KindVoid, b.Cell(0, 1).Kind)
}

func TestPaintTextStopsBeforeSplittingWideCharacter(t *testing.T) {
	b := New(Size{Rows: 1, Cols: 10})
	b.SetCursor(Position{Row: 0, Col: 9})
	pos, err := b.PaintText(gcs.New("中"), Style{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 9, pos.Col)
	assert.Equal(t, KindSpacer, b.Cell(0, 9).Kind)
}

func TestPaintTextOutsideWindowErrors(t *testing.T) {
	b := New(Size{Rows: 2, Cols: 5})
	b.cursor = Position{Row: 5, Col: 0} // SetCursor would clamp the row into range
	_, err := b.PaintText(gcs.New("x"), Style{}, 0)
	assert.ErrorIs(t, err, ErrDisplaySizeTooSmall)
}

func TestScrollUpWithinRegion(t *testing.T) {
	b := New(Size{Rows: 5, Cols: 3})
	for r := 0; r < 5; r++ {
		b.SetCursor(Position{Row: r, Col: 0})
		b.PaintText(gcs.New(string(rune('A'+r))), Style{}, 0)
	}
	b.SetScrollRegion(Region{Top: 1, Bottom: 3})
	b.ScrollUp(1)

	assert.Equal(t, 'A', b.Cell(0, 0).Char, "outside region untouched")
	assert.Equal(t, 'C', b.Cell(1, 0).Char)
	assert.Equal(t, 'D', b.Cell(2, 0).Char)
	assert.Equal(t, KindSpacer, b.Cell(3, 0).Kind)
	assert.Equal(t, 'E', b.Cell(4, 0).Char, "outside region untouched")
}

func TestScrollDownWithinRegion(t *testing.T) {
	b := New(Size{Rows: 5, Cols: 3})
	for r := 0; r < 5; r++ {
		b.SetCursor(Position{Row: r, Col: 0})
		b.PaintText(gcs.New(string(rune('A'+r))), Style{}, 0)
	}
	b.SetScrollRegion(Region{Top: 1, Bottom: 3})
	b.ScrollDown(1)

	assert.Equal(t, 'A', b.Cell(0, 0).Char)
	assert.Equal(t, KindSpacer, b.Cell(1, 0).Kind)
	assert.Equal(t, 'B', b.Cell(2, 0).Char)
	assert.Equal(t, 'C', b.Cell(3, 0).Char)
	assert.Equal(t, 'E', b.Cell(4, 0).Char)
}

func TestSetScrollRegionRejectsInvalid(t *testing.T) {
	b := New(Size{Rows: 5, Cols: 3})
	b.SetScrollRegion(Region{Top: 3, Bottom: 1})
	assert.Nil(t, b.ScrollRegion())

	b.SetScrollRegion(Region{Top: 1, Bottom: 3})
	require.NotNil(t, b.ScrollRegion())
	assert.Equal(t, Region{Top: 1, Bottom: 3}, *b.ScrollRegion())
}

func TestDiffReportsOnlyDirtyCells(t *testing.T) {
	b := New(Size{Rows: 2, Cols: 2})
	b.ClearDirty()
	assert.False(t, b.HasDirty())

	b.SetCursor(Position{Row: 0, Col: 0})
	b.PaintText(gcs.New("x"), Style{}, 0)

	changes := b.Diff(nil)
	require.Len(t, changes, 1)
	assert.Equal(t, 0, changes[0].Row)
	assert.Equal(t, 0, changes[0].Col)

	b.ClearDirty()
	assert.False(t, b.HasDirty())
}

func TestInsertAndDeleteLines(t *testing.T) {
	b := New(Size{Rows: 4, Cols: 2})
	for r := 0; r < 4; r++ {
		b.SetCursor(Position{Row: r, Col: 0})
		b.PaintText(gcs.New(string(rune('A'+r))), Style{}, 0)
	}
	b.InsertLines(1, 1, 3)
	assert.Equal(t, 'A', b.Cell(0, 0).Char)
	assert.Equal(t, KindSpacer, b.Cell(1, 0).Kind)
	assert.Equal(t, 'B', b.Cell(2, 0).Char)
	assert.Equal(t, 'C', b.Cell(3, 0).Char)

	b.DeleteLines(1, 1, 3)
	assert.Equal(t, 'A', b.Cell(0, 0).Char)
	assert.Equal(t, 'B', b.Cell(1, 0).Char)
	assert.Equal(t, 'C', b.Cell(2, 0).Char)
	assert.Equal(t, KindSpacer, b.Cell(3, 0).Kind)
}

func TestInsertAndDeleteChars(t *testing.T) {
	b := New(Size{Rows: 1, Cols: 5})
	b.SetCursor(Position{Row: 0, Col: 0})
	b.PaintText(gcs.New("abc"), Style{}, 0)

	b.InsertBlanks(0, 1, 1)
	assert.Equal(t, 'a', b.Cell(0, 0).Char)
	assert.Equal(t, KindSpacer, b.Cell(0, 1).Kind)
	assert.Equal(t, 'b', b.Cell(0, 2).Char)
	assert.Equal(t, 'c', b.Cell(0, 3).Char)

	b.DeleteChars(0, 1, 1)
	assert.Equal(t, 'a', b.Cell(0, 0).Char)
	assert.Equal(t, 'b', b.Cell(0, 1).Char)
	assert.Equal(t, 'c', b.Cell(0, 2).Char)
}

func TestResizeGrowPreservesContentAndShrinkClips(t *testing.T) {
	b := New(Size{Rows: 2, Cols: 2})
	b.PaintText(gcs.New("a"), Style{}, 0)

	b.Resize(Size{Rows: 3, Cols: 3})
	assert.Equal(t, 'a', b.Cell(0, 0).Char)
	assert.Equal(t, KindSpacer, b.Cell(2, 2).Kind)

	b.Resize(Size{Rows: 1, Cols: 1})
	assert.Equal(t, 'a', b.Cell(0, 0).Char)
	assert.Equal(t, Size{Rows: 1, Cols: 1}, b.Size())
}

func TestSaveRestoreCursor(t *testing.T) {
	b := New(Size{Rows: 5, Cols: 5})
	b.SetCursor(Position{Row: 2, Col: 2})
	b.SetCurrentStyle(Style{Attrs: AttrBold})
	b.SaveCursor()

	b.SetCursor(Position{Row: 0, Col: 0})
	b.SetCurrentStyle(Style{})
	b.RestoreCursor()

	assert.Equal(t, Position{Row: 2, Col: 2}, b.Cursor())
	assert.True(t, b.CurrentStyle().Attrs.Has(AttrBold))
}

func TestModesToggle(t *testing.T) {
	b := New(Size{Rows: 1, Cols: 1})
	assert.True(t, b.HasMode(ModeAutoWrap))
	b.SetMode(ModeAutoWrap, false)
	assert.False(t, b.HasMode(ModeAutoWrap))
}
