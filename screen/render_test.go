package screen

import (
	"testing"

	"github.com/kagenti/tuicore/gcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesExpectedPixelBounds(t *testing.T) {
	b := New(Size{Rows: 2, Cols: 4})
	b.PaintText(gcs.New("hi"), Style{}, 0)

	img := Render(b, RenderConfig{})
	require.NotNil(t, img)
	assert.Equal(t, 4*7, img.Bounds().Dx())
	assert.Equal(t, 2*13, img.Bounds().Dy())
}

func TestRenderSkipsVoidCells(t *testing.T) {
	b := New(Size{Rows: 1, Cols: 4})
	b.PaintText(gcs.New("中"), Style{}, 0)
	// Must not panic on the Void cell at column 1.
	assert.NotPanics(t, func() { Render(b, RenderConfig{}) })
}
