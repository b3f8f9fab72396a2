package gcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"hello",
		"héllo",
		"日本語",
		"a👨‍👩‍👧b",
	}

	for _, s := range cases {
		g := New(s)
		assert.Equal(t, s, g.AsStr())

		sum := 0
		for _, seg := range g.Segments() {
			sum += seg.Width
		}
		assert.Equal(t, g.Width(), sum)
	}
}

func TestWidthWideAndCombining(t *testing.T) {
	g := New("中")
	require.Equal(t, 1, g.SegmentCount())
	assert.Equal(t, 2, g.Width())

	g = New("é") // e + combining acute accent, single grapheme cluster
	require.Equal(t, 1, g.SegmentCount())
	assert.Equal(t, 1, g.Width())
}

func TestClipSnapsInwardAroundWideSegments(t *testing.T) {
	g := New("中abc")
	require.Equal(t, 4, g.SegmentCount())
	require.Equal(t, 5, g.Width()) // 中=2, a/b/c=1 each

	// Start at column 1 falls inside the wide segment [0,2): excluded.
	assert.Equal(t, "abc", g.Clip(1, 4))

	// Range ends inside the wide segment: excluded from the result.
	g2 := New("a中b")
	assert.Equal(t, "a", g2.Clip(0, 2))

	// Start past the string's width: empty.
	assert.Equal(t, "", g.Clip(100, 5))
}

func TestClipEmptyWidth(t *testing.T) {
	g := New("abc")
	assert.Equal(t, "", g.Clip(0, 0))
}

func TestColumnOfAndSegmentAtColumn(t *testing.T) {
	g := New("中abc")
	assert.Equal(t, 0, g.ColumnOf(0))
	assert.Equal(t, 2, g.ColumnOf(1))
	assert.Equal(t, 5, g.ColumnOf(g.SegmentCount()))

	idx, ok := g.SegmentAtColumn(0)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = g.SegmentAtColumn(1) // inside the wide cell
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = g.SegmentAtColumn(2)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = g.SegmentAtColumn(100)
	assert.False(t, ok)
}

func TestInsertAndRemove(t *testing.T) {
	g := New("abc")
	g2 := g.Insert(1, "X")
	assert.Equal(t, "aXbc", g2.AsStr())

	g3 := g2.Remove(1, 2)
	assert.Equal(t, "abc", g3.AsStr())
}

func TestSliceToEnd(t *testing.T) {
	g := New("abcdef")
	assert.Equal(t, "cdef", g.Slice(2, g.SegmentCount()))
	assert.Equal(t, "", g.Slice(3, 3))
}

func TestStringWidthHelper(t *testing.T) {
	assert.Equal(t, 0, StringWidth(""))
	assert.Equal(t, 5, StringWidth("中abc"))
}
