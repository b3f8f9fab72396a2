// Package gcs provides an immutable, grapheme-cluster-aware string type.
//
// Higher layers of the terminal runtime (the offscreen buffer, the VT100
// parser, the line editor) all need to reason about text in terms of
// display columns rather than byte offsets or rune counts, because a
// single user-perceived character can span multiple UTF-8 bytes and
// multiple Unicode codepoints, and can occupy zero, one, or two terminal
// columns. String bridges that gap: built once from a string, it never
// mutates in place.
package gcs

import (
	"github.com/rivo/uniseg"
	"github.com/unilibs/uniwidth"
)

// Segment describes one grapheme cluster within a String.
type Segment struct {
	// StartByte is the byte offset where the cluster begins.
	StartByte int
	// ByteLen is the number of bytes the cluster occupies.
	ByteLen int
	// Index is the segment's position among all segments of the String.
	Index int
	// Width is the cluster's display width: 0, 1, or 2 columns.
	Width int
}

// EndByte returns the byte offset one past the end of the segment.
func (s Segment) EndByte() int { return s.StartByte + s.ByteLen }

// String is an immutable UTF-8 string paired with a precomputed table of
// grapheme cluster segments. Construction performs one pass over the
// input; every other operation is a lookup or slice over that table.
type String struct {
	raw      string
	segments []Segment
	width    int
}

// New segments s into grapheme clusters and computes the display width of
// each one. The zero value is not meaningful; always use New.
func New(s string) String {
	segs := make([]Segment, 0, len(s))
	gr := uniseg.NewGraphemes(s)

	idx := 0
	total := 0
	for gr.Next() {
		start, end := gr.Positions()
		cluster := s[start:end]
		w := clusterWidth(cluster)
		segs = append(segs, Segment{
			StartByte: start,
			ByteLen:   end - start,
			Index:     idx,
			Width:     w,
		})
		total += w
		idx++
	}

	return String{raw: s, segments: segs, width: total}
}

// clusterWidth computes the display width of a single grapheme cluster.
// Multi-rune clusters (e.g. emoji ZWJ sequences) take the width of their
// widest constituent rune, which matches how terminals actually render
// them: the whole cluster occupies the max width of its parts, never the
// sum.
func clusterWidth(cluster string) int {
	w := 0
	for _, r := range cluster {
		if rw := uniwidth.RuneWidth(r); rw > w {
			w = rw
		}
	}
	return w
}

// AsStr returns the original string the value was built from, byte for
// byte.
func (s String) AsStr() string { return s.raw }

// SegmentCount returns the number of grapheme clusters.
func (s String) SegmentCount() int { return len(s.segments) }

// Width returns the total display width in columns.
func (s String) Width() int { return s.width }

// Get returns the segment at the given index. It panics if the index is
// out of range, matching slice-indexing semantics used elsewhere in this
// codebase for the same reason: passing a segment index outside
// [0, SegmentCount) is a caller bug, not a recoverable runtime condition.
func (s String) Get(index int) Segment {
	return s.segments[index]
}

// Segments returns the segment table in order. The caller must not mutate
// the returned slice.
func (s String) Segments() []Segment {
	return s.segments
}

// IsEmpty reports whether the string has zero segments.
func (s String) IsEmpty() bool { return len(s.segments) == 0 }

// Clip returns the byte slice of the string whose display columns cover
// [startCol, startCol+widthCols). The range is snapped inward to segment
// boundaries: a segment that only partially overlaps the requested range
// at either edge is excluded entirely, so callers never see a sliced
// wide character. Requesting a start at or past the string's width
// yields an empty slice.
func (s String) Clip(startCol, widthCols int) string {
	if widthCols <= 0 || startCol >= s.width {
		return ""
	}
	endCol := startCol + widthCols

	col := 0
	startByte := -1
	endByte := len(s.raw)

	for _, seg := range s.segments {
		segStart := col
		segEnd := col + seg.Width

		if startByte == -1 {
			if segStart >= startCol {
				startByte = seg.StartByte
			} else if segEnd > startCol {
				// startCol falls inside this (necessarily wide) segment:
				// exclude it, start at the next one.
				startByte = seg.EndByte()
			}
		}

		if startByte != -1 && segEnd > endCol {
			// The range ends inside this segment: exclude it too.
			endByte = seg.StartByte
			break
		}

		col = segEnd
	}

	if startByte == -1 {
		return ""
	}
	if endByte < startByte {
		endByte = startByte
	}
	return s.raw[startByte:endByte]
}

// ColumnOf returns the display column at which the segment with the given
// index begins. ColumnOf(SegmentCount()) returns the string's total
// width, matching the convention that a cursor may sit one past the last
// segment.
func (s String) ColumnOf(index int) int {
	col := 0
	for i := 0; i < index && i < len(s.segments); i++ {
		col += s.segments[i].Width
	}
	return col
}

// SegmentAtColumn returns the index of the segment occupying the given
// display column, and whether one was found (false past the end of the
// string).
func (s String) SegmentAtColumn(col int) (int, bool) {
	c := 0
	for _, seg := range s.segments {
		if col >= c && col < c+seg.Width {
			return seg.Index, true
		}
		c += seg.Width
	}
	return 0, false
}

// Slice returns the byte range [Get(start).StartByte, Get(end).StartByte)
// as a string, i.e. the substring spanning segments [start, end). end may
// equal SegmentCount() to reach the end of the string.
func (s String) Slice(start, end int) string {
	if start >= end {
		return ""
	}
	startByte := len(s.raw)
	if start < len(s.segments) {
		startByte = s.segments[start].StartByte
	}
	endByte := len(s.raw)
	if end < len(s.segments) {
		endByte = s.segments[end].StartByte
	}
	return s.raw[startByte:endByte]
}

// Insert returns a new String with text inserted just before the segment
// at index (index may equal SegmentCount() to append).
func (s String) Insert(index int, text string) String {
	byteOff := len(s.raw)
	if index < len(s.segments) {
		byteOff = s.segments[index].StartByte
	}
	return New(s.raw[:byteOff] + text + s.raw[byteOff:])
}

// Remove returns a new String with the segments in [start, end) deleted.
func (s String) Remove(start, end int) String {
	return New(s.Slice(0, start) + s.Slice(end, len(s.segments)))
}

// StringWidth returns the total display width of an arbitrary string
// without building a full segment table, for callers (e.g. prompt width
// accounting) that only need the aggregate.
func StringWidth(s string) int {
	total := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		total += clusterWidth(gr.Str())
	}
	return total
}
