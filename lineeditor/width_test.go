package lineeditor

import "testing"

func TestMeasureRowsSingleShortLine(t *testing.T) {
	if got := MeasureRows([]byte("hello"), 80); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
}

func TestMeasureRowsWrapsAtWidth(t *testing.T) {
	data := make([]byte, 90)
	for i := range data {
		data[i] = 'x'
	}
	if got := MeasureRows(data, 80); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}

func TestMeasureRowsCountsBlankLines(t *testing.T) {
	if got := MeasureRows([]byte("a\n\nb"), 80); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
}

func TestMeasureRowsEmptyIsZero(t *testing.T) {
	if got := MeasureRows(nil, 80); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}
