package lineeditor

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// MeasureRows estimates how many terminal rows a chunk of externally
// produced output (e.g. PTY bytes forwarded through PrintData) will
// occupy at the given terminal width. Unlike the editor's own line
// buffer, this data is not guaranteed to be a single grapheme-clustered
// gcs.String — it may be raw bytes from a concurrent writer — so a
// best-effort per-rune width estimate via go-runewidth is enough; exact
// cluster accounting is unnecessary for a row count used only for
// scrollback bookkeeping by the host.
func MeasureRows(data []byte, cols int) int {
	if len(data) == 0 {
		return 0
	}
	if cols <= 0 {
		cols = 1
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	rows := 0
	for _, line := range lines {
		w := runewidth.StringWidth(line)
		rows += (w + cols - 1) / cols
		if w == 0 {
			rows++
		}
	}
	return rows
}
