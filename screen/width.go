package screen

import "github.com/unilibs/uniwidth"

// RuneWidth returns the display width of a single rune: 0 for combining
// marks and most control characters, 1 for ordinary characters, 2 for
// wide CJK/emoji characters.
func RuneWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}
