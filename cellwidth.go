package teletype

import "github.com/unilibs/uniwidth"

// runeWidth returns the terminal display width of r: 2 for wide runes (CJK
// ideographs, fullwidth forms, most emoji), 1 for normal runes, 0 for
// zero-width runes (combining marks, most control characters). The bare
// character write algorithm uses this to decide how far to advance
// the cursor and whether to mark a wide-char spacer cell.
func runeWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// isWideRune reports whether r occupies two display columns.
func isWideRune(r rune) bool {
	return uniwidth.RuneWidth(r) == 2
}
