package vtcore

import (
	"github.com/rivo/uniseg"
	"github.com/unilibs/uniwidth"
)

// runeWidth returns the display width: 2 for wide characters (CJK, emoji),
// 1 for normal, 0 for zero-width (combining marks, control chars).
func runeWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// isCombining returns true for codepoints that attach to the preceding
// grapheme cluster rather than occupying their own cell.
func isCombining(r rune) bool {
	if uniwidth.RuneWidth(r) != 0 {
		return false
	}
	// Zero-width but cluster-breaking codepoints (e.g. control pictures)
	// are not combining; ask the grapheme segmenter.
	return uniseg.GraphemeClusterCount("a"+string(r)) == 1
}

// StringWidth returns the total display width of a string.
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}
