package similarity

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// Ratio computes a sequence similarity in [0, 1] between two names using the
// total length of longest-matching blocks: 2*M/(len(a)+len(b)) where M is the
// number of characters covered by recursively located common substrings.
// Empty input on either side yields 0.
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	matched := matchingBlockLength(ra, rb)
	return 2 * float64(matched) / float64(len(ra)+len(rb))
}

// Containment scores how fully the shorter name is covered by matching
// blocks of the longer one: M/min(len(a), len(b)). A wrapper named "Foo"
// around a child "Foo_v2" scores 1.0 even though the balanced ratio
// penalizes the unmatched suffix.
func Containment(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	matched := matchingBlockLength(ra, rb)
	short := len(ra)
	if len(rb) < short {
		short = len(rb)
	}
	return float64(matched) / float64(short)
}

// matchingBlockLength returns the total number of runes covered by matching
// blocks: the longest common substring is located, then the regions to its
// left and right are matched recursively.
func matchingBlockLength(a, b []rune) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingBlockLength(a[:ai], b[:bi])
	total += matchingBlockLength(a[ai+size:], b[bi+size:])
	return total
}

// longestCommonBlock finds the longest common substring of a and b, returning
// its start offsets and length. Ties resolve to the earliest position in a,
// then in b, which keeps results deterministic.
func longestCommonBlock(a, b []rune) (int, int, int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	bestA, bestB, bestSize := 0, 0, 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > bestSize {
					bestSize = cur[j]
					bestA = i - bestSize
					bestB = j - bestSize
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return bestA, bestB, bestSize
}

// Normalize prepares a name for comparison: the extension is stripped when
// the string looks like a filename, whitespace is trimmed, and Unicode case
// folding is applied so comparisons are case-insensitive.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if looksLikeFilename(name) {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return foldCaser.String(name)
}

// looksLikeFilename reports whether name carries a short alphanumeric
// extension. Names like "Movie (2020)" or "v1.2.3" are not filenames.
func looksLikeFilename(name string) bool {
	ext := filepath.Ext(name)
	if len(ext) < 2 || len(ext) > 6 {
		return false
	}
	for _, r := range ext[1:] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	// Purely numeric "extensions" are usually version fragments.
	for _, r := range ext[1:] {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
