// Package match provides the string-similarity and date-parsing helpers
// shared by all evidence-matching logic.
package match

import "strings"

// Ratio returns a case-insensitive Ratcliff/Obershelp sequence similarity in
// [0,1]. It is symmetric, returns 1.0 only for strings equal under case
// folding, and treats empty input as the empty string: Ratio("", "") == 1.0.
func Ratio(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matched := matchingChars(ra, rb)
	return 2.0 * float64(matched) / float64(total)
}

// matchingChars counts matched characters the way difflib does: find the
// longest common substring, then recurse into the unmatched flanks.
func matchingChars(a, b []rune) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	n := size
	n += matchingChars(a[:ai], b[:bi])
	n += matchingChars(a[ai+size:], b[bi+size:])
	return n
}

// longestCommonBlock returns the start offsets and length of the longest
// common substring of a and b. Ties resolve to the earliest block in a, then
// in b, matching the reference SequenceMatcher behavior.
func longestCommonBlock(a, b []rune) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	// j2len[j] is the length of the common suffix ending at a[i-1]/b[j-1].
	j2len := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		// Walk b backwards so j2len can be updated in place.
		for j := len(b); j >= 1; j-- {
			if a[i-1] == b[j-1] {
				k := j2len[j-1] + 1
				j2len[j] = k
				if k > size {
					ai, bi, size = i-k, j-k, k
				}
			} else {
				j2len[j] = 0
			}
		}
	}
	return ai, bi, size
}

// WordOverlap returns the Jaccard overlap of the lowercase word sets of a and
// b in [0,1]. Used for securities-filer title matching, where word-level
// agreement tolerates reordering ("Amazon Com Inc" vs "amazon").
func WordOverlap(a, b string) float64 {
	wa := wordSet(a)
	wb := wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	inter := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			inter++
		}
	}
	union := len(wa) + len(wb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		out[w] = struct{}{}
	}
	return out
}
