package overlap

import (
	"strings"
)

// punctuation is the fixed set of characters removed by Normalize.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var punctTable = func() (t [128]bool) {
	for i := 0; i < len(punctuation); i++ {
		t[punctuation[i]] = true
	}
	return t
}()

// IsPunct reports whether r is one of the characters Normalize strips.
func IsPunct(r rune) bool {
	return r >= 0 && r < 128 && punctTable[r]
}

func isPunctByte(b byte) bool {
	return b < 128 && punctTable[b]
}

// Normalize lowercases s, removes punctuation, collapses whitespace runs
// (tabs and newlines included) into single spaces and trims the result.
// Query and candidate sentences must both go through this function.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if IsPunct(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeAll applies Normalize to every sentence.
func NormalizeAll(sentences []string) []string {
	out := make([]string, len(sentences))
	for i, s := range sentences {
		out[i] = Normalize(s)
	}
	return out
}
