package overlap

import "strings"

// PhraseWidth is the number of contiguous words in a phrase.
const PhraseWidth = 3

// Phrases returns the contiguous PhraseWidth-word phrases of a normalised
// sentence in order of appearance. Sentences shorter than PhraseWidth words
// have no phrases.
func Phrases(normalized string) []string {
	words := strings.Fields(normalized)
	if len(words) < PhraseWidth {
		return nil
	}
	out := make([]string, 0, len(words)-PhraseWidth+1)
	for i := 0; i+PhraseWidth <= len(words); i++ {
		out = append(out, strings.Join(words[i:i+PhraseWidth], " "))
	}
	return out
}

// Vocabulary is a bidirectional mapping between phrases and feature indices.
// Indices are dense, starting at zero.
type Vocabulary struct {
	index   map[string]int
	phrases []string
}

// NewVocabulary creates an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{index: make(map[string]int)}
}

// Add registers phrase and returns its index. Adding a known phrase returns
// the existing index.
func (v *Vocabulary) Add(phrase string) int {
	if i, ok := v.index[phrase]; ok {
		return i
	}
	i := len(v.phrases)
	v.index[phrase] = i
	v.phrases = append(v.phrases, phrase)
	return i
}

// Index returns the feature index of phrase.
func (v *Vocabulary) Index(phrase string) (int, bool) {
	i, ok := v.index[phrase]
	return i, ok
}

// Phrase returns the phrase at feature index i.
func (v *Vocabulary) Phrase(i int) (string, bool) {
	if i < 0 || i >= len(v.phrases) {
		return "", false
	}
	return v.phrases[i], true
}

// Len returns the number of phrases.
func (v *Vocabulary) Len() int {
	return len(v.phrases)
}
