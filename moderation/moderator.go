// Package moderation masks censored words in chat content before it is
// stored and broadcast. Matching runs on a normalized view of the text so
// spacing, punctuation, and common leet substitutions don't defeat it.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	matcher  *goahocorasick.Machine
	maskRune rune
}

// runeMap ties each normalized rune back to its position in the original
// text, so a match found on the normalized view can be masked in place.
type runeMap struct {
	normalized []rune
	origIdx    []int
}

// NewModerator builds the Aho-Corasick automaton over the normalized word
// list. An empty list is rejected upstream by the loader.
func NewModerator(censoredWords []string, maskRune rune) (*Moderator, error) {
	patterns := make([][]rune, 0, len(censoredWords))
	for _, word := range censoredWords {
		patterns = append(patterns, normalize(word).normalized)
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: machine, maskRune: maskRune}, nil
}

// Censor masks every censored span in the original text and reports the
// matched words. Clean input is returned unchanged.
func (m *Moderator) Censor(original string) (string, []string) {
	mapping := normalize(original)
	if len(mapping.normalized) == 0 {
		return original, nil
	}

	spans := m.matcher.MultiPatternSearch(mapping.normalized, false)
	if len(spans) == 0 {
		return original, nil
	}

	masked := []rune(original)
	found := make([]string, 0, len(spans))
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(mapping.origIdx) {
			continue
		}
		found = append(found, string(span.Word))
		for i := mapping.origIdx[start]; i <= mapping.origIdx[end-1]; i++ {
			masked[i] = m.maskRune
		}
	}
	return string(masked), found
}

// normalize lowercases, undoes leet substitutions, and strips noise runes
// while recording where every kept rune came from.
func normalize(input string) runeMap {
	origRunes := []rune(input)
	mapping := runeMap{
		normalized: make([]rune, 0, len(origRunes)),
		origIdx:    make([]int, 0, len(origRunes)),
	}
	for i, r := range origRunes {
		plain := unleet(r)
		if isNoise(plain) {
			continue
		}
		mapping.normalized = append(mapping.normalized, unicode.ToLower(plain))
		mapping.origIdx = append(mapping.origIdx, i)
	}
	return mapping
}

// unleet maps common leet speak runes back to their plain letters.
func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	case '7':
		return 't'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}
