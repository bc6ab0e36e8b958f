// Package moderation censors banned words in relayed chat content.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Common leet-speak substitutions folded back before matching.
var leet = map[rune]rune{
	'4': 'a', '@': 'a',
	'3': 'e',
	'1': 'i', '!': 'i', '|': 'i',
	'0': 'o',
	'5': 's', '$': 's',
}

// Moderator masks banned patterns with a replacement character while
// preserving the original spacing and punctuation. A moderator built with
// an empty word list passes everything through untouched.
type Moderator struct {
	machine     *goahocorasick.Machine
	replacement rune
}

func NewModerator(bannedWords []string, replacement rune) (*Moderator, error) {
	mod := &Moderator{replacement: replacement}
	if len(bannedWords) == 0 {
		return mod, nil
	}

	patterns := make([][]rune, 0, len(bannedWords))
	for _, word := range bannedWords {
		if norm, _ := normalize(word); len(norm) > 0 {
			patterns = append(patterns, norm)
		}
	}
	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	mod.machine = machine
	return mod, nil
}

// Censor returns the masked text plus the banned words that matched.
// Matching ignores case, spacing, punctuation and leet-speak; masking
// applies to the original rune positions.
func (m *Moderator) Censor(original string) (string, []string) {
	if m.machine == nil {
		return original, nil
	}

	norm, origIdx := normalize(original)
	if len(norm) == 0 {
		return original, nil
	}
	terms := m.machine.MultiPatternSearch(norm, false)
	if len(terms) == 0 {
		return original, nil
	}

	out := []rune(original)
	found := make([]string, 0, len(terms))
	for _, term := range terms {
		found = append(found, string(term.Word))

		start := term.Pos
		end := start + len(term.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			out[i] = m.replacement
		}
	}
	return string(out), found
}

// normalize lowercases and folds leet-speak, dropping separator runes.
// The second return value maps each normalized rune back to its index in
// the original string.
func normalize(input string) ([]rune, []int) {
	runes := []rune(input)
	norm := make([]rune, 0, len(runes))
	origIdx := make([]int, 0, len(runes))
	for i, r := range runes {
		if folded, ok := leet[r]; ok {
			r = folded
		}
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		norm = append(norm, unicode.ToLower(r))
		origIdx = append(origIdx, i)
	}
	return norm, origIdx
}
