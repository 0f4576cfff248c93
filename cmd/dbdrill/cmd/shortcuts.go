package cmd

import "unicode"

// shortcut marks the rune of a picker label to highlight as its keyboard
// shortcut.
type shortcut struct {
	index int
	ch    rune
	ok    bool
}

func isConsonant(c rune) bool {
	switch unicode.ToLower(c) {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	}
	return true
}

// assignShortcuts picks a distinct shortcut character for each label.
// Candidates are tried in order of word starts, then consonants, then any
// letter; the first character not already assigned to an earlier label wins.
// A label whose every candidate is taken gets no shortcut.
func assignShortcuts(labels []string) []shortcut {
	assigned := make(map[rune]bool)
	out := make([]shortcut, 0, len(labels))

	for _, label := range labels {
		runes := []rune(label)

		var wordStarts, consonants, allAlphas []int
		prevAlpha := false
		for i, c := range runes {
			alpha := unicode.IsLetter(c)
			if alpha {
				if !prevAlpha {
					wordStarts = append(wordStarts, i)
				}
				if isConsonant(c) {
					consonants = append(consonants, i)
				}
				allAlphas = append(allAlphas, i)
			}
			prevAlpha = alpha
		}

		found := shortcut{}
		for _, i := range concat(wordStarts, consonants, allAlphas) {
			c := unicode.ToLower(runes[i])
			if assigned[c] {
				continue
			}
			assigned[c] = true
			found = shortcut{index: i, ch: c, ok: true}
			break
		}
		out = append(out, found)
	}

	return out
}

func concat(seqs ...[]int) []int {
	var out []int
	for _, s := range seqs {
		out = append(out, s...)
	}
	return out
}
