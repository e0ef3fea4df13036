package search

import (
	"fmt"
	"regexp"
)

// windowRadius is how many characters of surrounding text each raw
// regex hit carries on either side.
const windowRadius = 400

// SearchText runs pattern over raw corpus text and returns a fixed-
// radius window around each match, at most maxHits of them. The
// pattern is compiled case-insensitive, multi-line, dot-matches-newline
// to mirror how shortcut patterns are built.
func SearchText(text, pattern string, maxHits int) ([]string, error) {
	re, err := regexp.Compile(`(?ims)` + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	if maxHits < 1 {
		return nil, nil
	}

	var out []string
	for _, loc := range re.FindAllStringIndex(text, maxHits) {
		lo := loc[0] - windowRadius
		if lo < 0 {
			lo = 0
		}
		hi := loc[1] + windowRadius
		if hi > len(text) {
			hi = len(text)
		}
		out = append(out, text[lo:hi])
	}

	return out, nil
}
