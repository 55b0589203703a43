// Package normalize converts loosely shaped upstream payloads into the
// internal record types. It runs once, at the system boundary.
package normalize

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrNoJSON = errors.New("no JSON fragment found")

var chattyPrefixes = []string{
	"Here are the flights:",
	"Here are the hotels:",
	"Here is the JSON:",
	"Results:",
}

// ExtractJSON pulls the first balanced, valid JSON object or array out of free text,
// dropping markdown fences and chatty prefixes that generative models add.
func ExtractJSON(text string) ([]byte, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```JSON", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	for _, prefix := range chattyPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
			break
		}
	}

	for start := nextOpening(text, 0); start != -1; start = nextOpening(text, start+1) {
		end := findMatching(text, start)
		if end == -1 {
			continue
		}
		if frag := []byte(text[start : end+1]); json.Valid(frag) {
			return frag, nil
		}
	}
	return nil, ErrNoJSON
}

// nextOpening returns the index of the first '{' or '[' at or after from, or -1.
func nextOpening(s string, from int) int {
	if from >= len(s) {
		return -1
	}
	i := strings.IndexAny(s[from:], "{[")
	if i == -1 {
		return -1
	}
	return from + i
}

// findMatching returns the index closing the brace or bracket at start,
// skipping string literals, or -1.
func findMatching(s string, start int) int {
	open := s[start]
	var close byte
	switch open {
	case '{':
		close = '}'
	case '[':
		close = ']'
	default:
		return -1
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
