package narrative

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"

	errorvalues "github.com/limbo/accountability/internal/error_values"
)

const (
	maxLineRunes = 80
	ellipsis     = "…"
)

var (
	bulletPrefix = regexp.MustCompile(`^(?:[-*•·]+|\d+[.)])\s*`)
	fenceOpen    = regexp.MustCompile("^```[a-zA-Z]*\\s*")
)

// Decode parses a reply that must be a JSON array of strings, optionally inside a Markdown code fence.
func Decode(raw string) ([]string, error) {
	body := stripFence(raw)
	if !strings.HasPrefix(body, "[") {
		return nil, errors.New("narrative reply is not a JSON array")
	}
	var items []string
	if err := sonic.ConfigStd.UnmarshalFromString(body, &items); err != nil {
		return nil, errors.New("decoding narrative reply error: " + err.Error())
	}
	lines := sanitizeAll(items)
	if len(lines) == 0 {
		return nil, errorvalues.ErrEmptyNarrative
	}
	return lines, nil
}

func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = fenceOpen.ReplaceAllString(s, "")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func sanitizeAll(items []string) []string {
	lines := make([]string, 0, MaxLines)
	for _, item := range items {
		line := Sanitize(item)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == MaxLines {
			break
		}
	}
	return lines
}

// Sanitize trims a line, drops list markers and trailing punctuation, and caps it at 80 runes.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(bulletPrefix.ReplaceAllString(s, ""))
	s = strings.TrimRight(s, ".!?,;: ")
	if utf8.RuneCountInString(s) <= maxLineRunes {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:maxLineRunes-1]), " ") + ellipsis
}
