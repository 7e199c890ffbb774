package activity

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// The extractors below scan documents line by line. A heading is a run of
// '#' at the start of a line followed by whitespace; names compare
// case-insensitively and literally, so heading text never acts as a pattern.

// GetSection returns the text under the first "<level hashes> heading" line,
// up to the next heading of equal or shallower level or the end of the
// document. It returns "" when the heading is absent.
func GetSection(body, heading string, level int) string {
	return extractBlock(body, heading, level, func(n int) bool { return n >= 1 && n <= level })
}

// GetSubSection returns a level-3 block from text already isolated by GetSection.
func GetSubSection(section, heading string) string {
	return GetSection(section, heading, 3)
}

// getQuestion extracts the level-1 "Question" block. Its boundary is the
// next level-2 heading rather than a shallower one.
func getQuestion(body string) string {
	return extractBlock(body, questionHeading, 1, func(n int) bool { return n == 2 })
}

func extractBlock(body, heading string, level int, isBoundary func(hashes int) bool) string {
	lines := strings.Split(body, "\n")

	start := -1
	for i, line := range lines {
		if matchesHeading(line, heading, level) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		if n, ok := headingDepth(lines[i]); ok && isBoundary(n) {
			end = i
			break
		}
	}

	return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
}

// headingDepth reports the number of leading '#' when they are followed by
// whitespace or the end of the line.
func headingDepth(line string) (int, bool) {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 {
		return 0, false
	}
	if n == len(line) {
		return n, true
	}
	r, _ := utf8.DecodeRuneInString(line[n:])
	return n, unicode.IsSpace(r)
}

func matchesHeading(line, heading string, level int) bool {
	n, ok := headingDepth(line)
	if !ok || n != level || n == len(line) {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line[n:]), heading)
}

// cutDashPrefix strips a leading "-" and at least one whitespace character.
func cutDashPrefix(line string) (string, bool) {
	if !strings.HasPrefix(line, "-") {
		return "", false
	}
	rest := line[1:]
	trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
	if len(trimmed) == len(rest) {
		return "", false
	}
	return trimmed, true
}

// ParseField returns the value of the first "- key: value" line, with
// surrounding whitespace trimmed and one leading and trailing quote removed.
// Keys match case-insensitively. It returns "" when the key is absent or
// its first occurrence is empty.
func ParseField(text, key string) string {
	for _, line := range strings.Split(text, "\n") {
		rest, ok := cutDashPrefix(line)
		if !ok || len(rest) <= len(key) {
			continue
		}
		if !strings.EqualFold(rest[:len(key)], key) || rest[len(key)] != ':' {
			continue
		}
		return stripQuotes(strings.TrimSpace(rest[len(key)+1:]))
	}
	return ""
}

func stripQuotes(s string) string {
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if s != "" && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}

// ParseListField splits a comma-separated field value, dropping empty pieces.
func ParseListField(text, key string) []string {
	items := []string{}
	value := ParseField(text, key)
	if value == "" {
		return items
	}
	for _, piece := range strings.Split(value, ",") {
		if piece = strings.TrimSpace(piece); piece != "" {
			items = append(items, piece)
		}
	}
	return items
}

// ParseNumberedList collects the content of "N. content" lines in order.
func ParseNumberedList(text string) []string {
	items := []string{}
	for _, line := range strings.Split(text, "\n") {
		digits := 0
		for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
			digits++
		}
		if digits == 0 || digits == len(line) || line[digits] != '.' {
			continue
		}
		if content, ok := afterSpace(line[digits+1:]); ok {
			items = append(items, content)
		}
	}
	return items
}

// ParseChecklist collects "- id: label" lines where id is a word token.
func ParseChecklist(text string) []ChecklistItem {
	items := []ChecklistItem{}
	for _, line := range strings.Split(text, "\n") {
		rest, ok := cutDashPrefix(line)
		if !ok {
			continue
		}
		id := 0
		for id < len(rest) && isWordByte(rest[id]) {
			id++
		}
		if id == 0 || id == len(rest) || rest[id] != ':' {
			continue
		}
		if label, ok := afterSpace(rest[id+1:]); ok {
			items = append(items, ChecklistItem{ID: rest[:id], Label: label})
		}
	}
	return items
}

// afterSpace requires s to open with whitespace followed by at least one more
// character, and returns s trimmed.
func afterSpace(s string) (string, bool) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || !unicode.IsSpace(r) || len(s) == size {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// ParseRubricDimension reads level_1 through level_5 from a dimension block.
// It returns nil when no level has a descriptor.
func ParseRubricDimension(text string) Levels {
	if text == "" {
		return nil
	}
	levels := Levels{}
	for i := 1; i <= 5; i++ {
		if desc := ParseField(text, levelKey(i)); desc != "" {
			levels[i] = desc
		}
	}
	if len(levels) == 0 {
		return nil
	}
	return levels
}

func levelKey(n int) string {
	return "level_" + string(rune('0'+n))
}
