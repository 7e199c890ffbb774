package activity

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrFrontMatter is returned when a document's metadata block cannot be decoded.
var ErrFrontMatter = errors.New("malformed front matter")

const frontMatterDelimiter = "---"

// SplitFrontMatter separates a leading "---" delimited YAML block from the body.
// A document without the block yields empty metadata and the whole text as body.
func SplitFrontMatter(raw string) (map[string]any, string, error) {
	lines := strings.Split(raw, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != frontMatterDelimiter {
		return map[string]any{}, raw, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == frontMatterDelimiter {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, "", fmt.Errorf("%w: missing closing %s", ErrFrontMatter, frontMatterDelimiter)
	}

	meta := map[string]any{}
	block := strings.Join(lines[1:end], "\n")
	if strings.TrimSpace(block) != "" {
		dec := yaml.NewDecoder(bytes.NewBufferString(block))
		if err := dec.Decode(&meta); err != nil && !errors.Is(err, io.EOF) {
			return nil, "", fmt.Errorf("%w: %v", ErrFrontMatter, err)
		}
		if meta == nil {
			meta = map[string]any{}
		}
	}

	body := strings.Join(lines[end+1:], "\n")
	return meta, strings.TrimPrefix(body, "\n"), nil
}

// metaString reads a scalar metadata value as text.
func metaString(meta map[string]any, key string) string {
	switch v := meta[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// metaList reads a sequence metadata value. A lone scalar becomes a one-item list.
func metaList(meta map[string]any, key string) []string {
	items := []string{}
	switch v := meta[key].(type) {
	case []any:
		for _, item := range v {
			if item == nil {
				continue
			}
			items = append(items, fmt.Sprint(item))
		}
	case string:
		if v != "" {
			items = append(items, v)
		}
	case nil:
	default:
		items = append(items, fmt.Sprint(v))
	}
	return items
}
