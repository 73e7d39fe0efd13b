package llm

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// extractJSON pulls the JSON payload out of a model reply that may wrap it
// in a fenced code block or surround it with prose.
func extractJSON(s string) string {
	for _, fence := range []string{"```json", "```"} {
		idx := strings.Index(s, fence)
		if idx == -1 {
			continue
		}
		body := strings.TrimLeft(s[idx+len(fence):], "\r\n")
		if end := strings.Index(body, "```"); end != -1 {
			return strings.TrimRight(body[:end], "\r\n")
		}
	}

	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return s
	}
	open, shut := s[start], byte('}')
	if open == '[' {
		shut = ']'
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == shut:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s[start:]
}

// decodeJSON unmarshals the JSON found in content into result.
func decodeJSON(content string, result any) error {
	if err := json.Unmarshal([]byte(extractJSON(content)), result); err != nil {
		return fmt.Errorf("parsing JSON response: %w (content: %s)", err, content)
	}
	return nil
}
