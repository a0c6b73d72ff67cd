package genai

import (
	"encoding/json"
	"strings"
)

// ExtractJSON finds the first balanced JSON object in model output and
// returns it. Markdown fences are stripped first; models wrap JSON in them
// no matter how firmly the prompt says not to.
func ExtractJSON(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ReplaceAll(s, "\r\n", "\n")
	for _, fence := range []string{"```json", "```yaml", "```text", "```", "`json", "`"} {
		s = strings.ReplaceAll(s, fence, "")
	}

	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := strings.TrimSpace(s[start : i+1])
				var tmp any
				if json.Unmarshal([]byte(candidate), &tmp) == nil {
					return candidate
				}
				// unbalanced quotes inside; still the best candidate
				return candidate
			}
		}
	}

	return ""
}
