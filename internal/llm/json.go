package llm

import (
	"encoding/json"
	"strings"
)

// ParseJSONResponse parses a JSON object from an LLM response, handling
// markdown code blocks. It returns nil when the text is not a JSON object.
func ParseJSONResponse(text string) map[string]any {
	text = stripCodeFence(text)
	if text == "" {
		return nil
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil
	}
	return result
}

// ParseJSONArray parses a JSON array of strings from an LLM response. Text
// surrounding the outermost brackets is ignored. ok is false when no array
// could be decoded.
func ParseJSONArray(text string) (items []string, ok bool) {
	text = stripCodeFence(text)
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < start {
		return nil, false
	}

	var raw []any
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, false
	}

	items = make([]string, 0, len(raw))
	for _, v := range raw {
		if s, isStr := v.(string); isStr {
			items = append(items, s)
		}
	}
	return items, true
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	endIdx := len(lines)
	for i := len(lines) - 1; i > 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			endIdx = i
			break
		}
	}
	if len(lines) < 2 {
		return ""
	}
	return strings.TrimSpace(strings.Join(lines[1:endIdx], "\n"))
}
