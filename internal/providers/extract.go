package providers

import (
	"encoding/json"
	"strings"

	"notegrader/internal/codes"
)

// ExtractJSONObject pulls the first complete JSON object out of model
// text. Models wrap output in markdown fences or prose often enough that a
// bare json.Unmarshal on the whole response is not workable.
func ExtractJSONObject(text string) (json.RawMessage, error) {
	text = stripFences(text)

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, codes.New(codes.ErrInvalidJSON, "model response contains no JSON object")
	}

	candidate, ok := balancedObject(text[start:])
	if !ok {
		return nil, codes.New(codes.ErrInvalidJSON, "model response contains an unterminated JSON object")
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, codes.Newf(codes.ErrInvalidJSON, "model response is not a valid JSON object: %v", err)
	}
	return json.RawMessage(candidate), nil
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Drop an optional language tag on the fence line.
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	if end := strings.LastIndex(text, "```"); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSpace(text)
}

// balancedObject returns the prefix of s spanning one brace-balanced JSON
// object, tracking strings and escapes so braces in values do not count.
func balancedObject(s string) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}
