package generation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError reports model output that does not hold a JSON object.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model output is not a JSON object: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExtractJSONObject parses the single JSON object in text. Code fences
// (```json or bare ```) and prose around the object are tolerated.
func ExtractJSONObject(text string) (map[string]interface{}, error) {
	body := stripFences(strings.TrimSpace(text))
	start := strings.Index(body, "{")
	if start < 0 {
		return nil, &ParseError{Raw: text, Err: fmt.Errorf("no object found")}
	}
	// Only the first value is decoded; anything after it is ignored.
	var obj map[string]interface{}
	if err := json.NewDecoder(strings.NewReader(body[start:])).Decode(&obj); err != nil {
		return nil, &ParseError{Raw: text, Err: err}
	}
	if obj == nil {
		return nil, &ParseError{Raw: text, Err: fmt.Errorf("null is not an object")}
	}
	return obj, nil
}

func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	// Drop the opening fence line, including any language tag.
	if nl := strings.Index(s, "\n"); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
