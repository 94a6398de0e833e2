package util

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
)

// QuoteJSON renders s as a JSON string literal. HTML characters and
// non-ASCII runes are written as-is.
func QuoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func CollapseSpaces(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	var out strings.Builder
	lastWasSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				out.WriteRune(' ')
				lastWasSpace = true
			}
			continue
		}
		out.WriteRune(r)
		lastWasSpace = false
	}
	return out.String()
}

func StringPtr(v string) *string { return &v }

func DerefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
