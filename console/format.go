package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Format renders an outcome for display: nothing for nil, strings verbatim,
// everything else as 2-space indented JSON.
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	s, err := indentJSON(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// indentJSON does not escape <, > and & so payloads stay readable in editors.
func indentJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
