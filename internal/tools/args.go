package tools

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Arguments is the normalized form of whatever a caller sent: a key/value
// map, a JSON-encoded string of one (optionally wrapped under "arguments"
// or "mcpToolArgs"), or a plain string kept under the "raw" key.
type Arguments struct {
	m map[string]any
}

// ParseArguments accepts the heterogeneous caller input formats and always
// produces a usable Arguments value. It never fails; unparseable input
// degrades to the raw fallback or to empty arguments.
func ParseArguments(input any) Arguments {
	switch v := input.(type) {
	case nil:
		return Arguments{}
	case string:
		txt := strings.TrimSpace(v)
		if txt == "" {
			return Arguments{}
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(txt), &parsed); err != nil {
			return Arguments{m: map[string]any{"raw": txt}}
		}
		return Arguments{m: unwrap(parsed)}
	case map[string]any:
		return Arguments{m: unwrap(v)}
	default:
		return Arguments{}
	}
}

// unwrap peels the standard wrapper keys some MCP clients add. The wrapped
// value may itself be a JSON-encoded string.
func unwrap(m map[string]any) map[string]any {
	for _, key := range []string{"arguments", "mcpToolArgs"} {
		switch inner := m[key].(type) {
		case map[string]any:
			return inner
		case string:
			var parsed map[string]any
			if err := json.Unmarshal([]byte(inner), &parsed); err == nil {
				return parsed
			}
		}
	}
	return m
}

// String returns the named argument if it is a string, otherwise "".
func (a Arguments) String(key string) string {
	s, _ := a.m[key].(string)
	return s
}

// Int returns the named argument coerced to int. Missing, zero or
// non-numeric values fall back to def.
func (a Arguments) Int(key string, def int) int {
	switch v := a.m[key].(type) {
	case float64:
		if n := int(v); n > 0 {
			return n
		}
	case int:
		if v > 0 {
			return v
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// Raw returns the plain-string fallback value, if the input was one.
func (a Arguments) Raw() string {
	return a.String("raw")
}
