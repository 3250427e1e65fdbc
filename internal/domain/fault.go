package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// GenericFaultLine is shown when a failed creation carries no usable payload.
const GenericFaultLine = "detail: An unexpected error occurred."

// Fault is a failed call to the remote API. Status is zero when no HTTP
// response was received, in which case Err holds the transport error.
type Fault struct {
	Status  int
	Payload json.RawMessage
	Err     error
}

// Error implements error.
func (f *Fault) Error() string {
	if f.Status == 0 {
		if f.Err != nil {
			return fmt.Sprintf("remote api unreachable: %v", f.Err)
		}
		return "remote api unreachable"
	}
	return fmt.Sprintf("remote api returned status %d", f.Status)
}

// Unwrap returns the underlying transport error, if any.
func (f *Fault) Unwrap() error { return f.Err }

// ErrorLines renders a fault payload for display. A JSON object yields one
// "<key>: <value>" line per key in document order, with list values joined
// by ", ". Any other payload yields its string form. An empty, falsy
// ("", false, 0, null) or key-less payload yields GenericFaultLine.
func ErrorLines(payload []byte) []string {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || isFalsy(trimmed) {
		return []string{GenericFaultLine}
	}
	if !json.Valid(trimmed) {
		return []string{string(trimmed)}
	}
	if trimmed[0] != '{' {
		return []string{valueText(trimmed)}
	}

	lines, err := objectLines(trimmed)
	if err != nil {
		return []string{string(trimmed)}
	}
	if len(lines) == 0 {
		return []string{GenericFaultLine}
	}
	return lines
}

func isFalsy(v []byte) bool {
	switch string(v) {
	case "null", "false", `""`:
		return true
	}
	var n json.Number
	if v[0] != '"' && json.Unmarshal(v, &n) == nil {
		f, err := n.Float64()
		return err == nil && f == 0
	}
	return false
}

// objectLines walks a JSON object token by token so keys keep their order.
func objectLines(obj []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(obj))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var lines []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		lines = append(lines, key+": "+valueText(raw))
	}
	return lines, nil
}

func valueText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			parts := make([]string, len(items))
			for i, item := range items {
				parts[i] = scalarText(item)
			}
			return strings.Join(parts, ", ")
		}
	}
	return scalarText(raw)
}

func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
