package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Texter is implemented by payloads with a human-readable form.
type Texter interface {
	Text() string
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - yaml
// - text (payloads implementing Texter; anything else falls back to yaml)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "yaml", "yml":
		return WriteYAML(w, v)
	case "text":
		return WriteText(w, v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON, one document per call.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteText unwraps a {"data": ...} envelope and prints the payload's text
// form.
func WriteText(w io.Writer, v any) error {
	payload := v
	if env, ok := v.(map[string]any); ok {
		if d, ok := env["data"]; ok {
			payload = d
		}
	}
	if t, ok := payload.(Texter); ok {
		s := strings.TrimRight(t.Text(), "\n")
		if s == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, s)
		return err
	}
	return WriteYAML(w, payload)
}
