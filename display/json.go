package display

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON marshals JSON with pretty formatting for humans and compact
// formatting when FOLIO_OUTPUT=json asks for machine output
func MarshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Project links and markdown carry '&' and '<' verbatim
	enc.SetEscapeHTML(false)
	if !machineOutput() {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
