package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalInt tracks presence and value for JSON PATCH semantics (RFC 7396).
// This enables tri-state handling that Go's *int cannot express:
//   - Present=false: field absent from JSON (don't change)
//   - Present=true, Value=nil: field is JSON null (clear/set to NULL)
//   - Present=true, Value=&n: field has value
type OptionalInt struct {
	Present bool
	Value   *int
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	// Fractions, strings and overflow are rejected
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	o.Value = &n
	return nil
}
