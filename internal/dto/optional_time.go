package dto

import (
	"encoding/json"
	"time"
)

// OptionalTime distinguishes an absent JSON field from an explicit null.
// Absent means leave the stored value untouched; null means clear it.
type OptionalTime struct {
	Present bool
	Value   *time.Time
}

// UnmarshalJSON is only invoked when the field appears in the payload,
// so Present records exactly that.
func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

// MarshalJSON round-trips the wrapped value
func (o OptionalTime) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
