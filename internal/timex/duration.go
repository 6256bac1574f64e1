// Package timex provides a time.Duration wrapper that can be unmarshalled
// from JSON either as a duration string ("15m", "1h30m") or as an integer
// number of nanoseconds.
package timex

import (
	"encoding/json"
	"errors"
	"time"
)

// Duration embeds time.Duration and adds JSON (un)marshalling support.
// It is intended for configuration DTOs; runtime code should copy the
// embedded time.Duration out after parsing.
type Duration struct {
	time.Duration
}

// UnmarshalJSON accepts either a JSON number (nanoseconds) or a JSON string
// in time.ParseDuration format.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}

// MarshalJSON renders the duration in time.Duration string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}
