package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Date wraps time.Time to tolerate the record store's mixed date encodings.
// Fields arrive either as bare dates ("2026-01-31") or as full timestamps
// ("2026-01-31T08:15:00"), and empty strings stand in for SQL NULL.
type Date struct {
	time.Time
}

var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"01/02/2006",
}

// NewDate builds a Date from a time.Time.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// DateOf returns a *Date for t, for populating optional record fields.
func DateOf(t time.Time) *Date {
	d := NewDate(t)
	return &d
}

// UnmarshalJSON accepts null, empty strings, bare dates and timestamps.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if string(data) == "null" {
		d.Time = time.Time{}
		return nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("date: unrecognized value %q", raw)
}

// MarshalJSON emits the timestamp layout the record store accepts on writes,
// or null for the zero value.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02T15:04:05"))
}

// Set reports whether the date carries a real value.
func (d *Date) Set() bool {
	return d != nil && !d.IsZero()
}
