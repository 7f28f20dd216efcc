package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Layouts accepted by ParseFlexTime, tried in order. Naive layouts carry no
// zone and are interpreted as UTC.
var flexLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseFlexTime parses RFC3339, naive ISO-8601 date-times and plain dates.
func ParseFlexTime(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range flexLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("parsing time %q: %w", s, firstErr)
}

// Timestamp is a time.Time that decodes from any layout ParseFlexTime accepts
// and always encodes as RFC3339 with any fractional seconds kept.
type Timestamp struct {
	time.Time
}

// NewTimestamp returns a pointer suitable for optional timestamp fields.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseFlexTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// TimeOrNil unwraps an optional timestamp for database writes.
func TimeOrNil(t *Timestamp) *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}

// TimestampOrNil wraps an optional scanned column.
func TimestampOrNil(t *time.Time) *Timestamp {
	if t == nil {
		return nil
	}
	return &Timestamp{Time: *t}
}
