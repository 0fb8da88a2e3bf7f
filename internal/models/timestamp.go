package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Accepted due date layouts, tried in order. Layouts without an offset are
// read as UTC, and a bare date means midnight UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

type TimestampError struct {
	Value string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("invalid timestamp %s: want an ISO 8601 date or date-time", e.Value)
}

// Timestamp is an ISO 8601 date or date-time as accepted in request bodies.
// Parsed values are normalized to UTC.
type Timestamp struct {
	time.Time
}

func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return Timestamp{Time: t.UTC()}, nil
		}
	}
	return Timestamp{}, &TimestampError{Value: fmt.Sprintf("%q", s)}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &TimestampError{Value: string(data)}
	}

	ts, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = ts
	return nil
}

// TimePtr returns nil for a nil receiver.
func (t *Timestamp) TimePtr() *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}
