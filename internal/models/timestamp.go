package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

const (
	// TimestampLayout is the backend's datetime format: local wall-clock time
	// with microseconds and no zone designator.
	TimestampLayout = "2006-01-02T15:04:05.000000"

	// DateLayout is used for date-only query filters.
	DateLayout = "2006-01-02"
)

var (
	wireMu       sync.RWMutex
	wireLocation = time.Local
)

// SetWireLocation sets the zone used to interpret zone-less timestamps.
// A nil location resets it to time.Local.
func SetWireLocation(loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	wireMu.Lock()
	wireLocation = loc
	wireMu.Unlock()
}

// WireLocation returns the zone used for wire timestamps.
func WireLocation() *time.Location {
	wireMu.RLock()
	defer wireMu.RUnlock()
	return wireLocation
}

// Timestamp is a time.Time that (de)serializes using TimestampLayout.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to microsecond precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Microsecond)}
}

// String formats the timestamp in wire form.
func (t Timestamp) String() string {
	return t.In(WireLocation()).Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler. Anything other than a string in
// TimestampLayout is rejected.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("timestamp cannot be null")
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTimestamp parses a wire timestamp in the wire location.
func ParseTimestamp(s string) (Timestamp, error) {
	// Exactly six fractional digits; time.Parse accepts more than the layout
	// specifies, so the length is checked first.
	if len(s) != len(TimestampLayout) {
		return Timestamp{}, fmt.Errorf("parsing timestamp %q: want layout %s", s, TimestampLayout)
	}
	parsed, err := time.ParseInLocation(TimestampLayout, s, WireLocation())
	if err != nil {
		return Timestamp{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return Timestamp{Time: parsed}, nil
}

// FormatDate renders the calendar date of t for query filters.
func FormatDate(t time.Time) string {
	return t.In(WireLocation()).Format(DateLayout)
}
