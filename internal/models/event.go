package models

import "time"

// Event is a weekend event as served by the backend.
type Event struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	StartDatetime Timestamp     `json:"start_datetime"`
	EndDatetime   Timestamp     `json:"end_datetime"`
	Location      Location      `json:"location"`
	Category      string        `json:"category"`
	ExternalLinks ExternalLinks `json:"external_links"`
	Price         *float64      `json:"price"`    // yen, nil when unknown
	Capacity      *int          `json:"capacity"` // nil when unlimited/unknown
}

// Duration returns the time between start and end.
func (e Event) Duration() time.Duration {
	return e.EndDatetime.Sub(e.StartDatetime.Time)
}

// IsFree reports whether the event has an explicit price of zero.
func (e Event) IsFree() bool {
	return e.Price != nil && *e.Price == 0
}

// FilterByCategory returns the events whose category equals category, in their
// original order. An empty category returns events unchanged.
func FilterByCategory(events []Event, category string) []Event {
	if category == "" {
		return events
	}
	filtered := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Category == category {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
