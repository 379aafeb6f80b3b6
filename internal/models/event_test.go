package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

const sampleEventJSON = `{
	"id": 7,
	"name": "Shibuya Art Walk",
	"description": "Gallery hopping",
	"start_datetime": "2025-03-01T10:00:00.000000",
	"end_datetime": "2025-03-01T18:30:00.250000",
	"location": {
		"name": "Shibuya Hikarie",
		"address": "2-21-1 Shibuya",
		"coordinates": {"latitude": 35.659, "longitude": 139.703},
		"area": "渋谷",
		"station": "渋谷駅"
	},
	"category": "アート",
	"external_links": {"website": "https://example.com/art", "instagram": null, "twitter": null},
	"price": null,
	"capacity": 120
}`

func withWireLocation(t *testing.T, loc *time.Location) {
	t.Helper()
	prev := WireLocation()
	SetWireLocation(loc)
	t.Cleanup(func() { SetWireLocation(prev) })
}

func TestEvent_Unmarshal(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	withWireLocation(t, jst)

	var e Event
	if err := json.Unmarshal([]byte(sampleEventJSON), &e); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if e.ID != 7 || e.Name != "Shibuya Art Walk" {
		t.Errorf("got id=%d name=%q", e.ID, e.Name)
	}
	want := time.Date(2025, 3, 1, 10, 0, 0, 0, jst)
	if !e.StartDatetime.Equal(want) {
		t.Errorf("StartDatetime = %v, want %v", e.StartDatetime.Time, want)
	}
	if e.EndDatetime.Nanosecond() != 250000000 {
		t.Errorf("EndDatetime nanos = %d, want 250000000", e.EndDatetime.Nanosecond())
	}
	if e.Location.StationName() != "渋谷駅" {
		t.Errorf("StationName() = %q", e.Location.StationName())
	}
	if e.Price != nil {
		t.Errorf("Price = %v, want nil", *e.Price)
	}
	if e.Capacity == nil || *e.Capacity != 120 {
		t.Errorf("Capacity = %v, want 120", e.Capacity)
	}
	if e.ExternalLinks.Website == nil || *e.ExternalLinks.Website != "https://example.com/art" {
		t.Errorf("Website = %v", e.ExternalLinks.Website)
	}
	if e.ExternalLinks.Instagram != nil {
		t.Error("Instagram should be nil")
	}
	if got := e.Duration(); got != 8*time.Hour+30*time.Minute+250*time.Millisecond {
		t.Errorf("Duration() = %v", got)
	}
}

func TestEvent_RoundTrip(t *testing.T) {
	withWireLocation(t, time.FixedZone("JST", 9*60*60))

	start := time.Date(2025, 5, 10, 13, 45, 12, 123456789, time.UTC)
	in := Event{
		ID:            1,
		Name:          "Market",
		StartDatetime: NewTimestamp(start),
		EndDatetime:   NewTimestamp(start.Add(2 * time.Hour)),
		Category:      "マーケット",
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"start_datetime":"2025-05-10T22:45:12.123456"`) {
		t.Errorf("unexpected wire form: %s", data)
	}

	var out Event
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	wantStart := start.Truncate(time.Microsecond)
	if !out.StartDatetime.Equal(wantStart) {
		t.Errorf("StartDatetime = %v, want %v", out.StartDatetime.Time, wantStart)
	}
	if !out.EndDatetime.Equal(in.EndDatetime.Time) {
		t.Errorf("EndDatetime = %v, want %v", out.EndDatetime.Time, in.EndDatetime.Time)
	}
}

func TestParseTimestamp_Rejects(t *testing.T) {
	tests := []string{
		"2025-03-01T10:00:00",
		"2025-03-01T10:00:00.000",
		"2025-03-01T10:00:00.0000001",
		"2025-03-01 10:00:00.000000",
		"2025-03-01T10:00:00.000000Z",
		"not a date",
		"",
	}

	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			if _, err := ParseTimestamp(s); err == nil {
				t.Errorf("ParseTimestamp(%q) expected error", s)
			}
		})
	}
}

func TestTimestamp_UnmarshalRejectsNonString(t *testing.T) {
	for _, raw := range []string{`null`, `1700000000`, `{}`} {
		var ts Timestamp
		if err := json.Unmarshal([]byte(raw), &ts); err == nil {
			t.Errorf("Unmarshal(%s) expected error", raw)
		}
	}
}

func TestFormatDate(t *testing.T) {
	withWireLocation(t, time.FixedZone("JST", 9*60*60))

	// 20:00 UTC on the 1st is already the 2nd in Tokyo.
	got := FormatDate(time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC))
	if got != "2025-03-02" {
		t.Errorf("FormatDate() = %s, want 2025-03-02", got)
	}
}

func TestFilterByCategory(t *testing.T) {
	events := []Event{
		{ID: 1, Category: "Art"},
		{ID: 2, Category: "Music"},
		{ID: 3, Category: "Art"},
	}

	tests := []struct {
		name     string
		category string
		wantIDs  []int
	}{
		{"art only", "Art", []int{1, 3}},
		{"music only", "Music", []int{2}},
		{"no category", "", []int{1, 2, 3}},
		{"unknown category", "Food", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByCategory(events, tt.category)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("got[%d].ID = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestExternalLinks_Validate(t *testing.T) {
	good := "https://instagram.com/tokyo"
	bad := "/relative/path"

	if err := (ExternalLinks{Instagram: &good}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (ExternalLinks{Twitter: &bad}).Validate(); err == nil {
		t.Error("Validate() expected error for relative link")
	}
	if err := (ExternalLinks{}).Validate(); err != nil {
		t.Errorf("Validate() on empty links error = %v", err)
	}
}

func TestRoutesByTransport(t *testing.T) {
	routes := []RouteOption{
		{TransportType: TransportWalking, DurationMinutes: 30},
		{TransportType: TransportTransit, DurationMinutes: 12},
		{TransportType: TransportWalking, DurationMinutes: 45},
	}

	byType := RoutesByTransport(routes)
	if len(byType) != 2 {
		t.Fatalf("len = %d, want 2", len(byType))
	}
	if byType[TransportWalking].DurationMinutes != 30 {
		t.Errorf("walking duration = %d, want 30 (first wins)", byType[TransportWalking].DurationMinutes)
	}
}
