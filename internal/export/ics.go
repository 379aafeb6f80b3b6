package export

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/ngmaloney/tokyo-weekend/internal/models"
)

// DefaultProductID identifies calendars written by this tool.
const DefaultProductID = "-//Tokyo Weekend//Schedule//EN"

// Options controls calendar output.
type Options struct {
	ProductID string
	// Alarm adds a display reminder this long before each event. Zero disables it.
	Alarm time.Duration
	// Now stamps DTSTAMP. Defaults to time.Now.
	Now time.Time
}

// UID returns the stable calendar identifier for an event.
func UID(eventID int) string {
	return fmt.Sprintf("event-%d@tokyo-weekend", eventID)
}

// BuildCalendar converts events into a VCALENDAR.
func BuildCalendar(events []models.Event, opts Options) *ical.Calendar {
	if opts.ProductID == "" {
		opts.ProductID = DefaultProductID
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(opts.ProductID)

	for _, e := range events {
		ve := cal.AddEvent(UID(e.ID))
		ve.SetDtStampTime(opts.Now)
		ve.SetStartAt(e.StartDatetime.Time)
		ve.SetEndAt(e.EndDatetime.Time)
		ve.SetSummary(e.Name)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		ve.SetLocation(locationText(e.Location))
		if e.Category != "" {
			ve.AddProperty(ical.ComponentPropertyCategories, e.Category)
		}
		if e.ExternalLinks.Website != nil {
			ve.SetURL(*e.ExternalLinks.Website)
		}

		if opts.Alarm > 0 {
			alarm := ve.AddAlarm()
			alarm.SetAction(ical.ActionDisplay)
			alarm.SetTrigger(trigger(opts.Alarm))
			alarm.SetProperty(ical.ComponentPropertyDescription, e.Name)
		}
	}
	return cal
}

// WriteSchedule writes events as an iCalendar document.
func WriteSchedule(w io.Writer, events []models.Event, opts Options) error {
	_, err := io.WriteString(w, BuildCalendar(events, opts).Serialize())
	if err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}

func locationText(l models.Location) string {
	if l.Address == "" {
		return l.Name
	}
	return l.Name + ", " + l.Address
}

// trigger renders a negative RFC 5545 duration, e.g. -PT1H30M.
func trigger(d time.Duration) string {
	d = d.Round(time.Minute)
	if d < time.Minute {
		d = time.Minute
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)

	s := "-PT"
	if h > 0 {
		s += fmt.Sprintf("%dH", h)
	}
	if m > 0 {
		s += fmt.Sprintf("%dM", m)
	}
	return s
}
