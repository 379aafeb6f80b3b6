package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/ngmaloney/tokyo-weekend/internal/models"
)

// eventItem wraps an Event for use in a list
type eventItem struct {
	event models.Event
}

// FilterValue implements list.Item
func (e eventItem) FilterValue() string {
	return e.event.Name
}

// Title implements list.DefaultItem
func (e eventItem) Title() string {
	return e.event.Name
}

// Description implements list.DefaultItem
func (e eventItem) Description() string {
	desc := fmt.Sprintf("%s • %s • %s",
		e.event.StartDatetime.Format("Mon Jan 2 15:04"),
		e.event.Location.Area,
		e.event.Category)
	if station := e.event.Location.StationName(); station != "" {
		desc += " • " + station
	}
	return desc
}

// createEventList creates a list.Model from events
func createEventList(events []models.Event, title string, width, height int) list.Model {
	items := make([]list.Item, len(events))
	for i, event := range events {
		items[i] = eventItem{event: event}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(len(events) > 0)

	return l
}

func selectedEvent(l list.Model) (models.Event, bool) {
	item, ok := l.SelectedItem().(eventItem)
	if !ok {
		return models.Event{}, false
	}
	return item.event, true
}

func withoutEvent(events []models.Event, id int) []models.Event {
	kept := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return kept
}
