package ui

import (
	"fmt"
	"strings"

	"github.com/ngmaloney/tokyo-weekend/internal/models"
)

// renderDetail renders the selected event
func (m Model) renderDetail() string {
	if m.detail == nil {
		return mutedStyle.Render("No event selected")
	}
	e := m.detail

	lines := []string{
		titleStyle.Render(e.Name),
		mutedStyle.Render(formatSpan(e)),
		"",
		field("Where", e.Location.Name+", "+e.Location.Address),
		field("Area", e.Location.Area),
	}
	if station := e.Location.StationName(); station != "" {
		lines = append(lines, field("Station", station))
	}
	lines = append(lines,
		field("Category", e.Category),
		field("Price", formatPrice(e.Price)),
	)
	if e.Capacity != nil {
		lines = append(lines, field("Capacity", fmt.Sprintf("%d", *e.Capacity)))
	}

	if e.Description != "" {
		lines = append(lines, "", e.Description)
	}

	links := e.ExternalLinks
	for _, l := range []struct {
		name string
		url  *string
	}{
		{"Website", links.Website},
		{"Instagram", links.Instagram},
		{"Twitter", links.Twitter},
	} {
		if l.url != nil {
			lines = append(lines, field(l.name, *l.url))
		}
	}

	return strings.Join(lines, "\n")
}

// renderRoutes lists one option per transport type
func (m Model) renderRoutes() string {
	if m.detail == nil {
		return mutedStyle.Render("No event selected")
	}

	lines := []string{sectionHeaderStyle.Render("Getting to " + m.detail.Name)}
	if len(m.routes) == 0 {
		return strings.Join(append(lines, mutedStyle.Render("No routes available")), "\n")
	}

	byType := models.RoutesByTransport(m.routes)
	seen := make(map[models.TransportType]bool, len(byType))
	for _, r := range m.routes {
		if seen[r.TransportType] {
			continue
		}
		seen[r.TransportType] = true
		route := byType[r.TransportType]

		summary := fmt.Sprintf("%d min • %.1f km", route.DurationMinutes, route.DistanceKm)
		if route.EstimatedCost != nil {
			summary += " • " + formatYen(*route.EstimatedCost)
		}
		lines = append(lines, "", labelStyle.Render(string(route.TransportType))+"  "+valueStyle.Render(summary))
		for i, step := range route.Steps {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, step))
		}
	}
	return strings.Join(lines, "\n")
}

// renderPlaces lists places around the event's area
func (m Model) renderPlaces() string {
	if m.detail == nil {
		return mutedStyle.Render("No event selected")
	}

	lines := []string{sectionHeaderStyle.Render("Around " + m.detail.Location.Area)}
	if len(m.places) == 0 {
		return strings.Join(append(lines, mutedStyle.Render("No places found")), "\n")
	}

	for _, p := range m.places {
		heading := valueStyle.Bold(true).Render(p.Name) + mutedStyle.Render(" ("+p.Type+")")
		if p.Rating != nil {
			heading += fmt.Sprintf("  ★%.1f", *p.Rating)
		}
		if p.PriceLevel != nil && *p.PriceLevel > 0 {
			heading += "  " + strings.Repeat("¥", *p.PriceLevel)
		}
		lines = append(lines, "", heading, "   "+p.Location.Address)
		if p.Description != nil {
			lines = append(lines, "   "+mutedStyle.Render(*p.Description))
		}
	}
	return strings.Join(lines, "\n")
}

func field(label, value string) string {
	return labelStyle.Render(label+": ") + value
}

func formatSpan(e *models.Event) string {
	start, end := e.StartDatetime.Time, e.EndDatetime.Time
	endLayout := "15:04"
	if start.YearDay() != end.YearDay() || start.Year() != end.Year() {
		endLayout = "Mon Jan 2 15:04"
	}
	return fmt.Sprintf("%s - %s (%s)", start.Format("Mon Jan 2 15:04"), end.Format(endLayout), e.Duration())
}

func formatPrice(p *float64) string {
	switch {
	case p == nil:
		return "Unknown"
	case *p == 0:
		return "Free"
	}
	return formatYen(*p)
}

func formatYen(v float64) string {
	return fmt.Sprintf("¥%.0f", v)
}
