package models

import (
	"fmt"
	"net/url"
)

// Coordinates is a point in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Location describes where an event or place is.
type Location struct {
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
	Area        string      `json:"area"`              // e.g. "渋谷"
	Station     *string     `json:"station,omitempty"` // nearest station, if known
}

// StationName returns the station or "" when unknown.
func (l Location) StationName() string {
	if l.Station == nil {
		return ""
	}
	return *l.Station
}

// ExternalLinks are optional absolute URLs attached to an event.
type ExternalLinks struct {
	Website   *string `json:"website,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
	Twitter   *string `json:"twitter,omitempty"`
}

// Validate reports the first link that is not an absolute URL.
func (l ExternalLinks) Validate() error {
	links := []struct {
		name string
		val  *string
	}{
		{"website", l.Website},
		{"instagram", l.Instagram},
		{"twitter", l.Twitter},
	}
	for _, link := range links {
		if link.val == nil {
			continue
		}
		u, err := url.Parse(*link.val)
		if err != nil {
			return fmt.Errorf("%s link: %w", link.name, err)
		}
		if !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("%s link %q is not an absolute URL", link.name, *link.val)
		}
	}
	return nil
}
