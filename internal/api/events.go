package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ngmaloney/tokyo-weekend/internal/models"
)

// EventFilter narrows FetchEvents. Empty strings and zero times are absent
// and are not sent.
type EventFilter struct {
	Area      string
	Station   string
	StartDate time.Time // calendar date only
	EndDate   time.Time // calendar date only
	Category  string
}

func (f EventFilter) params() params {
	return newParams().
		setOptional("area", f.Area).
		setOptional("station", f.Station).
		setDate("start_date", f.StartDate).
		setDate("end_date", f.EndDate).
		setOptional("category", f.Category)
}

// FetchEvents lists events matching filter
func (c *Client) FetchEvents(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	var events []models.Event
	err := c.do(ctx, request{
		op:     "FetchEvents",
		method: http.MethodGet,
		path:   "/events",
		query:  filter.params().values(),
		auth:   authOptional,
	}, &events)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// SearchEvents runs a free-text search
func (c *Client) SearchEvents(ctx context.Context, query string) ([]models.Event, error) {
	var events []models.Event
	err := c.do(ctx, request{
		op:     "SearchEvents",
		method: http.MethodGet,
		path:   "/events/search",
		query:  newParams().set("query", query).values(),
		auth:   authOptional,
	}, &events)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// FetchEventDetails returns a single event. An unknown id yields the
// backend's error body, which surfaces as KindDecoding.
func (c *Client) FetchEventDetails(ctx context.Context, id int) (*models.Event, error) {
	var event models.Event
	err := c.do(ctx, request{
		op:     "FetchEventDetails",
		method: http.MethodGet,
		path:   eventPath(id),
		auth:   authOptional,
	}, &event)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// FetchRoutes returns ways to reach an event from the given point
func (c *Client) FetchRoutes(ctx context.Context, eventID int, fromLat, fromLng float64, transportTypes ...models.TransportType) ([]models.RouteOption, error) {
	if len(transportTypes) == 0 {
		transportTypes = models.DefaultTransportTypes
	}
	types := make([]string, len(transportTypes))
	for i, tt := range transportTypes {
		types[i] = string(tt)
	}

	var routes []models.RouteOption
	err := c.do(ctx, request{
		op:     "FetchRoutes",
		method: http.MethodGet,
		path:   eventPath(eventID) + "/routes",
		query: newParams().
			setFloat("from_lat", fromLat).
			setFloat("from_lng", fromLng).
			set("transport_types", strings.Join(types, ",")).
			values(),
		auth: authOptional,
	}, &routes)
	if err != nil {
		return nil, err
	}
	return routes, nil
}

// FetchNearbyPlaces lists places in an area, optionally of one type
// (restaurant, cafe, hotel, entertainment).
func (c *Client) FetchNearbyPlaces(ctx context.Context, area, placeType string) ([]models.NearbyPlace, error) {
	if area == "" {
		return nil, &Error{Kind: KindInvalidRequest, Op: "FetchNearbyPlaces", Err: fmt.Errorf("area is required")}
	}

	var places []models.NearbyPlace
	err := c.do(ctx, request{
		op:     "FetchNearbyPlaces",
		method: http.MethodGet,
		path:   "/nearby/" + url.PathEscape(area),
		query:  newParams().setOptional("place_type", placeType).values(),
		auth:   authOptional,
	}, &places)
	if err != nil {
		return nil, err
	}
	return places, nil
}

func eventPath(id int) string {
	return fmt.Sprintf("/events/%d", id)
}
