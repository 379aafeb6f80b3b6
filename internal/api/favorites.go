package api

import (
	"context"
	"net/http"

	"github.com/ngmaloney/tokyo-weekend/internal/models"
)

// FetchFavorites lists the events the user has saved
func (c *Client) FetchFavorites(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := c.do(ctx, request{
		op:     "FetchFavorites",
		method: http.MethodGet,
		path:   "/users/favorites",
		auth:   authRequired,
	}, &events)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// AddFavorite saves an event for the user
func (c *Client) AddFavorite(ctx context.Context, eventID int) (*models.Favorite, error) {
	var fav models.Favorite
	err := c.do(ctx, request{
		op:     "AddFavorite",
		method: http.MethodPost,
		path:   eventPath(eventID) + "/favorite",
		auth:   authRequired,
	}, &fav)
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

// RemoveFavorite un-saves an event
func (c *Client) RemoveFavorite(ctx context.Context, eventID int) error {
	return c.doNoContent(ctx, request{
		op:     "RemoveFavorite",
		method: http.MethodDelete,
		path:   eventPath(eventID) + "/favorite",
		auth:   authRequired,
	})
}

// FetchSchedule lists the events the user plans to attend
func (c *Client) FetchSchedule(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := c.do(ctx, request{
		op:     "FetchSchedule",
		method: http.MethodGet,
		path:   "/users/schedule",
		auth:   authRequired,
	}, &events)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// AddToSchedule puts an event on the user's schedule
func (c *Client) AddToSchedule(ctx context.Context, eventID int, reminder bool) (*models.Schedule, error) {
	var sched models.Schedule
	err := c.do(ctx, request{
		op:     "AddToSchedule",
		method: http.MethodPost,
		path:   eventPath(eventID) + "/schedule",
		query:  newParams().setBool("reminder", reminder).values(),
		auth:   authRequired,
	}, &sched)
	if err != nil {
		return nil, err
	}
	return &sched, nil
}

// RemoveFromSchedule takes an event off the user's schedule
func (c *Client) RemoveFromSchedule(ctx context.Context, eventID int) error {
	return c.doNoContent(ctx, request{
		op:     "RemoveFromSchedule",
		method: http.MethodDelete,
		path:   eventPath(eventID) + "/schedule",
		auth:   authRequired,
	})
}
