package api

import (
	"context"

	"github.com/ngmaloney/tokyo-weekend/internal/models"
)

// AuthService manages the session with the backend
type AuthService interface {
	// Login exchanges credentials for a token, stores it and returns the
	// current user.
	Login(ctx context.Context, email, password string) (*models.User, error)

	// Register creates an account. It does not log in.
	Register(ctx context.Context, username, email, password string) (*models.User, error)

	// FetchCurrentUser returns the user owning the stored credential
	FetchCurrentUser(ctx context.Context) (*models.User, error)

	// Logout forgets the stored credential
	Logout()
}

// EventService browses and searches events
type EventService interface {
	FetchEvents(ctx context.Context, filter EventFilter) ([]models.Event, error)
	SearchEvents(ctx context.Context, query string) ([]models.Event, error)
	FetchEventDetails(ctx context.Context, id int) (*models.Event, error)
}

// RouteService plans trips to events
type RouteService interface {
	// FetchRoutes returns route options from a point to an event. With no
	// transport types, models.DefaultTransportTypes are requested.
	FetchRoutes(ctx context.Context, eventID int, fromLat, fromLng float64, transportTypes ...models.TransportType) ([]models.RouteOption, error)
}

// PlaceService finds places around an area
type PlaceService interface {
	// FetchNearbyPlaces lists places in area; an empty placeType means all types.
	FetchNearbyPlaces(ctx context.Context, area, placeType string) ([]models.NearbyPlace, error)
}

// FavoriteService manages the user's saved events
type FavoriteService interface {
	FetchFavorites(ctx context.Context) ([]models.Event, error)
	AddFavorite(ctx context.Context, eventID int) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, eventID int) error
}

// ScheduleService manages the events the user plans to attend
type ScheduleService interface {
	FetchSchedule(ctx context.Context) ([]models.Event, error)
	AddToSchedule(ctx context.Context, eventID int, reminder bool) (*models.Schedule, error)
	RemoveFromSchedule(ctx context.Context, eventID int) error
}

// Service is everything the backend offers.
type Service interface {
	AuthService
	EventService
	RouteService
	PlaceService
	FavoriteService
	ScheduleService
}

var _ Service = (*Client)(nil)
