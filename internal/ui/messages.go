package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/tokyo-weekend/internal/api"
	"github.com/ngmaloney/tokyo-weekend/internal/models"
)

// Message types for async operations

// sessionCheckedMsg is sent once the stored credential has been tried
type sessionCheckedMsg struct {
	user *models.User
	err  error
}

// eventsFetchedMsg carries a browse or search result
type eventsFetchedMsg struct {
	events []models.Event
	title  string
	err    error
}

type eventDetailMsg struct {
	event *models.Event
	err   error
}

type routesFetchedMsg struct {
	routes []models.RouteOption
	err    error
}

type placesFetchedMsg struct {
	area   string
	places []models.NearbyPlace
	err    error
}

type favoritesFetchedMsg struct {
	events []models.Event
	err    error
}

type scheduleFetchedMsg struct {
	events []models.Event
	err    error
}

type favoriteAddedMsg struct {
	favorite *models.Favorite
	err      error
}

type scheduledMsg struct {
	schedule *models.Schedule
	err      error
}

// removedMsg reports a favorite or schedule entry removal
type removedMsg struct {
	from    AppState
	eventID int
	err     error
}

type loggedInMsg struct {
	user *models.User
	err  error
}

type registeredMsg struct {
	user *models.User
	err  error
}

func checkSession(s api.AuthService) tea.Cmd {
	return func() tea.Msg {
		user, err := s.FetchCurrentUser(context.Background())
		return sessionCheckedMsg{user: user, err: err}
	}
}

func fetchEvents(s api.EventService, filter api.EventFilter, title string) tea.Cmd {
	return func() tea.Msg {
		events, err := s.FetchEvents(context.Background(), filter)
		return eventsFetchedMsg{events: events, title: title, err: err}
	}
}

func searchEvents(s api.EventService, query string) tea.Cmd {
	return func() tea.Msg {
		events, err := s.SearchEvents(context.Background(), query)
		return eventsFetchedMsg{events: events, title: "Search: " + query, err: err}
	}
}

func fetchEventDetails(s api.EventService, id int) tea.Cmd {
	return func() tea.Msg {
		event, err := s.FetchEventDetails(context.Background(), id)
		return eventDetailMsg{event: event, err: err}
	}
}

func fetchRoutes(s api.RouteService, eventID int, from models.Coordinates) tea.Cmd {
	return func() tea.Msg {
		routes, err := s.FetchRoutes(context.Background(), eventID, from.Latitude, from.Longitude)
		return routesFetchedMsg{routes: routes, err: err}
	}
}

func fetchNearbyPlaces(s api.PlaceService, area string) tea.Cmd {
	return func() tea.Msg {
		places, err := s.FetchNearbyPlaces(context.Background(), area, "")
		return placesFetchedMsg{area: area, places: places, err: err}
	}
}

func fetchFavorites(s api.FavoriteService) tea.Cmd {
	return func() tea.Msg {
		events, err := s.FetchFavorites(context.Background())
		return favoritesFetchedMsg{events: events, err: err}
	}
}

func fetchSchedule(s api.ScheduleService) tea.Cmd {
	return func() tea.Msg {
		events, err := s.FetchSchedule(context.Background())
		return scheduleFetchedMsg{events: events, err: err}
	}
}

func addFavorite(s api.FavoriteService, eventID int) tea.Cmd {
	return func() tea.Msg {
		fav, err := s.AddFavorite(context.Background(), eventID)
		return favoriteAddedMsg{favorite: fav, err: err}
	}
}

func addToSchedule(s api.ScheduleService, eventID int, reminder bool) tea.Cmd {
	return func() tea.Msg {
		sched, err := s.AddToSchedule(context.Background(), eventID, reminder)
		return scheduledMsg{schedule: sched, err: err}
	}
}

func removeFavorite(s api.FavoriteService, eventID int) tea.Cmd {
	return func() tea.Msg {
		err := s.RemoveFavorite(context.Background(), eventID)
		return removedMsg{from: StateFavorites, eventID: eventID, err: err}
	}
}

func removeFromSchedule(s api.ScheduleService, eventID int) tea.Cmd {
	return func() tea.Msg {
		err := s.RemoveFromSchedule(context.Background(), eventID)
		return removedMsg{from: StateSchedule, eventID: eventID, err: err}
	}
}

func login(s api.AuthService, email, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := s.Login(context.Background(), email, password)
		return loggedInMsg{user: user, err: err}
	}
}

func register(s api.AuthService, username, email, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := s.Register(context.Background(), username, email, password)
		return registeredMsg{user: user, err: err}
	}
}
