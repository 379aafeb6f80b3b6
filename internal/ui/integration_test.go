package ui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ngmaloney/tokyo-weekend/internal/api"
	"github.com/ngmaloney/tokyo-weekend/internal/credentials"
)

const eventJSON = `{
	"id": 9, "name": "Asakusa Food Fair", "description": "Street food",
	"start_datetime": "2025-03-08T11:00:00.000000",
	"end_datetime": "2025-03-08T18:00:00.000000",
	"location": {"name": "Senso-ji", "address": "Asakusa", "coordinates": {"latitude": 35.7148, "longitude": 139.7967}, "area": "浅草"},
	"category": "フード", "external_links": {}, "price": null, "capacity": null
}`

// backend is a minimal Tokyo Weekend server for driving the model end to end
func backend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[" + eventJSON + "]"))
	})
	mux.HandleFunc("/events/9", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(eventJSON))
	})
	mux.HandleFunc("/events/9/favorite", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail": "Not authenticated"}`))
			return
		}
		w.Write([]byte(`{"id": 1, "user_id": 5, "event_id": 9}`))
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token": "tok", "token_type": "bearer"}`))
	})
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 5, "username": "hanako", "email": "hanako@example.jp", "is_active": true}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// TestIntegration_BrowseLoginFavorite tests the complete workflow against a live client
func TestIntegration_BrowseLoginFavorite(t *testing.T) {
	server := backend(t)
	client := api.NewClient(api.WithBaseURL(server.URL), api.WithStore(credentials.NewMemoryStore()))
	m := NewModel(client, tokyoStation)

	// Startup: logged out silently, events loaded
	m = run(t, m, checkSession(client))
	if m.user != nil || m.status != "" {
		t.Fatalf("after session check user = %+v status = %q", m.user, m.status)
	}
	m = run(t, m, fetchEvents(client, m.filter(), m.eventsTitle()))
	if len(m.events) != 1 || m.events[0].Location.Area != "浅草" {
		t.Fatalf("events = %+v", m.events)
	}

	// Open detail and try to favorite without a session
	m, cmd := press(t, m, "enter")
	m = run(t, m, cmd)
	if m.state != StateDetail {
		t.Fatalf("state = %v, want StateDetail", m.state)
	}
	m, cmd = press(t, m, "f")
	m = run(t, m, cmd)
	if !strings.Contains(m.status, "log in first") {
		t.Errorf("status = %q, want login hint", m.status)
	}

	// Log in
	m, _ = press(t, m, "4")
	m = typeText(t, m, "hanako@example.jp")
	m, _ = press(t, m, "enter")
	m = typeText(t, m, "pw")
	m, cmd = press(t, m, "enter")
	m = run(t, m, cmd)
	if m.user == nil || m.user.Username != "hanako" {
		t.Fatalf("user = %+v status = %q", m.user, m.status)
	}
	if !client.HasCredential() {
		t.Fatal("client should hold the token")
	}

	// Favorite now succeeds
	m, cmd = press(t, m, "enter")
	m = run(t, m, cmd)
	m, cmd = press(t, m, "f")
	m = run(t, m, cmd)
	if m.status != "Added to favorites" {
		t.Errorf("status = %q", m.status)
	}

	// Logout drops the credential
	m, _ = press(t, m, "L")
	if client.HasCredential() || m.user != nil {
		t.Error("logout should clear the session")
	}
}

// TestIntegration_ErrorRecovery tests that the list recovers after a failed load
func TestIntegration_ErrorRecovery(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.Write([]byte(`{"detail": "temporarily unavailable"}`))
			return
		}
		w.Write([]byte("[" + eventJSON + "]"))
	}))
	defer server.Close()

	client := api.NewClient(api.WithBaseURL(server.URL))
	m := NewModel(client, tokyoStation)

	m = run(t, m, fetchEvents(client, m.filter(), m.eventsTitle()))
	if m.state != StateError {
		t.Fatalf("state = %v, want StateError", m.state)
	}
	if !strings.Contains(m.err.Error(), "decoding failure") {
		t.Errorf("err = %v", m.err)
	}

	fail.Store(false)
	m, cmd := press(t, m, " ")
	m = run(t, m, cmd)
	if m.state != StateEvents || m.err != nil || len(m.events) != 1 {
		t.Errorf("state = %v err = %v events = %d", m.state, m.err, len(m.events))
	}
}
