package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ngmaloney/tokyo-weekend/internal/credentials"
)

// newTestClient points a client at handler and counts the requests it serves.
func newTestClient(t *testing.T, store credentials.Store, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	if store == nil {
		store = credentials.NewMemoryStore()
	}
	return NewClient(WithBaseURL(server.URL), WithStore(store)), &hits
}

func serveFile(t *testing.T, name string) http.HandlerFunc {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("reading fixture %s: %v", name, err)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

func storeWithToken(t *testing.T, token string) *credentials.MemoryStore {
	t.Helper()
	store := credentials.NewMemoryStore()
	if err := store.Save(credentials.AuthTokenKey, token); err != nil {
		t.Fatalf("seeding store: %v", err)
	}
	return store
}

func TestNewClient(t *testing.T) {
	client := NewClient()

	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %s, want %s", client.baseURL, DefaultBaseURL)
	}
	if client.httpClient.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", client.httpClient.Timeout)
	}
	if client.HasCredential() {
		t.Error("new client with empty store should have no credential")
	}
}

func TestNewClient_Options(t *testing.T) {
	client := NewClient(
		WithBaseURL("https://api.example.jp/"),
		WithTimeout(5*time.Second),
		WithStore(storeWithToken(t, "stored")),
	)

	if client.baseURL != "https://api.example.jp" {
		t.Errorf("baseURL = %s, trailing slash should be trimmed", client.baseURL)
	}
	if client.httpClient.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", client.httpClient.Timeout)
	}
	if client.credential() != "stored" {
		t.Errorf("credential = %q, want token loaded from store", client.credential())
	}
}

func TestNewClient_TimeoutLeavesCallerClient(t *testing.T) {
	shared := &http.Client{}

	for name, opts := range map[string][]Option{
		"timeout last":  {WithHTTPClient(shared), WithTimeout(5 * time.Second)},
		"timeout first": {WithTimeout(5 * time.Second), WithHTTPClient(shared)},
	} {
		t.Run(name, func(t *testing.T) {
			client := NewClient(opts...)
			if client.httpClient.Timeout != 5*time.Second {
				t.Errorf("timeout = %v, want 5s", client.httpClient.Timeout)
			}
			if shared.Timeout != 0 {
				t.Errorf("caller's client timeout changed to %v", shared.Timeout)
			}
		})
	}

	client := NewClient(WithHTTPClient(nil), WithTimeout(time.Second))
	if client.httpClient == nil || client.httpClient.Timeout != time.Second {
		t.Errorf("nil HTTP client should keep the default, got %+v", client.httpClient)
	}
}

func TestClient_RequiredAuthShortCircuits(t *testing.T) {
	client, hits := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})
	ctx := context.Background()

	calls := map[string]func() error{
		"FetchCurrentUser":   func() error { _, err := client.FetchCurrentUser(ctx); return err },
		"FetchFavorites":     func() error { _, err := client.FetchFavorites(ctx); return err },
		"AddFavorite":        func() error { _, err := client.AddFavorite(ctx, 1); return err },
		"RemoveFavorite":     func() error { return client.RemoveFavorite(ctx, 1) },
		"FetchSchedule":      func() error { _, err := client.FetchSchedule(ctx); return err },
		"AddToSchedule":      func() error { _, err := client.AddToSchedule(ctx, 1, true); return err },
		"RemoveFromSchedule": func() error { return client.RemoveFromSchedule(ctx, 1) },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			if !errors.Is(err, ErrAuthenticationRequired) {
				t.Errorf("error = %v, want ErrAuthenticationRequired", err)
			}
			var apiErr *Error
			if errors.As(err, &apiErr) && apiErr.Op != name {
				t.Errorf("Op = %s, want %s", apiErr.Op, name)
			}
		})
	}

	if n := atomic.LoadInt32(hits); n != 0 {
		t.Errorf("server saw %d requests, want 0", n)
	}
}

func TestClient_OptionalAuthHeader(t *testing.T) {
	var gotAuth string
	handler := func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}

	anon, _ := newTestClient(t, nil, handler)
	if _, err := anon.FetchEvents(context.Background(), EventFilter{}); err != nil {
		t.Fatalf("FetchEvents() error = %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want none without credential", gotAuth)
	}

	authed, _ := newTestClient(t, storeWithToken(t, "abc123"), handler)
	if _, err := authed.FetchEvents(context.Background(), EventFilter{}); err != nil {
		t.Fatalf("FetchEvents() error = %v", err)
	}
	if gotAuth != "Bearer abc123" {
		t.Errorf("Authorization = %q, want Bearer abc123", gotAuth)
	}
}

func TestClient_RequestHeaders(t *testing.T) {
	client, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("X-Request-ID header missing")
		}
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		w.Write([]byte("[]"))
	})

	if _, err := client.SearchEvents(context.Background(), "market"); err != nil {
		t.Fatalf("SearchEvents() error = %v", err)
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(WithBaseURL(url))
	_, err := client.FetchEvents(context.Background(), EventFilter{})

	if !errors.Is(err, ErrTransport) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
}

func TestClient_InvalidBaseURL(t *testing.T) {
	tests := []string{"not a url", "://missing-scheme", "localhost:8000"}

	for _, base := range tests {
		t.Run(base, func(t *testing.T) {
			client := NewClient(WithBaseURL(base))
			_, err := client.FetchEvents(context.Background(), EventFilter{})
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestClient_MalformedJSONIsDecoding(t *testing.T) {
	client, _ := newTestClient(t, storeWithToken(t, "tok"), func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 1, "name": `))
	})
	ctx := context.Background()

	calls := map[string]func() error{
		"FetchEvents":       func() error { _, err := client.FetchEvents(ctx, EventFilter{}); return err },
		"SearchEvents":      func() error { _, err := client.SearchEvents(ctx, "x"); return err },
		"FetchEventDetails": func() error { _, err := client.FetchEventDetails(ctx, 1); return err },
		"FetchRoutes":       func() error { _, err := client.FetchRoutes(ctx, 1, 35.0, 139.0); return err },
		"FetchNearbyPlaces": func() error { _, err := client.FetchNearbyPlaces(ctx, "渋谷", ""); return err },
		"FetchCurrentUser":  func() error { _, err := client.FetchCurrentUser(ctx); return err },
		"FetchFavorites":    func() error { _, err := client.FetchFavorites(ctx); return err },
		"AddFavorite":       func() error { _, err := client.AddFavorite(ctx, 1); return err },
		"FetchSchedule":     func() error { _, err := client.FetchSchedule(ctx); return err },
		"AddToSchedule":     func() error { _, err := client.AddToSchedule(ctx, 1, false); return err },
		"Register":          func() error { _, err := client.Register(ctx, "u", "e", "p"); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			if !errors.Is(err, ErrDecoding) {
				t.Errorf("error = %v, want ErrDecoding", err)
			}
			if errors.Is(err, ErrTransport) {
				t.Error("malformed JSON must not be classified as transport")
			}
		})
	}
}

func TestClient_ErrorBodyIsDecoding(t *testing.T) {
	client, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Event not found"}`))
	})

	event, err := client.FetchEventDetails(context.Background(), 999)
	if event != nil {
		t.Errorf("event = %+v, want nil", event)
	}
	if !errors.Is(err, ErrDecoding) {
		t.Fatalf("error = %v, want ErrDecoding", err)
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatal("error is not *Error")
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Error(), "HTTP 404") {
		t.Errorf("Error() = %q, should mention status", apiErr.Error())
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	client, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchEvents(ctx, EventFilter{})
	if !errors.Is(err, ErrTransport) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, should wrap context.Canceled", err)
	}
}
