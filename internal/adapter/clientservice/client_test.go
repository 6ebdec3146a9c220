package clientservice

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := New(Config{BaseURL: server.URL + "/api/v1/", Timeout: time.Second, MaxRetries: 2, Logger: zerolog.Nop()})
	c.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return c
}

const joseLemaJSON = `{"clientId":1,"persona":{"identification":"1234567890","name":"Jose Lema","gender":"M","age":35,"address":"Otavalo sn y principal","phone":"0982547850"},"active":true}`

func TestFetchClientByID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/clients/1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(joseLemaJSON))
	})

	identity, err := c.FetchClient(context.Background(), domain.ClientRefByID(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.ClientID != 1 || identity.Name != "Jose Lema" || identity.Identification != "1234567890" || !identity.Active {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestFetchClientByIdentification(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/clients/identification/1234567890" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(joseLemaJSON))
	})

	identity, err := c.FetchClient(context.Background(), domain.ClientRefByIdentification("1234567890"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.ClientID != 1 {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestFetchClientNotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"message":"client not found"}`, http.StatusNotFound)
	})

	_, err := c.FetchClient(context.Background(), domain.ClientRefByID(404))
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestFetchClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(joseLemaJSON))
	})

	identity, err := c.FetchClient(context.Background(), domain.ClientRefByID(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.ClientID != 1 || calls.Load() != 3 {
		t.Fatalf("expected success on third call, got %+v after %d calls", identity, calls.Load())
	}
}

func TestFetchClientUpstreamUnavailable(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.FetchClient(context.Background(), domain.ClientRefByID(1))
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestFetchClientConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	c := New(Config{BaseURL: baseURL, MaxRetries: 1, Logger: zerolog.Nop()})
	c.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }

	_, err := c.FetchClient(context.Background(), domain.ClientRefByID(1))
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestFetchClientBadRequestIsPermanent(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.FetchClient(context.Background(), domain.ClientRefByID(1))
	if err == nil || errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}
