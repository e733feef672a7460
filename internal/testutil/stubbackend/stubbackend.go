// Package stubbackend fakes the GreenHub HTTP backend for tests. Routes are
// registered with mux path templates; every request is recorded.
package stubbackend

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// Recorded is one request as the backend received it.
type Recorded struct {
	Method string
	Path   string
	Vars   map[string]string
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded body into v.
func (r Recorded) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

type Backend struct {
	*httptest.Server

	router *mux.Router

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []Recorded
}

// New starts a backend that answers 404 {"message":"not found"} until routes
// are added. It is closed when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		router:   mux.NewRouter(),
		handlers: make(map[string]http.HandlerFunc),
	}
	b.router.Use(b.record)
	b.router.NotFoundHandler = b.record(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	}))
	b.router.MethodNotAllowedHandler = b.record(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
	}))
	b.Server = httptest.NewServer(b.router)
	t.Cleanup(b.Close)
	return b
}

// On answers method+path with status and body. A string or []byte body is
// written verbatim; anything else is encoded as JSON. Registering the same
// route again replaces the reply.
func (b *Backend) On(method, path string, status int, body any) {
	b.OnFunc(method, path, func(w http.ResponseWriter, _ *http.Request) {
		switch v := body.(type) {
		case string:
			w.WriteHeader(status)
			_, _ = io.WriteString(w, v)
		case []byte:
			w.WriteHeader(status)
			_, _ = w.Write(v)
		default:
			WriteJSON(w, status, v)
		}
	})
}

// OnFunc installs a custom handler for method+path.
func (b *Backend) OnFunc(method, path string, fn http.HandlerFunc) {
	key := method + " " + path

	b.mu.Lock()
	_, exists := b.handlers[key]
	b.handlers[key] = fn
	b.mu.Unlock()

	if exists {
		return
	}
	b.router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		h := b.handlers[key]
		b.mu.Unlock()
		h(w, r)
	}).Methods(method)
}

// Requests returns every recorded request in arrival order.
func (b *Backend) Requests() []Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Recorded(nil), b.requests...)
}

// Last returns the most recent request.
func (b *Backend) Last() (Recorded, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return Recorded{}, false
	}
	return b.requests[len(b.requests)-1], true
}

// Count reports how many requests hit method+path (the concrete path, not
// the template).
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		b.mu.Lock()
		b.requests = append(b.requests, Recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Vars:   mux.Vars(r),
			Header: r.Header.Clone(),
			Body:   body,
		})
		b.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
