// Package dlocaltest stands up a fake remote API for console tests
package dlocaltest

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"kycdesk/internal/adapters/dlocal"
)

// Now is the clock every fake builder signs with
var Now = time.Date(2026, 1, 8, 15, 0, 0, 0, time.UTC)

// Remote is a fake dLocal host with a builder and client pointed at it
type Remote struct {
	Server  *httptest.Server
	Builder *dlocal.Builder
	Client  *dlocal.Client

	hits atomic.Int64
}

// Hits reports how many requests reached the server
func (r *Remote) Hits() int64 { return r.hits.Load() }

// New serves h for every family and environment
func New(t *testing.T, h http.HandlerFunc) *Remote {
	t.Helper()
	r := &Remote{}
	r.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.hits.Add(1)
		h(w, req)
	}))
	t.Cleanup(r.Server.Close)

	u := r.Server.URL
	r.Builder = dlocal.NewBuilder(dlocal.Endpoints{
		Sandbox:           u,
		Production:        u,
		PayoutsSandbox:    u,
		PayoutsProduction: u,
	},
		dlocal.WithClock(func() time.Time { return Now }),
		dlocal.WithIDs(func() string { return "ORD-GEN" }),
	)
	c, err := dlocal.NewClient(dlocal.Options{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("dlocal client: %v", err)
	}
	r.Client = c
	return r
}

// JSON answers every call with status and body
func JSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}
