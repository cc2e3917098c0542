package middleware_test

import (
	"compress/flate"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perr "kycdesk/internal/platform/errors"
	"kycdesk/internal/platform/logger"
	"kycdesk/internal/platform/net/middleware"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func TestAccessLogPassThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, "ok")
	})
	for _, slow := range []time.Duration{0, time.Nanosecond} {
		rr := httptest.NewRecorder()
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: slow})(next).
			ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/payouts", nil))
		if rr.Code != http.StatusCreated || rr.Body.String() != "ok" {
			t.Fatalf("slow=%v got %d %q", slow, rr.Code, rr.Body.String())
		}
	}
}

func TestAccessLogBindsRequestID(t *testing.T) {
	var seen *logger.Logger
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.C(r.Context())
	})
	h := chain(next, middleware.RequestID(), middleware.AccessLogZerolog(middleware.AccessLogOptions{}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(chimw.RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen == nil || seen == logger.Get() {
		t.Fatalf("handler logger should carry the request id")
	}
}

func TestRecoverJSON(t *testing.T) {
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("kaboom") })
	h := chain(boom, middleware.RequestID(), middleware.RecoverJSON)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(chimw.RequestIDHeader, "rid-9")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") != "rid-9" {
		t.Fatalf("request id header = %q", rr.Header().Get("X-Request-ID"))
	}
	var body struct {
		Code      perr.ErrorCode `json:"code"`
		Error     string         `json:"error"`
		RequestID string         `json:"request_id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("body %q: %v", rr.Body.String(), err)
	}
	if body.Code != perr.ErrorCodePanic || body.RequestID != "rid-9" {
		t.Fatalf("body = %+v", body)
	}
	if strings.Contains(rr.Body.String(), "kaboom") {
		t.Fatalf("panic value leaked to client")
	}
}

func TestRecoverJSONRepanicsAbort(t *testing.T) {
	h := middleware.RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	defer func() {
		if v := recover(); v != http.ErrAbortHandler {
			t.Fatalf("recover = %v", v)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestCompress(t *testing.T) {
	h := middleware.Compress(flate.DefaultCompression)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":"`+strings.Repeat("a", 4<<10)+`"}`)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q", rr.Header().Get("Content-Encoding"))
	}
}

func TestCORSPreflight(t *testing.T) {
	h := middleware.CORS(middleware.CORSOptions{AllowedOrigins: []string{"https://console.example.test"}})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) }),
	)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/payments", nil)
	req.Header.Set("Origin", "https://console.example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://console.example.test" {
		t.Fatalf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/payments", nil)
	req.Header.Set("Origin", "https://evil.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin allowed: %q", got)
	}
}

func TestRequestSizeAndHeartbeat(t *testing.T) {
	read := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
		}
	})
	rr := httptest.NewRecorder()
	middleware.RequestSize(4)(read).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized body = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	middleware.Heartbeat("/ping")(read).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("heartbeat = %d", rr.Code)
	}
	if len(middleware.Defaults()) == 0 || middleware.Timeout(time.Second) == nil || middleware.NoCache() == nil {
		t.Fatalf("wrappers should be non nil")
	}
}
