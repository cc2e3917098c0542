package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "kycdesk/internal/platform/errors"
	phttp "kycdesk/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type stateIn struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

func newRouter() Router { return phttp.AdaptChi(chi.NewRouter()) }

func serve(t *testing.T, r Router, method, path, body string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
	var env Envelope
	if rr.Code != http.StatusNoContent {
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s: %v (%q)", method, path, err, rr.Body.String())
		}
	}
	return rr, env
}

func TestSugarMountsVerbs(t *testing.T) {
	r := newRouter()
	PatchJSON(r, "/verifications/{verification_id}/state", func(req *http.Request, in stateIn) (any, error) {
		return map[string]string{"id": Param(req, "verification_id"), "status": in.Status}, nil
	})
	PostJSON(r, "/payments", func(_ *http.Request, in stateIn) (any, error) { return Created(in.Status), nil })
	Get(r, "/local/payments", func(*http.Request) (any, error) { return []string{"P-1"}, nil })
	Post(r, "/verifications/{verification_id}/documents/{document_id}", func(req *http.Request) (any, error) {
		return Param(req, "document_id"), nil
	})
	Delete(r, "/local/payments/{id}", func(*http.Request) (any, error) { return NoContent(), nil })

	rr, env := serve(t, r, "PATCH", "/verifications/V-1/state", `{"status":"APPROVED"}`)
	if rr.Code != 200 {
		t.Fatalf("patch = %d", rr.Code)
	}
	if m, _ := env.Data.(map[string]any); m["id"] != "V-1" || m["status"] != "APPROVED" {
		t.Fatalf("patch data = %v", env.Data)
	}

	rr, env = serve(t, r, "PATCH", "/verifications/V-1/state", `{"status":"MAYBE"}`)
	if rr.Code != 400 || env.Code != perr.ErrorCodeValidation || env.Field != "status" {
		t.Fatalf("invalid enum = %d %+v", rr.Code, env)
	}

	rr, env = serve(t, r, "POST", "/payments", `{"status":"REJECTED"}`)
	if rr.Code != 201 || env.Data != "REJECTED" {
		t.Fatalf("post = %d %+v", rr.Code, env)
	}

	rr, _ = serve(t, r, "GET", "/local/payments", "")
	if rr.Code != 200 {
		t.Fatalf("get = %d", rr.Code)
	}

	_, env = serve(t, r, "POST", "/verifications/V-1/documents/D-9", "")
	if env.Data != "D-9" {
		t.Fatalf("post no body = %+v", env)
	}

	rr, _ = serve(t, r, "DELETE", "/local/payments/3", "")
	if rr.Code != 204 {
		t.Fatalf("delete = %d", rr.Code)
	}
}

func TestCallMapsErrors(t *testing.T) {
	r := newRouter()
	Get(r, "/missing", func(*http.Request) (any, error) { return nil, perr.ErrNotFound })
	Get(r, "/boom", func(*http.Request) (any, error) { return nil, errors.New("boom") })
	r.Get("/raw", Handle(func(*http.Request) Response { return Error(perr.Unavailablef("pg down")) }))

	cases := []struct {
		path string
		code int
	}{
		{"/missing", 404},
		{"/boom", 500},
		{"/raw", 503},
	}
	for _, c := range cases {
		rr, env := serve(t, r, "GET", c.path, "")
		if rr.Code != c.code || env.StatusCode != c.code {
			t.Fatalf("%s = %d (%+v), want %d", c.path, rr.Code, env, c.code)
		}
	}
}

func TestMountAPIAndUnder(t *testing.T) {
	r := newRouter()
	tag := func(v string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Add("X-Mw", v)
				next.ServeHTTP(w, req)
			})
		}
	}
	MountAPI(r, "/v1/", []func(http.Handler) http.Handler{tag("api")}, func(api Router) {
		MountUnder(api, "/local", []func(http.Handler) http.Handler{tag("local")}, func(sub Router) {
			Get(sub, "/payouts", func(*http.Request) (any, error) { return "ok", nil })
		})
		MountUnder(api, "/meta", nil, func(sub Router) {
			Get(sub, "/health", func(*http.Request) (any, error) { return "up", nil })
		})
	})

	rr, env := serve(t, r, "GET", "/api/v1/local/payouts", "")
	if rr.Code != 200 || env.Data != "ok" {
		t.Fatalf("local = %d %+v", rr.Code, env)
	}
	if got := rr.Header().Values("X-Mw"); len(got) != 2 || got[0] != "api" || got[1] != "local" {
		t.Fatalf("middleware order = %v", got)
	}

	rr, _ = serve(t, r, "GET", "/api/v1/meta/health", "")
	if got := rr.Header().Values("X-Mw"); len(got) != 1 {
		t.Fatalf("meta middleware = %v", got)
	}
}

func TestCommonStack(t *testing.T) {
	mws := CommonStack(StackOptions{CORSOrigins: []string{"http://localhost:5173"}})
	if len(mws) != 9 {
		t.Fatalf("stack size = %d", len(mws))
	}

	r := newRouter()
	MountAPI(r, "v1", mws, func(api Router) {
		Get(api, "/panic", func(*http.Request) (any, error) { panic("kaboom") })
		Get(api, "/ok", func(*http.Request) (any, error) { return "fine", nil })
	})

	rr, env := serve(t, r, "GET", "/api/v1/panic", "")
	if rr.Code != 500 || env.Code != perr.ErrorCodePanic {
		t.Fatalf("panic = %d %+v", rr.Code, env)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("panic response missing request id")
	}

	rr, env = serve(t, r, "GET", "/api/v1/ok", "")
	if rr.Code != 200 || env.RequestID == "" {
		t.Fatalf("ok = %d %+v", rr.Code, env)
	}
	if rr.Header().Get("Cache-Control") == "" {
		t.Fatalf("NoCache not applied")
	}
}
