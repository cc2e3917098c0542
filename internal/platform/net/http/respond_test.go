package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "kycdesk/internal/platform/errors"
	pnet "kycdesk/internal/platform/net"
)

func decode(t *testing.T, rr *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope %q: %v", rr.Body.String(), err)
	}
	return env
}

func TestHandleStatuses(t *testing.T) {
	cases := []struct {
		name   string
		resp   Response
		status int
		code   perr.ErrorCode
		field  string
	}{
		{"ok", OK(map[string]int{"n": 1}), 200, 0, ""},
		{"zero status", Response{Body: "x"}, 200, 0, ""},
		{"created", Created("id"), 201, 0, ""},
		{"validation", Error(perr.FieldInvalidf("country", "country is required")), 400, perr.ErrorCodeValidation, "country"},
		{"not found", Error(perr.NotFoundf("no payout")), 404, perr.ErrorCodeNotFound, ""},
		{"upstream", Error(perr.New(perr.ErrorCodeUpstream, "rejected")), 502, perr.ErrorCodeUpstream, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := Handle(func(*stdhttp.Request) Response { return c.resp })
			req := httptest.NewRequest("GET", "/", nil)
			req = req.WithContext(pnet.WithRequestID(req.Context(), "req-7"))
			rr := httptest.NewRecorder()
			h(rr, req)

			if rr.Code != c.status {
				t.Fatalf("status = %d, want %d", rr.Code, c.status)
			}
			env := decode(t, rr)
			if env.StatusCode != c.status || env.RequestID != "req-7" {
				t.Fatalf("envelope = %+v", env)
			}
			if env.Code != c.code || env.Field != c.field {
				t.Fatalf("code/field = %v/%q", env.Code, env.Field)
			}
		})
	}
}

func TestHandleNoContentAndHeaders(t *testing.T) {
	h := Handle(func(*stdhttp.Request) Response {
		return Response{Status: 204, Header: stdhttp.Header{"X-Deleted": {"1"}}}
	})
	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest("DELETE", "/", nil))
	if rr.Code != 204 || rr.Body.Len() != 0 {
		t.Fatalf("204 wrote %d %q", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Deleted") != "1" {
		t.Fatalf("header not copied")
	}
}

func TestRespondHelpers(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondOK(rr, httptest.NewRequest("GET", "/", nil), []string{"a"})
	if rr.Code != 200 || !strings.Contains(rr.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("RespondOK = %d %q", rr.Code, rr.Header().Get("Content-Type"))
	}

	rr = httptest.NewRecorder()
	RespondError(rr, httptest.NewRequest("GET", "/", nil), perr.Unavailablef("db down"))
	env := decode(t, rr)
	if rr.Code != 503 || env.Error != "db down" || env.Code != perr.ErrorCodeUnavailable {
		t.Fatalf("RespondError = %d %+v", rr.Code, env)
	}
}

type echoIn struct {
	Country string `json:"country" validate:"required,len=2"`
}

func TestJSONHandlers(t *testing.T) {
	h := JSONHandler(func(_ *stdhttp.Request, in echoIn) (any, error) {
		if in.Country == "ZZ" {
			return Created(in.Country), nil
		}
		return in, nil
	})

	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest("POST", "/", strings.NewReader(`{"country":"AR"}`)))
	if rr.Code != 200 {
		t.Fatalf("ok status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h(rr, httptest.NewRequest("POST", "/", strings.NewReader(`{"country":"ZZ"}`)))
	if rr.Code != 201 {
		t.Fatalf("passthrough Response status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h(rr, httptest.NewRequest("POST", "/", strings.NewReader(`{"country":"ARG"}`)))
	if env := decode(t, rr); rr.Code != 400 || env.Field != "country" {
		t.Fatalf("validation = %d %+v", rr.Code, env)
	}

	nb := JSONHandlerNoBody(func(*stdhttp.Request) (any, error) { return nil, perr.ErrNotFound })
	rr = httptest.NewRecorder()
	nb(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != 404 {
		t.Fatalf("no body err status = %d", rr.Code)
	}
}
