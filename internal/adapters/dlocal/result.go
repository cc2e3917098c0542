package dlocal

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Kind tags a CallResult
type Kind string

const (
	// KindSuccess is a 2xx with a JSON body and no embedded error
	KindSuccess Kind = "success"
	// KindTransportFailure means no usable response arrived
	KindTransportFailure Kind = "transport_failure"
	// KindAPIError means the remote side rejected the call
	KindAPIError Kind = "api_error"
)

// CallResult is the outcome of one Dispatch
// StatusCode and Body are set for success and api errors,
// ErrorCode and Message for api errors, Cause and Cancelled for transport failures
type CallResult struct {
	Kind       Kind
	StatusCode int
	Body       json.RawMessage
	ErrorCode  string
	Message    string
	Cause      error
	Cancelled  bool
	Meta       Meta
}

// Meta is the debug trail shown next to every result
type Meta struct {
	CallID          string
	Op              Operation
	Family          Family
	Env             Environment
	Method          string
	URL             string
	XDate           string
	Signature       string
	HeadersSent     []Header
	BodySent        json.RawMessage
	ResponseHeaders http.Header
	Latency         time.Duration
}

// OK reports a success
func (r CallResult) OK() bool { return r.Kind == KindSuccess }

// Object decodes a success body as a JSON object, nil when it is not one
func (r CallResult) Object() map[string]any {
	var m map[string]any
	if err := json.Unmarshal(r.Body, &m); err != nil {
		return nil
	}
	return m
}

// View is the console rendering of a CallResult
type View struct {
	CallID          string            `json:"call_id"`
	Success         bool              `json:"success"`
	Outcome         Kind              `json:"outcome"`
	Operation       Operation         `json:"operation"`
	Environment     Environment       `json:"environment"`
	Method          string            `json:"method"`
	URL             string            `json:"url"`
	StatusCode      int               `json:"status_code,omitempty"`
	Response        json.RawMessage   `json:"response,omitempty"`
	ErrorCode       string            `json:"error_code,omitempty"`
	Error           string            `json:"error,omitempty"`
	Cancelled       bool              `json:"cancelled,omitempty"`
	ResponseHeaders map[string]string `json:"response_headers"`
	HeadersSent     []Header          `json:"headers_sent"`
	Signature       string            `json:"signature"`
	Date            string            `json:"date"`
	BodySent        json.RawMessage   `json:"body_sent,omitempty"`
	LatencyMs       int64             `json:"latency_ms"`
	Local           *LocalWrite       `json:"local,omitempty"`
}

// LocalWrite reports what the mirror did with a success
type LocalWrite struct {
	Saved   bool   `json:"saved_locally"`
	LocalID int64  `json:"local_id,omitempty"`
	Error   string `json:"save_error,omitempty"`
}

// View renders r for display, headers are already redacted in Meta
func (r CallResult) View() View {
	v := View{
		CallID:          r.Meta.CallID,
		Success:         r.OK(),
		Outcome:         r.Kind,
		Operation:       r.Meta.Op,
		Environment:     r.Meta.Env,
		Method:          r.Meta.Method,
		URL:             r.Meta.URL,
		StatusCode:      r.StatusCode,
		Response:        r.Body,
		ErrorCode:       r.ErrorCode,
		Error:           r.Message,
		Cancelled:       r.Cancelled,
		ResponseHeaders: flatten(r.Meta.ResponseHeaders),
		HeadersSent:     r.Meta.HeadersSent,
		Signature:       r.Meta.Signature,
		Date:            r.Meta.XDate,
		BodySent:        r.Meta.BodySent,
		LatencyMs:       r.Meta.Latency.Milliseconds(),
	}
	if r.Kind == KindTransportFailure && r.Cause != nil {
		v.Error = r.Cause.Error()
	}
	return v
}

func flatten(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		out[k] = strings.Join(vv, ", ")
	}
	return out
}
