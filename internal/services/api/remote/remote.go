// Package remote holds the request envelope and call runner shared by the console modules that talk to dLocal
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"kycdesk/internal/adapters/dlocal"
	perr "kycdesk/internal/platform/errors"
)

// Auth is the credential block every remote console call carries
// use_sandbox defaults to true; validation happens in the request builder
type Auth struct {
	Credentials dlocal.Credentials `json:"credentials" validate:"-"`
	UseSandbox  *bool              `json:"use_sandbox"`
}

// Env resolves the environment, sandbox unless told otherwise
func (a Auth) Env() dlocal.Environment {
	return dlocal.EnvFromSandbox(a.UseSandbox == nil || *a.UseSandbox)
}

// Creds returns the credentials bound to the chosen environment
func (a Auth) Creds() dlocal.Credentials {
	c := a.Credentials
	c.Login = strings.TrimSpace(c.Login)
	c.Env = a.Env()
	return c
}

// Dispatcher is satisfied by *dlocal.Client
type Dispatcher interface {
	Dispatch(ctx context.Context, req dlocal.SignedRequest) dlocal.CallResult
}

// MirrorFunc hands a result to the local mirror, nil means nothing was written
type MirrorFunc func(ctx context.Context, res dlocal.CallResult) *dlocal.LocalWrite

// Caller dispatches signed requests and renders them for the console
type Caller struct {
	d Dispatcher
}

// NewCaller constructs a Caller, a nil dispatcher is a wiring bug
func NewCaller(d Dispatcher) *Caller {
	if d == nil {
		panic("remote: nil dispatcher")
	}
	return &Caller{d: d}
}

// Do sends req and returns the display view with the mirror outcome attached
// every remote outcome is a value, only local failures are errors
func (c *Caller) Do(ctx context.Context, req dlocal.SignedRequest, mirror MirrorFunc) dlocal.View {
	res := c.d.Dispatch(ctx, req)
	v := res.View()
	if mirror != nil {
		v.Local = mirror(ctx, res)
	}
	return v
}

// SentString reads a top level string from the body that was sent
// used to mirror values the builder filled in, such as a generated order id
func SentString(req dlocal.SignedRequest, key string) string {
	var m map[string]any
	if err := json.Unmarshal(req.BodySent(), &m); err != nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// Strict decodes raw into T rejecting unknown fields
// field prefixes the error so it points at the offending block
func Strict[T any](field string, raw json.RawMessage) (T, error) {
	var out T
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return out, perr.FieldInvalidf(field, "%s is required", field)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, perr.WithField(perr.JSONErrf("invalid %s: %v", field, err), field)
	}
	return out, nil
}
