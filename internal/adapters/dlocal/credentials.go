package dlocal

import (
	"encoding/json"
	"fmt"

	"kycdesk/internal/core/signer"
	perr "kycdesk/internal/platform/errors"
	"kycdesk/internal/platform/net/http/bind"

	"github.com/rs/zerolog"
)

// Credentials identify the merchant on one call
// they travel with the request and are never stored, logged, or echoed back
type Credentials struct {
	Login     string      `json:"login" validate:"required"`
	TransKey  string      `json:"transaction_key" validate:"required"`
	SecretKey string      `json:"secret_key" validate:"required"`
	Env       Environment `json:"-"`
}

// Validate checks presence of every credential and a known environment
// a credential with control bytes is a signature error, it never reaches the wire
func (c Credentials) Validate() error {
	if err := check("credentials", c); err != nil {
		return err
	}
	for _, f := range []struct{ name, v string }{
		{"login", c.Login},
		{"transaction_key", c.TransKey},
		{"secret_key", c.SecretKey},
	} {
		if err := signer.CheckToken(f.name, f.v); err != nil {
			return perr.WithField(err, "credentials."+f.name)
		}
	}
	if !c.Env.Valid() {
		return perr.FieldInvalidf("environment", "unknown environment %q", c.Env)
	}
	return nil
}

// String never includes the keys
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{login=%s env=%s}", c.Login, c.Env)
}

// GoString keeps %#v as safe as %v
func (c Credentials) GoString() string { return c.String() }

// MarshalJSON emits only the non secret fields
func (c Credentials) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Login string      `json:"login"`
		Env   Environment `json:"environment"`
	}{c.Login, c.Env})
}

// MarshalZerologObject logs only login and environment
func (c Credentials) MarshalZerologObject(e *zerolog.Event) {
	e.Str("login", c.Login).Str("environment", string(c.Env))
}

// check validates v and prefixes the failing field path with prefix
func check(prefix string, v any) error {
	err := bind.Struct(v)
	if err == nil || prefix == "" {
		return err
	}
	if e, ok := perr.As(err); ok && e.Field() != "" {
		return perr.WithField(err, prefix+"."+e.Field())
	}
	return err
}
