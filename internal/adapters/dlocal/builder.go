package dlocal

import (
	"net/url"
	"strings"
	"time"

	perr "kycdesk/internal/platform/errors"

	"github.com/google/uuid"
)

// Builder turns an operation and its fields into exactly one SignedRequest
// every check runs before serialization so invalid input never reaches the signer
type Builder struct {
	ends     Endpoints
	now      func() time.Time
	boundary func() string
	newID    func() string
}

// BuilderOption tweaks a Builder
type BuilderOption func(*Builder)

// WithClock pins the clock used for X-Date
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

// WithBoundary pins the multipart boundary
func WithBoundary(fn func() string) BuilderOption {
	return func(b *Builder) { b.boundary = fn }
}

// WithIDs replaces the generator used for missing order ids
func WithIDs(fn func() string) BuilderOption {
	return func(b *Builder) { b.newID = fn }
}

// NewBuilder returns a Builder over ends
func NewBuilder(ends Endpoints, opts ...BuilderOption) *Builder {
	b := &Builder{
		ends:     ends,
		now:      time.Now,
		boundary: func() string { return "" },
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Endpoints returns the configured hosts
func (b *Builder) Endpoints() Endpoints { return b.ends }

func (b *Builder) seal(c Credentials, d draft) (SignedRequest, error) {
	return seal(b.ends, b.now(), c, d)
}

// pathID validates and escapes a remote identifier used in a path
func pathID(field, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", perr.FieldInvalidf(field, "%s is required", field)
	}
	return url.PathEscape(id), nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
