// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"kycdesk/internal/adapters/dlocal"
	modkit "kycdesk/internal/modkit"
	"kycdesk/internal/modkit/httpkit"
	str "kycdesk/internal/platform/strings"
	metahttp "kycdesk/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	var ends dlocal.Endpoints
	if deps.Builder != nil {
		ends = deps.Builder.Endpoints()
	}
	d := metahttp.Deps{
		ServiceName: "kycdesk-api",
		StartedAt:   time.Now(),
		Endpoints:   ends,
	}
	// typed nils would read as configured
	if deps.PG != nil {
		d.PG = deps.PG
	}
	if deps.CH != nil {
		d.CH = deps.CH
	}
	return &Module{b: b, deps: d}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.b.Name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
