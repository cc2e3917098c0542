// Package module wires the local mirror views into the API using modkit
package module

import (
	modkit "kycdesk/internal/modkit"
	"kycdesk/internal/modkit/httpkit"
	str "kycdesk/internal/platform/strings"
	"kycdesk/internal/services/api/local/domain"
	localhttp "kycdesk/internal/services/api/local/http"
	localsvc "kycdesk/internal/services/api/local/service"
	mirror "kycdesk/internal/services/mirror/domain"
)

// Ports declares what the local module reads
// Query is required, Calls is nil when the ledger is disabled
type Ports struct {
	Query mirror.QueryPort
	Calls domain.CallsPort
}

// Module implements the local module
type Module struct {
	b   modkit.Built
	svc localsvc.Service
}

// New constructs the local module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("local"), modkit.WithPrefix("/local")}, opts...)...)

	injected, ok := b.Ports.(Ports)
	if !ok || injected.Query == nil {
		panic("local module requires Ports with a mirror query port")
	}
	deps.Log.Debug().Bool("calls", injected.Calls != nil).Msg("local views wired")
	return &Module{b: b, svc: localsvc.New(injected.Query, injected.Calls)}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { localhttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// Ports returns the local service port
func (m *Module) Ports() any { return m.svc }
