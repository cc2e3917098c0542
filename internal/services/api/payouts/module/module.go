// Package module wires payouts into the API using modkit
package module

import (
	modkit "kycdesk/internal/modkit"
	"kycdesk/internal/modkit/httpkit"
	str "kycdesk/internal/platform/strings"
	pohttp "kycdesk/internal/services/api/payouts/http"
	posvc "kycdesk/internal/services/api/payouts/service"
	mirror "kycdesk/internal/services/mirror/domain"
)

// Ports declares what the payouts module needs from the mirror
// Writer may be nil, remote calls then skip the local copy
type Ports struct {
	Writer mirror.WriterPort
}

// Module implements the payouts module
type Module struct {
	b   modkit.Built
	svc posvc.Service
}

// New constructs the payouts module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	deps.MustRemote("payouts")
	b := modkit.Build(append([]modkit.Option{modkit.WithName("payouts"), modkit.WithPrefix("/payouts")}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	return &Module{b: b, svc: posvc.New(deps.Builder, deps.Dlocal, injected.Writer)}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { pohttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// Ports returns the payouts service port
func (m *Module) Ports() any { return m.svc }
