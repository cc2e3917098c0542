// Package module wires kyc into the API using modkit
package module

import (
	modkit "kycdesk/internal/modkit"
	"kycdesk/internal/modkit/httpkit"
	str "kycdesk/internal/platform/strings"
	kychttp "kycdesk/internal/services/api/kyc/http"
	kycsvc "kycdesk/internal/services/api/kyc/service"
	mirror "kycdesk/internal/services/mirror/domain"
)

// Ports declares what the kyc module needs from the mirror
// Writer may be nil, remote calls then skip the local copy
type Ports struct {
	Writer mirror.WriterPort
}

// Module implements the kyc module
type Module struct {
	b   modkit.Built
	svc kycsvc.Service
}

// New constructs the kyc module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	deps.MustRemote("kyc")
	b := modkit.Build(append([]modkit.Option{modkit.WithName("kyc"), modkit.WithPrefix("/verifications")}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	return &Module{b: b, svc: kycsvc.New(deps.Builder, deps.Dlocal, injected.Writer)}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { kychttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// Ports returns the kyc service port
func (m *Module) Ports() any { return m.svc }
