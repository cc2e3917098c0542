// Package module implements the mirror service module
package module

import (
	"context"

	"kycdesk/internal/adapters/dlocal"
	"kycdesk/internal/modkit"
	"kycdesk/internal/modkit/httpkit"
	"kycdesk/internal/platform/config"
	"kycdesk/internal/services/mirror/domain"
	"kycdesk/internal/services/mirror/repo"
	"kycdesk/internal/services/mirror/service"
)

// CallsPort summarizes the outbound call ledger
type CallsPort interface {
	CountByOutcome(ctx context.Context) ([]repo.OutcomeCount, error)
}

// Ports exposed by the mirror module
// Ledger and Calls are nil when ClickHouse is disabled
type Ports struct {
	Writer domain.WriterPort
	Query  domain.QueryPort
	Ledger dlocal.Ledger
	Calls  CallsPort
}

// Module implements the mirror service module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ch    *repo.CH
	ports Ports
}

// New constructs a new mirror module
func New(deps modkit.Deps) *Module {
	// global keys, deps.Cfg carries the api prefix
	opts := FromConfig(config.New())
	svc := service.New(deps.PG, repo.NewPG())

	m := &Module{deps: deps, opts: opts}
	m.ports = Ports{Writer: svc, Query: svc}
	if deps.CH != nil {
		m.ch = repo.NewCH(deps.CH)
		m.ports.Ledger = service.NewLedger(m.ch, opts.LedgerTimeout)
		m.ports.Calls = m.ch
	}
	return m
}

// Migrate applies the pg schema and the ledger table when enabled
func (m *Module) Migrate(ctx context.Context) error {
	if !m.opts.Migrate {
		return nil
	}
	if m.deps.PG != nil {
		if err := repo.Migrate(ctx, m.deps.PG); err != nil {
			return err
		}
	}
	if m.ch != nil {
		if err := m.ch.MigrateLedger(ctx); err != nil {
			return err
		}
	}
	m.deps.Log.Info().Bool("ledger", m.ch != nil).Msg("mirror schema ready")
	return nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "mirror" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
