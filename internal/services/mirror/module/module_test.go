package module

import (
	"context"
	"testing"

	"kycdesk/internal/modkit"
	"kycdesk/internal/modkit/module"
	"kycdesk/internal/platform/config"
	perr "kycdesk/internal/platform/errors"
)

func TestNewWithoutStores(t *testing.T) {
	m := New(modkit.Deps{Cfg: config.New()})
	if m.Name() != "mirror" || m.Prefix() != "" {
		t.Fatalf("name/prefix = %q %q", m.Name(), m.Prefix())
	}
	if err := m.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate without stores: %v", err)
	}

	p := module.MustPortsOf[Ports](m)
	if p.Ledger != nil || p.Calls != nil {
		t.Fatalf("ledger ports without clickhouse: %+v", p)
	}
	if p.Writer == nil || p.Query == nil {
		t.Fatalf("writer and query are always wired")
	}
	if _, err := p.Query.ListPayments(context.Background()); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("query without pg = %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_MIGRATE", "false")
	t.Setenv("CORE_MIRROR_LEDGER_TIMEOUT", "750ms")
	o := FromConfig(config.New())
	if o.Migrate || o.LedgerTimeout.String() != "750ms" {
		t.Fatalf("options = %+v", o)
	}
}
