package modkit

import (
	"kycdesk/internal/adapters/dlocal"
	"kycdesk/internal/modkit/repokit"
	"kycdesk/internal/platform/config"
	"kycdesk/internal/platform/logger"
	"kycdesk/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// PG and CH are nil when the mirror store or the ledger is disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse

	// Builder and Dlocal are shared by every module that talks to the remote API
	Builder *dlocal.Builder
	Dlocal  *dlocal.Client
}

// MustRemote panics unless the dlocal client and builder are wired
func (d Deps) MustRemote(module string) {
	if d.Dlocal == nil || d.Builder == nil {
		panic(module + " module requires the dlocal client and request builder")
	}
}
