package module

import (
	"time"

	"kycdesk/internal/platform/config"
)

// Options holds configuration settings for the mirror module
type Options struct {
	Migrate       bool
	LedgerTimeout time.Duration
}

// FromConfig reads SERVICE_PGSQL_MIGRATE and CORE_MIRROR_LEDGER_TIMEOUT
func FromConfig(cfg config.Conf) Options {
	return Options{
		Migrate:       cfg.Prefix("SERVICE_PGSQL_").MayBool("MIGRATE", true),
		LedgerTimeout: cfg.Prefix("CORE_MIRROR_").MayDuration("LEDGER_TIMEOUT", 2*time.Second),
	}
}
