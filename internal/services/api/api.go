// Package api provides the HTTP API for the console
package api

import (
	"context"
	"errors"
	"time"

	"kycdesk/internal/adapters/dlocal"
	"kycdesk/internal/modkit"
	"kycdesk/internal/modkit/httpkit"
	"kycdesk/internal/modkit/module"
	"kycdesk/internal/modkit/swaggerkit"
	"kycdesk/internal/platform/config"
	"kycdesk/internal/platform/logger"
	phttp "kycdesk/internal/platform/net/http"
	"kycdesk/internal/platform/store"

	kycmod "kycdesk/internal/services/api/kyc/module"
	localmod "kycdesk/internal/services/api/local/module"
	metamod "kycdesk/internal/services/api/meta/module"
	paymentsmod "kycdesk/internal/services/api/payments/module"
	payoutsmod "kycdesk/internal/services/api/payouts/module"

	// mirror owns the local copy and the call ledger
	mirrormod "kycdesk/internal/services/mirror/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Builder        *dlocal.Builder
	Dlocal         *dlocal.Client
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount migrates the mirror and mounts every module under /api/v1
func Mount(ctx context.Context, r phttp.Router, opt Options) error {
	if opt.Builder == nil || opt.Dlocal == nil {
		return errors.New("api: dlocal builder and client are required")
	}
	l := logger.Get()
	if opt.Logger != nil {
		l = opt.Logger
	}

	// shared deps for modules
	deps := modkit.Deps{
		Log:     *l,
		Cfg:     opt.Config,
		Builder: opt.Builder,
		Dlocal:  opt.Dlocal,
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}

	// mirror first, the remote modules write through its ports
	mirror := mirrormod.New(deps)
	if err := mirror.Migrate(ctx); err != nil {
		return err
	}
	mp := module.MustPortsOf[mirrormod.Ports](mirror)
	if mp.Ledger != nil {
		opt.Dlocal.SetLedger(mp.Ledger)
	}

	writer := modkit.WithPorts(kycmod.Ports{Writer: mp.Writer})
	local := localmod.Ports{Query: mp.Query}
	if mp.Calls != nil {
		local.Calls = mp.Calls
	}

	mods := []module.Module{
		metamod.New(deps),
		mirror,
		kycmod.New(deps, writer),
		paymentsmod.New(deps, modkit.WithPorts(paymentsmod.Ports{Writer: mp.Writer})),
		payoutsmod.New(deps, modkit.WithPorts(payoutsmod.Ports{Writer: mp.Writer})),
		localmod.New(deps, modkit.WithPorts(local)),
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		CORSOrigins: opt.Config.MayCSV("CORS_ORIGINS", nil),
		Timeout:     opt.Config.MayDuration("REQUEST_TIMEOUT", 60*time.Second),
		MaxBody:     int64(opt.Config.MayInt("MAX_BODY_BYTES", 12<<20)),
	})

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPI(r, "v1", stack, func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	l.Info().
		Int("modules", len(mods)).
		Bool("pg", deps.PG != nil).
		Bool("ledger", mp.Ledger != nil).
		Msg("api mounted")
	return nil
}
