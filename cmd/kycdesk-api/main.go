// @title         kycdesk console API
// @version       0.1.0
// @description   Signs and sends dLocal KYC, payin and payout calls and mirrors what they create

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"kycdesk/internal/adapters/dlocal"
	"kycdesk/internal/platform/config"
	"kycdesk/internal/platform/logger"
	phttp "kycdesk/internal/platform/net/http"
	"kycdesk/internal/platform/store"

	"kycdesk/internal/services/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	dlCfg := root.Prefix("DLOCAL_")

	// bring up logging early
	l := logger.Get()

	// postgres when SERVICE_PGSQL_DBURL is set, clickhouse when SERVICE_CLICKHOUSE_ENABLED
	st, err := store.Open(ctx, store.ConfigFromEnv("kycdesk-api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	ends := dlocal.EndpointsFromEnv(dlCfg)
	client, err := dlocal.NewClient(dlocal.OptionsFromEnv(dlCfg))
	if err != nil {
		l.Panic().Err(err).Msg("dlocal client misconfigured")
	}

	// http server (reads CORE_API_PORT / CORE_API_SHUTDOWN_GRACE)
	srv := phttp.NewServer(apiCfg)

	err = api.Mount(ctx, srv.Router(), api.Options{
		Config:         apiCfg,
		Store:          st,
		Logger:         l,
		Builder:        dlocal.NewBuilder(ends),
		Dlocal:         client,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})
	if err != nil {
		l.Panic().Err(err).Msg("api.Mount failed")
	}

	l.Info().Str("addr", srv.Addr()).Str("sandbox", ends.Sandbox).Str("production", ends.Production).Msg("kycdesk-api listening")
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
