package store

import (
	"context"
	"fmt"
	"time"

	chx "kycdesk/internal/platform/store/ch"
	"kycdesk/internal/platform/store/pg"
)

var (
	openPool = pg.Open
	openCHx  = chx.Open
	sleep    = func(ctx context.Context, d time.Duration) {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
	}
	pingPool = func(ctx context.Context, p *pg.PG) error { return p.Pool.Ping(ctx) }
)

// openPG opens the pool and waits for it with capped exponential backoff
// the adapter is returned only once a ping succeeds
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := openPool(ctx, pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, fmt.Errorf("pg: open: %w", err)
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	const (
		backoffStart   = 150 * time.Millisecond
		backoffCeiling = 2 * time.Second
	)

	var lastErr error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = pingPool(pctx, p)
		cancel()
		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}
		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Msg("postgres not ready")
		sleep(ctx, backoff)
		backoff = min(backoff*2, backoffCeiling)
	}

	p.Close()
	return nil, fmt.Errorf("pg: ping failed after %d attempts: %w", attempts, lastErr)
}

// openCH dials clickhouse and pings once, the call ledger is optional so no retry loop
func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := openCHx(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.AppName, Tag: cfg.CH.Tag})
	if err != nil {
		return nil, err
	}
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ch: ping: %w", err)
	}
	return newCHAdapter(c), nil
}
