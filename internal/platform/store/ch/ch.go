// Package ch opens the ClickHouse connection behind the store seam
package ch

import (
	"context"
	"errors"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures the client
type Config struct {
	URL  string
	Role string
	Tag  string
}

// Rows is the driver result set
type Rows = driver.Rows

// conn is the slice of driver.Conn the client uses
type conn interface {
	Ping(ctx context.Context) error
	PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error)
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	Close() error
}

// CH is a thin client over clickhouse-go
type CH struct {
	c conn
}

var openConn = func(opts *clickhouse.Options) (conn, error) { return clickhouse.Open(opts) }

// Open parses the DSN, tags the client info, and dials lazily
func Open(_ context.Context, cfg Config) (*CH, error) {
	if cfg.URL == "" {
		return nil, errors.New("ch: empty url")
	}
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	opts.ClientInfo = BuildClientInfo(cfg.Role, cfg.Tag)
	c, err := openConn(opts)
	if err != nil {
		return nil, fmt.Errorf("ch: open: %w", err)
	}
	return &CH{c: c}, nil
}

// Ping checks connectivity
func (c *CH) Ping(ctx context.Context) error { return c.c.Ping(ctx) }

// Insert appends rows to table in one batch
// each row must list values in table column order
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	b, err := c.c.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return fmt.Errorf("ch: prepare %s: %w", table, err)
	}
	for i, r := range rows {
		if err := b.Append(r...); err != nil {
			_ = b.Abort()
			return fmt.Errorf("ch: append %s row %d: %w", table, i, err)
		}
	}
	if err := b.Send(); err != nil {
		return fmt.Errorf("ch: send %s: %w", table, err)
	}
	return nil
}

// Query runs a select
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return c.c.Query(ctx, sql, args...)
}

// Close closes the connection
func (c *CH) Close() error {
	if c == nil || c.c == nil {
		return nil
	}
	return c.c.Close()
}
