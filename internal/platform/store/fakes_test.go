package store

import (
	"context"
	"errors"

	"kycdesk/internal/platform/store/ch"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// fakeRows serves a fixed table
type fakeRows struct {
	cols []string
	data [][]any
	i    int
	err  error
}

func (f *fakeRows) Next() bool {
	if f.i >= len(f.data) {
		return false
	}
	f.i++
	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	row := f.data[f.i-1]
	for i := range dest {
		switch d := dest[i].(type) {
		case *string:
			*d = row[i].(string)
		case *int:
			*d = row[i].(int)
		default:
			return errors.New("fakeRows: unsupported dest")
		}
	}
	return nil
}

func (f *fakeRows) Err() error        { return f.err }
func (f *fakeRows) Close()            {}
func (f *fakeRows) Columns() []string { return f.cols }

type fakeTag struct{ n int64 }

func (t fakeTag) String() string      { return "UPDATE" }
func (t fakeTag) RowsAffected() int64 { return t.n }

type fakeRow struct{ err error }

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int)) = 42
	return nil
}

// fakeQ is a scripted TxRunner
type fakeQ struct {
	tag     fakeTag
	execErr error
	rows    *fakeRows
	rowErr  error
	pingErr error
	closed  bool
	calls   []string
}

func (f *fakeQ) Exec(_ context.Context, sql string, _ ...any) (CommandTag, error) {
	f.calls = append(f.calls, sql)
	return f.tag, f.execErr
}

func (f *fakeQ) Query(_ context.Context, sql string, _ ...any) (Rows, error) {
	f.calls = append(f.calls, sql)
	if f.rows == nil {
		return nil, errors.New("no rows scripted")
	}
	return f.rows, nil
}

func (f *fakeQ) QueryRow(_ context.Context, sql string, _ ...any) Row {
	f.calls = append(f.calls, sql)
	return fakeRow{err: f.rowErr}
}

func (f *fakeQ) Tx(ctx context.Context, fn func(RowQuerier) error) error { return fn(f) }
func (f *fakeQ) Ping(context.Context) error                             { return f.pingErr }
func (f *fakeQ) Close() error                                           { f.closed = true; return nil }

// fakeCHClient stands in for *ch.CH
type fakeCHClient struct {
	inserted map[string][][]any
	pingErr  error
	closed   bool
}

func (f *fakeCHClient) Ping(context.Context) error { return f.pingErr }

func (f *fakeCHClient) Insert(_ context.Context, table string, rows [][]any) error {
	if f.inserted == nil {
		f.inserted = map[string][][]any{}
	}
	f.inserted[table] = append(f.inserted[table], rows...)
	return nil
}

func (f *fakeCHClient) Query(context.Context, string, ...any) (ch.Rows, error) {
	return &fakeDriverRows{cols: []string{"outcome", "n"}}, nil
}

func (f *fakeCHClient) Close() error { f.closed = true; return nil }

// fakeDriverRows embeds driver.Rows so only the used methods need bodies
type fakeDriverRows struct {
	driver.Rows
	cols   []string
	closed bool
}

func (f *fakeDriverRows) Next() bool        { return false }
func (f *fakeDriverRows) Err() error        { return nil }
func (f *fakeDriverRows) Columns() []string { return f.cols }
func (f *fakeDriverRows) Close() error      { f.closed = true; return nil }
func (f *fakeDriverRows) Scan(...any) error { return nil }
