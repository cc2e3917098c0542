package store

import (
	"context"
	"errors"
	"testing"
	"time"

	perr "kycdesk/internal/platform/errors"
	"kycdesk/internal/platform/store/pg"
	"kycdesk/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestOpenWithInjectedSeams(t *testing.T) {
	q := &fakeQ{}
	c := newCHAdapter(&fakeCHClient{})
	s, err := Open(context.Background(), Config{PG: PGConfig{Enabled: true}, CH: CHConfig{Enabled: true}}, WithPG(q), WithCH(c))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != q || s.CH != c {
		t.Fatalf("injected seams replaced")
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard: %v", err)
	}
	if err := s.Close(context.Background()); err != nil || !q.closed {
		t.Fatalf("Close err=%v closed=%v", err, q.closed)
	}
}

func TestOpenOptionError(t *testing.T) {
	bad := func(*Store) error { return errors.New("nope") }
	if _, err := Open(context.Background(), Config{}, bad); err == nil {
		t.Fatalf("option error should surface")
	}
}

func TestGuardJoinsFailures(t *testing.T) {
	s := &Store{
		PG: &fakeQ{pingErr: errors.New("pg down")},
		CH: newCHAdapter(&fakeCHClient{pingErr: errors.New("ch down")}),
	}
	err := s.Guard(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	testkit.MustContain(t, err.Error(), "pg: pg down")
	testkit.MustContain(t, err.Error(), "ch: ch down")

	if (*Store)(nil).Guard(context.Background()) == nil {
		t.Fatalf("nil store should fail Guard")
	}
	if err := (&Store{}).Guard(context.Background()); err != nil {
		t.Fatalf("empty store Guard = %v", err)
	}
}

func TestOpenPGRetriesUntilReady(t *testing.T) {
	testkit.Serial(t)

	fails := 3
	pings := 0
	testkit.Swap(t, &openPool, func(context.Context, pg.Config, pg.QueryTracer, func(*pgxpool.Config)) (*pg.PG, error) {
		return &pg.PG{}, nil
	})
	testkit.Swap(t, &pingPool, func(context.Context, *pg.PG) error {
		pings++
		if pings <= fails {
			return errors.New("connection refused")
		}
		return nil
	})
	var slept []time.Duration
	testkit.Swap(t, &sleep, func(_ context.Context, d time.Duration) { slept = append(slept, d) })

	q, err := openPG(context.Background(), Config{PG: PGConfig{URL: "postgres://x"}}, &Store{})
	if err != nil || q == nil {
		t.Fatalf("openPG = %v, %v", q, err)
	}
	if pings != 4 || len(slept) != 3 {
		t.Fatalf("pings=%d sleeps=%v", pings, slept)
	}
	if slept[0] != 150*time.Millisecond || slept[1] != 300*time.Millisecond {
		t.Fatalf("backoff = %v", slept)
	}
}

func TestOpenPGGivesUp(t *testing.T) {
	testkit.Serial(t)

	testkit.Swap(t, &openPool, func(context.Context, pg.Config, pg.QueryTracer, func(*pgxpool.Config)) (*pg.PG, error) {
		return &pg.PG{}, nil
	})
	testkit.Swap(t, &pingPool, func(context.Context, *pg.PG) error { return errors.New("refused") })
	testkit.Swap(t, &sleep, func(context.Context, time.Duration) {})

	_, err := openPG(context.Background(), Config{PG: PGConfig{ConnectRetries: 2}}, &Store{})
	if err == nil {
		t.Fatalf("expected failure")
	}
	testkit.MustContain(t, err.Error(), "after 2 attempts")
}

func TestOpenPGCancelled(t *testing.T) {
	testkit.Serial(t)

	testkit.Swap(t, &openPool, func(context.Context, pg.Config, pg.QueryTracer, func(*pgxpool.Config)) (*pg.PG, error) {
		return &pg.PG{}, nil
	})
	testkit.Swap(t, &pingPool, func(ctx context.Context, _ *pg.PG) error { return ctx.Err() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := openPG(ctx, Config{}, &Store{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestHelpers(t *testing.T) {
	ctx := context.Background()

	if err := ExecOne(ctx, &fakeQ{tag: fakeTag{1}}, "DELETE"); err != nil {
		t.Fatalf("ExecOne(1) = %v", err)
	}
	if err := ExecOne(ctx, &fakeQ{tag: fakeTag{0}}, "DELETE"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("ExecOne(0) = %v", err)
	}
	if err := ExecOne(ctx, &fakeQ{tag: fakeTag{2}}, "DELETE"); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("ExecOne(2) = %v", err)
	}

	n, err := Scalar[int](ctx, &fakeQ{}, "SELECT 42")
	if err != nil || n != 42 {
		t.Fatalf("Scalar = %d, %v", n, err)
	}

	scan := func(r Row) (string, error) {
		var id string
		var v int
		err := r.Scan(&id, &v)
		return id, err
	}
	q := &fakeQ{rows: &fakeRows{data: [][]any{{"P-1", 1}, {"P-2", 2}}}}
	got, err := Many(ctx, q, scan, "SELECT")
	if err != nil || len(got) != 2 || got[1] != "P-2" {
		t.Fatalf("Many = %v, %v", got, err)
	}

	empty, err := Many(ctx, &fakeQ{rows: &fakeRows{}}, scan, "SELECT")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("Many empty = %#v, %v", empty, err)
	}

	if _, err := One(ctx, &fakeQ{rows: &fakeRows{}}, scan, "SELECT"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("One none = %v", err)
	}
	if _, err := One(ctx, &fakeQ{rows: &fakeRows{data: [][]any{{"a", 1}, {"b", 2}}}}, scan, "SELECT"); err == nil {
		t.Fatalf("One should reject extra rows")
	}
	one, err := One(ctx, &fakeQ{rows: &fakeRows{data: [][]any{{"V-1", 1}}}}, scan, "SELECT")
	if err != nil || one != "V-1" {
		t.Fatalf("One = %q, %v", one, err)
	}
}

func TestCHAdapter(t *testing.T) {
	inner := &fakeCHClient{}
	a := newCHAdapter(inner)
	if err := a.Insert(context.Background(), "dlocal_calls", [][]any{{"x"}}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if len(inner.inserted["dlocal_calls"]) != 1 {
		t.Fatalf("rows not forwarded")
	}
	rs, err := a.Query(context.Background(), "SELECT outcome, count() AS n FROM dlocal_calls GROUP BY outcome")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if cols := rs.Columns(); len(cols) != 2 || cols[0] != "outcome" {
		t.Fatalf("Columns = %v", cols)
	}
	rs.Close()
	if err := a.Close(); err != nil || !inner.closed {
		t.Fatalf("Close")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_DBURL", "postgres://u:p@db:5432/kycdesk")
	t.Setenv("SERVICE_PGSQL_MAX_CONNS", "4")
	t.Setenv("SERVICE_CLICKHOUSE_ENABLED", "true")
	t.Setenv("SERVICE_CLICKHOUSE_DBURL", "clickhouse://ch:9000/kycdesk")

	c := ConfigFromEnv("api")
	if !c.PG.Enabled || c.PG.MaxConns != 4 || c.PG.SlowQueryMs != 500 {
		t.Fatalf("pg = %+v", c.PG)
	}
	if !c.CH.Enabled || c.CH.URL != "clickhouse://ch:9000/kycdesk" || c.AppName != "api" {
		t.Fatalf("ch = %+v", c.CH)
	}
}
