package repokit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	kit "kycdesk/internal/platform/testkit"
)

type fakeQ struct{ Queryer }

type fakeTx struct {
	fakeQ
	calls int
	inner Queryer
}

func (f *fakeTx) Tx(_ context.Context, fn func(Queryer) error) error {
	f.calls++
	return fn(f.inner)
}

type repo struct{ q Queryer }

func TestBindAndMustBind(t *testing.T) {
	b := BindFunc[repo](func(q Queryer) repo { return repo{q: q} })
	q := fakeQ{}
	if got := MustBind[repo](b, q); got.q != q {
		t.Fatalf("bound to wrong queryer")
	}
	kit.MustPanic(t, func() { MustBind[repo](b, nil) })
}

func TestWithTxBindsTxQueryer(t *testing.T) {
	inner := fakeQ{}
	tx := &fakeTx{inner: inner}
	b := BindFunc[repo](func(q Queryer) repo { return repo{q: q} })

	err := WithTx(context.Background(), tx, b, func(r repo) error {
		if r.q != inner {
			t.Fatalf("repo not bound to the tx queryer")
		}
		return nil
	})
	if err != nil || tx.calls != 1 {
		t.Fatalf("err=%v calls=%d", err, tx.calls)
	}

	boom := errors.New("boom")
	if err := WithTx(context.Background(), tx, b, func(repo) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestPing(t *testing.T) {
	if err := Ping(context.Background(), "pg", nil); err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("nil dep = %v", err)
	}

	var sawDeadline bool
	ok := pingFunc(func(ctx context.Context) error {
		_, sawDeadline = ctx.Deadline()
		return nil
	})
	if err := Ping(context.Background(), "pg", ok); err != nil || !sawDeadline {
		t.Fatalf("err=%v deadline=%v", err, sawDeadline)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	bad := pingFunc(func(context.Context) error { return errors.New("refused") })
	err := Ping(ctx, "ch", bad)
	if err == nil || !strings.Contains(err.Error(), "ch ping failed: refused") {
		t.Fatalf("bad = %v", err)
	}
}

type guardFunc func(context.Context) error

func (f guardFunc) Guard(ctx context.Context) error { return f(ctx) }

func TestMustGuard(t *testing.T) {
	kit.MustNotPanic(t, func() { MustGuard(context.Background(), guardFunc(func(context.Context) error { return nil })) })
	kit.MustPanic(t, func() {
		MustGuard(context.Background(), guardFunc(func(context.Context) error { return errors.New("pg: down") }))
	})
}
