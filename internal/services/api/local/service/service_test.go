package service

import (
	"context"
	"errors"
	"testing"

	perr "kycdesk/internal/platform/errors"
	kit "kycdesk/internal/platform/testkit"
	mirror "kycdesk/internal/services/mirror/domain"
	"kycdesk/internal/services/mirror/repo"
)

type fakeCalls struct {
	rows []repo.OutcomeCount
	err  error
}

func (f fakeCalls) CountByOutcome(context.Context) ([]repo.OutcomeCount, error) { return f.rows, f.err }

type nopQuery struct{ mirror.QueryPort }

func TestCallSummary(t *testing.T) {
	ctx := context.Background()

	_, err := New(nopQuery{}, nil).CallSummary(ctx)
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("disabled ledger = %v", err)
	}

	_, err = New(nopQuery{}, fakeCalls{err: errors.New("ch down")}).CallSummary(ctx)
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("ledger error = %v", err)
	}

	rows, err := New(nopQuery{}, fakeCalls{rows: []repo.OutcomeCount{{Operation: "kyc.create_verification", Outcome: "success", Calls: 2}}}).CallSummary(ctx)
	if err != nil || len(rows) != 1 || rows[0].Calls != 2 {
		t.Fatalf("rows = %v, %v", rows, err)
	}
}

func TestNewRequiresQuery(t *testing.T) {
	kit.MustPanic(t, func() { New(nil, nil) })
}
