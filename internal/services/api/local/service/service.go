// Package service serves the locally mirrored records
package service

import (
	"context"

	perr "kycdesk/internal/platform/errors"
	"kycdesk/internal/services/api/local/domain"
	mirror "kycdesk/internal/services/mirror/domain"
	"kycdesk/internal/services/mirror/repo"
)

// Service defines the local service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the local service on top of the mirror query side
type Svc struct {
	mirror.QueryPort
	calls domain.CallsPort
}

// New constructs a local service, calls may be nil when the ledger is off
func New(q mirror.QueryPort, calls domain.CallsPort) *Svc {
	if q == nil {
		panic("local.Service requires the mirror query port")
	}
	return &Svc{QueryPort: q, calls: calls}
}

// CallSummary implements domain.ServicePort
func (s *Svc) CallSummary(ctx context.Context) ([]repo.OutcomeCount, error) {
	if s.calls == nil {
		return nil, perr.Unavailablef("call ledger is not configured")
	}
	rows, err := s.calls.CountByOutcome(ctx)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "read call ledger")
	}
	return rows, nil
}
