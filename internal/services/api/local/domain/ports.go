// Package domain declares the local console contracts
package domain

import (
	"context"

	mirror "kycdesk/internal/services/mirror/domain"
	"kycdesk/internal/services/mirror/repo"
)

// CallsPort reads the outbound call ledger
type CallsPort interface {
	CountByOutcome(ctx context.Context) ([]repo.OutcomeCount, error)
}

// ServicePort is consumed by handlers
type ServicePort interface {
	mirror.QueryPort
	CallSummary(ctx context.Context) ([]repo.OutcomeCount, error)
}
