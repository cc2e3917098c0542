package domain

import (
	"context"

	"kycdesk/internal/adapters/dlocal"
)

// ServicePort is consumed by handlers
type ServicePort interface {
	CreatePayout(ctx context.Context, in CreatePayoutInput) (dlocal.View, error)
}
