package domain

import (
	"context"

	"kycdesk/internal/adapters/dlocal"
)

// ServicePort is consumed by handlers
type ServicePort interface {
	CreatePayment(ctx context.Context, in CreatePaymentInput) (dlocal.View, error)
	GetPayment(ctx context.Context, paymentID string, in RemoteInput) (dlocal.View, error)
}
