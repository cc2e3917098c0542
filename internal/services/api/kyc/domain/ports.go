package domain

import (
	"context"

	"kycdesk/internal/adapters/dlocal"
)

// ServicePort is consumed by handlers
type ServicePort interface {
	CreateVerification(ctx context.Context, in CreateVerificationInput) (dlocal.View, error)
	GetVerification(ctx context.Context, verificationID string, in RemoteInput) (dlocal.View, error)
	ListDocuments(ctx context.Context, verificationID string, in RemoteInput) (dlocal.View, error)
	UploadDocument(ctx context.Context, in UploadInput) (dlocal.View, error)
	UpdateState(ctx context.Context, verificationID string, in StateInput) (dlocal.View, error)
}
