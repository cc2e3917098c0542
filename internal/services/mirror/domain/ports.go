package domain

import (
	"context"

	"kycdesk/internal/adapters/dlocal"
)

// WriterPort mirrors successful remote calls
// every method is a no-op unless the result is a success and ctx is still live
type WriterPort interface {
	CreatedVerification(ctx context.Context, res dlocal.CallResult, draft VerificationWrite) *dlocal.LocalWrite
	FetchedVerification(ctx context.Context, verificationID string, res dlocal.CallResult) *dlocal.LocalWrite
	ListedDocuments(ctx context.Context, verificationID string, res dlocal.CallResult) *dlocal.LocalWrite
	UploadedDocument(ctx context.Context, verificationID, documentID string, res dlocal.CallResult) *dlocal.LocalWrite
	ChangedState(ctx context.Context, verificationID, status string, res dlocal.CallResult) *dlocal.LocalWrite
	CreatedPayment(ctx context.Context, res dlocal.CallResult, draft PaymentWrite) *dlocal.LocalWrite
	FetchedPayment(ctx context.Context, paymentID string, res dlocal.CallResult) *dlocal.LocalWrite
	CreatedPayout(ctx context.Context, res dlocal.CallResult, draft PayoutWrite) *dlocal.LocalWrite
}

// QueryPort serves the local console views
type QueryPort interface {
	ListVerifications(ctx context.Context) ([]Verification, error)
	ApprovedVerifications(ctx context.Context, clientType string) ([]Verification, error)
	ApprovedClients(ctx context.Context, clientType string) ([]Verification, error)
	DeleteVerification(ctx context.Context, verificationID string) error
	DeleteVerificationByID(ctx context.Context, id int64) error
	ListDocuments(ctx context.Context, verificationID string) ([]Document, error)
	ListPayments(ctx context.Context) ([]Payment, error)
	DeletePayment(ctx context.Context, id int64) error
	ListPayouts(ctx context.Context) ([]Payout, error)
	DeletePayout(ctx context.Context, id int64) error
}
