// Package service contains the cashout workflow
package service

import (
	"context"

	"kycdesk/internal/adapters/dlocal"
	"kycdesk/internal/services/api/payouts/domain"
	"kycdesk/internal/services/api/remote"
	mirror "kycdesk/internal/services/mirror/domain"

	"github.com/shopspring/decimal"
)

// Service defines the payouts service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the payouts service
type Svc struct {
	b      *dlocal.Builder
	call   *remote.Caller
	mirror mirror.WriterPort
}

// New constructs a payouts service, mirror may be nil
func New(b *dlocal.Builder, d remote.Dispatcher, w mirror.WriterPort) *Svc {
	if b == nil {
		panic("payouts.Service requires a request builder")
	}
	return &Svc{b: b, call: remote.NewCaller(d), mirror: w}
}

// CreatePayout implements domain.ServicePort
// the local row is keyed by external_id, so it is read back from what was sent
func (s *Svc) CreatePayout(ctx context.Context, in domain.CreatePayoutInput) (dlocal.View, error) {
	c := in.Creds()
	req, err := s.b.CreatePayout(c, in.PayoutData)
	if err != nil {
		return dlocal.View{}, err
	}
	if s.mirror == nil {
		return s.call.Do(ctx, req, nil), nil
	}

	amount, _ := decimal.NewFromString(in.PayoutData.Amount)
	draft := mirror.PayoutWrite{
		ExternalID:        remote.SentString(req, "external_id"),
		Amount:            amount,
		Currency:          remote.SentString(req, "currency"),
		Country:           remote.SentString(req, "country"),
		BankAccount:       remote.SentString(req, "bank_account"),
		RemitterUserID:    remote.SentString(req, "remitter_user_id"),
		BeneficiaryUserID: remote.SentString(req, "beneficiary_user_id"),
		Purpose:           remote.SentString(req, "purpose"),
		Environment:       string(c.Env),
	}
	return s.call.Do(ctx, req, func(ctx context.Context, res dlocal.CallResult) *dlocal.LocalWrite {
		return s.mirror.CreatedPayout(ctx, res, draft)
	}), nil
}
