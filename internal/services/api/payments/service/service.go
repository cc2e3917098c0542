// Package service contains the payin workflows
package service

import (
	"context"
	"strings"

	"kycdesk/internal/adapters/dlocal"
	"kycdesk/internal/services/api/payments/domain"
	"kycdesk/internal/services/api/remote"
	mirror "kycdesk/internal/services/mirror/domain"

	"github.com/shopspring/decimal"
)

// Service defines the payments service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the payments service
type Svc struct {
	b      *dlocal.Builder
	call   *remote.Caller
	mirror mirror.WriterPort
}

// New constructs a payments service, mirror may be nil
func New(b *dlocal.Builder, d remote.Dispatcher, w mirror.WriterPort) *Svc {
	if b == nil {
		panic("payments.Service requires a request builder")
	}
	return &Svc{b: b, call: remote.NewCaller(d), mirror: w}
}

// CreatePayment implements domain.ServicePort
func (s *Svc) CreatePayment(ctx context.Context, in domain.CreatePaymentInput) (dlocal.View, error) {
	pd := in.PaymentData
	method, err := dlocal.PaymentMethodOf(pd.DirectCard, pd.TokenizedCard)
	if err != nil {
		return dlocal.View{}, err
	}
	pi := pd.PaymentInput
	pi.Method = method

	c := in.Creds()
	req, err := s.b.CreatePayment(c, pi)
	if err != nil {
		return dlocal.View{}, err
	}

	// the builder already checked the amount shape
	amount, _ := decimal.NewFromString(string(pi.Amount))
	draft := mirror.PaymentWrite{
		OrderID:           remote.SentString(req, "order_id"),
		Amount:            amount,
		Currency:          remote.SentString(req, "currency"),
		Country:           remote.SentString(req, "country"),
		PaymentMethodID:   remote.SentString(req, "payment_method_id"),
		RemitterUserID:    strings.TrimSpace(pi.RemitterUserID),
		BeneficiaryUserID: strings.TrimSpace(pi.BeneficiaryUserID),
		Environment:       string(c.Env),
	}
	if s.mirror == nil {
		return s.call.Do(ctx, req, nil), nil
	}
	return s.call.Do(ctx, req, func(ctx context.Context, res dlocal.CallResult) *dlocal.LocalWrite {
		return s.mirror.CreatedPayment(ctx, res, draft)
	}), nil
}

// GetPayment implements domain.ServicePort
func (s *Svc) GetPayment(ctx context.Context, paymentID string, in domain.RemoteInput) (dlocal.View, error) {
	req, err := s.b.GetPayment(in.Creds(), paymentID)
	if err != nil {
		return dlocal.View{}, err
	}
	if s.mirror == nil {
		return s.call.Do(ctx, req, nil), nil
	}
	return s.call.Do(ctx, req, func(ctx context.Context, res dlocal.CallResult) *dlocal.LocalWrite {
		return s.mirror.FetchedPayment(ctx, paymentID, res)
	}), nil
}
