// Package domain holds DTOs for the payments http and service contracts
package domain

import (
	"kycdesk/internal/adapters/dlocal"
	"kycdesk/internal/services/api/remote"
)

// PaymentData is the payin form plus at most one card variant
// direct_card goes to /secure_payments, tokenized_card to /payments
type PaymentData struct {
	dlocal.PaymentInput
	DirectCard    *dlocal.DirectCard    `json:"direct_card,omitempty"`
	TokenizedCard *dlocal.TokenizedCard `json:"tokenized_card,omitempty"`
}

// CreatePaymentInput creates a remittance payin
type CreatePaymentInput struct {
	remote.Auth
	PaymentData PaymentData `json:"payment_data" validate:"-"`
}

// RemoteInput is a call that needs nothing beyond credentials
type RemoteInput struct {
	remote.Auth
}
