// Package domain holds DTOs for the payouts http and service contracts
package domain

import (
	"kycdesk/internal/adapters/dlocal"
	"kycdesk/internal/services/api/remote"
)

// CreatePayoutInput requests a cashout, signed with the payload scheme
type CreatePayoutInput struct {
	remote.Auth
	PayoutData dlocal.PayoutInput `json:"payout_data" validate:"-"`
}
