// Package domain defines the records the console mirrors locally
package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Verification is the local copy of a remote KYC verification
type Verification struct {
	ID                int64     `json:"id"`
	VerificationID    string    `json:"verification_id"`
	UserID            *string   `json:"user_id"`
	ClientType        string    `json:"client_type"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	DocumentNumber    string    `json:"document_number"`
	ExternalReference string    `json:"external_reference"`
	Status            string    `json:"status"`
	Environment       string    `json:"environment"`
	CreatedAt         time.Time `json:"created_at"`
	DisplayName       string    `json:"display_name"`

	// PaymentUserID is only set on approved client listings
	PaymentUserID string `json:"payment_user_id,omitempty"`
}

// Document is one document slot of a verification
type Document struct {
	ID             int64  `json:"id"`
	VerificationID string `json:"verification_id"`
	DocumentID     string `json:"document_id"`
	DocumentType   string `json:"document_type"`
	Status         string `json:"status"`
	DisplayName    string `json:"display_name"`
}

// Payment is the local copy of a payin
type Payment struct {
	ID                int64           `json:"id"`
	PaymentID         string          `json:"payment_id"`
	OrderID           string          `json:"order_id"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Country           string          `json:"country"`
	PaymentMethodID   string          `json:"payment_method_id"`
	Status            string          `json:"status"`
	StatusDetail      string          `json:"status_detail"`
	StatusCode        string          `json:"status_code"`
	RemitterUserID    string          `json:"remitter_user_id"`
	BeneficiaryUserID string          `json:"beneficiary_user_id"`
	Environment       string          `json:"environment"`
	CreatedAt         time.Time       `json:"created_at"`
	DisplayName       string          `json:"display_name"`
}

// Payout is the local copy of a cashout, keyed by the caller's external id
type Payout struct {
	ID                int64           `json:"id"`
	ExternalID        string          `json:"external_id"`
	PayoutID          *string         `json:"payout_id"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Country           string          `json:"country"`
	BankAccount       string          `json:"bank_account"`
	Status            string          `json:"status"`
	StatusDetail      string          `json:"status_detail"`
	RemitterUserID    string          `json:"remitter_user_id"`
	BeneficiaryUserID string          `json:"beneficiary_user_id"`
	Purpose           string          `json:"purpose"`
	Environment       string          `json:"environment"`
	CreatedAt         time.Time       `json:"created_at"`
	DisplayName       string          `json:"display_name"`
}

// VerificationWrite upserts a verification by verification_id
// empty Status and UserID keep what is stored
type VerificationWrite struct {
	VerificationID    string
	UserID            string
	ClientType        string
	FirstName         string
	LastName          string
	DocumentNumber    string
	ExternalReference string
	Status            string
	Environment       string
	Raw               json.RawMessage
}

// DocumentWrite upserts a document by (verification_id, document_id)
type DocumentWrite struct {
	VerificationID string
	DocumentID     string
	DocumentType   string
	Status         string
}

// PaymentWrite upserts a payment by payment_id
type PaymentWrite struct {
	PaymentID         string
	OrderID           string
	Amount            decimal.Decimal
	Currency          string
	Country           string
	PaymentMethodID   string
	Status            string
	StatusDetail      string
	StatusCode        string
	RemitterUserID    string
	BeneficiaryUserID string
	Environment       string
	Raw               json.RawMessage
}

// PayoutWrite upserts a payout by external_id
type PayoutWrite struct {
	ExternalID        string
	PayoutID          string
	Amount            decimal.Decimal
	Currency          string
	Country           string
	BankAccount       string
	Status            string
	StatusDetail      string
	RemitterUserID    string
	BeneficiaryUserID string
	Purpose           string
	Environment       string
	Raw               json.RawMessage
}

// StatusUpdate refreshes a row that may or may not exist locally
type StatusUpdate struct {
	Status       string
	StatusDetail string
	StatusCode   string
	UserID       string
	Raw          json.RawMessage
}

// CallRow is one line of the outbound call ledger
type CallRow struct {
	CallID      string
	At          time.Time
	Family      string
	Operation   string
	Environment string
	Method      string
	Path        string
	Outcome     string
	StatusCode  int
	ErrorCode   string
	LatencyMs   int64
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Decorate fills the display fields
func (v *Verification) Decorate() {
	v.DisplayName = fmt.Sprintf("%s %s - %s", v.FirstName, v.LastName, orNA(v.Status))
}

// Decorate fills the display fields
func (d *Document) Decorate() {
	id := d.DocumentID
	if len(id) > 30 {
		id = id[:30]
	}
	d.DisplayName = fmt.Sprintf("%s - %s...", d.DocumentType, id)
}

// Decorate fills the display fields
func (p *Payment) Decorate() {
	p.DisplayName = fmt.Sprintf("%s - %s - %s %s", p.PaymentID, orNA(p.Status), p.Currency, p.Amount.StringFixed(2))
}

// Decorate fills the display fields
func (p *Payout) Decorate() {
	p.DisplayName = fmt.Sprintf("%s - %s - %s %s", p.ExternalID, orNA(p.Status), p.Currency, p.Amount.StringFixed(2))
}
