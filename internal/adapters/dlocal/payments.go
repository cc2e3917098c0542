package dlocal

import (
	"encoding/json"
	"net/http"
	"strings"

	"kycdesk/internal/core/canon"
	"kycdesk/internal/core/normalize"
	perr "kycdesk/internal/platform/errors"
)

// PaymentMethodCard is the payment_method_id that takes card data
const PaymentMethodCard = "CARD"

// PaymentMethod is the card variant chosen by the caller
// the variant, never the shape of the fields, picks the endpoint
type PaymentMethod interface {
	path() string
	card() (any, error)
}

// DirectCard carries raw card data and must go to /secure_payments
type DirectCard struct {
	HolderName      string `json:"holder_name" validate:"required,max=100"`
	Number          string `json:"number" validate:"required"`
	CVV             string `json:"cvv" validate:"required,numeric,min=3,max=4"`
	ExpirationMonth int    `json:"expiration_month" validate:"required,min=1,max=12"`
	ExpirationYear  int    `json:"expiration_year" validate:"required,min=2000,max=2100"`
	Capture         bool   `json:"capture"`
}

// TokenizedCard carries a Smart Fields token or a stored card id and goes to /payments
type TokenizedCard struct {
	Token   string `json:"token" validate:"required_without=CardID,excluded_with=CardID"`
	CardID  string `json:"card_id" validate:"required_without=Token"`
	Capture bool   `json:"capture"`
}

func (DirectCard) path() string    { return "/secure_payments" }
func (TokenizedCard) path() string { return "/payments" }

type directCardBody struct {
	HolderName      string `json:"holder_name"`
	Number          string `json:"number"`
	CVV             string `json:"cvv"`
	ExpirationMonth int    `json:"expiration_month"`
	ExpirationYear  int    `json:"expiration_year"`
	Capture         bool   `json:"capture"`
}

func (d DirectCard) card() (any, error) {
	if err := check("card", d); err != nil {
		return nil, err
	}
	num, ok := normalize.Digits(d.Number)
	if !ok || len(num) < 12 || len(num) > 19 {
		return nil, perr.FieldInvalidf("card.number", "card number must be 12 to 19 digits")
	}
	return directCardBody{
		HolderName:      normalize.Text(d.HolderName),
		Number:          num,
		CVV:             d.CVV,
		ExpirationMonth: d.ExpirationMonth,
		ExpirationYear:  d.ExpirationYear,
		Capture:         d.Capture,
	}, nil
}

type tokenBody struct {
	Token   string `json:"token,omitempty"`
	CardID  string `json:"card_id,omitempty"`
	Capture bool   `json:"capture"`
}

func (t TokenizedCard) card() (any, error) {
	t.Token = strings.TrimSpace(t.Token)
	t.CardID = strings.TrimSpace(t.CardID)
	if err := check("card", t); err != nil {
		return nil, err
	}
	return tokenBody(t), nil
}

// PaymentMethodOf picks the variant from the two optional console forms
// both set is ambiguous and rejected, neither yields nil
func PaymentMethodOf(direct *DirectCard, tokenized *TokenizedCard) (PaymentMethod, error) {
	switch {
	case direct != nil && tokenized != nil:
		return nil, perr.FieldInvalidf("card", "send either direct card data or a token, not both")
	case direct != nil:
		return *direct, nil
	case tokenized != nil:
		return *tokenized, nil
	}
	return nil, nil
}

// PaymentInput is the operator form for a remittance payin
type PaymentInput struct {
	Amount            json.Number   `json:"amount" validate:"required,amount"`
	Currency          string        `json:"currency" validate:"required,len=3,alpha"`
	Country           string        `json:"country" validate:"required,len=2,alpha"`
	PaymentMethodID   string        `json:"payment_method_id" validate:"required,max=10"`
	PayerName         string        `json:"payer_name" validate:"required,max=100"`
	PayerDocument     string        `json:"payer_document" validate:"required,max=50"`
	PayerEmail        string        `json:"payer_email" validate:"omitempty,email"`
	ExternalReference string        `json:"external_reference" validate:"max=100"`
	RemitterUserID    string        `json:"remitter_user_id" validate:"required"`
	BeneficiaryUserID string        `json:"beneficiary_user_id" validate:"required"`
	Subpurpose        string        `json:"subpurpose"`
	SourceOfFunds     string        `json:"source_of_funds"`
	NotificationURL   string        `json:"notification_url" validate:"omitempty,url"`
	Description       string        `json:"description" validate:"max=255"`
	Method            PaymentMethod `json:"-" validate:"-"`
}

type payer struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email,omitempty"`
}

type paymentBody struct {
	Amount            json.Number `json:"amount"`
	Currency          string      `json:"currency"`
	Country           string      `json:"country"`
	PaymentMethodID   string      `json:"payment_method_id"`
	PaymentMethodFlow string      `json:"payment_method_flow"`
	Payer             payer       `json:"payer"`
	OrderID           string      `json:"order_id"`
	RemitterUserID    string      `json:"remitter_user_id"`
	BeneficiaryUserID string      `json:"beneficiary_user_id"`
	Subpurpose        string      `json:"subpurpose"`
	SourceOfFunds     string      `json:"source_of_funds"`
	NotificationURL   string      `json:"notification_url,omitempty"`
	Card              any         `json:"card,omitempty"`
	Description       string      `json:"description,omitempty"`
	Signature         bool        `json:"signature"`
}

// maskedCard is what the console shows for a direct card
type maskedCard struct {
	HolderName      string `json:"holder_name"`
	Number          string `json:"number"`
	CVV             string `json:"cvv"`
	ExpirationMonth int    `json:"expiration_month"`
	ExpirationYear  int    `json:"expiration_year"`
	Capture         bool   `json:"capture"`
}

// CreatePayment builds the payin, routing DirectCard to /secure_payments and everything else to /payments
func (b *Builder) CreatePayment(c Credentials, in PaymentInput) (SignedRequest, error) {
	if err := c.Validate(); err != nil {
		return SignedRequest{}, err
	}
	if err := check("payment_data", in); err != nil {
		return SignedRequest{}, err
	}

	methodID := normalize.Code(in.PaymentMethodID)
	path := "/payments"
	var card any
	switch {
	case methodID == PaymentMethodCard && in.Method == nil:
		return SignedRequest{}, perr.FieldInvalidf("card", "CARD payments need direct card data or a token")
	case methodID != PaymentMethodCard && in.Method != nil:
		return SignedRequest{}, perr.FieldInvalidf("card", "card data is only accepted with payment_method_id CARD")
	case in.Method != nil:
		var err error
		if card, err = in.Method.card(); err != nil {
			return SignedRequest{}, err
		}
		path = in.Method.path()
	}

	pb := paymentBody{
		Amount:            in.Amount,
		Currency:          normalize.Code(in.Currency),
		Country:           normalize.Code(in.Country),
		PaymentMethodID:   methodID,
		PaymentMethodFlow: "DIRECT",
		Payer: payer{
			Name:     normalize.Text(in.PayerName),
			Document: normalize.Text(in.PayerDocument),
			Email:    strings.TrimSpace(in.PayerEmail),
		},
		OrderID:           orDefault(strings.TrimSpace(in.ExternalReference), b.newID()),
		RemitterUserID:    strings.TrimSpace(in.RemitterUserID),
		BeneficiaryUserID: strings.TrimSpace(in.BeneficiaryUserID),
		Subpurpose:        orDefault(normalize.Code(in.Subpurpose), "EPREFA"),
		SourceOfFunds:     orDefault(normalize.Code(in.SourceOfFunds), "SAVINGS"),
		NotificationURL:   in.NotificationURL,
		Card:              card,
		Description:       normalize.Text(in.Description),
		Signature:         true,
	}
	body, err := canon.Marshal(pb)
	if err != nil {
		return SignedRequest{}, err
	}

	// the display copy never carries the full PAN or the cvv
	if dc, ok := card.(directCardBody); ok {
		pb.Card = maskedCard{
			HolderName:      dc.HolderName,
			Number:          maskPAN(dc.Number),
			CVV:             redacted,
			ExpirationMonth: dc.ExpirationMonth,
			ExpirationYear:  dc.ExpirationYear,
			Capture:         dc.Capture,
		}
	}
	sent, err := canon.Marshal(pb)
	if err != nil {
		return SignedRequest{}, err
	}

	return b.seal(c, draft{
		op:          OpCreatePayment,
		family:      FamilyPayments,
		method:      http.MethodPost,
		path:        path,
		signed:      body,
		wire:        body,
		contentType: "application/json",
		sent:        sent,
	})
}

// GetPayment builds GET /payments/{id}/details
func (b *Builder) GetPayment(c Credentials, paymentID string) (SignedRequest, error) {
	if err := c.Validate(); err != nil {
		return SignedRequest{}, err
	}
	id, err := pathID("payment_id", paymentID)
	if err != nil {
		return SignedRequest{}, err
	}
	return b.seal(c, draft{
		op:     OpGetPayment,
		family: FamilyPayments,
		method: http.MethodGet,
		path:   "/payments/" + id + "/details",
	})
}

// maskPAN keeps the first six and last four digits
func maskPAN(n string) string {
	if len(n) <= 10 {
		return strings.Repeat("*", len(n))
	}
	return n[:6] + strings.Repeat("*", len(n)-10) + n[len(n)-4:]
}
