package dlocal

import (
	"net/http"
	"strings"

	"kycdesk/internal/core/canon"
	"kycdesk/internal/core/normalize"
)

// PayoutInput is the operator form for a cashout
type PayoutInput struct {
	ExternalID              string `json:"external_id" validate:"required,max=100"`
	Country                 string `json:"country" validate:"required,len=2,alpha"`
	BankCode                string `json:"bank_code" validate:"max=20"`
	BankName                string `json:"bank_name" validate:"max=100"`
	BankProvince            string `json:"bank_province" validate:"max=100"`
	BankAccount             string `json:"bank_account" validate:"required,max=100"`
	AccountType             string `json:"account_type" validate:"max=2"`
	Amount                  string `json:"amount" validate:"required,amount"`
	Currency                string `json:"currency" validate:"required,len=3,alpha"`
	Purpose                 string `json:"purpose"`
	RemitterUserID          string `json:"remitter_user_id"`
	BeneficiaryUserID       string `json:"beneficiary_user_id"`
	Subpurpose              string `json:"subpurpose"`
	SourceOfFunds           string `json:"source_of_funds"`
	NotificationURL         string `json:"notification_url" validate:"omitempty,url"`
	BeneficiaryName         string `json:"beneficiary_name" validate:"max=100"`
	BeneficiaryDocument     string `json:"beneficiary_document" validate:"max=50"`
	BeneficiaryDocumentType string `json:"beneficiary_document_type"`
}

// payoutBody embeds the credentials, field order is part of the signed bytes
type payoutBody struct {
	Login                   string `json:"login"`
	Pass                    string `json:"pass"`
	ExternalID              string `json:"external_id"`
	Country                 string `json:"country"`
	BankCode                string `json:"bank_code"`
	BankName                string `json:"bank_name"`
	BankProvince            string `json:"bank_province"`
	BankAccount             string `json:"bank_account"`
	AccountType             string `json:"account_type"`
	Amount                  string `json:"amount"`
	Currency                string `json:"currency"`
	Purpose                 string `json:"purpose"`
	RemitterUserID          string `json:"remitter_user_id"`
	BeneficiaryUserID       string `json:"beneficiary_user_id"`
	Subpurpose              string `json:"subpurpose"`
	SourceOfFunds           string `json:"source_of_funds"`
	Signature               bool   `json:"signature"`
	NotificationURL         string `json:"notification_url,omitempty"`
	BeneficiaryName         string `json:"beneficiary_name,omitempty"`
	BeneficiaryDocument     string `json:"beneficiary_document,omitempty"`
	BeneficiaryDocumentType string `json:"beneficiary_document_type,omitempty"`
}

// CreatePayout builds the cashout request
// the body is complete, credentials included, before it is serialized once and signed
func (b *Builder) CreatePayout(c Credentials, in PayoutInput) (SignedRequest, error) {
	if err := c.Validate(); err != nil {
		return SignedRequest{}, err
	}
	if err := check("payout_data", in); err != nil {
		return SignedRequest{}, err
	}

	pb := payoutBody{
		Login:                   c.Login,
		Pass:                    c.TransKey,
		ExternalID:              strings.TrimSpace(in.ExternalID),
		Country:                 normalize.Code(in.Country),
		BankCode:                orDefault(strings.TrimSpace(in.BankCode), "0"),
		BankName:                normalize.Text(in.BankName),
		BankProvince:            normalize.Text(in.BankProvince),
		BankAccount:             strings.TrimSpace(in.BankAccount),
		AccountType:             orDefault(normalize.Code(in.AccountType), "C"),
		Amount:                  in.Amount,
		Currency:                normalize.Code(in.Currency),
		Purpose:                 orDefault(normalize.Code(in.Purpose), "EPREMT"),
		RemitterUserID:          strings.TrimSpace(in.RemitterUserID),
		BeneficiaryUserID:       strings.TrimSpace(in.BeneficiaryUserID),
		Subpurpose:              orDefault(normalize.Code(in.Subpurpose), "EPREFA"),
		SourceOfFunds:           orDefault(normalize.Code(in.SourceOfFunds), "SAVINGS"),
		Signature:               true,
		NotificationURL:         in.NotificationURL,
		BeneficiaryName:         normalize.Text(in.BeneficiaryName),
		BeneficiaryDocument:     normalize.Text(in.BeneficiaryDocument),
		BeneficiaryDocumentType: normalize.Code(in.BeneficiaryDocumentType),
	}
	body, err := canon.Marshal(pb)
	if err != nil {
		return SignedRequest{}, err
	}

	pb.Pass = redacted
	sent, err := canon.Marshal(pb)
	if err != nil {
		return SignedRequest{}, err
	}

	return b.seal(c, draft{
		op:     OpCreatePayout,
		family: FamilyPayouts,
		method: http.MethodPost,
		path:   "/api_curl/cashout_api/request_cashout",
		signed: body,
		wire:   body,
		sent:   sent,
	})
}
