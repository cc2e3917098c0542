package dlocal

import (
	"net/http"

	"kycdesk/internal/core/canon"
	"kycdesk/internal/core/normalize"
	perr "kycdesk/internal/platform/errors"
)

// ClientType tells remitters from beneficiaries
type ClientType string

const (
	Remitter    ClientType = "REMITTER"
	Beneficiary ClientType = "BENEFICIARY"
)

// Sandbox state transition enumerations
var (
	VerificationStatuses = []string{"APPROVED", "REJECTED", "PENDING", "IN_REVIEW", "EXPIRED"}
	StatusDetails        = []string{
		"KYC_APPROVED", "DOCUMENTS_REQUIRED", "DOCUMENT_REJECTED", "IDENTITY_MISMATCH",
		"SANCTIONS_MATCH", "PEP_MATCH", "VERIFICATION_EXPIRED", "MANUAL_REVIEW",
	}
)

// Address is the client postal address
type Address struct {
	Country      string `json:"country" validate:"omitempty,len=2,alpha"`
	City         string `json:"city"`
	ZipCode      string `json:"zip_code"`
	State        string `json:"state"`
	StreetName   string `json:"street_name"`
	StreetNumber string `json:"street_number"`
}

func (a Address) clean() Address {
	a.Country = normalize.Code(a.Country)
	a.City = normalize.Text(a.City)
	a.State = normalize.Text(a.State)
	a.StreetName = normalize.Text(a.StreetName)
	return a
}

// Bank is the beneficiary account, optional fields are only sent when set
type Bank struct {
	AccountNumber string `json:"account_number" validate:"required"`
	Code          string `json:"code,omitempty"`
	Branch        string `json:"branch,omitempty"`
	AccountType   string `json:"account_type,omitempty"`
}

// RemitterInput is the operator form for a remitter verification
type RemitterInput struct {
	NotificationURL   string  `json:"notification_url" validate:"omitempty,url"`
	ExternalReference string  `json:"external_reference" validate:"max=100"`
	FirstName         string  `json:"first_name" validate:"required,max=100"`
	LastName          string  `json:"last_name" validate:"required,max=100"`
	DocumentType      string  `json:"document_type"`
	DocumentNumber    string  `json:"document_number" validate:"required,max=50"`
	DocumentCountry   string  `json:"document_country" validate:"omitempty,len=2,alpha"`
	DateOfBirth       string  `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	PlaceOfBirth      string  `json:"place_of_birth"`
	Gender            string  `json:"gender"`
	Nationality       string  `json:"nationality" validate:"omitempty,len=2,alpha"`
	MaritalStatus     string  `json:"marital_status"`
	Phone             string  `json:"phone"`
	Email             string  `json:"email" validate:"omitempty,email"`
	IsPEP             bool    `json:"is_pep"`
	IsSO              bool    `json:"is_so"`
	Profession        string  `json:"profession"`
	SourceOfFunds     string  `json:"source_of_funds"`
	ConsentAccepted   *bool   `json:"consent_accepted"`
	Address           Address `json:"address"`
}

// BeneficiaryInput is the operator form for a beneficiary verification
type BeneficiaryInput struct {
	NotificationURL   string  `json:"notification_url" validate:"omitempty,url"`
	ExternalReference string  `json:"external_reference" validate:"max=100"`
	FirstName         string  `json:"first_name" validate:"required,max=100"`
	LastName          string  `json:"last_name" validate:"required,max=100"`
	Nationality       string  `json:"nationality" validate:"omitempty,len=2,alpha"`
	DocumentType      string  `json:"document_type"`
	DocumentNumber    string  `json:"document_number" validate:"required,max=50"`
	DocumentCountry   string  `json:"document_country" validate:"omitempty,len=2,alpha"`
	DateOfBirth       string  `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	PlaceOfBirth      string  `json:"place_of_birth"`
	Phone             string  `json:"phone"`
	Email             string  `json:"email" validate:"omitempty,email"`
	Bank              Bank    `json:"bank"`
	Address           Address `json:"address"`
}

// StateUpdate is a sandbox tools transition
type StateUpdate struct {
	Status       string `json:"status" validate:"required,oneof=APPROVED REJECTED PENDING IN_REVIEW EXPIRED"`
	StatusDetail string `json:"status_detail" validate:"required,oneof=KYC_APPROVED DOCUMENTS_REQUIRED DOCUMENT_REJECTED IDENTITY_MISMATCH SANCTIONS_MATCH PEP_MATCH VERIFICATION_EXPIRED MANUAL_REVIEW"`
}

// DocumentFile is one uploaded document image or pdf
type DocumentFile struct {
	Name        string `json:"name" validate:"required,max=255"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data,omitempty" validate:"min=1,max=10485760"`
}

type consent struct {
	Type     string `json:"type"`
	Accepted bool   `json:"accepted"`
}

type remitterClient struct {
	Type            ClientType `json:"type"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	DocumentType    string     `json:"document_type"`
	DocumentNumber  string     `json:"document_number"`
	DocumentCountry string     `json:"document_country"`
	DateOfBirth     string     `json:"date_of_birth"`
	PlaceOfBirth    string     `json:"place_of_birth"`
	Gender          string     `json:"gender"`
	Nationality     string     `json:"nationality"`
	MaritalStatus   string     `json:"marital_status"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email"`
	IsPEP           bool       `json:"is_pep"`
	IsSO            bool       `json:"is_so"`
	Profession      string     `json:"profession"`
	SourceOfFunds   string     `json:"source_of_funds"`
	Consent         consent    `json:"consent"`
	Address         Address    `json:"address"`
}

type beneficiaryClient struct {
	Type            ClientType `json:"type"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Nationality     string     `json:"nationality"`
	DocumentType    string     `json:"document_type"`
	DocumentNumber  string     `json:"document_number"`
	DocumentCountry string     `json:"document_country"`
	DateOfBirth     string     `json:"date_of_birth"`
	PlaceOfBirth    string     `json:"place_of_birth"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email"`
	Bank            Bank       `json:"bank"`
	Address         Address    `json:"address"`
}

type verificationAttributes struct {
	ExternalReference string `json:"external_reference"`
	Client            any    `json:"client"`
}

type verificationBody struct {
	Type            string                 `json:"type"`
	NotificationURL string                 `json:"notification_url"`
	Attributes      verificationAttributes `json:"attributes"`
}

// RemitterBody renders the verification body for a remitter
func RemitterBody(in RemitterInput) ([]byte, error) {
	accepted := true
	if in.ConsentAccepted != nil {
		accepted = *in.ConsentAccepted
	}
	return canon.Marshal(verificationBody{
		Type:            "REMITTANCE",
		NotificationURL: in.NotificationURL,
		Attributes: verificationAttributes{
			ExternalReference: in.ExternalReference,
			Client: remitterClient{
				Type:            Remitter,
				FirstName:       normalize.Text(in.FirstName),
				LastName:        normalize.Text(in.LastName),
				DocumentType:    orDefault(normalize.Code(in.DocumentType), "TAX_ID"),
				DocumentNumber:  normalize.Text(in.DocumentNumber),
				DocumentCountry: normalize.Code(in.DocumentCountry),
				DateOfBirth:     in.DateOfBirth,
				PlaceOfBirth:    normalize.Text(in.PlaceOfBirth),
				Gender:          orDefault(normalize.Code(in.Gender), "MALE"),
				Nationality:     normalize.Code(in.Nationality),
				MaritalStatus:   normalize.Code(in.MaritalStatus),
				Phone:           normalize.Text(in.Phone),
				Email:           normalize.Text(in.Email),
				IsPEP:           in.IsPEP,
				IsSO:            in.IsSO,
				Profession:      normalize.Text(in.Profession),
				SourceOfFunds:   normalize.Code(in.SourceOfFunds),
				Consent:         consent{Type: "TERMS_AND_CONDITIONS", Accepted: accepted},
				Address:         in.Address.clean(),
			},
		},
	})
}

// BeneficiaryBody renders the verification body for a beneficiary
func BeneficiaryBody(in BeneficiaryInput) ([]byte, error) {
	return canon.Marshal(verificationBody{
		Type:            "REMITTANCE",
		NotificationURL: in.NotificationURL,
		Attributes: verificationAttributes{
			ExternalReference: in.ExternalReference,
			Client: beneficiaryClient{
				Type:            Beneficiary,
				FirstName:       normalize.Text(in.FirstName),
				LastName:        normalize.Text(in.LastName),
				Nationality:     normalize.Code(in.Nationality),
				DocumentType:    orDefault(normalize.Code(in.DocumentType), "TAX_ID"),
				DocumentNumber:  normalize.Text(in.DocumentNumber),
				DocumentCountry: normalize.Code(in.DocumentCountry),
				DateOfBirth:     in.DateOfBirth,
				PlaceOfBirth:    normalize.Text(in.PlaceOfBirth),
				Phone:           normalize.Text(in.Phone),
				Email:           normalize.Text(in.Email),
				Bank: Bank{
					AccountNumber: normalize.Text(in.Bank.AccountNumber),
					Code:          normalize.Text(in.Bank.Code),
					Branch:        normalize.Text(in.Bank.Branch),
					AccountType:   normalize.Code(in.Bank.AccountType),
				},
				Address: in.Address.clean(),
			},
		},
	})
}

// CreateRemitterVerification builds POST /kyc/verifications for a remitter
func (b *Builder) CreateRemitterVerification(c Credentials, in RemitterInput) (SignedRequest, error) {
	if err := c.Validate(); err != nil {
		return SignedRequest{}, err
	}
	if err := check("form_data", in); err != nil {
		return SignedRequest{}, err
	}
	body, err := RemitterBody(in)
	if err != nil {
		return SignedRequest{}, err
	}
	return b.createVerification(c, body)
}

// CreateBeneficiaryVerification builds POST /kyc/verifications for a beneficiary
func (b *Builder) CreateBeneficiaryVerification(c Credentials, in BeneficiaryInput) (SignedRequest, error) {
	if err := c.Validate(); err != nil {
		return SignedRequest{}, err
	}
	if err := check("form_data", in); err != nil {
		return SignedRequest{}, err
	}
	body, err := BeneficiaryBody(in)
	if err != nil {
		return SignedRequest{}, err
	}
	return b.createVerification(c, body)
}

// createVerification signs the JSON and sends it as the text/plain multipart field body
func (b *Builder) createVerification(c Credentials, body []byte) (SignedRequest, error) {
	wire, ct, err := multipartField(b.boundary(), "body", "", "text/plain", body)
	if err != nil {
		return SignedRequest{}, err
	}
	return b.seal(c, draft{
		op:          OpCreateVerification,
		family:      FamilyKYC,
		method:      http.MethodPost,
		path:        "/kyc/verifications",
		signed:      body,
		wire:        wire,
		contentType: ct,
		sent:        body,
	})
}

// GetVerification builds GET /kyc/verifications/{id} with client data included
func (b *Builder) GetVerification(c Credentials, verificationID string) (SignedRequest, error) {
	if err := c.Validate(); err != nil {
		return SignedRequest{}, err
	}
	id, err := pathID("verification_id", verificationID)
	if err != nil {
		return SignedRequest{}, err
	}
	return b.seal(c, draft{
		op:     OpGetVerification,
		family: FamilyKYC,
		method: http.MethodGet,
		path:   "/kyc/verifications/" + id + "?include=client_data",
	})
}

// ListDocuments builds GET /kyc/verifications/{id}/documents
func (b *Builder) ListDocuments(c Credentials, verificationID string) (SignedRequest, error) {
	if err := c.Validate(); err != nil {
		return SignedRequest{}, err
	}
	id, err := pathID("verification_id", verificationID)
	if err != nil {
		return SignedRequest{}, err
	}
	return b.seal(c, draft{
		op:     OpListDocuments,
		family: FamilyKYC,
		method: http.MethodGet,
		path:   "/kyc/verifications/" + id + "/documents",
	})
}

// UploadDocument builds PATCH /kyc/verifications/{id}/documents/{doc} with a file part
// the signature covers the empty string, the file bytes are not signed
func (b *Builder) UploadDocument(c Credentials, verificationID, documentID string, f DocumentFile) (SignedRequest, error) {
	if err := c.Validate(); err != nil {
		return SignedRequest{}, err
	}
	vid, err := pathID("verification_id", verificationID)
	if err != nil {
		return SignedRequest{}, err
	}
	did, err := pathID("document_id", documentID)
	if err != nil {
		return SignedRequest{}, err
	}
	if err := check("file", f); err != nil {
		return SignedRequest{}, err
	}
	wire, ct, err := multipartField(b.boundary(), "file", f.Name, orDefault(f.ContentType, "application/octet-stream"), f.Data)
	if err != nil {
		return SignedRequest{}, err
	}
	sent, err := canon.Marshal(map[string]string{"file": f.Name})
	if err != nil {
		return SignedRequest{}, err
	}
	return b.seal(c, draft{
		op:          OpUploadDocument,
		family:      FamilyKYC,
		method:      http.MethodPatch,
		path:        "/kyc/verifications/" + vid + "/documents/" + did,
		wire:        wire,
		contentType: ct,
		sent:        sent,
	})
}

// UpdateVerificationState builds the sandbox tools transition
// any environment other than sandbox is rejected before signing
func (b *Builder) UpdateVerificationState(c Credentials, verificationID string, in StateUpdate) (SignedRequest, error) {
	if err := c.Validate(); err != nil {
		return SignedRequest{}, err
	}
	if c.Env != Sandbox {
		return SignedRequest{}, perr.FieldInvalidf("use_sandbox", "state transitions are only available in the sandbox environment")
	}
	id, err := pathID("verification_id", verificationID)
	if err != nil {
		return SignedRequest{}, err
	}
	in.Status = normalize.Code(in.Status)
	in.StatusDetail = normalize.Code(in.StatusDetail)
	if err := check("", in); err != nil {
		return SignedRequest{}, err
	}
	body, err := canon.Marshal(in)
	if err != nil {
		return SignedRequest{}, err
	}
	// the remote path really is spelled sanbox-tools
	return b.seal(c, draft{
		op:          OpUpdateState,
		family:      FamilyKYC,
		method:      http.MethodPatch,
		path:        "/kyc/sanbox-tools/verifications/" + id,
		signed:      body,
		wire:        body,
		contentType: "application/json",
		sent:        body,
	})
}
