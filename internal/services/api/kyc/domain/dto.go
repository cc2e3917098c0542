// Package domain holds DTOs for the kyc http and service contracts
package domain

import (
	"encoding/json"

	"kycdesk/internal/adapters/dlocal"
	"kycdesk/internal/services/api/remote"
)

// CreateVerificationInput opens a remitter or beneficiary verification
// form_data is decoded by client_type, REMITTER when empty
type CreateVerificationInput struct {
	remote.Auth
	ClientType string          `json:"client_type" example:"REMITTER"`
	FormData   json.RawMessage `json:"form_data"`
}

// RemoteInput is a call that needs nothing beyond credentials
type RemoteInput struct {
	remote.Auth
}

// StateInput moves a sandbox verification to another state
type StateInput struct {
	remote.Auth
	dlocal.StateUpdate `validate:"-"`
}

// UploadInput is the parsed multipart upload form
type UploadInput struct {
	remote.Auth
	VerificationID string
	DocumentID     string
	File           dlocal.DocumentFile
}
