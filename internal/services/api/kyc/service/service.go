// Package service contains the kyc workflows
package service

import (
	"context"

	"kycdesk/internal/adapters/dlocal"
	"kycdesk/internal/core/normalize"
	perr "kycdesk/internal/platform/errors"
	"kycdesk/internal/services/api/kyc/domain"
	"kycdesk/internal/services/api/remote"
	mirror "kycdesk/internal/services/mirror/domain"
)

// Service defines the kyc service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the kyc service
type Svc struct {
	b      *dlocal.Builder
	call   *remote.Caller
	mirror mirror.WriterPort
}

// New constructs a kyc service, mirror may be nil
func New(b *dlocal.Builder, d remote.Dispatcher, w mirror.WriterPort) *Svc {
	if b == nil {
		panic("kyc.Service requires a request builder")
	}
	return &Svc{b: b, call: remote.NewCaller(d), mirror: w}
}

// CreateVerification implements domain.ServicePort
func (s *Svc) CreateVerification(ctx context.Context, in domain.CreateVerificationInput) (dlocal.View, error) {
	ct := dlocal.ClientType(normalize.Code(in.ClientType))
	if ct == "" {
		ct = dlocal.Remitter
	}
	c := in.Creds()
	draft := mirror.VerificationWrite{ClientType: string(ct), Environment: string(c.Env)}

	var (
		req dlocal.SignedRequest
		err error
	)
	switch ct {
	case dlocal.Remitter:
		fd, derr := remote.Strict[dlocal.RemitterInput]("form_data", in.FormData)
		if derr != nil {
			return dlocal.View{}, derr
		}
		req, err = s.b.CreateRemitterVerification(c, fd)
		draft.FirstName, draft.LastName = fd.FirstName, fd.LastName
		draft.DocumentNumber, draft.ExternalReference = fd.DocumentNumber, fd.ExternalReference
	case dlocal.Beneficiary:
		fd, derr := remote.Strict[dlocal.BeneficiaryInput]("form_data", in.FormData)
		if derr != nil {
			return dlocal.View{}, derr
		}
		req, err = s.b.CreateBeneficiaryVerification(c, fd)
		draft.FirstName, draft.LastName = fd.FirstName, fd.LastName
		draft.DocumentNumber, draft.ExternalReference = fd.DocumentNumber, fd.ExternalReference
	default:
		return dlocal.View{}, perr.FieldInvalidf("client_type", "client_type must be %s or %s", dlocal.Remitter, dlocal.Beneficiary)
	}
	if err != nil {
		return dlocal.View{}, err
	}

	return s.call.Do(ctx, req, s.write(func(ctx context.Context, res dlocal.CallResult) *dlocal.LocalWrite {
		return s.mirror.CreatedVerification(ctx, res, draft)
	})), nil
}

// GetVerification implements domain.ServicePort
func (s *Svc) GetVerification(ctx context.Context, verificationID string, in domain.RemoteInput) (dlocal.View, error) {
	req, err := s.b.GetVerification(in.Creds(), verificationID)
	if err != nil {
		return dlocal.View{}, err
	}
	return s.call.Do(ctx, req, s.write(func(ctx context.Context, res dlocal.CallResult) *dlocal.LocalWrite {
		return s.mirror.FetchedVerification(ctx, verificationID, res)
	})), nil
}

// ListDocuments implements domain.ServicePort
func (s *Svc) ListDocuments(ctx context.Context, verificationID string, in domain.RemoteInput) (dlocal.View, error) {
	req, err := s.b.ListDocuments(in.Creds(), verificationID)
	if err != nil {
		return dlocal.View{}, err
	}
	return s.call.Do(ctx, req, s.write(func(ctx context.Context, res dlocal.CallResult) *dlocal.LocalWrite {
		return s.mirror.ListedDocuments(ctx, verificationID, res)
	})), nil
}

// UploadDocument implements domain.ServicePort
func (s *Svc) UploadDocument(ctx context.Context, in domain.UploadInput) (dlocal.View, error) {
	req, err := s.b.UploadDocument(in.Creds(), in.VerificationID, in.DocumentID, in.File)
	if err != nil {
		return dlocal.View{}, err
	}
	return s.call.Do(ctx, req, s.write(func(ctx context.Context, res dlocal.CallResult) *dlocal.LocalWrite {
		return s.mirror.UploadedDocument(ctx, in.VerificationID, in.DocumentID, res)
	})), nil
}

// UpdateState implements domain.ServicePort, sandbox only
func (s *Svc) UpdateState(ctx context.Context, verificationID string, in domain.StateInput) (dlocal.View, error) {
	req, err := s.b.UpdateVerificationState(in.Creds(), verificationID, in.StateUpdate)
	if err != nil {
		return dlocal.View{}, err
	}
	status := in.Status
	return s.call.Do(ctx, req, s.write(func(ctx context.Context, res dlocal.CallResult) *dlocal.LocalWrite {
		return s.mirror.ChangedState(ctx, verificationID, status, res)
	})), nil
}

// write drops the mirror step when no mirror is wired
func (s *Svc) write(fn remote.MirrorFunc) remote.MirrorFunc {
	if s.mirror == nil {
		return nil
	}
	return fn
}
