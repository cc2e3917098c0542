package service

import (
	"context"

	"kycdesk/internal/adapters/dlocal"
	"kycdesk/internal/core/normalize"
	"kycdesk/internal/modkit/repokit"
	perr "kycdesk/internal/platform/errors"
	dom "kycdesk/internal/services/mirror/domain"
	"kycdesk/internal/services/mirror/repo"
)

func (s *Service) storage() (repo.Storage, error) {
	if s.tx == nil {
		return nil, perr.Unavailablef("local store is not configured")
	}
	return repokit.MustBind(s.binder, s.tx), nil
}

// clientType accepts the two client kinds or empty for both
func clientType(ct string) (string, error) {
	ct = normalize.Code(ct)
	switch ct {
	case "", string(dlocal.Remitter), string(dlocal.Beneficiary):
		return ct, nil
	}
	return "", perr.FieldInvalidf("client_type", "client_type must be %s or %s", dlocal.Remitter, dlocal.Beneficiary)
}

// ListVerifications implements domain.QueryPort
func (s *Service) ListVerifications(ctx context.Context) ([]dom.Verification, error) {
	st, err := s.storage()
	if err != nil {
		return nil, err
	}
	return st.ListVerifications(ctx)
}

// ApprovedVerifications implements domain.QueryPort, rows without a user id are left out
func (s *Service) ApprovedVerifications(ctx context.Context, ct string) ([]dom.Verification, error) {
	ct, err := clientType(ct)
	if err != nil {
		return nil, err
	}
	st, err := s.storage()
	if err != nil {
		return nil, err
	}
	return st.ApprovedVerifications(ctx, ct, true)
}

// ApprovedClients implements domain.QueryPort
// payment_user_id falls back to the verification id when no user id was returned
func (s *Service) ApprovedClients(ctx context.Context, ct string) ([]dom.Verification, error) {
	ct, err := clientType(ct)
	if err != nil {
		return nil, err
	}
	if ct == "" {
		return nil, perr.FieldInvalidf("client_type", "client_type is required")
	}
	st, err := s.storage()
	if err != nil {
		return nil, err
	}
	out, err := st.ApprovedVerifications(ctx, ct, false)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].PaymentUserID = out[i].VerificationID
		if out[i].UserID != nil && *out[i].UserID != "" {
			out[i].PaymentUserID = *out[i].UserID
		}
	}
	return out, nil
}

// DeleteVerification implements domain.QueryPort
func (s *Service) DeleteVerification(ctx context.Context, verificationID string) error {
	if s.tx == nil {
		return perr.Unavailablef("local store is not configured")
	}
	return repokit.WithTx(ctx, s.tx, s.binder, func(st repo.Storage) error {
		return st.DeleteVerification(ctx, verificationID)
	})
}

// DeleteVerificationByID implements domain.QueryPort
func (s *Service) DeleteVerificationByID(ctx context.Context, id int64) error {
	if s.tx == nil {
		return perr.Unavailablef("local store is not configured")
	}
	return repokit.WithTx(ctx, s.tx, s.binder, func(st repo.Storage) error {
		vid, err := st.VerificationIDByLocalID(ctx, id)
		if err != nil {
			return err
		}
		return st.DeleteVerification(ctx, vid)
	})
}

// ListDocuments implements domain.QueryPort
func (s *Service) ListDocuments(ctx context.Context, verificationID string) ([]dom.Document, error) {
	st, err := s.storage()
	if err != nil {
		return nil, err
	}
	return st.ListDocuments(ctx, verificationID)
}

// ListPayments implements domain.QueryPort
func (s *Service) ListPayments(ctx context.Context) ([]dom.Payment, error) {
	st, err := s.storage()
	if err != nil {
		return nil, err
	}
	return st.ListPayments(ctx)
}

// DeletePayment implements domain.QueryPort
func (s *Service) DeletePayment(ctx context.Context, id int64) error {
	st, err := s.storage()
	if err != nil {
		return err
	}
	return st.DeletePayment(ctx, id)
}

// ListPayouts implements domain.QueryPort
func (s *Service) ListPayouts(ctx context.Context) ([]dom.Payout, error) {
	st, err := s.storage()
	if err != nil {
		return nil, err
	}
	return st.ListPayouts(ctx)
}

// DeletePayout implements domain.QueryPort
func (s *Service) DeletePayout(ctx context.Context, id int64) error {
	st, err := s.storage()
	if err != nil {
		return err
	}
	return st.DeletePayout(ctx, id)
}
