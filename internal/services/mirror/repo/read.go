package repo

import (
	"context"

	perr "kycdesk/internal/platform/errors"
	"kycdesk/internal/platform/store"
	"kycdesk/internal/services/mirror/domain"
)

const verificationCols = `id, verification_id, user_id, client_type, first_name, last_name,
	document_number, external_reference, status, environment, created_at`

func scanVerification(r store.Row) (domain.Verification, error) {
	var v domain.Verification
	err := r.Scan(&v.ID, &v.VerificationID, &v.UserID, &v.ClientType, &v.FirstName, &v.LastName,
		&v.DocumentNumber, &v.ExternalReference, &v.Status, &v.Environment, &v.CreatedAt)
	v.Decorate()
	return v, err
}

func scanDocument(r store.Row) (domain.Document, error) {
	var d domain.Document
	err := r.Scan(&d.ID, &d.VerificationID, &d.DocumentID, &d.DocumentType, &d.Status)
	d.Decorate()
	return d, err
}

func scanPayment(r store.Row) (domain.Payment, error) {
	var p domain.Payment
	var amount string
	err := r.Scan(&p.ID, &p.PaymentID, &p.OrderID, &amount, &p.Currency, &p.Country, &p.PaymentMethodID,
		&p.Status, &p.StatusDetail, &p.StatusCode, &p.RemitterUserID, &p.BeneficiaryUserID,
		&p.Environment, &p.CreatedAt)
	p.Amount = parseAmount(amount)
	p.Decorate()
	return p, err
}

func scanPayout(r store.Row) (domain.Payout, error) {
	var p domain.Payout
	var amount string
	err := r.Scan(&p.ID, &p.ExternalID, &p.PayoutID, &amount, &p.Currency, &p.Country, &p.BankAccount,
		&p.Status, &p.StatusDetail, &p.RemitterUserID, &p.BeneficiaryUserID, &p.Purpose,
		&p.Environment, &p.CreatedAt)
	p.Amount = parseAmount(amount)
	p.Decorate()
	return p, err
}

// ListVerifications implements Storage, newest first
func (s *pg) ListVerifications(ctx context.Context) ([]domain.Verification, error) {
	out, err := store.Many(ctx, s.q, scanVerification,
		`SELECT `+verificationCols+` FROM verifications ORDER BY created_at DESC, id DESC`)
	return out, perr.FromPostgres(err, "list verifications")
}

// ApprovedVerifications implements Storage
// an empty clientType matches both kinds, requireUser drops rows without a user id
func (s *pg) ApprovedVerifications(ctx context.Context, clientType string, requireUser bool) ([]domain.Verification, error) {
	out, err := store.Many(ctx, s.q, scanVerification, `
		SELECT `+verificationCols+`
		FROM verifications
		WHERE status = 'APPROVED'
			AND ($1::text = '' OR client_type = $1::text)
			AND (NOT $2::bool OR user_id IS NOT NULL)
		ORDER BY created_at DESC, id DESC`,
		clientType, requireUser)
	return out, perr.FromPostgres(err, "approved verifications")
}

// VerificationIDByLocalID implements Storage
func (s *pg) VerificationIDByLocalID(ctx context.Context, id int64) (string, error) {
	vid, err := store.Scalar[string](ctx, s.q, `SELECT verification_id FROM verifications WHERE id = $1`, id)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return "", perr.NotFoundf("verification %d not found", id)
	}
	return vid, perr.FromPostgres(err, "find verification")
}

// DeleteVerification implements Storage, documents go with it
// run it inside a transaction so both deletes land together
func (s *pg) DeleteVerification(ctx context.Context, verificationID string) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM documents WHERE verification_id = $1`, verificationID); err != nil {
		return perr.FromPostgres(err, "delete documents")
	}
	err := store.ExecOne(ctx, s.q, `DELETE FROM verifications WHERE verification_id = $1`, verificationID)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return perr.NotFoundf("verification %s not found", verificationID)
	}
	return perr.FromPostgres(err, "delete verification")
}

// ListDocuments implements Storage
func (s *pg) ListDocuments(ctx context.Context, verificationID string) ([]domain.Document, error) {
	out, err := store.Many(ctx, s.q, scanDocument, `
		SELECT id, verification_id, document_id, document_type, status
		FROM documents WHERE verification_id = $1 ORDER BY id`, verificationID)
	return out, perr.FromPostgres(err, "list documents")
}

// ListPayments implements Storage
func (s *pg) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	out, err := store.Many(ctx, s.q, scanPayment, `
		SELECT id, payment_id, order_id, amount::text, currency, country, payment_method_id,
			status, status_detail, status_code, remitter_user_id, beneficiary_user_id,
			environment, created_at
		FROM payments ORDER BY created_at DESC, id DESC`)
	return out, perr.FromPostgres(err, "list payments")
}

// DeletePayment implements Storage
func (s *pg) DeletePayment(ctx context.Context, id int64) error {
	err := store.ExecOne(ctx, s.q, `DELETE FROM payments WHERE id = $1`, id)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return perr.NotFoundf("payment %d not found", id)
	}
	return perr.FromPostgres(err, "delete payment")
}

// ListPayouts implements Storage
func (s *pg) ListPayouts(ctx context.Context) ([]domain.Payout, error) {
	out, err := store.Many(ctx, s.q, scanPayout, `
		SELECT id, external_id, payout_id, amount::text, currency, country, bank_account,
			status, status_detail, remitter_user_id, beneficiary_user_id, purpose,
			environment, created_at
		FROM payouts ORDER BY created_at DESC, id DESC`)
	return out, perr.FromPostgres(err, "list payouts")
}

// DeletePayout implements Storage
func (s *pg) DeletePayout(ctx context.Context, id int64) error {
	err := store.ExecOne(ctx, s.q, `DELETE FROM payouts WHERE id = $1`, id)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return perr.NotFoundf("payout %d not found", id)
	}
	return perr.FromPostgres(err, "delete payout")
}
