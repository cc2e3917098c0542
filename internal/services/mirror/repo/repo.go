// Package repo provides the mirror storage on Postgres and the call ledger on ClickHouse
package repo

import (
	"context"
	_ "embed"
	"strings"

	"kycdesk/internal/modkit/repokit"
	perr "kycdesk/internal/platform/errors"
	"kycdesk/internal/services/mirror/domain"

	"github.com/shopspring/decimal"
)

//go:embed schema.sql
var schemaSQL string

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the mirror repository
type Storage interface {
	UpsertVerification(ctx context.Context, w domain.VerificationWrite) (int64, error)
	UpdateVerification(ctx context.Context, verificationID string, u domain.StatusUpdate) (int64, bool, error)
	UpsertDocument(ctx context.Context, w domain.DocumentWrite) (int64, error)
	UpdateDocumentStatus(ctx context.Context, verificationID, documentID, status string) (int64, bool, error)
	UpsertPayment(ctx context.Context, w domain.PaymentWrite) (int64, error)
	UpdatePayment(ctx context.Context, paymentID string, u domain.StatusUpdate) (int64, bool, error)
	UpsertPayout(ctx context.Context, w domain.PayoutWrite) (int64, error)

	ListVerifications(ctx context.Context) ([]domain.Verification, error)
	ApprovedVerifications(ctx context.Context, clientType string, requireUser bool) ([]domain.Verification, error)
	VerificationIDByLocalID(ctx context.Context, id int64) (string, error)
	DeleteVerification(ctx context.Context, verificationID string) error
	ListDocuments(ctx context.Context, verificationID string) ([]domain.Document, error)
	ListPayments(ctx context.Context) ([]domain.Payment, error)
	DeletePayment(ctx context.Context, id int64) error
	ListPayouts(ctx context.Context) ([]domain.Payout, error)
	DeletePayout(ctx context.Context, id int64) error
}

// Migrate applies the mirror schema, every statement is idempotent
func Migrate(ctx context.Context, q repokit.Queryer) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return perr.FromPostgres(err, "mirror migrate")
	}
	return nil
}

func rawOrEmpty(b []byte) string {
	if len(b) == 0 {
		return "{}"
	}
	return string(b)
}

func amountArg(d decimal.Decimal) string { return d.StringFixed(2) }

func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// UpsertVerification implements Storage
func (s *pg) UpsertVerification(ctx context.Context, w domain.VerificationWrite) (int64, error) {
	var id int64
	err := s.q.QueryRow(ctx, `
		INSERT INTO verifications
			(verification_id, user_id, client_type, first_name, last_name, document_number,
			external_reference, status, environment, raw_response)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, COALESCE(NULLIF($8, ''), 'CREATED'), $9, $10::jsonb)
		ON CONFLICT (verification_id) DO UPDATE SET
			status       = COALESCE(NULLIF($8, ''), verifications.status),
			user_id      = COALESCE(NULLIF($2, ''), verifications.user_id),
			raw_response = EXCLUDED.raw_response,
			updated_at   = now()
		RETURNING id`,
		w.VerificationID, w.UserID, w.ClientType, w.FirstName, w.LastName, w.DocumentNumber,
		w.ExternalReference, w.Status, w.Environment, rawOrEmpty(w.Raw),
	).Scan(&id)
	if err != nil {
		return 0, perr.FromPostgres(err, "upsert verification")
	}
	return id, nil
}

// UpdateVerification implements Storage, ok is false when the row is not mirrored
func (s *pg) UpdateVerification(ctx context.Context, verificationID string, u domain.StatusUpdate) (int64, bool, error) {
	return s.updateReturning(ctx, "update verification", `
		UPDATE verifications SET
			status       = COALESCE(NULLIF($2, ''), status),
			user_id      = COALESCE(NULLIF($3, ''), user_id),
			raw_response = $4::jsonb,
			updated_at   = now()
		WHERE verification_id = $1
		RETURNING id`,
		verificationID, u.Status, u.UserID, rawOrEmpty(u.Raw))
}

// UpsertDocument implements Storage
func (s *pg) UpsertDocument(ctx context.Context, w domain.DocumentWrite) (int64, error) {
	var id int64
	err := s.q.QueryRow(ctx, `
		INSERT INTO documents (verification_id, document_id, document_type, status)
		VALUES ($1, $2, COALESCE(NULLIF($3, ''), 'Unknown'), COALESCE(NULLIF($4, ''), 'PENDING'))
		ON CONFLICT (verification_id, document_id) DO UPDATE SET
			document_type = COALESCE(NULLIF($3, ''), documents.document_type),
			status        = COALESCE(NULLIF($4, ''), documents.status),
			updated_at    = now()
		RETURNING id`,
		w.VerificationID, w.DocumentID, w.DocumentType, w.Status,
	).Scan(&id)
	if err != nil {
		return 0, perr.FromPostgres(err, "upsert document")
	}
	return id, nil
}

// UpdateDocumentStatus implements Storage
func (s *pg) UpdateDocumentStatus(ctx context.Context, verificationID, documentID, status string) (int64, bool, error) {
	return s.updateReturning(ctx, "update document", `
		UPDATE documents SET status = $3, updated_at = now()
		WHERE verification_id = $1 AND document_id = $2
		RETURNING id`,
		verificationID, documentID, status)
}

// UpsertPayment implements Storage
func (s *pg) UpsertPayment(ctx context.Context, w domain.PaymentWrite) (int64, error) {
	var id int64
	err := s.q.QueryRow(ctx, `
		INSERT INTO payments
			(payment_id, order_id, amount, currency, country, payment_method_id, status,
			status_detail, status_code, remitter_user_id, beneficiary_user_id, environment, raw_response)
		VALUES ($1, $2, $3::numeric, $4, $5, $6, COALESCE(NULLIF($7, ''), 'CREATED'),
			$8, $9, $10, $11, $12, $13::jsonb)
		ON CONFLICT (payment_id) DO UPDATE SET
			status        = COALESCE(NULLIF($7, ''), payments.status),
			status_detail = COALESCE(NULLIF($8, ''), payments.status_detail),
			status_code   = COALESCE(NULLIF($9, ''), payments.status_code),
			raw_response  = EXCLUDED.raw_response,
			updated_at    = now()
		RETURNING id`,
		w.PaymentID, w.OrderID, amountArg(w.Amount), w.Currency, w.Country, w.PaymentMethodID, w.Status,
		w.StatusDetail, w.StatusCode, w.RemitterUserID, w.BeneficiaryUserID, w.Environment, rawOrEmpty(w.Raw),
	).Scan(&id)
	if err != nil {
		return 0, perr.FromPostgres(err, "upsert payment")
	}
	return id, nil
}

// UpdatePayment implements Storage
func (s *pg) UpdatePayment(ctx context.Context, paymentID string, u domain.StatusUpdate) (int64, bool, error) {
	return s.updateReturning(ctx, "update payment", `
		UPDATE payments SET
			status        = COALESCE(NULLIF($2, ''), status),
			status_detail = COALESCE(NULLIF($3, ''), status_detail),
			status_code   = COALESCE(NULLIF($4, ''), status_code),
			raw_response  = $5::jsonb,
			updated_at    = now()
		WHERE payment_id = $1
		RETURNING id`,
		paymentID, u.Status, u.StatusDetail, u.StatusCode, rawOrEmpty(u.Raw))
}

// UpsertPayout implements Storage
func (s *pg) UpsertPayout(ctx context.Context, w domain.PayoutWrite) (int64, error) {
	var id int64
	err := s.q.QueryRow(ctx, `
		INSERT INTO payouts
			(external_id, payout_id, amount, currency, country, bank_account, status, status_detail,
			remitter_user_id, beneficiary_user_id, purpose, environment, raw_response)
		VALUES ($1, NULLIF($2, ''), $3::numeric, $4, $5, $6, COALESCE(NULLIF($7, ''), 'PENDING'), $8,
			$9, $10, $11, $12, $13::jsonb)
		ON CONFLICT (external_id) DO UPDATE SET
			payout_id     = COALESCE(NULLIF($2, ''), payouts.payout_id),
			status        = COALESCE(NULLIF($7, ''), payouts.status),
			status_detail = COALESCE(NULLIF($8, ''), payouts.status_detail),
			raw_response  = EXCLUDED.raw_response,
			updated_at    = now()
		RETURNING id`,
		w.ExternalID, w.PayoutID, amountArg(w.Amount), w.Currency, w.Country, w.BankAccount, w.Status,
		w.StatusDetail, w.RemitterUserID, w.BeneficiaryUserID, w.Purpose, w.Environment, rawOrEmpty(w.Raw),
	).Scan(&id)
	if err != nil {
		return 0, perr.FromPostgres(err, "upsert payout")
	}
	return id, nil
}

// updateReturning runs an UPDATE ... RETURNING id, no row means not mirrored
func (s *pg) updateReturning(ctx context.Context, op, sql string, args ...any) (int64, bool, error) {
	var id int64
	err := s.q.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return 0, false, nil
		}
		return 0, false, perr.FromPostgres(err, op)
	}
	return id, true, nil
}
