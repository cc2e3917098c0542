// Package service maps remote call results onto the local mirror and serves the local views
package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"kycdesk/internal/adapters/dlocal"
	"kycdesk/internal/core/normalize"
	"kycdesk/internal/modkit/repokit"
	perr "kycdesk/internal/platform/errors"
	"kycdesk/internal/platform/logger"
	dom "kycdesk/internal/services/mirror/domain"
	"kycdesk/internal/services/mirror/repo"

	"github.com/shopspring/decimal"
)

// Service implements domain.WriterPort and domain.QueryPort
type Service struct {
	tx     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
}

var (
	_ dom.WriterPort = (*Service)(nil)
	_ dom.QueryPort  = (*Service)(nil)
)

// New constructs the mirror service over a transaction runner
func New(tx repokit.TxRunner, binder repokit.Binder[repo.Storage]) *Service {
	return &Service{tx: tx, binder: binder}
}

// live reports whether res may be mirrored
// only successes are written and never once the caller has gone away
func live(ctx context.Context, res dlocal.CallResult) bool {
	return res.OK() && ctx.Err() == nil
}

// write runs fn in one transaction and renders the outcome for display
func (s *Service) write(ctx context.Context, op string, fn func(repo.Storage) (int64, bool, error)) *dlocal.LocalWrite {
	if s.tx == nil {
		return nil
	}
	var (
		id    int64
		saved bool
	)
	err := repokit.WithTx(ctx, s.tx, s.binder, func(st repo.Storage) error {
		var err error
		id, saved, err = fn(st)
		return err
	})
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("op", op).Msg("mirror write failed")
		return &dlocal.LocalWrite{Error: perr.WireFrom(err).Message}
	}
	return &dlocal.LocalWrite{Saved: saved, LocalID: id}
}

// str reads a scalar at path, numbers are rendered without exponent
func str(obj map[string]any, path ...string) string {
	var cur any = obj
	for _, k := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = m[k]
	}
	switch v := cur.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func firstOf(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := str(obj, k); v != "" {
			return v
		}
	}
	return ""
}

func amountOr(obj map[string]any, fallback decimal.Decimal) decimal.Decimal {
	if v := str(obj, "amount"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return fallback
}

// CreatedVerification implements domain.WriterPort
// the row is keyed by the remote id, the client id becomes the user id
func (s *Service) CreatedVerification(ctx context.Context, res dlocal.CallResult, draft dom.VerificationWrite) *dlocal.LocalWrite {
	if !live(ctx, res) {
		return nil
	}
	obj := res.Object()
	draft.VerificationID = str(obj, "id")
	if draft.VerificationID == "" {
		return nil
	}
	draft.Status = str(obj, "status")
	draft.UserID = str(obj, "attributes", "client", "id")
	draft.Raw = res.Body
	return s.write(ctx, "verification.upsert", func(st repo.Storage) (int64, bool, error) {
		id, err := st.UpsertVerification(ctx, draft)
		return id, err == nil, err
	})
}

// FetchedVerification implements domain.WriterPort, only rows already mirrored are refreshed
func (s *Service) FetchedVerification(ctx context.Context, verificationID string, res dlocal.CallResult) *dlocal.LocalWrite {
	if !live(ctx, res) {
		return nil
	}
	obj := res.Object()
	u := dom.StatusUpdate{
		Status: str(obj, "status"),
		UserID: str(obj, "attributes", "client", "id"),
		Raw:    res.Body,
	}
	return s.write(ctx, "verification.refresh", func(st repo.Storage) (int64, bool, error) {
		return st.UpdateVerification(ctx, verificationID, u)
	})
}

// ListedDocuments implements domain.WriterPort
func (s *Service) ListedDocuments(ctx context.Context, verificationID string, res dlocal.CallResult) *dlocal.LocalWrite {
	if !live(ctx, res) {
		return nil
	}
	items, _ := res.Object()["items"].([]any)
	docs := make([]dom.DocumentWrite, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		if id := str(m, "id"); id != "" {
			docs = append(docs, dom.DocumentWrite{
				VerificationID: verificationID,
				DocumentID:     id,
				DocumentType:   str(m, "type"),
				Status:         str(m, "status"),
			})
		}
	}
	if len(docs) == 0 {
		return nil
	}
	return s.write(ctx, "documents.upsert", func(st repo.Storage) (int64, bool, error) {
		for _, d := range docs {
			if _, err := st.UpsertDocument(ctx, d); err != nil {
				return 0, false, err
			}
		}
		return 0, true, nil
	})
}

// UploadedDocument implements domain.WriterPort
func (s *Service) UploadedDocument(ctx context.Context, verificationID, documentID string, res dlocal.CallResult) *dlocal.LocalWrite {
	if !live(ctx, res) {
		return nil
	}
	status := firstOf(res.Object(), "status")
	if status == "" {
		status = "UPLOADED"
	}
	return s.write(ctx, "document.upload", func(st repo.Storage) (int64, bool, error) {
		return st.UpdateDocumentStatus(ctx, verificationID, documentID, status)
	})
}

// ChangedState implements domain.WriterPort, the requested status stands in when the response has none
func (s *Service) ChangedState(ctx context.Context, verificationID, status string, res dlocal.CallResult) *dlocal.LocalWrite {
	if !live(ctx, res) {
		return nil
	}
	obj := res.Object()
	u := dom.StatusUpdate{Status: str(obj, "status"), Raw: res.Body}
	if u.Status == "" {
		u.Status = normalize.Code(status)
	}
	return s.write(ctx, "verification.state", func(st repo.Storage) (int64, bool, error) {
		return st.UpdateVerification(ctx, verificationID, u)
	})
}

// CreatedPayment implements domain.WriterPort, response fields win over what was sent
func (s *Service) CreatedPayment(ctx context.Context, res dlocal.CallResult, draft dom.PaymentWrite) *dlocal.LocalWrite {
	if !live(ctx, res) {
		return nil
	}
	obj := res.Object()
	draft.PaymentID = str(obj, "id")
	if draft.PaymentID == "" {
		return nil
	}
	draft.OrderID = pick(str(obj, "order_id"), draft.OrderID)
	draft.Amount = amountOr(obj, draft.Amount)
	draft.Currency = pick(str(obj, "currency"), draft.Currency)
	draft.Country = pick(str(obj, "country"), draft.Country)
	draft.PaymentMethodID = pick(str(obj, "payment_method_id"), draft.PaymentMethodID)
	draft.Status = str(obj, "status")
	draft.StatusDetail = str(obj, "status_detail")
	draft.StatusCode = str(obj, "status_code")
	draft.Raw = res.Body
	return s.write(ctx, "payment.upsert", func(st repo.Storage) (int64, bool, error) {
		id, err := st.UpsertPayment(ctx, draft)
		return id, err == nil, err
	})
}

// FetchedPayment implements domain.WriterPort
func (s *Service) FetchedPayment(ctx context.Context, paymentID string, res dlocal.CallResult) *dlocal.LocalWrite {
	if !live(ctx, res) {
		return nil
	}
	obj := res.Object()
	u := dom.StatusUpdate{
		Status:       str(obj, "status"),
		StatusDetail: str(obj, "status_detail"),
		StatusCode:   str(obj, "status_code"),
		Raw:          res.Body,
	}
	return s.write(ctx, "payment.refresh", func(st repo.Storage) (int64, bool, error) {
		return st.UpdatePayment(ctx, paymentID, u)
	})
}

// CreatedPayout implements domain.WriterPort
// the remote id may come back under several names
func (s *Service) CreatedPayout(ctx context.Context, res dlocal.CallResult, draft dom.PayoutWrite) *dlocal.LocalWrite {
	if !live(ctx, res) || strings.TrimSpace(draft.ExternalID) == "" {
		return nil
	}
	obj := res.Object()
	draft.PayoutID = firstOf(obj, "id", "payout_id", "payment_id", "cashout_id", "transaction_id")
	draft.Status = str(obj, "status")
	draft.StatusDetail = str(obj, "status_detail")
	draft.Raw = res.Body
	if obj == nil {
		draft.Raw = json.RawMessage(`{}`)
	}
	return s.write(ctx, "payout.upsert", func(st repo.Storage) (int64, bool, error) {
		id, err := st.UpsertPayout(ctx, draft)
		return id, err == nil, err
	})
}

func pick(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
