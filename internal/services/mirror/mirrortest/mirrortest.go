// Package mirrortest provides a recording mirror writer for console tests
package mirrortest

import (
	"context"
	"sync"

	"kycdesk/internal/adapters/dlocal"
	"kycdesk/internal/services/mirror/domain"
)

// Call is one recorded writer invocation
type Call struct {
	Op     string
	Key    string
	Status string
	Result dlocal.CallResult

	Verification domain.VerificationWrite
	Payment      domain.PaymentWrite
	Payout       domain.PayoutWrite
}

// Writer records every call and reports a save for successes
type Writer struct {
	mu    sync.Mutex
	calls []Call
}

var _ domain.WriterPort = (*Writer)(nil)

// Calls returns a copy of what was recorded
func (w *Writer) Calls() []Call {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Call(nil), w.calls...)
}

func (w *Writer) record(c Call) *dlocal.LocalWrite {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, c)
	if !c.Result.OK() {
		return nil
	}
	return &dlocal.LocalWrite{Saved: true, LocalID: int64(len(w.calls))}
}

// CreatedVerification implements domain.WriterPort
func (w *Writer) CreatedVerification(_ context.Context, res dlocal.CallResult, draft domain.VerificationWrite) *dlocal.LocalWrite {
	return w.record(Call{Op: "verification.create", Result: res, Verification: draft})
}

// FetchedVerification implements domain.WriterPort
func (w *Writer) FetchedVerification(_ context.Context, vid string, res dlocal.CallResult) *dlocal.LocalWrite {
	return w.record(Call{Op: "verification.fetch", Key: vid, Result: res})
}

// ListedDocuments implements domain.WriterPort
func (w *Writer) ListedDocuments(_ context.Context, vid string, res dlocal.CallResult) *dlocal.LocalWrite {
	return w.record(Call{Op: "documents.list", Key: vid, Result: res})
}

// UploadedDocument implements domain.WriterPort
func (w *Writer) UploadedDocument(_ context.Context, vid, did string, res dlocal.CallResult) *dlocal.LocalWrite {
	return w.record(Call{Op: "document.upload", Key: vid + "/" + did, Result: res})
}

// ChangedState implements domain.WriterPort
func (w *Writer) ChangedState(_ context.Context, vid, status string, res dlocal.CallResult) *dlocal.LocalWrite {
	return w.record(Call{Op: "verification.state", Key: vid, Status: status, Result: res})
}

// CreatedPayment implements domain.WriterPort
func (w *Writer) CreatedPayment(_ context.Context, res dlocal.CallResult, draft domain.PaymentWrite) *dlocal.LocalWrite {
	return w.record(Call{Op: "payment.create", Result: res, Payment: draft})
}

// FetchedPayment implements domain.WriterPort
func (w *Writer) FetchedPayment(_ context.Context, pid string, res dlocal.CallResult) *dlocal.LocalWrite {
	return w.record(Call{Op: "payment.fetch", Key: pid, Result: res})
}

// CreatedPayout implements domain.WriterPort
func (w *Writer) CreatedPayout(_ context.Context, res dlocal.CallResult, draft domain.PayoutWrite) *dlocal.LocalWrite {
	return w.record(Call{Op: "payout.create", Result: res, Payout: draft})
}
