// Package http provides http transport for the local mirror views
package http

import (
	stdhttp "net/http"
	"strconv"

	"kycdesk/internal/adapters/dlocal"
	"kycdesk/internal/modkit/httpkit"
	perr "kycdesk/internal/platform/errors"
	svc "kycdesk/internal/services/api/local/service"
)

// Register mounts local endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/verifications", h.verifications)
	httpkit.Get(r, "/verifications/approved", h.approvedVerifications)
	httpkit.Get(r, "/verifications/{verification_id}/documents", h.documents)
	httpkit.Delete(r, "/verifications/by-id/{id}", h.deleteVerificationByID)
	httpkit.Delete(r, "/verifications/{verification_id}", h.deleteVerification)

	httpkit.Get(r, "/remitters/approved", h.approvedClients(dlocal.Remitter))
	httpkit.Get(r, "/beneficiaries/approved", h.approvedClients(dlocal.Beneficiary))

	httpkit.Get(r, "/payments", h.payments)
	httpkit.Delete(r, "/payments/{id}", h.deletePayment)
	httpkit.Get(r, "/payouts", h.payouts)
	httpkit.Delete(r, "/payouts/{id}", h.deletePayout)

	httpkit.Get(r, "/calls", h.calls)
}

type handlers struct{ svc svc.Service }

func rowID(r *stdhttp.Request) (int64, error) {
	id, err := strconv.ParseInt(httpkit.Param(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, perr.FieldInvalidf("id", "id must be a positive integer")
	}
	return id, nil
}

// swagger:route GET /local/verifications Local listVerifications
// @Summary List mirrored verifications, newest first
// @Tags Local
// @Produce json
// @Success 200 {array} domain.Verification
// @Router /local/verifications [get]
func (h *handlers) verifications(r *stdhttp.Request) (any, error) {
	return h.svc.ListVerifications(r.Context())
}

// swagger:route GET /local/verifications/approved Local approvedVerifications
// @Summary Approved verifications that carry a user id
// @Tags Local
// @Param client_type query string false "REMITTER or BENEFICIARY"
// @Router /local/verifications/approved [get]
func (h *handlers) approvedVerifications(r *stdhttp.Request) (any, error) {
	return h.svc.ApprovedVerifications(r.Context(), r.URL.Query().Get("client_type"))
}

func (h *handlers) approvedClients(ct dlocal.ClientType) func(*stdhttp.Request) (any, error) {
	return func(r *stdhttp.Request) (any, error) {
		return h.svc.ApprovedClients(r.Context(), string(ct))
	}
}

// swagger:route GET /local/verifications/{verification_id}/documents Local listLocalDocuments
// @Summary Mirrored documents of one verification
// @Tags Local
// @Router /local/verifications/{verification_id}/documents [get]
func (h *handlers) documents(r *stdhttp.Request) (any, error) {
	return h.svc.ListDocuments(r.Context(), httpkit.Param(r, "verification_id"))
}

// swagger:route DELETE /local/verifications/{verification_id} Local deleteVerification
// @Summary Forget a verification and its documents
// @Tags Local
// @Success 204
// @Router /local/verifications/{verification_id} [delete]
func (h *handlers) deleteVerification(r *stdhttp.Request) (any, error) {
	if err := h.svc.DeleteVerification(r.Context(), httpkit.Param(r, "verification_id")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

func (h *handlers) deleteVerificationByID(r *stdhttp.Request) (any, error) {
	id, err := rowID(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.DeleteVerificationByID(r.Context(), id); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// swagger:route GET /local/payments Local listPayments
// @Summary List mirrored payments, newest first
// @Tags Local
// @Router /local/payments [get]
func (h *handlers) payments(r *stdhttp.Request) (any, error) {
	return h.svc.ListPayments(r.Context())
}

func (h *handlers) deletePayment(r *stdhttp.Request) (any, error) {
	id, err := rowID(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.DeletePayment(r.Context(), id); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// swagger:route GET /local/payouts Local listPayouts
// @Summary List mirrored payouts, newest first
// @Tags Local
// @Router /local/payouts [get]
func (h *handlers) payouts(r *stdhttp.Request) (any, error) {
	return h.svc.ListPayouts(r.Context())
}

func (h *handlers) deletePayout(r *stdhttp.Request) (any, error) {
	id, err := rowID(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.DeletePayout(r.Context(), id); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// swagger:route GET /local/calls Local callSummary
// @Summary Outbound calls per operation and outcome
// @Tags Local
// @Failure 503 {object} httpkit.Envelope "ledger disabled"
// @Router /local/calls [get]
func (h *handlers) calls(r *stdhttp.Request) (any, error) {
	return h.svc.CallSummary(r.Context())
}
