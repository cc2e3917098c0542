// Package http provides http transport for payments
package http

import (
	stdhttp "net/http"

	"kycdesk/internal/modkit/httpkit"
	"kycdesk/internal/services/api/payments/domain"
	svc "kycdesk/internal/services/api/payments/service"
)

// Register mounts payment endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.CreatePaymentInput](r, "/", h.create)
	httpkit.PostJSON[domain.RemoteInput](r, "/{payment_id}", h.get)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /payments Payments createPayment
// @Summary Create a remittance payin
// @Description payment_method_id CARD needs exactly one of direct_card or tokenized_card
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body domain.CreatePaymentInput true "Payment"
// @Success 200 {object} dlocal.View "remote outcome"
// @Router /payments [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreatePaymentInput) (any, error) {
	return h.svc.CreatePayment(r.Context(), in)
}

// swagger:route POST /payments/{payment_id} Payments getPayment
// @Summary Fetch payment details
// @Tags Payments
// @Router /payments/{payment_id} [post]
func (h *handlers) get(r *stdhttp.Request, in domain.RemoteInput) (any, error) {
	return h.svc.GetPayment(r.Context(), httpkit.Param(r, "payment_id"), in)
}
