// Package http provides http transport for payouts
package http

import (
	stdhttp "net/http"

	"kycdesk/internal/modkit/httpkit"
	"kycdesk/internal/services/api/payouts/domain"
	svc "kycdesk/internal/services/api/payouts/service"
)

// Register mounts payout endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.CreatePayoutInput](r, "/", h.create)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /payouts Payouts createPayout
// @Summary Request a cashout
// @Description signed over the payload, the transaction key travels in the body as pass
// @Tags Payouts
// @Accept json
// @Produce json
// @Param payload body domain.CreatePayoutInput true "Payout"
// @Success 200 {object} dlocal.View "remote outcome"
// @Router /payouts [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreatePayoutInput) (any, error) {
	return h.svc.CreatePayout(r.Context(), in)
}
