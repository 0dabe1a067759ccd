package controllers

import (
	"net/http"

	"github.com/aminzare2005/vlonefarsi/api/responses"
	"github.com/aminzare2005/vlonefarsi/api/validators"
	ordersvc "github.com/aminzare2005/vlonefarsi/internal/orders"
	"github.com/aminzare2005/vlonefarsi/pkg/enums"
	pkgerrors "github.com/aminzare2005/vlonefarsi/pkg/errors"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
)

// AdvanceOrderStatus moves an order through the fulfillment pipeline. Admin
// only; the transition table decides what is reachable from where.
func AdvanceOrderStatus(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := uuidURLParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload advanceStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Advance(r.Context(), orderID, enums.OrderStatus(payload.Status), payload.TrackPostID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(*order))
	}
}

type advanceStatusRequest struct {
	Status      string `json:"status" validate:"required"`
	TrackPostID string `json:"trackPostId,omitempty"`
}
