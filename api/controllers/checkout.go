package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/aminzare2005/vlonefarsi/api/responses"
	"github.com/aminzare2005/vlonefarsi/api/validators"
	checkoutsvc "github.com/aminzare2005/vlonefarsi/internal/checkout"
	pkgerrors "github.com/aminzare2005/vlonefarsi/pkg/errors"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
)

// Checkout converts the user's cart into a pending order and returns the
// gateway payment URL.
func Checkout(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := actorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), userID, checkoutsvc.ShippingInfo{
			ReceiverName: validators.SanitizeString(payload.ReceiverName, 0),
			PhoneNumber:  payload.PhoneNumber,
			Address:      validators.SanitizeString(payload.Address, 0),
			City:         validators.SanitizeString(payload.City, 0),
			PostalCode:   validators.SanitizeString(payload.PostalCode, 0),
			Telegram:     payload.Telegram,
		}, payload.DiscountCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			OrderID:    result.OrderID,
			TrackID:    result.TrackID,
			PaymentURL: result.PaymentURL,
		})
	}
}

type checkoutRequest struct {
	ReceiverName string  `json:"receiverName" validate:"required,persian,min=2"`
	PhoneNumber  string  `json:"phoneNumber" validate:"required,irphone"`
	Address      string  `json:"address" validate:"required,min=10"`
	City         string  `json:"city" validate:"required,persian,min=2"`
	PostalCode   string  `json:"postalCode" validate:"required,irpostal"`
	Telegram     *string `json:"telegram,omitempty" validate:"omitempty,min=5"`
	DiscountCode string  `json:"discountCode,omitempty"`
}

type checkoutResponse struct {
	OrderID    uuid.UUID `json:"orderId"`
	TrackID    string    `json:"trackId"`
	PaymentURL string    `json:"paymentUrl"`
}
