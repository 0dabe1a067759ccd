package controllers

import (
	"net/http"

	"github.com/aminzare2005/vlonefarsi/api/responses"
	"github.com/aminzare2005/vlonefarsi/api/validators"
	cartsvc "github.com/aminzare2005/vlonefarsi/internal/cart"
	discountsvc "github.com/aminzare2005/vlonefarsi/internal/discounts"
	pkgerrors "github.com/aminzare2005/vlonefarsi/pkg/errors"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
)

// ValidateDiscount dry-runs a code against the user's current cart subtotal.
// Rejections come back as a normal payload so the storefront can toast the
// reason; the code is only consumed at checkout.
func ValidateDiscount(svc *discountsvc.Service, carts *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		userID, err := actorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload validateDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := carts.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var subtotal int64
		for _, line := range lines {
			if line.PhoneCase != nil {
				subtotal += line.PhoneCase.Price * int64(line.Quantity)
			}
		}

		eval, err := svc.Evaluate(r.Context(), payload.Code, userID, subtotal)
		if err != nil {
			if reason := discountsvc.RejectionReasonOf(err); reason != "" {
				responses.WriteSuccess(w, validateDiscountResponse{
					Valid:  false,
					Reason: string(reason),
				})
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, validateDiscountResponse{
			Valid:        true,
			Type:         string(eval.Discount.Type),
			Amount:       eval.Amount,
			FreeShipping: eval.FreeShipping,
		})
	}
}

type validateDiscountRequest struct {
	Code string `json:"code" validate:"required,min=1"`
}

type validateDiscountResponse struct {
	Valid        bool   `json:"valid"`
	Reason       string `json:"reason,omitempty"`
	Type         string `json:"type,omitempty"`
	Amount       int64  `json:"amount,omitempty"`
	FreeShipping bool   `json:"freeShipping,omitempty"`
}
