package controllers

import (
	"net/http"

	paymentsvc "github.com/aminzare2005/vlonefarsi/internal/payments"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
)

// PaymentCallback receives the gateway redirect after the customer pays or
// cancels. The gateway always gets a browser redirect back, never an error
// body.
func PaymentCallback(svc *paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			http.Error(w, "payment service unavailable", http.StatusServiceUnavailable)
			return
		}

		query := r.URL.Query()
		outcome := svc.HandleCallback(r.Context(), paymentsvc.CallbackInput{
			Success: query.Get("success"),
			TrackID: query.Get("trackId"),
			OrderID: query.Get("orderId"),
		})

		http.Redirect(w, r, outcome.RedirectURL, http.StatusFound)
	}
}
