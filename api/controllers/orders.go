package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aminzare2005/vlonefarsi/api/responses"
	ordersvc "github.com/aminzare2005/vlonefarsi/internal/orders"
	"github.com/aminzare2005/vlonefarsi/pkg/db/models"
	pkgerrors "github.com/aminzare2005/vlonefarsi/pkg/errors"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
)

// ListOrders returns the authenticated user's order history.
func ListOrders(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := actorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]orderResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, newOrderResponse(row))
		}
		responses.WriteSuccess(w, out)
	}
}

// GetOrder returns one order owned by the authenticated user.
func GetOrder(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := actorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuidURLParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(*order))
	}
}

// TrackOrder resolves an order by public track code. The code itself is the
// capability, so no auth and a trimmed response without shipping contact.
func TrackOrder(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		trackID := strings.TrimSpace(chi.URLParam(r, "trackID"))
		order, err := svc.Track(r.Context(), trackID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, trackResponse{
			TrackID:       order.TrackID,
			Status:        string(order.Status),
			PaymentStatus: string(order.PaymentStatus),
			TrackPostID:   order.TrackPostID,
			CreatedAt:     order.CreatedAt,
		})
	}
}

type orderResponse struct {
	ID             uuid.UUID           `json:"id"`
	Status         string              `json:"status"`
	PaymentStatus  string              `json:"paymentStatus"`
	TotalAmount    int64               `json:"totalAmount"`
	DiscountAmount int64               `json:"discountAmount"`
	FreeShipping   bool                `json:"freeShipping"`
	ReceiverName   string              `json:"receiverName"`
	ShippingCity   string              `json:"shippingCity"`
	TrackID        string              `json:"trackId"`
	TrackPostID    *string             `json:"trackPostId,omitempty"`
	Items          []orderItemResponse `json:"items"`
	CreatedAt      time.Time           `json:"createdAt"`
}

type orderItemResponse struct {
	ProductName  string `json:"productName"`
	ProductPrice int64  `json:"productPrice"`
	Quantity     int    `json:"quantity"`
	PhoneBrand   string `json:"phoneBrand"`
	PhoneModel   string `json:"phoneModel"`
}

type trackResponse struct {
	TrackID       string    `json:"trackId"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	TrackPostID   *string   `json:"trackPostId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func newOrderResponse(order models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
			PhoneBrand:   item.PhoneBrand,
			PhoneModel:   item.PhoneModel,
		})
	}
	return orderResponse{
		ID:             order.ID,
		Status:         string(order.Status),
		PaymentStatus:  string(order.PaymentStatus),
		TotalAmount:    order.TotalAmount,
		DiscountAmount: order.DiscountAmount,
		FreeShipping:   order.FreeShipping,
		ReceiverName:   order.ReceiverName,
		ShippingCity:   order.ShippingCity,
		TrackID:        order.TrackID,
		TrackPostID:    order.TrackPostID,
		Items:          items,
		CreatedAt:      order.CreatedAt,
	}
}
