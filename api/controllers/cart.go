package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/aminzare2005/vlonefarsi/api/responses"
	"github.com/aminzare2005/vlonefarsi/api/validators"
	cartsvc "github.com/aminzare2005/vlonefarsi/internal/cart"
	"github.com/aminzare2005/vlonefarsi/pkg/db/models"
	pkgerrors "github.com/aminzare2005/vlonefarsi/pkg/errors"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
)

// GetCart returns the user's cart lines with merchandise data and totals.
func GetCart(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
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
		responses.WriteSuccess(w, newCartResponse(rows))
	}
}

// AddCartItem adds a product/phone-case pair, merging duplicate lines.
func AddCartItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := actorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Add(r.Context(), userID, payload.ProductID, payload.PhoneCaseID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartItemResponse(*item))
	}
}

// UpdateCartItem sets a line's quantity; zero or less removes the line.
func UpdateCartItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := actorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := uuidURLParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateQuantity(r.Context(), userID, itemID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// RemoveCartItem deletes one line from the user's cart.
func RemoveCartItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := actorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := uuidURLParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Remove(r.Context(), userID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// ClearCart empties the user's cart.
func ClearCart(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := actorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

type addCartItemRequest struct {
	ProductID   uuid.UUID `json:"productId" validate:"required"`
	PhoneCaseID uuid.UUID `json:"phoneCaseId" validate:"required"`
	Quantity    int       `json:"quantity" validate:"required,min=1"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type cartItemResponse struct {
	ID          uuid.UUID          `json:"id"`
	ProductID   uuid.UUID          `json:"productId"`
	PhoneCaseID uuid.UUID          `json:"phoneCaseId"`
	Quantity    int                `json:"quantity"`
	Product     *productResponse   `json:"product,omitempty"`
	PhoneCase   *phoneCaseResponse `json:"phoneCase,omitempty"`
	LineTotal   int64              `json:"lineTotal"`
}

type cartResponse struct {
	Items    []cartItemResponse `json:"items"`
	Subtotal int64              `json:"subtotal"`
}

func newCartItemResponse(item models.CartItem) cartItemResponse {
	resp := cartItemResponse{
		ID:          item.ID,
		ProductID:   item.ProductID,
		PhoneCaseID: item.PhoneCaseID,
		Quantity:    item.Quantity,
	}
	if item.Product != nil {
		product := newProductResponse(*item.Product)
		resp.Product = &product
	}
	if item.PhoneCase != nil {
		phoneCase := newPhoneCaseResponse(*item.PhoneCase)
		resp.PhoneCase = &phoneCase
		resp.LineTotal = item.PhoneCase.Price * int64(item.Quantity)
	}
	return resp
}

func newCartResponse(rows []models.CartItem) cartResponse {
	items := make([]cartItemResponse, 0, len(rows))
	var subtotal int64
	for _, row := range rows {
		item := newCartItemResponse(row)
		items = append(items, item)
		subtotal += item.LineTotal
	}
	return cartResponse{Items: items, Subtotal: subtotal}
}
