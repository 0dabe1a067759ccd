package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aminzare2005/vlonefarsi/api/responses"
	catalogsvc "github.com/aminzare2005/vlonefarsi/internal/catalog"
	"github.com/aminzare2005/vlonefarsi/pkg/db/models"
	pkgerrors "github.com/aminzare2005/vlonefarsi/pkg/errors"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
)

// ListProducts serves the public storefront product grid.
func ListProducts(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		rows, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]productResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, newProductResponse(row))
		}
		responses.WriteSuccess(w, out)
	}
}

// GetProduct serves a single product page.
func GetProduct(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := uuidURLParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(*row))
	}
}

// ListPhoneCases serves the case picker for the product page.
func ListPhoneCases(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		rows, err := svc.ListPhoneCases(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]phoneCaseResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, newPhoneCaseResponse(row))
		}
		responses.WriteSuccess(w, out)
	}
}

// GetShippingFee returns the flat post price shown at checkout.
func GetShippingFee(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		fee, err := svc.ShippingFee(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"shippingFee": fee})
	}
}

type productResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type phoneCaseResponse struct {
	ID    uuid.UUID `json:"id"`
	Brand string    `json:"brand"`
	Model string    `json:"model"`
	Price int64     `json:"price"`
}

func newProductResponse(row models.Product) productResponse {
	return productResponse{
		ID:        row.ID,
		Name:      row.Name,
		ImageURL:  row.ImageURL,
		CreatedAt: row.CreatedAt,
	}
}

func newPhoneCaseResponse(row models.PhoneCase) phoneCaseResponse {
	return phoneCaseResponse{
		ID:    row.ID,
		Brand: row.Brand,
		Model: row.Model,
		Price: row.Price,
	}
}
