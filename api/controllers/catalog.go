package controllers

import (
	"net/http"

	"github.com/printhub/printhub-backend/api/responses"
	"github.com/printhub/printhub-backend/api/validators"
	"github.com/printhub/printhub-backend/internal/pricing"
	"github.com/printhub/printhub-backend/pkg/enums"
	pkgerrors "github.com/printhub/printhub-backend/pkg/errors"
	"github.com/printhub/printhub-backend/pkg/logger"
	"github.com/printhub/printhub-backend/pkg/types"
)

// CatalogList returns the orderable products with their starting prices.
func CatalogList(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Catalog(r.Context()))
	}
}

type quoteRequest struct {
	ProductType enums.ProductType `json:"productType" validate:"required"`
	Params      types.PrintParams `json:"params"`
}

// PricingQuote prices one product configuration. The endpoint is public: the
// storefront calculator runs before sign-in.
func PricingQuote(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var req quoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Price(r.Context(), req.ProductType, req.Params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
