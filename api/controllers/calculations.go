package controllers

import (
	"net/http"

	"github.com/printhub/printhub-backend/api/middleware"
	"github.com/printhub/printhub-backend/api/responses"
	"github.com/printhub/printhub-backend/api/validators"
	"github.com/printhub/printhub-backend/internal/calculations"
	"github.com/printhub/printhub-backend/pkg/enums"
	pkgerrors "github.com/printhub/printhub-backend/pkg/errors"
	"github.com/printhub/printhub-backend/pkg/logger"
)

// CalculationSave persists the submitted configuration. The price is always
// recomputed server side; a client-sent price is ignored.
func CalculationSave(svc calculations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "calculations service unavailable"))
			return
		}

		var req calculations.SaveRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		calc, err := svc.Save(r.Context(), email, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, calc)
	}
}

func CalculationsList(svc calculations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "calculations service unavailable"))
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		role := enums.Role(middleware.RoleFromContext(r.Context()))
		list, err := svc.List(r.Context(), email, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CalculationDelete(svc calculations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "calculations service unavailable"))
			return
		}

		id, err := parseIDParam(r, "calculationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		role := enums.Role(middleware.RoleFromContext(r.Context()))
		if err := svc.Delete(r.Context(), email, role, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
