package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/printhub/printhub-backend/api/responses"
	"github.com/printhub/printhub-backend/api/validators"
	"github.com/printhub/printhub-backend/internal/admin"
	pkgerrors "github.com/printhub/printhub-backend/pkg/errors"
	"github.com/printhub/printhub-backend/pkg/logger"
)

func AdminStatistics(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		stats, err := svc.Statistics(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// AdminExport serves the full data dump as a dated JSON download.
func AdminExport(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		export, err := svc.ExportData(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filename := admin.ExportFilename(time.Now())
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(export); err != nil && logg != nil {
			logg.Error(r.Context(), "failed to stream export", err)
		}
	}
}

// AdminClearData wipes the storefront data after an explicit confirmation.
func AdminClearData(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		var req admin.ClearRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ClearData(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
