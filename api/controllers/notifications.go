package controllers

import (
	"net/http"

	"github.com/printhub/printhub-backend/api/middleware"
	"github.com/printhub/printhub-backend/api/responses"
	"github.com/printhub/printhub-backend/internal/notifications"
	pkgerrors "github.com/printhub/printhub-backend/pkg/errors"
	"github.com/printhub/printhub-backend/pkg/logger"
)

func NotificationsList(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		list, err := svc.List(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// NotificationsDrain returns the unread queue and marks it read in the same
// transaction, so a repeated call comes back empty.
func NotificationsDrain(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		drained, err := svc.DrainUnread(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, drained)
	}
}
