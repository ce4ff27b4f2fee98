package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/printhub/printhub-backend/api/middleware"
	"github.com/printhub/printhub-backend/api/responses"
	"github.com/printhub/printhub-backend/api/validators"
	"github.com/printhub/printhub-backend/internal/auth"
	"github.com/printhub/printhub-backend/internal/users"
	pkgerrors "github.com/printhub/printhub-backend/pkg/errors"
	"github.com/printhub/printhub-backend/pkg/logger"
)

func ProfileGet(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		profile, err := svc.Get(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// profileUpdateResponse carries the rewritten profile and, after an email
// change, the reissued token pair.
type profileUpdateResponse struct {
	Profile *users.UserDTO     `json:"profile"`
	Auth    *auth.AuthResponse `json:"auth,omitempty"`
}

// ProfileUpdate rewrites the account record. An email change cascades into
// every order, calculation and notification owned by the old address, and the
// session is reissued so the token projection follows the rename.
func ProfileUpdate(svc users.Service, authSvc sessionRewriter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		var req users.UpdateProfileRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		req.Name = validators.SanitizeString(req.Name, maxNameLen)

		email := middleware.UserEmailFromContext(r.Context())
		profile, err := svc.UpdateProfile(r.Context(), email, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := profileUpdateResponse{Profile: profile}
		if authSvc != nil && profile != nil && !strings.EqualFold(profile.Email, email) {
			if accessID := middleware.AccessIDFromContext(r.Context()); accessID != "" {
				reissued, err := authSvc.RewriteSession(r.Context(), accessID, profile.Email)
				if err != nil && logg != nil {
					logg.Warn(r.Context(), "profile renamed but session rewrite failed: "+err.Error())
				}
				resp.Auth = reissued
			}
		}
		responses.WriteSuccess(w, resp)
	}
}

func ProfileChangePassword(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		var req users.ChangePasswordRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		if err := svc.ChangePassword(r.Context(), email, req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "password changed"})
	}
}

// PasswordReset is the unauthenticated recovery path: knowing the account
// email is the only requirement.
func PasswordReset(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		var req users.ResetPasswordRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ResetPassword(r.Context(), req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "password reset"})
	}
}

// ProfileDelete removes the account with all owned orders, calculations and
// notifications, then revokes the session.
func ProfileDelete(svc users.Service, authSvc sessionRevoker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		if err := svc.DeleteAccount(r.Context(), email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if authSvc != nil {
			if accessID := middleware.AccessIDFromContext(r.Context()); accessID != "" {
				if err := authSvc.Logout(r.Context(), accessID); err != nil && logg != nil {
					logg.Warn(r.Context(), "account deleted but session revoke failed: "+err.Error())
				}
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "account deleted"})
	}
}

type sessionRevoker interface {
	Logout(ctx context.Context, accessID string) error
}

type sessionRewriter interface {
	RewriteSession(ctx context.Context, accessID, email string) (*auth.AuthResponse, error)
}
