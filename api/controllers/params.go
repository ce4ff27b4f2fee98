package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/printhub/printhub-backend/pkg/errors"
)

// Free-text fields from clients are trimmed and capped before they reach the
// services.
const (
	maxNameLen    = 120
	maxCommentLen = 1000
)

// parseIDParam reads a numeric chi URL parameter.
func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name).WithDetails(map[string]any{"field": name})
	}
	return id, nil
}
