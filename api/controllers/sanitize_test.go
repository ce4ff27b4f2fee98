package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/printhub/printhub-backend/api/middleware"
	"github.com/printhub/printhub-backend/internal/auth"
	"github.com/printhub/printhub-backend/internal/orders"
	"github.com/printhub/printhub-backend/internal/users"
	"github.com/printhub/printhub-backend/pkg/logger"
)

type stubOrders struct {
	orders.Service
	got orders.CheckoutRequest
}

func (s *stubOrders) Checkout(ctx context.Context, email string, req orders.CheckoutRequest) (*orders.OrderDTO, error) {
	s.got = req
	return &orders.OrderDTO{}, nil
}

type stubUsers struct {
	users.Service
	got     users.UpdateProfileRequest
	profile users.UserDTO
}

func (s *stubUsers) UpdateProfile(ctx context.Context, email string, req users.UpdateProfileRequest) (*users.UserDTO, error) {
	s.got = req
	profile := s.profile
	return &profile, nil
}

type stubRewriter struct {
	accessID string
	email    string
	resp     *auth.AuthResponse
}

func (s *stubRewriter) RewriteSession(ctx context.Context, accessID, email string) (*auth.AuthResponse, error) {
	s.accessID = accessID
	s.email = email
	return s.resp, nil
}

type stubAuth struct {
	auth.Service
	got auth.RegisterRequest
}

func (s *stubAuth) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	s.got = req
	return &auth.AuthResponse{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
}

func TestCheckout_SanitizesCommentAndFillsContactName(t *testing.T) {
	svc := &stubOrders{}
	handler := Checkout(svc, testLogger())

	body := `{"delivery":{"method":"pickup"},"payment":{"method":"cash"},` +
		`"contact":{"name":"  ","phone":"+79990000000","email":""},` +
		`"comment":"  срочно  "}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/checkout", strings.NewReader(body))
	ctx := middleware.WithUserEmail(req.Context(), "demo@example.com")
	ctx = middleware.WithUserName(ctx, "Иван Иванов")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.got.Comment != "срочно" {
		t.Fatalf("expected trimmed comment, got %q", svc.got.Comment)
	}
	if svc.got.Contact.Name != "Иван Иванов" {
		t.Fatalf("expected contact name from the signed-in account, got %q", svc.got.Contact.Name)
	}
}

func TestCheckout_CapsCommentLength(t *testing.T) {
	svc := &stubOrders{}
	handler := Checkout(svc, testLogger())

	long := strings.Repeat("a", maxCommentLen+50)
	payload, err := json.Marshal(orders.CheckoutRequest{Comment: long})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/checkout", strings.NewReader(string(payload)))
	ctx := middleware.WithUserEmail(req.Context(), "demo@example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	if len(svc.got.Comment) != maxCommentLen {
		t.Fatalf("expected comment capped at %d bytes, got %d", maxCommentLen, len(svc.got.Comment))
	}
}

func TestAuthRegister_SanitizesName(t *testing.T) {
	svc := &stubAuth{}
	handler := AuthRegister(svc, testLogger())

	body := `{"name":"  Test User  ","email":"t@example.com","phone":"+79990000000",` +
		`"password":"password1","confirm_password":"password1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.got.Name != "Test User" {
		t.Fatalf("expected trimmed name, got %q", svc.got.Name)
	}
}

func TestProfileUpdate_SanitizesName(t *testing.T) {
	svc := &stubUsers{profile: users.UserDTO{Email: "demo@example.com"}}
	handler := ProfileUpdate(svc, nil, testLogger())

	body := `{"name":"  Пётр Петров  ","phone":"+79991234567"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile/", strings.NewReader(body))
	ctx := middleware.WithUserEmail(req.Context(), "demo@example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.got.Name != "Пётр Петров" {
		t.Fatalf("expected trimmed name, got %q", svc.got.Name)
	}
}

func TestProfileUpdate_EmailChangeReissuesSession(t *testing.T) {
	svc := &stubUsers{profile: users.UserDTO{Email: "new@example.com"}}
	rewriter := &stubRewriter{resp: &auth.AuthResponse{AccessToken: "fresh-access", RefreshToken: "fresh-refresh"}}
	handler := ProfileUpdate(svc, rewriter, testLogger())

	body := `{"name":"Иван Иванов","phone":"+79991234567","email":"new@example.com"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile/", strings.NewReader(body))
	ctx := middleware.WithUserEmail(req.Context(), "demo@example.com")
	ctx = middleware.WithAccessID(ctx, "session-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if rewriter.accessID != "session-1" || rewriter.email != "new@example.com" {
		t.Fatalf("expected rewrite for session-1/new@example.com, got %s/%s", rewriter.accessID, rewriter.email)
	}

	var envelope struct {
		Data profileUpdateResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Auth == nil || envelope.Data.Auth.AccessToken != "fresh-access" {
		t.Fatalf("expected reissued tokens in response, got %+v", envelope.Data.Auth)
	}
}

func TestProfileUpdate_SameEmailKeepsSession(t *testing.T) {
	svc := &stubUsers{profile: users.UserDTO{Email: "demo@example.com"}}
	rewriter := &stubRewriter{resp: &auth.AuthResponse{AccessToken: "fresh-access"}}
	handler := ProfileUpdate(svc, rewriter, testLogger())

	body := `{"name":"Иван Иванов","phone":"+79991234567"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile/", strings.NewReader(body))
	ctx := middleware.WithUserEmail(req.Context(), "Demo@Example.com")
	ctx = middleware.WithAccessID(ctx, "session-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if rewriter.accessID != "" {
		t.Fatal("expected no session rewrite when the address is unchanged")
	}
}
