package users

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/printhub/printhub-backend/pkg/db/models"
	pkgerrors "github.com/printhub/printhub-backend/pkg/errors"
	"github.com/printhub/printhub-backend/pkg/logger"
	"gorm.io/gorm"
)

type fakeRepo struct {
	users     map[string]*models.User
	customers []CustomerDTO
}

func newFakeRepo(seed ...*models.User) *fakeRepo {
	repo := &fakeRepo{users: map[string]*models.User{}}
	for _, u := range seed {
		repo.users[u.Email] = u
	}
	return repo
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if equalFold(u.Email, email) {
			copy := *u
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) UpdatePassword(ctx context.Context, email, password string) error {
	u, ok := f.users[email]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Password = password
	return nil
}

func (f *fakeRepo) UpdateProfile(ctx context.Context, oldEmail string, name, phone, newEmail string) error {
	u, ok := f.users[oldEmail]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Name = name
	u.Phone = phone
	if newEmail != "" {
		delete(f.users, oldEmail)
		u.Email = newEmail
		f.users[newEmail] = u
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, email string) error {
	if _, ok := f.users[email]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.users, email)
	return nil
}

func (f *fakeRepo) ListCustomers(ctx context.Context) ([]CustomerDTO, error) {
	return f.customers, nil
}

type fakeCart struct {
	cleared []string
	err     error
}

func (f *fakeCart) Clear(ctx context.Context, email string) error {
	f.cleared = append(f.cleared, email)
	return f.err
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "users-test", Output: io.Discard})
}

func demoUser() *models.User {
	return &models.User{
		Email:    "demo@example.com",
		Name:     "Иван Иванов",
		Phone:    "+79991234567",
		Password: "demo1234",
	}
}

func buildService(t *testing.T, repo *fakeRepo, cart *fakeCart) Service {
	t.Helper()
	var cleaner cartCleaner
	if cart != nil {
		cleaner = cart
	}
	svc, err := NewService(ServiceParams{Repo: repo, Cart: cleaner, Logger: testLogger()})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("password1"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}
	if err := ValidatePassword("short"); err == nil {
		t.Fatal("expected error for short password")
	}
	if err := ValidatePassword("123456789"); err == nil {
		t.Fatal("expected error for all-digit password")
	}
}

func TestChangePassword(t *testing.T) {
	repo := newFakeRepo(demoUser())
	svc := buildService(t, repo, nil)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, "demo@example.com", ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newpass99",
		ConfirmPassword: "newpass99",
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for wrong current password, got %v", err)
	}

	err = svc.ChangePassword(ctx, "demo@example.com", ChangePasswordRequest{
		CurrentPassword: "demo1234",
		NewPassword:     "newpass99",
		ConfirmPassword: "different",
	})
	if err == nil {
		t.Fatal("expected mismatch error")
	}

	err = svc.ChangePassword(ctx, "demo@example.com", ChangePasswordRequest{
		CurrentPassword: "demo1234",
		NewPassword:     "newpass99",
		ConfirmPassword: "newpass99",
	})
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if repo.users["demo@example.com"].Password != "newpass99" {
		t.Fatal("expected password to be updated")
	}
}

func TestResetPassword(t *testing.T) {
	repo := newFakeRepo(demoUser())
	svc := buildService(t, repo, nil)

	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Email:           "Demo@Example.com",
		NewPassword:     "recovered1",
		ConfirmPassword: "recovered1",
	})
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if repo.users["demo@example.com"].Password != "recovered1" {
		t.Fatal("expected password to be reset")
	}

	err = svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Email:           "nobody@example.com",
		NewPassword:     "recovered1",
		ConfirmPassword: "recovered1",
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateProfile_EmailConflict(t *testing.T) {
	other := &models.User{Email: "taken@example.com", Name: "Other", Phone: "+70000000000", Password: "password1"}
	repo := newFakeRepo(demoUser(), other)
	svc := buildService(t, repo, nil)

	_, err := svc.UpdateProfile(context.Background(), "demo@example.com", UpdateProfileRequest{
		Name:  "Иван Иванов",
		Phone: "+79991234567",
		Email: "Taken@Example.com",
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateProfile_Rename(t *testing.T) {
	repo := newFakeRepo(demoUser())
	svc := buildService(t, repo, nil)

	updated, err := svc.UpdateProfile(context.Background(), "demo@example.com", UpdateProfileRequest{
		Name:  "Пётр Петров",
		Phone: "+79995554433",
		Email: "new@example.com",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Email != "new@example.com" || updated.Name != "Пётр Петров" {
		t.Fatalf("unexpected profile: %+v", updated)
	}
	if _, ok := repo.users["demo@example.com"]; ok {
		t.Fatal("expected old email record to be gone")
	}
}

func TestDeleteAccount_ClearsCart(t *testing.T) {
	repo := newFakeRepo(demoUser())
	cart := &fakeCart{}
	svc := buildService(t, repo, cart)

	if err := svc.DeleteAccount(context.Background(), "demo@example.com"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if len(cart.cleared) != 1 || cart.cleared[0] != "demo@example.com" {
		t.Fatalf("expected cart cleanup, got %v", cart.cleared)
	}
	if _, ok := repo.users["demo@example.com"]; ok {
		t.Fatal("expected user to be deleted")
	}
}

func TestDeleteAccount_CartFailureIsNotFatal(t *testing.T) {
	repo := newFakeRepo(demoUser())
	cart := &fakeCart{err: errors.New("redis down")}
	svc := buildService(t, repo, cart)

	if err := svc.DeleteAccount(context.Background(), "demo@example.com"); err != nil {
		t.Fatalf("expected deletion to succeed despite cart failure, got %v", err)
	}
}
