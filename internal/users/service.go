package users

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/printhub/printhub-backend/pkg/db/models"
	pkgerrors "github.com/printhub/printhub-backend/pkg/errors"
	"github.com/printhub/printhub-backend/pkg/logger"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Service exposes cabinet and manager-panel user operations.
type Service interface {
	Get(ctx context.Context, email string) (*UserDTO, error)
	UpdateProfile(ctx context.Context, email string, req UpdateProfileRequest) (*UserDTO, error)
	ChangePassword(ctx context.Context, email string, req ChangePasswordRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	DeleteAccount(ctx context.Context, email string) error
	ListCustomers(ctx context.Context) ([]CustomerDTO, error)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, email, password string) error
	UpdateProfile(ctx context.Context, oldEmail string, name, phone, newEmail string) error
	Delete(ctx context.Context, email string) error
	ListCustomers(ctx context.Context) ([]CustomerDTO, error)
}

type cartCleaner interface {
	Clear(ctx context.Context, email string) error
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo   userRepository
	Cart   cartCleaner
	Logger *logger.Logger
}

type service struct {
	repo userRepository
	cart cartCleaner
	logg *logger.Logger
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repository is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{repo: params.Repo, cart: params.Cart, logg: params.Logger}, nil
}

// ValidatePassword enforces the storefront password policy: at least eight
// characters and not composed of digits only.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must not consist of digits only")
	}
	return nil
}

func (s *service) Get(ctx context.Context, email string) (*UserDTO, error) {
	user, err := s.loadUser(ctx, email)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, email string, req UpdateProfileRequest) (*UserDTO, error) {
	user, err := s.loadUser(ctx, email)
	if err != nil {
		return nil, err
	}

	newEmail := strings.ToLower(strings.TrimSpace(req.Email))
	if newEmail != "" && newEmail != strings.ToLower(user.Email) {
		if _, err := s.repo.FindByEmail(ctx, newEmail); err == nil {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email availability")
		}
	} else {
		newEmail = ""
	}

	if err := s.repo.UpdateProfile(ctx, user.Email, req.Name, req.Phone, newEmail); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}

	lookup := user.Email
	if newEmail != "" {
		lookup = newEmail
	}
	updated, err := s.loadUser(ctx, lookup)
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) ChangePassword(ctx context.Context, email string, req ChangePasswordRequest) error {
	user, err := s.loadUser(ctx, email)
	if err != nil {
		return err
	}
	if user.Password != req.CurrentPassword {
		return pkgerrors.New(pkgerrors.CodeValidation, "current password is incorrect")
	}
	return s.applyNewPassword(ctx, user.Email, req.NewPassword, req.ConfirmPassword)
}

// ResetPassword is the recovery path: knowledge of the account email is the
// only requirement, matching the storefront's trust model.
func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	user, err := s.loadUser(ctx, req.Email)
	if err != nil {
		return err
	}
	return s.applyNewPassword(ctx, user.Email, req.NewPassword, req.ConfirmPassword)
}

func (s *service) DeleteAccount(ctx context.Context, email string) error {
	user, err := s.loadUser(ctx, email)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, user.Email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete account")
	}

	// The database cascade already committed. Redis leftovers expire on their
	// own, so cleanup failures are logged rather than surfaced.
	var cleanupErr error
	if s.cart != nil {
		cleanupErr = multierr.Append(cleanupErr, s.cart.Clear(ctx, user.Email))
	}
	if cleanupErr != nil {
		s.logg.Warn(s.logg.WithUserEmail(ctx, user.Email), "account deleted but cart cleanup failed: "+cleanupErr.Error())
	}
	return nil
}

func (s *service) ListCustomers(ctx context.Context) ([]CustomerDTO, error) {
	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return customers, nil
}

func (s *service) applyNewPassword(ctx context.Context, email, newPassword, confirmPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	if newPassword != confirmPassword {
		return pkgerrors.New(pkgerrors.CodeValidation, "password confirmation does not match")
	}
	if err := s.repo.UpdatePassword(ctx, email, newPassword); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	return nil
}

func (s *service) loadUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
