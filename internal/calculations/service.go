package calculations

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/printhub/printhub-backend/internal/pricing"
	"github.com/printhub/printhub-backend/pkg/db/models"
	"github.com/printhub/printhub-backend/pkg/enums"
	pkgerrors "github.com/printhub/printhub-backend/pkg/errors"
	"github.com/printhub/printhub-backend/pkg/types"
	"gorm.io/gorm"
)

const displayDateLayout = "02.01.2006"

// SaveRequest is the "save calculation" form. The price is recomputed
// server-side; the client-sent value is ignored.
type SaveRequest struct {
	Name        string            `json:"name"`
	ProductType enums.ProductType `json:"productType" validate:"required"`
	Params      types.PrintParams `json:"params"`
}

// CalculationDTO is the transport shape for a saved calculation.
type CalculationDTO struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	ProductType enums.ProductType `json:"productType"`
	PaperType   enums.PaperType   `json:"paperType"`
	PaperWeight string            `json:"paperWeight"`
	ColorMode   enums.ColorMode   `json:"colorType"`
	Circulation int               `json:"circulation"`
	Price       int64             `json:"price"`
	Date        string            `json:"date"`
	UserID      *string           `json:"userId,omitempty"`
}

type calculationRepository interface {
	Create(ctx context.Context, calc *models.Calculation) error
	FindByID(ctx context.Context, id int64) (*models.Calculation, error)
	ListForUser(ctx context.Context, email string) ([]models.Calculation, error)
	ListAll(ctx context.Context) ([]models.Calculation, error)
	Delete(ctx context.Context, id int64) error
}

// Service exposes saved-calculation operations.
type Service interface {
	Save(ctx context.Context, email string, req SaveRequest) (*CalculationDTO, error)
	List(ctx context.Context, email string, role enums.Role) ([]CalculationDTO, error)
	Delete(ctx context.Context, email string, role enums.Role, id int64) error
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Repo    calculationRepository
	Pricing pricing.Service
}

type service struct {
	repo    calculationRepository
	pricing pricing.Service
}

// NewService constructs a calculations service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "calculation repository is required")
	}
	if params.Pricing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pricing service is required")
	}
	return &service{repo: params.Repo, pricing: params.Pricing}, nil
}

func (s *service) Save(ctx context.Context, email string, req SaveRequest) (*CalculationDTO, error) {
	quote, err := s.pricing.Price(ctx, req.ProductType, req.Params)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = s.pricing.ProductName(req.ProductType)
	}

	var owner *string
	if email != "" {
		normalized := strings.ToLower(email)
		owner = &normalized
	}

	calc := &models.Calculation{
		ID:          models.NewTimestampID(),
		Name:        name,
		ProductType: req.ProductType,
		PaperType:   req.Params.PaperType,
		PaperWeight: req.Params.PaperWeight,
		ColorMode:   req.Params.ColorMode,
		Circulation: req.Params.Circulation,
		Price:       quote.Total,
		DisplayDate: time.Now().Format(displayDateLayout),
		UserID:      owner,
	}
	if err := s.repo.Create(ctx, calc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save calculation")
	}
	dto := fromModel(calc)
	return &dto, nil
}

// List returns the caller's saved calculations. Staff see every record,
// ownerless ones included.
func (s *service) List(ctx context.Context, email string, role enums.Role) ([]CalculationDTO, error) {
	var (
		calcs []models.Calculation
		err   error
	)
	if role.Normalize().IsStaff() {
		calcs, err = s.repo.ListAll(ctx)
	} else {
		calcs, err = s.repo.ListForUser(ctx, strings.ToLower(email))
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list calculations")
	}

	dtos := make([]CalculationDTO, 0, len(calcs))
	for i := range calcs {
		dtos = append(dtos, fromModel(&calcs[i]))
	}
	return dtos, nil
}

// Delete removes a saved calculation. Customers may only delete their own.
func (s *service) Delete(ctx context.Context, email string, role enums.Role, id int64) error {
	calc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "calculation not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load calculation")
	}

	if !role.Normalize().IsStaff() {
		if calc.UserID == nil || !strings.EqualFold(*calc.UserID, email) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "calculation belongs to another user")
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "calculation not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete calculation")
	}
	return nil
}

func fromModel(calc *models.Calculation) CalculationDTO {
	return CalculationDTO{
		ID:          calc.ID,
		Name:        calc.Name,
		ProductType: calc.ProductType,
		PaperType:   calc.PaperType,
		PaperWeight: calc.PaperWeight,
		ColorMode:   calc.ColorMode,
		Circulation: calc.Circulation,
		Price:       calc.Price,
		Date:        calc.DisplayDate,
		UserID:      calc.UserID,
	}
}
