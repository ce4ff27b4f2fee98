package calculations

import (
	"context"

	"github.com/printhub/printhub-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes calculation persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a calculations repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a saved calculation snapshot.
func (r *Repository) Create(ctx context.Context, calc *models.Calculation) error {
	return r.db.WithContext(ctx).Create(calc).Error
}

// FindByID loads one calculation.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Calculation, error) {
	var calc models.Calculation
	if err := r.db.WithContext(ctx).First(&calc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &calc, nil
}

// ListForUser returns the calculations owned by the email, newest first.
// Ownerless records never appear in customer listings.
func (r *Repository) ListForUser(ctx context.Context, email string) ([]models.Calculation, error) {
	var calcs []models.Calculation
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", email).
		Order("created_at DESC, id DESC").
		Find(&calcs).Error; err != nil {
		return nil, err
	}
	return calcs, nil
}

// ListAll returns every calculation, ownerless ones included. Staff only.
func (r *Repository) ListAll(ctx context.Context) ([]models.Calculation, error) {
	var calcs []models.Calculation
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&calcs).Error; err != nil {
		return nil, err
	}
	return calcs, nil
}

// Delete removes one calculation by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Calculation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Count returns the total number of saved calculations.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Calculation{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
