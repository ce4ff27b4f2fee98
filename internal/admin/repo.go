package admin

import (
	"context"

	"github.com/printhub/printhub-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository performs the bulk maintenance writes that fall outside the
// per-entity repositories.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ClearData wipes orders, calculations, notifications and every non-admin
// user in one transaction. It returns the emails of the removed users so the
// caller can drop their Redis carts afterwards.
func (r *Repository) ClearData(ctx context.Context) ([]string, error) {
	var removed []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("role <> ?", "admin").
			Pluck("email", &removed).Error; err != nil {
			return err
		}
		for _, entity := range []any{&models.Order{}, &models.Calculation{}, &models.Notification{}} {
			if err := tx.Where("1 = 1").Delete(entity).Error; err != nil {
				return err
			}
		}
		return tx.Where("role <> ?", "admin").Delete(&models.User{}).Error
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}
