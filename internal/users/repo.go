package users

import (
	"context"
	"strings"
	"time"

	"github.com/printhub/printhub-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user record.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByEmail retrieves the user matching the provided email, case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIdentifier matches the identifier against email or phone, both
// case-insensitively. The login form accepts either.
func (r *Repository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(identifier))
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ? OR LOWER(phone) = ?", normalized, normalized).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword overwrites the stored password for the user.
func (r *Repository) UpdatePassword(ctx context.Context, email, password string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]any{"password": password, "updated_at": time.Now().UTC()}).Error
}

// UpdateProfile rewrites the mutable profile fields. When the email changes,
// ownership of orders, calculations and notifications moves to the new email
// inside the same transaction.
func (r *Repository) UpdateProfile(ctx context.Context, oldEmail string, name, phone, newEmail string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"name":       name,
			"phone":      phone,
			"updated_at": time.Now().UTC(),
		}
		renamed := newEmail != "" && newEmail != oldEmail
		if renamed {
			updates["email"] = newEmail
		}
		result := tx.Model(&models.User{}).Where("email = ?", oldEmail).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if !renamed {
			return nil
		}

		for _, model := range []any{&models.Order{}, &models.Calculation{}, &models.Notification{}} {
			if err := tx.Model(model).
				Where("user_id = ?", oldEmail).
				UpdateColumn("user_id", newEmail).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the user and everything keyed by their email in one
// transaction: orders, calculations and the notification queue.
func (r *Repository) Delete(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("email = ?", email).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		for _, model := range []any{&models.Order{}, &models.Calculation{}, &models.Notification{}} {
			if err := tx.Where("user_id = ?", email).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListCustomers returns all non-staff users annotated with order aggregates.
func (r *Repository) ListCustomers(ctx context.Context) ([]CustomerDTO, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("role NOT IN ?", []string{"manager", "admin"}).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}

	type aggregate struct {
		UserID     string `gorm:"column:user_id"`
		OrderCount int64  `gorm:"column:order_count"`
		TotalSpent int64  `gorm:"column:total_spent"`
	}
	var aggregates []aggregate
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("user_id", "COUNT(*) AS order_count", "COALESCE(SUM(total), 0) AS total_spent").
		Group("user_id").
		Scan(&aggregates).Error; err != nil {
		return nil, err
	}
	byUser := make(map[string]aggregate, len(aggregates))
	for _, a := range aggregates {
		byUser[a.UserID] = a
	}

	customers := make([]CustomerDTO, 0, len(users))
	for i := range users {
		user := users[i]
		dto := CustomerFromModel(&user)
		if agg, ok := byUser[user.Email]; ok {
			dto.OrderCount = agg.OrderCount
			dto.TotalSpent = agg.TotalSpent
		}
		address, err := r.latestDeliveryAddress(ctx, user.Email)
		if err != nil {
			return nil, err
		}
		dto.LastDeliveryAddress = address
		customers = append(customers, dto)
	}
	return customers, nil
}

// Count returns how many users exist, staff included.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountCustomers returns how many non-staff users exist.
func (r *Repository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role NOT IN ?", []string{"manager", "admin"}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListAll returns every user record. Used by the admin export.
func (r *Repository) ListAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Repository) latestDeliveryAddress(ctx context.Context, email string) (string, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND delivery IS NOT NULL", email).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	if order.Delivery == nil {
		return "", nil
	}
	parts := make([]string, 0, 3)
	for _, part := range []string{order.Delivery.City, order.Delivery.Street, order.Delivery.Postcode} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", "), nil
}
