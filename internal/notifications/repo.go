package notifications

import (
	"context"
	"time"

	"github.com/printhub/printhub-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes notification persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a notifications repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create appends a notification to the recipient's queue.
func (r *Repository) Create(ctx context.Context, note *models.Notification) error {
	return r.db.WithContext(ctx).Create(note).Error
}

// ListForUser returns the user's notifications, newest first.
func (r *Repository) ListForUser(ctx context.Context, email string) ([]models.Notification, error) {
	var notes []models.Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", email).
		Order("created_at DESC, id DESC").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// DrainUnread returns the user's unread notifications and marks them read in
// one transaction, so a second drain returns nothing.
func (r *Repository) DrainUnread(ctx context.Context, email string) ([]models.Notification, error) {
	var notes []models.Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ? AND read_at IS NULL", email).
			Order("created_at ASC, id ASC").
			Find(&notes).Error; err != nil {
			return err
		}
		if len(notes) == 0 {
			return nil
		}
		ids := make([]int64, 0, len(notes))
		for _, note := range notes {
			ids = append(ids, note.ID)
		}
		now := time.Now().UTC()
		if err := tx.Model(&models.Notification{}).
			Where("id IN ?", ids).
			UpdateColumn("read_at", now).Error; err != nil {
			return err
		}
		for i := range notes {
			at := now
			notes[i].ReadAt = &at
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}
