package models

import (
	"time"

	"github.com/printhub/printhub-backend/pkg/enums"
)

// Notification stores a queued in-app message for one recipient.
type Notification struct {
	ID        int64                  `gorm:"column:id;primaryKey;autoIncrement:false"`
	UserID    string                 `gorm:"column:user_id;type:text;not null;index"`
	Message   string                 `gorm:"column:message;type:text;not null"`
	Kind      enums.NotificationKind `gorm:"column:kind;type:text;not null;default:'info'"`
	ReadAt    *time.Time             `gorm:"column:read_at"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}

// Read reports whether the notification was already delivered to the cabinet.
func (n *Notification) Read() bool {
	return n.ReadAt != nil
}
