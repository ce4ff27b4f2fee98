package models

import (
	"time"

	"github.com/printhub/printhub-backend/pkg/enums"
)

// Calculation is a saved pricing-configuration snapshot. A nil UserID marks a
// record without an owner; such records stay hidden from customer listings.
type Calculation struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name        string            `gorm:"column:name;type:text;not null"`
	ProductType enums.ProductType `gorm:"column:product_type;type:text;not null"`
	PaperType   enums.PaperType   `gorm:"column:paper_type;type:text;not null"`
	PaperWeight string            `gorm:"column:paper_weight;type:text;not null"`
	ColorMode   enums.ColorMode   `gorm:"column:color_type;type:text;not null"`
	Circulation int               `gorm:"column:circulation;not null"`
	Price       int64             `gorm:"column:price;not null"`
	DisplayDate string            `gorm:"column:display_date;type:text;not null"`
	UserID      *string           `gorm:"column:user_id;type:text;index"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}
