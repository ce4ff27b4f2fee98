package models

import (
	"time"

	"github.com/printhub/printhub-backend/pkg/enums"
	"github.com/printhub/printhub-backend/pkg/types"
)

// Order is an immutable snapshot of a checked-out cart plus its lifecycle
// status. Line items, delivery, payment and contact are frozen copies; only
// the status and the manager timestamp change after creation.
type Order struct {
	ID               int64             `gorm:"column:id;primaryKey;autoIncrement:false"`
	UserID           string            `gorm:"column:user_id;type:text;not null;index"`
	Items            []types.CartItem  `gorm:"column:items;type:jsonb;serializer:json"`
	Subtotal         int64             `gorm:"column:subtotal;not null"`
	DeliveryPrice    int64             `gorm:"column:delivery_price;not null;default:0"`
	Total            int64             `gorm:"column:total;not null"`
	Status           enums.OrderStatus `gorm:"column:status;type:text;not null;default:'new'"`
	Delivery         *types.Delivery   `gorm:"column:delivery;type:jsonb;serializer:json"`
	Payment          *types.Payment    `gorm:"column:payment;type:jsonb;serializer:json"`
	Contact          types.Contact     `gorm:"column:contact;type:jsonb;serializer:json"`
	Comment          string            `gorm:"column:comment;type:text"`
	SourceOrderIDs   []int64           `gorm:"column:source_order_ids;type:jsonb;serializer:json"`
	ManagerUpdatedAt *time.Time        `gorm:"column:manager_updated_at"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// ItemsTotal sums price times quantity across the order's line items.
func (o *Order) ItemsTotal() int64 {
	var sum int64
	for _, item := range o.Items {
		sum += item.LineTotal()
	}
	return sum
}
