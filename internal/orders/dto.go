package orders

import (
	"time"

	"github.com/printhub/printhub-backend/pkg/db/models"
	"github.com/printhub/printhub-backend/pkg/enums"
	"github.com/printhub/printhub-backend/pkg/pagination"
	"github.com/printhub/printhub-backend/pkg/types"
)

// CheckoutRequest is the checkout form: where to ship, how to pay, who to call.
type CheckoutRequest struct {
	Delivery types.Delivery `json:"delivery"`
	Payment  types.Payment  `json:"payment"`
	Contact  types.Contact  `json:"contact"`
	Comment  string         `json:"comment"`
}

// ListQuery narrows the staff order book: pagination plus an optional status
// filter from the panel dropdown. An empty status means every order.
type ListQuery struct {
	Page   pagination.Params
	Status enums.OrderStatus
}

// MergeRequest selects prior orders to combine into a fresh re-order.
type MergeRequest struct {
	OrderIDs []int64 `json:"order_ids"`
}

// UpdateStatusRequest is the manager's status dropdown payload. The id may
// arrive with a leading "#" as shown in the panel.
type UpdateStatusRequest struct {
	OrderID string `json:"order_id" validate:"required"`
	Status  string `json:"status" validate:"required"`
}

// OrderDTO is the transport shape of one order.
type OrderDTO struct {
	ID               int64             `json:"id"`
	UserID           string            `json:"userId"`
	Items            []types.CartItem  `json:"items"`
	Subtotal         int64             `json:"subtotal"`
	DeliveryPrice    int64             `json:"deliveryPrice"`
	Total            int64             `json:"total"`
	Status           enums.OrderStatus `json:"status"`
	StatusLabel      string            `json:"statusLabel"`
	Delivery         *types.Delivery   `json:"delivery,omitempty"`
	Payment          *types.Payment    `json:"payment,omitempty"`
	Contact          types.Contact     `json:"contact"`
	Comment          string            `json:"comment,omitempty"`
	SourceOrderIDs   []int64           `json:"sourceOrderIds,omitempty"`
	ManagerUpdatedAt *time.Time        `json:"managerUpdatedAt,omitempty"`
	Date             time.Time         `json:"date"`
}

// FromModel converts an order record to its transport shape.
func FromModel(order *models.Order) OrderDTO {
	return OrderDTO{
		ID:               order.ID,
		UserID:           order.UserID,
		Items:            order.Items,
		Subtotal:         order.Subtotal,
		DeliveryPrice:    order.DeliveryPrice,
		Total:            order.Total,
		Status:           order.Status,
		StatusLabel:      order.Status.DisplayName(),
		Delivery:         order.Delivery,
		Payment:          order.Payment,
		Contact:          order.Contact,
		Comment:          order.Comment,
		SourceOrderIDs:   order.SourceOrderIDs,
		ManagerUpdatedAt: order.ManagerUpdatedAt,
		Date:             order.CreatedAt,
	}
}

func toDTOs(rows []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, FromModel(&rows[i]))
	}
	return dtos
}
