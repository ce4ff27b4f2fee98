package enums

import "fmt"

// OrderStatus is the canonical order lifecycle state.
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusProcessing,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// OrderStatuses returns every lifecycle state in transition order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(validOrderStatuses))
	copy(out, validOrderStatuses)
	return out
}

// IsValid reports whether the value matches the canonical order status enum.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed out of s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// DisplayName returns the customer-facing Russian label for the status.
func (s OrderStatus) DisplayName() string {
	switch s {
	case OrderStatusNew:
		return "Новый"
	case OrderStatusProcessing:
		return "В работе"
	case OrderStatusReady:
		return "Готов"
	case OrderStatusCompleted:
		return "Завершен"
	case OrderStatusCancelled:
		return "Отменен"
	}
	return string(s)
}

// ParseOrderStatus converts the raw string to OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
