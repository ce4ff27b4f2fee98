package types

import "github.com/printhub/printhub-backend/pkg/enums"

// Delivery captures the shipping details collected at checkout.
type Delivery struct {
	City     string               `json:"city"`
	Street   string               `json:"street"`
	Postcode string               `json:"postcode"`
	Comment  string               `json:"comment,omitempty"`
	Method   enums.DeliveryMethod `json:"method"`
}

// Payment captures the payment choice made at checkout.
type Payment struct {
	Method enums.PaymentMethod `json:"method"`
}

// Contact is the customer snapshot frozen into an order at checkout time.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}
