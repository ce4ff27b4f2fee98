package enums

import "fmt"

// DeliveryMethod describes how a finished order reaches the customer.
type DeliveryMethod string

const (
	DeliveryMethodCourier DeliveryMethod = "courier"
	DeliveryMethodPickup  DeliveryMethod = "pickup"
)

var validDeliveryMethods = []DeliveryMethod{
	DeliveryMethodCourier,
	DeliveryMethodPickup,
}

// IsValid reports whether the value matches the canonical delivery method enum.
func (d DeliveryMethod) IsValid() bool {
	for _, candidate := range validDeliveryMethods {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryMethod converts the raw string to DeliveryMethod.
func ParseDeliveryMethod(value string) (DeliveryMethod, error) {
	for _, candidate := range validDeliveryMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery method %q", value)
}
