package types

import "github.com/printhub/printhub-backend/pkg/enums"

// PrintParams is the product configuration tuple the calculator prices.
type PrintParams struct {
	PaperType   enums.PaperType `json:"paperType"`
	PaperWeight string          `json:"paperWeight"`
	ColorMode   enums.ColorMode `json:"colorType"`
	Circulation int             `json:"circulation"`
}

// ImageAttachment is a customer-uploaded layout file stored inline.
type ImageAttachment struct {
	Name     string `json:"name"`
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

// CartItem is one priced product configuration inside a cart. The unit price
// is already fully computed by the calculator; the cart never re-prices.
type CartItem struct {
	ID          int64             `json:"id"`
	ProductType enums.ProductType `json:"productId"`
	Name        string            `json:"name"`
	Price       int64             `json:"price"`
	Quantity    int               `json:"quantity"`
	Params      PrintParams       `json:"params"`
	Images      []ImageAttachment `json:"images,omitempty"`
}

// LineTotal returns price multiplied by quantity for the item.
func (i CartItem) LineTotal() int64 {
	qty := i.Quantity
	if qty < 1 {
		qty = 1
	}
	return i.Price * int64(qty)
}

// CartSummary aggregates the cart money amounts, in whole rubles.
type CartSummary struct {
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"deliveryFee"`
	Total       int64 `json:"total"`
}
