package cart

import (
	"context"
	"strings"
	"time"

	"github.com/printhub/printhub-backend/pkg/config"
	"github.com/printhub/printhub-backend/pkg/db/models"
	pkgerrors "github.com/printhub/printhub-backend/pkg/errors"
	"github.com/printhub/printhub-backend/pkg/types"
)

func newItemID() int64 {
	return models.NewTimestampID()
}

const (
	minQuantity = 1
	maxQuantity = 999
)

// store is the slice of the Redis client the cart needs.
type store interface {
	CartKey(email string) string
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, doc any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Service manages each customer's cart document.
type Service interface {
	List(ctx context.Context, email string) ([]types.CartItem, error)
	AddItem(ctx context.Context, email string, item types.CartItem) ([]types.CartItem, error)
	RemoveItem(ctx context.Context, email string, itemID int64) ([]types.CartItem, error)
	SetQuantity(ctx context.Context, email string, itemID int64, quantity int) ([]types.CartItem, error)
	Clear(ctx context.Context, email string) error
	Summary(ctx context.Context, email string) (types.CartSummary, error)
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	Store    store
	Shipping config.ShippingConfig
}

type service struct {
	store    store
	shipping config.ShippingConfig
}

// NewService constructs a cart service backed by the Redis document store.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	return &service{store: params.Store, shipping: params.Shipping}, nil
}

// List returns the cart items. A missing document is an empty cart.
func (s *service) List(ctx context.Context, email string) ([]types.CartItem, error) {
	return s.load(ctx, email)
}

// AddItem appends the item, assigning an id when the client did not send one.
func (s *service) AddItem(ctx context.Context, email string, item types.CartItem) ([]types.CartItem, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if item.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price must not be negative")
	}
	item.Quantity = clampQuantity(item.Quantity)
	if item.ID == 0 {
		item.ID = newItemID()
	}

	items, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}
	items = append(items, item)
	if err := s.save(ctx, email, items); err != nil {
		return nil, err
	}
	return items, nil
}

// RemoveItem drops the line item if present. Removing a missing id is a no-op.
func (s *service) RemoveItem(ctx context.Context, email string, itemID int64) ([]types.CartItem, error) {
	items, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}
	filtered := items[:0]
	for _, item := range items {
		if item.ID != itemID {
			filtered = append(filtered, item)
		}
	}
	if err := s.save(ctx, email, filtered); err != nil {
		return nil, err
	}
	return filtered, nil
}

// SetQuantity updates one line item's quantity, clamped to [1, 999].
func (s *service) SetQuantity(ctx context.Context, email string, itemID int64, quantity int) ([]types.CartItem, error) {
	items, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range items {
		if items[i].ID == itemID {
			items[i].Quantity = clampQuantity(quantity)
			found = true
			break
		}
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if err := s.save(ctx, email, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Clear removes the whole cart document.
func (s *service) Clear(ctx context.Context, email string) error {
	if err := s.store.Del(ctx, s.store.CartKey(email)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// Summary computes subtotal, the free-shipping-aware delivery fee, and total.
func (s *service) Summary(ctx context.Context, email string) (types.CartSummary, error) {
	items, err := s.load(ctx, email)
	if err != nil {
		return types.CartSummary{}, err
	}
	return Summarize(items, s.shipping), nil
}

// Summarize is the pure cart math shared with checkout previews. The delivery
// fee applies only while the subtotal sits below the free-shipping threshold.
func Summarize(items []types.CartItem, shipping config.ShippingConfig) types.CartSummary {
	var subtotal int64
	for _, item := range items {
		subtotal += item.LineTotal()
	}
	var fee int64
	if subtotal > 0 && subtotal < shipping.FreeShippingThreshold {
		fee = shipping.CourierFee
	}
	return types.CartSummary{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal + fee,
	}
}

func (s *service) load(ctx context.Context, email string) ([]types.CartItem, error) {
	var items []types.CartItem
	if _, err := s.store.GetJSON(ctx, s.store.CartKey(email), &items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if items == nil {
		items = []types.CartItem{}
	}
	return items, nil
}

func (s *service) save(ctx context.Context, email string, items []types.CartItem) error {
	if err := s.store.SetJSON(ctx, s.store.CartKey(email), items, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func clampQuantity(quantity int) int {
	if quantity < minQuantity {
		return minQuantity
	}
	if quantity > maxQuantity {
		return maxQuantity
	}
	return quantity
}
