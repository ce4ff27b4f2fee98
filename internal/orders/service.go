package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/printhub/printhub-backend/pkg/config"
	"github.com/printhub/printhub-backend/pkg/db/models"
	"github.com/printhub/printhub-backend/pkg/enums"
	pkgerrors "github.com/printhub/printhub-backend/pkg/errors"
	"github.com/printhub/printhub-backend/pkg/logger"
	"github.com/printhub/printhub-backend/pkg/metrics"
	"github.com/printhub/printhub-backend/pkg/types"
	"gorm.io/gorm"
)

type orderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Order, error)
	ListForUser(ctx context.Context, email string) ([]models.Order, error)
	List(ctx context.Context, query ListQuery) (OrdersPage, error)
	UpdateStatus(ctx context.Context, id int64, status enums.OrderStatus, managerStamp bool) error
	CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
}

type cartReader interface {
	List(ctx context.Context, email string) ([]types.CartItem, error)
	Clear(ctx context.Context, email string) error
}

type notifier interface {
	Push(ctx context.Context, email, message string, kind enums.NotificationKind) error
}

// OrdersPageDTO is the manager-panel page of orders.
type OrdersPageDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
	Total      int64      `json:"total"`
}

// Service owns the order lifecycle: checkout, merges, and status transitions.
type Service interface {
	Checkout(ctx context.Context, email string, req CheckoutRequest) (*OrderDTO, error)
	Merge(ctx context.Context, email string, req MergeRequest) (*OrderDTO, error)
	Cancel(ctx context.Context, email string, id int64) (*OrderDTO, error)
	ConfirmPickup(ctx context.Context, email string, id int64) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*OrderDTO, error)
	Get(ctx context.Context, email string, role enums.Role, id int64) (*OrderDTO, error)
	ListMine(ctx context.Context, email string) ([]OrderDTO, error)
	List(ctx context.Context, query ListQuery) (OrdersPageDTO, error)
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	Repo          orderRepository
	Cart          cartReader
	Notifications notifier
	Metrics       *metrics.OrderMetrics
	Shipping      config.ShippingConfig
	Logger        *logger.Logger
}

type service struct {
	repo     orderRepository
	cart     cartReader
	notes    notifier
	metrics  *metrics.OrderMetrics
	shipping config.ShippingConfig
	logg     *logger.Logger
}

// NewService constructs an orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repository is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	if params.Notifications == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification service is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:     params.Repo,
		cart:     params.Cart,
		notes:    params.Notifications,
		metrics:  params.Metrics,
		shipping: params.Shipping,
		logg:     params.Logger,
	}, nil
}

// ParseOrderID normalizes a panel-supplied order id, tolerating a leading "#".
func ParseOrderID(raw string) (int64, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return id, nil
}

// Checkout freezes the cart into a new order and clears the cart.
func (s *service) Checkout(ctx context.Context, email string, req CheckoutRequest) (*OrderDTO, error) {
	items, err := s.cart.List(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if !req.Delivery.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery method is required")
	}
	if !req.Payment.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method is required")
	}

	var subtotal int64
	for _, item := range items {
		subtotal += item.LineTotal()
	}
	var deliveryPrice int64
	if req.Delivery.Method == enums.DeliveryMethodCourier {
		deliveryPrice = s.shipping.CourierFee
	}

	// The checkout form pre-fills contact from the profile; an empty field
	// still falls back to the signed-in account.
	contact := req.Contact
	if strings.TrimSpace(contact.Email) == "" {
		contact.Email = strings.ToLower(email)
	}

	delivery := req.Delivery
	payment := req.Payment
	order := &models.Order{
		ID:            models.NewTimestampID(),
		UserID:        strings.ToLower(email),
		Items:         items,
		Subtotal:      subtotal,
		DeliveryPrice: deliveryPrice,
		Total:         subtotal + deliveryPrice,
		Status:        enums.OrderStatusNew,
		Delivery:      &delivery,
		Payment:       &payment,
		Contact:       contact,
		Comment:       req.Comment,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	if err := s.cart.Clear(ctx, email); err != nil {
		// The order exists; an undead cart is an annoyance, not a failure.
		s.logg.Warn(s.logg.WithOrderID(ctx, order.ID), "cart not cleared after checkout: "+err.Error())
	}

	s.metrics.ObserveCreated(order.Total)
	s.refreshStatusGauges(ctx)

	dto := FromModel(order)
	return &dto, nil
}

// Merge concatenates the line items of prior orders into one new order,
// without re-pricing and without touching the source orders.
func (s *service) Merge(ctx context.Context, email string, req MergeRequest) (*OrderDTO, error) {
	if len(req.OrderIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no orders selected")
	}

	sources, err := s.repo.FindByIDs(ctx, req.OrderIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load source orders")
	}
	if len(sources) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	for _, source := range sources {
		if !strings.EqualFold(source.UserID, email) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
		}
	}

	var items []types.CartItem
	sourceIDs := make([]int64, 0, len(sources))
	numbers := make([]string, 0, len(sources))
	for _, source := range sources {
		items = append(items, source.Items...)
		sourceIDs = append(sourceIDs, source.ID)
		numbers = append(numbers, fmt.Sprintf("#%d", source.ID))
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected orders contain no items")
	}

	template := sources[0]
	for _, source := range sources {
		if source.Delivery != nil {
			template = source
			break
		}
	}

	var subtotal int64
	for _, item := range items {
		subtotal += item.LineTotal()
	}

	order := &models.Order{
		ID:             models.NewTimestampID(),
		UserID:         strings.ToLower(email),
		Items:          items,
		Subtotal:       subtotal,
		DeliveryPrice:  0,
		Total:          subtotal,
		Status:         enums.OrderStatusNew,
		Delivery:       template.Delivery,
		Payment:        template.Payment,
		Contact:        template.Contact,
		Comment:        "Повторный заказ из заказов: " + strings.Join(numbers, ", "),
		SourceOrderIDs: sourceIDs,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create merged order")
	}

	s.metrics.ObserveCreated(order.Total)
	s.refreshStatusGauges(ctx)

	dto := FromModel(order)
	return &dto, nil
}

// Cancel is the customer's exit: allowed only while the order is still new.
func (s *service) Cancel(ctx context.Context, email string, id int64) (*OrderDTO, error) {
	order, err := s.loadOwned(ctx, email, id)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusNew {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only new orders can be cancelled")
	}
	return s.transition(ctx, order, enums.OrderStatusCancelled, false)
}

// ConfirmPickup completes a ready order after the customer collects it.
func (s *service) ConfirmPickup(ctx context.Context, email string, id int64) (*OrderDTO, error) {
	order, err := s.loadOwned(ctx, email, id)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusReady {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not ready for pickup")
	}
	return s.transition(ctx, order, enums.OrderStatusCompleted, false)
}

// UpdateStatus is the manager dropdown: any move between live states,
// including backward, but never out of a terminal state.
func (s *service) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*OrderDTO, error) {
	id, err := ParseOrderID(req.OrderID)
	if err != nil {
		return nil, err
	}
	newStatus, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == newStatus {
		dto := FromModel(order)
		return &dto, nil
	}
	if order.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is already %s", order.Status.DisplayName()))
	}

	from := order.Status
	dto, err := s.transition(ctx, order, newStatus, true)
	if err != nil {
		return nil, err
	}

	if from == enums.OrderStatusNew && newStatus == enums.OrderStatusProcessing {
		message := fmt.Sprintf("Менеджер принял ваш заказ #%d", order.ID)
		if err := s.notes.Push(ctx, order.UserID, message, enums.NotificationKindSuccess); err != nil {
			s.logg.Warn(s.logg.WithOrderID(ctx, order.ID), "notification not delivered: "+err.Error())
		}
	}
	return dto, nil
}

// Get returns one order; customers only see their own.
func (s *service) Get(ctx context.Context, email string, role enums.Role, id int64) (*OrderDTO, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !role.Normalize().IsStaff() && !strings.EqualFold(order.UserID, email) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	dto := FromModel(order)
	return &dto, nil
}

func (s *service) ListMine(ctx context.Context, email string) ([]OrderDTO, error) {
	rows, err := s.repo.ListForUser(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return toDTOs(rows), nil
}

func (s *service) List(ctx context.Context, query ListQuery) (OrdersPageDTO, error) {
	page, err := s.repo.List(ctx, query)
	if err != nil {
		return OrdersPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return OrdersPageDTO{
		Orders:     toDTOs(page.Orders),
		NextCursor: page.NextCursor,
		Total:      page.Total,
	}, nil
}

func (s *service) transition(ctx context.Context, order *models.Order, to enums.OrderStatus, managerStamp bool) (*OrderDTO, error) {
	from := order.Status
	if err := s.repo.UpdateStatus(ctx, order.ID, to, managerStamp); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	s.metrics.ObserveTransition(from, to)
	s.refreshStatusGauges(ctx)

	updated, err := s.load(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	dto := FromModel(updated)
	return &dto, nil
}

func (s *service) loadOwned(ctx context.Context, email string, id int64) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(order.UserID, email) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) load(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) refreshStatusGauges(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.logg.Warn(ctx, "status gauge refresh failed: "+err.Error())
		return
	}
	for _, status := range enums.OrderStatuses() {
		s.metrics.SetStatusCount(status, counts[status])
	}
}
