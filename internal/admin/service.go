package admin

import (
	"context"
	"time"

	"github.com/printhub/printhub-backend/pkg/db/models"
	"github.com/printhub/printhub-backend/pkg/enums"
	pkgerrors "github.com/printhub/printhub-backend/pkg/errors"
	"github.com/printhub/printhub-backend/pkg/logger"
	"github.com/printhub/printhub-backend/pkg/metrics"
	"go.uber.org/multierr"
)

// ClearConfirmationPhrase must be sent verbatim with a clear-data request.
// The storefront asked the operator to confirm twice; the API equivalent is
// making the caller spell the action out.
const ClearConfirmationPhrase = "УДАЛИТЬ ВСЕ ДАННЫЕ"

// Service exposes the admin-panel maintenance operations.
type Service interface {
	Statistics(ctx context.Context) (*Statistics, error)
	ExportData(ctx context.Context) (*Export, error)
	ClearData(ctx context.Context, req ClearRequest) (*ClearResult, error)
}

type ordersReader interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
	SumTotals(ctx context.Context) (int64, error)
	ListAll(ctx context.Context) ([]models.Order, error)
}

type usersReader interface {
	CountCustomers(ctx context.Context) (int64, error)
	ListAll(ctx context.Context) ([]models.User, error)
}

type calculationsReader interface {
	Count(ctx context.Context) (int64, error)
	ListAll(ctx context.Context) ([]models.Calculation, error)
}

type dataWiper interface {
	ClearData(ctx context.Context) ([]string, error)
}

type cartCleaner interface {
	Clear(ctx context.Context, email string) error
}

// ServiceParams bundles the dependencies required to build an admin service.
type ServiceParams struct {
	Orders       ordersReader
	Users        usersReader
	Calculations calculationsReader
	Wiper        dataWiper
	Cart         cartCleaner
	Metrics      *metrics.OrderMetrics
	Logger       *logger.Logger
	Now          func() time.Time
}

type service struct {
	orders  ordersReader
	users   usersReader
	calcs   calculationsReader
	wiper   dataWiper
	cart    cartCleaner
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService constructs an admin service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repository is required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repository is required")
	}
	if params.Calculations == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "calculations repository is required")
	}
	if params.Wiper == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "data wiper is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		orders:  params.Orders,
		users:   params.Users,
		calcs:   params.Calculations,
		wiper:   params.Wiper,
		cart:    params.Cart,
		metrics: params.Metrics,
		logg:    params.Logger,
		now:     now,
	}, nil
}

func (s *service) Statistics(ctx context.Context) (*Statistics, error) {
	customers, err := s.users.CountCustomers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customers")
	}
	orderCount, err := s.orders.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	byStatus, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders by status")
	}
	calcCount, err := s.calcs.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count calculations")
	}
	revenue, err := s.orders.SumTotals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum order totals")
	}

	stats := &Statistics{
		Customers:      customers,
		Orders:         orderCount,
		OrdersByStatus: make(map[string]int64, len(enums.OrderStatuses())),
		Calculations:   calcCount,
		Revenue:        revenue,
	}
	// Every status appears in the response, zero counts included.
	for _, status := range enums.OrderStatuses() {
		stats.OrdersByStatus[string(status)] = byStatus[status]
	}
	return stats, nil
}

func (s *service) ExportData(ctx context.Context) (*Export, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "export users")
	}
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "export orders")
	}
	calcs, err := s.calcs.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "export calculations")
	}
	return &Export{
		GeneratedAt:  s.now().UTC(),
		Users:        users,
		Orders:       orders,
		Calculations: calcs,
	}, nil
}

func (s *service) ClearData(ctx context.Context, req ClearRequest) (*ClearResult, error) {
	if req.Confirm != ClearConfirmationPhrase {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "confirmation phrase does not match")
	}

	removed, err := s.wiper.ClearData(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear data")
	}

	// The database wipe already committed. Redis carts expire on their own,
	// so cleanup failures are logged rather than surfaced.
	if s.cart != nil {
		var cleanupErr error
		for _, email := range removed {
			cleanupErr = multierr.Append(cleanupErr, s.cart.Clear(ctx, email))
		}
		if cleanupErr != nil {
			s.logg.Warn(ctx, "data cleared but cart cleanup failed: "+cleanupErr.Error())
		}
	}

	for _, status := range enums.OrderStatuses() {
		s.metrics.SetStatusCount(status, 0)
	}
	s.logg.Info(ctx, "admin cleared all storefront data")
	return &ClearResult{RemovedUsers: len(removed)}, nil
}
