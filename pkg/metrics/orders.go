package metrics

import (
	"github.com/printhub/printhub-backend/pkg/enums"
	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records order lifecycle activity for the ops dashboard.
type OrderMetrics struct {
	created     prometheus.Counter
	transitions *prometheus.CounterVec
	byStatus    *prometheus.GaugeVec
	revenue     prometheus.Counter
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders placed through checkout.",
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions by from/to status.",
	}, []string{"from", "to"})
	byStatus := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "orders_by_status",
		Help: "Current number of orders per status.",
	}, []string{"status"})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_revenue_rub_total",
		Help: "Total order value in rubles at checkout time.",
	})
	reg.MustRegister(created, transitions, byStatus, revenue)
	return &OrderMetrics{
		created:     created,
		transitions: transitions,
		byStatus:    byStatus,
		revenue:     revenue,
	}
}

// ObserveCreated counts a new order and its total.
func (m *OrderMetrics) ObserveCreated(total int64) {
	if m == nil || m.created == nil {
		return
	}
	m.created.Inc()
	m.revenue.Add(float64(total))
}

// ObserveTransition counts one status change.
func (m *OrderMetrics) ObserveTransition(from, to enums.OrderStatus) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(statusLabel(from), statusLabel(to)).Inc()
}

// SetStatusCount reports how many orders currently sit in a status.
func (m *OrderMetrics) SetStatusCount(status enums.OrderStatus, count int64) {
	if m == nil || m.byStatus == nil {
		return
	}
	m.byStatus.WithLabelValues(statusLabel(status)).Set(float64(count))
}

func statusLabel(status enums.OrderStatus) string {
	if status == "" {
		return "unknown"
	}
	return string(status)
}
