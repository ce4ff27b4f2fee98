package orders

import (
	"context"
	"strings"
	"time"

	"github.com/printhub/printhub-backend/pkg/db/models"
	"github.com/printhub/printhub-backend/pkg/enums"
	"github.com/printhub/printhub-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes order persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new order snapshot.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads one order.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDs loads the orders matching the ids, preserving request order.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) ([]models.Order, error) {
	var rows []models.Order
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Order, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	ordered := make([]models.Order, 0, len(rows))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered, nil
}

// ListForUser returns the user's orders, newest first.
func (r *Repository) ListForUser(ctx context.Context, email string) ([]models.Order, error) {
	var rows []models.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.ToLower(email)).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// OrdersPage is one cursor-paginated slice of the order book.
type OrdersPage struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
	Total      int64          `json:"total"`
}

// List returns a cursor-paginated page over the order book, newest first,
// optionally narrowed to one status.
func (r *Repository) List(ctx context.Context, q ListQuery) (OrdersPage, error) {
	normalizedLimit := pagination.NormalizeLimit(q.Page.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(q.Page.Limit)
	decodedCursor, err := pagination.ParseCursor(q.Page.Cursor)
	if err != nil {
		return OrdersPage{}, err
	}

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if decodedCursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID,
		)
	}

	var rows []models.Order
	if err := query.
		Order("created_at DESC").Order("id DESC").
		Limit(limitWithBuffer).
		Find(&rows).Error; err != nil {
		return OrdersPage{}, err
	}

	nextCursor := ""
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	countQuery := r.db.WithContext(ctx).Model(&models.Order{})
	if q.Status != "" {
		countQuery = countQuery.Where("status = ?", q.Status)
	}
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return OrdersPage{}, err
	}

	return OrdersPage{Orders: rows, NextCursor: nextCursor, Total: total}, nil
}

// UpdateStatus persists a status change. managerStamp marks the transition as
// a manager action and refreshes manager_updated_at.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status enums.OrderStatus, managerStamp bool) error {
	updates := map[string]any{"status": status}
	if managerStamp {
		updates["manager_updated_at"] = time.Now().UTC()
	}
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Count returns the total number of orders.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus groups the order book by status.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	type row struct {
		Status enums.OrderStatus `gorm:"column:status"`
		Count  int64             `gorm:"column:count"`
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status", "COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[enums.OrderStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// SumTotals returns the lifetime revenue across all orders.
func (r *Repository) SumTotals(ctx context.Context) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

// ListAll returns every order record. Used by the admin export.
func (r *Repository) ListAll(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
