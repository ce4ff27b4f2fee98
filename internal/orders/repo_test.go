package orders

import (
	"context"
	"testing"
	"time"

	"github.com/printhub/printhub-backend/pkg/db/models"
	"github.com/printhub/printhub-backend/pkg/enums"
	"github.com/printhub/printhub-backend/pkg/pagination"
	"github.com/printhub/printhub-backend/pkg/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Order{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return NewRepository(conn)
}

func seedOrders(t *testing.T, repo *Repository, count int) []int64 {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		order := &models.Order{
			ID:        models.NewTimestampID(),
			UserID:    "demo@example.com",
			Items:     []types.CartItem{{ID: int64(i + 1), Name: "Листовки", Price: 1200, Quantity: 1}},
			Subtotal:  1200,
			Total:     1200,
			Status:    enums.OrderStatusNew,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(ctx, order); err != nil {
			t.Fatalf("create order %d: %v", i, err)
		}
		ids = append(ids, order.ID)
	}
	return ids
}

func TestList_CursorPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedOrders(t, repo, 5)

	first, err := repo.List(ctx, ListQuery{Page: pagination.Params{Limit: 2}})
	if err != nil {
		t.Fatalf("List first page: %v", err)
	}
	if len(first.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(first.Orders))
	}
	if first.NextCursor == "" {
		t.Fatal("expected next cursor")
	}
	if first.Total != 5 {
		t.Fatalf("expected total 5, got %d", first.Total)
	}

	second, err := repo.List(ctx, ListQuery{Page: pagination.Params{Limit: 2, Cursor: first.NextCursor}})
	if err != nil {
		t.Fatalf("List second page: %v", err)
	}
	if len(second.Orders) != 2 {
		t.Fatalf("expected 2 orders on second page, got %d", len(second.Orders))
	}
	if second.Orders[0].CreatedAt.After(first.Orders[1].CreatedAt) {
		t.Fatal("expected pages to move backwards in time")
	}

	third, err := repo.List(ctx, ListQuery{Page: pagination.Params{Limit: 2, Cursor: second.NextCursor}})
	if err != nil {
		t.Fatalf("List third page: %v", err)
	}
	if len(third.Orders) != 1 || third.NextCursor != "" {
		t.Fatalf("expected final page of 1, got %d cursor=%q", len(third.Orders), third.NextCursor)
	}
}

func TestList_StatusFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	ids := seedOrders(t, repo, 4)

	if err := repo.UpdateStatus(ctx, ids[0], enums.OrderStatusProcessing, true); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := repo.UpdateStatus(ctx, ids[1], enums.OrderStatusProcessing, true); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	page, err := repo.List(ctx, ListQuery{
		Page:   pagination.Params{Limit: 10},
		Status: enums.OrderStatusProcessing,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Orders) != 2 {
		t.Fatalf("expected 2 processing orders, got %d", len(page.Orders))
	}
	if page.Total != 2 {
		t.Fatalf("expected filtered total 2, got %d", page.Total)
	}
	for _, order := range page.Orders {
		if order.Status != enums.OrderStatusProcessing {
			t.Fatalf("unexpected status %s in filtered page", order.Status)
		}
	}

	all, err := repo.List(ctx, ListQuery{Page: pagination.Params{Limit: 10}})
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if all.Total != 4 {
		t.Fatalf("expected unfiltered total 4, got %d", all.Total)
	}
}

func TestFindByIDs_PreservesRequestOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	ids := seedOrders(t, repo, 3)

	rows, err := repo.FindByIDs(ctx, []int64{ids[2], ids[0]})
	if err != nil {
		t.Fatalf("FindByIDs: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != ids[2] || rows[1].ID != ids[0] {
		t.Fatalf("expected request ordering, got %d,%d", rows[0].ID, rows[1].ID)
	}
}

func TestUpdateStatus_StampsManagerTimestamp(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	ids := seedOrders(t, repo, 1)

	if err := repo.UpdateStatus(ctx, ids[0], enums.OrderStatusProcessing, true); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	order, err := repo.FindByID(ctx, ids[0])
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if order.Status != enums.OrderStatusProcessing {
		t.Fatalf("expected processing, got %s", order.Status)
	}
	if order.ManagerUpdatedAt == nil {
		t.Fatal("expected manager stamp")
	}

	if err := repo.UpdateStatus(ctx, 424242, enums.OrderStatusReady, false); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestCountByStatusAndSumTotals(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	ids := seedOrders(t, repo, 3)

	if err := repo.UpdateStatus(ctx, ids[0], enums.OrderStatusCompleted, true); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[enums.OrderStatusNew] != 2 || counts[enums.OrderStatusCompleted] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}

	sum, err := repo.SumTotals(ctx)
	if err != nil {
		t.Fatalf("SumTotals: %v", err)
	}
	if sum != 3600 {
		t.Fatalf("expected 3600, got %d", sum)
	}
}
