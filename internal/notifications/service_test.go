package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/printhub/printhub-backend/pkg/db/models"
	"github.com/printhub/printhub-backend/pkg/enums"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Notification{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	svc, err := NewService(ServiceParams{Repo: NewRepository(conn)})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestPushAndDrainUnread(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	email := "demo@example.com"

	if err := svc.Push(ctx, email, "Менеджер принял ваш заказ #1001", enums.NotificationKindSuccess); err != nil {
		t.Fatalf("Push: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := svc.Push(ctx, email, "Заказ готов к выдаче", enums.NotificationKindInfo); err != nil {
		t.Fatalf("Push second: %v", err)
	}

	drained, err := svc.DrainUnread(ctx, email)
	if err != nil {
		t.Fatalf("DrainUnread: %v", err)
	}
	if len(drained) != 2 {
		t.Fatalf("expected 2 unread, got %d", len(drained))
	}
	if drained[0].Message != "Менеджер принял ваш заказ #1001" || drained[0].Kind != enums.NotificationKindSuccess {
		t.Fatalf("unexpected first notification: %+v", drained[0])
	}

	again, err := svc.DrainUnread(ctx, email)
	if err != nil {
		t.Fatalf("DrainUnread second: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected drained queue to stay empty, got %d", len(again))
	}

	history, err := svc.List(ctx, email)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected full history, got %d", len(history))
	}
	for _, note := range history {
		if !note.Read {
			t.Fatalf("expected history entries to be read: %+v", note)
		}
	}
}

func TestPush_NormalizesRecipientAndKind(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Push(ctx, "Demo@Example.com", "привет", enums.NotificationKind("shiny")); err != nil {
		t.Fatalf("Push: %v", err)
	}

	drained, err := svc.DrainUnread(ctx, "demo@example.com")
	if err != nil {
		t.Fatalf("DrainUnread: %v", err)
	}
	if len(drained) != 1 {
		t.Fatalf("expected lowercased recipient match, got %d", len(drained))
	}
	if drained[0].Kind != enums.NotificationKindInfo {
		t.Fatalf("expected unknown kind to normalize to info, got %s", drained[0].Kind)
	}
}

func TestPush_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Push(ctx, "", "msg", enums.NotificationKindInfo); err == nil {
		t.Fatal("expected error for missing recipient")
	}
	if err := svc.Push(ctx, "demo@example.com", "  ", enums.NotificationKindInfo); err == nil {
		t.Fatal("expected error for blank message")
	}
}

func TestDrainUnread_ScopedToRecipient(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Push(ctx, "a@example.com", "для A", enums.NotificationKindInfo); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := svc.Push(ctx, "b@example.com", "для B", enums.NotificationKindInfo); err != nil {
		t.Fatalf("Push: %v", err)
	}

	drained, err := svc.DrainUnread(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("DrainUnread: %v", err)
	}
	if len(drained) != 1 || drained[0].Message != "для A" {
		t.Fatalf("unexpected drained set: %+v", drained)
	}
}
