package notifications

import (
	"context"
	"strings"
	"time"

	"github.com/printhub/printhub-backend/pkg/db/models"
	"github.com/printhub/printhub-backend/pkg/enums"
	pkgerrors "github.com/printhub/printhub-backend/pkg/errors"
)

// NotificationDTO is the transport shape for one queued message.
type NotificationDTO struct {
	ID      int64                  `json:"id"`
	Message string                 `json:"message"`
	Kind    enums.NotificationKind `json:"type"`
	Read    bool                   `json:"read"`
	Date    time.Time              `json:"date"`
}

type notificationRepository interface {
	Create(ctx context.Context, note *models.Notification) error
	ListForUser(ctx context.Context, email string) ([]models.Notification, error)
	DrainUnread(ctx context.Context, email string) ([]models.Notification, error)
}

// Service is the per-user notification outbox.
type Service interface {
	Push(ctx context.Context, email, message string, kind enums.NotificationKind) error
	DrainUnread(ctx context.Context, email string) ([]NotificationDTO, error)
	List(ctx context.Context, email string) ([]NotificationDTO, error)
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Repo notificationRepository
}

type service struct {
	repo notificationRepository
}

// NewService constructs a notifications service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification repository is required")
	}
	return &service{repo: params.Repo}, nil
}

// Push appends an unread message to the recipient's queue.
func (s *service) Push(ctx context.Context, email, message string, kind enums.NotificationKind) error {
	if strings.TrimSpace(email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient is required")
	}
	if strings.TrimSpace(message) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	note := &models.Notification{
		ID:      models.NewTimestampID(),
		UserID:  strings.ToLower(email),
		Message: message,
		Kind:    kind.Normalize(),
	}
	if err := s.repo.Create(ctx, note); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "push notification")
	}
	return nil
}

// DrainUnread returns the unread queue and marks it read. The cabinet calls
// this on load, so each message surfaces exactly once.
func (s *service) DrainUnread(ctx context.Context, email string) ([]NotificationDTO, error) {
	notes, err := s.repo.DrainUnread(ctx, strings.ToLower(email))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "drain notifications")
	}
	return toDTOs(notes), nil
}

// List returns the full history, read entries included.
func (s *service) List(ctx context.Context, email string) ([]NotificationDTO, error) {
	notes, err := s.repo.ListForUser(ctx, strings.ToLower(email))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	return toDTOs(notes), nil
}

func toDTOs(notes []models.Notification) []NotificationDTO {
	dtos := make([]NotificationDTO, 0, len(notes))
	for _, note := range notes {
		dtos = append(dtos, NotificationDTO{
			ID:      note.ID,
			Message: note.Message,
			Kind:    note.Kind,
			Read:    note.Read(),
			Date:    note.CreatedAt,
		})
	}
	return dtos
}
