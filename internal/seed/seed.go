package seed

import (
	"context"
	"errors"

	"github.com/printhub/printhub-backend/pkg/config"
	"github.com/printhub/printhub-backend/pkg/db/models"
	"github.com/printhub/printhub-backend/pkg/enums"
	"github.com/printhub/printhub-backend/pkg/logger"
	"gorm.io/gorm"
)

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// demoUsers mirrors the storefront's bundled accounts. Rows are inserted only
// when the email is absent; existing accounts are never overwritten.
func demoUsers() []models.User {
	return []models.User{
		{
			Email:    "demo@example.com",
			Name:     "Иван Иванов",
			Phone:    "+79991234567",
			Password: "demo1234",
			Role:     enums.RoleClient,
		},
		{
			Email:    "guest",
			Name:     "Гость",
			Phone:    "-",
			Password: "guest123",
			Role:     enums.RoleClient,
		},
		{
			Email:    "manager",
			Name:     "Менеджер",
			Phone:    "-",
			Password: "manager123",
			Role:     enums.RoleManager,
		},
		{
			Email:    "admin@printhub.ru",
			Name:     "Администратор",
			Phone:    "+7 (495) 000-00-00",
			Password: "admin123",
			Role:     enums.RoleAdmin,
		},
	}
}

// Run inserts the demo accounts when seeding is enabled. It reports how many
// rows were created.
func Run(ctx context.Context, cfg config.SeedConfig, repo userRepository, logg *logger.Logger) (int, error) {
	if !cfg.Enabled {
		return 0, nil
	}

	created := 0
	for _, user := range demoUsers() {
		_, err := repo.FindByEmail(ctx, user.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, err
		}
		user := user
		if err := repo.Create(ctx, &user); err != nil {
			return created, err
		}
		created++
	}
	if created > 0 && logg != nil {
		logg.Info(logg.WithField(ctx, "created", created), "seeded demo users")
	}
	return created, nil
}
