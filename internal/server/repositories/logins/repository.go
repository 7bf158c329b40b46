package logins

import (
	"context"

	"github.com/marinesurvey/inspector/internal/server/models"
)

// Repository is the append-only login audit log.
type Repository interface {
	Create(ctx context.Context, login *models.Login) (*models.Login, error)
	List(ctx context.Context) ([]*models.Login, error)
}
