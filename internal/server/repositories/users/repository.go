package users

import (
	"context"

	"github.com/marinesurvey/inspector/internal/server/models"
)

// Repository is the credential store.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, changes []models.FieldChange) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
