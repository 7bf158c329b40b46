package inspections

import (
	"context"

	"github.com/marinesurvey/inspector/internal/server/models"
)

type Repository interface {
	// Create inserts the inspection and its image references. Callers run it
	// inside a transaction.
	Create(ctx context.Context, inspection *models.Inspection) (*models.Inspection, error)
	GetByID(ctx context.Context, id string) (*models.Inspection, error)
	// List returns every inspection, newest first.
	List(ctx context.Context) ([]*models.Inspection, error)
}
