package inspections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/marinesurvey/inspector/internal/common"
	"github.com/marinesurvey/inspector/internal/dbx"
	"github.com/marinesurvey/inspector/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, in *models.Inspection) (*models.Inspection, error) {
	query :=
		`INSERT INTO inspections (user_id, ship_name, port_name, status, inspection_type, inspection_date, logo, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, report_url, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		in.UserID, in.ShipName, in.PortName, string(in.Status), in.InspectionType, in.InspectionDate, in.Logo, in.Notes,
	).Scan(&in.ID, &in.ReportURL, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		switch {
		case dbx.IsForeignKeyViolation(err):
			return nil, common.WrapError(common.ErrorValidation, "User not found", err)
		case dbx.IsCheckViolation(err):
			return nil, common.WrapError(common.ErrorValidation, "Invalid inspection status", err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	for pos, ref := range in.ShipImages {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO inspection_images (inspection_id, position, ref) VALUES ($1, $2, $3)`,
			in.ID, pos, ref)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}

	return in, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Inspection, error) {
	query :=
		`SELECT id, user_id, ship_name, port_name, status, inspection_type, inspection_date,
		        logo, report_url, notes, created_at, updated_at
		 FROM inspections
		 WHERE id = $1`

	in := &models.Inspection{}
	var status string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&in.ID, &in.UserID, &in.ShipName, &in.PortName, &status,
		&in.InspectionType, &in.InspectionDate, &in.Logo, &in.ReportURL, &in.Notes, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	in.Status = models.InspectionStatus(status)

	rows, err := r.db.QueryContext(ctx,
		`SELECT ref FROM inspection_images WHERE inspection_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	in.ShipImages = []string{}
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		in.ShipImages = append(in.ShipImages, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return in, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Inspection, error) {
	query :=
		`SELECT i.id, i.user_id, i.ship_name, i.port_name, i.status, i.inspection_type, i.inspection_date,
		        i.logo, i.report_url, i.notes, i.created_at, i.updated_at, img.ref
		 FROM inspections i
		 LEFT JOIN inspection_images img ON img.inspection_id = i.id
		 ORDER BY i.created_at DESC, i.id, img.position`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Inspection{}
	var last *models.Inspection
	for rows.Next() {
		var (
			in     models.Inspection
			status string
			ref    sql.NullString
		)
		if err := rows.Scan(&in.ID, &in.UserID, &in.ShipName, &in.PortName, &status, &in.InspectionType,
			&in.InspectionDate, &in.Logo, &in.ReportURL, &in.Notes, &in.CreatedAt, &in.UpdatedAt, &ref); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		// rows of one inspection are adjacent
		if last == nil || last.ID != in.ID {
			in.Status = models.InspectionStatus(status)
			in.ShipImages = []string{}
			last = &in
			result = append(result, last)
		}
		if ref.Valid {
			last.ShipImages = append(last.ShipImages, ref.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
