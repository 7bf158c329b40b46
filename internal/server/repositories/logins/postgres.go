package logins

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/marinesurvey/inspector/internal/dbx"
	"github.com/marinesurvey/inspector/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, login *models.Login) (*models.Login, error) {
	query :=
		`INSERT INTO logins (user_id, ip, user_agent)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, login.UserID, login.IP, login.UserAgent).
		Scan(&login.ID, &login.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return login, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Login, error) {
	query :=
		`SELECT id, user_id, ip, user_agent, created_at
		 FROM logins
		 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Login{}
	for rows.Next() {
		l := &models.Login{}
		var userID sql.NullString
		if err := rows.Scan(&l.ID, &userID, &l.IP, &l.UserAgent, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if userID.Valid {
			l.UserID = &userID.String
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
