package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/marinesurvey/inspector/internal/common"
	"github.com/marinesurvey/inspector/internal/dbx"
	"github.com/marinesurvey/inspector/internal/server/models"
)

const userColumns = `id, email, password_hash, is_profile_complete, full_name, title, employee_id,
		 license_number, certifications, experience, company, phone, ship_specialization, availability,
		 location, additional_notes, signature, vessel_name, vessel_imo, vessel_type, created_at, updated_at`

// updatable lists the columns a profile update may write.
var updatable = map[string]bool{
	"full_name": true, "title": true, "employee_id": true, "license_number": true,
	"certifications": true, "experience": true, "company": true, "phone": true, "email": true,
	"ship_specialization": true, "availability": true, "location": true, "additional_notes": true,
	"signature": true, "vessel_name": true, "vessel_imo": true, "vessel_type": true,
	models.ColumnProfileComplete: true,
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (email, password_hash)
		 VALUES ($1, $2)
		 RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query, user.Email, user.PasswordHash))
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.WrapError(common.ErrorConflict, "User already exists", err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE email = $1`

	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE id = $1`

	return r.getOne(ctx, query, id)
}

// Update writes the staged changes to one row in a single statement and
// returns the row as stored.
func (r *PostgresRepository) Update(ctx context.Context, id string, changes []models.FieldChange) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	sets := make([]string, 0, len(changes)+1)
	args := make([]any, 0, len(changes)+1)
	for _, c := range changes {
		if !updatable[c.Column] {
			return nil, fmt.Errorf("column %q is not updatable", c.Column)
		}
		value := c.Value
		if list, ok := value.([]string); ok {
			b, err := json.Marshal(list)
			if err != nil {
				return nil, err
			}
			value = string(b)
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", c.Column, len(args)))
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE users SET %s
		 WHERE id = $%d
		 RETURNING %s`, strings.Join(sets, ", "), len(args), userColumns)

	updated, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrorNotFound
		case dbx.IsUniqueViolation(err):
			return nil, common.WrapError(common.ErrorConflict, "Email already in use", err)
		case dbx.IsCheckViolation(err):
			return nil, common.WrapError(common.ErrorValidation, "Invalid profile value", err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u     models.User
		specs []byte
		avail string
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsProfileComplete, &u.FullName, &u.Title,
		&u.EmployeeID, &u.LicenseNumber, &u.Certifications, &u.Experience, &u.Company, &u.Phone,
		&specs, &avail, &u.Location, &u.AdditionalNotes, &u.Signature,
		&u.CurrentVessel.Name, &u.CurrentVessel.IMO, &u.CurrentVessel.Type, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	u.Availability = models.Availability(avail)
	u.ShipSpecialization = []string{}
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &u.ShipSpecialization); err != nil {
			return nil, fmt.Errorf("decode ship_specialization: %w", err)
		}
	}
	return &u, nil
}
