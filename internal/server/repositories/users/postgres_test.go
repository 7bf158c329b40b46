package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/marinesurvey/inspector/internal/common"
	"github.com/marinesurvey/inspector/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = "5b0c1a64-8f5e-4b8e-9c55-3f4a0c7d2e11"

var columns = []string{
	"id", "email", "password_hash", "is_profile_complete", "full_name", "title", "employee_id",
	"license_number", "certifications", "experience", "company", "phone", "ship_specialization", "availability",
	"location", "additional_notes", "signature", "vessel_name", "vessel_imo", "vessel_type", "created_at", "updated_at",
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userRow(email string, complete bool, specs string, vesselName string) *sqlmock.Rows {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return sqlmock.NewRows(columns).AddRow(
		userID, email, "$2a$10$hash", complete, "Ann Lee", "", "", "", "", "", "", "",
		[]byte(specs), "AVAILABLE", "", "", "", vesselName, "9074729", "Tanker", now, now,
	)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(email,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id,`
	mock.ExpectQuery(q).
		WithArgs("a@b.io", "$2a$10$hash").
		WillReturnRows(userRow("a@b.io", false, "[]", ""))

	got, err := repo.Create(context.Background(), &models.User{Email: "a@b.io", PasswordHash: "$2a$10$hash"})
	require.NoError(t, err)
	assert.Equal(t, userID, got.ID)
	assert.False(t, got.IsProfileComplete)
	assert.Equal(t, []string{}, got.ShipSpecialization)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{Email: "a@b.io", PasswordHash: "h"})
	assert.ErrorIs(t, err, common.ErrorConflict)
	assert.Equal(t, "User already exists", common.MessageOf(err, ""))
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Email: "a@b.io", PasswordHash: "h"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).
		WithArgs("a@b.io").
		WillReturnRows(userRow("a@b.io", true, `["Tanker","LNG"]`, "Aurora"))

	got, err := repo.GetByEmail(context.Background(), "a@b.io")
	require.NoError(t, err)
	assert.Equal(t, []string{"Tanker", "LNG"}, got.ShipSpecialization)
	assert.Equal(t, models.Vessel{Name: "Aurora", IMO: "9074729", Type: "Tanker"}, got.CurrentVessel)
	assert.Equal(t, models.AvailabilityAvailable, got.Availability)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT.*WHERE\s+email`).
		WithArgs("ghost@b.io").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@b.io")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByID_MalformedIDIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet(), "no query for malformed id")
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs(userID).
		WillReturnRows(userRow("a@b.io", false, "[]", ""))

	got, err := repo.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.io", got.Email)
}

func TestUpdate_BuildsSingleStatement(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+full_name\s*=\s*\$1,\s*ship_specialization\s*=\s*\$2,\s*vessel_name\s*=\s*\$3,\s*` +
		`is_profile_complete\s*=\s*\$4,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$5\s+RETURNING\s+id,`
	mock.ExpectQuery(q).
		WithArgs("Ann Lee", `["LNG"]`, "Aurora", true, userID).
		WillReturnRows(userRow("a@b.io", true, `["LNG"]`, "Aurora"))

	changes := []models.FieldChange{
		{Column: "full_name", Value: "Ann Lee"},
		{Column: "ship_specialization", Value: []string{"LNG"}},
		{Column: "vessel_name", Value: "Aurora"},
		{Column: models.ColumnProfileComplete, Value: true},
	}
	got, err := repo.Update(context.Background(), userID, changes)
	require.NoError(t, err)
	assert.True(t, got.IsProfileComplete)
	assert.Equal(t, "9074729", got.CurrentVessel.IMO)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_RejectsUnknownColumn(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.Update(context.Background(), userID, []models.FieldChange{{Column: "password_hash", Value: "x"}})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "vanished", err: sql.ErrNoRows, want: common.ErrorNotFound},
		{name: "email taken", err: &pgconn.PgError{Code: "23505"}, want: common.ErrorConflict},
		{name: "check", err: &pgconn.PgError{Code: "23514"}, want: common.ErrorValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectQuery(`(?s)^UPDATE\s+users`).WillReturnError(tt.err)

			_, err := repo.Update(context.Background(), userID, []models.FieldChange{{Column: "email", Value: "x@y.io"}})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`
	mock.ExpectExec(q).WithArgs(userID).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), userID))

	mock.ExpectExec(q).WithArgs(userID).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), userID), common.ErrorNotFound)

	mock.ExpectExec(q).WithArgs(userID).WillReturnError(errors.New("db down"))
	assert.ErrorContains(t, repo.Delete(context.Background(), userID), "db error")
}
