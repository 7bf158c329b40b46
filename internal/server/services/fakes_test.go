package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/marinesurvey/inspector/internal/common"
	"github.com/marinesurvey/inspector/internal/dbx"
	"github.com/marinesurvey/inspector/internal/server/models"
	inspectionsrepo "github.com/marinesurvey/inspector/internal/server/repositories/inspections"
	loginsrepo "github.com/marinesurvey/inspector/internal/server/repositories/logins"
	usersrepo "github.com/marinesurvey/inspector/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// fakeUsersRepo is an in-memory credential store keyed by id.
type fakeUsersRepo struct {
	mu     sync.Mutex
	byID   map[string]*models.User
	getErr error
	updErr error
	delErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ex := range f.byID {
		if ex.Email == u.Email {
			return nil, common.NewError(common.ErrorConflict, "User already exists")
		}
	}
	c := *u
	c.ID = uuid.NewString()
	c.Availability = models.AvailabilityAvailable
	c.ShipSpecialization = []string{}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

// Update mirrors the SQL column assignments of the postgres repository.
func (f *fakeUsersRepo) Update(ctx context.Context, id string, changes []models.FieldChange) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updErr != nil {
		return nil, f.updErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	for _, c := range changes {
		switch c.Column {
		case "full_name":
			u.FullName = c.Value.(string)
		case "title":
			u.Title = c.Value.(string)
		case "company":
			u.Company = c.Value.(string)
		case "email":
			u.Email = c.Value.(string)
		case "availability":
			u.Availability = models.Availability(c.Value.(string))
		case "ship_specialization":
			u.ShipSpecialization = append([]string{}, c.Value.([]string)...)
		case "vessel_name":
			u.CurrentVessel.Name = c.Value.(string)
		case "vessel_imo":
			u.CurrentVessel.IMO = c.Value.(string)
		case "vessel_type":
			u.CurrentVessel.Type = c.Value.(string)
		case models.ColumnProfileComplete:
			u.IsProfileComplete = c.Value.(bool)
		}
	}
	u.UpdatedAt = time.Now()
	out := *u
	return &out, nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeLoginsRepo struct {
	mu        sync.Mutex
	created   []*models.Login
	createErr error
	listOut   []*models.Login
	listErr   error
}

func (f *fakeLoginsRepo) Create(ctx context.Context, l *models.Login) (*models.Login, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, l)
	return l, nil
}

func (f *fakeLoginsRepo) List(ctx context.Context) ([]*models.Login, error) {
	return f.listOut, f.listErr
}

type fakeInspectionsRepo struct {
	created   *models.Inspection
	createErr error
	getOut    *models.Inspection
	getErr    error
	listOut   []*models.Inspection
	listErr   error
}

func (f *fakeInspectionsRepo) Create(ctx context.Context, in *models.Inspection) (*models.Inspection, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	in.ID = uuid.NewString()
	f.created = in
	return in, nil
}

func (f *fakeInspectionsRepo) GetByID(ctx context.Context, id string) (*models.Inspection, error) {
	return f.getOut, f.getErr
}

func (f *fakeInspectionsRepo) List(ctx context.Context) ([]*models.Inspection, error) {
	return f.listOut, f.listErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	l *fakeLoginsRepo
	i *fakeInspectionsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository             { return m.u }
func (m *fakeRepoManager) Logins(db dbx.DBTX) loginsrepo.Repository           { return m.l }
func (m *fakeRepoManager) Inspections(db dbx.DBTX) inspectionsrepo.Repository { return m.i }

// memStore is an in-memory storage.Store.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *memStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := "mem://" + key
	s.objects[ref] = buf.Bytes()
	s.types[ref] = contentType
	return ref, nil
}

func (s *memStore) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, ref)
	return nil
}
