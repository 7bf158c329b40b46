package api

import (
	"context"
	"io"

	"github.com/marinesurvey/inspector/internal/common"
	"github.com/marinesurvey/inspector/internal/logging"
	"github.com/marinesurvey/inspector/internal/server/models"
	"github.com/marinesurvey/inspector/internal/server/ratelimit"
	"github.com/marinesurvey/inspector/internal/server/services"
)

const goodToken = "good-token"

type fakeUsers struct {
	user       *models.User
	signupErr  error
	loginErr   error
	updateErr  error
	deleteErr  error
	lastClient services.ClientInfo
	lastUpdate models.ProfileUpdate
	deletedID  string
}

func (f *fakeUsers) Signup(_ context.Context, email, _ string) (*models.User, error) {
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &models.User{ID: "u-1", Email: email}, nil
}

func (f *fakeUsers) Login(_ context.Context, _, _ string, client services.ClientInfo) (*services.LoginResult, error) {
	f.lastClient = client
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &services.LoginResult{Token: goodToken, User: f.user}, nil
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (*models.User, error) {
	if token != goodToken {
		return nil, common.NewError(common.ErrorUnauthorized, "Not authorized - Invalid token")
	}
	return f.user, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, user *models.User, upd models.ProfileUpdate) (*models.User, error) {
	f.lastUpdate = upd
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	u := upd.ApplyTo(*user)
	return &u, nil
}

func (f *fakeUsers) Delete(_ context.Context, userID string) error {
	f.deletedID = userID
	return f.deleteErr
}

type fakeInspections struct {
	items     map[string]*models.Inspection
	list      []*models.Inspection
	listErr   error
	created   services.NewInspection
	bodies    []string
	createErr error
}

func (f *fakeInspections) Create(_ context.Context, in services.NewInspection) (*models.Inspection, error) {
	f.created = in
	for _, up := range in.ShipImages {
		b, _ := io.ReadAll(up.Body)
		f.bodies = append(f.bodies, string(b))
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	refs := make([]string, len(in.ShipImages))
	for i := range refs {
		refs[i] = "mem://img"
	}
	return &models.Inspection{ID: "insp-1", ShipImages: refs}, nil
}

func (f *fakeInspections) Get(_ context.Context, id string) (*models.Inspection, error) {
	if id == "bad" {
		return nil, common.NewError(common.ErrorValidation, "Invalid inspection ID format")
	}
	insp, ok := f.items[id]
	if !ok {
		return nil, common.NewError(common.ErrorNotFound, "Inspection not found")
	}
	return insp, nil
}

func (f *fakeInspections) List(context.Context) ([]*models.Inspection, error) {
	return f.list, f.listErr
}

type fakeLogins struct {
	list []*models.Login
	err  error
}

func (f *fakeLogins) List(context.Context) ([]*models.Login, error) { return f.list, f.err }

type fakeQuotations struct {
	sent models.QuotationRequest
	err  error
}

func (f *fakeQuotations) Send(_ context.Context, q models.QuotationRequest) error {
	f.sent = q
	return f.err
}

type fakeLimiter struct {
	limit int
	hits  map[string]int
	err   error
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (ratelimit.Result, error) {
	if f.err != nil {
		return ratelimit.Result{Allowed: true, Remaining: f.limit}, f.err
	}
	f.hits[key]++
	n := f.hits[key]
	return ratelimit.Result{Allowed: n <= f.limit, Remaining: max(f.limit-n, 0)}, nil
}

func (f *fakeLimiter) Limit() int { return f.limit }

type testDeps struct {
	users       *fakeUsers
	inspections *fakeInspections
	logins      *fakeLogins
	quotations  *fakeQuotations
}

func newTestServer(exposeErrors bool) (*Server, *testDeps) {
	td := &testDeps{
		users:       &fakeUsers{user: &models.User{ID: "u-1", Email: "a@b.io", ShipSpecialization: []string{}}},
		inspections: &fakeInspections{items: map[string]*models.Inspection{}},
		logins:      &fakeLogins{},
		quotations:  &fakeQuotations{},
	}
	s := NewServer(":0", Deps{
		Users:       td.users,
		Inspections: td.inspections,
		Logins:      td.logins,
		Quotations:  td.quotations,
	}, logging.Nop{}, exposeErrors)
	return s, td
}
