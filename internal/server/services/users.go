// Package services contains server-side business logic. This file implements
// UserService: signup, login with audit, bearer token resolution and the
// profile lifecycle.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/marinesurvey/inspector/internal/common"
	"github.com/marinesurvey/inspector/internal/logging"
	"github.com/marinesurvey/inspector/internal/server/auth"
	"github.com/marinesurvey/inspector/internal/server/config"
	"github.com/marinesurvey/inspector/internal/server/models"
	"github.com/marinesurvey/inspector/internal/server/repositories/repomanager"
)

// ClientInfo identifies the caller of a login for the audit log.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// LoginResult is a bearer token plus the user it was issued for.
type LoginResult struct {
	Token string
	User  *models.User
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *credentials) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Password, validation.Required, validation.Length(1, 72)),
	)
}

type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	hasher        *auth.PasswordHasher
	jwtSecret     []byte
	tokenValidity time.Duration
	log           logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		hasher:        auth.NewPasswordHasher(cfg.BcryptCost),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		log:           log.With("module", "users"),
	}
}

func (s *UserService) Signup(ctx context.Context, email, password string) (*models.User, error) {
	if err := checkCredentials(email, password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.NewError(common.ErrorConflict, "User already exists")
	case !errors.Is(err, common.ErrorNotFound):
		return nil, internal(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, internal(err)
	}

	user, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		return nil, internal(err)
	}

	s.log.Info(ctx, "user signed up", "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials, issues a token and appends a login audit
// record. A failed audit write is logged and does not fail the login.
func (s *UserService) Login(ctx context.Context, email, password string, client ClientInfo) (*LoginResult, error) {
	if err := checkCredentials(email, password); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorUnauthorized, "User not found")
		}
		return nil, internal(err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, internal(err)
	}
	if !ok {
		return nil, common.NewError(common.ErrorUnauthorized, "Invalid credentials")
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, internal(err)
	}

	userID := user.ID
	_, err = s.repomanager.Logins(s.db).Create(ctx, &models.Login{
		UserID:    &userID,
		IP:        client.IP,
		UserAgent: client.UserAgent,
	})
	if err != nil {
		s.log.Warn(ctx, "login audit write failed", "user_id", user.ID, "error", err)
	}

	return &LoginResult{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.WrapError(common.ErrorUnauthorized, "Not authorized - Invalid token", err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorUnauthorized, "User not found")
		}
		return nil, internal(err)
	}
	return user, nil
}

// UpdateProfile applies the allow-listed fields of upd to user, marks the
// profile complete and returns the stored result.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, upd models.ProfileUpdate) (*models.User, error) {
	candidate := upd.ApplyTo(*user)
	if err := candidate.Validate(); err != nil {
		return nil, common.WrapError(common.ErrorValidation, err.Error(), err)
	}

	updated, err := s.repomanager.Users(s.db).Update(ctx, user.ID, upd.Changes())
	if err != nil {
		var ce *common.Error
		switch {
		case errors.As(err, &ce):
			return nil, err
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.NewError(common.ErrorNotFound, "User not found")
		}
		return nil, internal(err)
	}
	return updated, nil
}

// Delete removes the account. Inspections go with it; login records stay
// detached from any user.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if err := s.repomanager.Users(s.db).Delete(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewError(common.ErrorNotFound, "User not found")
		}
		return internal(err)
	}

	s.log.Info(ctx, "user deleted", "user_id", userID)
	return nil
}

func checkCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return common.NewError(common.ErrorValidation, "Email and password required")
	}
	c := credentials{Email: email, Password: password}
	if err := c.Validate(); err != nil {
		return common.WrapError(common.ErrorValidation, err.Error(), err)
	}
	return nil
}

func internal(err error) error {
	return common.WrapError(common.ErrorInternal, "Server error", err)
}
