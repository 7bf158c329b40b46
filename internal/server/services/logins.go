package services

import (
	"context"
	"database/sql"

	"github.com/marinesurvey/inspector/internal/server/models"
	"github.com/marinesurvey/inspector/internal/server/repositories/repomanager"
)

// LoginService reads the login audit log.
type LoginService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewLoginService(db *sql.DB, m repomanager.RepositoryManager) *LoginService {
	return &LoginService{db: db, repomanager: m}
}

// List returns every login record, newest first.
func (s *LoginService) List(ctx context.Context) ([]*models.Login, error) {
	list, err := s.repomanager.Logins(s.db).List(ctx)
	if err != nil {
		return nil, internal(err)
	}
	return list, nil
}
