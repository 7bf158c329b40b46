// Package api exposes the inspection services over HTTP/JSON.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/marinesurvey/inspector/internal/logging"
	"github.com/marinesurvey/inspector/internal/server/models"
	"github.com/marinesurvey/inspector/internal/server/ratelimit"
	"github.com/marinesurvey/inspector/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type UserService interface {
	Signup(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string, client services.ClientInfo) (*services.LoginResult, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User, upd models.ProfileUpdate) (*models.User, error)
	Delete(ctx context.Context, userID string) error
}

type InspectionService interface {
	Create(ctx context.Context, in services.NewInspection) (*models.Inspection, error)
	Get(ctx context.Context, id string) (*models.Inspection, error)
	List(ctx context.Context) ([]*models.Inspection, error)
}

type LoginService interface {
	List(ctx context.Context) ([]*models.Login, error)
}

type QuotationService interface {
	Send(ctx context.Context, q models.QuotationRequest) error
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Result, error)
	Limit() int
}

// Deps are the collaborators of the HTTP layer. Limiter may be nil.
type Deps struct {
	Users       UserService
	Inspections InspectionService
	Logins      LoginService
	Quotations  QuotationService
	Limiter     RateLimiter
}

type Server struct {
	address      string
	deps         Deps
	logger       logging.Logger
	exposeErrors bool
	handler      http.Handler
}

// NewServer builds the router. exposeErrors adds error details to 500
// responses and must only be set in development.
func NewServer(address string, deps Deps, l logging.Logger, exposeErrors bool) *Server {
	s := &Server{
		address:      address,
		deps:         deps,
		logger:       l.With("module", "http_server"),
		exposeErrors: exposeErrors,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler, for serverless deployments and tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	// set before Route so mounted sub-routers inherit them
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", s.handleHealth)

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if s.deps.Limiter != nil {
				r.Use(s.rateLimit("auth"))
			}
			r.Post("/signup", s.handleSignup)
			r.Post("/login", s.handleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)
			r.Delete("/profile", s.handleDeleteProfile)
		})
	})

	r.Route("/api/inspections", func(r chi.Router) {
		r.Post("/create", s.handleCreateInspection)
		r.Get("/", s.handleListInspections)
		r.Get("/{id}", s.handleGetInspection)
	})

	r.Route("/api/logins", func(r chi.Router) {
		r.Get("/", s.handleListLogins)
	})

	r.Post("/send-quotation", s.handleSendQuotation)

	return r
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *Server) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}
