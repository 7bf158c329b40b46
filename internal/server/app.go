// Package server wires configuration, database, storage and services into
// the HTTP API and runs it until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/marinesurvey/inspector/internal/logging"
	"github.com/marinesurvey/inspector/internal/server/api"
	"github.com/marinesurvey/inspector/internal/server/config"
	"github.com/marinesurvey/inspector/internal/server/mail"
	"github.com/marinesurvey/inspector/internal/server/ratelimit"
	"github.com/marinesurvey/inspector/internal/server/repositories/repomanager"
	"github.com/marinesurvey/inspector/internal/server/services"
	"github.com/marinesurvey/inspector/internal/server/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client
	server *api.Server
}

// NewApp connects to the database, applies migrations and builds the HTTP
// server. A database that cannot be reached is an error.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{config: cfg, logger: logger, db: db}
	if err := app.init(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (app *App) init(ctx context.Context) error {
	cfg := app.config

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage init error: %w", err)
	}

	deps := api.Deps{
		Users:       services.NewUserService(app.db, rm, cfg, app.logger),
		Inspections: services.NewInspectionService(app.db, rm, store, cfg.ImageMaxDimension, app.logger),
		Logins:      services.NewLoginService(app.db, rm),
		Quotations:  newQuotationService(cfg, app.logger),
	}

	if cfg.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		deps.Limiter = ratelimit.New(app.redis, "ratelimit", cfg.LoginRateLimit, cfg.LoginRateWindow)
		app.logger.Info(ctx, "auth rate limiting enabled", "limit", cfg.LoginRateLimit, "window", cfg.LoginRateWindow.String())
	}

	app.server = api.NewServer(cfg.EndpointAddrHTTP, deps, app.logger, cfg.IsDevelopment())
	return nil
}

func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	connCfg, err := pgx.ParseConfig(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db config error: %w", err)
	}
	connCfg.ConnectTimeout = cfg.DBConnectTimeout

	db := stdlib.OpenDB(*connCfg)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db connect error: %w", err)
	}
	return db, nil
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.StorageBackend == config.StorageS3 {
		return storage.NewS3Store(ctx, storage.S3Options{
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	}
	return storage.NewDiskStore(cfg.UploadDir)
}

// newQuotationService leaves the recipient empty when no SMTP host is set,
// which makes the endpoint report an unconfigured transport.
func newQuotationService(cfg *config.Config, l logging.Logger) *services.QuotationService {
	recipient := cfg.QuotationRecipient
	if cfg.SMTPHost == "" {
		recipient = ""
	}
	sender := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	return services.NewQuotationService(sender, recipient, l)
}

// Handler exposes the router for deployments that do not bind a socket.
func (app *App) Handler() http.Handler {
	return app.server.Handler()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until SIGINT, SIGTERM or SIGQUIT, or until ctx ends. With
// Listen disabled it only waits for the signal.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Env)
	app.initSignalHandler(cancelFunc)

	defer func() {
		if err := app.Close(); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	if !app.config.Listen {
		app.logger.Info(ctx, "Listen disabled, handler only")
		<-ctx.Done()
		return nil
	}

	return app.server.Run(ctx)
}

// Close releases the database and redis connections.
func (app *App) Close() error {
	var err error
	if app.redis != nil {
		err = app.redis.Close()
	}
	if cerr := app.db.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if z, ok := app.logger.(*logging.ZapLogger); ok {
		_ = z.Sync()
	}
	return err
}
