// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "banking-service/internal/api"
	"banking-service/internal/api/handler"
	authmw "banking-service/internal/api/middleware"
	"banking-service/internal/auth"
	"banking-service/internal/config"
	"banking-service/internal/domain"
	"banking-service/internal/repository"
	"banking-service/internal/repository/postgres"
	"banking-service/internal/service"
	"banking-service/internal/util"
	"banking-service/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository  repository.UserRepository
	EmailRepository repository.ContactRepository
	PhoneRepository repository.ContactRepository

	// Services
	UserService  service.UserService
	EmailManager service.ContactManager
	PhoneManager service.ContactManager
	AccrualJob   *service.AccrualJob

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.EmailRepository = postgres.NewEmailRepository(app.DB)
	app.PhoneRepository = postgres.NewPhoneNumberRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	app.UserService = service.NewUserService(
		app.DB, // DBTxBeginner
		app.DB, // DBExecutor for non-transactional reads
		app.UserRepository,
		app.EmailRepository,
		app.PhoneRepository,
		app.Config.BcryptCost,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.EmailManager = service.NewContactManager(
		domain.ContactKindEmail,
		app.DB,
		app.UserRepository,
		app.EmailRepository,
		app.EmailRepository,
		app.PhoneRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.PhoneManager = service.NewContactManager(
		domain.ContactKindPhone,
		app.DB,
		app.UserRepository,
		app.PhoneRepository,
		app.EmailRepository,
		app.PhoneRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.AccrualJob = service.NewAccrualJob(
		app.DB,
		app.UserRepository,
		app.Config.AccrualInterval,
		app.Logger,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	tokens := auth.NewTokenManager(app.Config.JWTSecret, app.Config.JWTIssuer, app.Config.JWTTTL)
	authHandler := handler.NewAuthHandler(app.UserService, tokens, app.Logger)
	userHandler := handler.NewUserHandler(app.UserService, app.EmailManager, app.PhoneManager, app.Logger)
	app.HTTPHandler = router.NewRouter(authHandler, userHandler, authmw.Authenticate(tokens), app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
