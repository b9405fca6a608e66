package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meditrack-backend/config"
	deliveryHttp "meditrack-backend/internal/delivery/http"
	"meditrack-backend/internal/delivery/http/handler"
	"meditrack-backend/internal/delivery/http/middleware"
	"meditrack-backend/internal/infrastructure/cache"
	"meditrack-backend/internal/infrastructure/completion"
	"meditrack-backend/internal/infrastructure/database"
	"meditrack-backend/internal/infrastructure/storage"
	"meditrack-backend/internal/repository"
	"meditrack-backend/internal/service"
	"meditrack-backend/internal/usecase"
	"meditrack-backend/pkg/jwt"
	"meditrack-backend/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Usecases groups the business operations shared by the server and the CLI
// commands.
type Usecases struct {
	User         usecase.UserUsecase
	Emergency    usecase.EmergencyUsecase
	Reminder     usecase.ReminderUsecase
	Prescription usecase.PrescriptionUsecase
	HealthNote   usecase.HealthNoteUsecase
	Chat         usecase.ChatUsecase
}

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Store       storage.ObjectStore
	Usecases    Usecases
	Server      *http.Server

	gcsStore *storage.GCSStore
}

// New creates a new App instance with all dependencies initialized
func New(ctx context.Context, configPath string) (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg.App)
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if err := database.Migrate(db); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Infof("Database connected successfully (%s)", cfg.DB.Driver)

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.RedisClient = redisClient

	// Initialize object storage
	if err := app.initStorage(ctx); err != nil {
		app.Close()
		return nil, err
	}

	verifier, err := newVerifier(cfg, redisClient, log)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Usecases = initializeUsecases(cfg, db, log, app.Store)
	app.Server = app.initializeServer(verifier)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func (app *App) initStorage(ctx context.Context) error {
	cfg := app.Config.Storage

	switch cfg.Backend {
	case config.StorageBackendGCS:
		store, err := storage.NewGCSStore(ctx, cfg.Bucket, cfg.CredentialsFile)
		if err != nil {
			return err
		}
		app.gcsStore = store
		app.Store = store
		app.Log.Infof("Using Cloud Storage bucket %s", cfg.Bucket)
	case config.StorageBackendLocal:
		store, err := storage.NewLocalStore(cfg.LocalDir, app.Config.App.PublicAPIURL)
		if err != nil {
			return err
		}
		app.Store = store
		app.Log.Infof("Using local storage in %s", cfg.LocalDir)
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	return nil
}

// newVerifier selects the identity token verifier and puts the Redis cache
// in front of it when one is configured.
func newVerifier(cfg *config.Config, redisClient *redis.Client, log *logrus.Logger) (jwt.Verifier, error) {
	var verifier jwt.Verifier

	switch cfg.Auth.Provider {
	case config.AuthProviderFirebase:
		if cfg.Auth.FirebaseProjectID == "" {
			return nil, errors.New("FIREBASE_PROJECT_ID is required for the firebase auth provider")
		}
		verifier = jwt.NewFirebaseVerifier(cfg.Auth.FirebaseProjectID)
	case config.AuthProviderHMAC:
		if cfg.Auth.Secret == "" {
			return nil, errors.New("JWT_SECRET is required for the hmac auth provider")
		}
		log.Warn("Using HMAC identity tokens, not for production")
		verifier = jwt.NewHMACService(cfg.Auth)
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
	}

	if redisClient != nil {
		tokenCache := service.NewTokenCacheService(redisClient, cfg.Redis.TokenCacheTTL)
		verifier = service.NewCachingVerifier(verifier, tokenCache, log)
	}
	return verifier, nil
}

func initializeUsecases(cfg *config.Config, db *gorm.DB, log *logrus.Logger, store storage.ObjectStore) Usecases {
	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	emergencyRepo := repository.NewEmergencyAccessRepository()
	reminderRepo := repository.NewReminderRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()
	noteRepo := repository.NewHealthNoteRepository()
	chatLogRepo := repository.NewChatLogRepository()

	completionClient := completion.NewOpenAIClient(cfg.Completion)
	webURL := cfg.App.PublicWebURL

	return Usecases{
		User:         usecase.NewUserUsecase(db, log, userRepo, emergencyRepo, webURL, time.Now),
		Emergency:    usecase.NewEmergencyUsecase(db, log, customValidator, userRepo, emergencyRepo, webURL, time.Now),
		Reminder:     usecase.NewReminderUsecase(db, log, reminderRepo, time.Now),
		Prescription: usecase.NewPrescriptionUsecase(db, log, prescriptionRepo, store, time.Now),
		HealthNote:   usecase.NewHealthNoteUsecase(db, log, noteRepo, time.Now),
		Chat:         usecase.NewChatUsecase(db, log, chatLogRepo, completionClient, time.Now),
	}
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(verifier jwt.Verifier) *http.Server {
	cfg := app.Config
	uc := app.Usecases

	// Initialize handlers
	userHandler := handler.NewUserHandler(uc.User)
	emergencyHandler := handler.NewEmergencyHandler(uc.Emergency)
	reminderHandler := handler.NewReminderHandler(uc.Reminder)
	prescriptionHandler := handler.NewPrescriptionHandler(uc.Prescription, cfg.Storage.MaxUploadBytes)
	noteHandler := handler.NewHealthNoteHandler(uc.HealthNote)
	chatHandler := handler.NewChatHandler(uc.Chat, validator.NewValidator())

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(verifier, app.Log)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(
		app.Log,
		userHandler,
		emergencyHandler,
		reminderHandler,
		prescriptionHandler,
		noteHandler,
		chatHandler,
		authMiddleware,
		corsMiddleware,
	)
	if local, ok := app.Store.(*storage.LocalStore); ok {
		router.ServeFiles(local.Dir())
	}

	// Create server
	return &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() error {
	errCh := make(chan error, 1)

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	return app.waitForShutdown(errCh)
}

// waitForShutdown blocks until an interrupt signal is received or the server
// fails to start
func (app *App) waitForShutdown(errCh <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		app.Close()
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
	return nil
}

// Close closes all connections (database, redis, storage)
func (app *App) Close() {
	if app.DB != nil {
		if err := database.Close(app.DB); err != nil {
			app.Log.Warnf("Failed to close database: %v", err)
		}
	}

	if app.RedisClient != nil {
		if err := app.RedisClient.Close(); err != nil {
			app.Log.Warnf("Failed to close Redis: %v", err)
		}
	}

	if app.gcsStore != nil {
		if err := app.gcsStore.Close(); err != nil {
			app.Log.Warnf("Failed to close storage client: %v", err)
		}
	}
}
