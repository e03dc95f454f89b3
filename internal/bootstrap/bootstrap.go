package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/hirelytics/internal/app/auth"
	appControllers "github.com/yigit/hirelytics/internal/app/controllers"
	appRoutes "github.com/yigit/hirelytics/internal/app/routes"
	appServices "github.com/yigit/hirelytics/internal/app/services"
	"github.com/yigit/hirelytics/internal/config"
	"github.com/yigit/hirelytics/internal/db"
	appMiddleware "github.com/yigit/hirelytics/internal/middleware"
	pkgAuth "github.com/yigit/hirelytics/internal/pkg/auth"
	"github.com/yigit/hirelytics/internal/pkg/datastore"
	"github.com/yigit/hirelytics/internal/pkg/events"
	"github.com/yigit/hirelytics/internal/pkg/helpers"
	"github.com/yigit/hirelytics/internal/pkg/logger"
	"github.com/yigit/hirelytics/internal/pkg/websocket"
	"github.com/yigit/hirelytics/internal/seed"
)

// DefaultConfigPath is used when CONFIG_PATH is not set.
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store     datastore.Store
	Database  *db.PostgresDB
	Publisher events.Publisher
	Hub       *websocket.Hub

	Sessions   *appAuth.SessionStore
	JWTService *pkgAuth.JWTService

	DatasetService    *appServices.DatasetService
	AuthService       *appServices.AuthService
	PredictionService *appServices.PredictionService
	ResumeService     *appServices.ResumeService
	InsightsService   *appServices.InsightsService

	HealthController   *appControllers.HealthController
	AuthController     *appControllers.AuthController
	DatasetController  *appControllers.DatasetController
	StudentController  *appControllers.StudentController
	InsightsController *appControllers.InsightsController
	EventsController   *appControllers.EventsController
	AuthMiddleware     *appMiddleware.AuthMiddleware

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads .env, the configuration file and
// environment overrides, then configures the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	if err := godotenv.Load(); err == nil {
		logger.Debug().Msg("Loaded environment from .env")
	}

	configPath := config.GetEnv("CONFIG_PATH", DefaultConfigPath)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.ConfigFromSettings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := logger.Get()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore builds the configured dataset store. The postgres driver also
// returns its connection pool so the caller can close it.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (datastore.Store, *db.PostgresDB, error) {
	lgr = lgr.With().Str("driver", cfg.Storage.Driver).Logger()

	switch cfg.Storage.Driver {
	case config.StorageLocal:
		store, err := datastore.NewLocalStore(cfg.Storage.Local.Path)
		if err != nil {
			return nil, nil, err
		}
		lgr.Info().Str("path", cfg.Storage.Local.Path).Msg("Using local dataset store")
		return store, nil, nil

	case config.StorageGitHub:
		owner, repo, err := cfg.GitHubRepository()
		if err != nil {
			return nil, nil, err
		}
		client, err := datastore.NewGitHubClient(cfg.Storage.GitHub.Token, cfg.Storage.GitHub.BaseURL)
		if err != nil {
			return nil, nil, err
		}
		lgr.Info().Str("repo", owner+"/"+repo).Str("branch", cfg.Storage.GitHub.Branch).Msg("Using GitHub dataset store")
		return datastore.NewGitHubStore(client, owner, repo, cfg.Storage.GitHub.Branch), nil, nil

	case config.StorageS3:
		s3cfg := cfg.Storage.S3
		client, err := datastore.NewS3Client(ctx, datastore.S3Settings{
			Region:    s3cfg.Region,
			Endpoint:  s3cfg.Endpoint,
			AccessKey: s3cfg.AccessKey,
			SecretKey: s3cfg.SecretKey,
		})
		if err != nil {
			return nil, nil, err
		}
		lgr.Info().Str("bucket", s3cfg.Bucket).Str("endpoint", s3cfg.Endpoint).Msg("Using S3 dataset store")
		return datastore.NewS3Store(client, s3cfg.Bucket, s3cfg.Prefix), nil, nil

	case config.StoragePostgres:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(ctx, cfg, lgr)
		if err != nil {
			return nil, nil, err
		}
		lgr.Info().Msg("Running database migrations...")
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Using postgres dataset store")
		return datastore.NewPostgresStore(database.Pool), database, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// SetupPublisher connects the RabbitMQ dataset event publisher when events
// are enabled.
func SetupPublisher(cfg *config.Config, lgr zerolog.Logger) (events.Publisher, error) {
	if !cfg.Events.Enabled {
		return events.NoopPublisher{}, nil
	}

	publisher, err := events.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Exchange)
	if err != nil {
		return nil, err
	}
	lgr.Info().Str("exchange", cfg.Events.Exchange).Msg("Dataset events enabled")
	return publisher, nil
}

// StartHub runs the websocket hub that relays dataset events to browsers.
func StartHub() *websocket.Hub {
	hub := websocket.NewHub(logger.Component("websocket"))
	go hub.Run()
	return hub
}

// BuildDependencies initializes services, controllers and middleware.
// Dataset events go to publisher and to hub.
func BuildDependencies(cfg *config.Config, store datastore.Store, publisher events.Publisher, hub *websocket.Hub, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{
		Store:     store,
		Publisher: events.Fanout{publisher, hub},
		Hub:       hub,
		Logger:    lgr,
	}

	ttl := helpers.ParseDuration(cfg.Session.TTL, 12*time.Hour)
	deps.Sessions = appAuth.NewSessionStore(ttl)
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Session.Secret,
		TokenExp:    ttl,
		TokenIssuer: cfg.Session.Issuer,
	})

	deps.DatasetService = appServices.NewDatasetService(store, deps.Publisher, logger.Component("dataset"))
	deps.AuthService = appServices.NewAuthService(cfg.Colleges, deps.Sessions, deps.JWTService, deps.DatasetService, logger.Component("auth"))
	deps.PredictionService = appServices.NewPredictionService(deps.DatasetService, logger.Component("predictor"))
	deps.ResumeService = appServices.NewResumeService(deps.DatasetService, logger.Component("resume"))
	deps.InsightsService = appServices.NewInsightsService(deps.DatasetService, logger.Component("insights"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Sessions)

	maxUpload := cfg.MaxUploadBytes()
	deps.HealthController = appControllers.NewHealthController(cfg.Storage.Driver)
	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.DatasetController = appControllers.NewDatasetController(deps.DatasetService, maxUpload, lgr)
	deps.StudentController = appControllers.NewStudentController(deps.PredictionService, deps.ResumeService, maxUpload, lgr)
	deps.InsightsController = appControllers.NewInsightsController(deps.InsightsService, lgr)
	deps.EventsController = appControllers.NewEventsController(hub, lgr)

	return deps
}

// SeedData uploads the demo dataset when configured. Failures are logged
// and do not stop startup.
func SeedData(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	if err := seed.DemoDataset(ctx, deps.DatasetService, cfg.Seed.DemoCollege, deps.Logger); err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to seed demo dataset, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	if err := appMiddleware.RegisterBindingValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.Component("http")))
	// Multipart overhead on top of the file itself.
	router.Use(appMiddleware.BodyLimit(cfg.MaxUploadBytes() + 1<<20))

	appRoutes.SetupRouter(router,
		deps.HealthController,
		deps.AuthController,
		deps.DatasetController,
		deps.StudentController,
		deps.InsightsController,
		deps.EventsController,
		deps.AuthMiddleware,
	)

	return router, nil
}

// Close releases the publishers, the websocket hub and the database pool.
func (d *Dependencies) Close() {
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close event publisher")
		}
	}
	if d.Database != nil {
		d.Database.Close()
	}
}
