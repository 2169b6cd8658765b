package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/bluecollar/internal/app/controllers"
	appMigrations "github.com/yigit/bluecollar/internal/app/migrations"
	"github.com/yigit/bluecollar/internal/app/models"
	appRepos "github.com/yigit/bluecollar/internal/app/repositories"
	appRoutes "github.com/yigit/bluecollar/internal/app/routes"
	appServices "github.com/yigit/bluecollar/internal/app/services"
	"github.com/yigit/bluecollar/internal/config"
	"github.com/yigit/bluecollar/internal/db"
	appMiddleware "github.com/yigit/bluecollar/internal/middleware"
	pkgAuth "github.com/yigit/bluecollar/internal/pkg/auth"
	"github.com/yigit/bluecollar/internal/pkg/cache"
	"github.com/yigit/bluecollar/internal/pkg/events"
	"github.com/yigit/bluecollar/internal/pkg/filestorage"
	"github.com/yigit/bluecollar/internal/pkg/helpers"
	"github.com/yigit/bluecollar/internal/pkg/logger"
	"github.com/yigit/bluecollar/internal/pkg/metrics"
	"github.com/yigit/bluecollar/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CommunityService   appServices.CommunityService
	MembershipService  appServices.MembershipService
	PostService        appServices.PostService
	JobPostService     appServices.JobPostService
	ApplicationService appServices.JobApplicationService
	ProfileService     appServices.UserProfileService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	RateLimiter    *appMiddleware.RateLimiter

	Repos      *appRepos.Repositories
	JWTService *pkgAuth.JWTService
	Blobs      filestorage.BlobStore
	Publisher  events.Publisher
	// Redis is nil when the cache is disabled
	Redis  *cache.RedisStore
	Logger zerolog.Logger
}

// Close releases the external clients held by the dependencies. The database
// pool is owned by the server and closed separately.
func (d *Dependencies) Close() {
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			d.Logger.Error().Err(err).Msg("Failed to close event publisher")
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error().Err(err).Msg("Failed to close redis client")
		}
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", "configs/config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
		File: logger.FileConfig{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		},
	})

	lgr.Info().
		Str("logLevel", string(logLevel)).
		Str("logFormat", cfg.Logging.Format).
		Str("logFile", cfg.Logging.File).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// SetupBlobStore selects the upload backend configured under storage.driver.
func SetupBlobStore(cfg *config.Config, lgr zerolog.Logger) (filestorage.BlobStore, error) {
	switch cfg.Storage.Driver {
	case "qiniu":
		q := cfg.Storage.Qiniu
		lgr.Info().Str("bucket", q.Bucket).Msg("Using qiniu blob storage")
		return filestorage.NewQiniuStorage(filestorage.QiniuConfig{
			AccessKey: q.AccessKey,
			SecretKey: q.SecretKey,
			Bucket:    q.Bucket,
			BaseURL:   q.BaseURL,
			UseHTTPS:  q.UseHTTPS,
		}), nil
	default:
		baseURL := strings.TrimRight(cfg.Server.PublicURL, "/")
		if baseURL == "" {
			baseURL = "http://localhost:" + cfg.Server.Port
		}
		// must match the static route registered by the server
		local, err := filestorage.NewLocalStorage(cfg.Storage.LocalPath, baseURL+"/uploads")
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		lgr.Info().Str("path", cfg.Storage.LocalPath).Msg("Using local blob storage")
		return local, nil
	}
}

func setupCache(cfg *config.Config, lgr zerolog.Logger) (cache.Store, *cache.RedisStore) {
	if !cfg.Redis.Enabled {
		lgr.Info().Msg("Redis cache disabled")
		return cache.NopStore{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb, err := cache.NewRedisStore(ctx, cache.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		// reads fall through to postgres, so a missing redis only costs latency
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, continuing without cache")
		return cache.NopStore{}, nil
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis cache connected")
	return rdb, rdb
}

func setupPublisher(cfg *config.Config, lgr zerolog.Logger) events.Publisher {
	if !cfg.Kafka.Enabled {
		lgr.Info().Msg("Event publishing disabled")
		return events.NopPublisher{}
	}

	publisher, err := events.NewKafkaPublisher(events.KafkaConfig{
		Brokers:     cfg.KafkaBrokers(),
		TopicPrefix: cfg.Kafka.TopicPrefix,
		PoolSize:    cfg.Kafka.PoolSize,
	}, lgr.With().Str("component", "events").Logger())
	if err != nil {
		lgr.Warn().Err(err).Msg("Kafka publisher unavailable, events will be dropped")
		return events.NopPublisher{}
	}
	lgr.Info().Strs("brokers", cfg.KafkaBrokers()).Msg("Kafka publisher started")
	return publisher
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	blobs, err := SetupBlobStore(cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize blob storage")
		return nil, err
	}
	deps.Blobs = blobs

	var store cache.Store
	store, deps.Redis = setupCache(cfg, lgr)
	deps.Publisher = setupPublisher(cfg, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 24*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	communityCache := cache.NewReadThrough[models.Community](
		store,
		"community",
		helpers.ParseDuration(cfg.Redis.TTL, 5*time.Minute),
		lgr.With().Str("component", "community_cache").Logger(),
	)

	repos := deps.Repos
	deps.CommunityService = appServices.NewCommunityService(
		repos.CommunityRepository,
		communityCache,
		deps.Blobs,
		cfg.Search.FallbackScanLimit,
		logger.WithComponent("community_service"),
	)
	deps.MembershipService = appServices.NewMembershipService(
		repos.CommunityRepository,
		repos.MembershipRepository,
		communityCache,
		deps.Publisher,
		logger.WithComponent("membership_service"),
	)
	deps.PostService = appServices.NewPostService(
		repos.CommunityRepository,
		repos.MembershipRepository,
		repos.PostRepository,
		deps.Blobs,
		deps.Publisher,
		logger.WithComponent("post_service"),
	)
	deps.JobPostService = appServices.NewJobPostService(repos.JobPostRepository, logger.WithComponent("job_post_service"))
	deps.ApplicationService = appServices.NewJobApplicationService(
		repos.JobApplicationRepository,
		repos.JobPostRepository,
		repos.UserProfileRepository,
		deps.Publisher,
		logger.WithComponent("job_application_service"),
	)
	deps.ProfileService = appServices.NewUserProfileService(
		repos.UserProfileRepository,
		deps.Blobs,
		logger.WithComponent("user_profile_service"),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	if cfg.RateLimit.Enabled {
		deps.RateLimiter = appMiddleware.NewRateLimiter(cfg.RateLimit.RatePerSecond, cfg.RateLimit.Burst, cfg.RateLimit.MaxClients)
	}

	maxUpload := int64(cfg.Server.MaxUploadMB) << 20
	deps.Controllers = appRoutes.Controllers{
		Community:   appControllers.NewCommunityController(deps.CommunityService, deps.MembershipService, maxUpload),
		Post:        appControllers.NewPostController(deps.PostService, maxUpload),
		Job:         appControllers.NewJobController(deps.JobPostService),
		Application: appControllers.NewApplicationController(deps.ApplicationService),
		Profile:     appControllers.NewProfileController(deps.ProfileService, maxUpload),
	}

	if cfg.Seed.Enabled {
		if err := seed.CreateDefaultData(context.Background(), deps.CommunityService, lgr); err != nil {
			// seeding is best effort
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	if cfg.Metrics.Enabled {
		router.Use(metrics.GinMiddleware())
		router.GET("/metrics", metrics.Handler())
	}

	appRoutes.SetupSwagger(router)

	var extra []gin.HandlerFunc
	if deps.RateLimiter != nil {
		extra = append(extra, deps.RateLimiter.Middleware())
	}
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, extra...)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found", "status": "error"})
	})

	return router
}
