package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"marketing-asset-backend/internal/config"
	infracache "marketing-asset-backend/internal/infrastructure/cache"
	"marketing-asset-backend/internal/infrastructure/database"
	"marketing-asset-backend/pkg/cache"
	pkgdb "marketing-asset-backend/pkg/database"
	"marketing-asset-backend/pkg/jwt"

	assethandler "marketing-asset-backend/internal/domains/asset/handler"
	assetrepo "marketing-asset-backend/internal/domains/asset/repository"
	assetservice "marketing-asset-backend/internal/domains/asset/service"
	reviewhandler "marketing-asset-backend/internal/domains/qcreview/handler"
	reviewrepo "marketing-asset-backend/internal/domains/qcreview/repository"
	reviewservice "marketing-asset-backend/internal/domains/qcreview/service"
)

// Container is the root of the dependency graph.
// Initialization order matters: config, then infrastructure, then
// repositories, services and handlers.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	AssetRepo  assetrepo.AssetRepository
	ReviewRepo reviewrepo.ReviewRepository

	AssetService  assetservice.Service
	ReviewService reviewservice.Service

	AssetHandler  *assethandler.AssetHandler
	ReviewHandler *reviewhandler.ReviewHandler
}

// NewContainer builds and initializes the whole dependency graph.
func NewContainer() (*Container, error) {
	log.Println("[CONTAINER] Initializing...")

	c := &Container{}

	// Config depends on nothing.
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	// Database.
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// Cache. A redis failure is non-critical: reads fall through to the
	// database, so log and continue.
	redisCache := infracache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if rc, ok := redisCache.(*infracache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			log.Printf("[CONTAINER] Redis connection failed (non-critical): %v", err)
		}
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// Repositories.
	c.AssetRepo = assetrepo.NewPostgresAssetRepository(db.Pool)
	c.ReviewRepo = reviewrepo.NewPostgresReviewRepository(db.Pool)

	// Services.
	transactor := pkgdb.NewPoolTransactor(db.Pool)

	c.AssetService = assetservice.NewAssetService(
		c.AssetRepo,
		transactor,
		c.Cache,
		cfg.QC.Checklists,
	)

	c.ReviewService = reviewservice.NewReviewService(
		c.ReviewRepo,
		c.AssetRepo,
		transactor,
		c.Cache,
		reviewservice.RoleAuthorizer{},
		reviewservice.NewChecklistValidator(cfg.QC.Checklists),
		reviewservice.NewScorePolicy(cfg.QC.ApprovalThreshold, cfg.QC.MinScore, cfg.QC.MaxScore),
		cfg.QC.SubmitMaxRetries,
	)

	// Handlers.
	c.AssetHandler = assethandler.NewAssetHandler(c.AssetService)
	c.ReviewHandler = reviewhandler.NewReviewHandler(c.ReviewService)

	log.Println("[CONTAINER] Initialized")
	return c, nil
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if rc, ok := c.Cache.(*infracache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("[CONTAINER] Redis close failed: %v", err)
		}
	}
}
