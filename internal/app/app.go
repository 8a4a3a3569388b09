package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"
	"github.com/templui/macrotrack/internal/config"
	"github.com/templui/macrotrack/internal/db"
	"github.com/templui/macrotrack/internal/metrics"
	"github.com/templui/macrotrack/internal/ratelimit"
	"github.com/templui/macrotrack/internal/repository"
	"github.com/templui/macrotrack/internal/service"
	"github.com/templui/macrotrack/internal/storage"
)

type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB
	Limiter          ratelimit.Limiter
	AuthService      *service.AuthService
	MealService      *service.MealService
	SummaryService   *service.SummaryService
	DashboardService *service.DashboardService
	GoalsService     *service.GoalsService
	ExportService    *service.ExportService

	memoryLimiter *ratelimit.MemoryLimiter
	redisClient   *redis.Client
	scheduler     *cron.Cron
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	if cfg.AutoMigrate {
		err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Repositories
	mealRepository := repository.NewMealRepository(database)
	summaryRepository := repository.NewSummaryRepository(database)
	goalsRepository := repository.NewGoalsRepository(database)

	// Storage
	exportStorage, err := storage.New(ctx, cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Rate limiting
	memoryLimiter := ratelimit.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	var limiter ratelimit.Limiter = memoryLimiter
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = ratelimit.NewRedisClient(cfg.RedisURL)
		if err != nil {
			memoryLimiter.Close()
			database.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		limiter = ratelimit.NewRedisLimiter(redisClient, memoryLimiter, cfg.RateLimitMax, cfg.RateLimitWindow)
		slog.Info("rate limiter using redis")
	}

	// Services
	authService := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry)
	summaryService := service.NewSummaryService(mealRepository, summaryRepository, cfg.Location)
	mealService := service.NewMealService(mealRepository, summaryService, cfg.Location, cfg.LowConfidenceThreshold)
	goalsService := service.NewGoalsService(goalsRepository)
	dashboardService := service.NewDashboardService(mealService, goalsService, summaryRepository)
	exportService := service.NewExportService(dashboardService, exportStorage, cfg.S3PresignExpiry)

	return &App{
		Cfg:              cfg,
		DB:               database,
		Limiter:          limiter,
		AuthService:      authService,
		MealService:      mealService,
		SummaryService:   summaryService,
		DashboardService: dashboardService,
		GoalsService:     goalsService,
		ExportService:    exportService,
		memoryLimiter:    memoryLimiter,
		redisClient:      redisClient,
	}, nil
}

// StartScheduler runs the summary rebuild on SummaryRebuildSchedule. An
// empty schedule leaves it disabled.
func (a *App) StartScheduler() error {
	if a.Cfg.SummaryRebuildSchedule == "" {
		slog.Info("summary rebuild schedule disabled")
		return nil
	}

	c := cron.New(cron.WithLocation(a.Cfg.Location))
	_, err := c.AddFunc(a.Cfg.SummaryRebuildSchedule, a.rebuildSummaries)
	if err != nil {
		return fmt.Errorf("invalid summary rebuild schedule %q: %w", a.Cfg.SummaryRebuildSchedule, err)
	}

	c.Start()
	a.scheduler = c
	slog.Info("summary rebuild scheduled", "schedule", a.Cfg.SummaryRebuildSchedule, "days", a.Cfg.SummaryRebuildDays)
	return nil
}

func (a *App) rebuildSummaries() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	_, err := a.SummaryService.Rebuild(ctx, a.Cfg.SummaryRebuildDays)
	metrics.RecordSummaryRebuild(time.Since(start), err == nil)
	if err != nil {
		slog.Error("scheduled summary rebuild failed", "error", err)
	}
}

func (a *App) Close() error {
	if a.scheduler != nil {
		<-a.scheduler.Stop().Done()
	}
	if a.memoryLimiter != nil {
		a.memoryLimiter.Close()
	}
	if a.redisClient != nil {
		err := a.redisClient.Close()
		if err != nil {
			slog.Error("failed to close redis client", "error", err)
		}
	}
	return db.Close(a.DB)
}
