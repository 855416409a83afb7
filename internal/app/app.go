package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/fanaberia/fanaberia/internal/auth"
	"github.com/fanaberia/fanaberia/internal/config"
	"github.com/fanaberia/fanaberia/internal/db"
	"github.com/fanaberia/fanaberia/internal/markdown"
	"github.com/fanaberia/fanaberia/internal/middleware"
	"github.com/fanaberia/fanaberia/internal/repository"
	"github.com/fanaberia/fanaberia/internal/service"
	"github.com/fanaberia/fanaberia/internal/session"
	"github.com/fanaberia/fanaberia/internal/storage"
)

const keyPrefix = "fanaberia"

type App struct {
	Cfg   *config.Config
	DB    *sqlx.DB
	Redis *redis.Client // nil without REDIS_URL

	Sessions      *session.Manager
	Authenticator *auth.Authenticator
	AuthLimiter   middleware.Limiter

	AuthService     *service.AuthService
	AdminService    *service.AdminService
	UserService     *service.UserService
	PostService     *service.PostService
	CategoryService *service.CategoryService
	PageService     *service.PageService
	FileService     *service.FileService
	SitemapService  *service.SitemapService
	ImportService   *service.ImportService

	stop context.CancelFunc
}

// New opens the database, applies migrations and wires every service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	rdb, err := config.NewRedisClient(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	a := &App{Cfg: cfg, DB: database, Redis: rdb}
	err = a.wire(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context) error {
	cfg := a.Cfg

	// Repositories
	userRepository := repository.NewUserRepository(a.DB)
	adminRepository := repository.NewAdminRepository(a.DB)
	postRepository := repository.NewPostRepository(a.DB)
	categoryRepository := repository.NewCategoryRepository(a.DB)
	pageRepository := repository.NewPageRepository(a.DB)
	fileRepository := repository.NewFileRepository(a.DB)

	// Storage
	fileStorage, err := storage.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Services
	parser := markdown.NewParser()
	emailService := service.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppURL, cfg.AppName, cfg.IsDevelopment())
	a.AuthService = service.NewAuthService(userRepository, emailService, cfg.TokenPasswordResetExpiry)
	a.AdminService = service.NewAdminService(adminRepository)
	a.UserService = service.NewUserService(userRepository)
	a.CategoryService = service.NewCategoryService(categoryRepository)
	a.PostService = service.NewPostService(postRepository, categoryRepository, parser, cfg.PostsPerPage)
	a.PageService = service.NewPageService(pageRepository, parser)
	a.FileService = service.NewFileService(fileRepository, fileStorage)
	a.SitemapService = service.NewSitemapService(a.PostService, a.CategoryService, a.PageService, cfg.AppURL)
	a.ImportService = service.NewImportService(parser, a.PostService, a.CategoryService, a.PageService)

	// Sessions and rate limits live in Redis when it is configured
	loopCtx, stop := context.WithCancel(context.Background())
	a.stop = stop

	var store session.Store
	if a.Redis != nil {
		store = session.NewRedisStore(a.Redis, keyPrefix)
		a.AuthLimiter = middleware.NewRedisLimiter(a.Redis, keyPrefix, cfg.AuthRateLimit, cfg.AuthRateWindow)
	} else {
		slog.Warn("REDIS_URL not set, sessions and rate limits are kept in memory")
		memory := session.NewMemoryStore()
		go memory.CleanupLoop(loopCtx, 10*time.Minute)
		store = memory
		limiter := middleware.NewMemoryLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
		go limiter.CleanupLoop(loopCtx, cfg.AuthRateWindow)
		a.AuthLimiter = limiter
	}
	a.Sessions = session.NewManager(store, session.NewCookieCodec(cfg.SessionSecret), cfg.SessionTTL, cfg.SecureCookies())

	// Authentication strategies
	strategies := []auth.Strategy{
		auth.NewFormStrategy(a.AuthService),
		auth.NewAdminFormStrategy(a.AdminService),
	}
	if cfg.GoogleClientID != "" {
		strategies = append(strategies, auth.NewGoogleStrategy(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.AppURL, a.AuthService))
	} else {
		slog.Info("GOOGLE_CLIENT_ID not set, google sign in disabled")
	}
	a.Authenticator = auth.NewAuthenticator(a.Sessions, strategies...)

	return nil
}

func (a *App) Close() error {
	if a.stop != nil {
		a.stop()
	}
	if a.Redis != nil {
		err := a.Redis.Close()
		if err != nil {
			slog.Error("failed to close redis", "error", err)
		}
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
