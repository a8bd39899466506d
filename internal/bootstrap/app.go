package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"docreview-backend/internal/chat"
	"docreview-backend/internal/finals"
	"docreview-backend/internal/llm"
	openai "docreview-backend/internal/llm/openai"
	"docreview-backend/internal/progress"
	"docreview-backend/internal/projects"
	"docreview-backend/internal/reports"
	"docreview-backend/internal/services/health"
	"docreview-backend/internal/shared/config"
	"docreview-backend/internal/shared/server"
	"docreview-backend/internal/shared/server/middleware"
	"docreview-backend/internal/shared/storage/db"
	"docreview-backend/internal/shared/storage/object"
	localstore "docreview-backend/internal/shared/storage/object/local"
	s3store "docreview-backend/internal/shared/storage/object/s3"
	"docreview-backend/internal/shared/telemetry"
)

// App holds shared dependencies and the assembled router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	LLM    llm.Client

	FinalsRepo   finals.Repo
	ProgressRepo progress.Repo

	Finals          *finals.Registry
	ProjectsService *projects.Service
	ProgressService *progress.Service
	ReportsService  *reports.Service
	ChatService     *chat.Service
}

// Options override dependencies, mainly for tests.
type Options struct {
	Store object.ObjectStore
	LLM   llm.Client
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	return BuildWith(cfg, Options{})
}

// BuildWith is Build with explicit overrides.
func BuildWith(cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := opts.Store
	if store == nil {
		store, err = buildStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	llmClient := opts.LLM
	if llmClient == nil {
		llmClient, err = buildLLM(cfg)
		if err != nil {
			return nil, err
		}
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    llmClient,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Health:          health.NewService(sqlDB, cfg.ObjectStoreType),
		ProjectsHandler: projects.NewHandler(app.ProjectsService),
		FinalsHandler:   finals.NewHandler(app.Finals, app.ProjectsService),
		ProgressHandler: progress.NewHandler(app.ProgressService),
		ReportsHandler:  reports.NewHandler(app.ReportsService),
		ChatHandler:     chat.NewHandler(app.ChatService),
		Limiter:         middleware.NewRateLimiter(nil),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Info("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Error("bootstrap.memory_repositories", map[string]any{"reason": "database unavailable", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai", "azure":
		if strings.TrimSpace(cfg.LLMAPIKey) == "" && cfg.IsDevLike() {
			telemetry.Info("bootstrap.llm_placeholder", map[string]any{"reason": "API key empty"})
			return llm.PlaceholderClient{}, nil
		}
		return openai.NewClient(openai.Options{
			APIKey:     cfg.LLMAPIKey,
			Model:      cfg.LLMModel,
			BaseURL:    cfg.LLMBaseURL,
			Azure:      cfg.LLMProvider == "azure",
			APIVersion: cfg.LLMAPIVersion,
		})
	default:
		return llm.PlaceholderClient{}, nil
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.FinalsRepo = &finals.PGRepo{DB: app.DB}
		app.ProgressRepo = &progress.PGRepo{DB: app.DB}
	} else {
		app.FinalsRepo = finals.NewMemoryRepo()
		app.ProgressRepo = progress.NewMemoryRepo()
	}

	app.Finals = finals.NewRegistry(app.FinalsRepo)
	app.ProjectsService = &projects.Service{Store: app.Store, Finals: app.Finals}
	app.ProgressService = &progress.Service{Repo: app.ProgressRepo}
	app.ReportsService = &reports.Service{Store: app.Store, LLM: app.LLM}
	app.ChatService = &chat.Service{Store: app.Store, LLM: app.LLM}
}
