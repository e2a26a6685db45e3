package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"mock_interview_backend/internal/config"
	"mock_interview_backend/internal/controller"
	"mock_interview_backend/internal/formatter"
	"mock_interview_backend/internal/generation"
	"mock_interview_backend/internal/middleware"
	"mock_interview_backend/internal/repository"
	"mock_interview_backend/internal/sandbox"
	"mock_interview_backend/internal/service"
	"mock_interview_backend/internal/util"
	"mock_interview_backend/pkg/configwatcher"
	"mock_interview_backend/pkg/database"
	"mock_interview_backend/pkg/logger"
	"mock_interview_backend/pkg/monitoring"
	"mock_interview_backend/pkg/security"
	"mock_interview_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	generator       *generation.Client
	tracer          *sdktrace.TracerProvider
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	interview       *repository.InterviewRepository
	codingInterview *repository.CodingInterviewRepository
	answer          *repository.AnswerRepository
	codeAnswer      *repository.CodeAnswerRepository
}

type services struct {
	storage   *service.StorageService
	interview *service.InterviewService
	feedback  *service.FeedbackService
	quota     *service.QuotaService
}

type controllers struct {
	generation      *controller.GenerationController
	interview       *controller.InterviewController
	codingInterview *controller.CodingInterviewController
	health          *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		interview:       repository.NewInterviewRepository(db),
		codingInterview: repository.NewCodingInterviewRepository(db),
		answer:          repository.NewAnswerRepository(db),
		codeAnswer:      repository.NewCodeAnswerRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, gen generation.Generator, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.interview = service.NewInterviewService(gen, repos.interview, repos.codingInterview, s.storage)
	s.feedback = service.NewFeedbackService(gen, s.interview, repos.answer, repos.codeAnswer)

	if cfg.Quota.Enabled && rdb != nil {
		s.quota = service.NewQuotaService(service.NewRedisCounter(rdb), cfg.Quota)
		a.RegisterConfigCallback(s.quota.Reload)
	}

	return s
}

func (a *App) initControllers(s *services, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *controllers {
	codeFormatter := formatter.New(formatter.NewCommandPrinter(cfg.Formatter.JavaCommand, cfg.Formatter.Timeout))
	runner := sandbox.NewPistonClient(cfg.Sandbox.URL, cfg.Sandbox.Timeout, nil)

	return &controllers{
		generation:      controller.NewGenerationController(s.interview, s.feedback, codeFormatter, runner),
		interview:       controller.NewInterviewController(s.interview, s.feedback),
		codingInterview: controller.NewCodingInterviewController(s.interview, s.feedback),
		health:          controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.ForceMigrate || cfg.Server.Mode != "release")
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config:    cfg,
		ConfigDir: "configs",
		DB:        db,
	}
	if cfg.MigrateOnly {
		return app
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		app.Redis = rdb
	}

	gen, err := generation.New(context.Background(), cfg.AI)
	if err != nil {
		logger.Log.Fatal("Failed to initialize generation client", zap.Error(err))
	}
	app.generator = gen

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, gen, app.Redis)
	app.services = services
	controllers := app.initControllers(services, cfg, db, app.Redis)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("mock-interview", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, services, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go func() {
		configFile := filepath.Join(a.ConfigDir, "config.yaml")
		if err := configwatcher.WatchConfig(watchCtx, configFile, a.applyConfig); err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.String("file", configFile), zap.Error(err))
		}
	}()

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	a.Close(ctx)
	logger.Log.Info("Server exiting")
}

// Close 释放模型客户端、追踪、Redis 与数据库连接
func (a *App) Close(ctx context.Context) {
	if a.generator != nil {
		if err := a.generator.Close(); err != nil {
			logger.Log.Warn("Failed to close generation client", zap.Error(err))
		}
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
