package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"quiz_event_backend/internal/config"
	"quiz_event_backend/internal/controller"
	"quiz_event_backend/internal/repository"
	"quiz_event_backend/internal/service"
	"quiz_event_backend/pkg/database"
	"quiz_event_backend/pkg/logger"
	"quiz_event_backend/pkg/monitoring"
	"quiz_event_backend/pkg/security"
	"quiz_event_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user            *repository.UserRepository
	event           *repository.EventRepository
	period          *repository.PeriodRepository
	question        *repository.QuestionRepository
	periodQuestion  *repository.PeriodQuestionRepository
	quizControl     *repository.QuizControlRepository
	questionDisplay *repository.QuestionDisplayRepository
	answer          *repository.AnswerRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	catalog    *service.CatalogService
	transition *service.TransitionService
	answer     *service.AnswerService
	ranking    *service.RankingService
	reorder    *service.ReorderService
}

type controllers struct {
	auth    *controller.AuthController
	event   *controller.EventController
	quiz    *controller.QuizController
	answer  *controller.AnswerController
	ranking *controller.RankingController
	health  *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:            repository.NewUserRepository(db),
		event:           repository.NewEventRepository(db),
		period:          repository.NewPeriodRepository(db),
		question:        repository.NewQuestionRepository(db),
		periodQuestion:  repository.NewPeriodQuestionRepository(db),
		quizControl:     repository.NewQuizControlRepository(db),
		questionDisplay: repository.NewQuestionDisplayRepository(db),
		answer:          repository.NewAnswerRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.storage = service.NewStorageService(cfg)
	s.catalog = service.NewCatalogService(repos.event, repos.period, repos.question,
		repos.periodQuestion, repos.quizControl)
	s.transition = service.NewTransitionService(repos.quizControl, repos.period,
		repos.periodQuestion, repos.questionDisplay, repos.answer)
	s.answer = service.NewAnswerService(repos.quizControl, repos.question,
		repos.questionDisplay, repos.answer)
	s.ranking = service.NewRankingService(repos.answer, repos.period, rdb,
		time.Duration(cfg.Ranking.CacheTTLSeconds)*time.Second)
	s.reorder = service.NewReorderService(repos.period, repos.periodQuestion)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		event:   controller.NewEventController(s.catalog, s.reorder, s.storage),
		quiz:    controller.NewQuizController(s.transition, s.catalog),
		answer:  controller.NewAnswerController(s.answer),
		ranking: controller.NewRankingController(s.ranking),
		health:  controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("quiz-event", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
