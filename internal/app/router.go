package app

import (
	"quiz_event_backend/internal/config"
	"quiz_event_backend/internal/middleware"
	"quiz_event_backend/internal/model"
	"quiz_event_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 参加者接口
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerParticipantRoutes(authGroup, c)
	}

	// 3. 运营侧接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerParticipantRoutes(rg *gin.RouterGroup, c *controllers) {
	// 参加者端轮询进行状态、提交作答、查看榜单
	rg.GET("/events/:id/control", c.quiz.GetControl)
	rg.POST("/events/:id/answers", c.answer.Submit)
	rg.GET("/events/:id/rankings", c.ranking.GetRankings)
	rg.GET("/events/:id/rankings/final", c.ranking.GetFinalResults)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		// 目录管理
		admin.POST("/events", c.event.CreateEvent)
		admin.GET("/events", c.event.ListEvents)
		admin.GET("/events/:id", c.event.GetEvent)
		admin.POST("/events/:id/periods", c.event.CreatePeriod)
		admin.POST("/events/:id/questions", c.event.CreateQuestion)
		admin.GET("/events/:id/questions", c.event.ListQuestions)
		admin.POST("/periods/:id/questions", c.event.AttachQuestion)
		admin.GET("/periods/:id/questions", c.event.ListPeriodQuestions)
		admin.POST("/questions/image", c.event.UploadQuestionImage)

		// 顺序调整
		admin.PUT("/events/:id/periods/order", c.event.ReorderPeriods)
		admin.PUT("/periods/:id/questions/order", c.event.ReorderQuestions)

		// 进行控制
		admin.POST("/events/:id/transition", c.quiz.Transition)
		admin.POST("/events/:id/reset", c.quiz.Reset)
	}
}
