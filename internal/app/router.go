package app

import (
	"mock_interview_backend/docs"
	"mock_interview_backend/internal/config"
	"mock_interview_backend/internal/middleware"
	"mock_interview_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 未启用额度时传入 nil 接口
	var quota middleware.Quota
	if s.quota != nil {
		quota = s.quota
	}

	// 1. 生成类接口：可选认证，按身份或 IP 计额度
	a.registerGenerationRoutes(router, c, cfg, quota)

	// 2. 会话类接口：强制认证
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.Issuer))
	{
		a.registerInterviewRoutes(authGroup, c, quota)
		a.registerCodingInterviewRoutes(authGroup, c, quota)
	}
}

func (a *App) registerGenerationRoutes(router *gin.Engine, c *controllers, cfg *config.Config, quota middleware.Quota) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		public.GET("/interview-questions", c.generation.InterviewQuestionsInfo)
		public.GET("/coding-questions", c.generation.CodingQuestionsInfo)
		public.GET("/generate-feedback", c.generation.AnswerFeedbackInfo)
		public.GET("/coding-questions-feedback", c.generation.CodeFeedbackInfo)
		public.GET("/compile", c.generation.CompileInfo)
		public.GET("/format", c.generation.FormatInfo)

		public.POST("/format", c.generation.Format)
		public.POST("/compile", c.generation.Compile)
	}

	generate := router.Group("/api")
	generate.Use(middleware.TryAuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.Issuer), middleware.QuotaMiddleware(quota))
	{
		generate.POST("/interview-questions", c.generation.InterviewQuestions)
		generate.POST("/coding-questions", c.generation.CodingQuestions)
		generate.POST("/generate-feedback", c.generation.AnswerFeedback)
		generate.POST("/coding-questions-feedback", c.generation.CodeFeedback)
	}
}

func (a *App) registerInterviewRoutes(rg *gin.RouterGroup, c *controllers, quota middleware.Quota) {
	interviews := rg.Group("/interviews")
	{
		interviews.GET("", c.interview.ListInterviews)
		interviews.GET("/:mockId", c.interview.GetInterview)
		interviews.GET("/:mockId/answers", c.interview.ListAnswers)
		interviews.GET("/:mockId/answers/current", c.interview.CurrentAnswer)

		interviews.POST("", middleware.QuotaMiddleware(quota), c.interview.CreateInterview)
		interviews.POST("/:mockId/answers", middleware.QuotaMiddleware(quota), c.interview.SubmitAnswer)
	}
}

func (a *App) registerCodingInterviewRoutes(rg *gin.RouterGroup, c *controllers, quota middleware.Quota) {
	coding := rg.Group("/coding-interviews")
	{
		coding.GET("", c.codingInterview.ListCodingInterviews)
		coding.GET("/:interviewId", c.codingInterview.GetCodingInterview)
		coding.GET("/:interviewId/answers", c.codingInterview.ListCodeAnswers)
		coding.GET("/:interviewId/answers/current", c.codingInterview.CurrentCodeAnswer)

		coding.POST("", middleware.QuotaMiddleware(quota), c.codingInterview.CreateCodingInterview)
		coding.POST("/:interviewId/answers", middleware.QuotaMiddleware(quota), c.codingInterview.SubmitCodeAnswer)
	}
}
