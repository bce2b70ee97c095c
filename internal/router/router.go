package router

import (
	"ps-portal/internal/config"
	"ps-portal/internal/handler"
	"ps-portal/internal/middleware"
	"ps-portal/internal/repository"
	"ps-portal/internal/service"
	"ps-portal/internal/storage"
	"ps-portal/pkg/redis_limiter"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRouter 设置路由
// redisClient 为 nil 时不启用提交并发限制
func SetupRouter(
	cfg *config.Config,
	logger *logrus.Logger,
	db *gorm.DB,
	store *storage.LocalStore,
	redisClient *redis.Client,
) *gin.Engine {
	if cfg.Server.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 全局中间件
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg))

	// 健康检查
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Problem Statement Submission API",
			"version": "1.0.0",
		})
	})

	// 上传的logo与文档
	r.StaticFS("/uploads", store.HTTPFileSystem())

	// 初始化Repository
	submissionRepo := repository.NewSubmissionRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	// 初始化Service
	intake := service.NewFileIntake(store, cfg.Upload.GetMaxFileSize(), cfg.Upload.MaxDocuments, logger)
	submissionService := service.NewSubmissionService(submissionRepo, intake, logger)
	queryService := service.NewQueryService(submissionRepo, documentRepo, store, logger)

	// 初始化Handler
	submissionHandler := handler.NewSubmissionHandler(submissionService, queryService)

	var limiter *redis_limiter.RedisLimiter
	if redisClient != nil {
		limiter = redis_limiter.NewRedisLimiter(
			redisClient,
			cfg.Redis.MaxConcurrentSubmit,
			"ps_portal:submit:",
			cfg.Redis.GetSlotTTL(),
			logger,
		)
	}

	submitChain := []gin.HandlerFunc{
		middleware.SubmitLimiter(limiter, logger),
		middleware.BodyLimit(cfg.Upload.GetMaxRequestSize()),
		submissionHandler.Submit,
	}

	api := r.Group("/api")
	{
		api.GET("/submit", submissionHandler.Ready)
		api.POST("/submit", submitChain...)
		// 旧版前端使用的地址
		api.POST("/submit_problem_statement", submitChain...)

		api.GET("/submissions", submissionHandler.ListSubmissions)
		api.GET("/submission/:id", submissionHandler.GetSubmission)
		api.DELETE("/submission/:id", submissionHandler.DeleteSubmission)
		api.POST("/update_status", submissionHandler.UpdateStatus)
	}

	return r
}
