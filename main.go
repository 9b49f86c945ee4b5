package main

import (
	"context"
	"fmt"
	"os"

	"github.com/TIANLI0/LayerStudio/config"
	"github.com/TIANLI0/LayerStudio/handler"
	"github.com/TIANLI0/LayerStudio/middleware"
	"github.com/TIANLI0/LayerStudio/service"
	"github.com/TIANLI0/LayerStudio/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

func main() {
	// 加载配置
	cfg := config.New()

	// 初始化日志
	if err := utils.InitLogger(cfg.Server.Mode); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.Sync()

	utils.Logger.Info("starting LayerStudio server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("git_branch", GitBranch))

	// 初始化项目存储：Redis 不可用时退化为进程内存储
	var store service.ProjectStore
	redisStore := service.NewRedisStore(&cfg.Redis)
	ctx := context.Background()
	if err := redisStore.Ping(ctx); err != nil {
		utils.Logger.Warn("redis connection failed, using in-memory project store", zap.Error(err))
		_ = redisStore.Close()
		store = service.NewMemoryStore()
	} else {
		utils.Logger.Info("redis connected successfully")
		store = redisStore
	}
	defer store.Close()

	// 初始化本地检测与掩码清理
	var detector *service.SubjectDetector
	if cfg.Detect.Enabled {
		detector = service.NewSubjectDetector(&cfg.Detect)
	}
	refiner := service.NewMaskRefiner(&cfg.Detect)

	// 初始化Handler
	projectHandler := handler.NewProjectHandler(cfg, store)
	maskHandler := handler.NewMaskHandler(cfg, refiner)
	uploadHandler := handler.NewUploadHandler(cfg, detector)

	// 设置Gin模式
	gin.SetMode(cfg.Server.Mode)

	// 创建路由
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	// 健康检查和版本信息
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"version": Version,
		})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
			"git_branch": GitBranch,
		})
	})

	// API路由
	api := r.Group("/api/v1")
	{
		api.POST("/upload", uploadHandler.Upload)
		api.POST("/detect", uploadHandler.Detect)

		api.POST("/masks/expand", maskHandler.Expand)
		api.POST("/masks/from-box", maskHandler.FromBox)

		api.POST("/projects", projectHandler.Create)
		api.GET("/projects", projectHandler.List)
		api.GET("/projects/:id", projectHandler.Get)
		api.PUT("/projects/:id", projectHandler.Update)
		api.DELETE("/projects/:id", projectHandler.Delete)

		api.POST("/projects/:id/layers", projectHandler.AddLayer)
		api.GET("/projects/:id/layers", projectHandler.ListLayers)
		api.GET("/projects/:id/layers/:layerID", projectHandler.GetLayer)
		api.PUT("/projects/:id/layers/:layerID", projectHandler.UpdateLayer)
		api.DELETE("/projects/:id/layers/:layerID", projectHandler.DeleteLayer)
		api.POST("/projects/:id/layers/:layerID/duplicate", projectHandler.DuplicateLayer)
		api.POST("/projects/:id/layers/:layerID/apply-mask", projectHandler.ApplyMask)
		api.POST("/projects/:id/layers/:layerID/extract", projectHandler.Extract)

		api.POST("/projects/:id/masks/combine", projectHandler.CombineMasks)
		api.POST("/projects/:id/composite", projectHandler.Composite)
		api.POST("/projects/:id/flatten", projectHandler.Flatten)
		api.POST("/projects/:id/export", projectHandler.Export)
	}

	// 启动服务器
	utils.Logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := r.Run(cfg.Server.Port); err != nil {
		utils.Logger.Fatal("failed to start server", zap.Error(err))
	}
}
