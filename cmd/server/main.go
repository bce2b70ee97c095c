package main

import (
	"context"
	"log"
	"os"

	"ps-portal/internal/config"
	"ps-portal/internal/models"
	"ps-portal/internal/router"
	"ps-portal/internal/storage"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func main() {
	// .env 可选, 其中的变量会覆盖配置文件
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./config/config.yaml")
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)

	// 初始化数据库
	db, err := models.OpenDB(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("初始化数据库失败: %v", err)
	}

	// 初始化上传目录
	store, err := storage.NewLocalStore(afero.NewOsFs(), cfg.Upload.RootDir)
	if err != nil {
		logger.Fatalf("初始化上传目录失败: %v", err)
	}

	// 初始化Redis(可选)
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddress(),
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("Redis连接失败, 提交并发限制将被跳过: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Info("未配置Redis, 不启用提交并发限制")
	}

	r := router.SetupRouter(cfg, logger, db, store, redisClient)

	addr := cfg.Server.GetAddress()
	logger.WithFields(logrus.Fields{
		"address":     addr,
		"uploads":     store.Root(),
		"database":    cfg.Database.Path,
		"max_file_mb": cfg.Upload.MaxFileSizeMB,
	}).Info("服务器启动")

	if err := r.Run(addr); err != nil {
		logger.Fatalf("启动服务器失败: %v", err)
	}
}
