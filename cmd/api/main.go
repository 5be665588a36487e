package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/deartime/deartime-backend/internal/config"
	"github.com/deartime/deartime-backend/internal/handler"
	"github.com/deartime/deartime-backend/internal/middleware"
	"github.com/deartime/deartime-backend/internal/migration"
	"github.com/deartime/deartime-backend/internal/repository"
	"github.com/deartime/deartime-backend/internal/routes"
	"github.com/deartime/deartime-backend/internal/service"
	pkgcache "github.com/deartime/deartime-backend/pkg/cache"
	"github.com/deartime/deartime-backend/pkg/jwt"
	pkglogger "github.com/deartime/deartime-backend/pkg/logger"
	pkgredis "github.com/deartime/deartime-backend/pkg/redis"
	pkgstorage "github.com/deartime/deartime-backend/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	// 로거 초기화
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	zlog := pkglogger.GetLogger()
	zlog.Info().Str("env", env).Strs("dotenv", dotenvFiles).Msg("starting deartime-backend")

	// 설정 로드
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// MySQL 연결
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	zlog.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.Name).Msg("connected to MySQL")

	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis 연결 (선택)
	var cacheService pkgcache.Service
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
		)
		if err != nil {
			zlog.Warn().Err(err).Msg("redis unavailable, continuing without cache")
			redisClient = nil
		} else {
			cacheService = pkgcache.NewService(redisClient)
			zlog.Info().Msg("connected to Redis")
		}
	}

	// S3-compatible storage (선택)
	var store service.ObjectStorage
	if cfg.Storage.Enabled && cfg.Storage.Bucket != "" {
		s3Client, err := pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if err != nil {
			zlog.Warn().Err(err).Msg("S3 storage init failed, continuing without uploads")
		} else {
			store = s3Client
		}
	}

	// JWT Manager
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.RefreshExpiry)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	proxyRepo := repository.NewProxyRepository(db)
	letterRepo := repository.NewLetterRepository(db)
	capsuleRepo := repository.NewCapsuleRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	notificationService := service.NewNotificationService(notificationRepo, cacheService)
	friendService := service.NewFriendService(db, friendRepo, proxyRepo, userRepo, notificationService, cacheService)
	proxyService := service.NewProxyService(proxyRepo, userRepo, friendService)
	letterService := service.NewLetterService(letterRepo, userRepo, notificationService, nil)
	capsuleService := service.NewCapsuleService(capsuleRepo, friendService, userRepo, store, notificationService, nil)
	galleryService := service.NewGalleryService(photoRepo, albumRepo, userRepo, store, nil)
	userService := service.NewUserService(userRepo, store)

	// Handlers
	authHandler := handler.NewAuthHandler(userService, jwtManager)
	friendHandler := handler.NewFriendHandler(friendService, proxyService)
	letterHandler := handler.NewLetterHandler(letterService)
	capsuleHandler := handler.NewCapsuleHandler(capsuleService)
	photoHandler := handler.NewPhotoHandler(galleryService)
	albumHandler := handler.NewAlbumHandler(galleryService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Gin 라우터 생성
	if env != "development" && env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())

	// CORS 설정
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimit(redisClient, middleware.DefaultRateLimitConfig()))

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "deartime-backend",
			"time":    time.Now().Unix(),
		})
	})

	routes.Setup(router, authHandler, friendHandler, letterHandler, capsuleHandler, photoHandler, albumHandler, notificationHandler, jwtManager)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zlog.Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// initDB opens the MySQL connection with sane pool defaults
func initDB(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
