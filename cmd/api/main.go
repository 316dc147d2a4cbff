package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tavvy/atlas-backend/internal/config"
	"github.com/tavvy/atlas-backend/internal/handler"
	"github.com/tavvy/atlas-backend/internal/middleware"
	"github.com/tavvy/atlas-backend/internal/repository"
	"github.com/tavvy/atlas-backend/internal/routes"
	"github.com/tavvy/atlas-backend/internal/service"
	pkgcache "github.com/tavvy/atlas-backend/pkg/cache"
	"github.com/tavvy/atlas-backend/pkg/connectivity"
	"github.com/tavvy/atlas-backend/pkg/jwt"
	pkglogger "github.com/tavvy/atlas-backend/pkg/logger"
	pkgredis "github.com/tavvy/atlas-backend/pkg/redis"
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

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")

	// Redis (local draft cache). The service degrades without it: offline
	// drafts cannot be stored, but online flows keep working.
	var draftCache service.LocalCache
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Info("Warning: Failed to connect to Redis: %v (continuing without draft cache)", err)
		draftCache = pkgcache.NewDraftCache(nil)
	} else {
		pkglogger.Info("Connected to Redis")
		draftCache = pkgcache.NewDraftCache(pkgcache.NewRedisKV(redisClient))
	}

	// Connectivity monitor
	monitor := connectivity.NewMonitor(connectivity.Options{
		ProbeURL:     cfg.Connectivity.ProbeURL,
		Interval:     cfg.Connectivity.ProbeInterval,
		ProbeTimeout: cfg.Connectivity.ProbeTimeout,
	})
	monitor.Start()
	defer monitor.Stop()

	// JWT manager (verification only; tokens are issued by the auth service)
	jwtManager := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.ExpiresIn)

	// Repositories and services
	draftRepo := repository.NewDraftRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	submissionSvc := service.NewSubmissionService(submissionRepo, cfg.Rewards.SubmissionTaps)
	draftSvc := service.NewDraftService(draftRepo, draftCache, monitor, submissionSvc, cfg.Drafts.AutoSaveDelay, cfg.Drafts.MaxPhotos)

	draftHandler := handler.NewDraftHandler(draftSvc, cfg.Drafts.DefaultSnoozeHours)

	// Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS
	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400 * time.Second,
	}))

	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "atlas-backend",
			"online":  monitor.Online(),
			"time":    time.Now().Unix(),
		})
	})

	routes.Setup(router, draftHandler, jwtManager)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	pkglogger.Info("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func splitAndTrim(s string, delimiter string) []string {
	parts := strings.Split(s, delimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	if mysqlCfg.Params == nil {
		mysqlCfg.Params = map[string]string{}
	}
	mysqlCfg.Params["time_zone"] = "'+00:00'"

	gormCfg := &gorm.Config{}
	if cfg.IsDevelopment() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	return db, nil
}
