package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/summaryhub/summaryhub/handlers"
	"github.com/summaryhub/summaryhub/internal/azure"
	"github.com/summaryhub/summaryhub/internal/config"
	"github.com/summaryhub/summaryhub/internal/database"
	"github.com/summaryhub/summaryhub/internal/summary/handler"
	summaryrepo "github.com/summaryhub/summaryhub/internal/summary/repository"
	summarysvc "github.com/summaryhub/summaryhub/internal/summary/service"
	"github.com/summaryhub/summaryhub/internal/users"
	"github.com/summaryhub/summaryhub/pkg/logger"
	"github.com/summaryhub/summaryhub/pkg/metrics"
	"github.com/summaryhub/summaryhub/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: azure=%v mongo=%v redis=%v", cfg.Azure.TenantID != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple; production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Global middlewares: logging + recovery
	r.Use(gin.Logger(), gin.Recovery())

	// Connect to Redis early so the rate-limiter can use it when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// shared runtime vars used by handlers/readiness
	var userSvc *users.Service
	var mongoOK bool

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint: 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["mongodb"] = mongoOK
		if cfg.MongoDB.URI != "" && !mongoOK {
			ready = false
		}

		// token validation readiness: a tenant must be configured
		deps["azure"] = cfg.Azure.TenantID != ""
		if !deps["azure"] {
			ready = false
		}

		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if !deps["redis"] {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := http.StatusOK
		label := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			label = "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	ctx := context.Background()

	// Connect to MongoDB with retry/backoff to tolerate startup races
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
			mongoClient = nil
		} else {
			defer func() { _ = mongoClient.Disconnect(ctx) }()
			mongoOK = true
		}
	}

	// Token validation pipeline: signing-key cache, validator, role mapping
	keys := azure.NewKeySetCache(cfg.Azure.Authority, cfg.Azure.TenantID)
	validator := azure.NewValidator(keys, cfg.Azure)
	mapping := azure.NewRoleMapping(cfg.Azure)
	if cfg.Azure.TenantID == "" {
		logger.Warnf("AZURE_TENANT_ID not set; bearer tokens cannot be validated")
	}

	// Repositories: Mongo-backed when connected, in-memory fallback for summaries
	var sumRepo summaryrepo.Repository
	if mongoClient != nil {
		db := mongoClient.Database(cfg.MongoDB.Database)
		userRepo, err := users.NewMongoUserRepository(db.Collection("users"))
		if err != nil {
			// without the unique indexes double-registration becomes possible
			logger.Fatalf("failed to prepare user collection: %v", err)
		}
		userSvc = users.NewService(userRepo, validator, mapping)
		sumRepo = summaryrepo.NewMongoRepo(db.Collection("summaries"))
	} else {
		logger.Warnf("running without MongoDB: user API disabled, summaries held in memory")
		sumRepo = summaryrepo.NewMemoryRepo()
	}

	if userSvc != nil {
		root := r.Group("")
		handlers.NewUserHandler(userSvc).Register(root)
		handlers.NewAuthHandler(cfg, keys, validator, userSvc).Register(root)
		handler.RegisterSummaryRoutes(r, summarysvc.New(sumRepo), middleware.RequireUser(userSvc))
	} else {
		logger.Warnf("user/summary handlers not registered because MongoDB is unavailable")
	}
	handlers.RegisterSwagger(r)

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting summaryhub on %s (env=%s)", addr, cfg.Server.Environment)
	// run server in goroutine and keep process alive; prevents the container
	// from exiting silently if r.Run ever returns
	go func() {
		if err := r.Run(addr); err != nil {
			logger.Fatalf("server failed: %v", err)
		}
	}()
	select {}
}
