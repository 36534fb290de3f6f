package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/askloop/askloop-backend/handlers"
	"github.com/askloop/askloop-backend/internal/answers"
	"github.com/askloop/askloop-backend/internal/config"
	"github.com/askloop/askloop-backend/internal/database"
	"github.com/askloop/askloop-backend/internal/insights"
	"github.com/askloop/askloop-backend/internal/oidc"
	"github.com/askloop/askloop-backend/internal/questions"
	"github.com/askloop/askloop-backend/internal/sessions"
	"github.com/askloop/askloop-backend/internal/tokens"
	"github.com/askloop/askloop-backend/internal/users"
	"github.com/askloop/askloop-backend/pkg/logger"
	"github.com/askloop/askloop-backend/pkg/metrics"
	"github.com/askloop/askloop-backend/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

func main() {
	// log level is controlled with LOG_LEVEL (debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v oidc=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.OIDC.IssuerURL != "")

	r := gin.New()

	// Lightweight CORS for the SPA: permissive headers plus OPTIONS
	// preflight. Production deployments should front this with a stricter
	// policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	r.Use(middleware.RequestIDMiddleware())
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.MetricsMiddleware())

	ctx := context.Background()

	// Connect to Redis early so the blacklist, sessions and rate limiter can
	// use it when configured. Redis is optional; everything it backs has a
	// fallback.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			sessions.SetBlacklistClient(redisClient)
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter, per-user when authenticated, per-IP
	// otherwise.
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			limit := int(cfg.RateLimit.RPS * float64(cfg.RateLimit.WindowSeconds))
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, limit, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Token verification: an external IdP when configured, the local HS256
	// verifier otherwise. ALLOW_INSECURE_TOKEN=true swaps in a signature-free
	// parser for integration tests.
	var verifier middleware.Verifier
	if cfg.OIDC.IssuerURL != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.OIDC.IssuerURL, cfg.OIDC.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = ver
		}
	}
	if verifier == nil {
		verifier = tokens.NewVerifier(cfg.JWT.Secret)
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN")), "true") {
		logger.Warn("enabling insecure token verifier (integration mode)")
		verifier = oidc.NewInsecureVerifier()
	}

	// MongoDB is the system of record; retry with backoff to tolerate
	// startup races against the database container.
	const maxAttempts = 5
	backoff := time.Second
	var client *mongo.Client
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, err = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err == nil {
			break
		}
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if err != nil {
		logger.Fatalf("could not connect to MongoDB after %d attempts: %v", maxAttempts, err)
	}
	defer func() { _ = client.Disconnect(ctx) }()
	db := client.Database(cfg.MongoDB.Database)

	usersRepo := users.NewMongoRepository(db.Collection("users"))
	questionsRepo := questions.NewMongoRepository(db.Collection("questions"))
	answersRepo := answers.NewMongoRepository(db.Collection("answers"))
	insightsRepo := insights.NewMongoRepository(db.Collection("insights"))

	usersSvc := users.NewService(usersRepo)
	questionsSvc := questions.NewService(questionsRepo, answersRepo)
	answersSvc := answers.NewService(answersRepo, questionsRepo)
	insightsSvc := insights.NewService(insightsRepo, questionsRepo)

	// Sessions prefer Redis; Mongo keeps refresh tokens working without it.
	var sessionsSvc *sessions.Service
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
		logger.Infof("using Redis for session storage")
	} else {
		sessionsSvc = sessions.NewService(sessions.NewMongoRepository(db.Collection("sessions")))
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["mongo"] = client.Ping(c.Request.Context(), nil) == nil
		if !deps["mongo"] {
			ready = false
		}
		if cfg.Redis.Host != "" {
			deps["redis"] = redisClient != nil && redisClient.Ping(c.Request.Context()).Err() == nil
			if !deps["redis"] {
				ready = false
			}
		} else {
			deps["redis"] = true
		}
		deps["verifier"] = verifier != nil

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	auth := middleware.AuthMiddleware(verifier)
	root := r.Group("")
	handlers.NewAuthHandler(cfg, usersSvc, sessionsSvc).Register(root)
	handlers.NewQuestionHandler(questionsSvc, answersSvc, usersSvc).Register(root, auth)
	handlers.NewAnswerHandler(answersSvc, usersSvc).Register(root, auth)
	handlers.NewInsightHandler(insightsSvc, questionsSvc, usersSvc).Register(root, auth)
	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting askloop backend on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
