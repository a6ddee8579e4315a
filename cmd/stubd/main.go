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

	"github.com/DawnFalls/getSuitedV1/handlers"
	"github.com/DawnFalls/getSuitedV1/internal/config"
	"github.com/DawnFalls/getSuitedV1/internal/models"
	"github.com/DawnFalls/getSuitedV1/internal/storage"
	"github.com/DawnFalls/getSuitedV1/internal/stubstore"
	"github.com/DawnFalls/getSuitedV1/internal/tokens"
	"github.com/DawnFalls/getSuitedV1/pkg/logger"
	"github.com/DawnFalls/getSuitedV1/pkg/metrics"
	"github.com/DawnFalls/getSuitedV1/pkg/middleware"
)

var startTime = time.Now()

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Client.LogLevel)

	if cfg.Stub.JWTSecret == "" {
		cfg.Stub.JWTSecret = "dev-secret"
		logger.Warnf("STUB_JWT_SECRET not set, using insecure dev default")
	}

	ctx := context.Background()

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS for local development; the stub only ever serves
	// the client on localhost.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	// Redis-backed rate limiting when Redis is reachable, local token
	// buckets otherwise.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis unreachable at %s, falling back to local rate limiter: %v", cfg.Redis.Addr, err)
			rdb = nil
		}
	}
	if rdb != nil {
		r.Use(middleware.RedisRateLimit(rdb, cfg.Stub.RateLimitRPS, cfg.Stub.RateBurst, time.Second))
	} else {
		r.Use(middleware.RateLimit(cfg.Stub.RateLimitRPS, cfg.Stub.RateBurst))
	}

	repo, disconnect := buildRepo(ctx, cfg)
	if disconnect != nil {
		defer disconnect()
	}

	avatars := buildAvatars(cfg, r)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := handlers.NewAuthHandler(handlers.AuthConfig{
		JWTSecret: cfg.Stub.JWTSecret,
		TokenTTL:  cfg.Stub.TokenTTL,
	}, repo)
	auth.Register(r.Group("/"))

	verify := func(raw string) (map[string]interface{}, error) {
		return tokens.Verify(cfg.Stub.JWTSecret, raw)
	}
	users := handlers.NewUsersHandler(repo, avatars)
	users.Register(r.Group("/", middleware.Auth(verify)))

	seedEvaluations(ctx, repo)

	addr := fmt.Sprintf("%s:%s", cfg.Stub.Host, cfg.Stub.Port)
	logger.Infof("stub backend listening on %s (mongo=%v minio=%v redis=%v)",
		addr, cfg.Mongo.URI != "", cfg.MinIO.Endpoint != "", rdb != nil)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

// buildRepo returns a Mongo-backed repository when MONGODB_URI is set and the
// in-memory one otherwise. The second return value disconnects Mongo, nil for
// memory.
func buildRepo(ctx context.Context, cfg *config.Config) (stubstore.Repository, func()) {
	if cfg.Mongo.URI == "" {
		return stubstore.NewMemoryRepo(), nil
	}
	client, repo, err := stubstore.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout)
	if err != nil {
		logger.Warnf("mongo unavailable, using in-memory store: %v", err)
		return stubstore.NewMemoryRepo(), nil
	}
	logger.Infof("connected to MongoDB database %q", cfg.Mongo.Database)
	return repo, func() { _ = client.Disconnect(ctx) }
}

// buildAvatars returns a MinIO-backed avatar store when MINIO_ENDPOINT is set,
// otherwise a disk store served from the stub's /static route.
func buildAvatars(cfg *config.Config, r *gin.Engine) storage.AvatarStore {
	if cfg.MinIO.Endpoint != "" {
		s, err := storage.NewMinIOStore(cfg.MinIO)
		if err == nil {
			logger.Infof("storing avatars in MinIO bucket %q", cfg.MinIO.Bucket)
			return s
		}
		logger.Warnf("minio unavailable, using disk avatar store: %v", err)
	}
	dir := os.TempDir() + "/getsuited-avatars"
	d, err := storage.NewDiskStore(dir, "http://localhost:"+cfg.Stub.Port)
	if err != nil {
		logger.Fatalf("avatar store: %v", err)
	}
	r.Static("/static", d.Dir())
	return d
}

// seedEvaluations gives the demo account a couple of reports so the client
// has something to render on first run.
func seedEvaluations(ctx context.Context, repo stubstore.Repository) {
	const email = "demo@getsuited.dev"
	if _, err := repo.Upsert(ctx, &models.User{Email: email, Name: "Demo User"}); err != nil {
		logger.Warnf("seed: %v", err)
		return
	}
	existing, err := repo.Evaluations(ctx, email)
	if err != nil {
		logger.Warnf("seed: %v", err)
		return
	}
	if len(existing) > 0 {
		// a persistent store keeps the demo data across restarts
		return
	}
	name := "first-interview.pdf"
	evals := []models.Evaluation{
		{FileName: &name, FileURL: "http://localhost:5001/static/first-interview.pdf"},
		{FileURL: "http://localhost:5001/static/second-interview.pdf"},
	}
	for _, e := range evals {
		if err := repo.AddEvaluation(ctx, email, e); err != nil {
			logger.Warnf("seed: %v", err)
		}
	}
}
