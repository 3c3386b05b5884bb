package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/THURZIN2905/toperdido/cache"
	"github.com/THURZIN2905/toperdido/config"
	"github.com/THURZIN2905/toperdido/controllers"
	"github.com/THURZIN2905/toperdido/events"
	"github.com/THURZIN2905/toperdido/logger"
	"github.com/THURZIN2905/toperdido/middleware"
	"github.com/THURZIN2905/toperdido/repository"
	"github.com/THURZIN2905/toperdido/routes"
	"github.com/THURZIN2905/toperdido/utils"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-admin-key" {
		if err := printAdminKey(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	log := logger.Logger

	db, err := config.ConnectDB(cfg.DB)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	repo := repository.NewQuestionnaireRepository(db)

	health := map[string]controllers.Pinger{"db": controllers.DBPinger{DB: db}}

	var catalogCache controllers.Cache
	if cfg.Redis.Host != "" {
		rc, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, serving questions without cache")
		} else {
			defer rc.Close()
			catalogCache = rc
			health["redis"] = rc
		}
	}

	var publisher events.Publisher = events.LogPublisher{Log: log}
	if cfg.RabbitMQ.URL != "" {
		p, err := events.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.WithError(err).Warn("rabbitmq unavailable, submission events will only be logged")
		} else {
			defer p.Close()
			publisher = p
		}
	}

	var uploader controllers.Uploader
	if cfg.Export.SupabaseURL != "" && cfg.Export.SupabaseKey != "" {
		uploader = utils.NewSupabaseUploader(cfg.Export.SupabaseURL, cfg.Export.SupabaseKey, cfg.Export.Bucket)
	}

	limiter := middleware.NewIPRateLimiter(cfg.Server.SubmitPerMin, cfg.Server.SubmitBurst, 5*time.Minute)
	defer limiter.Stop()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderAdminKey},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if err := r.SetTrustedProxies(nil); err != nil {
		log.WithError(err).Fatal("invalid trusted proxies")
	}

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Questionnaire server is running")
	})
	routes.SetupRoutes(r, routes.Dependencies{
		Questionnaire: controllers.NewQuestionnaireController(repo, publisher, catalogCache, cfg.Redis.CatalogTTL, log),
		Export:        controllers.NewExportController(repo, cfg.Export.Dir, uploader, log),
		Catalog:       controllers.NewCatalogController(repo, catalogCache, log),
		Health:        controllers.HealthCheck(health),
		SubmitLimiter: limiter,
		JWTSecret:     cfg.Auth.JWTSecret,
		AdminKeyHash:  cfg.Auth.AdminKeyHash,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("server listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("server exited")
}

// printAdminKey prints a fresh admin key and the hash to put in ADMIN_KEY_HASH.
func printAdminKey() error {
	key, err := utils.GenerateAdminKey()
	if err != nil {
		return err
	}
	hash, err := utils.HashAdminKey(key)
	if err != nil {
		return err
	}
	fmt.Printf("X-Admin-Key:    %s\nADMIN_KEY_HASH: %s\n", key, hash)
	return nil
}
