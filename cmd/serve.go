package cmd

import (
	"context"
	"net/http"
	"time"

	"NeuraFlow/middleware"
	tokenstore "NeuraFlow/pkg/token"
	"NeuraFlow/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() {
	cfg, logger := bootstrap()
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	session, db, err := newSession(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("starting session", zap.Error(err))
	}

	revoked := tokenstore.NewRevocationList()
	stop := make(chan struct{})
	defer close(stop)
	go revoked.Janitor(time.Minute, stop)
	issuer := tokenstore.NewIssuer(cfg.JWTSecret, cfg.TokenTTL, revoked)

	limiter := middleware.NewLimiter(
		time.Duration(cfg.RateLimitWindowSeconds)*time.Second,
		cfg.RateLimitCapacity,
		cfg.UserConcurrencyLimit,
	)
	go limiter.Janitor(time.Minute, stop)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		DB:           db,
		Issuer:       issuer,
		Session:      session,
		Limiter:      limiter,
		SecureCookie: cfg.IsProduction,
		Logger:       logger,
	})

	logger.Info("starting the neuraflow api",
		zap.String("port", cfg.Port),
		zap.String("ai_backend", cfg.AIBackend),
		zap.String("db_driver", cfg.DBDriver),
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}
}
