package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"proofing-app/config"
	"proofing-app/database"
	authapi "proofing-app/internal/api/auth"
	dashboardapi "proofing-app/internal/api/dashboard"
	galleryapi "proofing-app/internal/api/gallery"
	routes "proofing-app/internal/app/http"
	"proofing-app/internal/app/http/middleware"
	"proofing-app/internal/domain/access"
	"proofing-app/internal/domain/payments"
	"proofing-app/internal/gallery"
	"proofing-app/internal/logging"
	"proofing-app/internal/metrics"
	"proofing-app/internal/notify"
	"proofing-app/internal/repository"
	"proofing-app/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	logging.Configure(config.LOG_LEVEL)
	database.InitDB(config.DB_URL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo := repository.New(database.DB)

	identities := session.NewMemoryCache(config.IDENTITY_TTL)
	identities.StartCleanup(ctx, 10*time.Minute)

	visits := gallery.NewRegistry(repo, identities)
	go sweepVisits(ctx, visits, config.VISIT_IDLE)

	hub := notify.NewHub()
	go hub.Run(ctx)

	signer := access.NewSigner(config.ASSET_URL_SECRET, config.ASSET_URL_TTL)
	gate := access.NewGate(repo, signer, config.ASSET_BASE_URL)
	policy := payments.PolicyFor(config.LEDGER_POLICY)

	limiter := middleware.NewRateLimiter(config.RATE_LIMIT_RPS, config.RATE_LIMIT_BURST)
	limiter.StartCleanup(10 * time.Minute)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), metrics.Instrument())

	// ✅ Add CORS middleware BEFORE registering routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret:    config.JWT_SECRET,
		SecureCookie: strings.HasPrefix(config.PUBLIC_BASE_URL, "https://"),
		Auth:         authapi.NewHandler(repo, config.JWT_SECRET),
		Gallery:      galleryapi.NewHandler(visits, gate, hub, config.PUBLIC_BASE_URL),
		Dashboard:    dashboardapi.NewHandler(repo, gate, hub, policy, config.PUBLIC_BASE_URL),
		Upgrader:     dashboardapi.NewUpgrader(config.CORS_ORIGIN),
		Albums:       repo,
		RateLimiter:  limiter,
	})

	logging.WithFields(map[string]interface{}{
		"port":          config.PORT,
		"ledger_policy": config.LEDGER_POLICY,
	}).Info("server starting")

	if err := r.Run(":" + config.PORT); err != nil {
		logging.Logger.WithError(err).Fatal("server stopped")
	}
}

func sweepVisits(ctx context.Context, visits *gallery.Registry, idle time.Duration) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := visits.Sweep(idle); n > 0 {
				logging.Logger.WithField("visits", n).Debug("swept idle gallery visits")
			}
		}
	}
}
