package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/openagora/agora/pkg/audit"
	auditapi "github.com/openagora/agora/pkg/audit/api"
	"github.com/openagora/agora/pkg/category"
	"github.com/openagora/agora/pkg/config"
	"github.com/openagora/agora/pkg/identity"
	"github.com/openagora/agora/pkg/login"
	loginapi "github.com/openagora/agora/pkg/login/api"
	"github.com/openagora/agora/pkg/report"
	"github.com/openagora/agora/pkg/sessions"
	sessionsapi "github.com/openagora/agora/pkg/sessions/api"
	"github.com/openagora/agora/pkg/token"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	// Seed the environment from .env in development; a missing file is fine.
	if err := godotenv.Load(); err == nil {
		slog.Info("Configuration loaded from .env file")
	}

	cfg := config.Config{}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed reading configuration from environment", "err", err)
		os.Exit(-1)
	}

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)

	dbConfig := cfg.DatabaseConfig.ToDbConfig()
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool",
			"db", dbConfig.Database,
			"host", dbConfig.Host,
			"port", dbConfig.Port,
			"user", dbConfig.User)
		os.Exit(-1)
	}

	// Repositories
	identityRepo := identity.NewPostgresRepository(pool)
	sessionRepo := sessions.NewPostgresRepository(pool)
	auditRepo := audit.NewPostgresRepository(pool)
	categoryRepo := category.NewPostgresRepository(pool)
	reportRepo := report.NewPostgresRepository(pool)

	// Services
	codec := token.NewCodec(cfg.JwtConfig.Secret, cfg.JwtConfig.Issuer, cfg.JwtConfig.Audience, cfg.JwtConfig.Expiry())
	sessionSvc := sessions.NewService(sessionRepo)
	auditSvc := audit.NewService(auditRepo)
	categorySvc := category.NewService(categoryRepo)
	reportSvc := report.NewService(reportRepo)
	loginSvc := login.NewService(identityRepo, codec, sessionSvc)

	// Authorization
	authorizers := identity.NewAuthorizers(codec, identityRepo)
	auditMiddleware := audit.NewMiddleware(auditSvc)

	// Handlers
	loginHandler := loginapi.NewHandler(loginSvc)
	sessionHandler := sessionsapi.NewHandler(sessionSvc, codec)
	auditHandler := auditapi.NewHandler(auditSvc)
	categoryHandler := category.NewHandler(categorySvc)
	reportHandler := report.NewHandler(reportSvc)

	// Public authentication routes
	loginHandler.RegisterRoutes(server.R)

	// Session management for members and admins
	server.R.Route("/sessions", func(r chi.Router) {
		r.Use(identity.RequireAny(authorizers.Member, authorizers.Admin))
		sessionHandler.RegisterRoutes(r)
	})

	// Admin moderation surface
	server.R.Group(func(r chi.Router) {
		r.Use(identity.Require(authorizers.Admin))
		r.Use(auditMiddleware.RequestAudit)
		auditHandler.RegisterRoutes(r)
		reportHandler.RegisterAdminRoutes(r)
	})

	// Categories: browsing is open to any authenticated identity, mutations
	// are moderation-only.
	server.R.Route("/categories", func(r chi.Router) {
		browse := identity.RequireAny(authorizers.Guest, authorizers.Member, authorizers.Admin)
		moderate := identity.Require(authorizers.Admin)

		r.Group(func(r chi.Router) {
			r.Use(browse)
			categoryHandler.RegisterPublicRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(moderate)
			r.Use(auditMiddleware.RequestAudit)
			categoryHandler.RegisterAdminRoutes(r)
		})
	})

	// Operator lookup that can see deleted categories
	server.R.Route("/admin/categories", func(r chi.Router) {
		r.Use(identity.Require(authorizers.AdminUser))
		r.Use(auditMiddleware.RequestAudit)
		categoryHandler.RegisterAdminUserRoutes(r)
	})

	// Member reporting
	server.R.Group(func(r chi.Router) {
		r.Use(identity.Require(authorizers.Member))
		reportHandler.RegisterMemberRoutes(r)
	})

	// Periodic session purge
	go runSessionCleanup(context.Background(), sessionSvc, cfg.SessionConfig)

	server.Run()
}

func runSessionCleanup(ctx context.Context, svc *sessions.Service, cfg config.SessionConfig) {
	interval, err := time.ParseDuration(cfg.CleanupInterval)
	if err != nil || interval <= 0 {
		interval = time.Hour
	}
	retention, err := time.ParseDuration(cfg.Retention)
	if err != nil || retention <= 0 {
		retention = 30 * 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := svc.Cleanup(ctx, retention); err != nil {
				slog.Error("Session cleanup failed", "err", err)
			}
		}
	}
}
