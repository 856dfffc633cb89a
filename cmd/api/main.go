package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/httplog/v3"

	"github.com/hrms-platform/leave-service-go/internal/config"
	"github.com/hrms-platform/leave-service-go/internal/domain/event"
	appHTTP "github.com/hrms-platform/leave-service-go/internal/handler/http"
	"github.com/hrms-platform/leave-service-go/internal/pkg/cache"
	"github.com/hrms-platform/leave-service-go/internal/pkg/database"
	"github.com/hrms-platform/leave-service-go/internal/pkg/kafka"
	"github.com/hrms-platform/leave-service-go/internal/pkg/token"
	"github.com/hrms-platform/leave-service-go/internal/repository/postgresql"
	"github.com/hrms-platform/leave-service-go/internal/service/authz"
	dashboardService "github.com/hrms-platform/leave-service-go/internal/service/dashboard"
	identityService "github.com/hrms-platform/leave-service-go/internal/service/identity"
	leaveService "github.com/hrms-platform/leave-service-go/internal/service/leave"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       logLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "leave-service"),
		slog.String("env", cfg.App.Env),
	)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	var store cache.Store
	if cfg.Redis.Enabled {
		store, err = cache.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			// The cache is an optimization; run without it rather than
			// refusing to start.
			logger.Warn("redis unavailable, continuing without cache", "error", err)
			store = nil
		}
	}

	var publisher event.Publisher
	if cfg.Kafka.Enabled {
		kafkaPublisher := kafka.NewPublisher(cfg.Kafka.Brokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	var verifier token.Verifier
	if cfg.Auth.JWKSURL != "" {
		verifier, err = token.NewJWKSVerifier(context.Background(), cfg.Auth.JWKSURL, cfg.Auth.Audience, cfg.Auth.Issuer)
		if err != nil {
			log.Fatal("Error initializing token verifier: ", err)
		}
	} else {
		verifier = token.NewStaticVerifier(cfg.Auth.Secret)
	}

	leaveRepo := postgresql.NewLeaveRepository(db)

	directory := identityService.NewDirectoryClient(cfg.Directory.BaseURL, cfg.Directory.Timeout, store, logger)
	resolver := identityService.NewResolver(directory, logger)
	authorizer := authz.New(directory, logger)
	enricher := leaveService.NewEnricher(directory, logger)
	coordinator := leaveService.NewCoordinator(publisher, store, logger)

	leaveSvc := leaveService.NewLeaveService(leaveRepo, authorizer, resolver, directory, enricher, coordinator, logger)
	dashboardSvc := dashboardService.NewDashboardService(leaveRepo, store, authorizer, logger)

	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	dashboardHandler := appHTTP.NewDashboardHandler(dashboardSvc)

	router := appHTTP.NewRouter(logger, verifier, resolver, leaveHandler, dashboardHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("server starting", "addr", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server error: ", err)
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
