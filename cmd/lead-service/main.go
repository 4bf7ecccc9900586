package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/synaptica-ai/web2lead/pkg/common/config"
	"github.com/synaptica-ai/web2lead/pkg/common/database"
	"github.com/synaptica-ai/web2lead/pkg/common/kafka"
	"github.com/synaptica-ai/web2lead/pkg/common/logger"
	"github.com/synaptica-ai/web2lead/pkg/dispatch"
	"github.com/synaptica-ai/web2lead/pkg/forms"
	"github.com/synaptica-ai/web2lead/pkg/gateway/auth"
	"github.com/synaptica-ai/web2lead/pkg/gateway/httpclient"
	"github.com/synaptica-ai/web2lead/pkg/gateway/middleware"
	"github.com/synaptica-ai/web2lead/pkg/lead"
	"github.com/synaptica-ai/web2lead/pkg/observability/metrics"
	"github.com/synaptica-ai/web2lead/pkg/redact"
	"github.com/synaptica-ai/web2lead/pkg/token"
)

func main() {
	logger.Init()
	cfg := config.Load()

	static, err := forms.LoadFile(cfg.FormsFile)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load forms file")
	}
	logger.Log.WithFields(map[string]interface{}{
		"file":  cfg.FormsFile,
		"forms": len(static),
	}).Info("static forms loaded")

	var store forms.Store
	if cfg.PostgresEnabled {
		db, err := database.GetPostgres(cfg)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to connect to postgres")
		}
		defer database.ClosePostgres()

		repo := forms.NewRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			logger.Log.WithError(err).Fatal("failed to migrate forms tables")
		}
		store = repo
	}

	var cache forms.FormCache
	if cfg.RedisEnabled {
		cache = forms.NewCache(database.GetRedis(cfg), cfg.FormsCacheTTL)
		defer database.CloseRedis()
	}

	registry := forms.NewRegistry(static, cache, store)
	if n, err := registry.Warm(context.Background()); err != nil {
		logger.Log.WithError(err).Warn("failed to warm forms cache")
	} else if n > 0 {
		logger.Log.WithField("forms", n).Info("forms cache warmed")
	}

	var publisher dispatch.Publisher
	if cfg.KafkaEnabled() && cfg.KafkaOutcomeTopic != "" {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaOutcomeTopic)
		defer producer.Close()
		publisher = producer
	}

	builder := lead.NewBuilder(token.NewSubmissionResolver())
	if cfg.RedactEnabled {
		rules, err := redact.LoadRules(cfg.RedactRulesFile)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to load redaction rules")
		}
		redactor, err := redact.NewRedactor(rules)
		if err != nil {
			logger.Log.WithError(err).Fatal("invalid redaction rules")
		}
		builder.Use(redactor)
	}
	poster := lead.NewPoster(httpclient.New(cfg.LeadRequestTimeout))
	svc := dispatch.NewService(registry, builder, poster, publisher, cfg.LeadForceDebug)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.KafkaEnabled() {
		consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaSubmissionTopic, cfg.KafkaGroupID)
		defer consumer.Close()

		go func() {
			logger.Log.WithField("topic", cfg.KafkaSubmissionTopic).Info("consuming submission events")
			if err := consumer.Consume(ctx, svc.HandleEvent); err != nil && err != context.Canceled {
				logger.Log.WithError(err).Error("submission consumer stopped")
			}
		}()
	}

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging, middleware.BodyLimit(cfg.MaxRequestBody))
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	var admin mux.MiddlewareFunc
	if cfg.AdminAuthEnabled() {
		oidcAuth, err := auth.NewOIDCAuthenticator(cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to configure OIDC")
		}
		admin = middleware.Authenticate(oidcAuth)
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	dispatch.NewHTTPHandler(svc, registry, admin).Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Lead Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Lead Service...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("Lead Service stopped")
}
