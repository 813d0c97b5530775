package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"hr-portal/application"
	"hr-portal/config"
	"hr-portal/domain"
	"hr-portal/infrastructure"
	"hr-portal/interfaces"
)

func main() {
	// Load .env
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	logger := infrastructure.NewLogger(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("server exited with error")
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	// Connect DB
	db, err := infrastructure.NewDatabase(cfg.DB, logger)
	if err != nil {
		return err
	}
	store := infrastructure.NewStore(db)
	defer store.Close()

	var listings domain.JobListingRepository = store
	if cfg.Redis.URL != "" {
		rdb, err := infrastructure.NewRedisClient(cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis unreachable, job listing cache will fall through to the database")
		}
		listings = infrastructure.NewCachedJobListings(store, rdb, cfg.Redis.CacheTTL, logger)
	}

	generator, err := infrastructure.NewTextGenerator(ctx, cfg.LLM, logger)
	if err != nil {
		return err
	}
	defer generator.Close()

	extractor, err := infrastructure.NewTextExtractor(cfg.HTTP.UnidocKey, logger)
	if err != nil {
		return err
	}

	pipeline := application.NewResumePipeline(generator, listings, store, application.PipelineConfig{
		Mode:    domain.AnalysisMode(cfg.Analysis.Mode),
		Timeout: cfg.Analysis.Timeout,
	}, logger)

	if _, err := pipeline.ReconcileStale(ctx, cfg.Analysis.StalePendingAfter); err != nil {
		logger.WithError(err).Error("stale resume reconciliation failed")
	}

	insights := application.NewNotificationService(generator, store, store, cfg.Analysis.Timeout, logger)

	deps := interfaces.Dependencies{
		Pipeline:       pipeline,
		Resumes:        store,
		Listings:       listings,
		Employees:      store,
		Leaves:         store,
		Evaluations:    store,
		Collaborations: store,
		Notifications:  store,
		Insights:       insights,
		Extractor:      extractor,
		Health:         store,
		MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
		Logger:         logger,
	}

	// Connect RabbitMQ; notification work runs inline without it
	if cfg.RabbitMQ.Enabled {
		rmq, err := infrastructure.NewRabbitMQ(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, logger)
		if err != nil {
			return err
		}
		defer rmq.Close()

		if err := rmq.ConsumeJobs(ctx, insights.HandleJob); err != nil {
			return err
		}
		deps.Jobs = rmq
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), interfaces.RequestID(), interfaces.RequestLogger(logger), interfaces.CORS(cfg.HTTP.TrustedOrigins()))
	interfaces.NewHTTPHandler(router, deps)

	srv := &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":     srv.Addr,
			"provider": generator.Name(),
			"mode":     pipeline.Mode(),
		}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
