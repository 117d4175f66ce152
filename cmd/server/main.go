package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/application/ledger"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/application/notifier"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/application/report"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/auth"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/cache"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/config"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/event"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/logger"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/metrics"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/migration"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/persistence"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/storage"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/telemetry"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/interfaces/http/handler"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/interfaces/http/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	var migrate bool
	flag.BoolVar(&migrate, "migrate", false, "Apply pending schema migrations before serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting RT/RW ledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	otelCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
	}
	tp, err := telemetry.NewTracerProvider(ctx, otelCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	logsCfg := otelCfg
	logsCfg.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled
	lp, err := telemetry.NewLoggerProvider(ctx, logsCfg)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = lp.Bridge(log, cfg.Telemetry.ServiceName, zap.InfoLevel)

	profiler, err := telemetry.StartProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Profiling.Enabled,
		ServerAddress:   cfg.Profiling.ServerAddress,
		ApplicationName: cfg.App.Name,
		Environment:     cfg.App.Env,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.LinkSpans(tp) {
		log.Info("Profiles are labelled with span IDs")
	}

	if migrate {
		m, err := migration.NewFromURL(cfg.Database.DSN(), cfg.Database.MigrationsPath, log)
		if err != nil {
			log.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := m.Up(); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
		_ = m.Close()
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")
	if tp.IsEnabled() && cfg.Telemetry.DBTracing {
		if err := telemetry.InstrumentDB(db.DB, cfg.Database.DBName); err != nil {
			log.Fatal("Failed to instrument database", zap.Error(err))
		}
	}

	proofs, err := storage.NewProofStorage(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize proof storage", zap.Error(err))
	}

	idempotency, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() { _ = idempotency.Close() }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ledgerMetrics := metrics.NewLedger(registry)

	residents := persistence.NewGormResidentRepository(db.DB)
	notifications := persistence.NewGormNotificationRepository(db.DB)

	bus := event.NewAsyncEventBus(log, event.WithDispatchTimeout(cfg.Notification.DispatchTimeout))
	bus.Subscribe(notifier.NewLedgerNoticeHandler(residents, notifier.NewInboxSink(notifications), log).WithMetrics(ledgerMetrics))

	deps := ledger.Dependencies{
		Fees:      persistence.NewGormFeeRepository(db.DB),
		Entries:   persistence.NewGormWasteEntryRepository(db.DB),
		Balances:  persistence.NewGormBalanceStore(db.DB),
		Residents: residents,
		Scope:     persistence.NewGormTransactionScope(db.DB),
		Proofs:    proofs,
		Events:    bus,
		Metrics:   ledgerMetrics,
		Logger:    log,
		Policy: ledger.ProofPolicy{
			MaxBytes:      cfg.Ledger.ProofMaxBytes,
			ContentTypes:  cfg.Ledger.ProofContentTypes,
			PresignExpiry: cfg.Storage.PresignExpiry,
		},
	}
	feeService := ledger.NewFeeService(deps)
	bankService := ledger.NewWasteBankService(deps)
	reportService := report.NewService(persistence.NewGormReportRepository(db.DB), feeService, residents, ledgerMetrics, log)
	inboxService := notifier.NewInboxService(notifications)

	engine, err := router.NewEngine(router.Handlers{
		Fees:          handler.NewFeeHandler(feeService, bankService),
		WasteBank:     handler.NewWasteBankHandler(bankService),
		Reports:       handler.NewReportHandler(reportService),
		Notifications: handler.NewNotificationHandler(inboxService),
		System:        handler.NewSystemHandler(cfg.App.Name, version, db),
	}, router.Options{
		ServiceName:    cfg.Telemetry.ServiceName,
		HTTP:           cfg.HTTP,
		Metrics:        cfg.Metrics,
		Tokens:         auth.NewJWTService(cfg.JWT),
		Idempotency:    idempotency,
		IdempotencyTTL: cfg.Ledger.IdempotencyTTL,
		Ledger:         ledgerMetrics,
		Gatherer:       registry,
		Tracing:        tp.IsEnabled(),
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	// in-flight notices are delivered before the database closes
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler stop failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	if err := lp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Logger provider shutdown failed", zap.Error(err))
	}
}
