package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/cache"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/config"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/logger"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/metrics"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/interfaces/http/handler"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/interfaces/http/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers mounted by NewEngine
type Handlers struct {
	Fees          *handler.FeeHandler
	WasteBank     *handler.WasteBankHandler
	Reports       *handler.ReportHandler
	Notifications *handler.NotificationHandler
	System        *handler.SystemHandler
}

// Options configures the engine's middleware chain
type Options struct {
	ServiceName    string
	HTTP           config.HTTPConfig
	Metrics        config.MetricsConfig
	Tokens         middleware.TokenValidator
	Idempotency    cache.IdempotencyStore
	IdempotencyTTL time.Duration
	Ledger         *metrics.Ledger
	Gatherer       prometheus.Gatherer
	Tracing        bool
	Logger         *zap.Logger
}

// NewEngine builds the gin engine: public health and metrics endpoints and
// the authenticated /api/v1 routes
func NewEngine(h Handlers, opts Options) (*gin.Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	handler.RegisterValidators()

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	if opts.Tracing {
		engine.Use(otelgin.Middleware(opts.ServiceName))
	}
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Metrics(opts.Ledger))

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = opts.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORS(cors))

	if opts.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))
	}
	if opts.HTTP.RequestTimeout > 0 {
		engine.Use(middleware.Timeout(opts.HTTP.RequestTimeout))
	}

	engine.GET("/health", h.System.Health)
	if opts.Metrics.Enabled && opts.Gatherer != nil {
		path := opts.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	// Replays need the principal, so idempotency runs after authentication.
	var replay gin.HandlerFunc
	if opts.Idempotency != nil {
		replay = middleware.Idempotency(opts.Idempotency, opts.IdempotencyTTL, log)
	}

	r := NewRouter(engine, WithAPIVersion("v1"), WithGroupMiddleware(middleware.JWTAuth(opts.Tokens, log)))

	fees := NewDomainGroup("billing", "/fees").WithReplay(replay)
	fees.POST("", h.Fees.Create)
	fees.GET("", h.Fees.List)
	fees.GET("/:id", h.Fees.Get)
	fees.POSTOnce("/:id/transfer", h.Fees.SubmitTransfer)
	fees.GET("/:id/proof", h.Fees.ProofURL)
	fees.POST("/:id/verify", h.Fees.Verify)
	fees.POSTOnce("/:id/settle", h.Fees.Settle)
	fees.GET("/:id/receipt.pdf", h.Reports.Receipt)

	bank := NewDomainGroup("wastebank", "/waste-bank")
	bank.POST("/deposits", h.WasteBank.RecordDeposit)
	bank.GET("/deposits", h.WasteBank.ListEntries)
	bank.PUT("/deposits/:id", h.WasteBank.EditDeposit)
	bank.DELETE("/deposits/:id", h.WasteBank.DeleteDeposit)
	bank.GET("/residents/:id/balance", h.WasteBank.Balance)
	bank.GET("/residents/:id/reconcile", h.WasteBank.Reconcile)

	reports := NewDomainGroup("report", "/reports")
	reports.GET("/fees/recap", h.Reports.Recap)
	reports.GET("/fees/recap.xlsx", h.Reports.RecapXLSX)

	inbox := NewDomainGroup("notification", "/notifications")
	inbox.GET("", h.Notifications.List)
	inbox.POST("/:id/read", h.Notifications.MarkRead)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)

	r.Register(fees).
		Register(bank).
		Register(reports).
		Register(inbox).
		Register(system)
	r.Setup()

	for _, rt := range r.Routes() {
		log.Debug("Route mounted",
			zap.String("group", rt.Group),
			zap.String("method", rt.Method),
			zap.String("path", rt.Path),
			zap.Bool("replayable", rt.Replayable))
	}
	return engine, nil
}
