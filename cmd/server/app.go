package main

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/shop-invoices/auth"
	"github.com/diewo77/shop-invoices/httpx"
	"github.com/diewo77/shop-invoices/internal/config"
	"github.com/diewo77/shop-invoices/internal/db"
	"github.com/diewo77/shop-invoices/internal/handlers"
	"github.com/diewo77/shop-invoices/internal/logger"
	"github.com/diewo77/shop-invoices/internal/mailer"
	"github.com/diewo77/shop-invoices/internal/metrics"
	"github.com/diewo77/shop-invoices/internal/middleware"
	"github.com/diewo77/shop-invoices/internal/pdf"
	"github.com/diewo77/shop-invoices/internal/services"
	"github.com/diewo77/shop-invoices/internal/shopify"
	"github.com/diewo77/shop-invoices/internal/store"
)

// Deps are the process-wide collaborators of the App. Orders and Mailer are
// built from Config when nil.
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics
	Shopify *shopify.Client
	Orders  shopify.OrderSource
	Mailer  mailer.Sender
}

// App is the main application handler that sets up all routes.
type App struct {
	mux      *http.ServeMux
	handler  http.Handler
	db       *gorm.DB
	log      *zap.Logger
	metrics  *metrics.Metrics
	verifier *auth.Verifier

	dashboard *handlers.DashboardHandler
	settings  *handlers.SettingsHandler
	banner    *handlers.BannerHandler
	orders    *handlers.OrderHandler
	send      *handlers.SendInvoiceHandler
	auth      *handlers.AuthHandler
}

// NewApp wires stores, services and handlers and configures all routes.
func NewApp(d Deps) *App {
	cfg := d.Config
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	if d.Shopify == nil {
		d.Shopify = shopify.NewClient(cfg.Shopify.APIVersion, cfg.Shopify.Timeout())
	}

	settingsStore := store.NewSettingsStore(d.DB)
	bannerStore := store.NewBannerStore(d.DB)
	sessionStore := store.NewSessionStore(d.DB)

	if d.Orders == nil {
		d.Orders = newOrderSource(cfg, d.Shopify, sessionStore, d.Log)
	}
	if d.Mailer == nil {
		d.Mailer = mailer.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port)
	}
	invoices := services.NewInvoiceService(settingsStore, d.Orders, pdf.NewRenderer(), d.Mailer, d.Metrics)

	app := &App{
		mux:     http.NewServeMux(),
		db:      d.DB,
		log:     d.Log,
		metrics: d.Metrics,
		verifier: &auth.Verifier{
			APIKey:  cfg.Shopify.APIKey,
			Secret:  cfg.Shopify.APISecret,
			Dev:     cfg.App.Dev,
			DevShop: cfg.App.DevShop,
			Leeway:  5 * time.Second,
		},
		dashboard: handlers.NewDashboardHandler(settingsStore),
		settings:  handlers.NewSettingsHandler(settingsStore),
		banner:    handlers.NewBannerHandler(bannerStore),
		orders:    handlers.NewOrderHandler(d.Orders, invoices),
		send:      handlers.NewSendInvoiceHandler(invoices),
		auth:      handlers.NewAuthHandler(sessionStore, d.Shopify, cfg.Shopify.APIKey, cfg.Shopify.APISecret),
	}
	app.setupRoutes()
	// Global middleware: recover, request logging, shop identity, interface language.
	app.handler = app.withLogging(withRecover(app.verifier.Middleware(middleware.Prefs(settingsStore)(app.mux))))
	return app
}

// newOrderSource picks demo orders, a single static Admin API token, or the
// per-shop tokens saved at install.
func newOrderSource(cfg *config.Config, client *shopify.Client, sessions *store.SessionStore, log *zap.Logger) shopify.OrderSource {
	switch {
	case cfg.App.DemoOrders:
		log.Info("serving demo orders")
		return shopify.DemoOrders{}
	case cfg.Shopify.AccessToken != "":
		return shopify.NewAdminOrders(client, shopify.StaticToken(cfg.Shopify.AccessToken))
	default:
		return shopify.NewAdminOrders(client, sessions)
	}
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes (no shop required)
	// ─────────────────────────────────────────────────────────────────────────
	a.handle("GET /healthz", http.HandlerFunc(a.healthz))
	a.mux.Handle("GET /metrics", a.metrics.Handler())
	a.handle("GET /auth/callback", http.HandlerFunc(a.auth.Callback))
	a.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		target := "/app"
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	})

	// ─────────────────────────────────────────────────────────────────────────
	// Admin screens (embedded in the Shopify admin)
	// ─────────────────────────────────────────────────────────────────────────
	a.handle("GET /app", a.requireShop(a.dashboard.Show))
	a.handle("GET /app/settings", a.requireShop(a.settings.Edit))
	a.handle("GET /app/banner", a.requireShop(a.banner.Edit))
	a.handle("GET /app/orders", a.requireShop(a.orders.List))
	a.handle("GET /app/orders/{id}", a.requireShop(a.orders.Show))
	a.handle("GET /app/orders/{id}/invoice", a.requireShop(a.orders.Invoice))

	// ─────────────────────────────────────────────────────────────────────────
	// JSON API
	// ─────────────────────────────────────────────────────────────────────────
	a.handle("GET /api/banner-config", a.requireShop(a.banner.Get))
	a.handle("POST /api/banner-config", a.requireShop(a.banner.Save))
	a.handle("GET /api/settings", a.requireShop(a.settings.Get))
	a.handle("POST /api/settings", a.requireShop(a.settings.Save))
	a.handle("GET /api/order-invoice/{id}", a.requireShop(a.orders.Invoice))
	a.handle("POST /api/send-invoice", a.requireShop(a.send.Send))
}

// handle registers h and records its metrics under the route pattern.
func (a *App) handle(pattern string, h http.Handler) {
	a.mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec, ok := w.(*statusRecorder)
		if !ok {
			rec = &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		}
		h.ServeHTTP(rec, r)
		a.metrics.ObserveRequest(pattern, rec.status, time.Since(start))
	}))
}

func (a *App) requireShop(h http.HandlerFunc) http.Handler {
	return auth.RequireShop(h)
}

func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	if err := db.Ping(a.db); err != nil {
		logger.FromContext(r.Context()).Error("health check", zap.Error(err))
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// withLogging attaches a request-scoped logger with a request id and logs
// every request once it is served.
func (a *App) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		log := a.log.With(zap.String("request_id", reqID))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r.WithContext(logger.WithContext(r.Context(), log)))

		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// withRecover turns a panic into a 500 JSON answer.
func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.FromContext(r.Context()).Error("panic serving request", zap.Any("panic", v), zap.String("path", r.URL.Path), zap.Any("headers", logger.MaskHeaders(r.Header)), zap.Stack("stack"))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
