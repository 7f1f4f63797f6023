package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/projectcostai/projectcostai/internal/api/handlers"
	"github.com/projectcostai/projectcostai/internal/api/middleware"
	"github.com/projectcostai/projectcostai/internal/config"
	"github.com/projectcostai/projectcostai/internal/pkg/logger"
	"github.com/projectcostai/projectcostai/internal/pkg/metrics"
	"github.com/projectcostai/projectcostai/internal/ratelimit"
)

type Handlers struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	OAuth      *handlers.OAuthHandler
	Prediction *handlers.PredictionHandler
	History    *handlers.HistoryHandler
	Report     *handlers.ReportHandler
	Admin      *handlers.AdminHandler
	Settings   *handlers.SettingsHandler
	User       *handlers.UserHandler
	Upload     *handlers.UploadHandler
}

// Guards are the request gates shared by the routes
type Guards struct {
	Tokens middleware.Authenticator
	// Roles, when set, reloads the caller's role on every authenticated
	// request instead of trusting the token claim
	Roles middleware.RoleSource
	// Window limits the estimation endpoints per client address
	Window ratelimit.Store
	// Flood is the coarse per-address token bucket on the whole router.
	// Nil disables it.
	Flood *middleware.FloodGuard
	// UploadDir is served under /uploads when non-empty
	UploadDir string
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers, g Guards) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	// forwarding headers are client controlled unless a proxy in front
	// of the API overwrites them
	if cfg.Server.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.FrontendCORS(cfg.Server.FrontendURL))
	if g.Flood != nil {
		r.Use(g.Flood.Handler)
	}

	requireAuth := middleware.RequireAuth(g.Tokens)
	if g.Roles != nil {
		fromToken, refresh := requireAuth, middleware.RefreshRole(g.Roles)
		requireAuth = func(next http.Handler) http.Handler {
			return fromToken(refresh(next))
		}
	}
	windowLimit := middleware.WindowLimit(g.Window, log)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/", h.Health.Landing)
		r.Get("/swagger/*", httpSwagger.WrapHandler)
		r.Handle("/metrics", metrics.Handler())

		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)

		r.Post("/auth/signup", h.Auth.Signup)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/logout", h.Auth.Logout)

		if h.OAuth != nil {
			r.Get("/auth/oauth/{provider}", h.OAuth.Start)
			r.Get("/auth/oauth/{provider}/callback", h.OAuth.Callback)
		}

		if g.UploadDir != "" {
			r.Handle("/uploads/*", http.StripPrefix("/uploads/", handlers.ServeUploads(g.UploadDir)))
		}
	})

	// Estimation endpoints: rate limited before authentication
	r.Group(func(r chi.Router) {
		r.Use(windowLimit)
		r.Use(requireAuth)

		r.Post("/predict", h.Prediction.Predict)
		r.Post("/predict/full-analysis", h.Prediction.FullAnalysis)
		r.Post("/predict/risk-analysis", h.Prediction.Risk)
		r.Post("/predict/cost-breakdown", h.Prediction.Cost)
		r.Post("/predict/timeline-breakdown", h.Prediction.Timeline)
		r.Post("/predict/recommendations", h.Prediction.Recommendations)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/auth/me", h.Auth.Me)

		// flat paths: a /predict subrouter would shadow POST /predict
		r.Get("/predict/history", h.History.List)
		r.Get("/predict/history/{userId}", h.History.ListForUser)
		r.Delete("/predict/history/{id}", h.History.Delete)
		r.Get("/predict/compare", h.History.Compare)
		r.Get("/predict/report/pdf/{id}", h.Report.PDF)
		r.Get("/predict/report/csv/{id}", h.Report.CSV)

		r.Get("/users/{id}", h.User.Get)
		r.Put("/users/{id}", h.User.Update)

		r.Get("/settings", h.Settings.Get)
		r.With(middleware.RequireAdmin).Put("/settings", h.Settings.Update)

		r.Post("/upload", h.Upload.Upload)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/users", h.Admin.Users)
			r.Get("/predictions", h.Admin.Predictions)
		})
	})

	return r
}
