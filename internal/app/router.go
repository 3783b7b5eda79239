package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cazuela-chapina/cazuela/internal/analytics"
	"github.com/cazuela-chapina/cazuela/internal/auth"
	"github.com/cazuela-chapina/cazuela/internal/cart"
	"github.com/cazuela-chapina/cazuela/internal/catalog"
	"github.com/cazuela-chapina/cazuela/internal/importer"
	"github.com/cazuela-chapina/cazuela/internal/recommend"
	"github.com/cazuela-chapina/cazuela/internal/sales"
	"github.com/cazuela-chapina/cazuela/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager

	AuthHandler      *auth.Handler
	CatalogHandler   *catalog.Handler
	CartHandler      *cart.Handler
	CheckoutHandler  *sales.Handler
	AnalyticsHandler *analytics.Handler
	ImportHandler    *importer.Handler
	RecommendHandler *recommend.Handler
}

// NewRouter constructs the chi.Router for the storefront API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		params.CatalogHandler.MountRoutes(r)
		r.Route("/cart", params.CartHandler.MountRoutes)
		r.Route("/checkout", params.CheckoutHandler.MountRoutes)
		if params.RecommendHandler != nil {
			r.Route("/llm", params.RecommendHandler.MountRoutes)
		}

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Route("/analytics", params.AnalyticsHandler.MountRoutes)
			if params.ImportHandler != nil {
				r.Route("/products/import", params.ImportHandler.MountRoutes)
			}
		})
	})

	return r
}
