package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mateflow/mateflow/internal/assistant"
	"github.com/mateflow/mateflow/internal/auth"
	"github.com/mateflow/mateflow/internal/billing"
	"github.com/mateflow/mateflow/internal/customers"
	"github.com/mateflow/mateflow/internal/dashboard"
	"github.com/mateflow/mateflow/internal/expenses"
	"github.com/mateflow/mateflow/internal/importer"
	"github.com/mateflow/mateflow/internal/products"
	"github.com/mateflow/mateflow/internal/profile"
	"github.com/mateflow/mateflow/internal/shared"
	"github.com/mateflow/mateflow/internal/tax"
)

// RouterParams aggregates everything the router mounts.
type RouterParams struct {
	Middleware []func(http.Handler) http.Handler

	Auth      *auth.Handler
	Billing   *billing.Handler
	Customers *customers.Handler
	Products  *products.Handler
	Expenses  *expenses.Handler
	Tax       *tax.Handler
	Dashboard *dashboard.Handler
	Assistant *assistant.Handler
	Importer  *importer.Handler
	Profile   *profile.Handler
}

// NewRouter assembles the HTTP surface under /api/v1. Everything except auth
// and the health probe sits behind the session check.
func NewRouter(params RouterParams) chi.Router {
	r := chi.NewRouter()
	r.Use(params.Middleware...)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		shared.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", params.Auth.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)
			r.Route("/bills", params.Billing.MountRoutes)
			r.Route("/customers", params.Customers.MountRoutes)
			r.Route("/products", params.Products.MountRoutes)
			r.Route("/expenses", params.Expenses.MountRoutes)
			r.Route("/tax", params.Tax.MountRoutes)
			r.Route("/dashboard", params.Dashboard.MountRoutes)
			r.Route("/assistant", params.Assistant.MountRoutes)
			r.Route("/import", params.Importer.MountRoutes)
			r.Route("/profile", params.Profile.MountRoutes)
		})
	})

	return r
}
