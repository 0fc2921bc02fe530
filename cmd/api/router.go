package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Nicksok2413/CRM/internal/infra/http/handlers"
	"github.com/Nicksok2413/CRM/internal/infra/http/middleware"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
)

type routes struct {
	health     *handlers.HealthHandler
	leads      *handlers.LeadHandler
	validation *handlers.ValidationHandler
	customers  *handlers.CustomerHandler
	stats      *handlers.StatsHandler
	catalog    *handlers.CatalogHandler
	records    *handlers.RecordsHandler
}

func newRouter(h routes, auth *middleware.Authenticator, allowedOrigins []string, log *logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.health.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/public/leads", h.leads.CaptureLead)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Get("/campaigns/stats", h.stats.List)
		r.Get("/campaigns/{id}/stats", h.stats.Detail)

		r.Post("/services", h.catalog.CreateService)
		r.Post("/campaigns", h.catalog.CreateCampaign)
		r.Post("/contracts", h.catalog.CreateContract)

		r.Post("/leads", h.leads.Create)
		r.Get("/leads", h.leads.List)
		r.Post("/leads/check-duplicates", h.validation.Handle)
		r.Post("/leads/{id}/status/{status}", h.leads.ChangeStatus)

		r.Post("/customers", h.customers.Activate)
		r.Delete("/customers/{id}", h.customers.Deactivate)

		r.Delete("/{kind}/{id}", h.records.SoftDelete)
		r.Post("/{kind}/{id}/restore", h.records.Restore)
		r.Delete("/{kind}/{id}/purge", h.records.Purge)
	})

	return r
}
