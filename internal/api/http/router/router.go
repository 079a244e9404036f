package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/landregistry-server/internal/api/http/handler"
	"github.com/dtroode/landregistry-server/internal/api/http/middleware"
	"github.com/dtroode/landregistry-server/internal/logger"
	"github.com/dtroode/landregistry-server/internal/metrics"
	"github.com/dtroode/landregistry-server/internal/model"
	"github.com/dtroode/landregistry-server/internal/service"
)

// Router wires the HTTP API to the services.
type Router struct {
	identity       *service.Identity
	registry       *service.Registry
	coordinator    *service.Coordinator
	blobs          model.BlobStore
	contextManager model.ContextManager
	gatherer       prometheus.Gatherer
	metrics        *metrics.Metrics
	logger         *logger.Logger
	requestTimeout time.Duration
}

// New creates new HTTP Router instance. A nil gatherer disables /metrics.
func New(
	identity *service.Identity,
	registry *service.Registry,
	coordinator *service.Coordinator,
	blobs model.BlobStore,
	contextManager model.ContextManager,
	gatherer prometheus.Gatherer,
	metrics *metrics.Metrics,
	logger *logger.Logger,
	requestTimeout time.Duration,
) *Router {
	return &Router{
		identity:       identity,
		registry:       registry,
		coordinator:    coordinator,
		blobs:          blobs,
		contextManager: contextManager,
		gatherer:       gatherer,
		metrics:        metrics,
		logger:         logger,
		requestTimeout: requestTimeout,
	}
}

// Register builds the route tree.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger, r.metrics)
	authenticate := middleware.NewAuthenticate(r.identity, r.contextManager, r.logger)

	users := handler.NewUser(r.identity, r.contextManager, r.logger)
	parcels := handler.NewParcel(r.registry, r.coordinator, r.contextManager, r.logger)
	transfers := handler.NewTransfer(r.coordinator, r.contextManager, r.logger)
	images := handler.NewImage(r.blobs, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(logging.Handle)
	mux.Use(chimw.Recoverer)

	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if r.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))
	}
	mux.Get("/images/*", images.Get)

	mux.Route("/api/v1", func(api chi.Router) {
		if r.requestTimeout > 0 {
			api.Use(chimw.Timeout(r.requestTimeout))
		}

		api.Post("/users", users.Register)
		api.Post("/sessions", users.Login)
		api.Delete("/sessions", users.Logout)

		api.Get("/parcels", parcels.List)
		api.Get("/parcels/{id}", parcels.Get)
		api.Get("/parcels/{id}/transfers", parcels.History)

		api.Group(func(private chi.Router) {
			private.Use(authenticate.Handle)

			private.Get("/me", users.Me)
			private.Put("/me/address", users.RelinkAddress)
			private.Put("/me/image", users.UpdateImage)

			private.Post("/parcels", parcels.Register)
			private.Patch("/parcels/{id}", parcels.Edit)
			private.Put("/parcels/{id}/sale", parcels.SetSaleState)
			private.Put("/parcels/{id}/image", parcels.UpdateImage)
			private.Post("/parcels/{id}/purchase", parcels.Purchase)

			private.Get("/transfers", transfers.List)
			private.Get("/transfers/{ref}", transfers.Verify)
		})
	})

	return mux
}
