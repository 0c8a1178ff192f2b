package web

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"pharmacatalog_api/internal/auth"
	"pharmacatalog_api/internal/catalog/app/web/handlers"
	"pharmacatalog_api/metrics"
	"pharmacatalog_api/pkg/logger"
	"pharmacatalog_api/pkg/middleware"
)

type Handlers struct {
	Products *handlers.ProductHandler
	Import   *handlers.ImportHandler
	Export   *handlers.ExportHandler
	System   *handlers.SystemHandler
}

type RouterConfig struct {
	AllowedOrigins []string
	// JWTSecret enables bearer auth on mutating routes when non-empty.
	JWTSecret    string
	AllowedRoles []string
}

func SetupRoutes(h Handlers, cfg RouterConfig, log logger.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover(log), middleware.PrometheusMiddleware)

	r.HandleFunc("/health", h.System.Health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.MetricsHandler()).Methods(http.MethodGet)
	r.HandleFunc("/docs", h.System.Docs).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	products := api.PathPrefix("/products").Subrouter()
	products.HandleFunc("/export", h.Export.Export).Methods(http.MethodGet)
	products.HandleFunc("/ean/{ean}", h.Products.GetByEAN).Methods(http.MethodGet)
	products.HandleFunc("/registro/{registroMS}", h.Products.ListByRegistroMS).Methods(http.MethodGet)
	products.HandleFunc("/nome/{nome}", h.Products.SearchByNome).Methods(http.MethodGet)
	products.HandleFunc("/apresentacao/{apresentacao}", h.Products.SearchByApresentacao).Methods(http.MethodGet)
	products.HandleFunc("/laboratorio/{laboratorio}", h.Products.SearchByLaboratorio).Methods(http.MethodGet)
	products.HandleFunc("/status/{id_status}", h.Products.ListByStatus).Methods(http.MethodGet)
	products.HandleFunc("/paginado/{pagina}", h.Products.Paginated).Methods(http.MethodGet)

	// Writes and the import trigger share one guarded subrouter.
	guarded := api.NewRoute().Subrouter()
	if cfg.JWTSecret != "" {
		guarded.Use(auth.AuthMiddleware(cfg.JWTSecret), auth.RoleMiddleware(cfg.AllowedRoles...))
		log.Log("JWT auth enabled for write routes")
	}
	guarded.HandleFunc("/import", h.Import.Import).Methods(http.MethodGet)
	guarded.HandleFunc("/products", h.Products.Create).Methods(http.MethodPost)
	guarded.HandleFunc("/products/{id}", h.Products.Update).Methods(http.MethodPut)
	guarded.HandleFunc("/products/{id}", h.Products.Delete).Methods(http.MethodDelete)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader, "Content-Disposition"},
	})
	return c.Handler(r)
}
