package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/corray333/backend-labs/orderpay/pkg/http/middleware/trace"
	"github.com/corray333/backend-labs/orderpay/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// HTTPTransport serves the REST API of one service.
type HTTPTransport struct {
	server *http.Server
	router *chi.Mux
}

// NewHTTPTransport creates a transport for serviceName listening on server.http.port.
// docsInstance names the swagger document served under /swagger/.
func NewHTTPTransport(serviceName, docsInstance string) *HTTPTransport {
	router := NewRouter(serviceName)
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.InstanceName(docsInstance),
		httpSwagger.URL("/swagger/doc.json"),
	))
	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &HTTPTransport{
		server: newServer(router),
		router: router,
	}
}

// RegisterRoutes mounts the API routes under /api.
func (h *HTTPTransport) RegisterRoutes(register func(r chi.Router)) {
	h.router.Route("/api", register)
}

// Handler returns the root handler.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

// Run starts the HTTP server.
func (h *HTTPTransport) Run() error {
	slog.Info("Starting HTTP server", "address", h.server.Addr)

	return h.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// NewRouter creates a router with request id, tracing, logging and CORS middleware.
func NewRouter(serviceName string) *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware(serviceName))
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(middleware.Recoverer)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:              "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
