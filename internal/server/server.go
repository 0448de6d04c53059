package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/AdventureAdmin_Go/internal/aggregate"
	"github.com/osse101/AdventureAdmin_Go/internal/assets"
	"github.com/osse101/AdventureAdmin_Go/internal/auth"
	"github.com/osse101/AdventureAdmin_Go/internal/database"
	"github.com/osse101/AdventureAdmin_Go/internal/handler"
	"github.com/osse101/AdventureAdmin_Go/internal/identity"
	"github.com/osse101/AdventureAdmin_Go/internal/logger"
	"github.com/osse101/AdventureAdmin_Go/internal/metrics"
	"github.com/osse101/AdventureAdmin_Go/internal/middleware"
	"github.com/osse101/AdventureAdmin_Go/internal/resource"
	"github.com/osse101/AdventureAdmin_Go/internal/users"
)

// Config holds the HTTP surface settings.
type Config struct {
	Port           int
	TrustedProxies []string
	AllowedOrigins []string
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	RateLimit      int
	RateWindow     time.Duration
	// RequireAuth makes a bearer token mandatory on resource writes.
	RequireAuth bool
	// LocalAssetDir, when set, is served under /uploads.
	LocalAssetDir string
}

// Dependencies are the services the routes dispatch to.
type Dependencies struct {
	Engines  *resource.Engines
	Auth     auth.Service
	Verifier identity.TokenVerifier
	Profiles users.Service
	Growth   handler.GrowthReporter
	Health   database.HealthChecker
}

type Server struct {
	httpServer *http.Server
	handler    http.Handler
}

// NewServer creates a new Server instance
func NewServer(cfg Config, deps Dependencies) *Server {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector(cfg.RateLimit, cfg.RateWindow)

	r.Use(chimw.Recoverer)
	r.Use(SecurityHeadersMiddleware())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", HeaderAuthorization, "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(RateLimitMiddleware(cfg.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(cfg.MaxBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)
	r.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.Health))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	if cfg.LocalAssetDir != "" {
		files := http.StripPrefix(assets.LocalRoute+"/", http.FileServer(http.Dir(cfg.LocalAssetDir)))
		r.Handle(assets.LocalRoute+"/*", files)
	}

	onReject := failedAuthRecorder(cfg.TrustedProxies, detector)

	r.Route("/api", func(r chi.Router) {
		// Auth routes read the token themselves so /session can answer {valid:false}
		authHandler := handler.NewAuthHandler(deps.Auth)
		r.Post("/signup", authHandler.HandleSignUp)
		r.Post("/signin", authHandler.HandleSignIn)
		r.Post("/session", authHandler.HandleSession)
		r.Post("/forgot-password", authHandler.HandleForgotPassword)
		r.Post("/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(deps.Verifier, true, onReject))
			r.Get("/user/profile", handler.HandleGetProfile(deps.Profiles))
			r.Put("/user/profile", handler.HandleUpdateProfile(deps.Profiles))
		})

		r.Get("/users/growth", handler.HandleUserGrowth(deps.Growth))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(deps.Verifier, false, onReject))

			e := deps.Engines
			mountResource(r, e.Achievements, cfg.RequireAuth)
			mountResource(r, e.Adventures, cfg.RequireAuth)
			mountResource(r, e.Categories, cfg.RequireAuth)
			mountResource(r, e.Events, cfg.RequireAuth)
			mountResource(r, e.Quests, cfg.RequireAuth)
			mountResource(r, e.StoreItems, cfg.RequireAuth)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       DefaultReadTimeout,
			WriteTimeout:      DefaultWriteTimeout,
			IdleTimeout:       DefaultIdleTimeout,
		},
		handler: r,
	}
}

// mountResource registers the CRUD routes of one resource type under /{plural}.
// The list is served both at the collection root and at /list.
func mountResource[T aggregate.Item](r chi.Router, engine *aggregate.Engine[T], requireAuth bool) {
	h := handler.NewResourceHandler[T](engine, engine.Binding())
	r.Route("/"+h.Plural(), func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/list", h.HandleList)
		r.Get("/{id}", h.HandleGet)

		r.Group(func(r chi.Router) {
			if requireAuth {
				r.Use(middleware.RequireAuth)
			}
			r.Post("/", h.HandleCreate)
			r.Patch("/{id}", h.HandleUpdate)
			r.Delete("/{id}", h.HandleDelete)
		})
	})
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isQuietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID())
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header, len(r.Header))
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAuthorization) || strings.EqualFold(k, "Cookie") {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
