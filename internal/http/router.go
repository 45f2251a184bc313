// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tallerix/taller-backend/internal/config"
	"github.com/tallerix/taller-backend/internal/http/handlers"
	"github.com/tallerix/taller-backend/internal/http/middleware"
	"github.com/tallerix/taller-backend/internal/repo"
	"github.com/tallerix/taller-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the public API under the configured base path (default /api).
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter + gzip
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per IP, bypass on replay)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB) + compressed responses
	r.Use(limitBody(1 << 20))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation on the two money/visit-writing POSTs
	//    (before rate limiting, so replays are waved through)
	r.Use(idempotencyByRoute(db, cfg.APIBasePath))

	// 8) Token-bucket rate limiter per IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health (pings the SQLite handle)
	r.GET("/health", func(c *gin.Context) {
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger UI (off by default)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db
	catalogSvc := services.NewCatalogService(db)
	clientSvc := services.NewClientService(db)
	vehicleSvc := services.NewVehicleService(db, catalogSvc)
	typeSvc := services.NewServiceTypeService(db)
	caseSvc := services.NewCaseService(db)
	intakeSvc := services.NewIntakeService(db, catalogSvc)
	staffSvc := services.NewStaffService(db)
	h := handlers.New(clientSvc, vehicleSvc, catalogSvc, typeSvc, caseSvc, intakeSvc, staffSvc)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Clientes
		api.GET("/clientes", h.ListClients)
		api.GET("/clientes/search", h.SearchClients)
		api.GET("/clientes/:id", h.GetClient)
		api.POST("/clientes", h.CreateClient)
		api.PUT("/clientes/:id", h.UpdateClient)

		// Vehiculos + catalogo
		api.GET("/vehiculos", h.ListVehicles)
		api.GET("/vehiculos/cliente/:clienteId", h.ListClientVehicles)
		api.GET("/vehiculos/marcas", h.ListBrands)
		api.GET("/vehiculos/modelos", h.ListModels)
		api.GET("/vehiculos/:id", h.GetVehicle)
		api.POST("/vehiculos", h.CreateVehicle)
		api.PUT("/vehiculos/:id", h.UpdateVehicle)

		// Tipos de servicio
		api.GET("/servicios", h.ListServiceTypes)
		api.GET("/servicios/search", h.SearchServiceTypes)
		api.GET("/servicios/populares", h.PopularServiceTypes)
		api.GET("/servicios/:id", h.GetServiceType)
		api.POST("/servicios", h.CreateServiceType)
		api.PUT("/servicios/:id", h.UpdateServiceType)
		api.DELETE("/servicios/:id", h.DeleteServiceType)

		// Ingresos
		api.GET("/ingresos", h.ListCases)
		api.GET("/ingresos/estadisticas", h.CaseStats)
		api.GET("/ingresos/:id", h.GetCase)
		api.POST("/ingresos", h.CreateCase)
		api.PUT("/ingresos/:id", h.UpdateCase)

		// Diagnostico (intake workflow)
		api.POST("/diagnostico/verificar-cliente", h.VerifyClient)
		api.POST("/diagnostico/registrar-cliente", h.RegisterClient)
		api.POST("/diagnostico/crear-factura", h.CreateDiagnosticBill)

		// Personal
		api.GET("/mecanicos", h.ListMechanics)
		api.GET("/auth/current-user", h.CurrentUser)
		api.GET("/auth/users", h.ListUsers)
		api.GET("/auth/mechanics", h.ListMechanics)
	}
}

// idempotencyByRoute applies the scope-specific Idempotency-Key validation to
// the two POST endpoints that persist idempotency records. Gin middleware runs
// after route matching, so c.FullPath() identifies the endpoint.
func idempotencyByRoute(db *gorm.DB, base string) gin.HandlerFunc {
	lookup := func(scope string) middleware.IdempotencyLookup {
		return func(ctx context.Context, userID, _, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		}
	}
	if base == "/" {
		base = ""
	}
	casesMW := middleware.IdempotencyValidator(handlers.IdemScopeCases, middleware.IdempotencyOptions{}, lookup(handlers.IdemScopeCases))
	billMW := middleware.IdempotencyValidator(handlers.IdemScopeDiagnosticBill, middleware.IdempotencyOptions{}, lookup(handlers.IdemScopeDiagnosticBill))

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost {
			switch c.FullPath() {
			case base + "/ingresos":
				casesMW(c)
				return
			case base + "/diagnostico/crear-factura":
				billMW(c)
				return
			}
		}
		c.Next()
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
