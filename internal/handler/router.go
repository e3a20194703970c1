package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"salon-booking/internal/domain/user"
	"salon-booking/internal/handler/api"
	reqdto "salon-booking/internal/handler/dto/request"
	"salon-booking/internal/handler/middleware"
	"salon-booking/internal/infra/metrics"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/usecase/shared"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth         *api.AuthHandler
	Appointment  *api.AppointmentHandler
	Availability *api.AvailabilityHandler
	Payment      *api.PaymentHandler
}

type Middlewares struct {
	Auth      *middleware.AuthMiddleware
	RateLimit *middleware.RateLimiter
	Logger    *middleware.Logger
	Metrics   *metrics.Metrics
	Registry  *prometheus.Registry
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, m Middlewares) {
	reqdto.RegisterValidators()
	setupMiddleware(engine, cfg, m)
	setupRoutes(engine, cfg, h, m)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, m Middlewares) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(m.Logger.LoggingMiddleware())
	if cfg.Metrics.Enabled {
		engine.Use(middleware.Metrics(m.Metrics))
	}
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, cfg config.Config, h Handlers, m Middlewares) {
	engine.GET("/health", healthCheck)

	if cfg.Metrics.Enabled && m.Registry != nil {
		engine.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authMw := m.Auth
	rl := m.RateLimit

	v1 := engine.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(rl.ByIP(shared.BucketAuth))
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/signup", Handler: h.Auth.Signup},
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: h.Auth.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMw.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		appointments := v1.Group("/appointments")
		{
			addRoutes(appointments, []route{
				{
					Method:  http.MethodPost,
					Path:    "",
					Handler: h.Appointment.Create,
					Mw:      []gin.HandlerFunc{rl.ByIP(shared.BucketBooking), authMw.OptionalAuth()},
				},
			})

			authRequired := appointments.Group("")
			authRequired.Use(authMw.RequireAuth(), rl.ByUser(shared.BucketAPI))
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Appointment.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Appointment.Get},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Appointment.Cancel},
			})
		}

		addRoutes(v1, []route{
			{
				Method:  http.MethodGet,
				Path:    "/availability",
				Handler: h.Availability.Get,
				Mw:      []gin.HandlerFunc{rl.ByIP(shared.BucketPublic)},
			},
			{
				Method:  http.MethodPost,
				Path:    "/payments",
				Handler: h.Payment.Record,
				Mw: []gin.HandlerFunc{
					authMw.RequireAuth(),
					authMw.RequireRole(user.RoleAdmin, user.RoleStaff),
					rl.ByUser(shared.BucketAPI),
				},
			},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

// addRoutes registers each route with its own middleware ahead of the handler.
func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		handlers := make([]gin.HandlerFunc, 0, len(r.Mw)+1)
		handlers = append(handlers, r.Mw...)
		handlers = append(handlers, r.Handler)
		g.Handle(r.Method, r.Path, handlers...)
	}
}
