package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"rental-engine/internal/domain/user"
	"rental-engine/internal/handler/api"
	"rental-engine/internal/handler/middleware"
	"rental-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Vehicles *api.VehicleHandler
	Bookings *api.BookingHandler
	Licenses *api.LicenseHandler
	Sessions *api.SessionHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, auth *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	renterOnly := auth.RequireRole(user.RoleRenter)

	apiGroup := engine.Group("/api")
	{
		vehicles := apiGroup.Group("/vehicles")
		vehicles.Use(auth.OptionalAuth())
		addRoutes(vehicles, []route{
			{Method: http.MethodGet, Path: "/:id/availability", Handler: h.Vehicles.Availability},
			{Method: http.MethodPost, Path: "/:id/quote", Handler: h.Vehicles.Quote},
		})

		bookings := apiGroup.Group("/bookings")
		bookings.Use(auth.RequireAuth())
		addRoutes(bookings, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Bookings.Create, Mw: []gin.HandlerFunc{renterOnly}},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Bookings.Get},
			{Method: http.MethodPost, Path: "/:id/inspections", Handler: h.Bookings.RecordInspection, Mw: []gin.HandlerFunc{auth.RequireRole(user.RoleLessor)}},
			{Method: http.MethodPost, Path: "/:id/checkout", Handler: h.Bookings.Checkout, Mw: []gin.HandlerFunc{renterOnly}},
		})

		licenses := apiGroup.Group("/licenses")
		licenses.Use(auth.RequireAuth())
		addRoutes(licenses, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Licenses.Submit, Mw: []gin.HandlerFunc{renterOnly}},
			// verification callbacks come from an admin credential
			{Method: http.MethodPost, Path: "/:id/resolution", Handler: h.Licenses.Resolve, Mw: []gin.HandlerFunc{auth.RequireRole()}},
		})

		sessions := apiGroup.Group("/booking-sessions")
		sessions.Use(auth.RequireAuth(), renterOnly)
		addRoutes(sessions, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Sessions.Start},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Sessions.Get},
			{Method: http.MethodPatch, Path: "/:id", Handler: h.Sessions.Update},
			{Method: http.MethodPost, Path: "/:id/next", Handler: h.Sessions.Next},
			{Method: http.MethodPost, Path: "/:id/prev", Handler: h.Sessions.Prev},
			{Method: http.MethodPost, Path: "/:id/refresh", Handler: h.Sessions.Refresh},
			{Method: http.MethodPost, Path: "/:id/pay", Handler: h.Sessions.Pay},
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

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
