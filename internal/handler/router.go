package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"family-booking/internal/handler/api"
	"family-booking/internal/handler/middleware"
	"family-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, bookingHandler *api.BookingHandler, adminHandler *api.AdminHandler, adminAuth *middleware.AdminAuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, bookingHandler, adminHandler, adminAuth)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, bookingHandler *api.BookingHandler, adminHandler *api.AdminHandler, adminAuth *middleware.AdminAuthMiddleware) {
	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		// Uptime monitors issue HEAD, browsers issue GET.
		apiGroup.GET("/health", healthCheck)
		apiGroup.HEAD("/health", healthCheck)

		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/requests", Handler: bookingHandler.Submit},
			{Method: http.MethodGet, Path: "/bookings/approved", Handler: bookingHandler.ListApproved},
		})

		// Verify checks the secret itself so it can return a clean 401
		// instead of being swallowed by the group middleware.
		apiGroup.GET("/admin/verify", adminHandler.Verify)

		adminRequired := apiGroup.Group("")
		adminRequired.Use(adminAuth.RequireAdmin())
		addRoutes(adminRequired, []route{
			{Method: http.MethodGet, Path: "/requests", Handler: adminHandler.List},
			{Method: http.MethodPost, Path: "/requests/:id/approve", Handler: adminHandler.Approve},
			{Method: http.MethodPost, Path: "/requests/:id/reject", Handler: adminHandler.Reject},
			{Method: http.MethodPost, Path: "/requests/:id/cancel", Handler: adminHandler.Cancel},
			{Method: http.MethodPost, Path: "/admin/cleanup", Handler: adminHandler.Cleanup},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/health [get]
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
