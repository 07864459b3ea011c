package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gstrate/internal/auth"
	"gstrate/internal/handler"
	"gstrate/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	tokens auth.TokenService,
	gstH *handler.GSTHandler,
	healthH *handler.HealthHandler,
	gatherer prometheus.Gatherer,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger("/healthz", "/readyz", "/metrics"))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks and metrics
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")

	// Public GST routes
	gst := v1.Group("/gst")
	gst.GET("/rates/:code", gstH.GetRate)
	gst.POST("/breakdown", gstH.Breakdown)
	gst.POST("/breakdown/csv", gstH.ExportBreakdownCSV)
	gst.POST("/price", gstH.Price)
	gst.GET("/categories/validation", gstH.ValidateCategories)

	// Admin routes - rate cache management
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokens))
	admin.Use(middleware.RequireRole(auth.RoleAdmin))
	admin.GET("/gst/cache", gstH.CacheStats)
	admin.DELETE("/gst/cache", gstH.ClearCache)

	return r
}
