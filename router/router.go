package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/yeremiapane/floorplan-admin/cache"
	"github.com/yeremiapane/floorplan-admin/controllers"
	"github.com/yeremiapane/floorplan-admin/middlewares"
	"github.com/yeremiapane/floorplan-admin/services"
)

// Options tunes the optional parts of the router. The zero value disables
// rate limiting and allows any origin.
type Options struct {
	LayoutCache    *cache.LayoutCache
	CORSOrigin     string
	RateLimitRPS   float64
	RateLimitBurst int
}

func SetupRouter(db *gorm.DB, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.MetricsMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.CORSOrigin))
	if opts.RateLimitRPS > 0 {
		r.Use(middlewares.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).RateLimit())
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws/floor", controllers.FloorEventsHandler)

	layoutService := services.NewLayoutService(db, opts.LayoutCache)
	zoneCtrl := controllers.NewZoneController(layoutService)
	tableCtrl := controllers.NewTableController(layoutService)

	zones := r.Group("/zones")
	{
		zones.GET("", zoneCtrl.GetAllZones)
		zones.POST("", zoneCtrl.CreateZone)
		zones.GET("/:zone_id/layout", zoneCtrl.GetZoneLayout)
	}

	tables := r.Group("/tables")
	{
		tables.GET("", tableCtrl.GetAllTables)
		tables.POST("", tableCtrl.CreateTable)
		tables.PUT("/positions", tableCtrl.BatchUpdatePositions)
		tables.GET("/:table_id", tableCtrl.GetTableByID)
		tables.PATCH("/:table_id", tableCtrl.UpdateTable)
		tables.DELETE("/:table_id", tableCtrl.DeleteTable)
	}

	return r
}
