// Package api wires the HTTP surface of the dashboard.
package api

import (
	"net/http"

	"wealth-dashboard/internal/api/handlers"
	"wealth-dashboard/internal/api/middleware"
	"wealth-dashboard/internal/dashboard"
	"wealth-dashboard/internal/present"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Deps are the components the router serves.
type Deps struct {
	Dashboard      *dashboard.Dashboard
	Renderer       *present.Renderer
	Cache          *present.ChartCache
	Log            logrus.FieldLogger
	AllowedOrigins []string
}

// NewRouter builds the gin engine with middleware and all /api/v1 routes.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS(d.AllowedOrigins))
	router.Use(middleware.Logger(d.Log))
	router.Use(middleware.ErrorHandler(d.Log))

	// Initialize handlers
	paramsHandler := handlers.NewParametersHandler(d.Dashboard.Params())
	simHandler := handlers.NewSimulationHandler(d.Dashboard, d.Log)
	resultsHandler := handlers.NewResultsHandler(d.Dashboard, d.Renderer, d.Cache, d.Log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.GET("/parameters", paramsHandler.GetParameters)
		api.GET("/parameters/fields", paramsHandler.ListFields)
		api.PUT("/parameters/scalar/:field", paramsHandler.SetScalar)
		api.PUT("/parameters/decile/:field/:index", paramsHandler.SetDecileValue)

		api.POST("/simulate", simHandler.RunSimulation)
		api.GET("/state", simHandler.GetState)

		api.GET("/results", resultsHandler.GetResults)
		api.GET("/charts", resultsHandler.ListCharts)
		api.GET("/charts/:id/png", resultsHandler.GetChartPNG)
		api.GET("/export/series.csv", resultsHandler.ExportSeriesCSV)
		api.GET("/export/matrices.csv", resultsHandler.ExportMatricesCSV)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
