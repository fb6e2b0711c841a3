package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"go-job-trend-analyzer/internal/config"
	"go-job-trend-analyzer/internal/dashboard"
	"go-job-trend-analyzer/internal/logger"
	"go-job-trend-analyzer/internal/pipeline"
	"go-job-trend-analyzer/internal/scraper"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Service is what the dashboard needs from the pipeline.
type Service interface {
	Scrape(ctx context.Context, q scraper.Query) (pipeline.ScrapeResult, error)
	Refresh() (pipeline.Result, dashboard.Snapshot)
	Clear() (pipeline.Result, error)
	Snapshot() dashboard.Snapshot
	Busy() bool
}

// NewRouter wires the HTML dashboard, the form actions and the JSON API.
func NewRouter(svc Service, defaults config.SearchConfig, log logger.Logger) (*gin.Engine, error) {
	h := NewHandler(svc, defaults, log)

	tmpl, err := template.New("").Funcs(h.funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(tmpl)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "scraping": svc.Busy()})
	})

	// HTML dashboard
	router.GET("/", h.Index)
	router.POST("/scrape", h.ScrapeForm)
	router.POST("/refresh", h.RefreshForm)
	router.POST("/clear", h.ClearForm)

	// JSON API
	api := router.Group("/api")
	api.GET("/insights", h.Insights)
	api.GET("/listings", h.Listings)
	api.GET("/skills", h.Skills)
	api.GET("/export.xlsx", h.Export)
	api.POST("/scrape", h.Scrape)
	api.POST("/refresh", h.Refresh)
	api.DELETE("/data", h.Clear)

	return router, nil
}

func ginLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status_code", c.Writer.Status()),
			logger.String("client_ip", c.ClientIP()),
			logger.Duration("duration", time.Since(start)),
		)
	}
}
