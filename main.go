package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageaudit/backend/audit"
	"github.com/pageaudit/backend/config"
	"github.com/pageaudit/backend/logging"
	"github.com/pageaudit/backend/middleware"
	"github.com/pageaudit/backend/probe"
	"github.com/pageaudit/backend/render"
	"github.com/pageaudit/backend/report"
	"github.com/pageaudit/backend/stats"
)

type server struct {
	cfg      *config.Config
	logger   *zap.Logger
	engine   *audit.Engine
	renderer *render.Renderer
	prober   *probe.Prober
	usage    *stats.Storage
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	mode := cfg.GinMode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	usage, err := stats.NewStorage(cfg.DataDir, logger)
	if err != nil {
		logger.Fatal("failed to initialize stats storage", zap.Error(err))
	}
	usage.Cleanup()

	renderer, err := render.New(cfg.RenderTimeout, logger)
	if err != nil {
		logger.Fatal("failed to launch renderer", zap.Error(err))
	}
	defer renderer.Close()

	srv := &server{
		cfg:      cfg,
		logger:   logger,
		engine:   audit.New(logger),
		renderer: renderer,
		prober:   probe.New(cfg.ProbeTimeout, logger),
		usage:    usage,
	}

	rateLimiter := middleware.NewRateLimiter(2, 5) // 2 requests per second, bucket size of 5

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorHandler(logger))
	r.Use(rateLimiter.RateLimit())
	r.Use(corsMiddleware())

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.POST("/audit", srv.auditURL)
		api.POST("/audit/html", srv.auditHTML)
		api.POST("/report", srv.renderReport)

		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"current": usage.GetCurrentStats(),
				"months":  usage.GetAllMonths(),
			})
		})

		api.GET("/statistics/:month", func(c *gin.Context) {
			monthly, ok := usage.GetMonthlyStats(c.Param("month"))
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "No statistics for that month"})
				return
			}
			c.JSON(http.StatusOK, monthly)
		})
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown failed", zap.Error(err))
	}
	if err := usage.Shutdown(); err != nil {
		logger.Warn("stats flush failed", zap.Error(err))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control, X-Requested-With")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// auditURL renders the page, probes its origin and runs the full audit.
func (s *server) auditURL(c *gin.Context) {
	var request struct {
		URL        string `json:"url" binding:"required"`
		Screenshot bool   `json:"screenshot"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	start := time.Now()
	page, err := s.renderer.Render(c.Request.Context(), request.URL, request.Screenshot)
	s.usage.RecordRender(err != nil)
	if err != nil {
		s.usage.RecordAudit(true)
		status, class := renderFailureStatus(err)
		c.JSON(status, gin.H{
			"error": "Failed to render URL: " + class,
			"class": class,
		})
		return
	}

	technical := s.prober.TechnicalFlags(c.Request.Context(), page.FinalURL, page.HTML, s.cfg.AnalyticsSignatures)

	result, err := s.engine.Run(audit.AuditInput{
		URL:          page.FinalURL,
		RenderedHTML: page.HTML,
		Technical:    technical,
	})
	s.usage.RecordAudit(err != nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to audit URL: " + err.Error()})
		return
	}

	s.logger.Info("audit request served",
		zap.String("url", page.FinalURL),
		zap.Duration("elapsed", time.Since(start)),
	)

	response := gin.H{"result": result}
	if len(page.Screenshot) > 0 {
		response["screenshot"] = base64.StdEncoding.EncodeToString(page.Screenshot)
	}
	c.JSON(http.StatusOK, response)
}

// auditHTML runs the engine over caller-supplied rendered HTML and flags,
// skipping the render and probe collaborators entirely.
func (s *server) auditHTML(c *gin.Context) {
	var request struct {
		URL       string               `json:"url" binding:"required"`
		HTML      string               `json:"html" binding:"required"`
		Technical audit.TechnicalFlags `json:"technical"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := s.engine.Run(audit.AuditInput{
		URL:          request.URL,
		RenderedHTML: request.HTML,
		Technical:    request.Technical,
	})
	s.usage.RecordAudit(err != nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to audit HTML: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// renderReport formats a completed audit result as a printable document.
func (s *server) renderReport(c *gin.Context) {
	var request struct {
		Result     *audit.AuditResult `json:"result" binding:"required"`
		Screenshot string             `json:"screenshot"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var screenshot []byte
	if request.Screenshot != "" {
		decoded, err := base64.StdEncoding.DecodeString(request.Screenshot)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid screenshot encoding"})
			return
		}
		screenshot = decoded
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, request.Result, screenshot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// renderFailureStatus maps a render failure class onto an HTTP status.
func renderFailureStatus(err error) (int, string) {
	var rerr *render.Error
	if !errors.As(err, &rerr) {
		return http.StatusBadGateway, render.ClassServerError
	}
	switch rerr.Class {
	case render.ClassTimedOut:
		return http.StatusGatewayTimeout, rerr.Class
	case render.ClassNotFound:
		return http.StatusBadGateway, rerr.Class
	case render.ClassForbidden:
		return http.StatusBadGateway, rerr.Class
	default:
		return http.StatusBadGateway, rerr.Class
	}
}
