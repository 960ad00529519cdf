package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"wealth-dashboard/internal/api"
	"wealth-dashboard/internal/config"
	"wealth-dashboard/internal/dashboard"
	"wealth-dashboard/internal/data"
	"wealth-dashboard/internal/derive"
	"wealth-dashboard/internal/logging"
	"wealth-dashboard/internal/params"
	"wealth-dashboard/internal/present"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (defaults when empty)")
	addr := flag.String("addr", "", "Listen address (overrides server.addr)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logging.New("info", "json").WithError(err).Fatal("failed to load config")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(cfg.Server.Mode)

	catalog, err := present.DefaultCatalog()
	if err != nil {
		log.WithError(err).Fatal("invalid chart catalog")
	}
	cache := present.NewChartCache(cfg.Charts.CacheTTL)
	defer cache.Close()

	dash := dashboard.New(
		params.New(cfg.Simulation),
		data.NewSimulationClient(cfg.Service.BaseURL, cfg.Service.Timeout, log),
		derive.New(derive.Options{Labels: cfg.LabelPolicy()}),
		present.NewAdapter(catalog),
		log,
	)

	router := api.NewRouter(api.Deps{
		Dashboard:      dash,
		Renderer:       present.NewRenderer(cfg.Charts.Width, cfg.Charts.Height, log),
		Cache:          cache,
		Log:            log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	// Serve a built front end from STATIC_DIR (if it exists)
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}
	if _, err := os.Stat(staticDir); err == nil {
		router.Static("/assets", staticDir+"/assets")
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
				return
			}
			c.File(staticDir + "/index.html")
		})
		log.WithField("dir", staticDir).Info("serving static files")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithFields(logrus.Fields{
			"addr":        cfg.Server.Addr,
			"service_url": cfg.Service.BaseURL,
		}).Info("starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
