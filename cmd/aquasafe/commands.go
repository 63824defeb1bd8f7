package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-water-safety/internal/api"
	"github.com/mr1hm/go-water-safety/internal/broadcast"
	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/ingestion"
	"github.com/mr1hm/go-water-safety/internal/logging"
	"github.com/mr1hm/go-water-safety/internal/models"
	"github.com/mr1hm/go-water-safety/internal/scoring"
)

type ServeCmd struct{}

func (ServeCmd) Run(app *App) error {
	cfg := app.cfg
	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := broadcast.New[*models.Disaster]()
	mgr := ingestion.NewManager(cfg, app.store, app.clock, events)
	mgr.Start(ctx)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // must stay false with wildcard origins
	}))
	router.Use(api.MetricsMiddleware())
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimitRPS))

	handler := api.NewHandler(app.service, events)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	mgr.Stop()
	// open event streams block Shutdown until their channels close
	events.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

type TrainCmd struct{}

func (TrainCmd) Run(app *App) error {
	res, err := app.service.Train(context.Background())
	if err != nil {
		return err
	}
	return printJSON(res)
}

type ScoreCmd struct {
	Lat      float64 `required:"" help:"Latitude in decimal degrees."`
	Lng      float64 `required:"" help:"Longitude in decimal degrees."`
	Strategy string  `default:"auto" enum:"auto,formula,model,hazard_context,water_source_mix" help:"Scoring strategy."`
}

func (c ScoreCmd) Run(app *App) error {
	strategy, err := scoring.ParseStrategy(c.Strategy)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*app.cfg.Upstream.Timeout)
	defer cancel()

	a, err := app.service.Score(ctx, geo.Point{Lat: c.Lat, Lng: c.Lng}, strategy)
	if err != nil {
		return err
	}
	return printJSON(a)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
