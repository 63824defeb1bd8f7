package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mr1hm/go-water-safety/internal/broadcast"
	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/models"
	"github.com/mr1hm/go-water-safety/internal/repository"
	"github.com/mr1hm/go-water-safety/internal/service"
)

type Handler struct {
	svc    *service.Service
	events *broadcast.Broadcaster[*models.Disaster]
}

// NewHandler serves svc. events feeds the disaster stream and may be nil,
// in which case the stream route answers 503.
func NewHandler(svc *service.Service, events *broadcast.Broadcaster[*models.Disaster]) *Handler {
	return &Handler{svc: svc, events: events}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/risk", h.getRisk)
	api.POST("/model/train", h.trainModel)
	api.POST("/reports", h.createReport)
	api.GET("/reports", h.listReports)
	api.POST("/safe-water", h.createSafeWater)
	api.GET("/safe-water", h.listSafeWater)
	api.GET("/water/nearby", h.nearbyWater)
	api.GET("/disasters", h.getDisasters)
	api.GET("/disasters/stream", h.streamDisasters)
	api.GET("/disasters/:id", h.getDisaster)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getDisasters(c *gin.Context) {
	filter := repository.Filter{
		Limit: queryInt(c, "limit"),
	}

	if t := c.Query("type"); t != "" {
		dt := models.DisasterType(strings.ToLower(t))
		filter.Type = &dt
	}
	if s := c.Query("source"); s != "" {
		filter.Source = strings.ToLower(s)
	}
	if s := c.Query("since"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.Since = &t
		}
	}
	if p, ok, err := optionalPoint(c); err != nil {
		badRequest(c, err.Error())
		return
	} else if ok {
		if km := queryFloat(c, "radius_km"); km > 0 {
			box := geo.BoxAround(p, km)
			filter.Within = &box
		}
	}

	disasters, err := h.svc.Disasters(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch disasters",
		})
		return
	}

	fc := toGeoJSON(disasters)
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

func (h *Handler) getDisaster(c *gin.Context) {
	d, err := h.svc.Disaster(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "disaster not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch disaster"})
		return
	}
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, toFeature(*d))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
