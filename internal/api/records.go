package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/service"
)

type reportRequest struct {
	Description string   `json:"description"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

type safeWaterRequest struct {
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
	Name string   `json:"name"`
}

func (h *Handler) createReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Description == "" || req.Lat == nil || req.Lng == nil {
		badRequest(c, "description, lat, lng required")
		return
	}

	r, err := h.svc.SubmitReport(c.Request.Context(), req.Description, geo.Point{Lat: *req.Lat, Lng: *req.Lng})
	switch {
	case errors.Is(err, service.ErrEmptyDescription), errors.Is(err, geo.ErrInvalidCoordinate):
		badRequest(c, err.Error())
	case err != nil:
		slog.Error("failed to save report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save report"})
	default:
		c.JSON(http.StatusCreated, r)
	}
}

func (h *Handler) listReports(c *gin.Context) {
	reports, err := h.svc.Reports(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *Handler) createSafeWater(c *gin.Context) {
	var req safeWaterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Lat == nil || req.Lng == nil {
		badRequest(c, "lat and lng are required (numbers)")
		return
	}

	sw, err := h.svc.AddSafeWater(c.Request.Context(), geo.Point{Lat: *req.Lat, Lng: *req.Lng}, req.Name)
	switch {
	case errors.Is(err, geo.ErrInvalidCoordinate):
		badRequest(c, "invalid lat or lng")
	case err != nil:
		slog.Error("failed to save safe water point", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save report"})
	default:
		c.JSON(http.StatusCreated, sw)
	}
}

func (h *Handler) listSafeWater(c *gin.Context) {
	var center *geo.Point
	if p, ok, err := optionalPoint(c); err != nil {
		badRequest(c, err.Error())
		return
	} else if ok {
		center = &p
	}

	points, err := h.svc.SafeWater(c.Request.Context(), center, queryFloat(c, "radius_km"), queryInt(c, "limit"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": points})
}

func (h *Handler) nearbyWater(c *gin.Context) {
	p, err := requirePoint(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	points, origin, err := h.svc.NearbyWater(c.Request.Context(), p, queryInt(c, "limit"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points, "source": origin})
}
