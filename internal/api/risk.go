package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-water-safety/internal/scoring"
)

// getRisk scores the lat/lng in the query string with the optional strategy.
func (h *Handler) getRisk(c *gin.Context) {
	p, err := requirePoint(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	strategy, err := scoring.ParseStrategy(c.Query("strategy"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	a, err := h.svc.Score(c.Request.Context(), p, strategy)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) trainModel(c *gin.Context) {
	res, err := h.svc.Train(c.Request.Context())

	var insufficient *scoring.InsufficientSamplesError
	var singular *scoring.SingularMatrixError
	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       err.Error(),
			"sampleCount": insufficient.Count,
			"required":    insufficient.Required,
		})
	case errors.As(err, &singular):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       err.Error(),
			"sampleCount": singular.Count,
		})
	case err != nil:
		slog.Error("training failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "training failed"})
	default:
		c.JSON(http.StatusOK, res)
	}
}
