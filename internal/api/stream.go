package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const keepAliveInterval = 30 * time.Second

// streamDisasters pushes newly ingested disasters as server-sent events,
// one GeoJSON feature per "disaster" event.
func (h *Handler) streamDisasters(c *gin.Context) {
	if h.events == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "disaster stream unavailable"})
		return
	}

	id, ch := h.events.Subscribe()
	defer h.events.Unsubscribe(id)
	slog.Info("stream subscriber connected", "subscriber", id, "subscribers", h.events.SubscriberCount())

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			slog.Info("stream subscriber disconnected", "subscriber", id)
			return
		case d, ok := <-ch:
			if !ok {
				return
			}
			c.SSEvent("disaster", toFeature(*d))
			c.Writer.Flush()
		case <-keepAlive.C:
			c.SSEvent("ping", gin.H{})
			c.Writer.Flush()
		}
	}
}
