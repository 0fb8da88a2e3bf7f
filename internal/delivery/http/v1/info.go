package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

func (h *handlerImpl) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     h.info.Title,
		"name":        h.info.Name,
		"version":     h.info.Version,
		"environment": h.info.Env,
	})
}

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *handlerImpl) HandleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	err := h.db.Ping(ctx)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("database not ready")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"ready":  false,
			"reason": "database not ready",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ready": true})
}
