package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timfmjones/project-manager-backend/config"
)

// Health reports process liveness plus which optional integrations are
// configured, so a deployment can be sanity-checked with one request.
func Health(cfg *config.Config) gin.HandlerFunc {
	configured := func(ok bool) string {
		if ok {
			return "configured"
		}
		return "not configured"
	}

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"storage": cfg.StorageBackend,
			"ai":      configured(cfg.OpenAIAPIKey != ""),
			"google":  configured(cfg.GoogleClientID != ""),
		})
	}
}
