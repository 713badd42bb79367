package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timfmjones/project-manager-backend/database"
	"github.com/timfmjones/project-manager-backend/models"
)

func ListInsights(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		projectID, ok := pathID(c, "id", "invalid project ID")
		if !ok {
			return
		}

		ctx := c.Request.Context()
		if _, err := db.GetProject(ctx, userID, projectID); err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		insights, err := db.ListInsights(ctx, userID, projectID, 0)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		c.JSON(http.StatusOK, insights)
	}
}

func PinInsight(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		insightID, ok := pathID(c, "id", "invalid insight ID")
		if !ok {
			return
		}

		var req models.PinInsightRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx := c.Request.Context()
		if err := db.SetInsightPinned(ctx, userID, insightID, *req.Pinned); err != nil {
			respondDBError(c, err, "Insight not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
