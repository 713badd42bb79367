package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timfmjones/project-manager-backend/database"
)

const summaryInsightCount = 5

// SuggestSummary drafts a fresh summary banner from the newest insights.
// The draft is returned to the client for review; nothing is persisted
// until the client saves it through the summary update endpoint.
func SuggestSummary(db *database.DB, ai AIService) gin.HandlerFunc {
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

		insights, err := db.ListInsights(ctx, userID, projectID, summaryInsightCount)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}
		if len(insights) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No insights available to generate summary"})
			return
		}

		suggested, err := ai.SuggestSummary(ctx, insights)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate summary"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"suggestedSummary": suggested})
	}
}
