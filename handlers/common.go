package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/timfmjones/project-manager-backend/database"
	"github.com/timfmjones/project-manager-backend/middleware"
	"github.com/timfmjones/project-manager-backend/models"
)

// AIService is the narrow surface of the LLM collaborator the handlers
// depend on; tests substitute a stub.
type AIService interface {
	GenerateInsight(ctx context.Context, content string) (*models.InsightData, error)
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
	GenerateQAResponse(ctx context.Context, question string, pc models.ProjectContext, includeExamples bool) *models.QAResponse
	SuggestSummary(ctx context.Context, insights []models.InsightWithSource) (string, error)
}

// DevMode widens 500 bodies with internal detail; set once at startup.
var DevMode bool

// callerID reads the account id the auth gate stored. Routes behind the
// gate always have it.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in request"})
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses a :id-style route parameter.
func pathID(c *gin.Context, param, invalidMsg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidMsg})
		return uuid.Nil, false
	}
	return id, true
}

// respondDBError maps a database failure to the HTTP taxonomy. Not-found
// and not-owned are already collapsed by the query predicates, so both
// arrive here as ErrNotFound.
func respondDBError(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return
	}

	log.Printf("Database error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	body := gin.H{"error": "Internal server error"}
	if DevMode {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Validation error",
		"details": []string{err.Error()},
	})
}
