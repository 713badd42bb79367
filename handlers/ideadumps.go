package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timfmjones/project-manager-backend/database"
	"github.com/timfmjones/project-manager-backend/middleware"
	"github.com/timfmjones/project-manager-backend/models"
)

// CreateTextIdeaDump runs the text ingestion pipeline: persist the dump,
// generate an insight from its content, then spawn the suggested tasks.
// A failed task spawn does not roll back the dump or the insight; the
// stored pieces stay useful on their own.
func CreateTextIdeaDump(db *database.DB, ai AIService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		projectID, ok := pathID(c, "id", "invalid project ID")
		if !ok {
			return
		}

		var req models.CreateTextIdeaDumpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx := c.Request.Context()
		dump, err := db.CreateIdeaDump(ctx, userID, projectID, &req.ContentText, nil, nil)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		finishIngestion(c, db, ai, dump, req.ContentText)
	}
}

// CreateAudioIdeaDump handles the audio variant: the upload middleware has
// already validated and optionally stored the file, so this transcribes it
// and feeds the transcript through the same pipeline as text.
func CreateAudioIdeaDump(db *database.DB, ai AIService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		projectID, ok := pathID(c, "id", "invalid project ID")
		if !ok {
			return
		}

		audio, filename, ok := middleware.UploadedAudio(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Audio file is required"})
			return
		}

		ctx := c.Request.Context()
		transcript, err := ai.Transcribe(ctx, audio, filename)
		if err != nil {
			log.Printf("Transcription failed for project %s: %v", projectID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to transcribe audio"})
			return
		}

		audioURL := middleware.UploadedAudioURL(c)
		dump, err := db.CreateIdeaDump(ctx, userID, projectID, nil, audioURL, &transcript)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		finishIngestion(c, db, ai, dump, transcript)
	}
}

// finishIngestion is the shared tail of both pipelines: insight
// generation, task spawning, response.
func finishIngestion(c *gin.Context, db *database.DB, ai AIService, dump *models.IdeaDump, content string) {
	ctx := c.Request.Context()

	data, err := ai.GenerateInsight(ctx, content)
	if err != nil {
		log.Printf("Insight generation failed for idea dump %s: %v", dump.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate insights"})
		return
	}

	insight, err := db.CreateInsight(ctx, dump.ID, *data)
	if err != nil {
		respondDBError(c, err, "Project not found")
		return
	}

	if len(data.SuggestedTasks) > 0 {
		if err := db.CreateTasksBatch(ctx, dump.ProjectID, data.SuggestedTasks, time.Now().UnixMilli()); err != nil {
			log.Printf("Failed to spawn suggested tasks for idea dump %s: %v", dump.ID, err)
		}
	}

	c.JSON(http.StatusOK, models.IdeaDumpResult{IdeaDump: *dump, Insight: *insight})
}
