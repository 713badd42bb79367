package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timfmjones/project-manager-backend/database"
	"github.com/timfmjones/project-manager-backend/models"
)

func ListProjects(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		projects, err := db.ListProjects(ctx, userID)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		c.JSON(http.StatusOK, projects)
	}
}

func CreateProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}

		var req models.CreateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx := c.Request.Context()
		project, err := db.CreateProject(ctx, userID, req.Name)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		c.JSON(http.StatusOK, project)
	}
}

func GetProject(db *database.DB) gin.HandlerFunc {
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
		project, err := db.GetProject(ctx, userID, projectID)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		c.JSON(http.StatusOK, project)
	}
}

func UpdateProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		projectID, ok := pathID(c, "id", "invalid project ID")
		if !ok {
			return
		}

		var req models.UpdateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Name == nil {
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}

		ctx := c.Request.Context()
		if err := db.UpdateProjectName(ctx, userID, projectID, *req.Name); err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func GetProjectSummary(db *database.DB) gin.HandlerFunc {
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
		banner, err := db.GetProjectSummary(ctx, userID, projectID)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"summaryBanner": banner})
	}
}

func UpdateProjectSummary(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		projectID, ok := pathID(c, "id", "invalid project ID")
		if !ok {
			return
		}

		var req models.UpdateSummaryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx := c.Request.Context()
		if err := db.UpdateProjectSummary(ctx, userID, projectID, req.SummaryBanner); err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
