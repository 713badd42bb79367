package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timfmjones/project-manager-backend/database"
	"github.com/timfmjones/project-manager-backend/models"
)

func ListMilestones(db *database.DB) gin.HandlerFunc {
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

		milestones, err := db.ListMilestones(ctx, userID, projectID)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		c.JSON(http.StatusOK, milestones)
	}
}

func CreateMilestone(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		projectID, ok := pathID(c, "id", "invalid project ID")
		if !ok {
			return
		}

		var req models.CreateMilestoneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var dueDate *time.Time
		if req.DueDate != nil && *req.DueDate != "" {
			parsed, err := parseDueDate(*req.DueDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
				return
			}
			dueDate = &parsed
		}

		ctx := c.Request.Context()
		milestone, err := db.CreateMilestone(ctx, userID, projectID, req.Title, req.Description, dueDate)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		c.JSON(http.StatusOK, milestone)
	}
}

// UpdateMilestone applies partial-update semantics: fields absent from
// the body stay untouched, an explicit null (or empty date string)
// clears the field.
func UpdateMilestone(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		milestoneID, ok := pathID(c, "id", "invalid milestone ID")
		if !ok {
			return
		}

		var req models.UpdateMilestoneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		upd := database.MilestoneUpdate{Title: req.Title}

		if req.Description.Set {
			desc := req.Description.Ptr()
			if desc != nil && *desc == "" {
				desc = nil
			}
			upd.Description = &desc
		}

		if req.DueDate.Set {
			var due *time.Time
			if req.DueDate.Valid && req.DueDate.Value != "" {
				parsed, err := parseDueDate(req.DueDate.Value)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
					return
				}
				due = &parsed
			}
			upd.DueDate = &due
		}

		ctx := c.Request.Context()
		milestone, err := db.UpdateMilestone(ctx, userID, milestoneID, upd)
		if err != nil {
			respondDBError(c, err, "Milestone not found")
			return
		}

		c.JSON(http.StatusOK, milestone)
	}
}

func DeleteMilestone(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		milestoneID, ok := pathID(c, "id", "invalid milestone ID")
		if !ok {
			return
		}

		ctx := c.Request.Context()
		if err := db.DeleteMilestone(ctx, userID, milestoneID); err != nil {
			respondDBError(c, err, "Milestone not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// parseDueDate accepts RFC3339 timestamps or bare dates.
func parseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
