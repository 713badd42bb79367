package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timfmjones/project-manager-backend/database"
	"github.com/timfmjones/project-manager-backend/models"
)

func ListTasks(db *database.DB) gin.HandlerFunc {
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

		tasks, err := db.ListTasks(ctx, userID, projectID)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		c.JSON(http.StatusOK, tasks)
	}
}

func CreateTask(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		projectID, ok := pathID(c, "id", "invalid project ID")
		if !ok {
			return
		}

		var req models.CreateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx := c.Request.Context()
		task, err := db.CreateTask(ctx, userID, projectID, req.Title, req.Description, req.Status)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		c.JSON(http.StatusOK, task)
	}
}

func UpdateTask(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		taskID, ok := pathID(c, "id", "invalid task ID")
		if !ok {
			return
		}

		var req models.UpdateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx := c.Request.Context()
		task, err := db.UpdateTask(ctx, userID, taskID, req)
		if err != nil {
			respondDBError(c, err, "Task not found")
			return
		}

		c.JSON(http.StatusOK, task)
	}
}

func DeleteTask(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		taskID, ok := pathID(c, "id", "invalid task ID")
		if !ok {
			return
		}

		ctx := c.Request.Context()
		if err := db.DeleteTask(ctx, userID, taskID); err != nil {
			respondDBError(c, err, "Task not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// ReorderTasks rewrites every listed task's position to its index in the
// request order, as one all-or-nothing batch.
func ReorderTasks(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		projectID, ok := pathID(c, "id", "invalid project ID")
		if !ok {
			return
		}

		var req models.ReorderTasksRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx := c.Request.Context()
		if err := db.ReorderTasks(ctx, userID, projectID, req.OrderedIDs); err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
