package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/openopps/openopps-api/internal/database"
	apierrors "github.com/openopps/openopps-api/internal/errors"
	"github.com/openopps/openopps-api/internal/models"
)

// RequireTask loads the task from the :id parameter into the context.
// Draft tasks are only visible to users who can administer them, so for
// anyone else a draft behaves like a missing task.
func RequireTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskIDStr := c.Param("id")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().
			Preload("Owner").
			Preload("Project").
			Preload("Tags").
			Preload("Volunteers").
			Preload("Volunteers.User").
			First(&task, taskID).Error; err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		if task.State == models.TaskStateDraft {
			userID, _ := GetUserID(c)
			var user models.User
			if userID == 0 || database.GetDB().First(&user, userID).Error != nil {
				apierrors.NotFound(c, "Task not found")
				c.Abort()
				return
			}
			if !user.IsAdmin && task.UserID != user.ID &&
				(task.Project == nil || task.Project.OwnerID != user.ID) {
				apierrors.NotFound(c, "Task not found")
				c.Abort()
				return
			}
		}

		c.Set("task", task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTask.
func GetTask(c *gin.Context) (models.Task, bool) {
	taskInterface, exists := c.Get("task")
	if !exists {
		return models.Task{}, false
	}
	task, ok := taskInterface.(models.Task)
	return task, ok
}
