package services

import "github.com/openopps/openopps-api/internal/models"

// CanAdminister reports whether a user may edit a task, change its state,
// copy it, or manage its volunteers: the task owner, the owning project's
// owner, or an admin. The task's Project must be preloaded for the
// project-owner rule to apply.
func CanAdminister(user *models.User, task *models.Task) bool {
	if user == nil || task == nil {
		return false
	}
	if user.IsAdmin {
		return true
	}
	if task.UserID == user.ID {
		return true
	}
	if task.Project != nil && task.Project.OwnerID == user.ID {
		return true
	}
	return false
}
