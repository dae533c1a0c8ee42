package dto

import (
	"time"

	"github.com/openopps/openopps-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID      uint64 `json:"id"`
	Title   string `json:"title"`
	OwnerID uint64 `json:"owner_id"`
}

// VolunteerDTO represents a volunteer assignment in API responses
type VolunteerDTO struct {
	ID        uint64    `json:"id"`
	TaskID    uint64    `json:"task_id"`
	UserID    uint64    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	User      *UserDTO  `json:"user,omitempty"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	State       models.TaskState `json:"state"`
	UserID      uint64           `json:"user_id"`
	ProjectID   *uint64          `json:"project_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Owner       *UserDTO         `json:"owner,omitempty"`
	Project     *ProjectDTO      `json:"project,omitempty"`
	Tags        []TagDTO         `json:"tags,omitempty"`
	Volunteers  []VolunteerDTO   `json:"volunteers,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:      project.ID,
		Title:   project.Title,
		OwnerID: project.OwnerID,
	}
}

// ToVolunteerDTO converts a Volunteer model to VolunteerDTO
func ToVolunteerDTO(v models.Volunteer) VolunteerDTO {
	dto := VolunteerDTO{
		ID:        v.ID,
		TaskID:    v.TaskID,
		UserID:    v.UserID,
		CreatedAt: v.CreatedAt,
	}

	if v.User.ID != 0 {
		user := ToUserDTO(v.User)
		dto.User = &user
	}

	return dto
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		State:       task.State,
		UserID:      task.UserID,
		ProjectID:   task.ProjectID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.Owner.ID != 0 {
		owner := ToUserDTO(task.Owner)
		dto.Owner = &owner
	}

	if task.Project != nil && task.Project.ID != 0 {
		project := ToProjectDTO(*task.Project)
		dto.Project = &project
	}

	if len(task.Tags) > 0 {
		dto.Tags = make([]TagDTO, len(task.Tags))
		for i, t := range task.Tags {
			dto.Tags[i] = ToTagDTO(t)
		}
	}

	if len(task.Volunteers) > 0 {
		dto.Volunteers = make([]VolunteerDTO, len(task.Volunteers))
		for i, v := range task.Volunteers {
			dto.Volunteers[i] = ToVolunteerDTO(v)
		}
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = int(totalCount) / pageSize
		if int(totalCount)%pageSize > 0 {
			totalPages++
		}
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
