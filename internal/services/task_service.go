package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/openopps/openopps-api/internal/config"
	apierrors "github.com/openopps/openopps-api/internal/errors"
	"github.com/openopps/openopps-api/internal/models"
	"github.com/openopps/openopps-api/internal/repository"
	"gorm.io/gorm"
)

// TaskService owns the task lifecycle: creation, the state machine,
// copying, and ownership-gated edits.
type TaskService struct {
	tasks    repository.TaskRepository
	users    repository.UserRepository
	tags     repository.TagRepository
	notifier *NotificationService
	cfg      *config.Config
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository, tags repository.TagRepository, notifier *NotificationService, cfg *config.Config) *TaskService {
	return &TaskService{
		tasks:    tasks,
		users:    users,
		tags:     tags,
		notifier: notifier,
		cfg:      cfg,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	State       models.TaskState
	ProjectID   *uint64
	TagIDs      []uint64
	CreatorID   uint64
}

// CreateTask creates a new task. The initial state is open unless the
// creator is an admin explicitly selecting draft.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apierrors.Validation("title is required")
	}

	creator, err := s.requester(input.CreatorID)
	if err != nil {
		return nil, err
	}

	state := input.State
	if state == "" {
		state = models.TaskStateOpen
	}
	if err := s.checkStateValue(state); err != nil {
		return nil, err
	}
	if state == models.TaskStateDraft && s.cfg.DraftAdminOnly && !creator.IsAdmin {
		return nil, apierrors.Authorization("only administrators can create draft opportunities")
	}

	tags, err := s.tags.FindByIDs(input.TagIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	if len(tags) != len(input.TagIDs) {
		return nil, apierrors.Validation("one or more tags do not exist")
	}

	task := &models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		State:       state,
		UserID:      input.CreatorID,
		ProjectID:   input.ProjectID,
		Tags:        tags,
	}

	if err := s.tasks.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.notifier.Dispatch(ActionTaskThanks, TaskThanksPayload{Task: *task, Owner: *creator})

	return s.tasks.FindByID(task.ID, "Owner", "Project", "Tags")
}

// GetTask returns a task with related data.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.tasks.FindByID(taskID, "Owner", "Project", "Tags", "Volunteers", "Volunteers.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.Missing("task not found")
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ListTasksInput represents filters for listing tasks.
type ListTasksInput struct {
	State    *models.TaskState
	OwnerID  *uint64
	TagID    *uint64
	Page     int
	PageSize int
}

// ListTasks returns tasks matching the filters, newest first.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	tasks, total, err := s.tasks.List(repository.TaskFilter{
		State:    input.State,
		OwnerID:  input.OwnerID,
		TagID:    input.TagID,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// UpdateTaskInput carries optional task fields; nil means unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	TagIDs      []uint64
}

// UpdateTask applies partial edits, gated on ownership.
func (s *TaskService) UpdateTask(taskID, requesterID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	requester, err := s.requester(requesterID)
	if err != nil {
		return nil, err
	}
	if !CanAdminister(requester, task) {
		return nil, apierrors.Authorization("only the owner, project owner, or an admin can edit this opportunity")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apierrors.Validation("title cannot be empty")
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.TagIDs != nil {
		tags, err := s.tags.FindByIDs(input.TagIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load tags: %w", err)
		}
		if len(tags) != len(input.TagIDs) {
			return nil, apierrors.Validation("one or more tags do not exist")
		}
		task.Tags = tags
	}

	if err := s.tasks.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.tasks.FindByID(task.ID, "Owner", "Project", "Tags", "Volunteers", "Volunteers.User")
}

// ChangeState moves a task to a new state drawn from the configured
// enumerated list. Open to closed and closed to open are symmetric;
// the draft state is additionally admin-gated.
func (s *TaskService) ChangeState(taskID uint64, newState models.TaskState, requesterID uint64) (*models.Task, error) {
	if err := s.checkStateValue(newState); err != nil {
		return nil, err
	}

	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	requester, err := s.requester(requesterID)
	if err != nil {
		return nil, err
	}
	if !CanAdminister(requester, task) {
		return nil, apierrors.Authorization("only the owner, project owner, or an admin can change the state")
	}
	if newState == models.TaskStateDraft && s.cfg.DraftAdminOnly && !requester.IsAdmin {
		return nil, apierrors.Authorization("only administrators can move an opportunity to draft")
	}
	if task.State == models.TaskStateDraft && newState == models.TaskStateOpen &&
		s.cfg.DraftAdminOnly && !requester.IsAdmin {
		return nil, apierrors.Authorization("only administrators can publish a draft opportunity")
	}

	if task.State == newState {
		return task, nil
	}

	if err := s.tasks.UpdateState(task.ID, newState); err != nil {
		return nil, fmt.Errorf("failed to update state: %w", err)
	}
	task.State = newState

	return task, nil
}

// CopyTask produces a fresh task with the source's tag set and owner but
// no volunteer assignments.
func (s *TaskService) CopyTask(sourceID uint64, title string, requesterID uint64) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apierrors.Validation("title is required")
	}

	source, err := s.GetTask(sourceID)
	if err != nil {
		return nil, err
	}

	requester, err := s.requester(requesterID)
	if err != nil {
		return nil, err
	}
	if !CanAdminister(requester, source) {
		return nil, apierrors.Authorization("only the owner, project owner, or an admin can copy this opportunity")
	}

	state := models.TaskState(s.cfg.CopyTaskState)
	if state != models.TaskStateDraft && state != models.TaskStateOpen {
		state = models.TaskStateDraft
	}

	copied := &models.Task{
		Title:       strings.TrimSpace(title),
		Description: source.Description,
		State:       state,
		UserID:      source.UserID,
		ProjectID:   source.ProjectID,
		Tags:        source.Tags,
	}

	if err := s.tasks.Create(copied); err != nil {
		return nil, fmt.Errorf("failed to copy task: %w", err)
	}

	return s.tasks.FindByID(copied.ID, "Owner", "Project", "Tags")
}

// DeleteTask removes a task and, through the repository transaction, its
// volunteer assignments.
func (s *TaskService) DeleteTask(taskID, requesterID uint64) error {
	task, err := s.GetTask(taskID)
	if err != nil {
		return err
	}

	requester, err := s.requester(requesterID)
	if err != nil {
		return err
	}
	if !CanAdminister(requester, task) {
		return apierrors.Authorization("only the owner, project owner, or an admin can delete this opportunity")
	}

	if err := s.tasks.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *TaskService) checkStateValue(state models.TaskState) error {
	for _, valid := range s.cfg.States() {
		if string(state) == valid {
			return nil
		}
	}
	return apierrors.Validation(fmt.Sprintf("invalid state %q", state))
}

func (s *TaskService) requester(id uint64) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.Authorization("requester not found")
		}
		return nil, fmt.Errorf("failed to find requester: %w", err)
	}
	return user, nil
}
