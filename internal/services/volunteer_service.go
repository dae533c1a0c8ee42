package services

import (
	"errors"
	"fmt"
	"log/slog"

	apierrors "github.com/openopps/openopps-api/internal/errors"
	"github.com/openopps/openopps-api/internal/models"
	"github.com/openopps/openopps-api/internal/repository"
	"gorm.io/gorm"
)

// VolunteerService is the assignment ledger: who volunteered for which
// task, with at most one active assignment per (task, user) pair.
type VolunteerService struct {
	volunteers repository.VolunteerRepository
	tasks      repository.TaskRepository
	users      repository.UserRepository
	notifier   *NotificationService
	logger     *slog.Logger
}

// NewVolunteerService creates a new VolunteerService.
func NewVolunteerService(volunteers repository.VolunteerRepository, tasks repository.TaskRepository, users repository.UserRepository, notifier *NotificationService, logger *slog.Logger) *VolunteerService {
	return &VolunteerService{
		volunteers: volunteers,
		tasks:      tasks,
		users:      users,
		notifier:   notifier,
		logger:     logger,
	}
}

// Assign records a volunteer signup for an open task. The unique
// constraint on (task_id, user_id) is the source of truth for the
// one-assignment invariant; the duplicate-key error is translated here
// rather than trusting a pre-check under concurrency.
func (s *VolunteerService) Assign(taskID, userID uint64) (*models.Volunteer, error) {
	task, err := s.tasks.FindByID(taskID, "Owner")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.Missing("task not found")
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.State != models.TaskStateOpen {
		return nil, apierrors.InvalidState(fmt.Sprintf("opportunity is %s, not open for volunteers", task.State))
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.Missing("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	v := &models.Volunteer{
		TaskID: taskID,
		UserID: userID,
	}
	if err := s.volunteers.Create(v); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierrors.Conflicted("already volunteered for this opportunity").Wrap(err)
		}
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.notifier.Dispatch(ActionVolunteerCreate, VolunteerPayload{
		Task:      *task,
		Owner:     task.Owner,
		Volunteer: *user,
	})

	return v, nil
}

// Remove deletes an assignment. Removal is owner/project-owner/admin
// only; volunteers cannot withdraw themselves. Removing an id that no
// longer exists is an explicit no-op success so retried removals stay
// safe.
func (s *VolunteerService) Remove(assignmentID, requesterID uint64) error {
	v, err := s.volunteers.FindByID(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("remove of missing assignment ignored",
				slog.Uint64("assignment_id", assignmentID),
			)
			return nil
		}
		return fmt.Errorf("failed to find assignment: %w", err)
	}

	task, err := s.tasks.FindByID(v.TaskID, "Project")
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}

	requester, err := s.users.FindByID(requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.Authorization("requester not found")
		}
		return fmt.Errorf("failed to find requester: %w", err)
	}
	if !CanAdminister(requester, task) {
		return apierrors.Authorization("only the owner or an admin can remove this record")
	}

	if err := s.volunteers.DeleteByID(assignmentID); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	return nil
}

// List returns a task's assignments ordered by creation time.
func (s *VolunteerService) List(taskID uint64) ([]models.Volunteer, error) {
	if _, err := s.tasks.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.Missing("task not found")
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	volunteers, err := s.volunteers.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return volunteers, nil
}

// HasVolunteered reports whether the user holds an active assignment on
// the task.
func (s *VolunteerService) HasVolunteered(taskID, userID uint64) (bool, error) {
	_, err := s.volunteers.FindByTaskAndUser(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find assignment: %w", err)
	}
	return true, nil
}
