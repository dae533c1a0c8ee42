package services

import (
	"github.com/openopps/openopps-api/internal/config"
	"github.com/openopps/openopps-api/internal/constants"
	"github.com/openopps/openopps-api/internal/models"
)

// GuardStep names one step of the volunteer workflow guard chain.
type GuardStep string

const (
	// StepLogin: the requester is not authenticated.
	StepLogin GuardStep = "login"
	// StepName: the requester's profile has no display name.
	StepName GuardStep = "name"
	// StepProfile: required location/agency tags are missing.
	StepProfile GuardStep = "profile"
	// StepConfirm: all guards pass; awaiting the confirmation submit.
	StepConfirm GuardStep = "confirm"
	// StepComplete: the assignment has been recorded.
	StepComplete GuardStep = "complete"
)

// WorkflowResult is the structured outcome of a workflow call: the step
// the requester must complete next, never an error, so the caller can
// drive the matching prompt.
type WorkflowResult struct {
	Step               GuardStep         `json:"step"`
	RequiresSupervisor bool              `json:"requires_supervisor"`
	SupervisorName     string            `json:"supervisor_name,omitempty"`
	SupervisorEmail    string            `json:"supervisor_email,omitempty"`
	Assignment         *models.Volunteer `json:"assignment,omitempty"`
}

// WorkflowService orchestrates the volunteer signup sequence. It owns
// only sequencing and validation: every mutation goes through the
// directory or the ledger, and every resumption re-runs the guard chain
// from the top so concurrent profile changes are re-validated.
type WorkflowService struct {
	directory *DirectoryService
	ledger    *VolunteerService
	cfg       *config.Config
}

// NewWorkflowService creates a new WorkflowService.
func NewWorkflowService(directory *DirectoryService, ledger *VolunteerService, cfg *config.Config) *WorkflowService {
	return &WorkflowService{
		directory: directory,
		ledger:    ledger,
		cfg:       cfg,
	}
}

// NextStep evaluates the guard chain for a user. Pure over the user and
// configuration; order is fixed: login, name, profile, confirm.
func (s *WorkflowService) NextStep(user *models.User) GuardStep {
	if user == nil {
		return StepLogin
	}
	if user.Name == "" {
		return StepName
	}
	if s.cfg.AgencyRequired && s.cfg.LocationRequired && !s.directory.HasRequiredTags(user) {
		return StepProfile
	}
	return StepConfirm
}

// Status reports where the requester stands in the workflow for a task.
// userID zero means anonymous.
func (s *WorkflowService) Status(taskID, userID uint64) (*WorkflowResult, error) {
	if userID == 0 {
		return &WorkflowResult{Step: StepLogin}, nil
	}

	user, err := s.directory.GetUser(userID)
	if err != nil {
		return nil, err
	}

	volunteered, err := s.ledger.HasVolunteered(taskID, userID)
	if err != nil {
		return nil, err
	}
	if volunteered {
		return &WorkflowResult{Step: StepComplete}, nil
	}

	return s.result(user)
}

// SubmitName persists the display name, then resumes from the top of the
// guard chain.
func (s *WorkflowService) SubmitName(taskID, userID uint64, name string) (*WorkflowResult, error) {
	if _, err := s.directory.UpdateProfile(userID, UpdateProfileInput{Name: &name}); err != nil {
		return nil, err
	}
	return s.Status(taskID, userID)
}

// SubmitProfile persists the location and agency tags, then resumes from
// the top of the guard chain.
func (s *WorkflowService) SubmitProfile(taskID, userID, locationTagID, agencyTagID uint64) (*WorkflowResult, error) {
	if _, err := s.directory.SetLocationAgency(userID, locationTagID, agencyTagID); err != nil {
		return nil, err
	}
	return s.Status(taskID, userID)
}

// SubmitProfileNames is SubmitProfile for typed-in values: the location
// and agency are resolved by name, created when new, then the guard
// chain resumes from the top.
func (s *WorkflowService) SubmitProfileNames(taskID, userID uint64, location, agency string) (*WorkflowResult, error) {
	if _, err := s.directory.SetLocationAgencyByName(userID, location, agency); err != nil {
		return nil, err
	}
	return s.Status(taskID, userID)
}

// Confirm re-runs the guard chain and, when it lands on the confirm
// step, persists any supervisor contact changes and records the
// assignment through the ledger. A pending guard comes back as the
// result's step, not an error.
func (s *WorkflowService) Confirm(taskID, userID uint64, supervisorName, supervisorEmail string) (*WorkflowResult, error) {
	user, err := s.directory.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if step := s.NextStep(user); step != StepConfirm {
		return s.result(user)
	}

	if s.cfg.UseSupervisorEmail {
		if err := s.directory.SaveSetting(userID, constants.SettingSupervisorName, supervisorName); err != nil {
			return nil, err
		}
		if err := s.directory.SaveSetting(userID, constants.SettingSupervisorEmail, supervisorEmail); err != nil {
			return nil, err
		}
	}

	assignment, err := s.ledger.Assign(taskID, userID)
	if err != nil {
		return nil, err
	}

	return &WorkflowResult{Step: StepComplete, Assignment: assignment}, nil
}

// result builds the response for a user's pending step, prefilled with
// stored supervisor contact when the confirm step will ask for it.
func (s *WorkflowService) result(user *models.User) (*WorkflowResult, error) {
	res := &WorkflowResult{Step: s.NextStep(user)}

	if res.Step == StepConfirm && s.cfg.UseSupervisorEmail {
		res.RequiresSupervisor = true
		name, err := s.directory.GetSetting(user.ID, constants.SettingSupervisorName)
		if err != nil {
			return nil, err
		}
		email, err := s.directory.GetSetting(user.ID, constants.SettingSupervisorEmail)
		if err != nil {
			return nil, err
		}
		res.SupervisorName = name
		res.SupervisorEmail = email
	}

	return res, nil
}
