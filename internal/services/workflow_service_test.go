package services

import (
	"testing"

	"github.com/openopps/openopps-api/internal/config"
	"github.com/openopps/openopps-api/internal/constants"
	"github.com/openopps/openopps-api/internal/models"
	"github.com/openopps/openopps-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// WorkflowServiceTestSuite defines the test suite for WorkflowService
type WorkflowServiceTestSuite struct {
	suite.Suite
	db        *gorm.DB
	directory *DirectoryService
	ledger    *VolunteerService
	service   *WorkflowService
}

// SetupTest runs before each test. The workflow is exercised with all
// profile guards enabled; individual tests relax them through setup().
func (suite *WorkflowServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())

	cfg := newTestConfig()
	cfg.AgencyRequired = true
	cfg.LocationRequired = true
	cfg.UseSupervisorEmail = true
	suite.setup(cfg)
}

func (suite *WorkflowServiceTestSuite) setup(cfg *config.Config) {
	notifier := NewNotificationService(
		repository.NewNotificationRepository(suite.db),
		nil,
		newTestLogger(),
	)
	suite.directory = NewDirectoryService(
		repository.NewUserRepository(suite.db),
		repository.NewTagRepository(suite.db),
		notifier,
		cfg,
	)
	suite.ledger = NewVolunteerService(
		repository.NewVolunteerRepository(suite.db),
		repository.NewTaskRepository(suite.db),
		repository.NewUserRepository(suite.db),
		notifier,
		newTestLogger(),
	)
	suite.service = NewWorkflowService(suite.directory, suite.ledger, cfg)
}

// TearDownTest runs after each test
func (suite *WorkflowServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *WorkflowServiceTestSuite) createUser(username, name string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashed",
		Name:         name,
	}
	suite.db.Create(user)
	return user
}

func (suite *WorkflowServiceTestSuite) createOpenTask() *models.Task {
	owner := suite.createUser("owner@example.gov", "Owner")
	task := &models.Task{Title: "Opportunity", State: models.TaskStateOpen, UserID: owner.ID}
	suite.db.Create(task)
	return task
}

func (suite *WorkflowServiceTestSuite) giveRequiredTags(userID uint64) {
	loc := &models.Tag{Kind: models.TagKindLocation, Name: "Washington DC"}
	agency := &models.Tag{Kind: models.TagKindAgency, Name: "GSA"}
	suite.db.Create(loc)
	suite.db.Create(agency)
	_, err := suite.directory.SetLocationAgency(userID, loc.ID, agency.ID)
	suite.Require().NoError(err)
}

func (suite *WorkflowServiceTestSuite) TestStatus_AnonymousGetsLogin() {
	task := suite.createOpenTask()

	result, err := suite.service.Status(task.ID, 0)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), StepLogin, result.Step)
}

func (suite *WorkflowServiceTestSuite) TestStatus_MissingNameComesFirst() {
	task := suite.createOpenTask()
	user := suite.createUser("vol@example.gov", "")

	result, err := suite.service.Status(task.ID, user.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), StepName, result.Step)
}

func (suite *WorkflowServiceTestSuite) TestStatus_MissingTagsAfterName() {
	task := suite.createOpenTask()
	user := suite.createUser("vol@example.gov", "Vol")

	result, err := suite.service.Status(task.ID, user.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), StepProfile, result.Step)
}

func (suite *WorkflowServiceTestSuite) TestStatus_ReadyReportsConfirmWithSupervisorPrefill() {
	task := suite.createOpenTask()
	user := suite.createUser("vol@example.gov", "Vol")
	suite.giveRequiredTags(user.ID)
	suite.Require().NoError(suite.directory.SaveSetting(user.ID, constants.SettingSupervisorName, "Pat"))

	result, err := suite.service.Status(task.ID, user.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), StepConfirm, result.Step)
	assert.True(suite.T(), result.RequiresSupervisor)
	assert.Equal(suite.T(), "Pat", result.SupervisorName)
}

func (suite *WorkflowServiceTestSuite) TestStatus_GuardsOffSkipProfile() {
	suite.setup(newTestConfig())
	task := suite.createOpenTask()
	user := suite.createUser("vol@example.gov", "Vol")

	result, err := suite.service.Status(task.ID, user.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), StepConfirm, result.Step)
	assert.False(suite.T(), result.RequiresSupervisor)
}

func (suite *WorkflowServiceTestSuite) TestSubmitName_ResumesFromTop() {
	task := suite.createOpenTask()
	user := suite.createUser("vol@example.gov", "")

	// After the name is stored, the chain re-runs and lands on the next
	// unmet guard.
	result, err := suite.service.SubmitName(task.ID, user.ID, "Vol")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), StepProfile, result.Step)
}

func (suite *WorkflowServiceTestSuite) TestSubmitProfile_ResumesToConfirm() {
	task := suite.createOpenTask()
	user := suite.createUser("vol@example.gov", "Vol")

	loc := &models.Tag{Kind: models.TagKindLocation, Name: "Denver"}
	agency := &models.Tag{Kind: models.TagKindAgency, Name: "DOI"}
	suite.db.Create(loc)
	suite.db.Create(agency)

	result, err := suite.service.SubmitProfile(task.ID, user.ID, loc.ID, agency.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), StepConfirm, result.Step)
}

func (suite *WorkflowServiceTestSuite) TestSubmitProfileNames_CreatesTagsAndResumes() {
	task := suite.createOpenTask()
	user := suite.createUser("vol@example.gov", "Vol")

	// Typed-in values with no matching tags yet.
	result, err := suite.service.SubmitProfileNames(task.ID, user.ID, "Boise", "USDA")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), StepConfirm, result.Step)

	var count int64
	suite.db.Model(&models.Tag{}).Where("name IN ?", []string{"Boise", "USDA"}).Count(&count)
	assert.Equal(suite.T(), int64(2), count)
}

func (suite *WorkflowServiceTestSuite) TestConfirm_PendingGuardReturnsStepNotError() {
	task := suite.createOpenTask()
	user := suite.createUser("vol@example.gov", "")

	result, err := suite.service.Confirm(task.ID, user.ID, "", "")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), StepName, result.Step)
	assert.Nil(suite.T(), result.Assignment)

	volunteered, err := suite.ledger.HasVolunteered(task.ID, user.ID)
	suite.Require().NoError(err)
	assert.False(suite.T(), volunteered)
}

func (suite *WorkflowServiceTestSuite) TestConfirm_RecordsAssignmentAndSupervisor() {
	task := suite.createOpenTask()
	user := suite.createUser("vol@example.gov", "Vol")
	suite.giveRequiredTags(user.ID)

	result, err := suite.service.Confirm(task.ID, user.ID, "Pat", "pat@example.gov")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), StepComplete, result.Step)
	suite.Require().NotNil(result.Assignment)
	assert.Equal(suite.T(), user.ID, result.Assignment.UserID)

	name, err := suite.directory.GetSetting(user.ID, constants.SettingSupervisorName)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Pat", name)
	email, err := suite.directory.GetSetting(user.ID, constants.SettingSupervisorEmail)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "pat@example.gov", email)
}

func (suite *WorkflowServiceTestSuite) TestStatus_CompleteAfterAssignment() {
	task := suite.createOpenTask()
	user := suite.createUser("vol@example.gov", "Vol")
	suite.giveRequiredTags(user.ID)

	_, err := suite.service.Confirm(task.ID, user.ID, "Pat", "pat@example.gov")
	suite.Require().NoError(err)

	result, err := suite.service.Status(task.ID, user.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), StepComplete, result.Step)
}

func (suite *WorkflowServiceTestSuite) TestConfirm_ClosedTaskSurfacesInvalidState() {
	owner := suite.createUser("owner2@example.gov", "Owner")
	task := &models.Task{Title: "Closed one", State: models.TaskStateClosed, UserID: owner.ID}
	suite.db.Create(task)

	user := suite.createUser("vol@example.gov", "Vol")
	suite.giveRequiredTags(user.ID)

	_, err := suite.service.Confirm(task.ID, user.ID, "Pat", "pat@example.gov")
	assert.Error(suite.T(), err)
}

func TestWorkflowServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowServiceTestSuite))
}
