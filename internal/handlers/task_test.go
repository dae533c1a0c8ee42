package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/openopps/openopps-api/internal/database"
	"github.com/openopps/openopps-api/internal/dto"
	"github.com/openopps/openopps-api/internal/models"
	"github.com/openopps/openopps-api/internal/repository"
	"github.com/openopps/openopps-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Project{},
		&models.Task{},
		&models.Volunteer{},
		&models.Notification{},
		&models.UserSetting{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := services.NewNotificationService(repository.NewNotificationRepository(suite.db), nil, logger)
	taskService := services.NewTaskService(
		repository.NewTaskRepository(suite.db),
		repository.NewUserRepository(suite.db),
		repository.NewTagRepository(suite.db),
		notifier,
		testConfig(),
	)
	suite.handler = NewTaskHandler(taskService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createTestUser(username string, admin bool) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
		Name:         "Test User",
		IsAdmin:      admin,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, state models.TaskState, ownerID uint64) *models.Task {
	task := &models.Task{
		Title:  title,
		State:  state,
		UserID: ownerID,
	}
	suite.db.Create(task)
	return task
}

// Helper function to create authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", userID)

	return c, w
}

// Helper function to set task context (simulates RequireTask middleware)
func (suite *TaskHandlerTestSuite) setTaskContext(c *gin.Context, task models.Task) {
	c.Set("task", task)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	user := suite.createTestUser("user@example.gov", false)

	body, _ := json.Marshal(map[string]interface{}{
		"title":       "Review grant applications",
		"description": "Two week detail",
	})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Review grant applications", response.Title)
	assert.Equal(suite.T(), models.TaskStateOpen, response.State)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_DraftForbiddenForNonAdmin() {
	user := suite.createTestUser("user@example.gov", false)

	body, _ := json.Marshal(map[string]interface{}{
		"title": "Draft opportunity",
		"state": "draft",
	})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_MissingTitle() {
	user := suite.createTestUser("user@example.gov", false)

	body, _ := json.Marshal(map[string]interface{}{
		"description": "No title",
	})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_Success() {
	user := suite.createTestUser("user@example.gov", false)
	task := suite.createTestTask("Test Task", models.TaskStateOpen, user.ID)

	// Reload task with relations
	suite.db.Preload("Owner").Preload("Tags").Preload("Volunteers").First(&task, task.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks/1", nil, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Test Task", response.Title)
}

func (suite *TaskHandlerTestSuite) TestChangeState_Success() {
	user := suite.createTestUser("user@example.gov", false)
	task := suite.createTestTask("Test Task", models.TaskStateOpen, user.ID)

	body, _ := json.Marshal(map[string]string{"state": "closed"})
	c, w := suite.createAuthContext("POST", "/api/tasks/1/state", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.ChangeState(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.TaskStateClosed, response.State)
}

func (suite *TaskHandlerTestSuite) TestChangeState_UnknownState() {
	user := suite.createTestUser("user@example.gov", false)
	task := suite.createTestTask("Test Task", models.TaskStateOpen, user.ID)

	body, _ := json.Marshal(map[string]string{"state": "archived"})
	c, w := suite.createAuthContext("POST", "/api/tasks/1/state", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.ChangeState(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestChangeState_StrangerForbidden() {
	owner := suite.createTestUser("owner@example.gov", false)
	stranger := suite.createTestUser("stranger@example.gov", false)
	task := suite.createTestTask("Test Task", models.TaskStateOpen, owner.ID)

	body, _ := json.Marshal(map[string]string{"state": "closed"})
	c, w := suite.createAuthContext("POST", "/api/tasks/1/state", body, stranger.ID)
	suite.setTaskContext(c, *task)

	suite.handler.ChangeState(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCopyTask_Success() {
	user := suite.createTestUser("user@example.gov", false)
	task := suite.createTestTask("Original", models.TaskStateOpen, user.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"taskId": task.ID,
		"title":  "Original (copy)",
	})
	c, w := suite.createAuthContext("POST", "/api/tasks/copy", body, user.ID)

	suite.handler.CopyTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Original (copy)", response.Title)
	assert.Equal(suite.T(), models.TaskStateDraft, response.State)
	assert.NotEqual(suite.T(), task.ID, response.ID)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Success() {
	user := suite.createTestUser("user@example.gov", false)
	suite.createTestTask("Task one", models.TaskStateOpen, user.ID)
	suite.createTestTask("Task two", models.TaskStateClosed, user.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks?state=open", nil, user.ID)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(suite.T(), response, "tasks")
	assert.Contains(suite.T(), response, "total_count")
	assert.EqualValues(suite.T(), 1, response["total_count"])

	tasks := response["tasks"].([]interface{})
	suite.Require().Len(tasks, 1)
	firstTask := tasks[0].(map[string]interface{})
	assert.Equal(suite.T(), "Task one", firstTask["title"])
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
