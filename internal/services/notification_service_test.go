package services

import (
	"errors"
	"testing"

	"github.com/openopps/openopps-api/internal/models"
	"github.com/openopps/openopps-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type failingMailer struct {
	calls int
}

func (m *failingMailer) Send(recipient, subject, body string) error {
	m.calls++
	return errors.New("smtp unreachable")
}

type failingNotificationRepo struct{}

func (r *failingNotificationRepo) Create(n *models.Notification) error {
	return errors.New("insert failed")
}

func (r *failingNotificationRepo) ListByRecipient(recipient string) ([]models.Notification, error) {
	return nil, errors.New("select failed")
}

// NotificationServiceTestSuite defines the test suite for NotificationService
type NotificationServiceTestSuite struct {
	suite.Suite
	db *gorm.DB
}

// SetupTest runs before each test
func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
}

// TearDownTest runs after each test
func (suite *NotificationServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *NotificationServiceTestSuite) newService(mailer Mailer) *NotificationService {
	return NewNotificationService(repository.NewNotificationRepository(suite.db), mailer, newTestLogger())
}

func (suite *NotificationServiceTestSuite) TestDispatch_WelcomeGoesToUsername() {
	service := suite.newService(nil)

	service.Dispatch(ActionUserWelcome, WelcomePayload{
		User: models.User{ID: 7, Username: "alice@example.gov", Name: "Alice"},
	})

	var notifications []models.Notification
	suite.db.Find(&notifications)
	suite.Require().Len(notifications, 1)

	n := notifications[0]
	assert.Equal(suite.T(), "alice@example.gov", n.Recipient)
	assert.Equal(suite.T(), "Welcome to OpenOpps", n.Subject)
	assert.Equal(suite.T(), "user", n.ModelType)
	assert.Equal(suite.T(), uint64(7), n.ModelID)
	assert.Contains(suite.T(), n.Body, "Alice")
}

func (suite *NotificationServiceTestSuite) TestDispatch_FallbackGreetingWithoutName() {
	service := suite.newService(nil)

	service.Dispatch(ActionUserWelcome, WelcomePayload{
		User: models.User{ID: 7, Username: "alice@example.gov"},
	})

	var n models.Notification
	suite.db.First(&n)
	assert.Contains(suite.T(), n.Body, "Hi there")
}

func (suite *NotificationServiceTestSuite) TestDispatch_UnknownActionIsIgnored() {
	service := suite.newService(nil)

	assert.NotPanics(suite.T(), func() {
		service.Dispatch("task.destroy", struct{}{})
	})

	var count int64
	suite.db.Model(&models.Notification{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *NotificationServiceTestSuite) TestDispatch_WrongPayloadIsIgnored() {
	service := suite.newService(nil)

	assert.NotPanics(suite.T(), func() {
		service.Dispatch(ActionUserWelcome, TaskThanksPayload{})
	})

	var count int64
	suite.db.Model(&models.Notification{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *NotificationServiceTestSuite) TestDispatch_MailerFailureIsSwallowed() {
	mailer := &failingMailer{}
	service := suite.newService(mailer)

	assert.NotPanics(suite.T(), func() {
		service.Dispatch(ActionUserWelcome, WelcomePayload{
			User: models.User{ID: 7, Username: "alice@example.gov"},
		})
	})

	// The record is still stored even though delivery failed.
	assert.Equal(suite.T(), 1, mailer.calls)
	var count int64
	suite.db.Model(&models.Notification{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *NotificationServiceTestSuite) TestDispatch_StoreFailureIsSwallowed() {
	mailer := &failingMailer{}
	service := NewNotificationService(&failingNotificationRepo{}, mailer, newTestLogger())

	assert.NotPanics(suite.T(), func() {
		service.Dispatch(ActionUserWelcome, WelcomePayload{
			User: models.User{ID: 7, Username: "alice@example.gov"},
		})
	})

	// No delivery without a stored record.
	assert.Equal(suite.T(), 0, mailer.calls)
}

func (suite *NotificationServiceTestSuite) TestHistory_ReturnsRecipientRecords() {
	service := suite.newService(nil)

	service.Dispatch(ActionUserWelcome, WelcomePayload{
		User: models.User{ID: 7, Username: "alice@example.gov"},
	})
	service.Dispatch(ActionUserWelcome, WelcomePayload{
		User: models.User{ID: 8, Username: "bob@example.gov"},
	})

	history, err := service.History("alice@example.gov")
	suite.Require().NoError(err)
	suite.Require().Len(history, 1)
	assert.Equal(suite.T(), "alice@example.gov", history[0].Recipient)
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
