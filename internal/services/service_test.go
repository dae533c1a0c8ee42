package services

import (
	"io"
	"log/slog"
	"testing"

	"github.com/openopps/openopps-api/internal/config"
	"github.com/openopps/openopps-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an in-memory SQLite database with the same error
// translation the production connection uses, so duplicate-key
// violations surface as gorm.ErrDuplicatedKey in tests too.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Project{},
		&models.Task{},
		&models.Volunteer{},
		&models.Notification{},
		&models.UserSetting{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		TaskStates:     "draft,open,closed",
		DraftAdminOnly: true,
		CopyTaskState:  "draft",
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
