package database

import (
	"fmt"
	"log"

	"github.com/openopps/openopps-api/internal/models"
	"gorm.io/gorm"
)

func Migrate() error {
	log.Println("Running database migrations...")
	err := DB.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Project{},
		&models.Task{},
		&models.Volunteer{},
		&models.Notification{},
		&models.UserSetting{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")
	return nil
}

// AddIndexes adds performance-critical indexes beyond what AutoMigrate
// derives from the model tags.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"tasks", "idx_tasks_user_id", "user_id"},
		{"tasks", "idx_tasks_project_id", "project_id"},
		{"tasks", "idx_tasks_state", "state"},
		{"tasks", "idx_tasks_created_at", "created_at"},

		{"volunteers", "idx_volunteers_task_id", "task_id"},
		{"volunteers", "idx_volunteers_user_id", "user_id"},

		{"notifications", "idx_notifications_created_at", "created_at"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
