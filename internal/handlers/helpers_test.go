package handlers

import (
	"github.com/openopps/openopps-api/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		TaskStates:     "draft,open,closed",
		DraftAdminOnly: true,
		CopyTaskState:  "draft",
	}
}
