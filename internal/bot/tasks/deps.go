// Package tasks implements scheduled tasks for the welcomebot application.
package tasks

import (
	"log/slog"

	"github.com/edgard/welcomebot/internal/config"
	"github.com/edgard/welcomebot/internal/database"
)

// TaskDeps contains the dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
