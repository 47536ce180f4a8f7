package handlers

import (
	"log/slog"

	"github.com/edgard/welcomebot/internal/config"
	"github.com/edgard/welcomebot/internal/greeting"
)

// HandlerDeps provides dependencies for Telegram command and event handlers.
type HandlerDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Configs *greeting.ConfigStore
}
