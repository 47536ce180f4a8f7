// Package config provides configuration loading, validation, and defaults
// for the welcomebot application. Values come from a YAML file with BOT_*
// environment variable overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/viper"
)

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot credential and identity. Token and
// BotUsername are mandatory; their absence is a fatal startup error.
type TelegramConfig struct {
	Token       string `mapstructure:"token"        validate:"required"`
	BotUsername string `mapstructure:"bot_username" validate:"required"`
	Command     string `mapstructure:"command"      validate:"required"`

	// BotInfo is populated at startup from GetMe and carries the bot's own
	// user id, needed to recognize the bot in membership events.
	BotInfo *models.User `mapstructure:"-"`
}

// DatabaseConfig holds the SQLite storage location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// MessagesConfig holds all user-visible message texts. Intro and
// DefaultTemplate are welcome-message templates and pass through the
// template engine before sending; the rest are sent as-is. Intro and Help
// may reference the configured command as $command; Load expands it.
type MessagesConfig struct {
	DefaultTemplate string `mapstructure:"default_template" validate:"required"`
	Intro           string `mapstructure:"intro"            validate:"required"`
	Start           string `mapstructure:"start"            validate:"required"`
	Help            string `mapstructure:"help"             validate:"required"`

	// ErrorPrefix marks all user-visible error messages as bot error
	// output, distinct from normal bot messages.
	ErrorPrefix      string `mapstructure:"error_prefix" validate:"required"`
	ErrNotOwner      string `mapstructure:"err_not_owner" validate:"required"`
	ErrEmptyTemplate string `mapstructure:"err_empty"     validate:"required"`
	ErrNotGroup      string `mapstructure:"err_not_group" validate:"required"`
	ErrGeneral       string `mapstructure:"err_general"   validate:"required"`
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// Config is the root application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// Load reads configuration from the YAML file at path (a missing file is
// allowed; defaults and environment variables still apply), applies BOT_*
// environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so the
	// mandatory values without defaults need explicit binds to work from the
	// environment alone.
	for _, key := range []string{"telegram.token", "telegram.bot_username"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %q: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		slog.Info("Configuration file not found, using defaults and environment", "path", path)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	// Message texts name the command via $command so they stay correct when
	// telegram.command is changed.
	command := "/" + cfg.Telegram.Command
	cfg.Messages.Intro = strings.ReplaceAll(cfg.Messages.Intro, "$command", command)
	cfg.Messages.Help = strings.ReplaceAll(cfg.Messages.Help, "$command", command)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	v.SetDefault("database.path", "storage.db")

	v.SetDefault("telegram.command", "setwelcome")

	v.SetDefault("messages.default_template", "Hello $safeusername, welcome to $groupname!")
	v.SetDefault("messages.intro",
		"Hello $safeusername, thanks for adding me to $groupname! "+
			"I will greet every new member of this group. "+
			"Use $command followed by your own text to change the welcome message. "+
			"You can use the placeholders $$username, $$safeusername, $$firstname and $$groupname.")
	v.SetDefault("messages.start",
		"Hi! I greet new members of group chats with a customizable welcome message. "+
			"Add me to a group to get started.")
	v.SetDefault("messages.help",
		"Add me to a group and I will greet every new member. "+
			"The member who added me can change the greeting with $command followed by the new text. "+
			"Supported placeholders: $username, $safeusername, $firstname and $groupname. "+
			"Double the dollar sign ($$username) for a literal placeholder.")

	v.SetDefault("messages.error_prefix", "*Error:* ")
	v.SetDefault("messages.err_not_owner", "only the member who added me to this group can change the welcome message")
	v.SetDefault("messages.err_empty", "the welcome message cannot be empty")
	v.SetDefault("messages.err_not_group", "this command only works inside a group chat")
	v.SetDefault("messages.err_general", "something went wrong, please try again later")

	v.SetDefault("scheduler.tasks.db_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.db_maintenance.schedule", "0 0 4 * * *")
}
