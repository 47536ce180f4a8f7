package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edgard/welcomebot/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  bot_username: "my_greeter_bot"
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("Token = %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.Command != "setwelcome" {
		t.Errorf("Command default = %q, want setwelcome", cfg.Telegram.Command)
	}
	if cfg.Database.Path != "storage.db" {
		t.Errorf("Database.Path default = %q, want storage.db", cfg.Database.Path)
	}
	if cfg.Logger.Level != "info" {
		t.Errorf("Logger.Level default = %q, want info", cfg.Logger.Level)
	}
	if cfg.Messages.DefaultTemplate == "" {
		t.Error("Messages.DefaultTemplate default is empty")
	}
	if cfg.Messages.ErrorPrefix == "" {
		t.Error("Messages.ErrorPrefix default is empty")
	}
	task, ok := cfg.Scheduler.Tasks["db_maintenance"]
	if !ok {
		t.Fatal("db_maintenance task missing from defaults")
	}
	if task.Schedule == "" {
		t.Error("db_maintenance schedule default is empty")
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  bot_username: "my_greeter_bot"
  command: "greeting"
database:
  path: "/data/bot.db"
logger:
  level: debug
  json: false
messages:
  default_template: "Hi $firstname"
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Telegram.Command != "greeting" {
		t.Errorf("Command = %q, want greeting", cfg.Telegram.Command)
	}
	if cfg.Database.Path != "/data/bot.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Logger.Level != "debug" || cfg.Logger.JSON {
		t.Errorf("Logger = %+v", cfg.Logger)
	}
	if cfg.Messages.DefaultTemplate != "Hi $firstname" {
		t.Errorf("DefaultTemplate = %q", cfg.Messages.DefaultTemplate)
	}
}

func TestLoad_EnvOnlyMandatoryValues(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "456:def")
	t.Setenv("BOT_TELEGRAM_BOT_USERNAME", "env_greeter_bot")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Telegram.Token != "456:def" {
		t.Errorf("Token = %q, want 456:def", cfg.Telegram.Token)
	}
	if cfg.Telegram.BotUsername != "env_greeter_bot" {
		t.Errorf("BotUsername = %q, want env_greeter_bot", cfg.Telegram.BotUsername)
	}
}

func TestLoad_ExpandsCommandInMessages(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  bot_username: "my_greeter_bot"
  command: "greeting"
messages:
  help: "Change the text with $command followed by the new message."
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := "Change the text with /greeting followed by the new message."
	if cfg.Messages.Help != want {
		t.Errorf("Help = %q, want %q", cfg.Messages.Help, want)
	}
	if !strings.Contains(cfg.Messages.Intro, "/greeting") {
		t.Errorf("Intro = %q, does not name /greeting", cfg.Messages.Intro)
	}
	if strings.Contains(cfg.Messages.Intro, "$command") {
		t.Errorf("Intro = %q, still carries $command", cfg.Messages.Intro)
	}
}

func TestLoad_MissingMandatoryValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing token",
			content: `
telegram:
  bot_username: "my_greeter_bot"
`,
		},
		{
			name: "missing bot username",
			content: `
telegram:
  token: "123:abc"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := config.Load(path); err == nil {
				t.Error("Load() succeeded despite missing mandatory value")
			}
		})
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  bot_username: "my_greeter_bot"
logger:
  level: loud
`)

	if _, err := config.Load(path); err == nil {
		t.Error("Load() accepted invalid log level")
	}
}
