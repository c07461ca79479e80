package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"roadmapboard/internal/errors"
)

// DefaultWorkbookSource is the workbook the dashboard reads when none is configured
const DefaultWorkbookSource = "data/Mobile Credentials Departments.xlsx"

// Config represents the complete application configuration
type Config struct {
	Workbook WorkbookConfig
	Server   ServerConfig
	Database DatabaseConfig
	Reload   ReloadConfig
	Slack    SlackConfig
	Log      LogConfig
	Rules    Rules
}

// WorkbookConfig holds the workbook location and how "today" is computed
type WorkbookConfig struct {
	Source       string
	FetchTimeout time.Duration
	Location     *time.Location
	RulesFile    string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds the load history store settings
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether load history is persisted
func (d DatabaseConfig) Enabled() bool {
	return d.URL != "" && !strings.EqualFold(d.URL, "none")
}

// ReloadConfig holds the automatic reload triggers
type ReloadConfig struct {
	Schedule      string
	WatchWorkbook bool
}

// SlackConfig holds notifier settings
type SlackConfig struct {
	BotToken  string
	ChannelID string
}

// Enabled reports whether both the token and the channel are set
func (s SlackConfig) Enabled() bool {
	return s.BotToken != "" && s.ChannelID != ""
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	workbookConfig, err := loadWorkbookConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load workbook configuration")
	}
	config.Workbook = *workbookConfig

	config.Server = ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
	config.Database = DatabaseConfig{
		URL: getEnvOrDefault("DATABASE_URL", "roadmapboard.db"),
	}
	config.Reload = ReloadConfig{
		Schedule:      strings.TrimSpace(os.Getenv("RELOAD_SCHEDULE")),
		WatchWorkbook: getEnvBoolOrDefault("WATCH_WORKBOOK", false),
	}
	config.Slack = SlackConfig{
		BotToken:  os.Getenv("SLACK_BOT_TOKEN"),
		ChannelID: os.Getenv("SLACK_CHANNEL_ID"),
	}
	config.Log = LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "console"),
	}

	rules, err := LoadRules(config.Workbook.RulesFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load rules")
	}
	config.Rules = *rules

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadWorkbookConfig() (*WorkbookConfig, error) {
	loc := time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, errors.ConfigInvalid("invalid TIMEZONE " + tz)
		}
		loc = l
	}

	timeout, err := getEnvDuration("FETCH_TIMEOUT")
	if err != nil {
		return nil, err
	}

	return &WorkbookConfig{
		Source:       getEnvOrDefault("WORKBOOK_SOURCE", DefaultWorkbookSource),
		FetchTimeout: timeout,
		Location:     loc,
		RulesFile:    os.Getenv("RULES_FILE"),
	}, nil
}

func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Workbook.Source) == "" {
		return errors.ConfigInvalid("WORKBOOK_SOURCE is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if config.Reload.Schedule != "" {
		if _, err := cron.ParseStandard(config.Reload.Schedule); err != nil {
			return errors.ConfigInvalid("invalid RELOAD_SCHEDULE: " + err.Error())
		}
	}
	if (config.Slack.BotToken == "") != (config.Slack.ChannelID == "") {
		return errors.ConfigInvalid("SLACK_BOT_TOKEN and SLACK_CHANNEL_ID must be set together")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s") or plain seconds ("30"); unset is zero.
func getEnvDuration(key string) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return 0, nil
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0, errors.ConfigInvalid("invalid " + key + " " + value)
	}
	return d, nil
}
