package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmapboard/internal/errors"
)

var configEnvKeys = []string{
	"WORKBOOK_SOURCE", "PORT", "GIN_MODE", "DATABASE_URL", "RELOAD_SCHEDULE",
	"WATCH_WORKBOOK", "TIMEZONE", "FETCH_TIMEOUT", "RULES_FILE",
	"SLACK_BOT_TOKEN", "SLACK_CHANNEL_ID", "LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkbookSource, cfg.Workbook.Source)
	assert.Equal(t, time.Duration(0), cfg.Workbook.FetchTimeout)
	assert.Equal(t, time.Local, cfg.Workbook.Location)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.True(t, cfg.Database.Enabled())
	assert.Empty(t, cfg.Reload.Schedule)
	assert.False(t, cfg.Reload.WatchWorkbook)
	assert.False(t, cfg.Slack.Enabled())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, Rules{}, cfg.Rules)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("WORKBOOK_SOURCE", "https://example.org/book.xlsx")
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "none")
	t.Setenv("RELOAD_SCHEDULE", "*/15 * * * *")
	t.Setenv("WATCH_WORKBOOK", "true")
	t.Setenv("TIMEZONE", "America/Chicago")
	t.Setenv("FETCH_TIMEOUT", "45")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_CHANNEL_ID", "C123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/book.xlsx", cfg.Workbook.Source)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, "*/15 * * * *", cfg.Reload.Schedule)
	assert.True(t, cfg.Reload.WatchWorkbook)
	assert.Equal(t, "America/Chicago", cfg.Workbook.Location.String())
	assert.Equal(t, 45*time.Second, cfg.Workbook.FetchTimeout)
	assert.True(t, cfg.Slack.Enabled())
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad timezone", map[string]string{"TIMEZONE": "Mars/Olympus"}},
		{"bad schedule", map[string]string{"RELOAD_SCHEDULE": "every tuesday"}},
		{"bad port", map[string]string{"PORT": "http"}},
		{"bad gin mode", map[string]string{"GIN_MODE": "verbose"}},
		{"bad timeout", map[string]string{"FETCH_TIMEOUT": "soon"}},
		{"half slack", map[string]string{"SLACK_BOT_TOKEN": "xoxb-test"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range test.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
summary_labels: ["sum of", "total"]
risk_keywords: [blocked, delay]
aliases:
  rolloutdate: ["go live", "launch"]
header_scan_rows: 40
timeline_limit: 8
watch_window_days: 14
`), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"sum of", "total"}, rules.SummaryLabels)
	assert.Equal(t, []string{"blocked", "delay"}, rules.RiskKeywords)
	assert.Equal(t, []string{"go live", "launch"}, rules.Aliases["rolloutdate"])
	assert.Equal(t, 40, rules.HeaderScanRows)
	assert.Equal(t, 8, rules.TimelineLimit)
	assert.Equal(t, 14, rules.WatchWindowDays)
}

func TestLoadRulesErrors(t *testing.T) {
	rules, err := LoadRules("")
	require.NoError(t, err)
	assert.Equal(t, &Rules{}, rules)

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("summary_labels: {nope"), 0o600))
	_, err = LoadRules(bad)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	negative := filepath.Join(t.TempDir(), "negative.yaml")
	require.NoError(t, os.WriteFile(negative, []byte("timeline_limit: -1\n"), 0o600))
	_, err = LoadRules(negative)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoadWithRulesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeline_limit: 6\n"), 0o600))
	t.Setenv("RULES_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Rules.TimelineLimit)
}
