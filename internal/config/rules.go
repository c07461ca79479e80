package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"roadmapboard/internal/errors"
)

// Rules are the workbook interpretation settings read from RULES_FILE.
// Unset fields keep the built-in defaults.
type Rules struct {
	SummaryLabels   []string            `yaml:"summary_labels"`
	RiskKeywords    []string            `yaml:"risk_keywords"`
	Aliases         map[string][]string `yaml:"aliases"`
	HeaderScanRows  int                 `yaml:"header_scan_rows"`
	TimelineLimit   int                 `yaml:"timeline_limit"`
	WatchWindowDays int                 `yaml:"watch_window_days"`
}

// LoadRules reads a rules file; an empty path yields empty rules.
func LoadRules(path string) (*Rules, error) {
	rules := &Rules{}
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read rules file %s", path)
	}
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrapf(err, "invalid rules file %s", path))
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

// Validate rejects negative limits
func (r *Rules) Validate() error {
	if r.HeaderScanRows < 0 {
		return errors.ConfigInvalid("header_scan_rows must not be negative")
	}
	if r.TimelineLimit < 0 {
		return errors.ConfigInvalid("timeline_limit must not be negative")
	}
	if r.WatchWindowDays < 0 {
		return errors.ConfigInvalid("watch_window_days must not be negative")
	}
	return nil
}
