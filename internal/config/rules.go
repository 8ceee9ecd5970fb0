package config

import (
	"fmt"
	"os"

	"crm-analytics/internal/analytics"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// LoadStageRules reads a stage rules file. Kinds the file leaves empty keep
// the built-in Portuguese rules.
func LoadStageRules(path string) (analytics.StageRules, error) {
	if _, err := os.Stat(path); err != nil {
		return analytics.StageRules{}, fmt.Errorf("stage rules file %s: %w", path, err)
	}

	var rules analytics.StageRules
	if err := cleanenv.ReadConfig(path, &rules); err != nil {
		return analytics.StageRules{}, fmt.Errorf("cannot read stage rules: %w", err)
	}
	return rules.WithDefaults(), nil
}

// MarshalStageRules renders rules in the format LoadStageRules reads.
func MarshalStageRules(rules analytics.StageRules) ([]byte, error) {
	buf, err := yaml.Marshal(rules)
	if err != nil {
		return nil, fmt.Errorf("marshal stage rules: %w", err)
	}
	return buf, nil
}

// WriteStageRules writes rules to path.
func WriteStageRules(path string, rules analytics.StageRules) error {
	buf, err := MarshalStageRules(rules)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("write stage rules: %w", err)
	}
	return nil
}
