package redact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Rule struct {
	Name    string `yaml:"name" json:"name"`
	Pattern string `yaml:"pattern" json:"pattern"`
	Mask    string `yaml:"mask" json:"mask"`
	Enabled bool   `yaml:"enabled" json:"enabled"`
}

// RulesConfig lists masking rules. Fields restricts masking to the named
// payload fields; empty means every field except oid.
type RulesConfig struct {
	Fields []string `yaml:"fields" json:"fields"`
	Rules  []Rule   `yaml:"rules" json:"rules"`
}

func LoadRules(path string) (RulesConfig, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultRules(), fmt.Errorf("reading redaction rules: %w", err)
	}

	var cfg RulesConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return RulesConfig{}, fmt.Errorf("parsing redaction rules: %w", err)
	}

	if len(cfg.Rules) == 0 {
		return RulesConfig{}, errors.New("no redaction rules configured")
	}

	return cfg, nil
}

// DefaultRules mask identifiers that never belong in a lead's free text.
func DefaultRules() RulesConfig {
	return RulesConfig{
		Fields: []string{"description"},
		Rules: []Rule{
			{Name: "SSN", Pattern: `\b\d{3}-\d{2}-\d{4}\b`, Mask: "***-**-****", Enabled: true},
			{Name: "Card", Pattern: `\b(?:\d[ -]?){12,15}\d\b`, Mask: "****-****-****-****", Enabled: true},
		},
	}
}
