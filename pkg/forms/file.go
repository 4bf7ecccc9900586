package forms

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingFormID   = errors.New("form id required")
	ErrDuplicateFormID = errors.New("duplicate form id")
)

type fileConfig struct {
	Forms []Form `yaml:"forms"`
}

// LoadFile reads static form configuration. A missing file is not an error;
// it yields no forms.
func LoadFile(path string) ([]Form, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading forms file: %w", err)
	}
	return Parse(content)
}

func Parse(content []byte) ([]Form, error) {
	var cfg fileConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing forms file: %w", err)
	}

	seen := make(map[string]struct{}, len(cfg.Forms))
	for i := range cfg.Forms {
		id := strings.TrimSpace(cfg.Forms[i].ID)
		if id == "" {
			return nil, fmt.Errorf("form #%d: %w", i+1, ErrMissingFormID)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("form %s: %w", id, ErrDuplicateFormID)
		}
		seen[id] = struct{}{}
		cfg.Forms[i].ID = id
	}
	return cfg.Forms, nil
}
