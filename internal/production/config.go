// Package production provides host integrations for the board engine:
// config loading, notice publishing, snapshot persistence, visualization
// and tracing.
package production

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/comalice/spaceteam/internal/primitives"
)

// LoadBoardConfig builds a board config from the stock defaults, the YAML
// file at path (skipped when path is empty) and SPACETEAM_* environment
// overrides, in that order. The result is validated.
func LoadBoardConfig(path string) (primitives.BoardConfig, error) {
	cfg := primitives.DefaultBoardConfig(0)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return primitives.BoardConfig{}, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return primitives.BoardConfig{}, fmt.Errorf("yaml unmarshal %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return primitives.BoardConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return primitives.BoardConfig{}, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// SaveBoardConfig writes cfg as YAML.
func SaveBoardConfig(path string, cfg primitives.BoardConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// IsMissing reports whether err came from a config file that does not exist.
func IsMissing(err error) bool { return errors.Is(err, os.ErrNotExist) }
