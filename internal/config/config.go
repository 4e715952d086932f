package config

import (
	"fmt"
	"html/template"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default values for customization style
const (
	defaultTitle           string       = "Ticketing App"
	defaultCompletedLabel  string       = "Completed"
	defaultCompletedColor  template.CSS = "#87d068"
	defaultIncompleteLabel string       = "InComplete"
	defaultIncompleteColor template.CSS = "#f50"
)

// LoadConfig loads the UI configuration from the given path. An empty path
// yields the defaults.
func LoadConfig(path string) (UIConfig, error) {
	cfg := UIConfig{}
	if path == "" {
		setStyleDefaults(&cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %v", err)
	}

	setStyleDefaults(&cfg)
	return cfg, nil
}

// ValidateConfig checks the consistency and correctness of a UI config.
func ValidateConfig(cfg *UIConfig) error {
	var errs []string

	if cfg.RefreshInterval < 0 {
		errs = append(errs, "refreshInterval must be >= 0")
	}

	for field, value := range map[string]template.CSS{
		"status.completedColor":  cfg.Status.CompletedColor,
		"status.incompleteColor": cfg.Status.IncompleteColor,
	} {
		if err := validateCSSValue(field, value); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// validateCSSValue rejects characters that could break out of a style
// attribute.
func validateCSSValue(field string, value template.CSS) error {
	for _, c := range `"<>;` {
		if strings.ContainsRune(string(value), c) {
			return fmt.Errorf("%s: contains illegal character %q", field, c)
		}
	}
	return nil
}

// setDefault assigns dst to val only if *dst is empty.
func setDefault[T ~string](dst *T, val T) {
	if *dst == "" {
		*dst = val
	}
}

// setStyleDefaults fills in missing customization fields with default values.
func setStyleDefaults(cfg *UIConfig) {
	setDefault(&cfg.Title, defaultTitle)
	setDefault(&cfg.Status.CompletedLabel, defaultCompletedLabel)
	setDefault(&cfg.Status.CompletedColor, defaultCompletedColor)
	setDefault(&cfg.Status.IncompleteLabel, defaultIncompleteLabel)
	setDefault(&cfg.Status.IncompleteColor, defaultIncompleteColor)
}
