package config

import (
	"html/template"
	"time"
)

// UIConfig customizes the rendered pages. Everything has a sensible default;
// the config file is optional.
type UIConfig struct {
	Title           string        `yaml:"title"`
	RefreshInterval time.Duration `yaml:"refreshInterval"` // 0 disables auto-refresh of the list page
	Status          StatusStyle   `yaml:"status"`
}

// StatusStyle controls how the completed flag is displayed.
type StatusStyle struct {
	CompletedLabel  string       `yaml:"completedLabel"`
	CompletedColor  template.CSS `yaml:"completedColor"`
	IncompleteLabel string       `yaml:"incompleteLabel"`
	IncompleteColor template.CSS `yaml:"incompleteColor"`
}

// Label returns the display label for a completed value.
func (s StatusStyle) Label(completed bool) string {
	if completed {
		return s.CompletedLabel
	}
	return s.IncompleteLabel
}

// Color returns the tag color for a completed value.
func (s StatusStyle) Color(completed bool) template.CSS {
	if completed {
		return s.CompletedColor
	}
	return s.IncompleteColor
}
