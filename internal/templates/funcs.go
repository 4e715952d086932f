package templates

import (
	"html/template"

	"github.com/acme/ticketpanel/internal/config"

	"github.com/Masterminds/sprig/v3"
)

// TemplateFuncMap returns all helper functions for templates. Status label
// and color lookups are bound to the configured style.
func TemplateFuncMap(status config.StatusStyle) template.FuncMap {
	fm := sprig.HtmlFuncMap()
	fm["statusLabel"] = status.Label
	fm["statusColor"] = status.Color
	return fm
}
