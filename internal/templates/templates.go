package templates

import (
	"html/template"
	"io/fs"
)

// ParsePageTemplates parses all page and partial templates from the embedded
// web filesystem.
func ParsePageTemplates(webFS fs.FS, funcMap template.FuncMap) *template.Template {
	return template.Must(
		template.New("pages").
			Funcs(funcMap).
			ParseFS(webFS, "web/templates/*.gohtml"),
	)
}
