package ticketpanel

import "embed"

// WebFS carries the templates and static assets shipped with the binary.
//
//go:embed web
var WebFS embed.FS
