package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/acme/ticketpanel/internal/api"
	"github.com/acme/ticketpanel/internal/config"
	"github.com/acme/ticketpanel/internal/handlers"
	"github.com/acme/ticketpanel/internal/ticket"
)

// NewRouter creates a new HTTP router.
func NewRouter(
	webFS fs.FS,
	gw api.Gateway,
	store *ticket.Store,
	users *ticket.UserStore,
	cfg config.UIConfig,
	logger *slog.Logger,
	debug bool,
	version string,
	routePrefix string,
) http.Handler {
	root := http.NewServeMux()

	// Serve embedded static files
	staticContent, _ := fs.Sub(webFS, "web/static")
	fileServer := http.FileServer(http.FS(staticContent))
	root.Handle("GET /static/", http.StripPrefix("/static/", fileServer))

	// Health checks (no logging)
	root.Handle("GET /healthz", handlers.Healthz())
	root.Handle("POST /healthz", handlers.Healthz())

	// Pages
	root.Handle("GET /{$}", handlers.ListHandler(webFS, gw, store, users, cfg, routePrefix, version, logger))
	root.Handle("GET /tickets/{id}", handlers.DetailHandler(webFS, gw, store, users, cfg, routePrefix, version, logger))

	// Actions
	root.Handle("POST /tickets", handlers.CreateTicketHandler(webFS, gw, store, users, cfg, routePrefix, version, logger))
	root.Handle("POST /tickets/{id}/assign", handlers.AssignHandler(gw, store, users, routePrefix, logger))
	root.Handle("POST /tickets/{id}/unassign", handlers.UnassignHandler(gw, store, routePrefix, logger))
	root.Handle("POST /tickets/{id}/complete", handlers.CompleteHandler(gw, store, routePrefix, logger))
	root.Handle("POST /tickets/{id}/incomplete", handlers.IncompleteHandler(gw, store, routePrefix, logger))
	root.Handle("POST /create-ticket/open", handlers.OpenCreateModalHandler(store, routePrefix))
	root.Handle("POST /create-ticket/close", handlers.CloseCreateModalHandler(store, routePrefix))

	var h http.Handler = root
	if debug {
		h = Chain(h, LoggingMiddleware(logger))
	}

	return mountUnderPrefix(h, routePrefix)
}
