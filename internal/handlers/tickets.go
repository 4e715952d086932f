package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/acme/ticketpanel/internal/api"
	"github.com/acme/ticketpanel/internal/config"
	"github.com/acme/ticketpanel/internal/flash"
	"github.com/acme/ticketpanel/internal/templates"
	"github.com/acme/ticketpanel/internal/ticket"
)

// ListPage is the data for the "tickets" template.
type ListPage struct {
	Title          string
	Version        string
	BasePath       string
	RefreshSeconds int
	Tickets        []ticket.DetailTicket
	Loaded         bool
	ModalOpen      bool
	FormError      string
	Notice         *flash.Notice
}

// ListHandler renders the ticket list. Each page load refreshes the detailed
// list from the backend; on failure the previous state stays visible and the
// error is shown as a transient notice.
func ListHandler(
	webFS fs.FS,
	gw api.Gateway,
	store *ticket.Store,
	users *ticket.UserStore,
	cfg config.UIConfig,
	basePath string,
	version string,
	logger *slog.Logger,
) http.HandlerFunc {
	tmpl := templates.ParsePageTemplates(webFS, templates.TemplateFuncMap(cfg.Status))

	return func(w http.ResponseWriter, r *http.Request) {
		notice := readNotice(w, r)

		if err := ensureUsers(r.Context(), gw, users); err != nil {
			logger.Error("load users", "error", err)
			if notice == nil {
				n := flash.Error(err.Error())
				notice = &n
			}
		}

		tickets, err := gw.ListTickets(r.Context())
		if err != nil {
			logger.Error("list tickets", "error", err)
			if notice == nil {
				n := flash.Error(err.Error())
				notice = &n
			}
		} else {
			store.ReplaceAll(tickets, users.Users())
		}

		renderListPage(w, http.StatusOK, tmpl, store, cfg, basePath, version, notice, "")
	}
}

// renderListPage executes the "tickets" template over the current store
// state. The create-ticket action reuses it to show validation errors inline.
func renderListPage(
	w http.ResponseWriter,
	status int,
	tmpl *template.Template,
	store *ticket.Store,
	cfg config.UIConfig,
	basePath string,
	version string,
	notice *flash.Notice,
	formError string,
) {
	detailed, loaded := store.DetailedTickets()

	page := ListPage{
		Title:          cfg.Title,
		Version:        version,
		BasePath:       basePath,
		RefreshSeconds: int(cfg.RefreshInterval.Seconds()),
		Tickets:        detailed,
		Loaded:         loaded,
		ModalOpen:      store.CreateModalOpen(),
		FormError:      formError,
		Notice:         notice,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "tickets", page); err != nil {
		fmt.Fprintf(w, `<div class="notice notice-error">Failed to render page: %s</div>`, err) // nolint:errcheck
	}
}
