package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/acme/ticketpanel/internal/api"
	"github.com/acme/ticketpanel/internal/config"
	"github.com/acme/ticketpanel/internal/flash"
	"github.com/acme/ticketpanel/internal/templates"
	"github.com/acme/ticketpanel/internal/ticket"
	"github.com/acme/ticketpanel/internal/utils"
)

// DetailPage is the data for the "ticket_detail" template.
type DetailPage struct {
	Title          string
	Version        string
	BasePath       string
	RefreshSeconds int
	Detail         ticket.DetailTicket
	Users          []ticket.User
	Notice         *flash.Notice
}

// NotFoundPage is the data for the terminal "not_found" display.
type NotFoundPage struct {
	Title    string
	Version  string
	BasePath string
	TicketID string
	Message  string
}

// DetailHandler renders the detail page for one ticket. A non-numeric id
// clears the current detail ticket and returns to the list. The detail fetch
// requires the user cache so the assignee join can complete in the same step;
// the cache is populated first when absent. A fetch that lost a navigation
// race is dropped by the store's load-generation guard.
func DetailHandler(
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

		id := r.PathValue("id")
		if !utils.IsNumeric(id) {
			store.SetCurrent(nil)
			http.Redirect(w, r, basePath+"/", http.StatusSeeOther)
			return
		}
		ticketID, _ := strconv.Atoi(id)

		if err := ensureUsers(r.Context(), gw, users); err != nil {
			logger.Error("load users", "error", err)
			renderErrorPage(w, http.StatusBadGateway, tmpl, "Error", "Failed to load users.", err)
			return
		}

		gen := store.BeginDetailLoad()

		tk, err := gw.GetTicket(r.Context(), ticketID)
		if err != nil {
			logger.Error("get ticket", "id", ticketID, "error", err)
			store.SetCurrent(nil)
			renderNotFound(w, tmpl, cfg, basePath, version, id, err)
			return
		}

		dt := ticket.ResolveOne(tk, users.Users())
		store.SetCurrentIfLatest(gen, &dt)

		page := DetailPage{
			Title:    cfg.Title,
			Version:  version,
			BasePath: basePath,
			Detail:   dt,
			Users:    users.Users(),
			Notice:   notice,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := tmpl.ExecuteTemplate(w, "ticket_detail", page); err != nil {
			fmt.Fprintf(w, `<div class="notice notice-error">Failed to render page: %s</div>`, err) // nolint:errcheck
		}
	}
}

// renderNotFound renders the terminal not-found display for a detail fetch
// failure.
func renderNotFound(
	w http.ResponseWriter,
	tmpl *template.Template,
	cfg config.UIConfig,
	basePath, version, id string,
	cause error,
) {
	page := NotFoundPage{
		Title:    cfg.Title,
		Version:  version,
		BasePath: basePath,
		TicketID: id,
		Message:  cause.Error(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := tmpl.ExecuteTemplate(w, "not_found", page); err != nil {
		fmt.Fprintf(w, `<div class="notice notice-error">Failed to render page: %s</div>`, err) // nolint:errcheck
	}
}
