package handlers

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/acme/ticketpanel/internal/api"
	"github.com/acme/ticketpanel/internal/flash"
	"github.com/acme/ticketpanel/internal/ticket"
)

// readNotice pops the one-time notice left by a previous action, if any.
func readNotice(w http.ResponseWriter, r *http.Request) *flash.Notice {
	notice, ok := flash.ReadAndClear(w, r)
	if !ok {
		return nil
	}
	return &notice
}

// ensureUsers populates the user cache on first use. Users are loaded once
// per session; later calls are free.
func ensureUsers(ctx context.Context, gw api.Gateway, users *ticket.UserStore) error {
	if users.Loaded() {
		return nil
	}
	list, err := gw.ListUsers(ctx)
	if err != nil {
		return err
	}
	users.SetUsers(list)
	return nil
}

// renderErrorPage renders a simple error page. Never panics; always writes something.
func renderErrorPage(
	w http.ResponseWriter,
	status int,
	tmpl *template.Template, // must contain "page_error"
	title, msg string,
	cause error,
) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	data := struct {
		Title   string
		Message string
		Error   string
	}{
		Title:   title,
		Message: msg,
	}
	if cause != nil {
		data.Error = cause.Error()
	}

	if tplErr := tmpl.ExecuteTemplate(w, "page_error", data); tplErr != nil {
		fmt.Fprintf(w, `<div class="notice notice-error">Failed to render error page: %s</div>`, tplErr) // nolint:errcheck
	}
}
