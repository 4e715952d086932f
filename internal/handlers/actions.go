package handlers

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/acme/ticketpanel/internal/api"
	"github.com/acme/ticketpanel/internal/config"
	"github.com/acme/ticketpanel/internal/flash"
	"github.com/acme/ticketpanel/internal/templates"
	"github.com/acme/ticketpanel/internal/ticket"
	"github.com/acme/ticketpanel/internal/utils"
)

// Notification texts shown after an action, matching the backend client's
// original notices.
const (
	msgCreateSuccess     = "Create ticket success"
	msgAssignSuccess     = "Assign success"
	msgAssignFail        = "Assign Fail"
	msgUnassignSuccess   = "Unassign success"
	msgUnassignFail      = "Unassign Fail"
	msgCompleteSuccess   = "Set Complete Success"
	msgCompleteFail      = "Set Complete Fail"
	msgIncompleteSuccess = "Set InComplete Success"
	msgIncompleteFail    = "Set InComplete Fail"
)

// OpenCreateModalHandler opens the create-ticket modal.
func OpenCreateModalHandler(store *ticket.Store, basePath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.SetCreateModalOpen(true)
		http.Redirect(w, r, basePath+"/", http.StatusSeeOther)
	}
}

// CloseCreateModalHandler closes the create-ticket modal.
func CloseCreateModalHandler(store *ticket.Store, basePath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.SetCreateModalOpen(false)
		http.Redirect(w, r, basePath+"/", http.StatusSeeOther)
	}
}

// CreateTicketHandler creates a ticket from the modal form. An empty
// description never reaches the gateway; it re-renders the list with the
// validation error inline. The store is only mutated after the backend
// confirmed the create.
func CreateTicketHandler(
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
		description := strings.TrimSpace(r.FormValue("description"))
		if description == "" {
			store.SetCreateModalOpen(true)
			renderListPage(w, http.StatusUnprocessableEntity, tmpl, store, cfg, basePath, version, nil, "Description is required")
			return
		}

		created, err := gw.CreateTicket(r.Context(), description)
		if err != nil {
			logger.Error("create ticket", "error", err)
			flash.Write(w, r, flash.Error(err.Error()))
			http.Redirect(w, r, basePath+"/", http.StatusSeeOther)
			return
		}

		store.AddOne(created, users.Users())
		store.SetCreateModalOpen(false)
		flash.Write(w, r, flash.Success(msgCreateSuccess))
		http.Redirect(w, r, basePath+"/", http.StatusSeeOther)
	}
}

// AssignHandler assigns the selected user to a ticket.
func AssignHandler(gw api.Gateway, store *ticket.Store, users *ticket.UserStore, basePath string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticketID, ok := numericPathID(w, r, basePath)
		if !ok {
			return
		}

		rawUser := r.FormValue("userId")
		if !utils.IsNumeric(rawUser) {
			flash.Write(w, r, flash.Error(msgAssignFail))
			redirectToDetail(w, r, basePath, ticketID)
			return
		}
		userID, _ := strconv.Atoi(rawUser)

		if err := gw.AssignUser(r.Context(), ticketID, userID); err != nil {
			logger.Error("assign user", "ticket", ticketID, "user", userID, "error", err)
			flash.Write(w, r, flash.Error(msgAssignFail))
			redirectToDetail(w, r, basePath, ticketID)
			return
		}

		// The backend confirmed the assignment; mutate only when the user is
		// known locally so the join stays consistent.
		if user, found := findUser(users.Users(), userID); found {
			store.Assign(ticketID, user)
		}
		flash.Write(w, r, flash.Success(msgAssignSuccess))
		redirectToDetail(w, r, basePath, ticketID)
	}
}

// UnassignHandler removes the assignee from a ticket.
func UnassignHandler(gw api.Gateway, store *ticket.Store, basePath string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticketID, ok := numericPathID(w, r, basePath)
		if !ok {
			return
		}

		if err := gw.UnassignUser(r.Context(), ticketID); err != nil {
			logger.Error("unassign user", "ticket", ticketID, "error", err)
			flash.Write(w, r, flash.Error(msgUnassignFail))
			redirectToDetail(w, r, basePath, ticketID)
			return
		}

		store.Unassign(ticketID)
		flash.Write(w, r, flash.Success(msgUnassignSuccess))
		redirectToDetail(w, r, basePath, ticketID)
	}
}

// CompleteHandler marks a ticket as completed.
func CompleteHandler(gw api.Gateway, store *ticket.Store, basePath string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticketID, ok := numericPathID(w, r, basePath)
		if !ok {
			return
		}

		if err := gw.MarkComplete(r.Context(), ticketID); err != nil {
			logger.Error("mark complete", "ticket", ticketID, "error", err)
			flash.Write(w, r, flash.Error(msgCompleteFail))
			redirectToDetail(w, r, basePath, ticketID)
			return
		}

		store.SetStatus(ticketID, true)
		flash.Write(w, r, flash.Success(msgCompleteSuccess))
		redirectToDetail(w, r, basePath, ticketID)
	}
}

// IncompleteHandler marks a ticket as incomplete.
func IncompleteHandler(gw api.Gateway, store *ticket.Store, basePath string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticketID, ok := numericPathID(w, r, basePath)
		if !ok {
			return
		}

		if err := gw.MarkIncomplete(r.Context(), ticketID); err != nil {
			logger.Error("mark incomplete", "ticket", ticketID, "error", err)
			flash.Write(w, r, flash.Error(msgIncompleteFail))
			redirectToDetail(w, r, basePath, ticketID)
			return
		}

		store.SetStatus(ticketID, false)
		flash.Write(w, r, flash.Success(msgIncompleteSuccess))
		redirectToDetail(w, r, basePath, ticketID)
	}
}

// numericPathID extracts the {id} path value. A non-numeric id sends the
// caller back to the list.
func numericPathID(w http.ResponseWriter, r *http.Request, basePath string) (int, bool) {
	id := r.PathValue("id")
	if !utils.IsNumeric(id) {
		http.Redirect(w, r, basePath+"/", http.StatusSeeOther)
		return 0, false
	}
	ticketID, _ := strconv.Atoi(id)
	return ticketID, true
}

func redirectToDetail(w http.ResponseWriter, r *http.Request, basePath string, ticketID int) {
	http.Redirect(w, r, basePath+"/tickets/"+strconv.Itoa(ticketID), http.StatusSeeOther)
}

func findUser(users []ticket.User, id int) (ticket.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return ticket.User{}, false
}
