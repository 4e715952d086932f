package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/acme/ticketpanel/internal/config"
	"github.com/acme/ticketpanel/internal/flash"
	"github.com/acme/ticketpanel/internal/ticket"
	"github.com/stretchr/testify/require"
)

// fakeGateway stubs the backend per operation; unset operations succeed with
// zero values.
type fakeGateway struct {
	listTickets    func(ctx context.Context) ([]ticket.Ticket, error)
	getTicket      func(ctx context.Context, ticketID int) (ticket.Ticket, error)
	createTicket   func(ctx context.Context, description string) (ticket.Ticket, error)
	assignUser     func(ctx context.Context, ticketID, userID int) error
	unassignUser   func(ctx context.Context, ticketID int) error
	markComplete   func(ctx context.Context, ticketID int) error
	markIncomplete func(ctx context.Context, ticketID int) error
	listUsers      func(ctx context.Context) ([]ticket.User, error)

	userCalls int
}

func (f *fakeGateway) ListTickets(ctx context.Context) ([]ticket.Ticket, error) {
	if f.listTickets != nil {
		return f.listTickets(ctx)
	}
	return nil, nil
}

func (f *fakeGateway) GetTicket(ctx context.Context, ticketID int) (ticket.Ticket, error) {
	if f.getTicket != nil {
		return f.getTicket(ctx, ticketID)
	}
	return ticket.Ticket{}, nil
}

func (f *fakeGateway) CreateTicket(ctx context.Context, description string) (ticket.Ticket, error) {
	if f.createTicket != nil {
		return f.createTicket(ctx, description)
	}
	return ticket.Ticket{}, nil
}

func (f *fakeGateway) AssignUser(ctx context.Context, ticketID, userID int) error {
	if f.assignUser != nil {
		return f.assignUser(ctx, ticketID, userID)
	}
	return nil
}

func (f *fakeGateway) UnassignUser(ctx context.Context, ticketID int) error {
	if f.unassignUser != nil {
		return f.unassignUser(ctx, ticketID)
	}
	return nil
}

func (f *fakeGateway) MarkComplete(ctx context.Context, ticketID int) error {
	if f.markComplete != nil {
		return f.markComplete(ctx, ticketID)
	}
	return nil
}

func (f *fakeGateway) MarkIncomplete(ctx context.Context, ticketID int) error {
	if f.markIncomplete != nil {
		return f.markIncomplete(ctx, ticketID)
	}
	return nil
}

func (f *fakeGateway) ListUsers(ctx context.Context) ([]ticket.User, error) {
	f.userCalls++
	if f.listUsers != nil {
		return f.listUsers(ctx)
	}
	return nil, nil
}

// testWebFS carries minimal templates exercising the page data.
func testWebFS() fstest.MapFS {
	return fstest.MapFS{
		"web/templates/tickets.gohtml": &fstest.MapFile{
			Data: []byte(`{{define "tickets"}}tickets loaded={{.Loaded}} count={{len .Tickets}} modal={{.ModalOpen}} formerr={{.FormError}}{{if .Notice}} notice={{.Notice.Message}}{{end}}{{end}}`),
		},
		"web/templates/ticket_detail.gohtml": &fstest.MapFile{
			Data: []byte(`{{define "ticket_detail"}}detail id={{.Detail.Ticket.ID}} desc={{.Detail.Ticket.Description}} assignee={{if .Detail.Assignee}}{{.Detail.Assignee.Name}}{{else}}none{{end}} users={{len .Users}}{{if .Notice}} notice={{.Notice.Message}}{{end}}{{end}}`),
		},
		"web/templates/error.gohtml": &fstest.MapFile{
			Data: []byte(`{{define "not_found"}}not found id={{.TicketID}}{{end}}{{define "page_error"}}error: {{.Message}}{{end}}`),
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUIConfig() config.UIConfig {
	cfg, _ := config.LoadConfig("")
	return cfg
}

// flashFrom decodes the flash notice a handler left on the response.
func flashFrom(t *testing.T, rr *httptest.ResponseRecorder) (flash.Notice, bool) {
	t.Helper()

	setCookie := rr.Header().Get("Set-Cookie")
	if setCookie == "" {
		return flash.Notice{}, false
	}
	cookie, err := http.ParseSetCookie(setCookie)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	return flash.ReadAndClear(httptest.NewRecorder(), req)
}
