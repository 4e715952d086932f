package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/acme/ticketpanel/internal/flash"
	"github.com/acme/ticketpanel/internal/ticket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// formRequest builds a POST with form values and the {id} path value set.
func formRequest(target, id string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if id != "" {
		req.SetPathValue("id", id)
	}
	return req
}

// seededStore holds one open ticket assigned to Alice and one completed
// unassigned ticket, with Alice and Bob in the user cache.
func seededStore(t *testing.T) (*ticket.Store, *ticket.UserStore) {
	t.Helper()

	users := ticket.NewUserStore()
	users.SetUsers([]ticket.User{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}})

	store := ticket.NewStore()
	store.ReplaceAll([]ticket.Ticket{
		{ID: 1, Description: "open one", AssigneeID: intPtr(1)},
		{ID: 2, Description: "done one", Completed: true},
	}, users.Users())

	return store, users
}

func TestCreateTicketHandler(t *testing.T) {
	t.Parallel()

	t.Run("empty description re-renders with a form error", func(t *testing.T) {
		t.Parallel()

		called := false
		gw := &fakeGateway{
			createTicket: func(ctx context.Context, description string) (ticket.Ticket, error) {
				called = true
				return ticket.Ticket{}, nil
			},
		}
		store, users := seededStore(t)

		h := CreateTicketHandler(testWebFS(), gw, store, users, testUIConfig(), "", "v1", testLogger())
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formRequest("/tickets", "", url.Values{"description": {"   "}}))

		body, _ := io.ReadAll(rr.Result().Body)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, string(body), "formerr=Description is required")
		assert.Contains(t, string(body), "modal=true")
		assert.False(t, called, "gateway must not be reached")
	})

	t.Run("success adds the ticket and redirects with a notice", func(t *testing.T) {
		t.Parallel()

		gw := &fakeGateway{
			createTicket: func(ctx context.Context, description string) (ticket.Ticket, error) {
				return ticket.Ticket{ID: 3, Description: description}, nil
			},
		}
		store, users := seededStore(t)
		store.SetCreateModalOpen(true)

		h := CreateTicketHandler(testWebFS(), gw, store, users, testUIConfig(), "", "v1", testLogger())
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formRequest("/tickets", "", url.Values{"description": {"new work"}}))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/", rr.Header().Get("Location"))

		notice, ok := flashFrom(t, rr)
		require.True(t, ok)
		assert.Equal(t, flash.KindSuccess, notice.Kind)
		assert.Equal(t, "Create ticket success", notice.Message)

		detailed, _ := store.DetailedTickets()
		require.Len(t, detailed, 3)
		assert.Equal(t, "new work", detailed[2].Ticket.Description)
		assert.False(t, store.CreateModalOpen())
	})

	t.Run("gateway failure leaves the store untouched", func(t *testing.T) {
		t.Parallel()

		gw := &fakeGateway{
			createTicket: func(ctx context.Context, description string) (ticket.Ticket, error) {
				return ticket.Ticket{}, assert.AnError
			},
		}
		store, users := seededStore(t)

		h := CreateTicketHandler(testWebFS(), gw, store, users, testUIConfig(), "", "v1", testLogger())
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formRequest("/tickets", "", url.Values{"description": {"doomed"}}))

		assert.Equal(t, http.StatusSeeOther, rr.Code)

		notice, ok := flashFrom(t, rr)
		require.True(t, ok)
		assert.Equal(t, flash.KindError, notice.Kind)

		detailed, _ := store.DetailedTickets()
		assert.Len(t, detailed, 2)
	})
}

func TestAssignHandler(t *testing.T) {
	t.Parallel()

	t.Run("assigns a known user and flashes success", func(t *testing.T) {
		t.Parallel()

		store, users := seededStore(t)
		h := AssignHandler(&fakeGateway{}, store, users, "", testLogger())

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formRequest("/tickets/2/assign", "2", url.Values{"userId": {"2"}}))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/tickets/2", rr.Header().Get("Location"))

		notice, ok := flashFrom(t, rr)
		require.True(t, ok)
		assert.Equal(t, "Assign success", notice.Message)

		detailed, _ := store.DetailedTickets()
		require.NotNil(t, detailed[1].Assignee)
		assert.Equal(t, "Bob", detailed[1].Assignee.Name)
	})

	t.Run("non-numeric user id fails before the gateway", func(t *testing.T) {
		t.Parallel()

		called := false
		gw := &fakeGateway{
			assignUser: func(ctx context.Context, ticketID, userID int) error {
				called = true
				return nil
			},
		}
		store, users := seededStore(t)
		h := AssignHandler(gw, store, users, "", testLogger())

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formRequest("/tickets/1/assign", "1", url.Values{"userId": {"bogus"}}))

		notice, ok := flashFrom(t, rr)
		require.True(t, ok)
		assert.Equal(t, "Assign Fail", notice.Message)
		assert.False(t, called)
	})

	t.Run("gateway failure flashes Assign Fail and keeps state", func(t *testing.T) {
		t.Parallel()

		gw := &fakeGateway{
			assignUser: func(ctx context.Context, ticketID, userID int) error {
				return assert.AnError
			},
		}
		store, users := seededStore(t)
		h := AssignHandler(gw, store, users, "", testLogger())

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formRequest("/tickets/2/assign", "2", url.Values{"userId": {"2"}}))

		notice, ok := flashFrom(t, rr)
		require.True(t, ok)
		assert.Equal(t, "Assign Fail", notice.Message)

		detailed, _ := store.DetailedTickets()
		assert.Nil(t, detailed[1].Assignee)
	})

	t.Run("user absent from the cache reports success without mutating", func(t *testing.T) {
		t.Parallel()

		store, users := seededStore(t)
		h := AssignHandler(&fakeGateway{}, store, users, "", testLogger())

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formRequest("/tickets/2/assign", "2", url.Values{"userId": {"77"}}))

		notice, ok := flashFrom(t, rr)
		require.True(t, ok)
		assert.Equal(t, "Assign success", notice.Message)

		detailed, _ := store.DetailedTickets()
		assert.Nil(t, detailed[1].Assignee)
	})
}

func TestUnassignHandler(t *testing.T) {
	t.Parallel()

	t.Run("clears the assignee on success", func(t *testing.T) {
		t.Parallel()

		store, users := seededStore(t)
		_ = users
		h := UnassignHandler(&fakeGateway{}, store, "", testLogger())

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formRequest("/tickets/1/unassign", "1", nil))

		notice, ok := flashFrom(t, rr)
		require.True(t, ok)
		assert.Equal(t, "Unassign success", notice.Message)

		detailed, _ := store.DetailedTickets()
		assert.Nil(t, detailed[0].Assignee)
		assert.Nil(t, detailed[0].Ticket.AssigneeID)
	})

	t.Run("gateway failure keeps the assignee", func(t *testing.T) {
		t.Parallel()

		gw := &fakeGateway{
			unassignUser: func(ctx context.Context, ticketID int) error {
				return assert.AnError
			},
		}
		store, _ := seededStore(t)
		h := UnassignHandler(gw, store, "", testLogger())

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formRequest("/tickets/1/unassign", "1", nil))

		notice, ok := flashFrom(t, rr)
		require.True(t, ok)
		assert.Equal(t, "Unassign Fail", notice.Message)

		detailed, _ := store.DetailedTickets()
		require.NotNil(t, detailed[0].Assignee)
		assert.Equal(t, "Alice", detailed[0].Assignee.Name)
	})
}

func TestStatusHandlers(t *testing.T) {
	t.Parallel()

	t.Run("complete marks the ticket and flashes", func(t *testing.T) {
		t.Parallel()

		store, _ := seededStore(t)
		h := CompleteHandler(&fakeGateway{}, store, "", testLogger())

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formRequest("/tickets/1/complete", "1", nil))

		notice, ok := flashFrom(t, rr)
		require.True(t, ok)
		assert.Equal(t, "Set Complete Success", notice.Message)

		detailed, _ := store.DetailedTickets()
		assert.True(t, detailed[0].Ticket.Completed)
	})

	t.Run("incomplete marks the ticket and flashes", func(t *testing.T) {
		t.Parallel()

		store, _ := seededStore(t)
		h := IncompleteHandler(&fakeGateway{}, store, "", testLogger())

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formRequest("/tickets/2/incomplete", "2", nil))

		notice, ok := flashFrom(t, rr)
		require.True(t, ok)
		assert.Equal(t, "Set InComplete Success", notice.Message)

		detailed, _ := store.DetailedTickets()
		assert.False(t, detailed[1].Ticket.Completed)
	})

	t.Run("failure leaves the status untouched", func(t *testing.T) {
		t.Parallel()

		gw := &fakeGateway{
			markComplete: func(ctx context.Context, ticketID int) error {
				return assert.AnError
			},
		}
		store, _ := seededStore(t)
		h := CompleteHandler(gw, store, "", testLogger())

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formRequest("/tickets/1/complete", "1", nil))

		notice, ok := flashFrom(t, rr)
		require.True(t, ok)
		assert.Equal(t, "Set Complete Fail", notice.Message)

		detailed, _ := store.DetailedTickets()
		assert.False(t, detailed[0].Ticket.Completed)
	})

	t.Run("non-numeric ticket id returns to the list", func(t *testing.T) {
		t.Parallel()

		store, _ := seededStore(t)
		h := CompleteHandler(&fakeGateway{}, store, "/panel", testLogger())

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formRequest("/tickets/x/complete", "x", nil))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/panel/", rr.Header().Get("Location"))
	})
}

func TestCreateModalHandlers(t *testing.T) {
	t.Parallel()

	store, _ := seededStore(t)

	open := OpenCreateModalHandler(store, "")
	rr := httptest.NewRecorder()
	open.ServeHTTP(rr, formRequest("/create-ticket/open", "", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.True(t, store.CreateModalOpen())

	closeH := CloseCreateModalHandler(store, "")
	rr = httptest.NewRecorder()
	closeH.ServeHTTP(rr, formRequest("/create-ticket/close", "", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.False(t, store.CreateModalOpen())
}
