package ticket

// Ticket is a unit of work tracked by the backend.
type Ticket struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	AssigneeID  *int   `json:"assigneeId"`
}

// User is a person a ticket can be assigned to. Users are read-only from the
// client's perspective once loaded.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DetailTicket pairs a ticket with its resolved assignee. Assignee is nil when
// the ticket is unassigned or its assignee id matches no known user.
type DetailTicket struct {
	Ticket   Ticket
	Assignee *User
}

// clone returns a copy with its own assignee pointer, so callers can never
// mutate store-owned state through a selector result.
func (d DetailTicket) clone() DetailTicket {
	out := DetailTicket{Ticket: d.Ticket}
	if d.Ticket.AssigneeID != nil {
		id := *d.Ticket.AssigneeID
		out.Ticket.AssigneeID = &id
	}
	if d.Assignee != nil {
		u := *d.Assignee
		out.Assignee = &u
	}
	return out
}
