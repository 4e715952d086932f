package ticket

// ResolveMany joins tickets against the given users and returns one
// DetailTicket per input ticket, in input order. A ticket whose assignee id
// matches no user resolves to a nil assignee; that is not an error.
func ResolveMany(tickets []Ticket, users []User) []DetailTicket {
	byID := usersByID(users)
	out := make([]DetailTicket, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, resolve(t, byID))
	}
	return out
}

// ResolveOne joins a single ticket against the given users.
func ResolveOne(t Ticket, users []User) DetailTicket {
	return resolve(t, usersByID(users))
}

// usersByID builds a keyed lookup over the user set.
func usersByID(users []User) map[int]User {
	byID := make(map[int]User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID
}

// resolve pairs one ticket with its assignee, if any.
func resolve(t Ticket, byID map[int]User) DetailTicket {
	if t.AssigneeID != nil {
		if u, ok := byID[*t.AssigneeID]; ok {
			return DetailTicket{Ticket: t, Assignee: &u}
		}
	}
	return DetailTicket{Ticket: t}
}
