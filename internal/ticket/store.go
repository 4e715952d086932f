package ticket

import "sync"

// Store owns the canonical in-memory ticket state: the detailed ticket list,
// the single current detail ticket and the create-modal flag. All mutations go
// through the operations below; selectors hand out copies, never internal
// state. Any remote I/O happens before a mutation is invoked, so the store
// itself has no failure path.
type Store struct {
	mu       sync.RWMutex
	detailed []DetailTicket
	loaded   bool
	current  *DetailTicket
	loadGen  uint64

	createModalOpen bool
}

// NewStore returns an empty store. The detailed list counts as absent until
// the first ReplaceAll or AddOne.
func NewStore() *Store {
	return &Store{}
}

// ReplaceAll resolves tickets against users and replaces the detailed list
// wholesale. The current detail ticket is left untouched.
func (s *Store) ReplaceAll(tickets []Ticket, users []User) {
	detailed := ResolveMany(tickets, users)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.detailed = detailed
	s.loaded = true
}

// AddOne resolves a single ticket against users and appends it to the
// detailed list, creating the list if absent. An entry with the same id is
// replaced in place so ids stay unique.
func (s *Store) AddOne(t Ticket, users []User) {
	dt := ResolveOne(t, users)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	for i := range s.detailed {
		if s.detailed[i].Ticket.ID == t.ID {
			s.detailed[i] = dt
			return
		}
	}
	s.detailed = append(s.detailed, dt)
}

// SetCurrent replaces the current detail ticket wholesale. Pass nil when no
// detail page is active or its subject was not found.
func (s *Store) SetCurrent(dt *DetailTicket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCurrentLocked(dt)
}

// BeginDetailLoad marks the start of a detail fetch and returns its
// generation. A later SetCurrentIfLatest with a stale generation is dropped,
// so an in-flight fetch that lost a navigation race cannot overwrite the
// current detail ticket.
func (s *Store) BeginDetailLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadGen++
	return s.loadGen
}

// SetCurrentIfLatest applies SetCurrent only when gen is still the newest
// detail-load generation. It reports whether the value was applied.
func (s *Store) SetCurrentIfLatest(gen uint64, dt *DetailTicket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.loadGen {
		return false
	}
	s.setCurrentLocked(dt)
	return true
}

func (s *Store) setCurrentLocked(dt *DetailTicket) {
	if dt == nil {
		s.current = nil
		return
	}
	c := dt.clone()
	s.current = &c
}

// SetStatus sets the completed flag of the matching ticket in the detailed
// list and, when the current detail ticket has the same id, mirrors the
// change there. Unknown ids are a no-op per collection.
func (s *Store) SetStatus(ticketID int, completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.detailed {
		if s.detailed[i].Ticket.ID == ticketID {
			s.detailed[i].Ticket.Completed = completed
			break
		}
	}
	if s.current != nil && s.current.Ticket.ID == ticketID {
		s.current.Ticket.Completed = completed
	}
}

// Unassign clears the assignee of the matching ticket in both collections.
// Unknown ids are a no-op per collection.
func (s *Store) Unassign(ticketID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.detailed {
		if s.detailed[i].Ticket.ID == ticketID {
			s.detailed[i].Assignee = nil
			s.detailed[i].Ticket.AssigneeID = nil
			break
		}
	}
	if s.current != nil && s.current.Ticket.ID == ticketID {
		s.current.Assignee = nil
		s.current.Ticket.AssigneeID = nil
	}
}

// Assign sets user as the assignee of the matching ticket in both
// collections. Unknown ids are a no-op per collection.
func (s *Store) Assign(ticketID int, user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.detailed {
		if s.detailed[i].Ticket.ID == ticketID {
			u := user
			s.detailed[i].Assignee = &u
			id := user.ID
			s.detailed[i].Ticket.AssigneeID = &id
			break
		}
	}
	if s.current != nil && s.current.Ticket.ID == ticketID {
		u := user
		s.current.Assignee = &u
		id := user.ID
		s.current.Ticket.AssigneeID = &id
	}
}

// SetCreateModalOpen sets the create-ticket modal flag.
func (s *Store) SetCreateModalOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createModalOpen = open
}

// DetailedTickets returns a copy of the detailed list and whether it has been
// loaded at least once.
func (s *Store) DetailedTickets() ([]DetailTicket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, false
	}
	out := make([]DetailTicket, 0, len(s.detailed))
	for _, dt := range s.detailed {
		out = append(out, dt.clone())
	}
	return out, true
}

// CurrentDetailedTicket returns a copy of the current detail ticket, if any.
func (s *Store) CurrentDetailedTicket() (DetailTicket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return DetailTicket{}, false
	}
	return s.current.clone(), true
}

// CreateModalOpen reports whether the create-ticket modal flag is set.
func (s *Store) CreateModalOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.createModalOpen
}
