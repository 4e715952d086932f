package ticket

import "sync"

// UserStore caches the user list, sourced once per session. Call sites guard
// the initial fetch with Loaded; the store only replaces wholesale.
type UserStore struct {
	mu     sync.RWMutex
	users  []User
	loaded bool
}

// NewUserStore returns an empty user store.
func NewUserStore() *UserStore {
	return &UserStore{}
}

// SetUsers replaces the cached user list wholesale.
func (s *UserStore) SetUsers(users []User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append([]User(nil), users...)
	s.loaded = true
}

// Users returns a copy of the cached user list.
func (s *UserStore) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]User(nil), s.users...)
}

// Loaded reports whether the user list has been set at least once. An empty
// but loaded list is distinct from a never-loaded one.
func (s *UserStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
