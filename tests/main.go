// Command mock-backend is a small in-memory ticket backend for developing
// ticketpanel without the real API. It serves the same routes the panel
// calls: ticket listing, detail, create, assign/unassign and status toggles,
// plus the user directory.
package main

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/containeroo/tinyflags"
	"gopkg.in/yaml.v3"
)

// Config is the mock backend configuration root.
type Config struct {
	Port        int    `yaml:"port"`
	RandomDelay bool   `yaml:"randomDelay"`
	FailEvery   int    `yaml:"failEvery,omitempty"` // every Nth mutation answers 500; 0 = never
	Tickets     []Tick `yaml:"tickets"`
	Users       []User `yaml:"users"`
}

// Tick is one seeded ticket.
type Tick struct {
	ID          int    `yaml:"id" json:"id"`
	Description string `yaml:"description" json:"description"`
	Completed   bool   `yaml:"completed" json:"completed"`
	AssigneeID  *int   `yaml:"assigneeId" json:"assigneeId"`
}

// User is one seeded user.
type User struct {
	ID   int    `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// state holds the mutable in-memory backend data.
type state struct {
	mu        sync.Mutex
	tickets   []Tick
	users     []User
	nextID    int
	mutations int
	failEvery int
}

func main() {
	var flagConfigPath string

	tf := tinyflags.NewFlagSet("mock-backend", tinyflags.ExitOnError)
	tf.StringVar(&flagConfigPath, "config", "", "Path to mock-backend config.yaml (optional; defaults to built-in seed data)").Value()

	if err := tf.Parse(os.Args[1:]); err != nil {
		log.Fatal("flag parse error:", err)
	}

	cfg, err := loadConfig(flagConfigPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	st := newState(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tickets", withDelay(cfg, st.listTickets))
	mux.HandleFunc("POST /api/tickets", withDelay(cfg, st.createTicket))
	mux.HandleFunc("GET /api/tickets/{id}", withDelay(cfg, st.getTicket))
	mux.HandleFunc("PUT /api/tickets/{id}/assign/{userId}", withDelay(cfg, st.assign))
	mux.HandleFunc("PUT /api/tickets/{id}/unassign", withDelay(cfg, st.unassign))
	mux.HandleFunc("PUT /api/tickets/{id}/complete", withDelay(cfg, st.setStatus(true)))
	mux.HandleFunc("DELETE /api/tickets/{id}/complete", withDelay(cfg, st.setStatus(false)))
	mux.HandleFunc("GET /api/users", withDelay(cfg, st.listUsers))

	addr := ":" + strconv.Itoa(cfg.Port)
	log.Printf("Mock backend listening on %s (%d tickets, %d users)", addr, len(cfg.Tickets), len(cfg.Users))
	log.Fatal(http.ListenAndServe(addr, mux))
}

// loadConfig reads the YAML configuration, or returns built-in seed data when
// no path is given.
func loadConfig(path string) (Config, error) {
	cfg := Config{Port: 4200}

	if strings.TrimSpace(path) == "" {
		one, two := 1, 2
		cfg.Users = []User{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}, {ID: 3, Name: "Carol"}}
		cfg.Tickets = []Tick{
			{ID: 1, Description: "Broken rocket fuel pump", AssigneeID: &one},
			{ID: 2, Description: "Swap O2 sensor", Completed: true, AssigneeID: &two},
			{ID: 3, Description: "Repaint hull"},
		}
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	dec := yaml.NewDecoder(strings.NewReader(string(raw)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Port == 0 {
		cfg.Port = 4200
	}
	return cfg, nil
}

func newState(cfg Config) *state {
	next := 1
	for _, t := range cfg.Tickets {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	return &state{
		tickets:   append([]Tick(nil), cfg.Tickets...),
		users:     append([]User(nil), cfg.Users...),
		nextID:    next,
		failEvery: cfg.FailEvery,
	}
}

// withDelay logs the request and optionally sleeps 200-1000ms to make the
// panel's loading behavior visible.
func withDelay(cfg Config, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s", r.Method, r.URL.Path)
		if cfg.RandomDelay {
			time.Sleep(time.Duration(200+rand.Intn(800)) * time.Millisecond)
		}
		next(w, r)
	}
}

func (s *state) listTickets(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.tickets)
}

func (s *state) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.users)
}

func (s *state) getTicket(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, _ := strconv.Atoi(r.PathValue("id"))
	for _, t := range s.tickets {
		if t.ID == id {
			writeJSON(w, t)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *state) createTicket(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.injectFailure(w) {
		return
	}

	var body struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Description) == "" {
		http.Error(w, "description required", http.StatusBadRequest)
		return
	}

	t := Tick{ID: s.nextID, Description: body.Description}
	s.nextID++
	s.tickets = append(s.tickets, t)

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, t)
}

func (s *state) assign(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.injectFailure(w) {
		return
	}

	id, _ := strconv.Atoi(r.PathValue("id"))
	userID, _ := strconv.Atoi(r.PathValue("userId"))

	if !s.userExists(userID) {
		http.Error(w, "unknown user", http.StatusNotFound)
		return
	}
	s.mutate(w, r, id, func(t *Tick) {
		uid := userID
		t.AssigneeID = &uid
	})
}

func (s *state) unassign(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.injectFailure(w) {
		return
	}

	id, _ := strconv.Atoi(r.PathValue("id"))
	s.mutate(w, r, id, func(t *Tick) { t.AssigneeID = nil })
}

func (s *state) setStatus(completed bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.injectFailure(w) {
			return
		}

		id, _ := strconv.Atoi(r.PathValue("id"))
		s.mutate(w, r, id, func(t *Tick) { t.Completed = completed })
	}
}

// mutate applies fn to the ticket with the given id and answers 204, or 404
// when the ticket does not exist.
func (s *state) mutate(w http.ResponseWriter, r *http.Request, id int, fn func(*Tick)) {
	for i := range s.tickets {
		if s.tickets[i].ID == id {
			fn(&s.tickets[i])
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *state) userExists(id int) bool {
	for _, u := range s.users {
		if u.ID == id {
			return true
		}
	}
	return false
}

// injectFailure answers 500 on every Nth mutation when failEvery is set, so
// the panel's failure notices can be exercised.
func (s *state) injectFailure(w http.ResponseWriter) bool {
	s.mutations++
	if s.failEvery > 0 && s.mutations%s.failEvery == 0 {
		http.Error(w, "injected failure", http.StatusInternalServerError)
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
