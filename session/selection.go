package session

import (
	"sync"

	"github.com/camden-git/organizer/models"
)

// State is the edit mode a Selection is in.
type State int

const (
	// Unselected means the next save inserts a new person.
	Unselected State = iota
	// Selected means the next save updates the selected person.
	Selected
)

func (s State) String() string {
	switch s {
	case Selected:
		return "selected"
	default:
		return "unselected"
	}
}

// Selection tracks which person, if any, is being edited, together with
// the edit buffer for that person. It holds the id only, never a copy of
// the stored row.
type Selection struct {
	mu     sync.Mutex
	state  State
	id     int64
	buffer models.PersonFields
}

// New returns an Unselected selection with an empty buffer.
func New() *Selection {
	return &Selection{}
}

// Select moves to Selected(id) and loads fields into the buffer. Callers
// only invoke it after the person was loaded successfully.
func (s *Selection) Select(id int64, fields models.PersonFields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Selected
	s.id = id
	s.buffer = fields
}

// Clear returns to Unselected and empties the buffer.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Unselected
	s.id = 0
	s.buffer = models.PersonFields{}
}

// Current returns the selected id, or false when nothing is selected.
func (s *Selection) Current() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Selected {
		return 0, false
	}
	return s.id, true
}

// OwnerID is Current as an optional id, the shape the stores accept.
func (s *Selection) OwnerID() *int64 {
	id, ok := s.Current()
	if !ok {
		return nil
	}
	return &id
}

func (s *Selection) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Selection) Buffer() models.PersonFields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer
}

// SetBuffer replaces the edit buffer without changing state.
func (s *Selection) SetBuffer(fields models.PersonFields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = fields
}

// Snapshot is a consistent copy of the selection.
type Snapshot struct {
	State  string              `json:"state"`
	ID     *int64              `json:"id,omitempty"`
	Fields models.PersonFields `json:"fields"`
}

func (s *Selection) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{State: s.state.String(), Fields: s.buffer}
	if s.state == Selected {
		id := s.id
		snap.ID = &id
	}
	return snap
}
