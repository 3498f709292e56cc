// Package state holds the mutable data shared by all tools: the singleton
// task plan and the CRM contact list. Every operation takes the store lock,
// so concurrent sessions never observe a partial mutation. Tools are the
// only callers that mutate this state.
package state

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	logx "github.com/LiamConnell/compass-gcp-ai-starter-pack/pkg/logger"
)

// Store owns the plan and the contact list. Construct one per process (or
// per test) with NewStore; there is no package-level instance.
type Store struct {
	mu       sync.Mutex
	plan     *Plan
	contacts []*Contact
}

func NewStore() *Store {
	return &Store{}
}

// ============ Plan operations ============

// CreatePlan replaces any existing plan wholesale. Task ids are assigned
// contiguously from 0 in the order given.
func (s *Store) CreatePlan(title string, tasks []string) PlanCreated {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan := &Plan{Title: title, Tasks: make([]Task, 0, len(tasks))}
	for i, desc := range tasks {
		plan.Tasks = append(plan.Tasks, Task{ID: i, Description: desc})
	}
	s.plan = plan

	logx.Debug().Str("title", title).Int("tasks", len(tasks)).Msg("plan created")
	return PlanCreated{
		Status:     "plan_created",
		Title:      plan.Title,
		TotalTasks: len(plan.Tasks),
		Plan:       plan.clone(),
	}
}

// UpdatePlan flips one task's completed flag. Ids, descriptions and order
// are never touched.
func (s *Store) UpdatePlan(taskID int, completed bool) (PlanUpdated, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.plan == nil {
		return PlanUpdated{}, ErrNoPlan
	}
	if taskID < 0 || taskID >= len(s.plan.Tasks) {
		return PlanUpdated{}, &InvalidTaskIDError{TaskID: taskID, Max: len(s.plan.Tasks) - 1}
	}

	s.plan.Tasks[taskID].Completed = completed

	return PlanUpdated{
		Status:          "plan_updated",
		TaskID:          taskID,
		TaskDescription: s.plan.Tasks[taskID].Description,
		Completed:       completed,
		Progress:        s.plan.Progress(),
		Plan:            s.plan.clone(),
	}, nil
}

// GetPlan reports the current plan. A missing plan is a status, not an error.
func (s *Store) GetPlan() PlanStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.plan == nil {
		return PlanStatus{Status: "no_plan"}
	}
	return PlanStatus{
		Status:   "plan_exists",
		Title:    s.plan.Title,
		Progress: s.plan.Progress(),
		Plan:     s.plan.clone(),
	}
}

// ResetPlan discards the plan and reports whether one existed.
func (s *Store) ResetPlan() PlanReset {
	s.mu.Lock()
	defer s.mu.Unlock()

	had := s.plan != nil
	s.plan = nil
	return PlanReset{Status: "plan_reset", HadPlan: had}
}

// ============ Contact operations ============

// CreateContact adds a contact with a freshly generated id.
func (s *Store) CreateContact(name, phone string, notes []string, listings []Listing) *Contact {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &Contact{
		ID:       s.newContactID(),
		Name:     name,
		Phone:    phone,
		Notes:    append([]string(nil), notes...),
		Listings: append([]Listing(nil), listings...),
	}
	s.contacts = append(s.contacts, c)

	logx.Debug().Str("contact_id", c.ID).Str("name", c.Name).Msg("contact created")
	return c.clone()
}

// GetContactByName does a case-insensitive exact match; the first match wins.
func (s *Store) GetContactByName(name string) (*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.contacts {
		if strings.EqualFold(c.Name, name) {
			return c.clone(), nil
		}
	}
	return nil, &ContactNotFoundError{Key: name}
}

// ListContacts returns copies of every contact in insertion order.
func (s *Store) ListContacts() []*Contact {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		out = append(out, c.clone())
	}
	return out
}

// AddNote appends a free-text note to the contact with the given id.
func (s *Store) AddNote(contactID, note string) (*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findByID(contactID)
	if c == nil {
		return nil, &ContactNotFoundError{Key: contactID}
	}
	c.Notes = append(c.Notes, note)
	return c.clone(), nil
}

// AddListing appends a listing reference to the contact with the given id.
func (s *Store) AddListing(contactID, address string) (*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findByID(contactID)
	if c == nil {
		return nil, &ContactNotFoundError{Key: contactID}
	}
	c.Listings = append(c.Listings, Listing{Address: address})
	return c.clone(), nil
}

func (s *Store) findByID(id string) *Contact {
	for _, c := range s.contacts {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// newContactID generates a short opaque id, retrying on the unlikely
// collision so ids stay unique within the store.
func (s *Store) newContactID() string {
	for {
		id := uuid.NewString()[:5]
		if s.findByID(id) == nil {
			return id
		}
	}
}
