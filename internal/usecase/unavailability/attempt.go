package unavailability

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/reschedule"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/unavailability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// ======================================================
// INPUT
// ======================================================

type Input struct {
	ClinicID uint `json:"clinic_id"`
	DoctorID uint `json:"doctor_id"`

	// WindowID > 0 turns the attempt into an update of that window.
	WindowID uint `json:"window_id,omitempty"`

	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Reason string    `json:"reason,omitempty"`

	IgnoreConflicts bool  `json:"ignore_conflicts"`
	ActorID         *uint `json:"actor_id,omitempty"`
}

func (in Input) Window() domain.Window {
	return domain.Window{
		ID:       in.WindowID,
		ClinicID: in.ClinicID,
		DoctorID: in.DoctorID,
		Start:    in.Start,
		End:      in.End,
		Reason:   in.Reason,
	}
}

// ======================================================
// ATTEMPT
// ======================================================

type Conflict struct {
	Appointment appointment.Appointment `json:"appointment"`
	Suggestion  reschedule.Suggestion   `json:"suggestion"`
}

type Attempt struct {
	ID    uuid.UUID `json:"id"`
	State State     `json:"state"`
	Input Input     `json:"input"`

	Conflicts []Conflict `json:"conflicts"`

	// Window is set once the window has been persisted.
	Window *domain.Window `json:"window,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Attempt) conflict(appointmentID uint) (Conflict, bool) {
	for _, c := range a.Conflicts {
		if c.Appointment.ID == appointmentID {
			return c, true
		}
	}
	return Conflict{}, false
}

// ======================================================
// STORE
// ======================================================

// AttemptStore keeps attempts in ConflictPresented between requests.
// Get returns business "attempt_not_found" for unknown or expired ids.
type AttemptStore interface {
	Save(ctx context.Context, a *Attempt) error
	Get(ctx context.Context, id uuid.UUID) (*Attempt, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type memoryEntry struct {
	attempt   Attempt
	expiresAt time.Time
}

type MemoryAttemptStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[uuid.UUID]memoryEntry
}

func NewMemoryAttemptStore(ttl time.Duration) *MemoryAttemptStore {
	return &MemoryAttemptStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[uuid.UUID]memoryEntry),
	}
}

var _ AttemptStore = (*MemoryAttemptStore)(nil)

func (s *MemoryAttemptStore) Save(_ context.Context, a *Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exp time.Time
	if s.ttl > 0 {
		exp = s.now().Add(s.ttl)
	}
	s.entries[a.ID] = memoryEntry{attempt: copyAttempt(a), expiresAt: exp}
	return nil
}

func (s *MemoryAttemptStore) Get(_ context.Context, id uuid.UUID) (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, httperr.ErrBusiness("attempt_not_found")
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, id)
		return nil, httperr.ErrBusiness("attempt_not_found")
	}

	a := copyAttempt(&e.attempt)
	return &a, nil
}

func (s *MemoryAttemptStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func copyAttempt(a *Attempt) Attempt {
	c := *a
	c.Conflicts = append([]Conflict(nil), a.Conflicts...)
	if a.Window != nil {
		w := *a.Window
		c.Window = &w
	}
	return c
}
