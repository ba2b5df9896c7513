package unavailability

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/reschedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/unavailability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

var brt = time.FixedZone("BRT", -3*3600)

const (
	clinicID uint = 1
	doctorID uint = 3
)

// segunda 2026-10-19, 08:00
var now = time.Date(2026, time.October, 19, 8, 0, 0, 0, brt)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, time.October, day, hour, minute, 0, 0, brt)
}

// ---------------------------------------------------------------------------

type memSchedules struct{}

func (memSchedules) BlockedWeekdays(context.Context, uint) (schedule.WeekdaySet, error) {
	return schedule.NewWeekdaySet(), nil
}

func (memSchedules) WorkSchedules(context.Context, uint) ([]schedule.WorkSchedule, error) {
	bs, be := schedule.MustLocalTime("12:00"), schedule.MustLocalTime("13:00")
	var rows []schedule.WorkSchedule
	for d := time.Monday; d <= time.Friday; d++ {
		rows = append(rows, schedule.WorkSchedule{
			DoctorID:   doctorID,
			Weekday:    d,
			Active:     true,
			Start:      schedule.MustLocalTime("08:00"),
			End:        schedule.MustLocalTime("18:00"),
			BreakStart: &bs,
			BreakEnd:   &be,
		})
	}
	return rows, nil
}

func (memSchedules) BreakExceptions(context.Context, uint, schedule.Date, schedule.Date) ([]schedule.BreakException, error) {
	return nil, nil
}

// ---------------------------------------------------------------------------

type memWindows struct {
	mu        sync.Mutex
	nextID    uint
	rows      map[uint]domain.Window
	createErr error
	updated   int
}

func newMemWindows() *memWindows {
	return &memWindows{rows: map[uint]domain.Window{}}
}

func (m *memWindows) Create(_ context.Context, w *domain.Window) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	w.ID = m.nextID
	m.rows[w.ID] = *w
	return nil
}

func (m *memWindows) Update(_ context.Context, w *domain.Window) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[w.ID]; !ok {
		return httperr.ErrBusiness("unavailability_not_found")
	}
	m.rows[w.ID] = *w
	m.updated++
	return nil
}

func (m *memWindows) Delete(_ context.Context, _ uint, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memWindows) Get(_ context.Context, doctorID uint, id uint) (*domain.Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.rows[id]
	if !ok || w.DoctorID != doctorID {
		return nil, httperr.ErrBusiness("unavailability_not_found")
	}
	return &w, nil
}

func (m *memWindows) ListForDoctor(_ context.Context, doctorID uint) ([]domain.Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Window
	for _, w := range m.rows {
		if w.DoctorID == doctorID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *memWindows) ListOverlapping(ctx context.Context, doctorID uint, from, to time.Time) ([]domain.Window, error) {
	all, _ := m.ListForDoctor(ctx, doctorID)
	var out []domain.Window
	for _, w := range all {
		if w.Intersects(from, to) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *memWindows) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// ---------------------------------------------------------------------------

type memLedger struct {
	mu            sync.Mutex
	rows          map[uint]appointment.Appointment
	rescheduleErr error
	listErr       error
}

func newMemLedger(aps ...appointment.Appointment) *memLedger {
	l := &memLedger{rows: map[uint]appointment.Appointment{}}
	for _, ap := range aps {
		l.rows[ap.ID] = ap
	}
	return l
}

func (l *memLedger) sorted(keep func(appointment.Appointment) bool) []appointment.Appointment {
	var out []appointment.Appointment
	for _, ap := range l.rows {
		if ap.Status.Occupies() && keep(ap) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func (l *memLedger) ListForDoctor(_ context.Context, doctorID uint, from, to time.Time) ([]appointment.Appointment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sorted(func(ap appointment.Appointment) bool {
		return ap.DoctorID == doctorID && !ap.Start.Before(from) && ap.Start.Before(to)
	}), nil
}

func (l *memLedger) ListIntersecting(_ context.Context, doctorID uint, from, to time.Time) ([]appointment.Appointment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listErr != nil {
		return nil, l.listErr
	}
	return l.sorted(func(ap appointment.Appointment) bool {
		return ap.DoctorID == doctorID && appointment.Overlaps(ap.Start, ap.End(), from, to)
	}), nil
}

func (l *memLedger) Get(_ context.Context, _ uint, id uint) (*appointment.Appointment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ap, ok := l.rows[id]
	if !ok {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	return &ap, nil
}

func (l *memLedger) Reschedule(_ context.Context, id uint, newStart time.Time) (*appointment.Appointment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.rescheduleErr != nil {
		return nil, l.rescheduleErr
	}
	ap, ok := l.rows[id]
	if !ok {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if err := appointment.Reschedule(&ap, newStart); err != nil {
		return nil, err
	}
	l.rows[id] = ap
	return &ap, nil
}

func (l *memLedger) UpdateStatus(_ context.Context, id uint, status appointment.Status, _ time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	ap := l.rows[id]
	ap.Status = status
	l.rows[id] = ap
	return nil
}

func (l *memLedger) get(id uint) appointment.Appointment {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rows[id]
}

// ---------------------------------------------------------------------------

type memDirectory struct{}

func (memDirectory) DoctorExists(_ context.Context, clinic uint, doctor uint) (bool, error) {
	return clinic == clinicID && doctor == doctorID, nil
}

func (memDirectory) ServiceDuration(context.Context, uint, uint) (int, error) {
	return 30, nil
}

// ---------------------------------------------------------------------------

type failingStore struct {
	*MemoryAttemptStore
}

func (failingStore) Save(context.Context, *Attempt) error {
	return errors.New("redis down")
}

type harness struct {
	workflow *Workflow
	windows  *memWindows
	ledger   *memLedger
	store    AttemptStore
}

func newHarness(aps ...appointment.Appointment) *harness {
	h := &harness{
		windows: newMemWindows(),
		ledger:  newMemLedger(aps...),
		store:   NewMemoryAttemptStore(time.Hour),
	}
	h.build()
	return h
}

func (h *harness) build() {
	detector := availability.NewDetector(
		schedule.NewResolver(memSchedules{}),
		h.windows,
		h.ledger,
		availability.Config{Location: brt, MinAdvance: 30 * time.Minute, Now: func() time.Time { return now }},
		nil,
	)

	h.workflow = NewWorkflow(Deps{
		Windows:   h.windows,
		Ledger:    h.ledger,
		Directory: memDirectory{},
		Detector:  detector,
		Generator: reschedule.NewGenerator(detector, reschedule.DefaultOptions(), nil),
		Store:     h.store,
		Log:       zerolog.Nop(),
	})
}

func confirmed(id uint, start time.Time, minutes int) appointment.Appointment {
	return appointment.Appointment{
		ID:              id,
		ClinicID:        clinicID,
		DoctorID:        doctorID,
		Start:           start,
		DurationMinutes: minutes,
		Status:          appointment.StatusConfirmed,
	}
}

func firstSuggestion(t interface{ Fatalf(string, ...any) }, a *Attempt, appointmentID uint) time.Time {
	c, ok := a.conflict(appointmentID)
	if !ok || len(c.Suggestion.Candidates) == 0 {
		t.Fatalf("no suggestion for appointment %d", appointmentID)
	}
	cand := c.Suggestion.Candidates[0]
	return cand.Times[0].On(cand.Date, brt)
}
