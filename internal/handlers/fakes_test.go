package handlers

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/reschedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/unavailability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucappointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
	ucschedule "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/schedule"
	ucunavailability "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/unavailability"
)

var brt = time.FixedZone("BRT", -3*3600)

const (
	clinicID  uint = 1
	doctorID  uint = 3
	serviceID uint = 5
	userID    uint = 9
)

// segunda 2026-10-19, 08:00
var now = time.Date(2026, time.October, 19, 8, 0, 0, 0, brt)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, time.October, day, hour, minute, 0, 0, brt)
}

// ---------------------------------------------------------------------------

type scheduleStore struct {
	mu         sync.Mutex
	grid       []schedule.WorkSchedule
	blocked    schedule.WeekdaySet
	exceptions []schedule.BreakException
}

func newScheduleStore() *scheduleStore {
	bs, be := schedule.MustLocalTime("12:00"), schedule.MustLocalTime("13:00")
	s := &scheduleStore{}
	for d := time.Monday; d <= time.Friday; d++ {
		s.grid = append(s.grid, schedule.WorkSchedule{
			DoctorID:   doctorID,
			Weekday:    d,
			Active:     true,
			Start:      schedule.MustLocalTime("08:00"),
			End:        schedule.MustLocalTime("18:00"),
			BreakStart: &bs,
			BreakEnd:   &be,
		})
	}
	return s
}

func (s *scheduleStore) BlockedWeekdays(context.Context, uint) (schedule.WeekdaySet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocked, nil
}

func (s *scheduleStore) WorkSchedules(context.Context, uint) ([]schedule.WorkSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]schedule.WorkSchedule(nil), s.grid...), nil
}

func (s *scheduleStore) BreakExceptions(_ context.Context, _ uint, from, to schedule.Date) ([]schedule.BreakException, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []schedule.BreakException
	for _, e := range s.exceptions {
		if !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *scheduleStore) ReplaceWorkSchedules(_ context.Context, _ uint, grid []schedule.WorkSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = grid
	return nil
}

func (s *scheduleStore) SetBlockedWeekdays(_ context.Context, _ uint, set schedule.WeekdaySet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocked = set
	return nil
}

func (s *scheduleStore) CreateBreakException(_ context.Context, e *schedule.BreakException) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = uint(len(s.exceptions) + 1)
	e.CreatedAt = now
	s.exceptions = append(s.exceptions, *e)
	return nil
}

func (s *scheduleStore) ListOwnerExceptions(_ context.Context, kind schedule.OwnerKind, owner uint, from, to schedule.Date) ([]schedule.BreakException, error) {
	all, _ := s.BreakExceptions(context.Background(), 0, from, to)
	var out []schedule.BreakException
	for _, e := range all {
		if e.OwnerKind == kind && e.OwnerID == owner {
			out = append(out, e)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------

type windowStore struct {
	mu   sync.Mutex
	next uint
	rows map[uint]unavailability.Window
}

func (w *windowStore) Create(_ context.Context, win *unavailability.Window) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.next++
	win.ID = w.next
	w.rows[win.ID] = *win
	return nil
}

func (w *windowStore) Update(_ context.Context, win *unavailability.Window) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.rows[win.ID]; !ok {
		return httperr.ErrBusiness("unavailability_not_found")
	}
	w.rows[win.ID] = *win
	return nil
}

func (w *windowStore) Delete(_ context.Context, _ uint, id uint) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.rows[id]; !ok {
		return httperr.ErrBusiness("unavailability_not_found")
	}
	delete(w.rows, id)
	return nil
}

func (w *windowStore) Get(_ context.Context, _ uint, id uint) (*unavailability.Window, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	win, ok := w.rows[id]
	if !ok {
		return nil, httperr.ErrBusiness("unavailability_not_found")
	}
	return &win, nil
}

func (w *windowStore) ListForDoctor(_ context.Context, doctorID uint) ([]unavailability.Window, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := []unavailability.Window{}
	for _, win := range w.rows {
		if win.DoctorID == doctorID {
			out = append(out, win)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (w *windowStore) ListOverlapping(ctx context.Context, doctorID uint, from, to time.Time) ([]unavailability.Window, error) {
	all, _ := w.ListForDoctor(ctx, doctorID)
	var out []unavailability.Window
	for _, win := range all {
		if win.Intersects(from, to) {
			out = append(out, win)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------

type ledger struct {
	mu   sync.Mutex
	rows map[uint]appointment.Appointment
}

func (l *ledger) filter(keep func(appointment.Appointment) bool) []appointment.Appointment {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []appointment.Appointment
	for _, ap := range l.rows {
		if ap.Status.Occupies() && keep(ap) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func (l *ledger) ListForDoctor(_ context.Context, _ uint, from, to time.Time) ([]appointment.Appointment, error) {
	return l.filter(func(ap appointment.Appointment) bool {
		return !ap.Start.Before(from) && ap.Start.Before(to)
	}), nil
}

func (l *ledger) ListIntersecting(_ context.Context, _ uint, from, to time.Time) ([]appointment.Appointment, error) {
	return l.filter(func(ap appointment.Appointment) bool {
		return appointment.Overlaps(ap.Start, ap.End(), from, to)
	}), nil
}

func (l *ledger) Get(_ context.Context, clinic uint, id uint) (*appointment.Appointment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ap, ok := l.rows[id]
	if !ok || ap.ClinicID != clinic {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	return &ap, nil
}

func (l *ledger) Reschedule(_ context.Context, id uint, newStart time.Time) (*appointment.Appointment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
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

func (l *ledger) UpdateStatus(_ context.Context, id uint, status appointment.Status, _ time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	ap := l.rows[id]
	ap.Status = status
	l.rows[id] = ap
	return nil
}

// ---------------------------------------------------------------------------

type directory struct {
	down bool
}

var errDown = errors.New("connection refused")

func (d *directory) DoctorExists(_ context.Context, clinic, doctor uint) (bool, error) {
	if d.down {
		return false, errDown
	}
	return clinic == clinicID && doctor == doctorID, nil
}

func (d *directory) ServiceDuration(_ context.Context, clinic, service uint) (int, error) {
	if d.down {
		return 0, errDown
	}
	if clinic != clinicID || service != serviceID {
		return 0, httperr.ErrBusiness("service_not_found")
	}
	return 30, nil
}

// ---------------------------------------------------------------------------

type server struct {
	engine    *gin.Engine
	ledger    *ledger
	windows   *windowStore
	schedules *scheduleStore
	directory *directory
}

func confirmed(id uint, start time.Time, minutes int) appointment.Appointment {
	return appointment.Appointment{
		ID:              id,
		ClinicID:        clinicID,
		DoctorID:        doctorID,
		ServiceID:       serviceID,
		Start:           start,
		DurationMinutes: minutes,
		Status:          appointment.StatusConfirmed,
	}
}

func newServer(aps ...appointment.Appointment) *server {
	gin.SetMode(gin.TestMode)

	s := &server{
		ledger:    &ledger{rows: map[uint]appointment.Appointment{}},
		windows:   &windowStore{rows: map[uint]unavailability.Window{}},
		schedules: newScheduleStore(),
		directory: &directory{},
	}
	for _, ap := range aps {
		s.ledger.rows[ap.ID] = ap
	}

	detector := availability.NewDetector(
		schedule.NewResolver(s.schedules),
		s.windows,
		s.ledger,
		availability.Config{Location: brt, MinAdvance: 30 * time.Minute, Now: func() time.Time { return now }},
		nil,
	)
	generator := reschedule.NewGenerator(detector, reschedule.DefaultOptions(), nil)

	workflow := ucunavailability.NewWorkflow(ucunavailability.Deps{
		Windows:   s.windows,
		Ledger:    s.ledger,
		Directory: s.directory,
		Detector:  detector,
		Generator: generator,
		Store:     ucunavailability.NewMemoryAttemptStore(time.Hour),
		Log:       zerolog.Nop(),
	})

	clock := func() time.Time { return now }

	availabilityH := NewAvailabilityHandler(
		ucappointment.NewGetEffectiveSchedule(s.directory, detector),
		ucappointment.NewCheckSlot(s.directory, detector),
		ucappointment.NewGetAvailability(s.directory, generator),
		ucappointment.NewGetDoctorDay(s.directory, detector),
		brt,
	)
	workingHoursH := NewWorkingHoursHandler(ucschedule.NewWorkingHours(s.schedules, s.directory, nil))
	breaksH := NewBreakExceptionHandler(ucschedule.NewBreakExceptions(s.schedules, s.directory, nil))
	unavailabilityH := NewUnavailabilityHandler(workflow, brt)
	appointmentH := NewAppointmentHandler(
		ucappointment.NewSuggestReschedule(s.ledger, generator),
		ucappointment.NewCancelAppointment(s.ledger, nil, clock),
		ucappointment.NewFinalizeAppointment(s.ledger, nil, clock),
	)

	r := gin.New()
	api := r.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set(middleware.ContextClinicID, clinicID)
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	})

	doctor := api.Group("/doctors/:doctorId")
	doctor.GET("/effective-schedule", availabilityH.EffectiveSchedule)
	doctor.POST("/check-slot", availabilityH.CheckSlot)
	doctor.GET("/available-slots", availabilityH.AvailableSlots)
	doctor.GET("/day", availabilityH.Day)
	doctor.GET("/working-hours", workingHoursH.Get)
	doctor.PUT("/working-hours", workingHoursH.Update)
	doctor.GET("/break-exceptions", breaksH.ListForDoctor)
	doctor.POST("/break-exceptions", breaksH.CreateForDoctor)
	doctor.GET("/unavailability", unavailabilityH.List)
	doctor.POST("/unavailability", unavailabilityH.Create)
	doctor.PUT("/unavailability/:id", unavailabilityH.Update)
	doctor.DELETE("/unavailability/:id", unavailabilityH.Delete)

	api.POST("/clinic/break-exceptions", breaksH.CreateForClinic)

	api.GET("/unavailability/attempts/:attemptId", unavailabilityH.GetAttempt)
	api.POST("/unavailability/attempts/:attemptId/resolve", unavailabilityH.Resolve)
	api.POST("/unavailability/attempts/:attemptId/force", unavailabilityH.Force)
	api.DELETE("/unavailability/attempts/:attemptId", unavailabilityH.CancelAttempt)

	api.GET("/appointments/:id/suggestions", appointmentH.Suggestions)
	api.PATCH("/appointments/:id/cancel", appointmentH.Cancel)
	api.PATCH("/appointments/:id/finalize", appointmentH.Finalize)

	s.engine = r
	return s
}
