package availability

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/unavailability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/observability/metrics"
)

type WindowLister interface {
	ListOverlapping(ctx context.Context, doctorID uint, from, to time.Time) ([]unavailability.Window, error)
}

type AppointmentLister interface {
	ListForDoctor(ctx context.Context, doctorID uint, from, to time.Time) ([]appointment.Appointment, error)
}

type Config struct {
	Location   *time.Location
	MinAdvance time.Duration
	Now        func() time.Time
}

// Detector evaluates candidate slots against schedules, breaks,
// unavailability windows and booked appointments. It holds no state
// between calls besides its collaborators.
type Detector struct {
	schedules *schedule.Resolver
	windows   WindowLister
	ledger    AppointmentLister
	rules     Rules
	now       func() time.Time
	metrics   *metrics.EngineMetrics
}

func NewDetector(
	schedules *schedule.Resolver,
	windows WindowLister,
	ledger AppointmentLister,
	cfg Config,
	m *metrics.EngineMetrics,
) *Detector {

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Detector{
		schedules: schedules,
		windows:   windows,
		ledger:    ledger,
		rules:     Rules{Location: loc, MinAdvance: cfg.MinAdvance},
		now:       now,
		metrics:   m,
	}
}

func (d *Detector) Rules() Rules {
	return d.rules
}

func (d *Detector) Now() time.Time {
	return d.now().In(d.rules.Location)
}

func (d *Detector) Today() schedule.Date {
	return schedule.DateOf(d.Now())
}

// ResolveEffectiveSchedule is exposed for calendar bounds rendering.
func (d *Detector) ResolveEffectiveSchedule(
	ctx context.Context,
	doctorID uint,
	date schedule.Date,
) (*schedule.EffectiveSchedule, error) {
	return d.schedules.ResolveEffectiveSchedule(ctx, doctorID, date)
}

// CheckSlot validates a candidate appointment for doctorID.
func (d *Detector) CheckSlot(
	ctx context.Context,
	doctorID uint,
	start time.Time,
	durationMinutes int,
	opts CheckOptions,
) (Verdict, error) {

	if doctorID == 0 {
		return Verdict{}, httperr.ErrBusiness("doctor_not_found")
	}
	if durationMinutes <= 0 {
		return Verdict{}, httperr.ErrBusiness("invalid_duration")
	}
	if start.IsZero() {
		return Verdict{}, httperr.ErrBusiness("invalid_date_or_time")
	}

	now := d.Now()
	start = start.In(d.rules.Location)

	// nada a buscar se o horário já passou
	if v := checkAdvance(d.rules, now, start); !v.Valid {
		d.metrics.ObserveVerdict(string(v.Reason))
		return v, nil
	}

	day, err := d.LoadDay(ctx, doctorID, schedule.DateOf(start))
	if err != nil {
		return Verdict{}, err
	}

	v := Evaluate(d.rules, now, day, start, durationMinutes, opts)
	d.metrics.ObserveVerdict(string(v.Reason))
	return v, nil
}

func (d *Detector) LoadDay(ctx context.Context, doctorID uint, date schedule.Date) (*Day, error) {
	days, err := d.LoadDays(ctx, doctorID, date, date)
	if err != nil {
		return nil, err
	}
	return days[0], nil
}

// LoadDays fetches the guard inputs for every date in [from, to], one
// collaborator round trip each, and splits them per date.
func (d *Detector) LoadDays(
	ctx context.Context,
	doctorID uint,
	from schedule.Date,
	to schedule.Date,
) ([]*Day, error) {

	loc := d.rules.Location

	schedules, err := d.schedules.ResolveRange(ctx, doctorID, from, to)
	if err != nil {
		return nil, err
	}

	rangeStart := from.Start(loc)
	rangeEnd := to.AddDays(1).Start(loc)

	windows, err := d.windows.ListOverlapping(ctx, doctorID, rangeStart, rangeEnd)
	if err != nil {
		return nil, httperr.ErrCollaborator("list unavailability", err)
	}

	appointments, err := d.ledger.ListForDoctor(ctx, doctorID, rangeStart, rangeEnd)
	if err != nil {
		return nil, httperr.ErrCollaborator("list appointments", err)
	}

	for i := range windows {
		windows[i] = windows[i].In(loc)
	}

	var days []*Day
	for date := from; !date.After(to); date = date.AddDays(1) {
		dayStart := date.Start(loc)
		dayEnd := date.AddDays(1).Start(loc)

		day := &Day{
			DoctorID: doctorID,
			Date:     date,
			Schedule: schedules[date],
		}

		for _, w := range windows {
			if w.Intersects(dayStart, dayEnd) {
				day.Windows = append(day.Windows, w)
			}
		}

		for _, ap := range appointments {
			if !ap.Status.Occupies() {
				continue
			}
			if schedule.DateOf(ap.Start.In(loc)) == date {
				day.Appointments = append(day.Appointments, ap)
			}
		}

		days = append(days, day)
	}

	return days, nil
}
