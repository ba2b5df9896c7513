package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/reschedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/unavailability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

var brt = time.FixedZone("BRT", -3*3600)

const (
	clinicID  uint = 1
	doctorID  uint = 3
	serviceID uint = 5
)

// segunda 2026-10-19, 08:00
var now = time.Date(2026, time.October, 19, 8, 0, 0, 0, brt)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, time.October, day, hour, minute, 0, 0, brt)
}

type weekSchedules struct{}

func (weekSchedules) BlockedWeekdays(context.Context, uint) (schedule.WeekdaySet, error) {
	return schedule.NewWeekdaySet(), nil
}

func (weekSchedules) WorkSchedules(context.Context, uint) ([]schedule.WorkSchedule, error) {
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

func (weekSchedules) BreakExceptions(context.Context, uint, schedule.Date, schedule.Date) ([]schedule.BreakException, error) {
	return nil, nil
}

type windows []unavailability.Window

func (w windows) ListOverlapping(_ context.Context, _ uint, from, to time.Time) ([]unavailability.Window, error) {
	var out []unavailability.Window
	for _, win := range w {
		if win.Intersects(from, to) {
			out = append(out, win)
		}
	}
	return out, nil
}

type ledger struct {
	rows      map[uint]domain.Appointment
	updateErr error
}

func newLedger(aps ...domain.Appointment) *ledger {
	l := &ledger{rows: map[uint]domain.Appointment{}}
	for _, ap := range aps {
		l.rows[ap.ID] = ap
	}
	return l
}

func (l *ledger) ListForDoctor(_ context.Context, _ uint, from, to time.Time) ([]domain.Appointment, error) {
	var out []domain.Appointment
	for _, ap := range l.rows {
		if ap.Status.Occupies() && !ap.Start.Before(from) && ap.Start.Before(to) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (l *ledger) ListIntersecting(_ context.Context, _ uint, from, to time.Time) ([]domain.Appointment, error) {
	var out []domain.Appointment
	for _, ap := range l.rows {
		if ap.Status.Occupies() && domain.Overlaps(ap.Start, ap.End(), from, to) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (l *ledger) Get(_ context.Context, clinic uint, id uint) (*domain.Appointment, error) {
	ap, ok := l.rows[id]
	if !ok || ap.ClinicID != clinic {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	return &ap, nil
}

func (l *ledger) Reschedule(_ context.Context, id uint, newStart time.Time) (*domain.Appointment, error) {
	ap := l.rows[id]
	ap.Start = newStart
	l.rows[id] = ap
	return &ap, nil
}

func (l *ledger) UpdateStatus(_ context.Context, id uint, status domain.Status, _ time.Time) error {
	if l.updateErr != nil {
		return l.updateErr
	}
	ap := l.rows[id]
	ap.Status = status
	l.rows[id] = ap
	return nil
}

type directory struct {
	err error
}

func (d directory) DoctorExists(_ context.Context, clinic, doctor uint) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	return clinic == clinicID && doctor == doctorID, nil
}

func (d directory) ServiceDuration(_ context.Context, clinic, service uint) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	if clinic != clinicID || service != serviceID {
		return 0, httperr.ErrBusiness("service_not_found")
	}
	return 60, nil
}

var errDown = errors.New("connection refused")

func newDetector(w windows, l *ledger) *availability.Detector {
	return availability.NewDetector(
		schedule.NewResolver(weekSchedules{}),
		w,
		l,
		availability.Config{Location: brt, MinAdvance: 30 * time.Minute, Now: func() time.Time { return now }},
		nil,
	)
}

func newGenerator(d *availability.Detector) *reschedule.Generator {
	return reschedule.NewGenerator(d, reschedule.DefaultOptions(), nil)
}

func booked(id uint, start time.Time, minutes int, status domain.Status) domain.Appointment {
	return domain.Appointment{
		ID:              id,
		ClinicID:        clinicID,
		DoctorID:        doctorID,
		ServiceID:       serviceID,
		Start:           start,
		DurationMinutes: minutes,
		Status:          status,
	}
}
