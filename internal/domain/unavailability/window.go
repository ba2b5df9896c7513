package unavailability

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// Window é um bloqueio explícito da agenda de um médico.
type Window struct {
	ID       uint      `json:"id"`
	ClinicID uint      `json:"clinic_id"`
	DoctorID uint      `json:"doctor_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Reason   string    `json:"reason,omitempty"`
}

func (w Window) Validate() error {
	if w.DoctorID == 0 {
		return httperr.ErrBusiness("doctor_not_found")
	}
	if w.Start.IsZero() || w.End.IsZero() || !w.Start.Before(w.End) {
		return httperr.ErrBusiness("invalid_window")
	}
	return nil
}

// EndOfClockHour returns the first instant after the clock hour containing t,
// read in t's own zone: 10:30 → 11:00, 10:00 → 11:00.
func EndOfClockHour(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), 0, 0, 0, t.Location()).Add(time.Hour)
}

// In expresses the window in loc. The clock hour that ends a window is the
// clinic's, so windows read from storage go through In before EffectiveEnd.
func (w Window) In(loc *time.Location) Window {
	w.Start = w.Start.In(loc)
	w.End = w.End.In(loc)
	return w
}

// EffectiveEnd is where blocking actually stops (exclusive).
func (w Window) EffectiveEnd() time.Time {
	return EndOfClockHour(w.End)
}

// Blocks reports whether t falls in [Start, EffectiveEnd).
func (w Window) Blocks(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.EffectiveEnd())
}

// Intersects reports whether [start, end) overlaps [Start, EffectiveEnd).
func (w Window) Intersects(start, end time.Time) bool {
	return start.Before(w.EffectiveEnd()) && w.Start.Before(end)
}

type Repository interface {
	Create(ctx context.Context, w *Window) error
	Update(ctx context.Context, w *Window) error
	Delete(ctx context.Context, doctorID uint, id uint) error
	Get(ctx context.Context, doctorID uint, id uint) (*Window, error)

	ListForDoctor(ctx context.Context, doctorID uint) ([]Window, error)

	// ListOverlapping returns at least every window whose effective span
	// touches [from, to). Callers trim after converting to the clinic zone.
	ListOverlapping(ctx context.Context, doctorID uint, from, to time.Time) ([]Window, error)
}
