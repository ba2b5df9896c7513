package schedule

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// WorkSchedule é o expediente recorrente de um médico num dia da semana.
type WorkSchedule struct {
	DoctorID   uint         `json:"doctor_id"`
	Weekday    time.Weekday `json:"weekday"`
	Active     bool         `json:"active"`
	Start      LocalTime    `json:"start"`
	End        LocalTime    `json:"end"`
	BreakStart *LocalTime   `json:"break_start,omitempty"`
	BreakEnd   *LocalTime   `json:"break_end,omitempty"`
}

func (w WorkSchedule) HasBreak() bool {
	return w.BreakStart != nil && w.BreakEnd != nil
}

// Validate checks start < end and start <= breakStart < breakEnd <= end.
// Inactive rows carry no constraints.
func (w WorkSchedule) Validate() error {
	if w.Weekday < time.Sunday || w.Weekday > time.Saturday {
		return httperr.ErrBusiness("invalid_weekday")
	}
	if !w.Active {
		return nil
	}
	if !w.Start.Valid() || !w.End.Valid() || w.Start >= w.End {
		return httperr.ErrBusiness("invalid_working_hours")
	}
	if (w.BreakStart == nil) != (w.BreakEnd == nil) {
		return httperr.ErrBusiness("invalid_break")
	}
	if w.HasBreak() {
		bs, be := *w.BreakStart, *w.BreakEnd
		if bs < w.Start || bs >= be || be > w.End {
			return httperr.ErrBusiness("invalid_break")
		}
	}
	return nil
}

// WeekdaySet is a bitmask of weekdays.
type WeekdaySet uint8

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

func (s WeekdaySet) With(d time.Weekday) WeekdaySet {
	return s | 1<<uint(d)
}

func (s WeekdaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

func (s WeekdaySet) Days() []time.Weekday {
	out := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

type OwnerKind string

const (
	OwnerDoctor OwnerKind = "doctor"
	OwnerClinic OwnerKind = "clinic"
)

// BreakException substitui o intervalo de almoço num único dia.
type BreakException struct {
	ID         uint      `json:"id"`
	OwnerKind  OwnerKind `json:"owner_kind"`
	OwnerID    uint      `json:"owner_id"`
	Date       Date      `json:"date"`
	BreakStart LocalTime `json:"break_start"`
	BreakEnd   LocalTime `json:"break_end"`
	CreatedAt  time.Time `json:"created_at"`
}

func (e BreakException) Validate() error {
	if e.Date.IsZero() {
		return httperr.ErrBusiness("invalid_date")
	}
	if !e.BreakStart.Valid() || !e.BreakEnd.Valid() || e.BreakStart >= e.BreakEnd {
		return httperr.ErrBusiness("invalid_break")
	}
	return nil
}

// EffectiveSchedule is the working window in force for one doctor on one date.
// It is a value; callers never mutate it in place.
type EffectiveSchedule struct {
	Date            Date       `json:"date"`
	Start           LocalTime  `json:"start"`
	End             LocalTime  `json:"end"`
	BreakStart      *LocalTime `json:"break_start,omitempty"`
	BreakEnd        *LocalTime `json:"break_end,omitempty"`
	BreakOverridden bool       `json:"break_overridden"`
}

func (e EffectiveSchedule) HasBreak() bool {
	return e.BreakStart != nil && e.BreakEnd != nil
}

// Bounds returns the opening and closing instants in loc.
func (e EffectiveSchedule) Bounds(loc *time.Location) (time.Time, time.Time) {
	return e.Start.On(e.Date, loc), e.End.On(e.Date, loc)
}

// Break returns the break instants in loc, if any.
func (e EffectiveSchedule) Break(loc *time.Location) (time.Time, time.Time, bool) {
	if !e.HasBreak() {
		return time.Time{}, time.Time{}, false
	}
	return e.BreakStart.On(e.Date, loc), e.BreakEnd.On(e.Date, loc), true
}

// Resolve applies the two override layers for a single date: the weekly
// schedule, then the most recently created break exception of that date.
// It returns nil when the doctor has no expedient on date.
func Resolve(
	date Date,
	blocked WeekdaySet,
	weekly []WorkSchedule,
	exceptions []BreakException,
) *EffectiveSchedule {

	weekday := date.Weekday()
	if blocked.Has(weekday) {
		return nil
	}

	var row *WorkSchedule
	for i := range weekly {
		if weekly[i].Weekday == weekday {
			row = &weekly[i]
			break
		}
	}
	if row == nil || !row.Active {
		return nil
	}

	eff := &EffectiveSchedule{
		Date:  date,
		Start: row.Start,
		End:   row.End,
	}
	if row.HasBreak() {
		bs, be := *row.BreakStart, *row.BreakEnd
		eff.BreakStart, eff.BreakEnd = &bs, &be
	}

	if ex := latestException(date, exceptions); ex != nil {
		bs, be := ex.BreakStart, ex.BreakEnd
		eff.BreakStart, eff.BreakEnd = &bs, &be
		eff.BreakOverridden = true
	}

	return eff
}

// latestException picks the newest exception for date. On equal creation
// instants a doctor-level row beats a clinic-level one, then the higher id.
func latestException(date Date, exceptions []BreakException) *BreakException {
	var best *BreakException
	for i := range exceptions {
		ex := &exceptions[i]
		if ex.Date != date {
			continue
		}
		if best == nil || newer(ex, best) {
			best = ex
		}
	}
	return best
}

func newer(a, b *BreakException) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	if a.OwnerKind != b.OwnerKind {
		return a.OwnerKind == OwnerDoctor
	}
	return a.ID > b.ID
}
