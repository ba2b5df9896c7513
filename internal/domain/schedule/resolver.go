package schedule

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// Source is the storage collaborator for recurring schedules and exceptions.
type Source interface {
	BlockedWeekdays(ctx context.Context, doctorID uint) (WeekdaySet, error)
	WorkSchedules(ctx context.Context, doctorID uint) ([]WorkSchedule, error)

	// BreakExceptions returns the doctor's own exceptions plus the ones of
	// the doctor's clinic, for dates in [from, to].
	BreakExceptions(ctx context.Context, doctorID uint, from, to Date) ([]BreakException, error)
}

type Resolver struct {
	src Source
}

func NewResolver(src Source) *Resolver {
	return &Resolver{src: src}
}

// ResolveEffectiveSchedule returns nil (and no error) when the doctor does
// not work on date.
func (r *Resolver) ResolveEffectiveSchedule(
	ctx context.Context,
	doctorID uint,
	date Date,
) (*EffectiveSchedule, error) {

	byDate, err := r.ResolveRange(ctx, doctorID, date, date)
	if err != nil {
		return nil, err
	}
	return byDate[date], nil
}

// ResolveRange resolves every date in [from, to] with one round trip per
// collaborator. Dates without expedient are absent from the map.
func (r *Resolver) ResolveRange(
	ctx context.Context,
	doctorID uint,
	from Date,
	to Date,
) (map[Date]*EffectiveSchedule, error) {

	if doctorID == 0 {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}
	if to.Before(from) {
		return nil, httperr.ErrBusiness("invalid_date_range")
	}

	blocked, err := r.src.BlockedWeekdays(ctx, doctorID)
	if err != nil {
		return nil, httperr.ErrCollaborator("blocked weekdays", err)
	}

	weekly, err := r.src.WorkSchedules(ctx, doctorID)
	if err != nil {
		return nil, httperr.ErrCollaborator("work schedules", err)
	}

	exceptions, err := r.src.BreakExceptions(ctx, doctorID, from, to)
	if err != nil {
		return nil, httperr.ErrCollaborator("break exceptions", err)
	}

	out := make(map[Date]*EffectiveSchedule)
	for d := from; !d.After(to); d = d.AddDays(1) {
		if eff := Resolve(d, blocked, weekly, exceptions); eff != nil {
			out[d] = eff
		}
	}
	return out, nil
}
