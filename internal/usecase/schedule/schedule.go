package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// Store is the write side of schedule storage.
type Store interface {
	domain.Source

	ReplaceWorkSchedules(ctx context.Context, doctorID uint, grid []domain.WorkSchedule) error
	SetBlockedWeekdays(ctx context.Context, doctorID uint, set domain.WeekdaySet) error
	CreateBreakException(ctx context.Context, e *domain.BreakException) error
	ListOwnerExceptions(ctx context.Context, kind domain.OwnerKind, ownerID uint, from, to domain.Date) ([]domain.BreakException, error)
}

// WeeklyPlan is the recurring grid of a doctor plus the weekdays the
// doctor never works.
type WeeklyPlan struct {
	Days    []domain.WorkSchedule `json:"days"`
	Blocked []time.Weekday        `json:"blocked_weekdays"`
}

func (p WeeklyPlan) validate() error {
	var seen domain.WeekdaySet
	for _, d := range p.Days {
		if err := d.Validate(); err != nil {
			return err
		}
		if seen.Has(d.Weekday) {
			return httperr.ErrBusiness("duplicated_weekday")
		}
		seen = seen.With(d.Weekday)
	}
	for _, d := range p.Blocked {
		if d < time.Sunday || d > time.Saturday {
			return httperr.ErrBusiness("invalid_weekday")
		}
	}
	return nil
}

// ======================================================
// WORKING HOURS
// ======================================================

type WorkingHours struct {
	store     Store
	directory appointment.Directory
	audit     *audit.Dispatcher
}

func NewWorkingHours(
	store Store,
	directory appointment.Directory,
	audit *audit.Dispatcher,
) *WorkingHours {
	return &WorkingHours{
		store:     store,
		directory: directory,
		audit:     audit,
	}
}

func (uc *WorkingHours) Get(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
) (*WeeklyPlan, error) {

	if err := appointment.EnsureDoctor(ctx, uc.directory, clinicID, doctorID); err != nil {
		return nil, err
	}

	days, err := uc.store.WorkSchedules(ctx, doctorID)
	if err != nil {
		return nil, httperr.ErrCollaborator("work schedules", err)
	}
	blocked, err := uc.store.BlockedWeekdays(ctx, doctorID)
	if err != nil {
		return nil, httperr.ErrCollaborator("blocked weekdays", err)
	}

	return &WeeklyPlan{Days: days, Blocked: blocked.Days()}, nil
}

// Replace swaps the whole weekly plan of the doctor.
func (uc *WorkingHours) Replace(
	ctx context.Context,
	clinicID uint,
	actorID uint,
	doctorID uint,
	plan WeeklyPlan,
) error {

	if err := appointment.EnsureDoctor(ctx, uc.directory, clinicID, doctorID); err != nil {
		return err
	}

	for i := range plan.Days {
		plan.Days[i].DoctorID = doctorID
	}
	if err := plan.validate(); err != nil {
		return err
	}

	if err := uc.store.ReplaceWorkSchedules(ctx, doctorID, plan.Days); err != nil {
		return httperr.ErrCollaborator("replace work schedules", err)
	}
	if err := uc.store.SetBlockedWeekdays(ctx, doctorID, domain.NewWeekdaySet(plan.Blocked...)); err != nil {
		return httperr.ErrCollaborator("set blocked weekdays", err)
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		UserID:   &actorID,
		Action:   "working_hours_updated",
		Entity:   "doctor",
		EntityID: &doctorID,
	})

	return nil
}

// ======================================================
// BREAK EXCEPTIONS
// ======================================================

type BreakExceptions struct {
	store     Store
	directory appointment.Directory
	audit     *audit.Dispatcher
}

func NewBreakExceptions(
	store Store,
	directory appointment.Directory,
	audit *audit.Dispatcher,
) *BreakExceptions {
	return &BreakExceptions{
		store:     store,
		directory: directory,
		audit:     audit,
	}
}

// Create stores a one-day break override. Clinic-level exceptions apply
// to every doctor of the clinic.
func (uc *BreakExceptions) Create(
	ctx context.Context,
	clinicID uint,
	actorID uint,
	e *domain.BreakException,
) error {

	switch e.OwnerKind {
	case domain.OwnerDoctor:
		if err := appointment.EnsureDoctor(ctx, uc.directory, clinicID, e.OwnerID); err != nil {
			return err
		}
	case domain.OwnerClinic:
		e.OwnerID = clinicID
	default:
		return httperr.ErrBusiness("invalid_owner")
	}

	if err := e.Validate(); err != nil {
		return err
	}

	if err := uc.store.CreateBreakException(ctx, e); err != nil {
		return httperr.ErrCollaborator("create break exception", err)
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		UserID:   &actorID,
		Action:   "break_exception_created",
		Entity:   "break_exception",
		EntityID: &e.ID,
		Metadata: map[string]any{
			"owner_kind": e.OwnerKind,
			"owner_id":   e.OwnerID,
			"date":       e.Date.String(),
		},
	})

	return nil
}

// ListForDoctor returns every exception that can affect the doctor in
// [from, to], including the clinic-level ones.
func (uc *BreakExceptions) ListForDoctor(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
	from domain.Date,
	to domain.Date,
) ([]domain.BreakException, error) {

	if err := appointment.EnsureDoctor(ctx, uc.directory, clinicID, doctorID); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, httperr.ErrBusiness("invalid_date_range")
	}

	out, err := uc.store.BreakExceptions(ctx, doctorID, from, to)
	if err != nil {
		return nil, httperr.ErrCollaborator("break exceptions", err)
	}
	return out, nil
}

func (uc *BreakExceptions) ListForClinic(
	ctx context.Context,
	clinicID uint,
	from domain.Date,
	to domain.Date,
) ([]domain.BreakException, error) {

	if to.Before(from) {
		return nil, httperr.ErrBusiness("invalid_date_range")
	}

	out, err := uc.store.ListOwnerExceptions(ctx, domain.OwnerClinic, clinicID, from, to)
	if err != nil {
		return nil, httperr.ErrCollaborator("break exceptions", err)
	}
	return out, nil
}
