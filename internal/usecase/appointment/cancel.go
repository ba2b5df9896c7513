package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

type CancelAppointment struct {
	ledger domain.Ledger
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewCancelAppointment(
	ledger domain.Ledger,
	audit *audit.Dispatcher,
	now func() time.Time,
) *CancelAppointment {
	return &CancelAppointment{
		ledger: ledger,
		audit:  audit,
		now:    now,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	clinicID uint,
	actorID uint,
	appointmentID uint,
) (*domain.Appointment, error) {

	ap, err := uc.ledger.Get(ctx, clinicID, appointmentID)
	if err != nil {
		return nil, storageErr("get appointment", err)
	}

	if err := domain.Cancel(ap); err != nil {
		return nil, err
	}

	if err := uc.ledger.UpdateStatus(ctx, ap.ID, ap.Status, uc.now()); err != nil {
		return nil, storageErr("update appointment", err)
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		UserID:   &actorID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

type FinalizeAppointment struct {
	ledger domain.Ledger
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewFinalizeAppointment(
	ledger domain.Ledger,
	audit *audit.Dispatcher,
	now func() time.Time,
) *FinalizeAppointment {
	return &FinalizeAppointment{
		ledger: ledger,
		audit:  audit,
		now:    now,
	}
}

func (uc *FinalizeAppointment) Execute(
	ctx context.Context,
	clinicID uint,
	actorID uint,
	appointmentID uint,
) (*domain.Appointment, error) {

	ap, err := uc.ledger.Get(ctx, clinicID, appointmentID)
	if err != nil {
		return nil, storageErr("get appointment", err)
	}

	if err := domain.Finalize(ap); err != nil {
		return nil, err
	}

	if err := uc.ledger.UpdateStatus(ctx, ap.ID, ap.Status, uc.now()); err != nil {
		return nil, storageErr("update appointment", err)
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		UserID:   &actorID,
		Action:   "appointment_finalized",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
