package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// ======================================================
// INPUT
// ======================================================

type CheckSlotInput struct {
	ClinicID uint
	DoctorID uint

	Start time.Time

	// DurationMinutes wins over ServiceID when both are set.
	DurationMinutes int
	ServiceID       uint

	ExcludeAppointmentID uint
	IsFitIn              bool
}

// ======================================================
// USE CASE
// ======================================================

type CheckSlot struct {
	directory domain.Directory
	detector  *availability.Detector
}

func NewCheckSlot(
	directory domain.Directory,
	detector *availability.Detector,
) *CheckSlot {
	return &CheckSlot{
		directory: directory,
		detector:  detector,
	}
}

func (uc *CheckSlot) Execute(
	ctx context.Context,
	in CheckSlotInput,
) (availability.Verdict, error) {

	if err := domain.EnsureDoctor(ctx, uc.directory, in.ClinicID, in.DoctorID); err != nil {
		return availability.Verdict{}, err
	}

	duration, err := resolveDuration(ctx, uc.directory, in.ClinicID, in.ServiceID, in.DurationMinutes)
	if err != nil {
		return availability.Verdict{}, err
	}

	return uc.detector.CheckSlot(ctx, in.DoctorID, in.Start, duration, availability.CheckOptions{
		ExcludeAppointmentID: in.ExcludeAppointmentID,
		IsFitIn:              in.IsFitIn,
	})
}

func resolveDuration(ctx context.Context, dir domain.Directory, clinicID, serviceID uint, minutes int) (int, error) {
	if minutes > 0 {
		return minutes, nil
	}
	if serviceID == 0 {
		return 0, httperr.ErrBusiness("invalid_duration")
	}
	d, err := dir.ServiceDuration(ctx, clinicID, serviceID)
	if err != nil {
		return 0, storageErr("service directory", err)
	}
	return d, nil
}
