package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
)

type GetEffectiveSchedule struct {
	directory domain.Directory
	detector  *availability.Detector
}

func NewGetEffectiveSchedule(
	directory domain.Directory,
	detector *availability.Detector,
) *GetEffectiveSchedule {
	return &GetEffectiveSchedule{
		directory: directory,
		detector:  detector,
	}
}

// Execute returns nil when the doctor does not work on date.
func (uc *GetEffectiveSchedule) Execute(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
	date schedule.Date,
) (*schedule.EffectiveSchedule, error) {

	if err := domain.EnsureDoctor(ctx, uc.directory, clinicID, doctorID); err != nil {
		return nil, err
	}
	return uc.detector.ResolveEffectiveSchedule(ctx, doctorID, date)
}

type GetDoctorDay struct {
	directory domain.Directory
	detector  *availability.Detector
}

func NewGetDoctorDay(
	directory domain.Directory,
	detector *availability.Detector,
) *GetDoctorDay {
	return &GetDoctorDay{
		directory: directory,
		detector:  detector,
	}
}

func (uc *GetDoctorDay) Execute(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
	date schedule.Date,
) (*dto.DoctorDayDTO, error) {

	if err := domain.EnsureDoctor(ctx, uc.directory, clinicID, doctorID); err != nil {
		return nil, err
	}

	day, err := uc.detector.LoadDay(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	out := &dto.DoctorDayDTO{
		DoctorID:       doctorID,
		Date:           date,
		Schedule:       day.Schedule,
		Appointments:   make([]dto.AppointmentListDTO, 0, len(day.Appointments)),
		Unavailability: make([]dto.UnavailabilityDTO, 0, len(day.Windows)),
	}

	for _, ap := range day.Appointments {
		out.Appointments = append(out.Appointments, dto.AppointmentListDTO{
			ID:        ap.ID,
			PatientID: ap.PatientID,
			ServiceID: ap.ServiceID,
			StartTime: ap.Start,
			EndTime:   ap.End(),
			Status:    string(ap.Status),
			IsFitIn:   ap.IsFitIn,
		})
	}

	for _, w := range day.Windows {
		out.Unavailability = append(out.Unavailability, dto.UnavailabilityDTO{
			ID:           w.ID,
			Start:        w.Start,
			End:          w.End,
			Reason:       w.Reason,
			BlockedUntil: w.EffectiveEnd(),
		})
	}

	return out, nil
}
