package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/reschedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

type AvailabilityInput struct {
	ClinicID  uint
	DoctorID  uint
	ServiceID uint
	Date      schedule.Date

	// StepMinutes 0 means the clinic default.
	StepMinutes int
	IsFitIn     bool
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type GetAvailability struct {
	directory domain.Directory
	generator *reschedule.Generator
}

func NewGetAvailability(
	directory domain.Directory,
	generator *reschedule.Generator,
) *GetAvailability {
	return &GetAvailability{
		directory: directory,
		generator: generator,
	}
}

// Execute lists every start on the date that passes all slot guards for
// the service duration.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]TimeSlot, error) {

	if err := domain.EnsureDoctor(ctx, uc.directory, in.ClinicID, in.DoctorID); err != nil {
		return nil, err
	}

	duration, err := resolveDuration(ctx, uc.directory, in.ClinicID, in.ServiceID, 0)
	if err != nil {
		return nil, err
	}

	times, err := uc.generator.SlotsForDay(
		ctx,
		in.DoctorID,
		in.Date,
		duration,
		reschedule.Options{MaxSlotsPerDay: -1, SlotStepMinutes: in.StepMinutes},
		availability.CheckOptions{IsFitIn: in.IsFitIn},
	)
	if err != nil {
		return nil, err
	}

	slots := make([]TimeSlot, 0, len(times))
	for _, t := range times {
		slots = append(slots, TimeSlot{
			Start: t.String(),
			End:   t.Add(duration).String(),
		})
	}
	return slots, nil
}
