package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/reschedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

type SuggestReschedule struct {
	ledger    domain.Ledger
	generator *reschedule.Generator
}

func NewSuggestReschedule(
	ledger domain.Ledger,
	generator *reschedule.Generator,
) *SuggestReschedule {
	return &SuggestReschedule{
		ledger:    ledger,
		generator: generator,
	}
}

func (uc *SuggestReschedule) Execute(
	ctx context.Context,
	clinicID uint,
	appointmentID uint,
	opts reschedule.Options,
) (reschedule.Suggestion, error) {

	ap, err := uc.ledger.Get(ctx, clinicID, appointmentID)
	if err != nil {
		return reschedule.Suggestion{}, storageErr("get appointment", err)
	}

	if err := domain.CanReschedule(ap.Status); err != nil {
		return reschedule.Suggestion{}, err
	}
	if ap.DurationMinutes <= 0 {
		return reschedule.Suggestion{}, httperr.ErrBusiness("invalid_duration")
	}

	return uc.generator.Suggest(ctx, *ap, opts)
}
