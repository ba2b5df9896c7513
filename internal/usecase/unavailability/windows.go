package unavailability

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/unavailability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// ListWindows returns every unavailability window of the doctor.
func (w *Workflow) ListWindows(ctx context.Context, clinicID, doctorID uint) ([]domain.Window, error) {
	if err := appointment.EnsureDoctor(ctx, w.directory, clinicID, doctorID); err != nil {
		return nil, err
	}

	out, err := w.windows.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, httperr.ErrCollaborator("list unavailability", err)
	}
	return out, nil
}

// DeleteWindow removes a window directly. Freeing time never creates
// conflicts, so it skips the workflow.
func (w *Workflow) DeleteWindow(ctx context.Context, clinicID, actorID, doctorID, windowID uint) error {
	if err := appointment.EnsureDoctor(ctx, w.directory, clinicID, doctorID); err != nil {
		return err
	}

	if err := w.windows.Delete(ctx, doctorID, windowID); err != nil {
		if _, ok := httperr.BusinessCode(err); ok {
			return err
		}
		return httperr.ErrCollaborator("delete unavailability", err)
	}

	w.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		UserID:   &actorID,
		Action:   "unavailability_deleted",
		Entity:   "unavailability",
		EntityID: &windowID,
		Metadata: map[string]any{"doctor_id": doctorID},
	})

	return nil
}
