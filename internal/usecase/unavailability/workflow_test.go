package unavailability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

func surgery(start, end time.Time) Input {
	return Input{
		ClinicID: clinicID,
		DoctorID: doctorID,
		Start:    start,
		End:      end,
		Reason:   "cirurgia",
	}
}

func TestAttemptCreate_CleanWhenNothingIntersects(t *testing.T) {
	h := newHarness(confirmed(1, at(20, 14, 0), 30))

	a, err := h.workflow.AttemptCreate(context.Background(), surgery(at(20, 9, 0), at(20, 10, 30)))
	require.NoError(t, err)

	assert.Equal(t, StateClean, a.State)
	require.NotNil(t, a.Window)
	assert.NotZero(t, a.Window.ID)
	assert.Equal(t, 1, h.windows.count())

	_, err = h.store.Get(context.Background(), a.ID)
	assert.True(t, httperr.IsBusiness(err, "attempt_not_found"))
}

func TestAttemptCreate_EffectiveEndCountsForIntersection(t *testing.T) {
	// janela até 10:30 bloqueia até 11:00
	h := newHarness(confirmed(1, at(20, 10, 45), 15))

	a, err := h.workflow.AttemptCreate(context.Background(), surgery(at(20, 10, 0), at(20, 10, 30)))
	require.NoError(t, err)

	assert.Equal(t, StateConflictPresented, a.State)
	require.Len(t, a.Conflicts, 1)
	assert.Equal(t, uint(1), a.Conflicts[0].Appointment.ID)
	assert.Zero(t, h.windows.count())
}

// Três consultas sob a janela; uma delas (330 min) não cabe em nenhum
// expediente dos próximos 30 dias.
func TestWorkflow_ThreeConflictsResolvedThenForced(t *testing.T) {
	h := newHarness(
		confirmed(1, at(20, 9, 0), 30),
		confirmed(2, at(20, 10, 0), 30),
		confirmed(3, at(20, 11, 0), 330),
	)
	ctx := context.Background()

	a, err := h.workflow.AttemptCreate(ctx, surgery(at(20, 9, 0), at(20, 11, 30)))
	require.NoError(t, err)
	require.Equal(t, StateConflictPresented, a.State)
	require.Len(t, a.Conflicts, 3)

	for _, c := range a.Conflicts {
		if c.Appointment.ID == 3 {
			assert.Empty(t, c.Suggestion.Candidates)
		} else {
			assert.NotEmpty(t, c.Suggestion.Candidates)
		}
	}
	assert.Zero(t, h.windows.count())

	// primeira remarcação
	res, err := h.workflow.ResolveOneConflict(ctx, clinicID, a.ID, 1, firstSuggestion(t, a, 1))
	require.NoError(t, err)
	assert.True(t, res.Verdict.Valid)
	assert.Equal(t, StateConflictPresented, res.Attempt.State)
	assert.Len(t, res.Attempt.Conflicts, 2)

	// segunda, com sugestões recalculadas
	res, err = h.workflow.ResolveOneConflict(ctx, clinicID, a.ID, 2, firstSuggestion(t, res.Attempt, 2))
	require.NoError(t, err)
	assert.True(t, res.Verdict.Valid)
	assert.Equal(t, StateConflictPresented, res.Attempt.State)
	require.Len(t, res.Attempt.Conflicts, 1)
	assert.Equal(t, uint(3), res.Attempt.Conflicts[0].Appointment.ID)

	stored, err := h.workflow.Get(ctx, clinicID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StateConflictPresented, stored.State)
	assert.Zero(t, h.windows.count())

	forced, err := h.workflow.Force(ctx, clinicID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StateClean, forced.State)
	assert.Equal(t, 1, h.windows.count())

	// a consulta restante fica intacta
	assert.Equal(t, at(20, 11, 0), h.ledger.get(3).Start)
}

func TestWorkflow_LastResolutionPersistsWindow(t *testing.T) {
	h := newHarness(confirmed(1, at(20, 9, 0), 30))
	ctx := context.Background()

	a, err := h.workflow.AttemptCreate(ctx, surgery(at(20, 9, 0), at(20, 9, 40)))
	require.NoError(t, err)
	require.Equal(t, StateConflictPresented, a.State)

	target := firstSuggestion(t, a, 1)
	res, err := h.workflow.ResolveOneConflict(ctx, clinicID, a.ID, 1, target)
	require.NoError(t, err)

	assert.True(t, res.Verdict.Valid)
	assert.Equal(t, StateClean, res.Attempt.State)
	assert.Empty(t, res.Attempt.Conflicts)
	assert.Equal(t, 1, h.windows.count())
	assert.Equal(t, target, h.ledger.get(1).Start)

	_, err = h.workflow.Get(ctx, clinicID, a.ID)
	assert.True(t, httperr.IsBusiness(err, "attempt_not_found"))
}

func TestForceCreate_NeverTouchesAppointments(t *testing.T) {
	before := []struct {
		id    uint
		start time.Time
	}{
		{1, at(20, 9, 0)},
		{2, at(20, 10, 0)},
	}
	h := newHarness(confirmed(1, at(20, 9, 0), 30), confirmed(2, at(20, 10, 0), 30))

	in := surgery(at(20, 8, 0), at(20, 12, 0))
	in.IgnoreConflicts = true

	a, err := h.workflow.AttemptCreate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, StateClean, a.State)
	assert.Equal(t, 1, h.windows.count())

	for _, b := range before {
		ap := h.ledger.get(b.id)
		assert.Equal(t, b.start, ap.Start)
		assert.True(t, ap.Status.Occupies())
	}
}

func TestCancel_ReturnsToDraftWithoutPersisting(t *testing.T) {
	h := newHarness(confirmed(1, at(20, 9, 0), 30))
	ctx := context.Background()

	a, err := h.workflow.AttemptCreate(ctx, surgery(at(20, 9, 0), at(20, 10, 0)))
	require.NoError(t, err)

	cancelled, err := h.workflow.Cancel(ctx, clinicID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StateDraft, cancelled.State)
	assert.Zero(t, h.windows.count())

	_, err = h.workflow.Force(ctx, clinicID, a.ID)
	assert.True(t, httperr.IsBusiness(err, "attempt_not_found"))
}

func TestResolveOneConflict_RejectsTargetInsidePendingWindow(t *testing.T) {
	h := newHarness(confirmed(1, at(20, 9, 0), 30))
	ctx := context.Background()

	a, err := h.workflow.AttemptCreate(ctx, surgery(at(20, 9, 0), at(20, 10, 0)))
	require.NoError(t, err)

	// 10:15 ainda está dentro do bloqueio efetivo (até 11:00)
	res, err := h.workflow.ResolveOneConflict(ctx, clinicID, a.ID, 1, at(20, 10, 15))
	require.NoError(t, err)

	assert.False(t, res.Verdict.Valid)
	assert.Equal(t, availability.ReasonBlockedByUnavailability, res.Verdict.Reason)
	assert.Equal(t, StateConflictPresented, res.Attempt.State)
	assert.Equal(t, at(20, 9, 0), h.ledger.get(1).Start)
}

func TestResolveOneConflict_RejectsInvalidSlot(t *testing.T) {
	h := newHarness(confirmed(1, at(20, 9, 0), 30))
	ctx := context.Background()

	a, err := h.workflow.AttemptCreate(ctx, surgery(at(20, 9, 0), at(20, 10, 0)))
	require.NoError(t, err)

	res, err := h.workflow.ResolveOneConflict(ctx, clinicID, a.ID, 1, at(21, 12, 30))
	require.NoError(t, err)
	assert.Equal(t, availability.ReasonDuringBreak, res.Verdict.Reason)

	stored, err := h.workflow.Get(ctx, clinicID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StateConflictPresented, stored.State)
}

func TestResolveOneConflict_StorageRaceBecomesVerdict(t *testing.T) {
	h := newHarness(confirmed(1, at(20, 9, 0), 30))
	ctx := context.Background()

	a, err := h.workflow.AttemptCreate(ctx, surgery(at(20, 9, 0), at(20, 10, 0)))
	require.NoError(t, err)

	h.ledger.rescheduleErr = httperr.ErrBusiness("time_conflict")

	res, err := h.workflow.ResolveOneConflict(ctx, clinicID, a.ID, 1, firstSuggestion(t, a, 1))
	require.NoError(t, err)
	assert.Equal(t, availability.ReasonOverlapsAppointment, res.Verdict.Reason)
	assert.Equal(t, StateConflictPresented, res.Attempt.State)
}

func TestResolveOneConflict_UnknownAppointment(t *testing.T) {
	h := newHarness(confirmed(1, at(20, 9, 0), 30))
	ctx := context.Background()

	a, err := h.workflow.AttemptCreate(ctx, surgery(at(20, 9, 0), at(20, 10, 0)))
	require.NoError(t, err)

	_, err = h.workflow.ResolveOneConflict(ctx, clinicID, a.ID, 99, at(21, 9, 0))
	assert.True(t, httperr.IsBusiness(err, "appointment_not_in_conflict"))
}

func TestWorkflow_PersistFailureReturnsToDraft(t *testing.T) {
	h := newHarness(confirmed(1, at(20, 9, 0), 30))
	ctx := context.Background()

	a, err := h.workflow.AttemptCreate(ctx, surgery(at(20, 9, 0), at(20, 10, 0)))
	require.NoError(t, err)

	h.windows.createErr = errors.New("connection reset")
	target := firstSuggestion(t, a, 1)

	_, err = h.workflow.ResolveOneConflict(ctx, clinicID, a.ID, 1, target)
	require.Error(t, err)
	assert.True(t, httperr.IsCollaborator(err))

	// a remarcação já feita não é desfeita
	assert.Equal(t, target, h.ledger.get(1).Start)

	_, err = h.workflow.Get(ctx, clinicID, a.ID)
	assert.True(t, httperr.IsBusiness(err, "attempt_not_found"))
	assert.Zero(t, h.windows.count())
}

func TestAttemptCreate_LedgerFailure(t *testing.T) {
	h := newHarness()
	h.ledger.listErr = errors.New("timeout")

	_, err := h.workflow.AttemptCreate(context.Background(), surgery(at(20, 9, 0), at(20, 10, 0)))
	assert.True(t, httperr.IsCollaborator(err))
	assert.Zero(t, h.windows.count())
}

func TestAttemptCreate_AttemptStoreFailure(t *testing.T) {
	h := newHarness(confirmed(1, at(20, 9, 0), 30))
	h.store = failingStore{NewMemoryAttemptStore(0)}
	h.build()

	_, err := h.workflow.AttemptCreate(context.Background(), surgery(at(20, 9, 0), at(20, 10, 0)))
	assert.True(t, httperr.IsCollaborator(err))
}

func TestAttemptCreate_Validation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.workflow.AttemptCreate(ctx, surgery(at(20, 10, 0), at(20, 10, 0)))
	assert.True(t, httperr.IsBusiness(err, "invalid_window"))

	in := surgery(at(20, 9, 0), at(20, 10, 0))
	in.DoctorID = 42
	_, err = h.workflow.AttemptCreate(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "doctor_not_found"))

	in = surgery(at(20, 9, 0), at(20, 10, 0))
	in.WindowID = 77
	_, err = h.workflow.AttemptCreate(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "unavailability_not_found"))
}

func TestAttemptCreate_UpdatesExistingWindow(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	created, err := h.workflow.AttemptCreate(ctx, surgery(at(20, 9, 0), at(20, 10, 0)))
	require.NoError(t, err)

	in := surgery(at(20, 14, 0), at(20, 15, 0))
	in.WindowID = created.Window.ID

	updated, err := h.workflow.AttemptCreate(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, StateClean, updated.State)
	assert.Equal(t, 1, h.windows.updated)
	assert.Equal(t, 1, h.windows.count())
}

func TestGet_OtherClinicCannotSeeAttempt(t *testing.T) {
	h := newHarness(confirmed(1, at(20, 9, 0), 30))
	ctx := context.Background()

	a, err := h.workflow.AttemptCreate(ctx, surgery(at(20, 9, 0), at(20, 10, 0)))
	require.NoError(t, err)

	_, err = h.workflow.Get(ctx, clinicID+1, a.ID)
	assert.True(t, httperr.IsBusiness(err, "attempt_not_found"))

	_, err = h.workflow.Get(ctx, clinicID, uuid.New())
	assert.True(t, httperr.IsBusiness(err, "attempt_not_found"))
}
