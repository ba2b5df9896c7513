package unavailability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/reschedule"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/unavailability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/observability/metrics"
)

type Deps struct {
	Windows   domain.Repository
	Ledger    appointment.Ledger
	Directory appointment.Directory
	Detector  *availability.Detector
	Generator *reschedule.Generator
	Store     AttemptStore
	Audit     *audit.Dispatcher
	Metrics   *metrics.EngineMetrics
	Log       zerolog.Logger
}

// Workflow drives creation and update of unavailability windows through
// conflict detection and per-appointment resolution.
type Workflow struct {
	windows   domain.Repository
	ledger    appointment.Ledger
	directory appointment.Directory
	detector  *availability.Detector
	generator *reschedule.Generator
	store     AttemptStore
	audit     *audit.Dispatcher
	metrics   *metrics.EngineMetrics
	log       zerolog.Logger
}

func NewWorkflow(d Deps) *Workflow {
	return &Workflow{
		windows:   d.Windows,
		ledger:    d.Ledger,
		directory: d.Directory,
		detector:  d.Detector,
		generator: d.Generator,
		store:     d.Store,
		audit:     d.Audit,
		metrics:   d.Metrics,
		log:       d.Log.With().Str("component", "unavailability_workflow").Logger(),
	}
}

type ResolveResult struct {
	Attempt *Attempt             `json:"attempt"`
	Verdict availability.Verdict `json:"verdict"`
}

// ======================================================
// ENTRY POINTS
// ======================================================

// AttemptCreate validates the window against booked appointments. The
// result is Clean (window persisted) or ConflictPresented (nothing
// persisted, attempt stored for resolution). IgnoreConflicts behaves as
// ForceCreate.
func (w *Workflow) AttemptCreate(ctx context.Context, in Input) (*Attempt, error) {
	if in.IgnoreConflicts {
		return w.ForceCreate(ctx, in)
	}

	a, err := w.start(ctx, in)
	if err != nil {
		return nil, err
	}

	conflicts, err := w.conflicts(ctx, a)
	if err != nil {
		return nil, w.fail(ctx, a, err)
	}

	if len(conflicts) == 0 {
		if err := w.persist(ctx, a, ""); err != nil {
			return nil, err
		}
		return a, nil
	}

	a.Conflicts = conflicts
	if err := w.move(a, StateConflictPresented); err != nil {
		return nil, err
	}
	if err := w.store.Save(ctx, a); err != nil {
		return nil, w.fail(ctx, a, err)
	}

	ids := make([]uint, 0, len(conflicts))
	for _, c := range conflicts {
		ids = append(ids, c.Appointment.ID)
	}
	w.audit.Dispatch(audit.Event{
		ClinicID: in.ClinicID,
		UserID:   in.ActorID,
		Action:   "unavailability_conflict",
		Entity:   "unavailability",
		EntityID: optionalID(in.WindowID),
		Metadata: map[string]any{
			"attempt_id":      a.ID.String(),
			"doctor_id":       in.DoctorID,
			"appointment_ids": ids,
		},
	})

	w.log.Info().
		Str("attempt_id", a.ID.String()).
		Uint("doctor_id", in.DoctorID).
		Int("conflicts", len(conflicts)).
		Msg("unavailability conflicts presented")

	return a, nil
}

// ForceCreate persists the window without looking at appointments. The
// overlapping appointments stay untouched.
func (w *Workflow) ForceCreate(ctx context.Context, in Input) (*Attempt, error) {
	a, err := w.start(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := w.persist(ctx, a, "unavailability_forced"); err != nil {
		return nil, err
	}
	return a, nil
}

// Force persists the window of an attempt in ConflictPresented, leaving
// the remaining conflicts as they are.
func (w *Workflow) Force(ctx context.Context, clinicID uint, attemptID uuid.UUID) (*Attempt, error) {
	a, err := w.load(ctx, clinicID, attemptID)
	if err != nil {
		return nil, err
	}
	if err := w.move(a, StateResolving); err != nil {
		return nil, err
	}
	if err := w.persist(ctx, a, "unavailability_forced"); err != nil {
		return nil, err
	}
	return a, nil
}

// Cancel drops an attempt in ConflictPresented. Nothing is persisted.
func (w *Workflow) Cancel(ctx context.Context, clinicID uint, attemptID uuid.UUID) (*Attempt, error) {
	a, err := w.load(ctx, clinicID, attemptID)
	if err != nil {
		return nil, err
	}
	if err := w.move(a, StateDraft); err != nil {
		return nil, err
	}
	if err := w.store.Delete(ctx, a.ID); err != nil {
		return nil, httperr.ErrCollaborator("delete attempt", err)
	}
	return a, nil
}

func (w *Workflow) Get(ctx context.Context, clinicID uint, attemptID uuid.UUID) (*Attempt, error) {
	return w.load(ctx, clinicID, attemptID)
}

// ResolveOneConflict moves one conflicting appointment to newStart and
// re-validates the attempt. A rejected target slot leaves the attempt in
// ConflictPresented and comes back as a verdict, not an error.
func (w *Workflow) ResolveOneConflict(
	ctx context.Context,
	clinicID uint,
	attemptID uuid.UUID,
	appointmentID uint,
	newStart time.Time,
) (ResolveResult, error) {

	a, err := w.load(ctx, clinicID, attemptID)
	if err != nil {
		return ResolveResult{}, err
	}

	c, ok := a.conflict(appointmentID)
	if !ok {
		return ResolveResult{}, httperr.ErrBusiness("appointment_not_in_conflict")
	}

	if err := w.move(a, StateResolving); err != nil {
		return ResolveResult{}, err
	}

	ap := c.Appointment
	pending := a.Input.Window().In(w.detector.Rules().Location)

	// --------------------------------------------------
	// 1. O destino não pode cair na janela pendente
	// --------------------------------------------------
	if pending.Intersects(newStart, newStart.Add(ap.Duration())) {
		v := availability.BlockedBy(pending, w.detector.Rules().Location)
		return w.reject(ctx, a, v)
	}

	// --------------------------------------------------
	// 2. Guards normais, ignorando a própria consulta
	// --------------------------------------------------
	v, err := w.detector.CheckSlot(ctx, ap.DoctorID, newStart, ap.DurationMinutes, availability.CheckOptions{
		ExcludeAppointmentID: ap.ID,
		IsFitIn:              ap.IsFitIn,
	})
	if err != nil {
		return w.keep(ctx, a, err)
	}
	if !v.Valid {
		return w.reject(ctx, a, v)
	}

	// --------------------------------------------------
	// 3. Remarcação (commit independente)
	// --------------------------------------------------
	moved, err := w.ledger.Reschedule(ctx, ap.ID, newStart)
	if err != nil {
		if httperr.IsBusiness(err, "time_conflict") {
			return w.reject(ctx, a, availability.Rejected(
				availability.ReasonOverlapsAppointment,
				"O horário acabou de ser ocupado por outra consulta.",
			))
		}
		if _, ok := httperr.BusinessCode(err); ok {
			return w.keep(ctx, a, err)
		}
		return ResolveResult{}, w.fail(ctx, a, err)
	}

	w.audit.Dispatch(audit.Event{
		ClinicID: a.Input.ClinicID,
		UserID:   a.Input.ActorID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &moved.ID,
		Metadata: map[string]any{
			"attempt_id": a.ID.String(),
			"from":       ap.Start,
			"to":         moved.Start,
		},
	})

	// --------------------------------------------------
	// 4. Revalidação
	// --------------------------------------------------
	conflicts, err := w.conflicts(ctx, a)
	if err != nil {
		return ResolveResult{}, w.fail(ctx, a, err)
	}

	if len(conflicts) == 0 {
		a.Conflicts = nil
		if err := w.persist(ctx, a, ""); err != nil {
			return ResolveResult{}, err
		}
		return ResolveResult{Attempt: a, Verdict: availability.Accepted()}, nil
	}

	a.Conflicts = conflicts
	if err := w.move(a, StateConflictPresented); err != nil {
		return ResolveResult{}, err
	}
	if err := w.store.Save(ctx, a); err != nil {
		return ResolveResult{}, w.fail(ctx, a, err)
	}

	return ResolveResult{Attempt: a, Verdict: availability.Accepted()}, nil
}

// ======================================================
// STEPS
// ======================================================

// start validates the input and returns a fresh attempt in Validating.
func (w *Workflow) start(ctx context.Context, in Input) (*Attempt, error) {
	if err := in.Window().Validate(); err != nil {
		return nil, err
	}

	if err := appointment.EnsureDoctor(ctx, w.directory, in.ClinicID, in.DoctorID); err != nil {
		return nil, err
	}

	if in.WindowID != 0 {
		if _, err := w.windows.Get(ctx, in.DoctorID, in.WindowID); err != nil {
			return nil, err
		}
	}

	now := w.detector.Now()
	a := &Attempt{
		ID:        uuid.New(),
		State:     StateDraft,
		Input:     in,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := w.move(a, StateValidating); err != nil {
		return nil, err
	}
	return a, nil
}

// conflicts lists the appointments intersecting the pending window, each
// with its reschedule suggestions.
func (w *Workflow) conflicts(ctx context.Context, a *Attempt) ([]Conflict, error) {
	pending := a.Input.Window().In(w.detector.Rules().Location)

	aps, err := w.ledger.ListIntersecting(ctx, pending.DoctorID, pending.Start, pending.EffectiveEnd())
	if err != nil {
		return nil, httperr.ErrCollaborator("list intersecting appointments", err)
	}

	opts := reschedule.Options{Avoid: []domain.Window{pending}}

	var out []Conflict
	for _, ap := range aps {
		if !ap.Status.Occupies() {
			continue
		}
		s, err := w.generator.Suggest(ctx, ap, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, Conflict{Appointment: ap, Suggestion: s})
	}
	return out, nil
}

// persist writes the window and ends the attempt in Clean.
func (w *Workflow) persist(ctx context.Context, a *Attempt, action string) error {
	win := a.Input.Window().In(w.detector.Rules().Location)

	var err error
	if win.ID != 0 {
		err = w.windows.Update(ctx, &win)
	} else {
		err = w.windows.Create(ctx, &win)
	}
	if err != nil {
		return w.fail(ctx, a, err)
	}

	a.Window = &win
	if err := w.move(a, StateClean); err != nil {
		return err
	}

	if err := w.store.Delete(ctx, a.ID); err != nil {
		w.log.Warn().Err(err).Str("attempt_id", a.ID.String()).Msg("attempt cleanup failed")
	}

	if action == "" {
		action = "unavailability_created"
		if a.Input.WindowID != 0 {
			action = "unavailability_updated"
		}
	}

	w.audit.Dispatch(audit.Event{
		ClinicID: a.Input.ClinicID,
		UserID:   a.Input.ActorID,
		Action:   action,
		Entity:   "unavailability",
		EntityID: &win.ID,
		Metadata: map[string]any{
			"doctor_id":          win.DoctorID,
			"start":              win.Start,
			"end":                win.End,
			"reason":             win.Reason,
			"ignored_conflicts":  len(a.Conflicts),
			"effective_end_time": win.EffectiveEnd(),
		},
	})

	return nil
}

// reject puts the attempt back in ConflictPresented after a refused
// resolution step.
func (w *Workflow) reject(ctx context.Context, a *Attempt, v availability.Verdict) (ResolveResult, error) {
	if err := w.move(a, StateConflictPresented); err != nil {
		return ResolveResult{}, err
	}
	if err := w.store.Save(ctx, a); err != nil {
		return ResolveResult{}, w.fail(ctx, a, err)
	}
	return ResolveResult{Attempt: a, Verdict: v}, nil
}

// keep returns cause while leaving the attempt open for another try.
func (w *Workflow) keep(ctx context.Context, a *Attempt, cause error) (ResolveResult, error) {
	if _, err := w.reject(ctx, a, availability.Verdict{}); err != nil {
		return ResolveResult{}, err
	}
	return ResolveResult{}, cause
}

// fail sends the attempt back to Draft and drops it. Already committed
// reschedules are kept.
func (w *Workflow) fail(ctx context.Context, a *Attempt, cause error) error {
	if a.State.CanMoveTo(StateDraft) {
		_ = w.move(a, StateDraft)
	}

	if err := w.store.Delete(ctx, a.ID); err != nil {
		w.log.Warn().Err(err).Str("attempt_id", a.ID.String()).Msg("attempt cleanup failed")
	}

	w.log.Error().Err(cause).
		Str("attempt_id", a.ID.String()).
		Uint("doctor_id", a.Input.DoctorID).
		Msg("unavailability workflow aborted")

	if _, ok := httperr.BusinessCode(cause); ok {
		return cause
	}
	return httperr.ErrCollaborator("unavailability workflow", cause)
}

func (w *Workflow) load(ctx context.Context, clinicID uint, id uuid.UUID) (*Attempt, error) {
	a, err := w.store.Get(ctx, id)
	if err != nil {
		if _, ok := httperr.BusinessCode(err); ok {
			return nil, err
		}
		return nil, httperr.ErrCollaborator("get attempt", err)
	}
	if a.Input.ClinicID != clinicID {
		return nil, httperr.ErrBusiness("attempt_not_found")
	}
	return a, nil
}

func (w *Workflow) move(a *Attempt, to State) error {
	if err := checkTransition(a.State, to); err != nil {
		return err
	}
	a.State = to
	a.UpdatedAt = w.detector.Now()
	w.metrics.ObserveTransition(string(to))
	return nil
}

func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
