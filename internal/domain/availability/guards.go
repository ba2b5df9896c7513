package availability

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/unavailability"
)

// Rules are the clinic-wide parameters of the guards.
type Rules struct {
	Location   *time.Location
	MinAdvance time.Duration
}

type CheckOptions struct {
	// ExcludeAppointmentID ignores one appointment (0 = none), used when
	// re-validating an edit of that same appointment.
	ExcludeAppointmentID uint
	IsFitIn              bool
}

// Day holds everything the guards read for one doctor on one date.
type Day struct {
	DoctorID     uint
	Date         schedule.Date
	Schedule     *schedule.EffectiveSchedule
	Windows      []unavailability.Window
	Appointments []appointment.Appointment
}

// Evaluate runs the guards in order; the first failing one decides.
// start must fall on day.Date in rules.Location.
func Evaluate(
	rules Rules,
	now time.Time,
	day *Day,
	start time.Time,
	durationMinutes int,
	opts CheckOptions,
) Verdict {

	start = start.In(rules.Location)
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	// --------------------------------------------------
	// 1. Passado / antecedência mínima
	// --------------------------------------------------
	if v := checkAdvance(rules, now, start); !v.Valid {
		return v
	}

	// --------------------------------------------------
	// 2. Expediente do dia
	// --------------------------------------------------
	sch := day.Schedule
	if sch == nil {
		return Rejected(ReasonNoExpedient, fmt.Sprintf(
			"O médico não atende em %s.", day.Date.Start(rules.Location).Format("02/01/2006"),
		))
	}

	// --------------------------------------------------
	// 3. Limites do expediente
	// --------------------------------------------------
	opening, closing := sch.Bounds(rules.Location)

	if start.Before(opening) {
		return Rejected(ReasonBeforeOpening, fmt.Sprintf(
			"Horário antes do início do expediente (%s).", sch.Start,
		))
	}
	if !start.Before(closing) {
		return Rejected(ReasonAfterClosing, fmt.Sprintf(
			"Horário após o fim do expediente (%s).", sch.End,
		))
	}
	if end.After(closing) {
		latest := sch.End.Add(-durationMinutes)
		if latest < sch.Start {
			return Rejected(ReasonExceedsClosing, fmt.Sprintf(
				"O atendimento de %d minutos não cabe no expediente de %s às %s.",
				durationMinutes, sch.Start, sch.End,
			))
		}
		v := Rejected(ReasonExceedsClosing, fmt.Sprintf(
			"O atendimento de %d minutos ultrapassa o fim do expediente (%s). Último horário de início válido: %s.",
			durationMinutes, sch.End, latest,
		))
		v.LatestValidStart = &latest
		return v
	}

	// --------------------------------------------------
	// 4. Intervalo (almoço)
	// --------------------------------------------------
	if bs, be, ok := sch.Break(rules.Location); ok && appointment.Overlaps(start, end, bs, be) {
		return Rejected(ReasonDuringBreak, fmt.Sprintf(
			"Horário coincide com o intervalo (%s às %s).", *sch.BreakStart, *sch.BreakEnd,
		))
	}

	// --------------------------------------------------
	// 5. Indisponibilidades
	// --------------------------------------------------
	for _, w := range day.Windows {
		if w.DoctorID != day.DoctorID || !w.Blocks(start) {
			continue
		}
		return BlockedBy(w, rules.Location)
	}

	// --------------------------------------------------
	// 6. Sobreposição com consultas (encaixe ignora)
	// --------------------------------------------------
	if opts.IsFitIn {
		return Accepted()
	}

	for _, ap := range day.Appointments {
		if !ap.Status.Occupies() {
			continue
		}
		if opts.ExcludeAppointmentID != 0 && ap.ID == opts.ExcludeAppointmentID {
			continue
		}
		if !appointment.Overlaps(start, end, ap.Start, ap.End()) {
			continue
		}
		id := ap.ID
		v := Rejected(ReasonOverlapsAppointment, fmt.Sprintf(
			"Conflito com a consulta das %s às %s. Use o modo encaixe para agendar mesmo assim.",
			ap.Start.In(rules.Location).Format("15:04"),
			ap.End().In(rules.Location).Format("15:04"),
		))
		v.ConflictingAppointmentID = &id
		return v
	}

	return Accepted()
}

func checkAdvance(rules Rules, now time.Time, start time.Time) Verdict {
	if start.Before(now.Add(rules.MinAdvance)) {
		return Rejected(ReasonPastOrTooSoon, fmt.Sprintf(
			"Horário no passado ou com menos de %d minutos de antecedência.",
			int(rules.MinAdvance/time.Minute),
		))
	}
	return Accepted()
}

// BlockedBy is the verdict for a start that falls inside w.
func BlockedBy(w unavailability.Window, loc *time.Location) Verdict {
	return Rejected(ReasonBlockedByUnavailability, blockedMessage(w, loc))
}

func blockedMessage(w unavailability.Window, loc *time.Location) string {
	from := w.Start.In(loc)
	until := w.EffectiveEnd().In(loc).Add(-time.Minute)

	layout := "15:04"
	if schedule.DateOf(from) != schedule.DateOf(until) {
		layout = "02/01 15:04"
	}

	msg := fmt.Sprintf("Médico indisponível das %s às %s", from.Format(layout), until.Format(layout))
	if w.Reason != "" {
		msg += fmt.Sprintf(" (%s)", w.Reason)
	}
	return msg + "."
}
