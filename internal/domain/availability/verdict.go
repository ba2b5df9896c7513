package availability

import "github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"

type ReasonCode string

const (
	ReasonPastOrTooSoon           ReasonCode = "PAST_OR_TOO_SOON"
	ReasonNoExpedient             ReasonCode = "NO_EXPEDIENT_THIS_DAY"
	ReasonBeforeOpening           ReasonCode = "BEFORE_OPENING"
	ReasonAfterClosing            ReasonCode = "AFTER_CLOSING"
	ReasonExceedsClosing          ReasonCode = "EXCEEDS_CLOSING"
	ReasonDuringBreak             ReasonCode = "DURING_BREAK"
	ReasonBlockedByUnavailability ReasonCode = "BLOCKED_BY_UNAVAILABILITY"
	ReasonOverlapsAppointment     ReasonCode = "OVERLAPS_APPOINTMENT"
)

// Verdict is the outcome of a slot check. A rejection is a value, not an error.
type Verdict struct {
	Valid   bool       `json:"valid"`
	Reason  ReasonCode `json:"reason_code,omitempty"`
	Message string     `json:"message,omitempty"`

	ConflictingAppointmentID *uint               `json:"conflicting_appointment_id,omitempty"`
	LatestValidStart         *schedule.LocalTime `json:"latest_valid_start,omitempty"`
}

func Accepted() Verdict {
	return Verdict{Valid: true}
}

func Rejected(reason ReasonCode, message string) Verdict {
	return Verdict{Reason: reason, Message: message}
}
