package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// Appointment is the ledger's view of a booking, as the engine reasons over it.
type Appointment struct {
	ID              uint      `json:"id"`
	ClinicID        uint      `json:"clinic_id"`
	DoctorID        uint      `json:"doctor_id"`
	PatientID       uint      `json:"patient_id"`
	ServiceID       uint      `json:"service_id"`
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          Status    `json:"status"`
	IsFitIn         bool      `json:"is_fit_in"`
}

func (a Appointment) Duration() time.Duration {
	return time.Duration(a.DurationMinutes) * time.Minute
}

func (a Appointment) End() time.Time {
	return a.Start.Add(a.Duration())
}

// Overlaps is the half-open test: [aStart, aEnd) ∩ [bStart, bEnd) ≠ ∅.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ===============================
// Domain Actions
// ===============================

func Reschedule(ap *Appointment, newStart time.Time) error {
	if err := CanReschedule(ap.Status); err != nil {
		return err
	}
	if newStart.IsZero() {
		return httperr.ErrBusiness("invalid_date_or_time")
	}
	ap.Start = newStart
	return nil
}

func Cancel(ap *Appointment) error {
	if err := CanCancel(ap.Status); err != nil {
		return err
	}
	ap.Status = StatusCancelled
	return nil
}

func Finalize(ap *Appointment) error {
	if err := CanFinalize(ap.Status); err != nil {
		return err
	}
	ap.Status = StatusFinalized
	return nil
}
