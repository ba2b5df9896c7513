package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// Ledger is the system of record for booked appointments.
type Ledger interface {
	// ListForDoctor returns the non-cancelled appointments of the doctor
	// starting in [from, to), ordered by start.
	ListForDoctor(
		ctx context.Context,
		doctorID uint,
		from time.Time,
		to time.Time,
	) ([]Appointment, error)

	// ListIntersecting returns the non-cancelled appointments of the
	// doctor whose [start, end) overlaps [from, to).
	ListIntersecting(
		ctx context.Context,
		doctorID uint,
		from time.Time,
		to time.Time,
	) ([]Appointment, error)

	Get(
		ctx context.Context,
		clinicID uint,
		appointmentID uint,
	) (*Appointment, error)

	// Reschedule moves the appointment keeping its duration. The storage
	// layer rejects the write with business "time_conflict" when another
	// committed appointment already holds the interval.
	Reschedule(
		ctx context.Context,
		appointmentID uint,
		newStart time.Time,
	) (*Appointment, error)

	UpdateStatus(
		ctx context.Context,
		appointmentID uint,
		status Status,
		at time.Time,
	) error
}

// Directory answers who exists and how long a service takes.
type Directory interface {
	DoctorExists(ctx context.Context, clinicID uint, doctorID uint) (bool, error)

	ServiceDuration(ctx context.Context, clinicID uint, serviceID uint) (int, error)
}

// EnsureDoctor fails with "doctor_not_found" unless doctorID belongs to clinicID.
func EnsureDoctor(ctx context.Context, dir Directory, clinicID uint, doctorID uint) error {
	if doctorID == 0 {
		return httperr.ErrBusiness("doctor_not_found")
	}
	ok, err := dir.DoctorExists(ctx, clinicID, doctorID)
	if err != nil {
		return httperr.ErrCollaborator("doctor directory", err)
	}
	if !ok {
		return httperr.ErrBusiness("doctor_not_found")
	}
	return nil
}
