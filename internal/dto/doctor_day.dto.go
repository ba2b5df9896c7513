package dto

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

type AppointmentListDTO struct {
	ID        uint      `json:"id"`
	PatientID uint      `json:"patient_id"`
	ServiceID uint      `json:"service_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	IsFitIn   bool      `json:"is_fit_in"`
}

type UnavailabilityDTO struct {
	ID     uint      `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Reason string    `json:"reason,omitempty"`

	// BlockedUntil is where booking becomes possible again.
	BlockedUntil time.Time `json:"blocked_until"`
}

// DoctorDayDTO is what the calendar needs to draw one doctor's day.
type DoctorDayDTO struct {
	DoctorID       uint                        `json:"doctor_id"`
	Date           schedule.Date               `json:"date"`
	Schedule       *schedule.EffectiveSchedule `json:"schedule"`
	Appointments   []AppointmentListDTO        `json:"appointments"`
	Unavailability []UnavailabilityDTO         `json:"unavailability"`
}
