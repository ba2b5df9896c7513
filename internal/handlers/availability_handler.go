package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	ucappointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	effective *ucappointment.GetEffectiveSchedule
	checkSlot *ucappointment.CheckSlot
	slots     *ucappointment.GetAvailability
	day       *ucappointment.GetDoctorDay
	loc       *time.Location
}

func NewAvailabilityHandler(
	effective *ucappointment.GetEffectiveSchedule,
	checkSlot *ucappointment.CheckSlot,
	slots *ucappointment.GetAvailability,
	day *ucappointment.GetDoctorDay,
	loc *time.Location,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		effective: effective,
		checkSlot: checkSlot,
		slots:     slots,
		day:       day,
		loc:       loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CheckSlotRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`

	DurationMinutes int  `json:"duration_minutes"`
	ServiceID       uint `json:"service_id"`

	ExcludeAppointmentID uint `json:"exclude_appointment_id"`
	IsFitIn              bool `json:"is_fit_in"`
}

// ======================================================
// EFFECTIVE SCHEDULE
// ======================================================

func (h *AvailabilityHandler) EffectiveSchedule(c *gin.Context) {
	clinicID, _ := scope(c)

	doctorID, ok := uintParam(c, "doctorId")
	if !ok {
		return
	}
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}

	eff, err := h.effective.Execute(c.Request.Context(), clinicID, doctorID, date)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"date":     date,
		"working":  eff != nil,
		"schedule": eff,
	})
}

// ======================================================
// CHECK SLOT
// ======================================================

func (h *AvailabilityHandler) CheckSlot(c *gin.Context) {
	clinicID, _ := scope(c)

	doctorID, ok := uintParam(c, "doctorId")
	if !ok {
		return
	}

	var req CheckSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	start, err := parseDateTimeIn(h.loc, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	verdict, err := h.checkSlot.Execute(c.Request.Context(), ucappointment.CheckSlotInput{
		ClinicID:             clinicID,
		DoctorID:             doctorID,
		Start:                start,
		DurationMinutes:      req.DurationMinutes,
		ServiceID:            req.ServiceID,
		ExcludeAppointmentID: req.ExcludeAppointmentID,
		IsFitIn:              req.IsFitIn,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, verdict)
}

// ======================================================
// AVAILABLE SLOTS
// ======================================================

func (h *AvailabilityHandler) AvailableSlots(c *gin.Context) {
	clinicID, _ := scope(c)

	doctorID, ok := uintParam(c, "doctorId")
	if !ok {
		return
	}
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}

	serviceID := uintQuery(c, "service_id")
	if serviceID == 0 {
		httperr.BadRequest(c, "missing_service_id", "Informe o serviço.")
		return
	}

	slots, err := h.slots.Execute(c.Request.Context(), ucappointment.AvailabilityInput{
		ClinicID:    clinicID,
		DoctorID:    doctorID,
		ServiceID:   serviceID,
		Date:        date,
		StepMinutes: intQuery(c, "step"),
		IsFitIn:     c.Query("fit_in") == "true",
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"date":  date,
		"slots": slots,
	})
}

// ======================================================
// DAY
// ======================================================

func (h *AvailabilityHandler) Day(c *gin.Context) {
	clinicID, _ := scope(c)

	doctorID, ok := uintParam(c, "doctorId")
	if !ok {
		return
	}
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}

	day, err := h.day.Execute(c.Request.Context(), clinicID, doctorID, date)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, day)
}
