package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	ucunavailability "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/unavailability"
)

// ======================================================
// HANDLER
// ======================================================

type UnavailabilityHandler struct {
	workflow *ucunavailability.Workflow
	loc      *time.Location
}

func NewUnavailabilityHandler(workflow *ucunavailability.Workflow, loc *time.Location) *UnavailabilityHandler {
	return &UnavailabilityHandler{
		workflow: workflow,
		loc:      loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UnavailabilityRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`

	// EndDate defaults to StartDate.
	EndDate string `json:"end_date"`
	EndTime string `json:"end_time" binding:"required"`

	Reason          string `json:"reason"`
	IgnoreConflicts bool   `json:"ignore_conflicts"`
}

type ResolveConflictRequest struct {
	AppointmentID uint   `json:"appointment_id" binding:"required"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`
}

// input binds the request body into a workflow input. On failure the
// response is already written.
func (h *UnavailabilityHandler) input(c *gin.Context, doctorID uint) (ucunavailability.Input, bool) {
	clinicID, userID := scope(c)

	var req UnavailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return ucunavailability.Input{}, false
	}
	if req.EndDate == "" {
		req.EndDate = req.StartDate
	}

	start, err := parseDateTimeIn(h.loc, req.StartDate, req.StartTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return ucunavailability.Input{}, false
	}
	end, err := parseDateTimeIn(h.loc, req.EndDate, req.EndTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return ucunavailability.Input{}, false
	}

	return ucunavailability.Input{
		ClinicID:        clinicID,
		DoctorID:        doctorID,
		Start:           start,
		End:             end,
		Reason:          req.Reason,
		IgnoreConflicts: req.IgnoreConflicts,
		ActorID:         &userID,
	}, true
}

// writeAttempt answers 409 while conflicts are pending so the client can
// show them, and okStatus once the window is stored.
func writeAttempt(c *gin.Context, a *ucunavailability.Attempt, okStatus int) {
	if a.State == ucunavailability.StateConflictPresented {
		c.JSON(http.StatusConflict, a)
		return
	}
	c.JSON(okStatus, a)
}

func attemptParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("attemptId"))
	if err != nil {
		httperr.BadRequest(c, "invalid_attempt_id", "Tentativa inválida.")
		return uuid.Nil, false
	}
	return id, true
}

// ======================================================
// WINDOWS
// ======================================================

func (h *UnavailabilityHandler) List(c *gin.Context) {
	clinicID, _ := scope(c)

	doctorID, ok := uintParam(c, "doctorId")
	if !ok {
		return
	}

	out, err := h.workflow.ListWindows(c.Request.Context(), clinicID, doctorID)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *UnavailabilityHandler) Create(c *gin.Context) {
	doctorID, ok := uintParam(c, "doctorId")
	if !ok {
		return
	}
	in, ok := h.input(c, doctorID)
	if !ok {
		return
	}

	a, err := h.workflow.AttemptCreate(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	writeAttempt(c, a, http.StatusCreated)
}

func (h *UnavailabilityHandler) Update(c *gin.Context) {
	doctorID, ok := uintParam(c, "doctorId")
	if !ok {
		return
	}
	windowID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	in, ok := h.input(c, doctorID)
	if !ok {
		return
	}
	in.WindowID = windowID

	a, err := h.workflow.AttemptCreate(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	writeAttempt(c, a, http.StatusOK)
}

func (h *UnavailabilityHandler) Delete(c *gin.Context) {
	clinicID, userID := scope(c)

	doctorID, ok := uintParam(c, "doctorId")
	if !ok {
		return
	}
	windowID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.workflow.DeleteWindow(c.Request.Context(), clinicID, userID, doctorID, windowID); err != nil {
		writeError(c, err)
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// ATTEMPTS
// ======================================================

func (h *UnavailabilityHandler) GetAttempt(c *gin.Context) {
	clinicID, _ := scope(c)

	id, ok := attemptParam(c)
	if !ok {
		return
	}

	a, err := h.workflow.Get(c.Request.Context(), clinicID, id)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, a)
}

// Resolve moves one conflicting appointment. A refused target comes back
// as 200 with an invalid verdict; the attempt stays open.
func (h *UnavailabilityHandler) Resolve(c *gin.Context) {
	clinicID, _ := scope(c)

	id, ok := attemptParam(c)
	if !ok {
		return
	}

	var req ResolveConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	newStart, err := parseDateTimeIn(h.loc, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	res, err := h.workflow.ResolveOneConflict(c.Request.Context(), clinicID, id, req.AppointmentID, newStart)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *UnavailabilityHandler) Force(c *gin.Context) {
	clinicID, _ := scope(c)

	id, ok := attemptParam(c)
	if !ok {
		return
	}

	a, err := h.workflow.Force(c.Request.Context(), clinicID, id)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, a)
}

func (h *UnavailabilityHandler) CancelAttempt(c *gin.Context) {
	clinicID, _ := scope(c)

	id, ok := attemptParam(c)
	if !ok {
		return
	}

	a, err := h.workflow.Cancel(c.Request.Context(), clinicID, id)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, a)
}
