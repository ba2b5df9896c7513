package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	ucschedule "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/schedule"
)

type BreakExceptionHandler struct {
	uc *ucschedule.BreakExceptions
}

func NewBreakExceptionHandler(uc *ucschedule.BreakExceptions) *BreakExceptionHandler {
	return &BreakExceptionHandler{uc: uc}
}

type BreakExceptionRequest struct {
	Date       schedule.Date      `json:"date"`
	BreakStart schedule.LocalTime `json:"break_start"`
	BreakEnd   schedule.LocalTime `json:"break_end"`
}

func (h *BreakExceptionHandler) CreateForDoctor(c *gin.Context) {
	doctorID, ok := uintParam(c, "doctorId")
	if !ok {
		return
	}
	h.create(c, schedule.OwnerDoctor, doctorID)
}

// CreateForClinic applies to every doctor of the caller's clinic.
func (h *BreakExceptionHandler) CreateForClinic(c *gin.Context) {
	h.create(c, schedule.OwnerClinic, 0)
}

func (h *BreakExceptionHandler) create(c *gin.Context, kind schedule.OwnerKind, ownerID uint) {
	clinicID, userID := scope(c)

	var req BreakExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	e := &schedule.BreakException{
		OwnerKind:  kind,
		OwnerID:    ownerID,
		Date:       req.Date,
		BreakStart: req.BreakStart,
		BreakEnd:   req.BreakEnd,
	}
	if err := h.uc.Create(c.Request.Context(), clinicID, userID, e); err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, e)
}

func (h *BreakExceptionHandler) ListForDoctor(c *gin.Context) {
	clinicID, _ := scope(c)

	doctorID, ok := uintParam(c, "doctorId")
	if !ok {
		return
	}
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	out, err := h.uc.ListForDoctor(c.Request.Context(), clinicID, doctorID, from, to)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *BreakExceptionHandler) ListForClinic(c *gin.Context) {
	clinicID, _ := scope(c)

	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	out, err := h.uc.ListForClinic(c.Request.Context(), clinicID, from, to)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, out)
}

func dateRange(c *gin.Context) (schedule.Date, schedule.Date, bool) {
	from, ok := dateQuery(c, "from")
	if !ok {
		return schedule.Date{}, schedule.Date{}, false
	}
	to, ok := dateQuery(c, "to")
	if !ok {
		return schedule.Date{}, schedule.Date{}, false
	}
	return from, to, true
}
