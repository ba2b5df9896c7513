package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/reschedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	ucappointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	suggest  *ucappointment.SuggestReschedule
	cancel   *ucappointment.CancelAppointment
	finalize *ucappointment.FinalizeAppointment
}

func NewAppointmentHandler(
	suggest *ucappointment.SuggestReschedule,
	cancel *ucappointment.CancelAppointment,
	finalize *ucappointment.FinalizeAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		suggest:  suggest,
		cancel:   cancel,
		finalize: finalize,
	}
}

// ======================================================
// SUGGESTIONS
// ======================================================

func (h *AppointmentHandler) Suggestions(c *gin.Context) {
	clinicID, _ := scope(c)

	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	s, err := h.suggest.Execute(c.Request.Context(), clinicID, id, reschedule.Options{
		HorizonDays:     intQuery(c, "horizon_days"),
		MaxSlotsPerDay:  intQuery(c, "max_slots_per_day"),
		SlotStepMinutes: intQuery(c, "step"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, s)
}

// ======================================================
// CANCEL / FINALIZE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	clinicID, userID := scope(c)

	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), clinicID, userID, id)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Finalize(c *gin.Context) {
	clinicID, userID := scope(c)

	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.finalize.Execute(c.Request.Context(), clinicID, userID, id)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, ap)
}
