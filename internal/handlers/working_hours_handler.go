package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	ucschedule "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/schedule"
)

type WorkingHoursHandler struct {
	uc *ucschedule.WorkingHours
}

func NewWorkingHoursHandler(uc *ucschedule.WorkingHours) *WorkingHoursHandler {
	return &WorkingHoursHandler{uc: uc}
}

type WorkingDayConfig struct {
	Weekday    *int                `json:"weekday" binding:"required,min=0,max=6"`
	Active     bool                `json:"active"`
	StartTime  schedule.LocalTime  `json:"start_time"`
	EndTime    schedule.LocalTime  `json:"end_time"`
	BreakStart *schedule.LocalTime `json:"break_start"`
	BreakEnd   *schedule.LocalTime `json:"break_end"`
}

type WorkingHoursUpdateRequest struct {
	Days            []WorkingDayConfig `json:"days" binding:"required,dive"`
	BlockedWeekdays []int              `json:"blocked_weekdays"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	clinicID, _ := scope(c)

	doctorID, ok := uintParam(c, "doctorId")
	if !ok {
		return
	}

	plan, err := h.uc.Get(c.Request.Context(), clinicID, doctorID)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, plan)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	clinicID, userID := scope(c)

	doctorID, ok := uintParam(c, "doctorId")
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	plan := ucschedule.WeeklyPlan{
		Days:    make([]schedule.WorkSchedule, 0, len(req.Days)),
		Blocked: make([]time.Weekday, 0, len(req.BlockedWeekdays)),
	}
	for _, d := range req.Days {
		plan.Days = append(plan.Days, schedule.WorkSchedule{
			Weekday:    time.Weekday(*d.Weekday),
			Active:     d.Active,
			Start:      d.StartTime,
			End:        d.EndTime,
			BreakStart: d.BreakStart,
			BreakEnd:   d.BreakEnd,
		})
	}
	for _, w := range req.BlockedWeekdays {
		plan.Blocked = append(plan.Blocked, time.Weekday(w))
	}

	if err := h.uc.Replace(c.Request.Context(), clinicID, userID, doctorID, plan); err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"status": "ok"})
}
