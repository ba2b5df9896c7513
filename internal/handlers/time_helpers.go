package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// --------------------------------------------------
// Datas e horas no fuso da clínica
// --------------------------------------------------

func parseDateTimeIn(loc *time.Location, dateStr, timeStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", dateStr+" "+timeStr, loc)
}

// dateQuery reads a required YYYY-MM-DD query parameter. On failure the
// response is already written.
func dateQuery(c *gin.Context, name string) (schedule.Date, bool) {
	d, err := schedule.ParseDate(c.Query(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida. Use AAAA-MM-DD.")
		return schedule.Date{}, false
	}
	return d, true
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(v), true
}

func intQuery(c *gin.Context, name string) int {
	v, _ := strconv.Atoi(c.Query(name))
	return v
}

func uintQuery(c *gin.Context, name string) uint {
	v, _ := strconv.ParseUint(c.Query(name), 10, 64)
	return uint(v)
}
