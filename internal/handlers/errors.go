package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
)

func writeError(c *gin.Context, err error) {
	httperr.Respond(c, err)
}

func scope(c *gin.Context) (clinicID uint, userID uint) {
	return c.MustGet(middleware.ContextClinicID).(uint), c.MustGet(middleware.ContextUserID).(uint)
}
