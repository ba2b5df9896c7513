package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
)

const (
	defaultAuditPage = 50
	maxAuditPage     = 200
)

type AuditLogsHandler struct {
	logs *audit.Logger
	loc  *time.Location
}

func NewAuditLogsHandler(logs *audit.Logger, loc *time.Location) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs, loc: loc}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	clinicID, _ := scope(c)

	page := max(intQuery(c, "page"), 1)

	limit := intQuery(c, "limit")
	if limit <= 0 || limit > maxAuditPage {
		limit = defaultAuditPage
	}

	// --------------------------------------------------
	// Filtros opcionais (sempre dentro da clínica)
	// --------------------------------------------------
	f := audit.Filter{
		ClinicID: clinicID,
		Action:   c.Query("action"),
		Entity:   c.Query("entity"),
		EntityID: uintQuery(c, "entity_id"),
		Page:     page,
		Limit:    limit,
	}

	// datas inválidas são ignoradas
	if from, err := schedule.ParseDate(c.Query("from")); err == nil {
		f.From = from.Start(h.loc)
	}
	if to, err := schedule.ParseDate(c.Query("to")); err == nil {
		f.To = to.AddDays(1).Start(h.loc)
	}

	logs, total, err := h.logs.List(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	httpresp.Page(c, logs, total, page, limit)
}
