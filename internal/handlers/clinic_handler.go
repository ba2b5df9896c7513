package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ClinicHandler serves the clinic catalog the calendar needs around the
// engine: the clinic itself, its doctors and its services.
type ClinicHandler struct {
	db    *gorm.DB
	rules availability.Rules
}

func NewClinicHandler(db *gorm.DB, rules availability.Rules) *ClinicHandler {
	return &ClinicHandler{db: db, rules: rules}
}

func (h *ClinicHandler) Get(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var clinic models.Clinic
	if err := h.db.WithContext(c.Request.Context()).First(&clinic, clinicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "clinic_not_found", "Clínica não encontrada.")
			return
		}
		httperr.Internal(c, "failed_to_get_clinic", "Erro ao buscar dados da clínica.")
		return
	}

	httpresp.OK(c, gin.H{
		"clinic": clinic,
		"scheduling": gin.H{
			"timezone":            h.rules.Location.String(),
			"min_advance_minutes": int(h.rules.MinAdvance.Minutes()),
		},
	})
}

// ======================================================
// DOCTORS
// ======================================================

func (h *ClinicHandler) Doctors(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Where("clinic_id = ? AND active = ?", clinicID, true)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(specialty) LIKE ?", like, like)
	}

	var doctors []models.Doctor
	if err := q.Order("name ASC").Find(&doctors).Error; err != nil {
		httperr.Internal(c, "failed_to_list_doctors", "Erro ao listar médicos.")
		return
	}

	httpresp.List(c, doctors)
}

// ======================================================
// SERVICES
// ======================================================

func (h *ClinicHandler) Services(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	q := h.db.WithContext(c.Request.Context()).Where("clinic_id = ?", clinicID)

	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	httpresp.List(c, services)
}
