package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/reschedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/observability/metrics"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
	ucSchedule "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/schedule"
	ucUnavailability "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/unavailability"
)

type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    zerolog.Logger
	Audit  *audit.Dispatcher

	// Redis keeps workflow attempts across instances; nil keeps them in
	// process memory.
	Redis *redis.Client

	// Registry defaults to the prometheus default registry.
	Registry *prometheus.Registry
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(d.Log))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins()))

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	directoryRepo := infraRepo.NewDirectoryGormRepository(d.DB)
	scheduleRepo := infraRepo.NewScheduleGormRepository(d.DB)
	unavailabilityRepo := infraRepo.NewUnavailabilityGormRepository(d.DB)

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	engineMetrics := metrics.NewEngineMetrics(registerer)

	var attempts ucUnavailability.AttemptStore
	if d.Redis != nil {
		attempts = cache.NewRedisAttemptStore(d.Redis, cfg.AttemptTTL)
	} else {
		attempts = ucUnavailability.NewMemoryAttemptStore(cfg.AttemptTTL)
	}

	// ======================================================
	// ENGINE
	// ======================================================
	detector := availability.NewDetector(
		schedule.NewResolver(scheduleRepo),
		unavailabilityRepo,
		appointmentRepo,
		availability.Config{
			Location:   cfg.Location(),
			MinAdvance: cfg.MinAdvance(),
			Now:        time.Now,
		},
		engineMetrics,
	)

	generator := reschedule.NewGenerator(detector, reschedule.Options{
		HorizonDays:     cfg.SuggestHorizonDays,
		MaxSlotsPerDay:  cfg.SuggestMaxSlotsPerDay,
		SlotStepMinutes: cfg.SlotStepMinutes,
		MaxHorizonDays:  cfg.SuggestMaxHorizonDays,
	}, engineMetrics)

	workflow := ucUnavailability.NewWorkflow(ucUnavailability.Deps{
		Windows:   unavailabilityRepo,
		Ledger:    appointmentRepo,
		Directory: directoryRepo,
		Detector:  detector,
		Generator: generator,
		Store:     attempts,
		Audit:     d.Audit,
		Metrics:   engineMetrics,
		Log:       d.Log,
	})

	// ======================================================
	// USE CASES
	// ======================================================
	effectiveUC := ucAppointment.NewGetEffectiveSchedule(directoryRepo, detector)
	checkSlotUC := ucAppointment.NewCheckSlot(directoryRepo, detector)
	availabilityUC := ucAppointment.NewGetAvailability(directoryRepo, generator)
	doctorDayUC := ucAppointment.NewGetDoctorDay(directoryRepo, detector)
	suggestUC := ucAppointment.NewSuggestReschedule(appointmentRepo, generator)
	cancelUC := ucAppointment.NewCancelAppointment(appointmentRepo, d.Audit, time.Now)
	finalizeUC := ucAppointment.NewFinalizeAppointment(appointmentRepo, d.Audit, time.Now)

	workingHoursUC := ucSchedule.NewWorkingHours(scheduleRepo, directoryRepo, d.Audit)
	breakExceptionsUC := ucSchedule.NewBreakExceptions(scheduleRepo, directoryRepo, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	availabilityHandler := handlers.NewAvailabilityHandler(effectiveUC, checkSlotUC, availabilityUC, doctorDayUC, cfg.Location())
	workingHoursHandler := handlers.NewWorkingHoursHandler(workingHoursUC)
	breakExceptionHandler := handlers.NewBreakExceptionHandler(breakExceptionsUC)
	unavailabilityHandler := handlers.NewUnavailabilityHandler(workflow, cfg.Location())
	appointmentHandler := handlers.NewAppointmentHandler(suggestUC, cancelUC, finalizeUC)
	clinicHandler := handlers.NewClinicHandler(d.DB, detector.Rules())
	auditLogsHandler := handlers.NewAuditLogsHandler(audit.New(d.DB), cfg.Location())

	// ======================================================
	// PÚBLICO
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// ======================================================
	// API PRIVADA
	// ======================================================
	secured := r.Group("/api")
	secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		secured.GET("/clinic", clinicHandler.Get)
		secured.GET("/doctors", clinicHandler.Doctors)
		secured.GET("/services", clinicHandler.Services)

		// ------------------------------
		// AGENDA DO MÉDICO
		// ------------------------------
		doctor := secured.Group("/doctors/:doctorId")
		{
			doctor.GET("/effective-schedule", availabilityHandler.EffectiveSchedule)
			doctor.POST("/check-slot", availabilityHandler.CheckSlot)
			doctor.GET("/available-slots", availabilityHandler.AvailableSlots)
			doctor.GET("/day", availabilityHandler.Day)

			doctor.GET("/working-hours", workingHoursHandler.Get)
			doctor.PUT("/working-hours", workingHoursHandler.Update)

			doctor.GET("/break-exceptions", breakExceptionHandler.ListForDoctor)
			doctor.POST("/break-exceptions", breakExceptionHandler.CreateForDoctor)

			doctor.GET("/unavailability", unavailabilityHandler.List)
			doctor.POST("/unavailability", unavailabilityHandler.Create)
			doctor.PUT("/unavailability/:id", unavailabilityHandler.Update)
			doctor.DELETE("/unavailability/:id", unavailabilityHandler.Delete)
		}

		secured.GET("/clinic/break-exceptions", breakExceptionHandler.ListForClinic)
		secured.POST("/clinic/break-exceptions", breakExceptionHandler.CreateForClinic)

		// ------------------------------
		// CONFLITOS DE INDISPONIBILIDADE
		// ------------------------------
		attemptRoutes := secured.Group("/unavailability/attempts/:attemptId")
		{
			attemptRoutes.GET("", unavailabilityHandler.GetAttempt)
			attemptRoutes.POST("/resolve", unavailabilityHandler.Resolve)
			attemptRoutes.POST("/force", unavailabilityHandler.Force)
			attemptRoutes.DELETE("", unavailabilityHandler.CancelAttempt)
		}

		// ------------------------------
		// CONSULTAS
		// ------------------------------
		secured.GET("/appointments/:id/suggestions", appointmentHandler.Suggestions)
		secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
		secured.PATCH("/appointments/:id/finalize", appointmentHandler.Finalize)

		secured.GET("/audit-logs", auditLogsHandler.List)
	}
}
