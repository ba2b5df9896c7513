package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func toAppointment(m models.Appointment) domain.Appointment {
	return domain.Appointment{
		ID:              m.ID,
		ClinicID:        m.ClinicID,
		DoctorID:        m.DoctorID,
		PatientID:       m.PatientID,
		ServiceID:       m.ServiceID,
		Start:           m.StartTime,
		DurationMinutes: int(m.EndTime.Sub(m.StartTime) / time.Minute),
		Status:          domain.Status(m.Status),
		IsFitIn:         m.IsFitIn,
	}
}

func toAppointments(rows []models.Appointment) []domain.Appointment {
	out := make([]domain.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, toAppointment(m))
	}
	return out
}

// --------------------------------------------------
// Leitura
// --------------------------------------------------

func (r *AppointmentGormRepository) ListForDoctor(
	ctx context.Context,
	doctorID uint,
	from time.Time,
	to time.Time,
) ([]domain.Appointment, error) {

	var rows []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"doctor_id = ? AND status <> ? AND start_time >= ? AND start_time < ?",
			doctorID, string(domain.StatusCancelled), from, to,
		).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return toAppointments(rows), nil
}

func (r *AppointmentGormRepository) ListIntersecting(
	ctx context.Context,
	doctorID uint,
	from time.Time,
	to time.Time,
) ([]domain.Appointment, error) {

	var rows []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"doctor_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			doctorID, string(domain.StatusCancelled), to, from,
		).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return toAppointments(rows), nil
}

func (r *AppointmentGormRepository) Get(
	ctx context.Context,
	clinicID uint,
	appointmentID uint,
) (*domain.Appointment, error) {

	var m models.Appointment
	err := r.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", appointmentID, clinicID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if err != nil {
		return nil, err
	}

	ap := toAppointment(m)
	return &ap, nil
}

// --------------------------------------------------
// Escrita
// --------------------------------------------------

// Reschedule locks the appointment and every committed appointment that
// would overlap the new interval before writing. The exclusion constraint
// on appointments catches whatever slips past the lock.
func (r *AppointmentGormRepository) Reschedule(
	ctx context.Context,
	appointmentID uint,
	newStart time.Time,
) (*domain.Appointment, error) {

	var out domain.Appointment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var m models.Appointment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, appointmentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrBusiness("appointment_not_found")
		}
		if err != nil {
			return err
		}

		ap := toAppointment(m)
		if err := domain.Reschedule(&ap, newStart); err != nil {
			return err
		}
		newEnd := ap.End()

		if !m.IsFitIn {
			var ids []uint
			if err := tx.Model(&models.Appointment{}).
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where(
					"doctor_id = ? AND id <> ? AND status <> ? AND is_fit_in = ? AND start_time < ? AND end_time > ?",
					m.DoctorID, m.ID, string(domain.StatusCancelled), false, newEnd, newStart,
				).
				Pluck("id", &ids).Error; err != nil {
				return err
			}
			if len(ids) > 0 {
				return httperr.ErrBusiness("time_conflict")
			}
		}

		if err := tx.Model(&m).Updates(map[string]any{
			"start_time": newStart,
			"end_time":   newEnd,
		}).Error; err != nil {
			if httperr.IsExclusionConflict(err) {
				return httperr.ErrBusiness("time_conflict")
			}
			return err
		}

		out = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (r *AppointmentGormRepository) UpdateStatus(
	ctx context.Context,
	appointmentID uint,
	status domain.Status,
	at time.Time,
) error {

	updates := map[string]any{"status": string(status)}
	switch status {
	case domain.StatusCancelled:
		updates["cancelled_at"] = at
	case domain.StatusFinalized:
		updates["finalized_at"] = at
	}

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", appointmentID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("appointment_not_found")
	}
	return nil
}

// Compile-time check
var _ domain.Ledger = (*AppointmentGormRepository)(nil)
