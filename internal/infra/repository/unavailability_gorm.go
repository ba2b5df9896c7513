package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/unavailability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type UnavailabilityGormRepository struct {
	db *gorm.DB
}

func NewUnavailabilityGormRepository(db *gorm.DB) *UnavailabilityGormRepository {
	return &UnavailabilityGormRepository{db: db}
}

func toWindow(m models.Unavailability) domain.Window {
	return domain.Window{
		ID:       m.ID,
		ClinicID: m.ClinicID,
		DoctorID: m.DoctorID,
		Start:    m.StartTime,
		End:      m.EndTime,
		Reason:   m.Reason,
	}
}

func (r *UnavailabilityGormRepository) Create(ctx context.Context, w *domain.Window) error {
	m := models.Unavailability{
		ClinicID:  w.ClinicID,
		DoctorID:  w.DoctorID,
		StartTime: w.Start,
		EndTime:   w.End,
		Reason:    w.Reason,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	w.ID = m.ID
	return nil
}

func (r *UnavailabilityGormRepository) Update(ctx context.Context, w *domain.Window) error {
	res := r.db.WithContext(ctx).
		Model(&models.Unavailability{}).
		Where("id = ? AND doctor_id = ?", w.ID, w.DoctorID).
		Updates(map[string]any{
			"start_time": w.Start,
			"end_time":   w.End,
			"reason":     w.Reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("unavailability_not_found")
	}
	return nil
}

func (r *UnavailabilityGormRepository) Delete(ctx context.Context, doctorID uint, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND doctor_id = ?", id, doctorID).
		Delete(&models.Unavailability{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("unavailability_not_found")
	}
	return nil
}

func (r *UnavailabilityGormRepository) Get(ctx context.Context, doctorID uint, id uint) (*domain.Window, error) {
	var m models.Unavailability
	err := r.db.WithContext(ctx).
		Where("id = ? AND doctor_id = ?", id, doctorID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("unavailability_not_found")
	}
	if err != nil {
		return nil, err
	}

	w := toWindow(m)
	return &w, nil
}

func (r *UnavailabilityGormRepository) ListForDoctor(ctx context.Context, doctorID uint) ([]domain.Window, error) {
	var rows []models.Unavailability
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Window, 0, len(rows))
	for _, m := range rows {
		out = append(out, toWindow(m))
	}
	return out, nil
}

// ListOverlapping widens the range by one hour, since a window keeps
// blocking until the end of its last clock hour. Which hour that is depends
// on the clinic zone, so the exact trim is left to the caller.
func (r *UnavailabilityGormRepository) ListOverlapping(
	ctx context.Context,
	doctorID uint,
	from time.Time,
	to time.Time,
) ([]domain.Window, error) {

	var rows []models.Unavailability
	if err := r.db.WithContext(ctx).
		Where(
			"doctor_id = ? AND start_time < ? AND end_time > ?",
			doctorID, to, from.Add(-time.Hour),
		).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Window, 0, len(rows))
	for _, m := range rows {
		out = append(out, toWindow(m))
	}
	return out, nil
}

var _ domain.Repository = (*UnavailabilityGormRepository)(nil)
