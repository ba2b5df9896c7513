package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type DirectoryGormRepository struct {
	db *gorm.DB
}

func NewDirectoryGormRepository(db *gorm.DB) *DirectoryGormRepository {
	return &DirectoryGormRepository{db: db}
}

func (r *DirectoryGormRepository) DoctorExists(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Where("id = ? AND clinic_id = ? AND active = ?", doctorID, clinicID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DirectoryGormRepository) ServiceDuration(
	ctx context.Context,
	clinicID uint,
	serviceID uint,
) (int, error) {

	var svc models.Service
	err := r.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ? AND active = ?", serviceID, clinicID, true).
		First(&svc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, httperr.ErrBusiness("service_not_found")
	}
	if err != nil {
		return 0, err
	}

	if svc.DurationMin <= 0 {
		return 0, httperr.ErrBusiness("invalid_duration")
	}
	return svc.DurationMin, nil
}

var _ domain.Directory = (*DirectoryGormRepository)(nil)
