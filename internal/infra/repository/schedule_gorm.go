package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Semana recorrente
// --------------------------------------------------

func (r *ScheduleGormRepository) BlockedWeekdays(
	ctx context.Context,
	doctorID uint,
) (schedule.WeekdaySet, error) {

	var rows []models.BlockedWeekday
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Find(&rows).Error; err != nil {
		return 0, err
	}

	var set schedule.WeekdaySet
	for _, row := range rows {
		set = set.With(time.Weekday(row.Weekday))
	}
	return set, nil
}

func (r *ScheduleGormRepository) SetBlockedWeekdays(
	ctx context.Context,
	doctorID uint,
	set schedule.WeekdaySet,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_id = ?", doctorID).
			Delete(&models.BlockedWeekday{}).Error; err != nil {
			return err
		}

		days := set.Days()
		if len(days) == 0 {
			return nil
		}

		rows := make([]models.BlockedWeekday, 0, len(days))
		for _, d := range days {
			rows = append(rows, models.BlockedWeekday{DoctorID: doctorID, Weekday: int(d)})
		}
		return tx.Create(&rows).Error
	})
}

func (r *ScheduleGormRepository) WorkSchedules(
	ctx context.Context,
	doctorID uint,
) ([]schedule.WorkSchedule, error) {

	var rows []models.WorkSchedule
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("weekday ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]schedule.WorkSchedule, 0, len(rows))
	for _, row := range rows {
		ws, err := toWorkSchedule(row)
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	return out, nil
}

// ReplaceWorkSchedules swaps the whole weekly grid of a doctor.
func (r *ScheduleGormRepository) ReplaceWorkSchedules(
	ctx context.Context,
	doctorID uint,
	grid []schedule.WorkSchedule,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_id = ?", doctorID).
			Delete(&models.WorkSchedule{}).Error; err != nil {
			return err
		}

		if len(grid) == 0 {
			return nil
		}

		rows := make([]models.WorkSchedule, 0, len(grid))
		for _, ws := range grid {
			row := models.WorkSchedule{
				DoctorID:  doctorID,
				Weekday:   int(ws.Weekday),
				StartTime: ws.Start.String(),
				EndTime:   ws.End.String(),
				Active:    ws.Active,
			}
			if ws.HasBreak() {
				row.BreakStart = ws.BreakStart.String()
				row.BreakEnd = ws.BreakEnd.String()
			}
			rows = append(rows, row)
		}
		return tx.Create(&rows).Error
	})
}

func toWorkSchedule(row models.WorkSchedule) (schedule.WorkSchedule, error) {
	ws := schedule.WorkSchedule{
		DoctorID: row.DoctorID,
		Weekday:  time.Weekday(row.Weekday),
		Active:   row.Active,
	}

	var err error
	if ws.Start, err = schedule.ParseLocalTime(row.StartTime); err != nil {
		return ws, fmt.Errorf("work schedule %d: %w", row.ID, err)
	}
	if ws.End, err = schedule.ParseLocalTime(row.EndTime); err != nil {
		return ws, fmt.Errorf("work schedule %d: %w", row.ID, err)
	}

	if row.BreakStart != "" && row.BreakEnd != "" {
		bs, err := schedule.ParseLocalTime(row.BreakStart)
		if err != nil {
			return ws, fmt.Errorf("work schedule %d: %w", row.ID, err)
		}
		be, err := schedule.ParseLocalTime(row.BreakEnd)
		if err != nil {
			return ws, fmt.Errorf("work schedule %d: %w", row.ID, err)
		}
		ws.BreakStart, ws.BreakEnd = &bs, &be
	}

	return ws, nil
}

// --------------------------------------------------
// Exceções de intervalo
// --------------------------------------------------

// BreakExceptions returns the doctor's exceptions and the ones of the
// doctor's clinic for dates in [from, to].
func (r *ScheduleGormRepository) BreakExceptions(
	ctx context.Context,
	doctorID uint,
	from schedule.Date,
	to schedule.Date,
) ([]schedule.BreakException, error) {

	clinicOfDoctor := r.db.Model(&models.Doctor{}).
		Select("clinic_id").
		Where("id = ?", doctorID)

	var rows []models.BreakException
	if err := r.db.WithContext(ctx).
		Where(
			"((owner_kind = ? AND owner_id = ?) OR (owner_kind = ? AND owner_id = (?))) AND date >= ? AND date <= ?",
			string(schedule.OwnerDoctor), doctorID,
			string(schedule.OwnerClinic), clinicOfDoctor,
			from.String(), to.String(),
		).
		Order("date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return toBreakExceptions(rows)
}

// ListOwnerExceptions lists the exceptions an owner created itself.
func (r *ScheduleGormRepository) ListOwnerExceptions(
	ctx context.Context,
	kind schedule.OwnerKind,
	ownerID uint,
	from schedule.Date,
	to schedule.Date,
) ([]schedule.BreakException, error) {

	var rows []models.BreakException
	if err := r.db.WithContext(ctx).
		Where(
			"owner_kind = ? AND owner_id = ? AND date >= ? AND date <= ?",
			string(kind), ownerID, from.String(), to.String(),
		).
		Order("date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return toBreakExceptions(rows)
}

func (r *ScheduleGormRepository) CreateBreakException(
	ctx context.Context,
	e *schedule.BreakException,
) error {

	row := models.BreakException{
		OwnerKind:  string(e.OwnerKind),
		OwnerID:    e.OwnerID,
		Date:       e.Date.String(),
		BreakStart: e.BreakStart.String(),
		BreakEnd:   e.BreakEnd.String(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}

	e.ID = row.ID
	e.CreatedAt = row.CreatedAt
	return nil
}

func toBreakExceptions(rows []models.BreakException) ([]schedule.BreakException, error) {
	out := make([]schedule.BreakException, 0, len(rows))
	for _, row := range rows {
		date, err := schedule.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("break exception %d: %w", row.ID, err)
		}
		bs, err := schedule.ParseLocalTime(row.BreakStart)
		if err != nil {
			return nil, fmt.Errorf("break exception %d: %w", row.ID, err)
		}
		be, err := schedule.ParseLocalTime(row.BreakEnd)
		if err != nil {
			return nil, fmt.Errorf("break exception %d: %w", row.ID, err)
		}

		out = append(out, schedule.BreakException{
			ID:         row.ID,
			OwnerKind:  schedule.OwnerKind(row.OwnerKind),
			OwnerID:    row.OwnerID,
			Date:       date,
			BreakStart: bs,
			BreakEnd:   be,
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, nil
}

var _ schedule.Source = (*ScheduleGormRepository)(nil)
