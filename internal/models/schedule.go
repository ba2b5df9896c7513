package models

import "time"

// WorkSchedule guarda os horários como "HH:MM" no fuso da clínica.
type WorkSchedule struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	DoctorID uint `gorm:"uniqueIndex:idx_work_schedule_day" json:"doctor_id"`

	Weekday int `gorm:"uniqueIndex:idx_work_schedule_day" json:"weekday"`

	StartTime  string `gorm:"size:5" json:"start_time"`
	EndTime    string `gorm:"size:5" json:"end_time"`
	BreakStart string `gorm:"size:5" json:"break_start"`
	BreakEnd   string `gorm:"size:5" json:"break_end"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BlockedWeekday struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	DoctorID uint `gorm:"uniqueIndex:idx_blocked_weekday" json:"doctor_id"`
	Weekday  int  `gorm:"uniqueIndex:idx_blocked_weekday" json:"weekday"`

	CreatedAt time.Time `json:"created_at"`
}

// BreakException troca o intervalo de uma data. OwnerKind é "doctor" ou
// "clinic"; a linha mais recente vence.
type BreakException struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OwnerKind string `gorm:"size:10;index:idx_break_exception_owner" json:"owner_kind"`
	OwnerID   uint   `gorm:"index:idx_break_exception_owner" json:"owner_id"`

	Date       string `gorm:"size:10;index" json:"date"`
	BreakStart string `gorm:"size:5" json:"break_start"`
	BreakEnd   string `gorm:"size:5" json:"break_end"`

	CreatedAt time.Time `json:"created_at"`
}
