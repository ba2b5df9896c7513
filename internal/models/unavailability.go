package models

import "time"

type Unavailability struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `gorm:"index" json:"clinic_id"`
	DoctorID uint `gorm:"index:idx_unavailability_doctor_time" json:"doctor_id"`

	StartTime time.Time `gorm:"index:idx_unavailability_doctor_time" json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Reason    string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Unavailability) TableName() string {
	return "unavailabilities"
}
