package models

import "time"

// AuditLog is one entry of a clinic's trail. Metadata holds the event
// payload as JSON text.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClinicID uint   `gorm:"not null;index:idx_audit_clinic_created,priority:1" json:"clinic_id"`
	UserID   *uint  `json:"user_id,omitempty"`
	Action   string `gorm:"size:60;not null;index" json:"action"`

	Entity   string `gorm:"size:40;index:idx_audit_entity,priority:1" json:"entity"`
	EntityID *uint  `gorm:"index:idx_audit_entity,priority:2" json:"entity_id,omitempty"`
	Metadata string `gorm:"type:jsonb" json:"metadata"`

	CreatedAt time.Time `gorm:"index:idx_audit_clinic_created,priority:2" json:"created_at"`
}
