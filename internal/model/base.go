package model

import (
	"time"
)

// BaseModel handles the auto-increment ID and standard audit trails
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Audit User Tracking
	CreatedBy string `gorm:"type:varchar(64)" json:"created_by,omitempty"`
	UpdatedBy string `gorm:"type:varchar(64)" json:"updated_by,omitempty"`
}

// Stamp fills the audit fields for a write performed by actor.
func (base *BaseModel) Stamp(actor string) {
	if base.CreatedBy == "" {
		base.CreatedBy = actor
	}
	base.UpdatedBy = actor
}
