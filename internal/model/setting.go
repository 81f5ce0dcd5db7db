package model

import "time"

type Setting struct {
	Key       string    `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `gorm:"type:varchar(64)" json:"updated_by,omitempty"`
}

// DefaultSettings are created when missing; existing values are never overwritten
var DefaultSettings = []Setting{
	{Key: "site_name", Value: "DevMarket Philippines"},
	{Key: "contact_email", Value: "support@devmarket.ph"},
	{Key: "support_phone", Value: ""},
	{Key: "maintenance_mode", Value: "false"},
}
