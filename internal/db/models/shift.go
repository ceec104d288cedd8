package models

import "time"

// Shift is a named working period. Times are wall clock "HH:MM" in school local time.
type Shift struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"unique;size:100;not null" json:"name"`
	StartTime string    `gorm:"size:5;not null" json:"start_time"`
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Shift model.
func (Shift) TableName() string {
	return "shifts"
}
