package models

import "time"

// Lokasi is a check-in location with a circular geofence.
type Lokasi struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"unique;size:150;not null" json:"name"`
	Latitude     float64   `gorm:"not null" json:"latitude"`
	Longitude    float64   `gorm:"not null" json:"longitude"`
	RadiusMeters uint      `gorm:"not null" json:"radius_meters"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Lokasi model.
func (Lokasi) TableName() string {
	return "lokasi"
}
